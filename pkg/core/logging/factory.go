// ============================================================================
// arcus - Command catalog client for CloudStack-style APIs
// ============================================================================
//
// Package:     logging
// Description: Factory functions for component loggers
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Component name, attached to every record
	Name string

	// Log level (debug, info, warn, error)
	Level string

	// Output format: "json", "text" or "" to pick by terminal
	Format string

	// Destination (default: stderr, stdout carries command output)
	Output io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:  name,
		Level: "info",
	}
}

// Logger is a structured logger with key/value call sites
type Logger struct {
	slog  *slog.Logger
	name  string
	level Level
}

// NewLogger creates a logger from cfg
func NewLogger(cfg LoggerConfig) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := ParseLevel(cfg.Level)
	options := &slog.HandlerOptions{Level: level.slogLevel()}

	var handler slog.Handler
	switch resolveFormat(cfg.Format, output) {
	case "text":
		handler = slog.NewTextHandler(output, options)
	default:
		handler = slog.NewJSONHandler(output, options)
	}

	base := slog.New(handler)
	if cfg.Name != "" {
		base = base.With("logger", cfg.Name)
	}

	return &Logger{slog: base, name: cfg.Name, level: level}
}

// New creates a logger with the default configuration
func New(name string) *Logger {
	return NewLogger(DefaultLoggerConfig(name))
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewLogger(LoggerConfig{Output: io.Discard, Format: "text", Level: "error"})
}

// resolveFormat picks text output for terminals and JSON for pipes
func resolveFormat(format string, output io.Writer) string {
	if format == "json" || format == "text" {
		return format
	}
	if f, ok := output.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "text"
	}
	return "json"
}

// Name returns the component name
func (l *Logger) Name() string {
	return l.name
}

// Level returns the configured minimum level
func (l *Logger) Level() Level {
	return l.level
}

// WithField returns a logger that adds key=value to every record
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{slog: l.slog.With(key, value), name: l.name, level: l.level}
}

// WithFields returns a logger that adds all fields to every record
func (l *Logger) WithFields(fields Fields) *Logger {
	return &Logger{slog: l.slog.With(fields.toArgs()...), name: l.name, level: l.level}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.slog.Debug(msg, normalize(keysAndValues)...)
}

// Info logs an info message
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.slog.Info(msg, normalize(keysAndValues)...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.slog.Warn(msg, normalize(keysAndValues)...)
}

// Error logs an error message
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.slog.Error(msg, normalize(keysAndValues)...)
}

// normalize drops a trailing key without value and non-string keys
func normalize(keysAndValues []interface{}) []interface{} {
	if len(keysAndValues) == 0 {
		return nil
	}
	out := make([]interface{}, 0, len(keysAndValues))
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		out = append(out, key, keysAndValues[i+1])
	}
	return out
}
