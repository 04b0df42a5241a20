// ============================================================================
// arcus - Command catalog client for CloudStack-style APIs
// ============================================================================
//
// Package:     config
// Description: TOML configuration for catalog location, endpoint and HTTP
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	arcuserr "github.com/atistler/arcus/pkg/core/error"
	"github.com/atistler/arcus/pkg/core/version"
)

// Environment variables
const (
	EnvConfig  = "ARCUS_CONFIG"
	EnvAPIURI  = "ARCUS_API_URI"
	EnvCatalog = "ARCUS_CATALOG"
)

// Default timeouts of the request executor
const (
	DefaultConnectTimeout = 1 * time.Second
	DefaultReadTimeout    = 5 * time.Second
)

// ResponseFormats lists the logical response formats a caller may request
var ResponseFormats = []string{"json", "object", "yaml", "prettyjson", "xml", "prettyxml"}

// Config holds the complete client configuration
type Config struct {
	API     APIConfig     `toml:"api"`
	Catalog CatalogConfig `toml:"catalog"`
	HTTP    HTTPConfig    `toml:"http"`
	Log     LogConfig     `toml:"log"`

	// Path of the file the configuration was loaded from, empty for defaults
	Source string `toml:"-"`
}

// APIConfig holds the remote endpoint settings
type APIConfig struct {
	URI             string `toml:"uri"`
	DefaultResponse string `toml:"default_response"`
	Verbose         bool   `toml:"verbose"`
}

// CatalogConfig holds command catalog settings
type CatalogConfig struct {
	Path         string `toml:"path"`
	CacheDir     string `toml:"cache_dir"`
	DisableCache bool   `toml:"disable_cache"`
}

// HTTPConfig holds transport settings
type HTTPConfig struct {
	ConnectTimeout Duration `toml:"connect_timeout"`
	ReadTimeout    Duration `toml:"read_timeout"`
	RateLimit      float64  `toml:"rate_limit"`
	RateBurst      int      `toml:"rate_burst"`
	UserAgent      string   `toml:"user_agent"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, arcuserr.Configuration("config file not found: %s", path)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, arcuserr.Wrap(err, arcuserr.CodeConfiguration, "failed to parse config "+path)
	}
	cfg.Source = path

	cfg.applyDefaults()
	cfg.applyEnv()
	cfg.expandEnvVars()

	return &cfg, nil
}

// LoadFromEnv loads the file named by ARCUS_CONFIG or the first default
// location that exists. Without any file the defaults plus environment
// overrides are returned.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return Load(path)
	}

	for _, p := range defaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	cfg := Default()
	cfg.applyEnv()
	cfg.expandEnvVars()
	return cfg, nil
}

func defaultPaths() []string {
	paths := []string{
		"./configs/config.toml",
		"./arcus.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "arcus", "config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.API.DefaultResponse == "" {
		c.API.DefaultResponse = "json"
	}
	if c.HTTP.ConnectTimeout.Duration == 0 {
		c.HTTP.ConnectTimeout.Duration = DefaultConnectTimeout
	}
	if c.HTTP.ReadTimeout.Duration == 0 {
		c.HTTP.ReadTimeout.Duration = DefaultReadTimeout
	}
	if c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = 1
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = version.UserAgent("arcus")
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// applyEnv lets the environment override the endpoint and catalog
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIURI); v != "" {
		c.API.URI = v
	}
	if v := os.Getenv(EnvCatalog); v != "" {
		c.Catalog.Path = v
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.Catalog.Path = expandPath(c.Catalog.Path)
	c.Catalog.CacheDir = expandPath(c.Catalog.CacheDir)
}

func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// Validate checks the settings the registry build depends on
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return arcuserr.Configuration("catalog path required (set catalog.path or %s)", EnvCatalog)
	}
	if strings.TrimSpace(c.API.URI) == "" {
		return arcuserr.Configuration("api uri required (set api.uri or %s)", EnvAPIURI)
	}
	u, err := url.Parse(c.API.URI)
	if err != nil {
		return arcuserr.Wrap(err, arcuserr.CodeConfiguration, "invalid api uri "+c.API.URI)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return arcuserr.Configuration("invalid api uri %s: expected an absolute http(s) URL", c.API.URI)
	}
	if !IsResponseFormat(c.API.DefaultResponse) {
		return arcuserr.Configuration("unknown default response %q (valid: %s)",
			c.API.DefaultResponse, strings.Join(ResponseFormats, ", "))
	}
	if c.HTTP.RateLimit < 0 {
		return arcuserr.Configuration("http.rate_limit must not be negative")
	}
	return nil
}

// IsResponseFormat reports whether name is a known logical response format
func IsResponseFormat(name string) bool {
	for _, f := range ResponseFormats {
		if f == name {
			return true
		}
	}
	return false
}
