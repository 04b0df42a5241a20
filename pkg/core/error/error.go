// ============================================================================
// arcus - Command catalog client for CloudStack-style APIs
// ============================================================================
//
// Package:     error
// Description: Coded errors shared by the catalog, registry and client layers
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package error

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code classifies an error so callers can react without string matching
type Code string

const (
	CodeUnknown         Code = "UNKNOWN"
	CodeConfiguration   Code = "CONFIGURATION"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeMissingArgument Code = "MISSING_ARGUMENT"
	CodeUnknownAction   Code = "UNKNOWN_ACTION"
	CodeNetworkTimeout  Code = "NETWORK_TIMEOUT"
	CodeNetwork         Code = "NETWORK_ERROR"
	CodeRemote          Code = "REMOTE_ERROR"
	CodeDecode          Code = "DECODE_ERROR"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// Detail keys
const (
	DetailEndpoint  = "endpoint"
	DetailArguments = "arguments"
	DetailStatus    = "status"
	DetailBody      = "body"
	DetailFormat    = "format"
	DetailCommand   = "command"
	DetailPath      = "path"
)

// Error is a coded error with optional cause and details
type Error struct {
	code    Code
	message string
	cause   error
	details map[string]interface{}
}

// New creates an error with the given code and message
func New(code Code, message string) *Error {
	return &Error{
		code:    code,
		message: message,
		details: make(map[string]interface{}),
	}
}

// Newf creates an error with a formatted message
func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a code and message. Returns nil if err is nil.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.cause = err
	return e
}

// withCause is Wrap without the nil short-circuit
func withCause(err error, code Code, message string) *Error {
	e := New(code, message)
	e.cause = err
	return e
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error carrying the same code
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.code == e.code
}

// Code returns the error code
func (e *Error) Code() Code {
	return e.code
}

// Message returns the message without the cause chain
func (e *Error) Message() string {
	return e.message
}

// WithDetail attaches a detail value and returns the same error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.details[key] = value
	return e
}

// Detail returns a single detail value
func (e *Error) Detail(key string) (interface{}, bool) {
	v, ok := e.details[key]
	return v, ok
}

// Details returns a copy of all details
func (e *Error) Details() map[string]interface{} {
	out := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		out[k] = v
	}
	return out
}

// CodeOf returns the code of the first *Error in err's chain
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return CodeUnknown
}

// HasCode reports whether err's chain contains an *Error with code
func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

func detail(err error, key string) (interface{}, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return nil, false
	}
	return e.Detail(key)
}

// Endpoint returns the endpoint recorded on a network error
func Endpoint(err error) string {
	v, _ := detail(err, DetailEndpoint)
	s, _ := v.(string)
	return s
}

// Arguments returns the argument names recorded on an argument error
func Arguments(err error) []string {
	v, _ := detail(err, DetailArguments)
	names, _ := v.([]string)
	return names
}

// Status returns the HTTP status recorded on a remote error
func Status(err error) int {
	v, _ := detail(err, DetailStatus)
	n, _ := v.(int)
	return n
}

// Body returns the raw response body recorded on a remote error
func Body(err error) []byte {
	v, _ := detail(err, DetailBody)
	b, _ := v.([]byte)
	return b
}

// Configuration creates a fatal configuration error
func Configuration(format string, args ...interface{}) *Error {
	return Newf(CodeConfiguration, format, args...)
}

// InvalidArguments reports parameters that are not part of an action's contract
func InvalidArguments(names []string) *Error {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return Newf(CodeInvalidArgument, "invalid arguments: %s", strings.Join(sorted, ", ")).
		WithDetail(DetailArguments, sorted)
}

// MissingArguments reports required parameters that were not supplied
func MissingArguments(names []string) *Error {
	return Newf(CodeMissingArgument, "missing arguments: %s", strings.Join(names, ", ")).
		WithDetail(DetailArguments, append([]string(nil), names...))
}

// NetworkTimeout reports a connect or read timeout against endpoint
func NetworkTimeout(endpoint string, cause error) *Error {
	return withCause(cause, CodeNetworkTimeout, "timeout connecting to "+endpoint).
		WithDetail(DetailEndpoint, endpoint)
}

// Network reports a non-timeout transport failure against endpoint
func Network(endpoint string, cause error) *Error {
	return withCause(cause, CodeNetwork, "request to "+endpoint+" failed").
		WithDetail(DetailEndpoint, endpoint)
}

// Remote reports a non-success HTTP status
func Remote(status int, body []byte) *Error {
	return Newf(CodeRemote, "remote returned status %d", status).
		WithDetail(DetailStatus, status).
		WithDetail(DetailBody, body)
}

// Decode reports a body that does not match the negotiated format
func Decode(format string, cause error) *Error {
	return withCause(cause, CodeDecode, "decode "+format+" response").
		WithDetail(DetailFormat, format)
}
