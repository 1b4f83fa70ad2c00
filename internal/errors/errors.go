// Package errors provides custom error types for the healthchat model client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrConnectionFailed = errors.New("connection failed")
	ErrStreamFailed     = errors.New("stream failed")
	ErrNoAPIKey         = errors.New("no API key found")
	ErrInvalidResponse  = errors.New("invalid response format")
	ErrNoSession        = errors.New("chat session not initialized")
)

// ConnectionError means a model session could not be established.
// It is surfaced once at startup; every later turn fails fast with it.
type ConnectionError struct {
	Message string
	Err     error
}

func (e *ConnectionError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "could not establish model session"
	}
	if e.Err != nil {
		return fmt.Sprintf("connection failed: %s: %v", msg, e.Err)
	}
	return fmt.Sprintf("connection failed: %s", msg)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *ConnectionError) Is(target error) bool {
	if target == ErrConnectionFailed {
		return true
	}
	_, ok := target.(*ConnectionError)
	return ok
}

// NewConnectionError creates a new ConnectionError
func NewConnectionError(message string, err error) *ConnectionError {
	return &ConnectionError{Message: message, Err: err}
}

// StreamError represents a failure during an in-flight turn.
type StreamError struct {
	Message string
	Err     error
}

func (e *StreamError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "response stream interrupted"
	}
	if e.Err != nil {
		return fmt.Sprintf("stream error: %s: %v", msg, e.Err)
	}
	return fmt.Sprintf("stream error: %s", msg)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *StreamError) Is(target error) bool {
	if target == ErrStreamFailed {
		return true
	}
	_, ok := target.(*StreamError)
	return ok
}

// NewStreamError creates a new StreamError
func NewStreamError(message string, err error) *StreamError {
	return &StreamError{Message: message, Err: err}
}

// APIError represents a non-success answer from the model backend
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates a new APIError that keeps the response body for diagnostics
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
		Body:       body,
	}
}

// NetworkError represents a transport failure
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Err: err}
}

// NewNetworkErrorWithEndpoint creates a new NetworkError bound to an endpoint
func NewNetworkErrorWithEndpoint(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// BlockedError represents a prompt or reply rejected by the safety filter
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	if e.Reason == "" {
		return "content blocked"
	}
	return fmt.Sprintf("content blocked: %s", e.Reason)
}

// NewBlockedError creates a new BlockedError
func NewBlockedError(reason string) *BlockedError {
	return &BlockedError{Reason: reason}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// IsConnectionError reports whether err is or wraps a ConnectionError
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsStreamError reports whether err is or wraps a StreamError
func IsStreamError(err error) bool {
	var se *StreamError
	return errors.As(err, &se)
}

// IsNetworkError reports whether err is or wraps a NetworkError
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsBlockedError reports whether err is or wraps a BlockedError
func IsBlockedError(err error) bool {
	var be *BlockedError
	return errors.As(err, &be)
}

// IsAuthError reports whether the backend rejected the credential
func IsAuthError(err error) bool {
	if errors.Is(err, ErrNoAPIKey) {
		return true
	}
	status := GetHTTPStatus(err)
	return status == 401 || status == 403
}

// IsRateLimitError reports whether the backend answered 429
func IsRateLimitError(err error) bool {
	return GetHTTPStatus(err) == 429
}

// GetHTTPStatus extracts the HTTP status code from an error chain, or 0
func GetHTTPStatus(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint from an error chain, or ""
func GetEndpoint(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Endpoint
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Endpoint
	}
	return ""
}

// GetResponseBody extracts the stored response body from an error chain, or ""
func GetResponseBody(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Body
	}
	return ""
}
