package apierr

import (
	"errors"
	"fmt"
)

// ConnectStage identifies which connect-time probe failed
type ConnectStage string

const (
	StageVersion  ConnectStage = "version"
	StageConfig   ConnectStage = "config"
	StageIdentity ConnectStage = "identity"
)

// ConfigurationError indicates a malformed or incomplete connection
// profile. It is not retryable without user correction.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// ConnectionError indicates that one of the connect-time probes failed.
// Retryable by re-invoking connect.
type ConnectionError struct {
	Stage ConnectStage
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed at %s probe: %v", e.Stage, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// APIError carries a non-2xx response from the remote service.
// Code is the HTTP status; code 0 is reserved for transport-level
// failures (timeouts, DNS, connection refused).
type APIError struct {
	Code    int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// Retryable reports whether a retry of the same request could succeed
// without caller intervention: transport failures and 5xx responses are
// transient, 4xx responses are caller-fixable.
func (e *APIError) Retryable() bool {
	return e.Code == 0 || e.Code >= 500
}

// ValidationError indicates a local precondition failure, e.g. starting
// a time entry whose customer/project/activity chain does not resolve in
// the cache. Never retried automatically.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Reason)
}

// NewValidation builds a ValidationError from a format string
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsConfiguration reports whether err is a ConfigurationError
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsConnection reports whether err is a ConnectionError
func IsConnection(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsAPI extracts an APIError from err, or nil
func AsAPI(err error) *APIError {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
