// Package errors provides domain-specific error types for ifweave.
//
// This package defines structured errors with error codes, making it easier
// to handle and test different failure conditions consistently across the
// application.
package errors

import "fmt"

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeConfig indicates a configuration-related error.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeExpression indicates a template expression that errored or
	// produced an unexpected number of results.
	ErrCodeExpression ErrorCode = "EXPRESSION_ERROR"

	// ErrCodeSpawn indicates that an extension child process could not be
	// created.
	ErrCodeSpawn ErrorCode = "SPAWN_ERROR"

	// ErrCodeChildFailed indicates an extension child process that exited
	// non-zero or terminated abnormally.
	ErrCodeChildFailed ErrorCode = "CHILD_FAILED"

	// ErrCodeVerification indicates an extension whose exit status claimed
	// success but whose liveness probe disagreed.
	ErrCodeVerification ErrorCode = "VERIFICATION_MISMATCH"

	// ErrCodeBackend indicates a failed read or write on an attribute store
	// entry (sysfs).
	ErrCodeBackend ErrorCode = "BACKEND_IO_ERROR"

	// ErrCodeResolve indicates a hostname resolution failure.
	ErrCodeResolve ErrorCode = "RESOLVE_ERROR"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new domain error with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewExpressionError creates a new expression evaluation error.
func NewExpressionError(message string, cause error) *Error {
	return Wrap(ErrCodeExpression, message, cause)
}

// NewSpawnError creates a new process creation error.
func NewSpawnError(message string, cause error) *Error {
	return Wrap(ErrCodeSpawn, message, cause)
}

// NewBackendError creates a new attribute store IO error.
func NewBackendError(message string, cause error) *Error {
	return Wrap(ErrCodeBackend, message, cause)
}

// NewResolveError creates a new hostname resolution error.
func NewResolveError(message string, cause error) *Error {
	return Wrap(ErrCodeResolve, message, cause)
}
