// Package errors provides application-level error types and utilities.
// It defines the error classes the migration engine distinguishes:
// configuration, connectivity, and per-entity migration errors.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeConfiguration covers bad descriptors, unknown dialects and
	// the source-equals-target guard. Always fatal, no work is attempted.
	ErrorTypeConfiguration ErrorType = "configuration_error"
	// ErrorTypeConnectivity covers failures opening or pinging a database.
	// Fatal: reported before any schema or entity work begins.
	ErrorTypeConnectivity ErrorType = "connectivity_error"
	// ErrorTypeMigration covers a single entity migrator failing. The
	// orchestrator records it in the summary and continues.
	ErrorTypeMigration ErrorType = "migration_error"
	ErrorTypeInternal  ErrorType = "internal_error"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType
	Message string
	Details string
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to reach the underlying cause
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error for unwrapping
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    ErrorTypeConfiguration,
		Message: message,
		Details: detail,
	}
}

// NewConnectivityError creates a new connectivity error
func NewConnectivityError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    ErrorTypeConnectivity,
		Message: message,
		Details: detail,
	}
}

// NewMigrationError creates a new per-entity migration error
func NewMigrationError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    ErrorTypeMigration,
		Message: message,
		Details: detail,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Details: detail,
	}
}

// IsType checks whether err is an AppError of the given type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// IsFatal reports whether err must stop the whole run rather than be
// recorded as a summary warning.
func IsFatal(err error) bool {
	return IsType(err, ErrorTypeConfiguration) || IsType(err, ErrorTypeConnectivity)
}
