// Package apperrors holds the sentinel errors shared by the repositories,
// services and HTTP handlers. Handlers map them to status codes.
package apperrors

import (
	"errors"
	"fmt"
)

const CodeDatabase = "DB_ERROR"

var (
	ErrNotFound         = errors.New("resource not found")
	ErrCustomerNotFound = fmt.Errorf("customer not found: %w", ErrNotFound)
	ErrLoanNotFound     = fmt.Errorf("loan not found: %w", ErrNotFound)

	ErrInvalidArgument   = errors.New("invalid argument")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyExists is a unique constraint hit; ErrConflict is any other
	// state clash, such as running out of placeholder emails on import.
	ErrAlreadyExists = errors.New("resource already exists")
	ErrConflict      = errors.New("resource conflict")

	ErrDatabase       = errors.New("database error")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
)

// ValidationError names the request field that failed.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError matches both ErrValidation and *ValidationError.
func NewValidationError(field, message string) error {
	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

// AppError carries a stable code and a message that is safe to return to
// API clients. The cause stays available to errors.Is and to the logs.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return "[" + e.Code + "] " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WrapDatabaseError is used by the postgres repositories for failures that
// are not constraint violations or missing rows.
func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    CodeDatabase,
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}
