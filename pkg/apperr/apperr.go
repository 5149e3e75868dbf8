package apperr

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates missing or malformed input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates a uniqueness or state-transition violation
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized indicates missing or invalid authentication
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller doesn't have permission
	ErrForbidden = errors.New("forbidden")

	// ErrInternal indicates an internal error, typically a failing store
	ErrInternal = errors.New("internal error")
)

// NotFound creates a not found error with context
func NotFound(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// InvalidInput creates an invalid input error with context
func InvalidInput(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// Conflict creates a conflict error with context
func Conflict(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrConflict)
}

// Forbidden creates a forbidden error with context
func Forbidden(reason string) error {
	if reason != "" {
		return fmt.Errorf("%s: %w", reason, ErrForbidden)
	}
	return ErrForbidden
}

// Internal wraps a store or infrastructure error
func Internal(msg string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %v: %w", msg, err, ErrInternal)
	}
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
