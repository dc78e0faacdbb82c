package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the application error taxonomy. Services wrap
// these with context; handlers map them onto HTTP status codes.

var (
	// ErrUnauthorized indicates missing or invalid authentication
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAccessDenied indicates a valid session that is not allowed to act
	// on the targeted resource
	ErrAccessDenied = errors.New("access denied")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data, e.g. a duplicate
	// connection request or a transition on an already-terminal request
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// AccessDeniedError creates an access denied error with context
func AccessDeniedError(reason string) error {
	if reason != "" {
		return fmt.Errorf("%s: %w", reason, ErrAccessDenied)
	}
	return ErrAccessDenied
}

// ConflictError creates a conflict error with context
func ConflictError(reason string) error {
	if reason != "" {
		return fmt.Errorf("%s: %w", reason, ErrConflict)
	}
	return ErrConflict
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
