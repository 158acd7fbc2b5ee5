package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
)

// Donation lifecycle and marketplace errors.
var (
	// ErrInvalidTransition is returned when a transition's guard does not
	// hold for the donation's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotAuthorized is returned when the actor may not apply the
	// transition. It matches ErrForbidden.
	ErrNotAuthorized = fmt.Errorf("not authorized: %w", ErrForbidden)

	// ErrAlreadyClaimed is returned to the loser of a claim or
	// accept-mission race.
	ErrAlreadyClaimed = errors.New("already claimed")

	ErrOracleUnavailable   = errors.New("safety oracle unavailable")
	ErrStoreUnavailable    = errors.New("donation store unavailable")
	ErrRoleAlreadyAssigned = errors.New("role already assigned")
	ErrNotVerified         = errors.New("organization not verified")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
