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

	// ErrCiphertext marks a stored or imported payload that could not be
	// decoded as a cipher token (malformed, truncated, not base64).
	ErrCiphertext = errors.New("ciphertext unreadable")

	// ErrWrongKey marks an authenticated-decryption failure: the payload is a
	// well-formed token but was encrypted under a different key (typically a
	// backup from another device) or has been tampered with.
	ErrWrongKey = errors.New("wrong encryption key")

	// ErrInvalidBackup marks a backup payload missing its version marker or
	// otherwise unparseable as an envelope.
	ErrInvalidBackup = errors.New("invalid backup")
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
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
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
