package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by the store, the services and the CLI.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	// ErrConflict marks a request that contradicts current state, such as
	// changing a finished import session or exhausting an ID partition.
	ErrConflict = errors.New("conflict")
)

// FieldError is one violated constraint on one field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every FieldError found in one value. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// NewValidationErrors creates a ValidationError from several field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// IsRecordError reports whether err rejects a single record rather than the
// whole operation: validation failures and state conflicts.
func IsRecordError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict)
}
