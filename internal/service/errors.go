package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by services. Handlers translate these into HTTP
// status codes; anything else bubbles up to the error middleware as a 500.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("operation conflicts with existing records")
)

// ValidationError reports malformed or missing input. No mutation is
// attempted when one is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}
