package errors

import (
	"errors"
	"fmt"
)

// ValidationError represents malformed input at a stage boundary (bad Steam
// ID, missing credentials, unreadable input path). Fatal to that invocation
// only.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (field %q)", e.Message, e.Field)
	}
	return e.Message
}

// NewValidationError creates a ValidationError for the named field.
func NewValidationError(message, field string) *ValidationError {
	return &ValidationError{Message: message, Field: field}
}

// IsValidationError reports whether err is a ValidationError (even when wrapped).
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
