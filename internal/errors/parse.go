package errors

import (
	"errors"
	"fmt"
)

// ParseError represents a malformed payload: non-JSON body from an upstream
// API, or an unusable intermediate CSV row.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a ParseError wrapping the underlying cause.
func NewParseError(message string, err error) *ParseError {
	return &ParseError{Message: message, Err: err}
}

// IsParseError reports whether err is a ParseError (even when wrapped).
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
