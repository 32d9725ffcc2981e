package errors

import (
	"errors"
	"fmt"
)

// RequestError represents a generic upstream HTTP failure (4xx/5xx) that is
// neither an authentication nor a rate-limit problem.
type RequestError struct {
	Message    string
	StatusCode int
}

func (e *RequestError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// NewRequestError creates a RequestError with the given message and HTTP status.
func NewRequestError(message string, statusCode int) *RequestError {
	return &RequestError{Message: message, StatusCode: statusCode}
}

// IsRequestError reports whether err is a RequestError (even when wrapped).
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}
