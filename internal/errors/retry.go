package errors

import (
	"errors"
	"fmt"
)

// RetryExhaustedError wraps a transient failure that persisted through the
// full retry budget.
type RetryExhaustedError struct {
	Message  string
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s after %d attempts: %v", e.Message, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s after %d attempts", e.Message, e.Attempts)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}

// NewRetryExhaustedError creates a RetryExhaustedError for the given attempt count.
func NewRetryExhaustedError(message string, attempts int, err error) *RetryExhaustedError {
	return &RetryExhaustedError{Message: message, Attempts: attempts, Err: err}
}

// IsRetryExhaustedError reports whether err is a RetryExhaustedError (even when wrapped).
func IsRetryExhaustedError(err error) bool {
	var retryErr *RetryExhaustedError
	return errors.As(err, &retryErr)
}
