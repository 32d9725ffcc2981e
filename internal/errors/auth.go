package errors

import "errors"

// AuthError represents an authentication failure against an upstream API
// (bad client credentials, rejected bearer token). It is fatal for the
// stage that raised it.
type AuthError struct {
	Message    string
	StatusCode int
}

func (e *AuthError) Error() string {
	return e.Message
}

// NewAuthError creates an AuthError with the given message and HTTP status.
func NewAuthError(message string, statusCode int) *AuthError {
	return &AuthError{Message: message, StatusCode: statusCode}
}

// IsAuthError reports whether err is an AuthError (even when wrapped).
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
