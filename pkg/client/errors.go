package client

import (
	"errors"
	"fmt"
)

// ValidationError is raised before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// AuthError means the session has no token or the server refused it. The
// caller is expected to send the user through login again.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Message
}

// ServerError covers every other non-2xx answer. Message is the server's
// message field when it sent one.
type ServerError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

var errNoSession = &AuthError{Message: "not logged in"}

func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
