package model

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailExists     = errors.New("email already exists")
	ErrUsernameExists  = errors.New("username already exists")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Reset token errors
	ErrTokenNotFound = errors.New("reset token not found or expired")

	// Infrastructure errors
	ErrUnavailable = errors.New("temporarily unavailable")
)

// FieldError is a user-correctable failure tied to a single input field.
// These are returned to callers as structured data, never as opaque errors.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is a list of field errors. It implements error so services
// can return it through ordinary error plumbing; callers unwrap it with
// errors.As and render the structured list.
type FieldErrors []FieldError

// Error implements the error interface
func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return strings.Join(parts, "; ")
}

// NewFieldError returns a FieldErrors holding a single error
func NewFieldError(field, message string) FieldErrors {
	return FieldErrors{{Field: field, Message: message}}
}
