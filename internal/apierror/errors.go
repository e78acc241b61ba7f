// Package apierror defines errors that are safe to show to API callers.
package apierror

import (
	"errors"
	"fmt"
)

// Code classifies an APIError.
type Code string

const (
	CodeEmailTaken         Code = "EMAIL_TAKEN"
	CodeUserNotFound       Code = "USER_NOT_FOUND"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeValidationFailed   Code = "VALIDATION_FAILED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeTooManyAttempts    Code = "TOO_MANY_ATTEMPTS"
	CodeInternal           Code = "INTERNAL"
)

// APIError is an error with a stable code and a human readable message.
type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Extensions exposes the code to GraphQL clients.
func (e *APIError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Code)}
}

// Is matches APIErrors by code.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// As extracts an APIError from the chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an APIError with the given code.
func HasCode(err error, code Code) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Code == code
}

func NewErrEmailTaken() *APIError {
	return &APIError{Code: CodeEmailTaken, Message: "Email already exists"}
}

func NewErrUserNotFound() *APIError {
	return &APIError{Code: CodeUserNotFound, Message: "User not found"}
}

// NewErrInvalidCredentials does not reveal which of email or password was wrong.
func NewErrInvalidCredentials() *APIError {
	return &APIError{Code: CodeInvalidCredentials, Message: "Invalid email or password"}
}

func NewErrInvalidPassword() *APIError {
	return &APIError{Code: CodeInvalidCredentials, Message: "Invalid password"}
}

func NewErrUnauthenticated() *APIError {
	return &APIError{Code: CodeUnauthenticated, Message: "Not authenticated"}
}

func NewErrValidation(format string, args ...any) *APIError {
	return &APIError{Code: CodeValidationFailed, Message: fmt.Sprintf(format, args...)}
}

func NewErrForbidden(message string) *APIError {
	return &APIError{Code: CodeForbidden, Message: message}
}

func NewErrTooManyAttempts() *APIError {
	return &APIError{Code: CodeTooManyAttempts, Message: "Too many failed login attempts, try again later"}
}

func NewErrInternal() *APIError {
	return &APIError{Code: CodeInternal, Message: "internal server error"}
}
