// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "net/http"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation failed", Fields: fields}
}

// Error is a typed error raised by the service layer and mapped to an HTTP
// status by the transport layer. Services never pick status codes directly;
// they pick a kind via the constructors below.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// Validation: malformed or invalid input (bad CPF, missing field, bad format).
func Validation(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Detail: msg}
}

// Conflict: duplicate CPF or email.
func Conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Detail: msg}
}

// NotFound: unknown or soft-deleted id.
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Detail: msg}
}

// Unauthorized: missing, expired, or invalid credential.
func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Detail: msg}
}

// Internal: unexpected storage or infrastructure failure.
func Internal(msg string) *Error {
	return &Error{Status: http.StatusInternalServerError, Detail: msg}
}
