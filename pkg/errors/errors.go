package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors identifying the kind of a failure. Every AppError wraps one
// of them so callers can branch with errors.Is regardless of the code.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternal       = errors.New("internal error")
	ErrServiceUnavail = errors.New("service unavailable")
)

// AppError is a structured application error with an HTTP status mapping.
// Code is a stable identifier (for example "not.found.product"); Message is
// the display text rendered from a Catalog.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation creates a 400 error for rejected input.
func Validation(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: http.StatusBadRequest, Err: ErrInvalidInput}
}

// InvalidInput creates a 400 error with the generic INVALID_INPUT code.
func InvalidInput(message string) *AppError {
	return Validation("INVALID_INPUT", message)
}

// NotFound creates a 404 error.
func NotFound(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: http.StatusNotFound, Err: ErrNotFound}
}

// Duplicate creates a 409 error for a uniqueness violation.
func Duplicate(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: http.StatusConflict, Err: ErrAlreadyExists}
}

// Forbidden creates a 403 error for an ownership or role mismatch.
func Forbidden(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: http.StatusForbidden, Err: ErrForbidden}
}

// Unauthorized creates a 401 error.
func Unauthorized(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: http.StatusUnauthorized, Err: ErrUnauthorized}
}

// Unavailable creates a 503 error for a failing upstream dependency.
func Unavailable(message string, err error) *AppError {
	return &AppError{
		Code:    "SERVICE_UNAVAILABLE",
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     errors.Join(ErrServiceUnavail, err),
	}
}

// Internal creates a 500 error. The cause is kept for logging only.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     errors.Join(ErrInternal, err),
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// CodeOf returns the code of the first AppError in the chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrServiceUnavail):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
