package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured application error that maps to an HTTP
// response. The status code is fixed where the error is raised, so the
// terminal classifier never has to guess a category from the error's
// shape.
type AppError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(statusCode int, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(statusCode int, message string, err error) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// ErrUnauthorized is the single authentication failure. Missing token,
// bad signature, expired token and vanished user all collapse to this
// so the caller cannot tell which check failed.
func ErrUnauthorized() *AppError {
	return New(http.StatusUnauthorized, "Unauthorized")
}

// Forbidden reports a valid identity with an insufficient role.
func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message)
}

// Validation reports a rejected request value.
func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// NotFound reports a missing entity.
func NotFound(entity string) *AppError {
	return New(http.StatusNotFound, fmt.Sprintf("%s not found", entity))
}

// ErrTooManyRequests reports an exhausted rate limit window.
func ErrTooManyRequests() *AppError {
	return New(http.StatusTooManyRequests, "Too many requests")
}

// Conflict reports a state conflict, e.g. settling an already settled
// withdrawal.
func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}

// Internal wraps an unexpected internal error. The wrapped cause is
// kept for logging and the mode-gated stack, never for the message.
func Internal(err error) *AppError {
	return Wrap(http.StatusInternalServerError, "Internal Server Error", err)
}
