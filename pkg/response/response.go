package response

import (
	"errors"
	"net/http"

	"reseller-server/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
)

// releaseMode gates stack traces out of client responses. Set once at
// startup before the server accepts traffic, read-only afterwards.
var releaseMode bool

// SetReleaseMode enables production behaviour: stack traces are omitted
// from error envelopes except for constraint violations.
func SetReleaseMode(enabled bool) {
	releaseMode = enabled
}

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	StatusCode int         `json:"statusCode"`
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

// ErrorEnvelope is the uniform shape returned to clients on failure.
type ErrorEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Stack      string `json:"stack,omitempty"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		StatusCode: http.StatusOK,
		Success:    true,
		Message:    message,
		Data:       data,
	})
}

// Created sends a 201 response with data.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		StatusCode: http.StatusCreated,
		Success:    true,
		Message:    message,
		Data:       data,
	})
}

// Error is the terminal stage of the request pipeline: it classifies
// any error raised upstream and writes exactly one envelope. It never
// re-raises.
func Error(c *gin.Context, err error) {
	env := Classify(err)
	c.JSON(env.StatusCode, env)
}

// Classify maps an error to its envelope. Categories are checked in
// fixed priority order; classifying the same error twice yields an
// identical envelope.
func Classify(err error) ErrorEnvelope {
	// Application errors carry their own status and message.
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		env := ErrorEnvelope{
			StatusCode: appErr.StatusCode,
			Message:    appErr.Message,
		}
		if !releaseMode {
			env.Stack = appErr.Error()
		}
		return env
	}

	// Constraint violations reported by the database. The translated
	// message names only schema-level fields, so the stack stays on in
	// every mode.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ErrorEnvelope{
			StatusCode: http.StatusBadRequest,
			Message:    translatePgError(pgErr),
			Stack:      pgErr.Error(),
		}
	}

	// Malformed request shape rejected by binding validation.
	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		env := ErrorEnvelope{
			StatusCode: http.StatusBadRequest,
			Message:    valErrs.Error(),
		}
		if !releaseMode {
			env.Stack = valErrs.Error()
		}
		return env
	}

	// Database connect/config failures must not leak infrastructure
	// details to the client.
	var connErr *pgconn.ConnectError
	var cfgErr *pgconn.ParseConfigError
	if errors.As(err, &connErr) || errors.As(err, &cfgErr) {
		env := ErrorEnvelope{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal Server Error",
		}
		if !releaseMode {
			env.Stack = err.Error()
		}
		return env
	}

	// Untyped upstream error: best-effort message, no stack.
	message := "Something went wrong"
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return ErrorEnvelope{
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}
