// Package apperrors maps application failures to HTTP responses.
package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sareeghar/storefront/logger"
	"github.com/sareeghar/storefront/models"
	"go.uber.org/zap"
)

// Error represents an application error
type Error struct {
	Code    int               `json:"-"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation reports malformed input. fields maps input names to problems.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: message, Fields: fields}
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message, nil)
}

func Conflict(message string, err error) *Error {
	return New(http.StatusConflict, message, err)
}

func TooManyRequests(message string) *Error {
	return New(http.StatusTooManyRequests, message, nil)
}

// Internal wraps an unexpected failure. Its message is never the cause.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// From classifies err. Repository sentinels become 404 or 409; anything
// unrecognised becomes a 500 carrying fallback as its message.
func From(err error, fallback string) *Error {
	var appErr *Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, models.ErrProductNotFound):
		return NotFound("Product not found")
	case errors.Is(err, models.ErrCategoryNotFound):
		return NotFound("Category not found")
	case errors.Is(err, models.ErrOrderNotFound):
		return NotFound("Order not found")
	case errors.Is(err, models.ErrCartItemNotFound):
		return NotFound("Cart item not found")
	case errors.Is(err, models.ErrInvalidTransition):
		return Conflict("Order status cannot be changed", err)
	case errors.Is(err, models.ErrDuplicate):
		return Conflict("Resource already exists", err)
	default:
		return Internal(fallback, err)
	}
}

// Write sends err as a JSON error body. Server errors are logged with the
// request id and answered with their generic message only.
func Write(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	appErr := From(err, fallback)
	if appErr.Code >= http.StatusInternalServerError {
		logger.Error(r.Context(), appErr.Message, err,
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
	}
	WriteJSON(w, appErr.Code, appErr)
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warn("failed to encode response", zap.Error(err))
	}
}
