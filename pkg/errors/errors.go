package errors

import (
	stderrors "errors"
	"net/http"
)

// AppError is a custom error type that includes an HTTP status code
type AppError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// NewAppError creates a new AppError
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Common errors
var (
	ErrInternalServer = NewAppError(http.StatusInternalServerError, "Internal Server Error")
	ErrRateLimit      = NewAppError(http.StatusTooManyRequests, "Too many requests")
)

// Helper functions to create specific errors
func BadRequest(msg string) *AppError {
	return NewAppError(http.StatusBadRequest, msg)
}

func NotFound(msg string) *AppError {
	return NewAppError(http.StatusNotFound, msg)
}

func Unauthorized(msg string) *AppError {
	return NewAppError(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) *AppError {
	return NewAppError(http.StatusForbidden, msg)
}

// Validation builds a 400 carrying per-field messages.
func Validation(fields map[string]string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// FieldError is shorthand for a validation error on a single field.
func FieldError(field, msg string) *AppError {
	return Validation(map[string]string{field: msg})
}

// As unwraps err into an *AppError if one is in its chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
