package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that an update was attempted against a stale record version.
var ErrConflict = errors.New("record version conflict")

// ErrInvalidRate indicates that a non-positive exchange rate was supplied to a
// currency conversion. Callers degrade to "rate unavailable" handling instead of
// failing the whole record.
var ErrInvalidRate = errors.New("invalid exchange rate")

// AppError wraps a lower-level error with an HTTP-ish status code and message.
// Used by the repository layer so handlers can map failures without string matching.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause (which may be nil).
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
