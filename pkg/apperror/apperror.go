package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidState marks an operation that is legal in general but not for
	// the entity's current lifecycle state (e.g. completing a pending order).
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict marks a uniqueness violation, e.g. a duplicate evaluation.
	ErrConflict = errors.New("conflict")
	ErrInternal = errors.New("internal server error")
)

// AppError wraps a sentinel with a caller-facing message. Services return
// these; handlers map them to the response envelope without inspecting text.
type AppError struct {
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New wraps sentinel err with a message shown to the caller.
func New(err error, message string) *AppError {
	return &AppError{Message: message, Err: err}
}

// MapErrorToStatus maps the sentinel taxonomy to HTTP status codes. State and
// conflict failures surface as 400 like plain validation failures; the
// message carries the distinction.
func MapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidState), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
