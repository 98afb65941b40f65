package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Transports map them to status codes with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrValidation       = errors.New("validation failed")
	ErrUnsupportedState = errors.New("unsupported state")
	ErrConflict         = errors.New("conflict")
)

// Error is a domain failure with a caller-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

func Validation(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

func UnsupportedState(state string) error {
	return newError(ErrUnsupportedState, "Unknown state: %s", state)
}

func Conflict(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}
