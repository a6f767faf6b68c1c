package apperr

import (
	"errors"
	"fmt"
)

// Error kinds. Callers test for them with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrConflict          = errors.New("conflict")
	ErrInternal          = errors.New("internal error")
)

// Error carries one of the kinds above plus a human readable message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Kind }

func newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return newf(ErrNotFound, format, args...)
}

func InvalidTransition(format string, args ...any) *Error {
	return newf(ErrInvalidTransition, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newf(ErrForbidden, format, args...)
}

func InvalidArgument(format string, args ...any) *Error {
	return newf(ErrInvalidArgument, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newf(ErrConflict, format, args...)
}

// Internal wraps an unexpected collaborator failure; both ErrInternal and
// cause stay reachable through errors.Is.
func Internal(cause error, msg string) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, msg, cause)
}

// Kind reports which taxonomy kind err belongs to, or ErrInternal when it
// does not carry one.
func Kind(err error) error {
	for _, k := range []error{ErrNotFound, ErrInvalidTransition, ErrForbidden, ErrInvalidArgument, ErrConflict} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrInternal
}
