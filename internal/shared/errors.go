package shared

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every expected operation failure. Handlers map
// these to HTTP statuses; services wrap them with a descriptive message.
var (
	// ErrUnauthorized indicates absent or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates a principal failing a policy or ownership check.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates a referenced entity is absent.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("conflict")
	// ErrBadRequest indicates malformed input such as an invalid cursor.
	ErrBadRequest = errors.New("bad request")
)

// Error couples a failure class with a stable, user-visible message. It is
// the Left payload of every use-case Result.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Unwrap exposes the failure class for errors.Is.
func (e *Error) Unwrap() error { return e.kind }

// Kind returns the sentinel the error was built from.
func (e *Error) Kind() error { return e.kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// UnauthorizedError builds an ErrUnauthorized with a message.
func UnauthorizedError(format string, args ...any) *Error {
	return newError(ErrUnauthorized, format, args...)
}

// ForbiddenError builds an ErrForbidden with a message.
func ForbiddenError(format string, args ...any) *Error {
	return newError(ErrForbidden, format, args...)
}

// NotFoundError builds an ErrNotFound with a message.
func NotFoundError(format string, args ...any) *Error {
	return newError(ErrNotFound, format, args...)
}

// ConflictError builds an ErrConflict with a message.
func ConflictError(format string, args ...any) *Error {
	return newError(ErrConflict, format, args...)
}

// BadRequestError builds an ErrBadRequest with a message.
func BadRequestError(format string, args ...any) *Error {
	return newError(ErrBadRequest, format, args...)
}
