package changerequest

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindForbidden
	KindStateConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindStateConflict:
		return "state_conflict"
	default:
		return "unknown"
	}
}

// Error is a failure the caller caused. Anything else returned by the
// service is an internal error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

func notFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

func forbidden() *Error {
	return newError(KindForbidden, "Access Denied")
}

func stateConflict(format string, args ...interface{}) *Error {
	return newError(KindStateConflict, format, args...)
}

// KindOf returns the kind of a service error, or 0 for internal errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
