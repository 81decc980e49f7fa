// Package apperr defines the closed error taxonomy returned by the page clients.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an adapter failure.
type Kind string

// Error kinds. RateLimited is reserved; no mapping currently produces it.
const (
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindRateLimited  Kind = "RATE_LIMITED"
	KindConflict     Kind = "CONFLICT"
	KindUnknown      Kind = "UNKNOWN"
)

// Error is the only error shape the page clients return.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error of the same kind. The message is ignored,
// so the sentinels below can be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrForbidden    = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrRateLimited  = &Error{Kind: KindRateLimited, Message: "rate limited"}
	ErrConflict     = &Error{Kind: KindConflict, Message: "conflict"}
	ErrUnknown      = &Error{Kind: KindUnknown, Message: "unknown error"}
)

// New returns an *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with fmt.Sprintf formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
