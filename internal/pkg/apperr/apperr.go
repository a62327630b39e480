// Package apperr defines the error kinds surfaced to API callers. Every
// sentinel carries a stable code so clients can tell "not eligible" apart
// from "window closed" without parsing messages.
package apperr

type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindInvalidState    Kind = "invalid_state"
	KindConflict        Kind = "conflict"
	KindValidation      Kind = "validation"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches another *Error with the same code, or a bare kind marker
// (Unauthenticated, Forbidden, ...) with the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code == "" {
		return t.Kind == e.Kind
	}
	return t.Code == e.Code
}

// With returns a copy of e that wraps cause, keeping kind and code.
func (e *Error) With(cause error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, cause: cause}
}

// Kind markers, usable with errors.Is.
var (
	Unauthenticated = &Error{Kind: KindUnauthenticated}
	Forbidden       = &Error{Kind: KindForbidden}
	NotFound        = &Error{Kind: KindNotFound}
	InvalidState    = &Error{Kind: KindInvalidState}
	Conflict        = &Error{Kind: KindConflict}
	Validation      = &Error{Kind: KindValidation}
)
