// Package apperr defines the error kinds surfaced to the user.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	EmptyOrDuplicateName Kind = "EMPTY_OR_DUPLICATE_NAME"
	MissingReference     Kind = "MISSING_REFERENCE"
	DuplicateAssignment  Kind = "DUPLICATE_ASSIGNMENT"
	InvalidRange         Kind = "INVALID_RANGE"
	ReferentialConflict  Kind = "REFERENTIAL_CONFLICT"
	StorageUnavailable   Kind = "STORAGE_UNAVAILABLE"
	InvalidColor         Kind = "INVALID_COLOR"
	MemberAbsent         Kind = "MEMBER_ABSENT"
	InvalidInput         Kind = "INVALID_INPUT"
	Internal             Kind = "INTERNAL_ERROR"
)

// Error implements error so a Kind can be used as an errors.Is target:
//
//	errors.Is(err, apperr.DuplicateAssignment)
func (k Kind) Error() string {
	return string(k)
}

// HTTPStatus maps the kind onto a response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case EmptyOrDuplicateName, InvalidRange, InvalidColor, InvalidInput, MissingReference:
		return http.StatusUnprocessableEntity
	case DuplicateAssignment, ReferentialConflict, MemberAbsent:
		return http.StatusConflict
	case StorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches both another *Error of the same kind and a bare Kind.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return e.Kind == t.Kind
	}
	return false
}

// New constructs an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a new Error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithDetail returns e with one more detail entry.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// Storage wraps an engine failure as StorageUnavailable. Errors that already
// carry a kind pass through unchanged.
func Storage(err error, op string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return Wrap(StorageUnavailable, err, "storage unavailable during %s", op)
}

// KindOf returns the kind carried by err, or Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	var kind Kind
	if errors.As(err, &kind) {
		return kind
	}
	return Internal
}

// Message returns the user-facing text for err. Internal errors are not
// exposed verbatim.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
