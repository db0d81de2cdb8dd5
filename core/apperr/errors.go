// Package apperr carries the domain error taxonomy shared by services and the
// HTTP layer. Services return these; only the HTTP layer maps them to status
// codes.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error.
type Kind int

const (
	// KindInternal is the zero value for unclassified failures.
	KindInternal Kind = iota
	// KindNotFound: a referenced entity id does not exist.
	KindNotFound
	// KindAlreadyExists: a unique constraint would be violated.
	KindAlreadyExists
	// KindBusinessRule: invalid state transition, precondition not met,
	// malformed enum value.
	KindBusinessRule
	// KindPermissionDenied: the caller's role does not allow the operation.
	KindPermissionDenied
	// KindValidation: missing or malformed request fields.
	KindValidation
)

// Error is a classified domain error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two apperr values of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// NotFound creates a not-found error.
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// AlreadyExists creates a conflict error.
func AlreadyExists(format string, args ...interface{}) error {
	return &Error{Kind: KindAlreadyExists, Msg: fmt.Sprintf(format, args...)}
}

// BusinessRule creates a business-rule violation error.
func BusinessRule(format string, args ...interface{}) error {
	return &Error{Kind: KindBusinessRule, Msg: fmt.Sprintf(format, args...)}
}

// PermissionDenied creates a permission error.
func PermissionDenied(format string, args ...interface{}) error {
	return &Error{Kind: KindPermissionDenied, Msg: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error without losing its chain.
func Wrap(kind Kind, err error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
