package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies application errors for the transport layer
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuthentication
	KindNotFound
	KindCapacity
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindCapacity:
		return "capacity"
	default:
		return "internal"
	}
}

// Error is an application error with a client-safe message.
// NotFound covers both "absent" and "owned by someone else".
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NewAuthenticationError(msg string) *Error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

func NewNotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func NewCapacityError(msg string) *Error {
	return &Error{Kind: KindCapacity, Message: msg}
}

// Wrap attaches a kind and client message to an underlying cause
func Wrap(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Validationf builds a validation error from a format string
func Validationf(format string, args ...any) *Error {
	return NewValidationError(fmt.Sprintf(format, args...))
}

// KindOf returns the kind of the first *Error in err's chain,
// or KindInternal when there is none.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
