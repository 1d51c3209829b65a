// Package apperror defines the error kinds surfaced by the service and the
// HTTP status each one maps to.
package apperror

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindCredentials  Kind = "CREDENTIALS"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindNotFound     Kind = "NOT_FOUND"
	KindStorage      Kind = "STORAGE"
)

// InternalMessage replaces the message of every STORAGE error on the wire.
const InternalMessage = "Internal server error"

func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindCredentials:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, &Error{Kind: KindNotFound})
// works without comparing messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// PublicMessage is the message safe to send to a client.
func (e *Error) PublicMessage() string {
	if e.Kind == KindStorage {
		return InternalMessage
	}
	return e.Message
}

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func Credentials(msg string) *Error { return &Error{Kind: KindCredentials, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Unauthorized() *Error { return &Error{Kind: KindUnauthorized, Message: "Unauthorized"} }

func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Message: InternalMessage, Err: err}
}

// KindOf reports the kind of err. Errors that did not originate here are
// treated as storage failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// As returns err as an *Error, wrapping foreign errors as STORAGE.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Storage(err)
}
