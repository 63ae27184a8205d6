// Package apperrors defines the errors services hand to the HTTP layer.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindDuplicateKey
	KindNotFound
	KindUnauthorized
	KindForbidden
)

// Error is an error safe to show to a client. Err keeps the underlying cause
// for logging and is never rendered.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// StatusCode maps the error kind to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindBadRequest, KindDuplicateKey:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func BadRequest(msg string) *Error { return &Error{Kind: KindBadRequest, Message: msg} }

// Validation is a bad request listing one message per rejected field.
func Validation(details []string) *Error {
	return &Error{Kind: KindBadRequest, Message: "Validation failed", Details: details}
}

// DuplicateKey carries the storage constraint detail to the client.
func DuplicateKey(detail string, err error) *Error {
	return &Error{Kind: KindDuplicateKey, Message: detail, Err: err}
}

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

// Internal hides err behind a generic message.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// StatusCode returns the HTTP status for any error.
func StatusCode(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}
