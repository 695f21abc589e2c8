package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the caller
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindNotFound       Kind = "not_found"
	KindBackend        Kind = "backend"
)

// Error is the single concrete error type returned by services and backends.
// The Kind decides how the error is surfaced; Cause keeps the underlying failure.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Validation is a client-side rejection detected before any backend call
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Authentication means the backend rejected the supplied credentials
func Authentication(msg string) error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

// NotFound means a referenced restaurant, product or manager does not resolve
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Backend wraps any other failure of the backend
func Backend(msg string, cause error) error {
	return &Error{Kind: KindBackend, Message: msg, Cause: cause}
}

// KindOf returns the kind of err, treating unclassified errors as backend failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBackend
}

func IsValidation(err error) bool     { return err != nil && KindOf(err) == KindValidation }
func IsAuthentication(err error) bool { return err != nil && KindOf(err) == KindAuthentication }
func IsNotFound(err error) bool       { return err != nil && KindOf(err) == KindNotFound }

// HTTPStatus maps an error kind to the response status
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message, without the wrapped cause for backend errors.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
