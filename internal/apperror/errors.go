// Package apperror defines the error kinds shared by every layer of the
// service. Errors are raised where a problem is detected and travel up
// unchanged (or wrapped with %w) to the HTTP error handler, which maps the
// Kind to a status code.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error independently of its message.
type Kind string

const (
	KindValidation      Kind = "VALIDATION_FAILED"
	KindAuthentication  Kind = "AUTHENTICATION_FAILED"
	KindAuthorization   Kind = "AUTHORIZATION_FAILED"
	KindStaleRefresh    Kind = "STALE_REFRESH"
	KindMalformedHeader Kind = "MALFORMED_HEADER"
	KindTokenExpired    Kind = "TOKEN_EXPIRED"
	KindSignature       Kind = "SIGNATURE_INVALID"
	KindTokenMalformed  Kind = "TOKEN_MALFORMED"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindUnexpected      Kind = "UNEXPECTED"
)

// Error is the single error type used for expected failures.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, apperror.ErrTokenExpired) matches any expired-token error
// regardless of its message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels, one per kind. Compare with errors.Is.
var (
	ErrValidation      = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrAuthentication  = &Error{Kind: KindAuthentication, Message: "authentication failed"}
	ErrAuthorization   = &Error{Kind: KindAuthorization, Message: "authorization failed"}
	ErrStaleRefresh    = &Error{Kind: KindStaleRefresh, Message: "old access token is expired"}
	ErrMalformedHeader = &Error{Kind: KindMalformedHeader, Message: "malformed authorization header"}
	ErrTokenExpired    = &Error{Kind: KindTokenExpired, Message: "token is expired"}
	ErrSignature       = &Error{Kind: KindSignature, Message: "token signature is invalid"}
	ErrTokenMalformed  = &Error{Kind: KindTokenMalformed, Message: "token is malformed"}
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict        = &Error{Kind: KindConflict, Message: "conflict"}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindUnexpected when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// HTTPStatus maps a kind to a response status. Token and credential
// failures answer 403, not 401; clients of this API rely on that.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication, KindAuthorization, KindStaleRefresh, KindMalformedHeader,
		KindTokenExpired, KindSignature, KindTokenMalformed:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the message to show the client: the *Error message when
// present, otherwise the raw error text.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
