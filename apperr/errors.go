// Package apperr defines the error kinds the domain services surface to the
// HTTP layer. Services never leak raw storage errors across their boundary;
// every failure is one of these kinds, and handlers map the kind to a status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for HTTP status mapping.
type Kind int

const (
	// KindInternal unexpected storage/runtime fault -> 500
	KindInternal Kind = iota
	// KindValidation missing/malformed input -> 400
	KindValidation
	// KindAuthentication absent/invalid/expired token -> 401
	KindAuthentication
	// KindAuthorization valid identity, insufficient privilege -> 403
	KindAuthorization
	// KindNotFound -> 404
	KindNotFound
	// KindConflict duplicate unique value -> 400 with specific message
	KindConflict
)

// Error carries an error kind plus a client-facing message. The wrapped cause,
// if any, stays server-side.
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

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation 400 validation error
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Authentication 401 authentication error
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// Authorization 403 authorization error
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound 404 not-found error
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict duplicate-value error, surfaced as 400 with a specific message
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal 500 error wrapping an unexpected cause
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// StatusCode maps an error to its HTTP status. Unknown errors are internal.
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for an error
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
