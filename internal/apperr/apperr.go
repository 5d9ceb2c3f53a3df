// Package apperr defines the application error taxonomy carried from the
// service and store layers up to the HTTP responder.
//
// Every failure inside the application is expressed as an *Error holding an
// HTTP status, a client-safe message, and an optional ordered list of detail
// strings (used by validation to report every violation at once). Unclassified
// errors default to 500 when translated at the transport layer.
//
// The type supports errors.Is / errors.As via Unwrap, so callers can wrap an
// underlying cause without losing it.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Default client-facing messages per variant.
const (
	DefaultNotFoundMessage     = "Resource not found"
	DefaultValidationMessage   = "Validation failed"
	DefaultUnauthorizedMessage = "Authentication failed"
	DefaultInternalMessage     = "Internal Server Error"
)

// Error is the canonical application error.
//
// Fields:
//   - Status:  HTTP status the responder should emit (transport-agnostic
//     until encoded).
//   - Message: human-readable, client-safe description.
//   - Details: ordered violation descriptions; nil for non-validation errors.
type Error struct {
	Status  int
	Message string
	Details []string
	cause   error
}

// Error implements the error interface with a compact dev-friendly string.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s (%d): %v", e.Message, e.Status, e.cause)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.cause }

// WithCause attaches an underlying cause and returns the same receiver
// for chaining.
func (e *Error) WithCause(cause error) *Error {
	if e == nil {
		return nil
	}
	e.cause = cause
	return e
}

// NotFound builds a 404 error. An empty msg falls back to the default
// "Resource not found".
func NotFound(msg string) *Error {
	if msg == "" {
		msg = DefaultNotFoundMessage
	}
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// Validation builds a 400 error carrying the full ordered violation list.
// An empty msg falls back to "Validation failed".
func Validation(msg string, details []string) *Error {
	if msg == "" {
		msg = DefaultValidationMessage
	}
	return &Error{Status: http.StatusBadRequest, Message: msg, Details: details}
}

// BadRequest builds a plain 400 error without a details list (e.g. a missing
// query parameter).
func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Unauthorized builds a 401 error. An empty msg falls back to the default
// "Authentication failed".
func Unauthorized(msg string) *Error {
	if msg == "" {
		msg = DefaultUnauthorizedMessage
	}
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// Internal builds a 500 error. The client-facing message is always the
// generic "Internal Server Error"; the underlying cause (if any) stays
// wrapped for logs.
func Internal(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: DefaultInternalMessage, cause: cause}
}

// As extracts an *Error from err's chain, reporting whether one was found.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusOf returns the HTTP status carried by err, or 500 for unclassified
// errors (the implicit Internal fallback).
func StatusOf(err error) int {
	if e, ok := As(err); ok && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-safe message carried by err, or the generic
// internal message for unclassified errors. Raw error text from unclassified
// failures is never exposed to clients.
func MessageOf(err error) string {
	if e, ok := As(err); ok && e.Message != "" {
		return e.Message
	}
	return DefaultInternalMessage
}

// DetailsOf returns the ordered detail list carried by err, or nil.
func DetailsOf(err error) []string {
	if e, ok := As(err); ok {
		return e.Details
	}
	return nil
}
