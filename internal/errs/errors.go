// Package errs provides the unified error type used across the dashboard.
//
// Every subsystem (database, filestore, render, server) wraps its native
// errors into *errs.Error before returning them. Callers use the Is*
// predicates, or HTTPStatus, without importing driver-specific packages.
//
// Usage:
//
//	// In a driver, wrap native errors:
//	return errs.Wrap(errs.ErrKindConnectionFailed, "ping failed", err)
//
//	// In a handler, check the error kind:
//	if errs.IsNotFound(err) {
//	    http.Error(w, "not found", http.StatusNotFound)
//	}
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // unknown domain/label, no object, no table
	ErrKindConnectionFailed         // cannot reach or authenticate to the backend
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindQueryFailed              // SQL syntax or runtime execution error
	ErrKindInvalidInput             // bad arguments from the caller (slider values, …)
	ErrKindPermissionDenied         // access denied by the backend
	ErrKindRenderFailed             // result shape a rule cannot chart
	ErrKindDisabled                 // optional subsystem not configured
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindRenderFailed:
		return "render_failed"
	case ErrKindDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all subsystems.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with a formatted message.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err represents a "not found" result.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether err is a SQL execution error.
func IsQueryFailed(err error) bool {
	return KindOf(err) == ErrKindQueryFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// IsDisabled reports whether err comes from an unconfigured optional subsystem.
func IsDisabled(err error) bool {
	return KindOf(err) == ErrKindDisabled
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}

// HTTPStatus maps an error kind onto the response status the server uses.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case ErrKindNotFound, ErrKindDisabled:
		return http.StatusNotFound
	case ErrKindInvalidInput:
		return http.StatusBadRequest
	case ErrKindTimeout:
		return http.StatusGatewayTimeout
	case ErrKindConnectionFailed, ErrKindPermissionDenied:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
