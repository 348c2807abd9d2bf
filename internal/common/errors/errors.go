// Package errors provides standardized error handling for the dashboard tier.
package errors

import (
	"fmt"
	"time"
)

// Kind classifies where a failure originated. The notification layer
// collapses every kind into one generic user-facing message; the kind is
// kept at the service boundary so callers can differentiate later without
// a redesign.
type Kind string

const (
	// KindNetwork covers transport failures: connection refused, timeouts,
	// cancelled requests, unreadable responses.
	KindNetwork Kind = "network"
	// KindServer covers business failures reported by the backend
	// (success:false envelopes and non-2xx statuses with a message).
	KindServer Kind = "server"
	// KindValidation covers client-side form/schema validation failures.
	KindValidation Kind = "validation"
	// KindPrecondition covers missing required navigation context, such as
	// an absent email or token query parameter. No network call is made
	// for these.
	KindPrecondition Kind = "precondition"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeBackendUnreachable ErrorCode = "BACKEND_UNREACHABLE"
	ErrCodeBackendTimeout     ErrorCode = "BACKEND_TIMEOUT"
	ErrCodeRequestCancelled   ErrorCode = "REQUEST_CANCELLED"
	ErrCodeBadResponseBody    ErrorCode = "BAD_RESPONSE_BODY"

	ErrCodeBackendRejected ErrorCode = "BACKEND_REJECTED"
	ErrCodeResourceMissing ErrorCode = "RESOURCE_NOT_FOUND"

	ErrCodeFormValidationFailed ErrorCode = "FORM_VALIDATION_FAILED"
	ErrCodeOTPMalformed         ErrorCode = "OTP_MALFORMED"

	ErrCodeEmailMissing ErrorCode = "EMAIL_MISSING"
	ErrCodeTokenMissing ErrorCode = "TOKEN_MISSING"
)

// StandardError represents a structured application error.
type StandardError struct {
	Kind      Kind                   `json:"kind"`
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s/%s]: %s", e.Kind, e.Code, e.Message)
}

// UserMessage returns the text shown in a notification. Server-reported
// and precondition messages pass through; everything else gets the
// generic fallback.
func (e *StandardError) UserMessage() string {
	if (e.Kind == KindServer || e.Kind == KindPrecondition) && e.Message != "" {
		return e.Message
	}
	return "Something went wrong"
}

// ==========================
// Error Constructors
// ==========================

// NewBackendUnreachableError creates a retryable transport error.
func NewBackendUnreachableError(err error) *StandardError {
	return &StandardError{
		Kind:      KindNetwork,
		Code:      ErrCodeBackendUnreachable,
		Message:   "Backend request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBackendTimeoutError creates a retryable timeout error.
func NewBackendTimeoutError(operation string) *StandardError {
	return &StandardError{
		Kind:      KindNetwork,
		Code:      ErrCodeBackendTimeout,
		Message:   "Backend request timed out",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestCancelledError marks a fetch abandoned by its caller. Never
// surfaced to the user; the result is simply discarded.
func NewRequestCancelledError(operation string) *StandardError {
	return &StandardError{
		Kind:      KindNetwork,
		Code:      ErrCodeRequestCancelled,
		Message:   "Request cancelled",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBadResponseBodyError creates a non-retryable decode error.
func NewBadResponseBodyError(err error) *StandardError {
	return &StandardError{
		Kind:      KindNetwork,
		Code:      ErrCodeBadResponseBody,
		Message:   "Could not decode backend response",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBackendRejectedError wraps a failure envelope from the backend.
func NewBackendRejectedError(message string, status int) *StandardError {
	if message == "" {
		message = "Request failed"
	}
	return &StandardError{
		Kind:      KindServer,
		Code:      ErrCodeBackendRejected,
		Message:   message,
		Details:   fmt.Sprintf("status: %d", status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResourceMissingError creates a non-retryable not-found error.
func NewResourceMissingError(resource, id string) *StandardError {
	return &StandardError{
		Kind:      KindServer,
		Code:      ErrCodeResourceMissing,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFormValidationError creates a non-retryable validation error.
func NewFormValidationError(details string) *StandardError {
	return &StandardError{
		Kind:      KindValidation,
		Code:      ErrCodeFormValidationFailed,
		Message:   "Form validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOTPMalformedError creates a non-retryable validation error for a code
// that is not exactly six single characters.
func NewOTPMalformedError(details string) *StandardError {
	return &StandardError{
		Kind:      KindValidation,
		Code:      ErrCodeOTPMalformed,
		Message:   "Enter the 6-digit code",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmailMissingError marks a reset attempted without an email in the
// navigation context.
func NewEmailMissingError() *StandardError {
	return &StandardError{
		Kind:      KindPrecondition,
		Code:      ErrCodeEmailMissing,
		Message:   "Email not found",
		Details:   "email query parameter absent",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTokenMissingError marks a resend attempted without a token in the
// navigation context.
func NewTokenMissingError() *StandardError {
	return &StandardError{
		Kind:      KindPrecondition,
		Code:      ErrCodeTokenMissing,
		Message:   "Invalid or missing token",
		Details:   "token query parameter absent",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// Utility Functions
// ==========================

// IsKind reports whether err is a StandardError of the given kind.
func IsKind(err error, kind Kind) bool {
	se, ok := err.(*StandardError)
	return ok && se.Kind == kind
}

// IsCancelled reports whether err represents an abandoned fetch.
func IsCancelled(err error) bool {
	se, ok := err.(*StandardError)
	return ok && se.Code == ErrCodeRequestCancelled
}

// AsStandard converts any error into a StandardError, wrapping unknown
// errors as transport failures so nothing escapes the taxonomy.
func AsStandard(err error) *StandardError {
	if se, ok := err.(*StandardError); ok {
		return se
	}
	return NewBackendUnreachableError(err)
}
