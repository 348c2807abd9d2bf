// Package services defines the normalized outcome shape shared by every
// resource service. Transport failures are downgraded into a failed Result
// here; no error escapes a service as a panic or unhandled return.
package services

import (
	apperrors "dealer-dashboard/internal/common/errors"
)

// Result is the uniform success/failure envelope a service returns.
// Success carries Data; failure carries Message (user-facing) and Err
// (the tagged error, kept so callers can differentiate kinds later).
type Result[T any] struct {
	Success bool
	Data    T
	Message string
	Err     *apperrors.StandardError
}

// OK wraps a successful outcome.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail wraps any error into a failed Result with its user message.
func Fail[T any](err error) Result[T] {
	se := apperrors.AsStandard(err)
	return Result[T]{
		Success: false,
		Message: se.UserMessage(),
		Err:     se,
	}
}

// Cancelled reports whether this failure was an abandoned fetch, whose
// result must be discarded without notifying anyone.
func (r Result[T]) Cancelled() bool {
	return r.Err != nil && apperrors.IsCancelled(r.Err)
}
