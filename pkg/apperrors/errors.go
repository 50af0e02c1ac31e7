// Package apperrors classifies application errors for the transport layers.
package apperrors

import (
	"errors"
)

// ErrNotFound marks a missing resource.
var ErrNotFound = errors.New("resource not found")

// ValidationError is returned when client input is rejected. Message is safe
// to show to the client.
type ValidationError struct {
	Message string
	Err     error
}

// NewValidationError wraps err with a client-facing message.
func NewValidationError(message string, err error) *ValidationError {
	return &ValidationError{Message: message, Err: err}
}

// Validation wraps err using its own text as the message.
func Validation(err error) *ValidationError {
	return &ValidationError{Message: err.Error(), Err: err}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err carries a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// IsNotFound reports whether err marks a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

type notFoundError struct {
	err error
}

func (e notFoundError) Error() string { return e.err.Error() }

func (e notFoundError) Unwrap() []error { return []error{e.err, ErrNotFound} }

// NotFound marks err as a missing-resource error while keeping it matchable.
func NotFound(err error) error {
	if err == nil {
		return nil
	}
	return notFoundError{err: err}
}
