package validation

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel matched by every InputError.
var ErrInvalidInput = errors.New("invalid input")

// InputError reports input rejected before any computation starts.
type InputError struct {
	Field  string // Offending field or column (e.g. "seeds", "term_id")
	Reason string // Human readable reason
	Cause  error  // Underlying error, if any
}

// NewInputError creates an InputError for field with a formatted reason.
func NewInputError(field, format string, args ...any) *InputError {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *InputError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", ErrInvalidInput, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, msg)
}

// Unwrap returns the underlying cause for error chain support.
func (e *InputError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrInvalidInput or matches the cause.
func (e *InputError) Is(target error) bool {
	if target == ErrInvalidInput {
		return true
	}
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// IsInputError reports whether err was caused by rejected input.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
