// Package domainerrors carries typed error codes across component boundaries.
//
// Services return *Error values (or wrap lower level errors into one) so the
// HTTP boundary can map a failure to a status without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a failure for callers and transport layers.
type Code string

const (
	CodeValidation Code = "validation"
	CodeBadRequest Code = "bad_request"
	CodeConflict   Code = "conflict"
	CodeNotFound   Code = "not_found"
	CodeUpstream   Code = "upstream_error"
	// CodeInconsistency marks a failure after an external side effect already
	// happened. Operators reconcile these by hand.
	CodeInconsistency Code = "inconsistency_window"
	CodeInternal      Code = "internal_error"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
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

// New creates a coded error.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to err. A nil err yields nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether the outermost coded error in err's chain has code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call sites that read better as dErrors.Is.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
