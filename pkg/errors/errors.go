// Package errors carries the coded errors returned by the solver packages,
// the file loaders and the CLI.
//
// Only malformed input and infeasible constraint sets become errors.
// Numerical degeneracy inside the solvers is recovered locally and never
// surfaces here.
//
// Codes group by prefix: INVALID_* for bad values, *_OUT_OF_RANGE and
// DIMENSION_MISMATCH for references that do not exist, UNSATISFIABLE for
// constraint sets without a solution.
//
//	err := errors.New(errors.ErrCodeIndexOutOfRange, "link %d: target %d not in [0,%d)", i, t, n)
//	if errors.Is(err, errors.ErrCodeIndexOutOfRange) {
//	    ...
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error class.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidAxis   Code = "INVALID_AXIS"

	ErrCodeIndexOutOfRange   Code = "INDEX_OUT_OF_RANGE"
	ErrCodeDimensionMismatch Code = "DIMENSION_MISMATCH"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"
	ErrCodeUnsupported       Code = "UNSUPPORTED"

	// ErrCodeUnsatisfiable marks a constraint set with no feasible solution.
	ErrCodeUnsatisfiable Code = "UNSATISFIABLE"

	// ErrCodeInternal marks a broken invariant, never bad input.
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a coded error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the first *Error in err's chain without
// its code, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

// As is the standard library's errors.As, so callers need one errors import.
func As(err error, target any) bool { return errors.As(err, target) }

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// UnsatisfiableError names the constraint a solver gave up on. Solvers return
// it wrapped in an *Error with ErrCodeUnsatisfiable.
type UnsatisfiableError struct {
	Left, Right int // variable indices
	Gap         float64
	Equality    bool
}

func (e *UnsatisfiableError) Error() string {
	op := ">="
	if e.Equality {
		op = "=="
	}
	return fmt.Sprintf("v%d - v%d %s %g cannot be satisfied", e.Right, e.Left, op, e.Gap)
}

func (e *UnsatisfiableError) Code() Code { return ErrCodeUnsatisfiable }
