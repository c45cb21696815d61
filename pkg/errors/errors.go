// Package errors provides structured error types for irwalk.
//
// Errors fall into two families that must never be confused:
//   - Internal faults (INTERNAL_*): an engine or pass-author defect such as a
//     failed downcast, a corrupted memo table or pruning outside a pre-step.
//     They are raised with [Bug] or [Check], which panic, and always
//     terminate the run. [Recover] turns them back into an error at a
//     process boundary.
//   - User-facing diagnostics (INVALID_*, UNRESOLVED_*, TYPE_*): problems in
//     the program being compiled. Passes report them to a diag.Sink and
//     traversal continues.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnresolved, "unknown name %q", name)
//	if errors.Is(err, errors.ErrCodeUnresolved) {
//	    // Handle diagnostic
//	}
//
//	// Abort on an invariant violation
//	errors.Check(n != nil, errors.ErrCodeNilNode, "nil child in %s", parent)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidKind     Code = "INVALID_KIND"
	ErrCodeInvalidPass     Code = "INVALID_PASS"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Program diagnostics
	ErrCodeUnresolved Code = "UNRESOLVED_NAME"
	ErrCodeType       Code = "TYPE_ERROR"
	ErrCodeDivByZero  Code = "DIVISION_BY_ZERO"
	ErrCodeAborted    Code = "ABORTED"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal faults
	ErrCodeInternal             Code = "INTERNAL_ERROR"
	ErrCodeNilNode              Code = "INTERNAL_NIL_NODE"
	ErrCodeBadCast              Code = "INTERNAL_BAD_CAST"
	ErrCodeMemoCorrupt          Code = "INTERNAL_MEMO_CORRUPT"
	ErrCodePruneOutsidePreorder Code = "INTERNAL_PRUNE_OUTSIDE_PREORDER"
	ErrCodeNoContext            Code = "INTERNAL_NO_CONTEXT"
	ErrCodeLoop                 Code = "INTERNAL_LOOP"
	ErrCodeConstVisit           Code = "INTERNAL_CONST_VISIT"
	ErrCodeShape                Code = "INTERNAL_CHILD_SHAPE"
	ErrCodeUnsupported          Code = "UNSUPPORTED"
)

// Internal reports whether the code belongs to the internal fault family.
func (c Code) Internal() bool {
	return strings.HasPrefix(string(c), "INTERNAL_")
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsInternal reports whether err is an internal fault.
func IsInternal(err error) bool {
	return GetCode(err).Internal()
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Bug raises an internal fault. It never returns.
//
// Faults are panics carrying an *Error so that they unwind the whole
// traversal immediately; they are not meant to be handled by passes.
func Bug(code Code, format string, args ...any) {
	if !code.Internal() {
		code = ErrCodeInternal
	}
	panic(New(code, format, args...))
}

// Check raises an internal fault with the given code when cond is false.
func Check(cond bool, code Code, format string, args ...any) {
	if !cond {
		Bug(code, format, args...)
	}
}

// Recover converts a panic carrying an *Error into an error stored in errp.
// Other panics are re-raised. It must be called directly by a deferred
// function:
//
//	defer errors.Recover(&err)
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(*Error); ok {
		*errp = e
		return
	}
	panic(r)
}
