// Package errors provides structured error types for the regcraft application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, TUI, and host bridge
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages surfaced inline by the editor
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into three groups:
//   - Layout errors (OUT_OF_BOUNDS, COLLISION, REPACK_OVERFLOW): recoverable,
//     local to one edit; the collection is left untouched and the message is
//     shown to the user.
//   - Document errors (PATH_NOT_FOUND, EMPTY_PATH, INVALID_DOCUMENT): indicate
//     a malformed document or a programming error in path construction.
//   - Infrastructure errors (NOT_FOUND, STORE_ERROR, INTERNAL).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeCollision, "bit %d is already owned by %q", bit, name)
//	if errors.Is(err, errors.ErrCodeCollision) {
//	    // Handle the collision
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "save snapshot %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout errors: recoverable, surfaced to the user inline.
	ErrCodeOutOfBounds    Code = "OUT_OF_BOUNDS"
	ErrCodeCollision      Code = "COLLISION"
	ErrCodeRepackOverflow Code = "REPACK_OVERFLOW"
	ErrCodeInvalidRange   Code = "INVALID_RANGE"

	// Document errors: malformed data or bad path construction.
	ErrCodePathNotFound    Code = "PATH_NOT_FOUND"
	ErrCodeEmptyPath       Code = "EMPTY_PATH"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidName     Code = "INVALID_NAME"

	// Infrastructure errors.
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeStore    Code = "STORE_ERROR"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

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
