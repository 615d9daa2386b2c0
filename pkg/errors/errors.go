// Package errors provides structured error types for the cayleygo engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the search, frontier, and pipeline layers
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (malformed states or generators)
//   - MEMORY_BUDGET / TIMEOUT: Resource exhaustion; searches stop cleanly
//     and return partial results
//   - LAYER_CLOSED / PATH_NOT_RECORDED: Usage errors, surfaced immediately
//   - BEAM_EXHAUSTED: Normal beam-search termination, not a hard failure
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGenerator, "not a permutation of length %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidGenerator) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "insert key into layer %d", layer)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidState     Code = "INVALID_STATE"
	ErrCodeInvalidGenerator Code = "INVALID_GENERATOR"
	ErrCodeInvalidKey       Code = "INVALID_KEY"
	ErrCodeInvalidOptions   Code = "INVALID_OPTIONS"

	// Resource exhaustion; recovered by returning partial results
	ErrCodeMemoryBudget Code = "MEMORY_BUDGET"
	ErrCodeTimeout      Code = "TIMEOUT"

	// Usage errors, surfaced immediately and never retried
	ErrCodeLayerClosed     Code = "LAYER_CLOSED"
	ErrCodePathNotRecorded Code = "PATH_NOT_RECORDED"

	// Normal beam-search termination signal
	ErrCodeBeamExhausted Code = "BEAM_EXHAUSTED"

	// Storage backend failures (Badger, Redis)
	ErrCodeStore Code = "STORE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// IsBudget reports whether err is a resource-budget violation (memory
// budget or timeout). A search that stops on a budget leaves its store
// consistent and returns the layers completed so far.
func IsBudget(err error) bool {
	return Is(err, ErrCodeMemoryBudget) || Is(err, ErrCodeTimeout)
}
