// Package errors provides structured error types for cardforge.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the wizard
//   - Machine-readable error codes for programmatic handling
//   - A single user-facing message per failure
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_* / MISSING_*: Input validation failures, fixed by correcting input
//   - UNSUPPORTED_TYPE, FILE_TOO_LARGE: Rejected files
//   - NETWORK_ERROR, REMOTE_ERROR, CONTENT_REJECTED: Failures of the remote service
//   - INTERNAL_ERROR: Unexpected internal errors
//
// None of these are fatal: every failure leaves the caller free to correct the
// input and try again.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingFile, "please choose a logo file")
//	if errors.Is(err, errors.ErrCodeMissingFile) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "request to %s failed", url)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidPosition Code = "INVALID_POSITION"
	ErrCodeInvalidStyle    Code = "INVALID_STYLE"
	ErrCodeInvalidMode     Code = "INVALID_MODE"
	ErrCodeMissingFile     Code = "MISSING_FILE"
	ErrCodeMissingPrompt   Code = "MISSING_PROMPT"

	// File rejection errors
	ErrCodeUnsupportedType Code = "UNSUPPORTED_TYPE"
	ErrCodeFileTooLarge    Code = "FILE_TOO_LARGE"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Remote service errors
	ErrCodeNetwork         Code = "NETWORK_ERROR"
	ErrCodeRemote          Code = "REMOTE_ERROR"
	ErrCodeContentRejected Code = "CONTENT_REJECTED"
	ErrCodeBusy            Code = "BUSY"

	// Internal errors
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

// IsValidation reports whether err is caused by input the user can correct
// before trying again.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidPosition, ErrCodeInvalidStyle, ErrCodeInvalidMode,
		ErrCodeMissingFile, ErrCodeMissingPrompt, ErrCodeUnsupportedType, ErrCodeFileTooLarge,
		ErrCodeFileNotFound:
		return true
	}
	return false
}
