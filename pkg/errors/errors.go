// Package errors provides coded errors for swapcharts. Every layer reports
// failures as an [*Error], so the CLI can pick an exit status with
// [ExitCode] and print [UserMessage] without the code prefix.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - LOAD_* / PARSE_*: Dataset retrieval and decoding failures
//   - NOT_FOUND / NETWORK_*: Resource access errors
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidChart, "unknown chart: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidChart) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLoad, origErr, "load %s", locator)
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
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidChart   Code = "INVALID_CHART"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidLocator Code = "INVALID_LOCATOR"
	ErrCodeInvalidColor   Code = "INVALID_COLOR"

	// Dataset errors
	ErrCodeLoad  Code = "LOAD_FAILED"
	ErrCodeParse Code = "PARSE_FAILED"

	// Resource access errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeTimeout  Code = "TIMEOUT"

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

// GetCode extracts the error code from err. Errors that report their own
// code, like [StatusError], are honoured. It returns "" when err carries no
// code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c interface{ Code() Code }
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// Exit statuses returned by [ExitCode].
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitData    = 3
)

// ExitCode maps err to a process exit status: ExitUsage for invalid input
// or configuration, ExitData when the dataset could not be fetched or
// parsed, and ExitFailure otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	code := GetCode(err)
	switch {
	case strings.HasPrefix(string(code), "INVALID_"):
		return ExitUsage
	case code == ErrCodeLoad, code == ErrCodeParse, code == ErrCodeNotFound,
		code == ErrCodeNetwork, code == ErrCodeTimeout:
		return ExitData
	}
	return ExitFailure
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

// StatusError reports an unexpected HTTP status while fetching a dataset.
type StatusError struct {
	StatusCode int
	URL        string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Code returns the error code for this error type.
func (e *StatusError) Code() Code {
	if e.StatusCode == 404 {
		return ErrCodeNotFound
	}
	return ErrCodeNetwork
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
