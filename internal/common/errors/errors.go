// Package errors provides the typed failure taxonomy raised by the store.
package errors

import (
	goerrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeNotFound: a referenced user, menu item, or franchise is absent.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidArgument: malformed pagination or filter input.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeTransactionFailure: a cascade failed and was rolled back.
	ErrCodeTransactionFailure ErrorCode = "TRANSACTION_FAILURE"

	// ErrCodeConnectivityFailure: connection or schema errors, including the
	// post-bootstrap-failure state.
	ErrCodeConnectivityFailure ErrorCode = "CONNECTIVITY_FAILURE"
)

// StandardError represents a structured store error. The store never encodes
// transport status codes; mapping to HTTP belongs to the caller.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// Error Constructors
// ==========================

// NewNotFoundError creates a non-retryable missing-reference error.
func NewNotFoundError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidArgumentError creates a non-retryable bad-input error.
func NewInvalidArgumentError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidArgument,
		Message:   "invalid argument",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransactionFailureError creates a non-retryable cascade failure error.
// Rollback is guaranteed before this surfaces.
func NewTransactionFailureError(message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeTransactionFailure,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConnectivityFailureError creates a retryable connection/schema error.
func NewConnectivityFailureError(err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeConnectivityFailure,
		Message:   "database connectivity error",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// Utility Functions
// ==========================

// CodeOf returns the error code of a StandardError, or "" for other errors.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if goerrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsNotFound checks whether err is a NOT_FOUND store error.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsCode checks whether err carries the given store error code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// IsRetryable reports whether the error is worth retrying as-is.
func IsRetryable(err error) bool {
	var se *StandardError
	if goerrors.As(err, &se) {
		return se.Retryable
	}
	return false
}
