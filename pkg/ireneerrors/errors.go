// Package ireneerrors defines the single structured error taxonomy used
// across every Irene component, per the error handling design: config,
// component lifecycle, provider failover, donation loading, recognition,
// handler execution, cancellation, and timeouts all share one Error type
// so callers can branch on Code rather than on concrete types.
package ireneerrors

import (
	"errors"
	"fmt"
)

// Code identifies the category of an error for programmatic handling
// (retry strategy, failover, user-facing messages).
type Code string

const (
	// CodeConfig marks missing/invalid configuration or unresolved
	// environment variables. Fatal at startup.
	CodeConfig Code = "config_error"

	// CodeComponentInit marks a component that failed to start.
	CodeComponentInit Code = "component_init_error"

	// CodeProviderUnavailable marks a stage that failed after retries and
	// failovers were exhausted.
	CodeProviderUnavailable Code = "provider_unavailable"

	// CodeDonation marks a donation schema or method-existence failure.
	CodeDonation Code = "donation_error"

	// CodeBelowThreshold is not a failure; it signals that NLU recognition
	// fell short of the configured confidence threshold and the caller
	// should fall back to conversation.chat.
	CodeBelowThreshold Code = "recognition_below_threshold"

	// CodeHandler marks an exception raised inside an intent handler.
	CodeHandler Code = "handler_error"

	// CodeCancelled marks cooperative cancellation of an in-flight
	// operation; no assistant turn is written for it.
	CodeCancelled Code = "cancelled"

	// CodeTimeout marks a stage deadline expiring.
	CodeTimeout Code = "timeout"
)

// retryable is the set of codes a caller should retry (with backoff) before
// failing over to the next provider.
var retryable = map[Code]bool{
	CodeTimeout:             true,
	CodeProviderUnavailable: true,
}

// IsRetryable reports whether an error of the given code should be retried
// locally before failing over to the next provider.
func IsRetryable(code Code) bool {
	return retryable[code]
}

// Error is the structured error carried by every Irene package: an
// operation name, a taxonomy code, a human message, and an optional cause.
type Error struct {
	Op      string
	Code    Code
	Message string
	Err     error
}

// New creates an Error with the given operation, code, message, and
// optional wrapped cause.
func New(op string, code Code, msg string, cause error) *Error {
	return &Error{Op: op, Code: code, Message: msg, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Op, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Op, e.Code, e.Message)
}

// Unwrap returns the wrapped cause, enabling errors.Is/As traversal.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Code, letting
// callers write errors.Is(err, ireneerrors.New("", CodeTimeout, "", nil)).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// CodeOf extracts the Code from err if it is (or wraps) an *Error, and
// reports ok=false otherwise.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// Retryable reports whether err carries a retryable Code.
func Retryable(err error) bool {
	code, ok := CodeOf(err)
	return ok && IsRetryable(code)
}
