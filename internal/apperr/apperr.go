// Package apperr defines the error taxonomy shared across the service.
//
// Validation errors are user-correctable and surface as field-level
// messages. Upstream and store errors are retryable up to a cap, then
// surface as a generic failure. Signature errors are terminal and are
// never explained to the caller.
package apperr

import (
	"errors"
	"fmt"
)

// ErrInvalidSignature rejects a webhook whose HMAC signature does not match
// the shared secret. Terminal: no fetch, no write may happen after it.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// ErrNotFound is returned by store lookups when no row matches.
var ErrNotFound = errors.New("not found")

// ValidationError carries user-correctable input problems. Never logged as
// a server fault.
type ValidationError struct {
	Msg    string
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Fields)
}

// Validation builds a ValidationError with an optional field list.
func Validation(msg string, fields ...string) *ValidationError {
	return &ValidationError{Msg: msg, Fields: fields}
}

// UpstreamFetchError wraps a failed call to the payment provider API.
type UpstreamFetchError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s: provider returned %d: %s", e.Operation, e.StatusCode, e.Message)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// StoreError wraps a store failure after retries are exhausted. Code carries
// the provider error code when one is available.
type StoreError struct {
	Op   string
	Code string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store %s: [%s] %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// TimeoutError is the terminal state of the reconciliation poller when the
// entitlement never became observable before the attempt cap.
type TimeoutError struct {
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("payment confirmation timed out after %d attempts", e.Attempts)
}
