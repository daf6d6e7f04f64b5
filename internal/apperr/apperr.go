// Package apperr defines the error taxonomy shared by the generation pipeline.
//
// Every error type supports errors.As and unwraps to its cause so callers can
// decide containment without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by read operations when the requested row is absent.
var ErrNotFound = errors.New("not found")

// ConfigurationError reports a missing or invalid environment value.
type ConfigurationError struct {
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("configuration error: %s is required", e.Key)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// MalformedModelOutputError is returned when a model reply carries no usable
// JSON, or JSON of the wrong shape for the requesting planner.
type MalformedModelOutputError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *MalformedModelOutputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed model output: %s: %v", e.Reason, e.Err)
	}
	return "malformed model output: " + e.Reason
}

func (e *MalformedModelOutputError) Unwrap() error { return e.Err }

// NewMalformed builds a MalformedModelOutputError.
func NewMalformed(reason, raw string, err error) *MalformedModelOutputError {
	return &MalformedModelOutputError{Reason: reason, Raw: raw, Err: err}
}

// TransportError wraps network failures and non-2xx replies from the model
// endpoint. Status is zero when no HTTP response was received.
type TransportError struct {
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("model transport error (%d): %v", e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("model transport error (%d): %s", e.Status, truncate(e.Body, 300))
	case e.Err != nil:
		return fmt.Sprintf("model transport error: %v", e.Err)
	}
	return "model transport error"
}

func (e *TransportError) Unwrap() error { return e.Err }

// RateLimited reports whether the endpoint rejected the call for quota reasons.
func (e *TransportError) RateLimited() bool { return e.Status == 429 }

// Rejected reports a client error the endpoint will repeat on every attempt,
// such as a bad API key or an unknown model. 408 and 429 are not rejections.
func (e *TransportError) Rejected() bool {
	return e.Status >= 400 && e.Status < 500 && e.Status != 408 && e.Status != 429
}

// WriteError is returned by the persistence layer when the store rejects rows.
type WriteError struct {
	Table string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write to %s failed: %v", e.Table, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// NewWriteError builds a WriteError for the given table.
func NewWriteError(table string, err error) *WriteError {
	return &WriteError{Table: table, Err: err}
}

// FatalDriverError is an error that escaped the course-level bulkhead.
type FatalDriverError struct {
	Course string
	Err    error
}

func (e *FatalDriverError) Error() string {
	return fmt.Sprintf("course %q abandoned: %v", e.Course, e.Err)
}

func (e *FatalDriverError) Unwrap() error { return e.Err }

// Retryable reports whether err belongs to the classes the retry controller
// may retry: malformed model output and transport failures that are not
// rejections.
func Retryable(err error) bool {
	var malformed *MalformedModelOutputError
	if errors.As(err, &malformed) {
		return true
	}
	var transport *TransportError
	return errors.As(err, &transport) && !transport.Rejected()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
