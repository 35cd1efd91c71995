// Package exception provides the error vocabulary shared across the batch engine.
// It standardizes errors raised during read/process/write: BatchError tags the
// failing component and carries a single fatal flag, and the sentinels below
// mark end-of-stream, filtering and an exceeded error threshold, so callers
// can test a failure with errors.Is/errors.As instead of type switches on
// arbitrary third-party error types.
package exception

import (
	"errors"
	"fmt"
)

// ErrNoMoreRecords is returned by a Reader to signal end-of-stream.
var ErrNoMoreRecords = errors.New("no more records to read")

// ErrFiltered is returned by a Processor to signal that a record should be
// dropped and the remaining stages of the chain skipped.
var ErrFiltered = errors.New("record filtered")

// ErrErrorThresholdExceeded is returned internally when the cumulative
// processing error count strictly exceeds JobParameters.ErrorThreshold.
// It is always fatal to the run.
var ErrErrorThresholdExceeded = errors.New("error threshold exceeded")

// BatchError is the engine's own error type. It tags the component in which
// the failure occurred, carries a human message, and wraps the original cause.
type BatchError struct {
	// Module names the component that raised the error, e.g. "reader", "writer",
	// "processor", "executor".
	Module string
	// Message is a short, human-readable description of the failure.
	Message string
	// Cause is the wrapped original error, if any.
	Cause error
	// fatal marks an error that must abort the run regardless of thresholds
	// or batch-scanning configuration (reader/open failures, for instance).
	fatal bool
}

// NewBatchError creates a BatchError. fatal marks failures that can never be
// recovered by batch scanning or the error threshold (e.g. open failures).
func NewBatchError(module, message string, cause error, fatal bool) *BatchError {
	return &BatchError{Module: module, Message: message, Cause: cause, fatal: fatal}
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Module, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Module, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *BatchError) Unwrap() error {
	return e.Cause
}

// IsFatal reports whether this error must abort the run unconditionally.
func (e *BatchError) IsFatal() bool {
	return e.fatal
}

// IsFiltered reports whether err (or something it wraps) is the filter sentinel.
func IsFiltered(err error) bool {
	return errors.Is(err, ErrFiltered)
}

// IsNoMoreRecords reports whether err (or something it wraps) is the
// end-of-stream sentinel.
func IsNoMoreRecords(err error) bool {
	return errors.Is(err, ErrNoMoreRecords)
}

// Message extracts a clean description from err: the Message field for a
// *BatchError, or err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var be *BatchError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
