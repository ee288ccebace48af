package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the shelfport domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrSessionLost is returned when the destination session is no longer
	// usable. It aborts the remaining books; the ledger is still flushed.
	ErrSessionLost = errors.New("shelfport: session lost")

	// ErrNotLoggedIn is returned when the run starts without a valid session.
	ErrNotLoggedIn = errors.New("shelfport: not logged in")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("shelfport: invalid configuration")

	// ErrInterrupted is returned when the operator cancels the run.
	ErrInterrupted = errors.New("shelfport: interrupted")
)

// MalformedRecordError reports a raw export record that cannot be normalized
// because a required identity field is missing. The record is skipped and the
// run continues.
type MalformedRecordError struct {
	// ID is the record key in the export, which may be empty when the key
	// itself is the missing field.
	ID string

	Reason string
}

// Error implements the error interface.
func (e *MalformedRecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("malformed record: %s", e.Reason)
	}
	return fmt.Sprintf("malformed record %s: %s", e.ID, e.Reason)
}

// DriverInteractionError reports a failed driver operation: a timeout, a
// missing element, or an unexpected page state. It is terminal for the
// current book's workflow.
type DriverInteractionError struct {
	// Op names the driver operation that failed.
	Op string

	Err error
}

// Error implements the error interface.
func (e *DriverInteractionError) Error() string {
	return fmt.Sprintf("driver %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying driver error.
func (e *DriverInteractionError) Unwrap() error { return e.Err }

// DestinationRejection reports that the destination refused a submission.
// The message is captured verbatim for the operator.
type DestinationRejection struct {
	Message string
}

// Error implements the error interface.
func (e *DestinationRejection) Error() string {
	return fmt.Sprintf("destination rejected submission: %s", e.Message)
}
