package domain

import "fmt"

// Error types for consistent error handling across the engine.

// RejectionReason classifies why the validator refused an observation.
type RejectionReason string

const (
	RejectMissing      RejectionReason = "missing"
	RejectWrongShape   RejectionReason = "wrong_shape"
	RejectMissingField RejectionReason = "missing_field"
	RejectInvalidCount RejectionReason = "invalid_count"
)

// ErrRejected indicates an observation failed validation. Rejections are
// returned as values, never panics, and never touch ledger state.
type ErrRejected struct {
	Reason RejectionReason
	Field  string
}

func (e *ErrRejected) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("observation rejected (%s): field %q", e.Reason, e.Field)
	}
	return fmt.Sprintf("observation rejected (%s)", e.Reason)
}

// ErrInvariant indicates an append would have produced a negative or
// non-finite aggregate value. This is a programming-bug signal; the append
// is failed loudly instead of clamping to a "sane" substitute.
type ErrInvariant struct {
	Field string
	Value float64
}

func (e *ErrInvariant) Error() string {
	return fmt.Sprintf("aggregate invariant violated: %s would become %v", e.Field, e.Value)
}

// ErrPersistence indicates the durable store failed. The engine keeps
// operating in memory; the ledger is flagged as not yet durable.
type ErrPersistence struct {
	Op  string
	Err error
}

func (e *ErrPersistence) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *ErrPersistence) Unwrap() error {
	return e.Err
}

// ErrDuplicate indicates an identical observation arrived within the
// duplicate-suppression window (a double-fired scan).
type ErrDuplicate struct {
	Fingerprint string
}

func (e *ErrDuplicate) Error() string {
	return fmt.Sprintf("duplicate observation within dedupe window: %s", e.Fingerprint)
}

// ErrSessionActive indicates startSession was called while a session is
// already open.
type ErrSessionActive struct {
	StartedAt string
}

func (e *ErrSessionActive) Error() string {
	return fmt.Sprintf("scanning session already active since %s", e.StartedAt)
}

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized indicates a missing or invalid bearer token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}
