package budget

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no budget (or session) exists for an operation
// that requires one.
var ErrNotFound = errors.New("not found")

// ValidationError reports a malformed client payload. It is safe to show to
// the caller verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// PersistenceError wraps a gateway failure. The wrapped error is logged but
// never surfaced to callers.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// PartialReconciliationError reports that a reconciliation pass failed after
// some mutations had already committed. No rollback is attempted; re-issuing
// the same reconciliation converges the stored state.
type PartialReconciliationError struct {
	BudgetID string
	Step     string
	Err      error
}

func (e *PartialReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation of budget %s aborted at %s: %v", e.BudgetID, e.Step, e.Err)
}

func (e *PartialReconciliationError) Unwrap() error {
	return e.Err
}
