package leave

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("leave request not found")
	ErrEmptyReason  = errors.New("decline reason is required")
	ErrInvalidRange = errors.New("end date is before start date")
)

// InvalidTransitionError reports a status-machine guard failure. The ledger
// never silently no-ops an illegal transition.
type InvalidTransitionError struct {
	ID    int64
	From  Status
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s request %d in status %s", e.Event, e.ID, e.From)
}

// RejectedBalanceError carries the computed remaining figure so callers can
// explain the refusal.
type RejectedBalanceError struct {
	Category  Category
	Remaining int
}

func (e *RejectedBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s entitlement: remaining would be %d", e.Category, e.Remaining)
}

// RecallWindowError reports a recall refused because too little of the leave
// window remains.
type RecallWindowError struct {
	DaysLeft int
}

func (e *RecallWindowError) Error() string {
	return fmt.Sprintf("cannot recall leave: only %d days remaining", e.DaysLeft)
}

// MalformedDateError marks a stored record whose date could not be parsed.
// Batch scans skip and report these records instead of aborting.
type MalformedDateError struct {
	RequestID int64
	Field     string
	Value     string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("request %d has malformed %s %q", e.RequestID, e.Field, e.Value)
}
