// Package approval implements the reservation approval workflow: the
// state machine over reservation statuses and the ordered multi-write
// sequence that derives a calendar event from an approved
// reservation, with manual compensation in place of a cross-entity
// transaction.
package approval

import (
	"errors"
	"fmt"

	"github.com/iliyamo/campus-space-booking/internal/model"
)

// ErrInvalidTransition is returned when the requested decision is not
// legal for the reservation's current status.  No write has happened
// when this error is returned.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrCommentRequired is returned by Reject when no comment was
// supplied; a rejection must always tell the requester why.
var ErrCommentRequired = errors.New("decision comment required")

// DependentWriteError wraps the failure of the event creation step
// during Approve.  By the time the caller sees it, the compensating
// write has already put the reservation back to PENDING; the wrapped
// error is the original event-creation failure.
type DependentWriteError struct {
	Err error
}

func (e *DependentWriteError) Error() string {
	return fmt.Sprintf("event creation failed: %v", e.Err)
}

func (e *DependentWriteError) Unwrap() error { return e.Err }

// invalidTransition builds the error for an illegal decision,
// carrying enough context for log lines without a custom type.
func invalidTransition(op string, from model.ReservationStatus) error {
	return fmt.Errorf("%s from %s: %w", op, from, ErrInvalidTransition)
}
