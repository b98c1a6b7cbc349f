package domain

import (
	"fmt"

	apperrors "pacekeeper/internal/platform/errors"
)

type Status string

const (
	StatusPending      Status = "pending"
	StatusReading      Status = "reading"
	StatusPaused       Status = "paused"
	StatusToReview     Status = "to_review"
	StatusComplete     Status = "complete"
	StatusDidNotFinish Status = "did_not_finish"
)

var allStatuses = []Status{StatusPending, StatusReading, StatusPaused, StatusToReview, StatusComplete, StatusDidNotFinish}

// Statuses lists every lifecycle state in declaration order.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusReading, StatusPaused, StatusToReview, StatusComplete, StatusDidNotFinish:
		return nil
	default:
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidInput, string(s))
	}
}

// IsTerminal reports archival states. They are not absorbing: a later
// reading entry reactivates the deadline.
func (s Status) IsTerminal() bool {
	return s == StatusComplete || s == StatusDidNotFinish
}

// CanTransition is the lifecycle validity filter. It holds no state; the
// current status always comes from LatestStatus over the ledger.
func CanTransition(from, to Status) bool {
	if from.Validate() != nil || to.Validate() != nil || from == to {
		return false
	}
	if from.IsTerminal() {
		return to == StatusReading
	}
	if to.IsTerminal() {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusReading
	case StatusReading:
		return to == StatusPaused || to == StatusToReview
	case StatusPaused:
		return to == StatusReading
	default:
		return false
	}
}

// ValidateTransition wraps CanTransition with an apperrors.ErrInvalidTransition.
func ValidateTransition(from, to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, from, to)
	}
	return nil
}

// InitialStatusAllowed reports whether a new deadline may start in s.
func InitialStatusAllowed(s Status) bool {
	return s == StatusPending || s == StatusReading
}
