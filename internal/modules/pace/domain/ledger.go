package domain

import deadlinedomain "pacekeeper/internal/modules/deadline/domain"

// Ledger is one deadline with its full history, as read from the ledger
// owner.
type Ledger struct {
	Deadline deadlinedomain.Deadline
	Progress []deadlinedomain.ProgressEntry
	Statuses []deadlinedomain.StatusEntry
}

// Active reports whether the deadline counts toward the user's pace.
func (l Ledger) Active() bool {
	return deadlinedomain.LatestStatus(l.Statuses) == deadlinedomain.StatusReading
}

func (l Ledger) Track() Track {
	return Track{DeadlineID: l.Deadline.ID, Format: l.Deadline.Format, Entries: l.Progress}
}
