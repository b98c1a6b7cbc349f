package domain

import (
	"time"

	deadlinedomain "pacekeeper/internal/modules/deadline/domain"
	"pacekeeper/internal/platform/caldate"
)

// Input is everything Calculate reads. Now carries the user's location.
type Input struct {
	Deadline deadlinedomain.Deadline
	Progress []deadlinedomain.ProgressEntry
	Statuses []deadlinedomain.StatusEntry
	UserPace UserPace
	Now      time.Time
}

// Result is the per-deadline snapshot every surface renders. It is a plain
// value; nothing downstream writes back into it.
type Result struct {
	DeadlineID          string
	Title               string
	Format              deadlinedomain.Format
	Unit                Unit
	DeadlineDate        string
	TotalQuantity       int
	CurrentProgress     int
	ProgressPercentage  int
	Remaining           int
	DaysLeft            int
	DateKnown           bool
	StartedDaysAgo      int
	Started             bool
	RequiredPace        RequiredPace
	RequiredPaceDisplay string
	UserPace            float64
	UserPaceDisplay     string
	Urgency             Urgency
	Status              deadlinedomain.Status
	PaceReliability     Reliability
}

// Calculate assembles the result. It never fails: missing dates, empty
// histories and degenerate quantities all map to sentinels.
func Calculate(in Input) Result {
	d := in.Deadline
	unit := UnitFor(d.Format)
	current := ClampProgress(deadlinedomain.CurrentProgress(in.Progress), d.TotalQuantity)
	daysLeft, dateKnown := caldate.LocalDaysLeft(d.DeadlineDate, in.Now)
	required := CalculateRequiredPace(d.Format, d.TotalQuantity, current, daysLeft, dateKnown)

	userPace := in.UserPace
	if userPace.Unit != unit {
		userPace = UserPace{Unit: unit, Reliability: ReliabilityDefaultFallback, PerDay: DefaultSettings().fallback(unit)}
	}

	result := Result{
		DeadlineID:          d.ID,
		Title:               d.Title,
		Format:              d.Format,
		Unit:                unit,
		DeadlineDate:        d.DeadlineDate,
		TotalQuantity:       d.TotalQuantity,
		CurrentProgress:     current,
		ProgressPercentage:  percentage(current, d.TotalQuantity),
		Remaining:           Remaining(d.TotalQuantity, current),
		DaysLeft:            daysLeft,
		DateKnown:           dateKnown,
		RequiredPace:        required,
		RequiredPaceDisplay: FormatRequiredPace(required),
		UserPace:            userPace.PerDay,
		UserPaceDisplay:     FormatUserPace(userPace),
		Urgency:             Classify(daysLeft, dateKnown, required, userPace.PerDay),
		Status:              deadlinedomain.LatestStatus(in.Statuses),
		PaceReliability:     userPace.Reliability,
	}
	if first, ok := deadlinedomain.FirstProgress(in.Progress); ok {
		result.Started = true
		result.StartedDaysAgo = caldate.Today(in.Now).DaysSince(caldate.DateOf(first.CreatedAt.In(in.Now.Location())))
	}
	return result
}

// percentage is floored so an unfinished book never shows 100.
func percentage(current, total int) int {
	if total <= 0 {
		return 0
	}
	return int(int64(current) * 100 / int64(total))
}
