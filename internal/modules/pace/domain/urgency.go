package domain

// Urgency is a closed set; Classify always returns one of these.
type Urgency string

const (
	UrgencyOverdue     Urgency = "overdue"
	UrgencyImpossible  Urgency = "impossible"
	UrgencyUrgent      Urgency = "urgent"
	UrgencyApproaching Urgency = "approaching"
	UrgencyGood        Urgency = "good"
)

const (
	// Hysteresis factors against day-to-day noise in the user's pace.
	GoodFactor        = 0.9
	ApproachingFactor = 1.3

	MaxPagesPerDay   = 300.0
	MaxMinutesPerDay = 720.0
)

func Urgencies() []Urgency {
	return []Urgency{UrgencyOverdue, UrgencyImpossible, UrgencyUrgent, UrgencyApproaching, UrgencyGood}
}

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyOverdue, UrgencyImpossible, UrgencyUrgent, UrgencyApproaching, UrgencyGood:
		return true
	default:
		return false
	}
}

// Severity orders buckets for ranking; higher is more pressing.
func (u Urgency) Severity() int {
	switch u {
	case UrgencyOverdue:
		return 4
	case UrgencyImpossible:
		return 3
	case UrgencyUrgent:
		return 2
	case UrgencyApproaching:
		return 1
	default:
		return 0
	}
}

// MaxPerDay is the most a person can plausibly get through in a day.
func MaxPerDay(unit Unit) float64 {
	if unit == UnitMinutes {
		return MaxMinutesPerDay
	}
	return MaxPagesPerDay
}

// Classify is an ordered decision list; the first rule that matches wins and
// the last one always matches. An undefined required pace is treated as
// impossible. daysLeft only counts when dateKnown is set.
func Classify(daysLeft int, dateKnown bool, required RequiredPace, userPace float64) Urgency {
	if dateKnown && daysLeft < 0 {
		return UrgencyOverdue
	}
	switch required.Kind {
	case RequiredImpossible, RequiredUndefined:
		return UrgencyImpossible
	case RequiredSatisfied:
		return UrgencyGood
	}
	if required.PerDay > MaxPerDay(required.Unit) {
		return UrgencyImpossible
	}
	if required.PerDay <= userPace*GoodFactor {
		return UrgencyGood
	}
	if required.PerDay <= userPace*ApproachingFactor {
		return UrgencyApproaching
	}
	return UrgencyUrgent
}
