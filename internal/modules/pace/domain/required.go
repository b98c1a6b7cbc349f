package domain

import deadlinedomain "pacekeeper/internal/modules/deadline/domain"

type RequiredKind string

const (
	RequiredValue      RequiredKind = "value"
	RequiredSatisfied  RequiredKind = "satisfied"
	RequiredImpossible RequiredKind = "impossible"
	RequiredUndefined  RequiredKind = "undefined"
)

// RequiredPace is the throughput needed to finish on time. PerDay is only
// meaningful when Kind is RequiredValue. DueToday marks an impossible pace
// whose date is today rather than past.
type RequiredPace struct {
	Kind     RequiredKind
	PerDay   float64
	Unit     Unit
	DueToday bool
}

// ClampProgress bounds current to [0, total]. A non-positive total clamps
// everything to zero.
func ClampProgress(current, total int) int {
	if total <= 0 || current <= 0 {
		return 0
	}
	if current > total {
		return total
	}
	return current
}

func Remaining(total, current int) int {
	if total <= 0 {
		return 0
	}
	return total - ClampProgress(current, total)
}

// CalculateRequiredPace checks the degenerate cases in order: no quantity or
// no date, nothing left, no days left. Only then does it divide.
func CalculateRequiredPace(format deadlinedomain.Format, total, current, daysLeft int, dateKnown bool) RequiredPace {
	unit := UnitFor(format)
	if total <= 0 || !dateKnown {
		return RequiredPace{Kind: RequiredUndefined, Unit: unit}
	}
	remaining := Remaining(total, current)
	if remaining == 0 {
		return RequiredPace{Kind: RequiredSatisfied, Unit: unit}
	}
	if daysLeft <= 0 {
		return RequiredPace{Kind: RequiredImpossible, Unit: unit, DueToday: daysLeft == 0}
	}
	return RequiredPace{
		Kind:   RequiredValue,
		PerDay: toUnit(unit, float64(remaining)) / float64(daysLeft),
		Unit:   unit,
	}
}
