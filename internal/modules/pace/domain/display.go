package domain

import (
	"fmt"
	"math"
)

// FormatRequiredPace renders a required pace, rounding up so that
// following the figure always finishes in time.
func FormatRequiredPace(p RequiredPace) string {
	switch p.Kind {
	case RequiredSatisfied:
		return "done"
	case RequiredImpossible:
		if p.DueToday {
			return "due today"
		}
		return "overdue"
	case RequiredUndefined:
		return "n/a"
	}
	return formatPerDay(p.Unit, math.Ceil(p.PerDay))
}

func FormatUserPace(p UserPace) string {
	return formatPerDay(p.Unit, math.Round(p.PerDay))
}

func formatPerDay(unit Unit, amount float64) string {
	if math.IsNaN(amount) || amount < 0 {
		amount = 0
	}
	amount = math.Min(amount, 1e9)
	n := int(amount)
	if unit == UnitMinutes {
		if n >= 60 {
			if n%60 == 0 {
				return fmt.Sprintf("%dh/day", n/60)
			}
			return fmt.Sprintf("%dh %dm/day", n/60, n%60)
		}
		return fmt.Sprintf("%d min/day", n)
	}
	if n == 1 {
		return "1 page/day"
	}
	return fmt.Sprintf("%d pages/day", n)
}
