package domain

import (
	"slices"
	"strings"
)

// Rank orders results for notifications: most severe urgency first, then
// fewest days left (unknown dates last), then deadline id. Terminal statuses
// are dropped. A limit of zero or less keeps everything.
func Rank(results []Result, limit int) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Status.IsTerminal() {
			continue
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Result) int {
		if sa, sb := a.Urgency.Severity(), b.Urgency.Severity(); sa != sb {
			return sb - sa
		}
		if a.DateKnown != b.DateKnown {
			if a.DateKnown {
				return -1
			}
			return 1
		}
		if a.DaysLeft != b.DaysLeft {
			if a.DaysLeft < b.DaysLeft {
				return -1
			}
			return 1
		}
		return strings.Compare(a.DeadlineID, b.DeadlineID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
