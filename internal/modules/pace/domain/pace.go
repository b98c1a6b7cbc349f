package domain

import (
	"time"

	deadlinedomain "pacekeeper/internal/modules/deadline/domain"
	"pacekeeper/internal/platform/caldate"
)

// Unit is the unit class a pace is measured in. Page formats and audio are
// never mixed.
type Unit string

const (
	UnitPages   Unit = "pages"
	UnitMinutes Unit = "minutes"
)

const msPerMinute = 60_000.0

func UnitFor(format deadlinedomain.Format) Unit {
	if format.IsAudio() {
		return UnitMinutes
	}
	return UnitPages
}

// toUnit converts a stored quantity into the unit's native scale. Audio is
// stored in milliseconds and reported in minutes.
func toUnit(unit Unit, quantity float64) float64 {
	if unit == UnitMinutes {
		return quantity / msPerMinute
	}
	return quantity
}

type Reliability string

const (
	ReliabilityRecentData      Reliability = "recent_data"
	ReliabilityDefaultFallback Reliability = "default_fallback"
)

type Settings struct {
	WindowDays           int
	MinActiveDays        int
	DefaultPagesPerDay   float64
	DefaultMinutesPerDay float64
}

func DefaultSettings() Settings {
	return Settings{WindowDays: 14, MinActiveDays: 3, DefaultPagesPerDay: 25, DefaultMinutesPerDay: 30}
}

func (s Settings) normalized() Settings {
	def := DefaultSettings()
	if s.WindowDays <= 0 {
		s.WindowDays = def.WindowDays
	}
	if s.MinActiveDays <= 0 {
		s.MinActiveDays = def.MinActiveDays
	}
	if s.DefaultPagesPerDay <= 0 {
		s.DefaultPagesPerDay = def.DefaultPagesPerDay
	}
	if s.DefaultMinutesPerDay <= 0 {
		s.DefaultMinutesPerDay = def.DefaultMinutesPerDay
	}
	return s
}

func (s Settings) fallback(unit Unit) float64 {
	if unit == UnitMinutes {
		return s.DefaultMinutesPerDay
	}
	return s.DefaultPagesPerDay
}

// Track is one deadline's progress history as seen by the pace window.
type Track struct {
	DeadlineID string
	Format     deadlinedomain.Format
	Entries    []deadlinedomain.ProgressEntry
}

// UserPace is the historical daily throughput for one unit class.
type UserPace struct {
	Unit        Unit
	PerDay      float64
	Reliability Reliability
	ActiveDays  int
	// Total is the summed delta over the window, in Unit.
	Total float64
	// WindowStart and WindowEnd are zero when there is no counted entry.
	WindowStart caldate.Date
	WindowEnd   caldate.Date
}

// CalculateUserPace averages daily deltas over the window ending at the
// most recent counted entry of the unit class. Days are calendar days in
// loc. A day's delta for a deadline is its net movement that day, floored
// at zero; an ignored entry moves the baseline without adding to the delta.
func CalculateUserPace(unit Unit, tracks []Track, loc *time.Location, settings Settings) UserPace {
	settings = settings.normalized()
	if loc == nil {
		loc = time.UTC
	}
	out := UserPace{Unit: unit, PerDay: settings.fallback(unit), Reliability: ReliabilityDefaultFallback}

	var anchor time.Time
	found := false
	for _, track := range tracks {
		if UnitFor(track.Format) != unit {
			continue
		}
		if latest, ok := deadlinedomain.LatestProgress(track.Entries); ok {
			if !found || latest.CreatedAt.After(anchor) {
				anchor = latest.CreatedAt
				found = true
			}
		}
	}
	if !found {
		return out
	}

	end := caldate.DateOf(anchor.In(loc))
	start := end.AddDays(-(settings.WindowDays - 1))
	perDay := map[caldate.Date]float64{}
	for _, track := range tracks {
		if UnitFor(track.Format) != unit {
			continue
		}
		addDailyDeltas(perDay, track.Entries, loc, start, end)
	}

	total := 0.0
	active := 0
	for _, delta := range perDay {
		if delta > 0 {
			total += delta
			active++
		}
	}
	out.WindowStart = start
	out.WindowEnd = end
	out.ActiveDays = active
	out.Total = toUnit(unit, total)
	if active < settings.MinActiveDays {
		return out
	}
	out.PerDay = out.Total / float64(settings.WindowDays)
	out.Reliability = ReliabilityRecentData
	return out
}

// addDailyDeltas walks one history oldest first. The level before the first
// entry is zero, so the first counted value is that day's delta.
func addDailyDeltas(perDay map[caldate.Date]float64, entries []deadlinedomain.ProgressEntry, loc *time.Location, start, end caldate.Date) {
	sorted := deadlinedomain.SortedProgress(entries)
	level := 0
	for i := 0; i < len(sorted); {
		day := caldate.DateOf(sorted[i].CreatedAt.In(loc))
		segmentStart := level
		moved := 0
		for ; i < len(sorted) && caldate.DateOf(sorted[i].CreatedAt.In(loc)) == day; i++ {
			e := sorted[i]
			if e.IgnoreInCalcs {
				moved += level - segmentStart
				segmentStart = e.CurrentProgress
			}
			level = e.CurrentProgress
		}
		moved += level - segmentStart
		if day.Before(start) || day.After(end) || moved <= 0 {
			continue
		}
		perDay[day] += float64(moved)
	}
}
