package domain

import "slices"

// Entries may arrive out of order (an optimistic local append reconciled
// against the server later), so "current" is always chosen by CreatedAt and
// never by slice position. Ties on CreatedAt are broken as follows, because
// the source data has no sequence number:
//
//   - LatestProgress: larger CurrentProgress wins, then later slice position.
//   - LatestStatus:   later slice position wins.
//   - FirstProgress:  earlier slice position wins.
//
// Stores hand entries back in insertion order, so slice position is the
// insertion sequence.

// LatestProgress returns the most recent entry that counts toward
// calculations. ok is false when every entry is ignored or there are none.
func LatestProgress(entries []ProgressEntry) (ProgressEntry, bool) {
	best := -1
	for i, e := range entries {
		if e.IgnoreInCalcs {
			continue
		}
		if best < 0 || laterProgress(e, entries[best]) {
			best = i
		}
	}
	if best < 0 {
		return ProgressEntry{}, false
	}
	return entries[best], true
}

// CurrentProgress is the LatestProgress value, falling back to 0.
func CurrentProgress(entries []ProgressEntry) int {
	e, ok := LatestProgress(entries)
	if !ok {
		return 0
	}
	return e.CurrentProgress
}

// laterProgress reports whether a should replace b as the latest entry, where
// a sits at a later slice position than b.
func laterProgress(a, b ProgressEntry) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.CurrentProgress >= b.CurrentProgress
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// LatestEntry returns the current status entry; ok is false for an empty
// history.
func LatestEntry(entries []StatusEntry) (StatusEntry, bool) {
	best := -1
	for i, e := range entries {
		if best < 0 || !e.CreatedAt.Before(entries[best].CreatedAt) {
			best = i
		}
	}
	if best < 0 {
		return StatusEntry{}, false
	}
	return entries[best], true
}

// LatestStatus is the current lifecycle state, reading when there is no
// history.
func LatestStatus(entries []StatusEntry) Status {
	e, ok := LatestEntry(entries)
	if !ok {
		return StatusReading
	}
	return e.Status
}

// FirstProgress is the earliest entry, ignored ones included. It anchors
// "started N days ago".
func FirstProgress(entries []ProgressEntry) (ProgressEntry, bool) {
	best := -1
	for i, e := range entries {
		if best < 0 || e.CreatedAt.Before(entries[best].CreatedAt) {
			best = i
		}
	}
	if best < 0 {
		return ProgressEntry{}, false
	}
	return entries[best], true
}

// SortedProgress returns a copy ordered oldest first with the same tie rules
// as LatestProgress, so the last element of the copy is the latest entry.
func SortedProgress(entries []ProgressEntry) []ProgressEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b ProgressEntry) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.CurrentProgress < b.CurrentProgress:
			return -1
		case a.CurrentProgress > b.CurrentProgress:
			return 1
		}
		return 0
	})
	return out
}

// SortedStatuses returns a copy ordered oldest first; equal timestamps keep
// insertion order.
func SortedStatuses(entries []StatusEntry) []StatusEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b StatusEntry) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}
