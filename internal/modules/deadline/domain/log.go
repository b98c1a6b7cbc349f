package domain

import "slices"

// Log is an append-only arena of ledger entries with a derived index by
// deadline id. Nothing is edited or removed once appended; the current view
// of a deadline is always recomputed from its full history.
type Log struct {
	progress      []ProgressEntry
	statuses      []StatusEntry
	progressIndex map[string][]int
	statusIndex   map[string][]int
}

func NewLog() *Log {
	return &Log{
		progressIndex: map[string][]int{},
		statusIndex:   map[string][]int{},
	}
}

func (l *Log) AppendProgress(entry ProgressEntry) {
	l.progressIndex[entry.DeadlineID] = append(l.progressIndex[entry.DeadlineID], len(l.progress))
	l.progress = append(l.progress, entry)
}

func (l *Log) AppendStatus(entry StatusEntry) {
	l.statusIndex[entry.DeadlineID] = append(l.statusIndex[entry.DeadlineID], len(l.statuses))
	l.statuses = append(l.statuses, entry)
}

// Progress returns a copy of one deadline's progress history in insertion
// order.
func (l *Log) Progress(deadlineID string) []ProgressEntry {
	idx := l.progressIndex[deadlineID]
	out := make([]ProgressEntry, 0, len(idx))
	for _, i := range idx {
		out = append(out, l.progress[i])
	}
	return out
}

// Statuses returns a copy of one deadline's status history in insertion
// order.
func (l *Log) Statuses(deadlineID string) []StatusEntry {
	idx := l.statusIndex[deadlineID]
	out := make([]StatusEntry, 0, len(idx))
	for _, i := range idx {
		out = append(out, l.statuses[i])
	}
	return out
}

// DeadlineIDs lists every deadline with at least one entry, sorted.
func (l *Log) DeadlineIDs() []string {
	seen := make(map[string]struct{}, len(l.progressIndex)+len(l.statusIndex))
	for id := range l.progressIndex {
		seen[id] = struct{}{}
	}
	for id := range l.statusIndex {
		seen[id] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Len is the total number of entries of both kinds.
func (l *Log) Len() int {
	return len(l.progress) + len(l.statuses)
}
