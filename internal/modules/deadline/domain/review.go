package domain

import (
	"strings"
	"time"
)

// ReviewTracking is attached once a deadline enters to_review. The review
// obligation is met when notes are written and every platform is posted.
type ReviewTracking struct {
	ReviewDueDate string
	NotesDone     bool
	Platforms     []ReviewPlatform
	CreatedAt     time.Time
}

type ReviewPlatform struct {
	Name   string
	Posted bool
}

// Satisfied reports whether every review obligation is done.
func (r ReviewTracking) Satisfied() bool {
	if !r.NotesDone {
		return false
	}
	for _, p := range r.Platforms {
		if !p.Posted {
			return false
		}
	}
	return true
}

// MarkPlatform sets the posted flag on name, adding the platform when it is
// not tracked yet. Names compare case-insensitively.
func (r *ReviewTracking) MarkPlatform(name string, posted bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	for i := range r.Platforms {
		if strings.EqualFold(r.Platforms[i].Name, name) {
			r.Platforms[i].Posted = posted
			return
		}
	}
	r.Platforms = append(r.Platforms, ReviewPlatform{Name: name, Posted: posted})
}
