package domain

import (
	"fmt"
	"strings"
	"time"

	"pacekeeper/internal/platform/caldate"
)

const SchemaVersion = 1

type Format string

const (
	FormatPhysical Format = "physical"
	FormatEbook    Format = "ebook"
	FormatAudio    Format = "audio"
)

func (f Format) Validate() error {
	switch f {
	case FormatPhysical, FormatEbook, FormatAudio:
		return nil
	default:
		return fmt.Errorf("unsupported format %q", string(f))
	}
}

// IsAudio reports whether quantities are stored as milliseconds.
func (f Format) IsAudio() bool { return f == FormatAudio }

// Deadline is a tracked book. TotalQuantity is pages, or milliseconds for
// audio. DeadlineDate is a floating date string (YYYY-MM-DD).
type Deadline struct {
	ID            string
	Title         string
	Author        string
	Format        Format
	TotalQuantity int
	DeadlineDate  string
	CreatedAt     time.Time
	Source        string
	NotePath      string
	Slug          string
	Review        *ReviewTracking
}

func (d Deadline) Validate() error {
	if err := d.ValidateIdentity(); err != nil {
		return err
	}
	if _, ok := caldate.ParseServerDateOnly(d.DeadlineDate); !ok {
		return fmt.Errorf("deadline date %q is not a YYYY-MM-DD date", d.DeadlineDate)
	}
	return nil
}

// ValidateIdentity checks the fields a stored note cannot be used without.
// The deadline date is left alone: a malformed date is read back as unknown.
func (d Deadline) ValidateIdentity() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if err := d.Format.Validate(); err != nil {
		return err
	}
	if d.TotalQuantity < 0 {
		return fmt.Errorf("total quantity must be non-negative")
	}
	return nil
}

// ProgressEntry records the cumulative amount consumed at CreatedAt. It is a
// running total, never a delta.
type ProgressEntry struct {
	ID              string
	DeadlineID      string
	CurrentProgress int
	CreatedAt       time.Time
	IgnoreInCalcs   bool
}

type StatusEntry struct {
	ID         string
	DeadlineID string
	Status     Status
	CreatedAt  time.Time
}

// DeadlineDocument is a deadline note as stored in the vault.
type DeadlineDocument struct {
	Deadline Deadline
	Body     string
}
