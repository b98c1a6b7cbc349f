package dto

import "time"

type CreateInput struct {
	Title         string
	Author        string
	Format        string
	TotalQuantity int
	DeadlineDate  string
	InitialStatus string
	PDFPath       string
	Source        string
}

type LogProgressInput struct {
	DeadlineID      string
	CurrentProgress int
	IgnoreInCalcs   bool
}

type ChangeStatusInput struct {
	DeadlineID    string
	Status        string
	ReviewDueDate string
	Platforms     []string
}

type UpdateReviewInput struct {
	DeadlineID string
	Platform   string
	Posted     bool
	NotesDone  *bool
}

type DeadlineOutput struct {
	ID              string
	Title           string
	Author          string
	Format          string
	TotalQuantity   int
	DeadlineDate    string
	CreatedAt       time.Time
	NotePath        string
	Status          string
	CurrentProgress int
}

type ProgressEntryOutput struct {
	ID              string
	DeadlineID      string
	CurrentProgress int
	CreatedAt       time.Time
	IgnoreInCalcs   bool
}

type StatusEntryOutput struct {
	ID         string
	DeadlineID string
	Status     string
	CreatedAt  time.Time
}

type ReviewPlatformOutput struct {
	Name   string
	Posted bool
}

type ReviewOutput struct {
	ReviewDueDate string
	NotesDone     bool
	Platforms     []ReviewPlatformOutput
	Satisfied     bool
}

type LedgerOutput struct {
	Deadline DeadlineOutput
	Progress []ProgressEntryOutput
	Statuses []StatusEntryOutput
	Review   *ReviewOutput
}

type ProgressOutput struct {
	Entry     ProgressEntryOutput
	Activated bool
}

type StatusOutput struct {
	DeadlineID string
	From       string
	To         string
	CreatedAt  time.Time
}

type ReviewUpdateOutput struct {
	DeadlineID string
	Review     ReviewOutput
	Completed  bool
}
