package dto

import "time"

type ResultOutput struct {
	DeadlineID          string
	Title               string
	Format              string
	Unit                string
	DeadlineDate        string
	TotalQuantity       int
	CurrentProgress     int
	ProgressPercentage  int
	Remaining           int
	DaysLeft            int
	DateKnown           bool
	StartedDaysAgo      int
	Started             bool
	RequiredKind        string
	RequiredPerDay      float64
	RequiredPaceDisplay string
	UserPace            float64
	UserPaceDisplay     string
	Urgency             string
	Status              string
	PaceReliability     string
}

type UserPaceOutput struct {
	Unit        string
	PerDay      float64
	Display     string
	Reliability string
	ActiveDays  int
	WindowStart string
	WindowEnd   string
}

type DashboardOutput struct {
	Results    []ResultOutput
	Pages      UserPaceOutput
	Minutes    UserPaceOutput
	ComputedAt time.Time
}

type ProjectOutput struct {
	Projected  int
	ComputedAt time.Time
}
