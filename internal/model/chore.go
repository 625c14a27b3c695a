package model

import (
	"time"

	"github.com/google/uuid"
)

type Frequency string

const (
	FrequencyOnce   Frequency = "once"
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

func ParseFrequency(s string) Frequency {
	switch Frequency(s) {
	case FrequencyOnce, FrequencyDaily, FrequencyWeekly:
		return Frequency(s)
	default:
		return FrequencyDaily
	}
}

type Chore struct {
	ID               uuid.UUID
	Title            string
	Description      string
	IsRecurring      bool
	Frequency        Frequency
	DefaultPoints    int
	RequiresApproval bool
	CreatedAt        time.Time

	AssignedCount int
}

// Assignment binds one kid to one chore and carries the only mutable
// scheduling state in the system.
type Assignment struct {
	KidID           uuid.UUID
	ChoreID         uuid.UUID
	NextDueAt       time.Time
	StreakCount     int
	LastCompletedAt *time.Time
}

// KidChore is an assignment joined with its chore, as shown to a kid.
// IsDue is computed at read time against the caller's clock.
type KidChore struct {
	Assignment
	Title            string
	Description      string
	IsRecurring      bool
	Frequency        Frequency
	DefaultPoints    int
	RequiresApproval bool
	IsDue            bool
}

// ScheduleUpdate is the outcome of the recurrence calculation applied
// to an assignment on approval of a recurring chore.
type ScheduleUpdate struct {
	NextDueAt   time.Time
	ResetStreak bool
}

// ScheduleFunc resolves the new schedule for an assignment given the
// chore frequency and the due timestamp being replaced. Supplied by the
// service so the repository never owns clock or policy decisions.
type ScheduleFunc func(frequency Frequency, currentNextDue time.Time) ScheduleUpdate
