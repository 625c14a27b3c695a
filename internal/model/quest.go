package model

import (
	"time"

	"github.com/google/uuid"
)

type Quest struct {
	ID           uuid.UUID
	Title        string
	Description  string
	TargetReward string
	IsActive     bool
	CreatedAt    time.Time

	TaskCount int
}

type QuestTask struct {
	ID          uuid.UUID
	QuestID     uuid.UUID
	Title       string
	Description string
	Points      int
	OrderIndex  int
}

// QuestTaskStatus is one kid's completion claim for one quest task.
type QuestTaskStatus struct {
	ID          uuid.UUID
	KidID       uuid.UUID
	QuestTaskID uuid.UUID
	Status      ReviewStatus
	Note        string
	SubmittedAt time.Time
	ReviewedAt  *time.Time

	KidName   string
	QuestID   uuid.UUID
	TaskTitle string
	Points    int
}

// QuestProgress is the per-(kid, quest) accumulator plus the derived
// completion numbers. Completed is read-time arithmetic, never stored.
type QuestProgress struct {
	QuestID        uuid.UUID
	Title          string
	Description    string
	TargetReward   string
	EarnedPoints   int
	TotalPoints    int
	TotalTasks     int
	CompletedTasks int
}

func (p QuestProgress) Completed() bool {
	return p.TotalTasks > 0 && p.CompletedTasks == p.TotalTasks
}
