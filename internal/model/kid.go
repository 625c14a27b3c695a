package model

import (
	"time"

	"github.com/google/uuid"
)

type Kid struct {
	ID          uuid.UUID
	Name        string
	APIToken    string
	TotalPoints int
	CreatedAt   time.Time

	ChoreCount int
}

// PointEntry is one row of the append-only points log. The kid's
// TotalPoints column is a projection of the sum of deltas and is
// written in the same transaction as the entry.
type PointEntry struct {
	ID        uuid.UUID
	KidID     uuid.UUID
	Delta     int
	Kind      PointEntryKind
	RefID     uuid.UUID
	CreatedAt time.Time
}

type PointEntryKind string

const (
	PointEntryChore     PointEntryKind = "chore"
	PointEntryQuestTask PointEntryKind = "quest_task"
	PointEntryRedeem    PointEntryKind = "redemption"
)
