package model

import (
	"time"

	"github.com/google/uuid"
)

type Reward struct {
	ID          uuid.UUID
	Title       string
	Description string
	CostPoints  int
	IsActive    bool
	CreatedAt   time.Time
}

type Redemption struct {
	ID          uuid.UUID
	KidID       uuid.UUID
	RewardID    uuid.UUID
	Status      ReviewStatus
	RequestedAt time.Time
	ResolvedAt  *time.Time

	KidName     string
	RewardTitle string
	CostPoints  int
}
