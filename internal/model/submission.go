package model

import (
	"time"

	"github.com/google/uuid"
)

type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ReviewDecision is the terminal status an admin assigns during review.
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approved"
	DecisionReject  ReviewDecision = "rejected"
)

func ParseDecision(s string) (ReviewDecision, bool) {
	switch ReviewDecision(s) {
	case DecisionApprove, DecisionReject:
		return ReviewDecision(s), true
	default:
		return "", false
	}
}

type Submission struct {
	ID            uuid.UUID
	KidID         uuid.UUID
	ChoreID       uuid.UUID
	Status        ReviewStatus
	Note          string
	PointsAwarded int
	SubmittedAt   time.Time
	ReviewedAt    *time.Time

	KidName    string
	ChoreTitle string
}
