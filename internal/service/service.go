package service

import (
	"context"
	"errors"
	"time"

	"chorequest/internal/model"

	"github.com/google/uuid"
)

var (
	ErrKidNotFound        = errors.New("kid not found")
	ErrChoreNotFound      = errors.New("chore not found")
	ErrNotAssigned        = errors.New("chore not assigned to kid")
	ErrAlreadyPending     = errors.New("submission already pending")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadyReviewed    = errors.New("already reviewed")
	ErrQuestNotFound      = errors.New("quest not found")
	ErrQuestTaskNotFound  = errors.New("quest task not found")
	ErrAlreadySubmitted   = errors.New("quest task already submitted")
	ErrRewardNotFound     = errors.New("reward not found")
	ErrRewardInactive     = errors.New("reward is inactive")
	ErrInsufficientPoints = errors.New("not enough points")
	ErrRedemptionNotFound = errors.New("redemption not found")
	ErrTitleRequired      = errors.New("title is required")
)

type KidRepository interface {
	CreateKid(ctx context.Context, kid *model.Kid) error
	GetKid(ctx context.Context, kidID uuid.UUID) (*model.Kid, error)
	GetKidByToken(ctx context.Context, token string) (*model.Kid, error)
	ListKids(ctx context.Context) ([]*model.Kid, error)
	DeleteKid(ctx context.Context, kidID uuid.UUID) error
	ListKidChores(ctx context.Context, kidID uuid.UUID) ([]*model.KidChore, error)
	ListKidSubmissions(ctx context.Context, kidID uuid.UUID, limit int) ([]*model.Submission, error)
	KidQuestProgress(ctx context.Context, kidID uuid.UUID) ([]*model.QuestProgress, error)
	ListKidRedemptions(ctx context.Context, kidID uuid.UUID, limit int) ([]*model.Redemption, error)
	ListPointEntries(ctx context.Context, kidID uuid.UUID, limit int) ([]*model.PointEntry, error)
	GetBalance(ctx context.Context, kidID uuid.UUID) (int, error)
	StatsOverview(ctx context.Context) (*model.StatsOverview, error)
}

type ChoreRepository interface {
	CreateChore(ctx context.Context, chore *model.Chore) error
	GetChore(ctx context.Context, choreID uuid.UUID) (*model.Chore, error)
	ListChores(ctx context.Context) ([]*model.Chore, error)
	DeleteChore(ctx context.Context, choreID uuid.UUID) error
	AssignChore(ctx context.Context, kidID, choreID uuid.UUID, nextDueAt time.Time) error
	UnassignChore(ctx context.Context, kidID, choreID uuid.UUID) error
	ListKidChores(ctx context.Context, kidID uuid.UUID) ([]*model.KidChore, error)
}

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, kidID, choreID uuid.UUID, note string, now time.Time, schedule model.ScheduleFunc) (*model.Submission, error)
	ReviewSubmission(ctx context.Context, submissionID uuid.UUID, decision model.ReviewDecision, pointsOverride *int, note string, now time.Time, schedule model.ScheduleFunc) (*model.Submission, error)
	ListSubmissions(ctx context.Context, status model.ReviewStatus, limit int) ([]*model.Submission, error)
	ListKidSubmissions(ctx context.Context, kidID uuid.UUID, limit int) ([]*model.Submission, error)
}

type QuestRepository interface {
	CreateQuest(ctx context.Context, quest *model.Quest) error
	ListQuests(ctx context.Context, activeOnly bool) ([]*model.Quest, error)
	ToggleQuest(ctx context.Context, questID uuid.UUID) error
	CreateQuestTask(ctx context.Context, task *model.QuestTask) error
	ListQuestTasks(ctx context.Context, questID uuid.UUID) ([]*model.QuestTask, error)
	DeleteQuestTask(ctx context.Context, taskID uuid.UUID) error
	CreateQuestTaskStatus(ctx context.Context, kidID, taskID uuid.UUID, note string, now time.Time) (*model.QuestTaskStatus, error)
	ReviewQuestTask(ctx context.Context, statusID uuid.UUID, decision model.ReviewDecision, now time.Time) (*model.QuestTaskStatus, error)
	ListQuestTaskStatuses(ctx context.Context, status model.ReviewStatus, limit int) ([]*model.QuestTaskStatus, error)
	KidQuestProgress(ctx context.Context, kidID uuid.UUID) ([]*model.QuestProgress, error)
}

type RewardRepository interface {
	CreateReward(ctx context.Context, reward *model.Reward) error
	ListRewards(ctx context.Context, activeOnly bool) ([]*model.Reward, error)
	ToggleReward(ctx context.Context, rewardID uuid.UUID) error
	CreateRedemption(ctx context.Context, kidID, rewardID uuid.UUID, now time.Time) (*model.Redemption, error)
	ReviewRedemption(ctx context.Context, redemptionID uuid.UUID, decision model.ReviewDecision, now time.Time) (*model.Redemption, error)
	ListRedemptions(ctx context.Context, status model.ReviewStatus, limit int) ([]*model.Redemption, error)
}
