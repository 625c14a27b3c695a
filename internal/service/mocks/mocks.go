package mocks

import (
	"context"
	"time"

	"chorequest/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockKidRepository struct {
	mock.Mock
}

func (m *MockKidRepository) CreateKid(ctx context.Context, kid *model.Kid) error {
	args := m.Called(ctx, kid)
	return args.Error(0)
}

func (m *MockKidRepository) GetKid(ctx context.Context, kidID uuid.UUID) (*model.Kid, error) {
	args := m.Called(ctx, kidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Kid), args.Error(1)
}

func (m *MockKidRepository) GetKidByToken(ctx context.Context, token string) (*model.Kid, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Kid), args.Error(1)
}

func (m *MockKidRepository) ListKids(ctx context.Context) ([]*model.Kid, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Kid), args.Error(1)
}

func (m *MockKidRepository) DeleteKid(ctx context.Context, kidID uuid.UUID) error {
	args := m.Called(ctx, kidID)
	return args.Error(0)
}

func (m *MockKidRepository) ListKidChores(ctx context.Context, kidID uuid.UUID) ([]*model.KidChore, error) {
	args := m.Called(ctx, kidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.KidChore), args.Error(1)
}

func (m *MockKidRepository) ListKidSubmissions(ctx context.Context, kidID uuid.UUID, limit int) ([]*model.Submission, error) {
	args := m.Called(ctx, kidID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Submission), args.Error(1)
}

func (m *MockKidRepository) KidQuestProgress(ctx context.Context, kidID uuid.UUID) ([]*model.QuestProgress, error) {
	args := m.Called(ctx, kidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.QuestProgress), args.Error(1)
}

func (m *MockKidRepository) ListKidRedemptions(ctx context.Context, kidID uuid.UUID, limit int) ([]*model.Redemption, error) {
	args := m.Called(ctx, kidID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Redemption), args.Error(1)
}

func (m *MockKidRepository) ListPointEntries(ctx context.Context, kidID uuid.UUID, limit int) ([]*model.PointEntry, error) {
	args := m.Called(ctx, kidID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PointEntry), args.Error(1)
}

func (m *MockKidRepository) GetBalance(ctx context.Context, kidID uuid.UUID) (int, error) {
	args := m.Called(ctx, kidID)
	return args.Int(0), args.Error(1)
}

func (m *MockKidRepository) StatsOverview(ctx context.Context) (*model.StatsOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StatsOverview), args.Error(1)
}

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) CreateSubmission(ctx context.Context, kidID, choreID uuid.UUID, note string, now time.Time, schedule model.ScheduleFunc) (*model.Submission, error) {
	args := m.Called(ctx, kidID, choreID, note, now, schedule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ReviewSubmission(ctx context.Context, submissionID uuid.UUID, decision model.ReviewDecision, pointsOverride *int, note string, now time.Time, schedule model.ScheduleFunc) (*model.Submission, error) {
	args := m.Called(ctx, submissionID, decision, pointsOverride, note, now, schedule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListSubmissions(ctx context.Context, status model.ReviewStatus, limit int) ([]*model.Submission, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListKidSubmissions(ctx context.Context, kidID uuid.UUID, limit int) ([]*model.Submission, error) {
	args := m.Called(ctx, kidID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Submission), args.Error(1)
}

type MockChoreRepository struct {
	mock.Mock
}

func (m *MockChoreRepository) CreateChore(ctx context.Context, chore *model.Chore) error {
	args := m.Called(ctx, chore)
	return args.Error(0)
}

func (m *MockChoreRepository) GetChore(ctx context.Context, choreID uuid.UUID) (*model.Chore, error) {
	args := m.Called(ctx, choreID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Chore), args.Error(1)
}

func (m *MockChoreRepository) ListChores(ctx context.Context) ([]*model.Chore, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Chore), args.Error(1)
}

func (m *MockChoreRepository) DeleteChore(ctx context.Context, choreID uuid.UUID) error {
	args := m.Called(ctx, choreID)
	return args.Error(0)
}

func (m *MockChoreRepository) AssignChore(ctx context.Context, kidID, choreID uuid.UUID, nextDueAt time.Time) error {
	args := m.Called(ctx, kidID, choreID, nextDueAt)
	return args.Error(0)
}

func (m *MockChoreRepository) UnassignChore(ctx context.Context, kidID, choreID uuid.UUID) error {
	args := m.Called(ctx, kidID, choreID)
	return args.Error(0)
}

func (m *MockChoreRepository) ListKidChores(ctx context.Context, kidID uuid.UUID) ([]*model.KidChore, error) {
	args := m.Called(ctx, kidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.KidChore), args.Error(1)
}

type MockQuestRepository struct {
	mock.Mock
}

func (m *MockQuestRepository) CreateQuest(ctx context.Context, quest *model.Quest) error {
	args := m.Called(ctx, quest)
	return args.Error(0)
}

func (m *MockQuestRepository) ListQuests(ctx context.Context, activeOnly bool) ([]*model.Quest, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Quest), args.Error(1)
}

func (m *MockQuestRepository) ToggleQuest(ctx context.Context, questID uuid.UUID) error {
	args := m.Called(ctx, questID)
	return args.Error(0)
}

func (m *MockQuestRepository) CreateQuestTask(ctx context.Context, task *model.QuestTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockQuestRepository) ListQuestTasks(ctx context.Context, questID uuid.UUID) ([]*model.QuestTask, error) {
	args := m.Called(ctx, questID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.QuestTask), args.Error(1)
}

func (m *MockQuestRepository) DeleteQuestTask(ctx context.Context, taskID uuid.UUID) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *MockQuestRepository) CreateQuestTaskStatus(ctx context.Context, kidID, taskID uuid.UUID, note string, now time.Time) (*model.QuestTaskStatus, error) {
	args := m.Called(ctx, kidID, taskID, note, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuestTaskStatus), args.Error(1)
}

func (m *MockQuestRepository) ReviewQuestTask(ctx context.Context, statusID uuid.UUID, decision model.ReviewDecision, now time.Time) (*model.QuestTaskStatus, error) {
	args := m.Called(ctx, statusID, decision, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuestTaskStatus), args.Error(1)
}

func (m *MockQuestRepository) ListQuestTaskStatuses(ctx context.Context, status model.ReviewStatus, limit int) ([]*model.QuestTaskStatus, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.QuestTaskStatus), args.Error(1)
}

func (m *MockQuestRepository) KidQuestProgress(ctx context.Context, kidID uuid.UUID) ([]*model.QuestProgress, error) {
	args := m.Called(ctx, kidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.QuestProgress), args.Error(1)
}

type MockRewardRepository struct {
	mock.Mock
}

func (m *MockRewardRepository) CreateReward(ctx context.Context, reward *model.Reward) error {
	args := m.Called(ctx, reward)
	return args.Error(0)
}

func (m *MockRewardRepository) ListRewards(ctx context.Context, activeOnly bool) ([]*model.Reward, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Reward), args.Error(1)
}

func (m *MockRewardRepository) ToggleReward(ctx context.Context, rewardID uuid.UUID) error {
	args := m.Called(ctx, rewardID)
	return args.Error(0)
}

func (m *MockRewardRepository) CreateRedemption(ctx context.Context, kidID, rewardID uuid.UUID, now time.Time) (*model.Redemption, error) {
	args := m.Called(ctx, kidID, rewardID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Redemption), args.Error(1)
}

func (m *MockRewardRepository) ReviewRedemption(ctx context.Context, redemptionID uuid.UUID, decision model.ReviewDecision, now time.Time) (*model.Redemption, error) {
	args := m.Called(ctx, redemptionID, decision, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Redemption), args.Error(1)
}

func (m *MockRewardRepository) ListRedemptions(ctx context.Context, status model.ReviewStatus, limit int) ([]*model.Redemption, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Redemption), args.Error(1)
}
