package service

import (
	"context"
	"testing"
	"time"

	"chorequest/internal/model"
	"chorequest/internal/repository"
	"chorequest/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestChoreService_CreateChore(t *testing.T) {
	fixedNow := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	t.Run("Empty title rejected", func(t *testing.T) {
		mockRepo := &mocks.MockChoreRepository{}
		service := NewChoreService(mockRepo)

		_, err := service.CreateChore(context.Background(), &model.Chore{})
		assert.ErrorIs(t, err, ErrTitleRequired)
		mockRepo.AssertNotCalled(t, "CreateChore")
	})

	t.Run("Unknown frequency normalized to daily", func(t *testing.T) {
		mockRepo := &mocks.MockChoreRepository{}
		service := NewChoreService(mockRepo)
		service.now = func() time.Time { return fixedNow }

		mockRepo.On("CreateChore", mock.Anything, mock.MatchedBy(func(chore *model.Chore) bool {
			return chore.Frequency == model.FrequencyDaily &&
				chore.ID != uuid.Nil &&
				chore.CreatedAt.Equal(fixedNow)
		})).Return(nil)

		id, err := service.CreateChore(context.Background(), &model.Chore{
			Title:     "Make bed",
			Frequency: model.Frequency("hourly"),
		})
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
		mockRepo.AssertExpectations(t)
	})
}

func TestChoreService_Assign(t *testing.T) {
	fixedNow := time.Date(2025, 3, 12, 16, 0, 0, 0, time.UTC) // Wednesday
	kidID := uuid.New()
	choreID := uuid.New()

	t.Run("Chore not found", func(t *testing.T) {
		mockRepo := &mocks.MockChoreRepository{}
		service := NewChoreService(mockRepo)

		mockRepo.On("GetChore", mock.Anything, choreID).Return(nil, repository.ErrNotFound)

		err := service.Assign(context.Background(), kidID, choreID)
		assert.ErrorIs(t, err, ErrChoreNotFound)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Assignment seeded with computed due date", func(t *testing.T) {
		mockRepo := &mocks.MockChoreRepository{}
		service := NewChoreService(mockRepo)
		service.now = func() time.Time { return fixedNow }

		mockRepo.On("GetChore", mock.Anything, choreID).Return(&model.Chore{
			ID:        choreID,
			Title:     "Take out trash",
			Frequency: model.FrequencyWeekly,
		}, nil)

		expectedDue := ComputeNextDue(model.FrequencyWeekly, fixedNow)
		mockRepo.On("AssignChore", mock.Anything, kidID, choreID, expectedDue).Return(nil)

		err := service.Assign(context.Background(), kidID, choreID)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestChoreService_Unassign(t *testing.T) {
	kidID := uuid.New()
	choreID := uuid.New()

	mockRepo := &mocks.MockChoreRepository{}
	service := NewChoreService(mockRepo)

	mockRepo.On("UnassignChore", mock.Anything, kidID, choreID).Return(repository.ErrNotAssigned)

	err := service.Unassign(context.Background(), kidID, choreID)
	assert.ErrorIs(t, err, ErrNotAssigned)
	mockRepo.AssertExpectations(t)
}

func TestChoreService_ListKidChores_DueFlag(t *testing.T) {
	fixedNow := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	kidID := uuid.New()

	mockRepo := &mocks.MockChoreRepository{}
	service := NewChoreService(mockRepo)
	service.now = func() time.Time { return fixedNow }

	mockRepo.On("ListKidChores", mock.Anything, kidID).Return([]*model.KidChore{
		{
			Assignment: model.Assignment{NextDueAt: fixedNow.Add(-time.Hour)},
			Title:      "overdue",
		},
		{
			Assignment: model.Assignment{NextDueAt: fixedNow},
			Title:      "due right now",
		},
		{
			Assignment: model.Assignment{NextDueAt: fixedNow.Add(time.Hour)},
			Title:      "not yet",
		},
	}, nil)

	chores, err := service.ListKidChores(context.Background(), kidID)
	assert.NoError(t, err)
	assert.Len(t, chores, 3)
	assert.True(t, chores[0].IsDue)
	assert.True(t, chores[1].IsDue)
	assert.False(t, chores[2].IsDue)
	mockRepo.AssertExpectations(t)
}
