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

func TestQuestService_SubmitTask(t *testing.T) {
	fixedNow := time.Date(2025, 4, 1, 17, 0, 0, 0, time.UTC)
	kidID := uuid.New()
	taskID := uuid.New()

	tests := []struct {
		name          string
		mockSetup     func(mockRepo *mocks.MockQuestRepository)
		expectedError error
	}{
		{
			name: "Task not found",
			mockSetup: func(mockRepo *mocks.MockQuestRepository) {
				mockRepo.On("CreateQuestTaskStatus", mock.Anything, kidID, taskID, "", fixedNow).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrQuestTaskNotFound,
		},
		{
			name: "Open claim blocks resubmission",
			mockSetup: func(mockRepo *mocks.MockQuestRepository) {
				mockRepo.On("CreateQuestTaskStatus", mock.Anything, kidID, taskID, "", fixedNow).
					Return(nil, repository.ErrAlreadySubmitted)
			},
			expectedError: ErrAlreadySubmitted,
		},
		{
			name: "Claim created pending",
			mockSetup: func(mockRepo *mocks.MockQuestRepository) {
				mockRepo.On("CreateQuestTaskStatus", mock.Anything, kidID, taskID, "", fixedNow).
					Return(&model.QuestTaskStatus{
						ID:          uuid.New(),
						KidID:       kidID,
						QuestTaskID: taskID,
						Status:      model.StatusPending,
						SubmittedAt: fixedNow,
					}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockQuestRepository{}
			service := NewQuestService(mockRepo)
			service.now = func() time.Time { return fixedNow }

			tt.mockSetup(mockRepo)

			status, err := service.SubmitTask(context.Background(), kidID, taskID, "")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, status)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, model.StatusPending, status.Status)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestQuestService_ReviewTask(t *testing.T) {
	fixedNow := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	statusID := uuid.New()

	t.Run("Already reviewed", func(t *testing.T) {
		mockRepo := &mocks.MockQuestRepository{}
		service := NewQuestService(mockRepo)
		service.now = func() time.Time { return fixedNow }

		mockRepo.On("ReviewQuestTask", mock.Anything, statusID, model.DecisionApprove, fixedNow).
			Return(nil, repository.ErrAlreadyReviewed)

		_, err := service.ReviewTask(context.Background(), statusID, model.DecisionApprove)
		assert.ErrorIs(t, err, ErrAlreadyReviewed)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Approval returns resolved claim", func(t *testing.T) {
		mockRepo := &mocks.MockQuestRepository{}
		service := NewQuestService(mockRepo)
		service.now = func() time.Time { return fixedNow }

		mockRepo.On("ReviewQuestTask", mock.Anything, statusID, model.DecisionApprove, fixedNow).
			Return(&model.QuestTaskStatus{
				ID:         statusID,
				Status:     model.StatusApproved,
				Points:     30,
				ReviewedAt: &fixedNow,
			}, nil)

		status, err := service.ReviewTask(context.Background(), statusID, model.DecisionApprove)
		assert.NoError(t, err)
		assert.Equal(t, model.StatusApproved, status.Status)
		assert.Equal(t, 30, status.Points)
		mockRepo.AssertExpectations(t)
	})
}

func TestQuestProgress_Completed(t *testing.T) {
	tests := []struct {
		name     string
		progress model.QuestProgress
		expected bool
	}{
		{
			name:     "All tasks approved",
			progress: model.QuestProgress{TotalTasks: 3, CompletedTasks: 3},
			expected: true,
		},
		{
			name:     "Partial progress",
			progress: model.QuestProgress{TotalTasks: 3, CompletedTasks: 2},
			expected: false,
		},
		{
			name:     "Quest without tasks never completes",
			progress: model.QuestProgress{TotalTasks: 0, CompletedTasks: 0},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.progress.Completed())
		})
	}
}

func TestQuestService_CreateQuestTask(t *testing.T) {
	questID := uuid.New()

	t.Run("Quest not found", func(t *testing.T) {
		mockRepo := &mocks.MockQuestRepository{}
		service := NewQuestService(mockRepo)

		mockRepo.On("CreateQuestTask", mock.Anything, mock.Anything).Return(repository.ErrNotFound)

		_, err := service.CreateQuestTask(context.Background(), &model.QuestTask{
			QuestID: questID,
			Title:   "Read a chapter",
		})
		assert.ErrorIs(t, err, ErrQuestNotFound)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Empty title rejected", func(t *testing.T) {
		mockRepo := &mocks.MockQuestRepository{}
		service := NewQuestService(mockRepo)

		_, err := service.CreateQuestTask(context.Background(), &model.QuestTask{QuestID: questID})
		assert.ErrorIs(t, err, ErrTitleRequired)
		mockRepo.AssertNotCalled(t, "CreateQuestTask")
	})
}
