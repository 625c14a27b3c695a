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

func TestRewardService_RequestRedemption(t *testing.T) {
	fixedNow := time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC)
	kidID := uuid.New()
	rewardID := uuid.New()

	tests := []struct {
		name          string
		mockSetup     func(mockRepo *mocks.MockRewardRepository)
		expectedError error
	}{
		{
			name: "Reward not found",
			mockSetup: func(mockRepo *mocks.MockRewardRepository) {
				mockRepo.On("CreateRedemption", mock.Anything, kidID, rewardID, fixedNow).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrRewardNotFound,
		},
		{
			name: "Reward inactive",
			mockSetup: func(mockRepo *mocks.MockRewardRepository) {
				mockRepo.On("CreateRedemption", mock.Anything, kidID, rewardID, fixedNow).
					Return(nil, repository.ErrRewardInactive)
			},
			expectedError: ErrRewardInactive,
		},
		{
			name: "Balance does not cover cost",
			mockSetup: func(mockRepo *mocks.MockRewardRepository) {
				mockRepo.On("CreateRedemption", mock.Anything, kidID, rewardID, fixedNow).
					Return(nil, repository.ErrNotEnoughPoints)
			},
			expectedError: ErrInsufficientPoints,
		},
		{
			name: "Redemption opens pending",
			mockSetup: func(mockRepo *mocks.MockRewardRepository) {
				mockRepo.On("CreateRedemption", mock.Anything, kidID, rewardID, fixedNow).
					Return(&model.Redemption{
						ID:          uuid.New(),
						KidID:       kidID,
						RewardID:    rewardID,
						Status:      model.StatusPending,
						RequestedAt: fixedNow,
						CostPoints:  50,
					}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockRewardRepository{}
			service := NewRewardService(mockRepo)
			service.now = func() time.Time { return fixedNow }

			tt.mockSetup(mockRepo)

			rd, err := service.RequestRedemption(context.Background(), kidID, rewardID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, rd)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, model.StatusPending, rd.Status)
				assert.Equal(t, 50, rd.CostPoints)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestRewardService_ReviewRedemption(t *testing.T) {
	fixedNow := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
	redemptionID := uuid.New()

	t.Run("Already reviewed", func(t *testing.T) {
		mockRepo := &mocks.MockRewardRepository{}
		service := NewRewardService(mockRepo)
		service.now = func() time.Time { return fixedNow }

		mockRepo.On("ReviewRedemption", mock.Anything, redemptionID, model.DecisionReject, fixedNow).
			Return(nil, repository.ErrAlreadyReviewed)

		_, err := service.ReviewRedemption(context.Background(), redemptionID, model.DecisionReject)
		assert.ErrorIs(t, err, ErrAlreadyReviewed)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Approval resolves the redemption", func(t *testing.T) {
		mockRepo := &mocks.MockRewardRepository{}
		service := NewRewardService(mockRepo)
		service.now = func() time.Time { return fixedNow }

		mockRepo.On("ReviewRedemption", mock.Anything, redemptionID, model.DecisionApprove, fixedNow).
			Return(&model.Redemption{
				ID:         redemptionID,
				Status:     model.StatusApproved,
				CostPoints: 80,
				ResolvedAt: &fixedNow,
			}, nil)

		rd, err := service.ReviewRedemption(context.Background(), redemptionID, model.DecisionApprove)
		assert.NoError(t, err)
		assert.Equal(t, model.StatusApproved, rd.Status)
		assert.NotNil(t, rd.ResolvedAt)
		mockRepo.AssertExpectations(t)
	})
}

func TestRewardService_CreateReward(t *testing.T) {
	fixedNow := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("Empty title rejected", func(t *testing.T) {
		mockRepo := &mocks.MockRewardRepository{}
		service := NewRewardService(mockRepo)

		_, err := service.CreateReward(context.Background(), &model.Reward{CostPoints: 10})
		assert.ErrorIs(t, err, ErrTitleRequired)
		mockRepo.AssertNotCalled(t, "CreateReward")
	})

	t.Run("New rewards start active", func(t *testing.T) {
		mockRepo := &mocks.MockRewardRepository{}
		service := NewRewardService(mockRepo)
		service.now = func() time.Time { return fixedNow }

		mockRepo.On("CreateReward", mock.Anything, mock.MatchedBy(func(reward *model.Reward) bool {
			return reward.IsActive && reward.ID != uuid.Nil
		})).Return(nil)

		id, err := service.CreateReward(context.Background(), &model.Reward{
			Title:      "Movie night",
			CostPoints: 100,
		})
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
		mockRepo.AssertExpectations(t)
	})
}
