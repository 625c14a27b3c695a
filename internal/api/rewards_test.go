package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"chorequest/internal/model"
	"chorequest/internal/repository"
	"chorequest/internal/service"
	"chorequest/internal/service/mocks"
	"chorequest/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type staticKidResolver struct {
	kid *model.Kid
}

func (r *staticKidResolver) GetKidByToken(_ context.Context, token string) (*model.Kid, error) {
	if r.kid != nil && token == r.kid.APIToken {
		return r.kid, nil
	}
	return nil, repository.ErrNotFound
}

func TestRewardRoutes_Redeem(t *testing.T) {
	gin.SetMode(gin.TestMode)

	kid := &model.Kid{ID: uuid.New(), Name: "Sasha", APIToken: "kid-token"}
	rewardID := uuid.New()

	tests := []struct {
		name           string
		mockSetup      func(mockRepo *mocks.MockRewardRepository)
		expectedStatus int
	}{
		{
			name: "Inactive reward is unprocessable",
			mockSetup: func(mockRepo *mocks.MockRewardRepository) {
				mockRepo.On("CreateRedemption", mock.Anything, kid.ID, rewardID, mock.Anything).
					Return(nil, repository.ErrRewardInactive)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "Insufficient points is unprocessable",
			mockSetup: func(mockRepo *mocks.MockRewardRepository) {
				mockRepo.On("CreateRedemption", mock.Anything, kid.ID, rewardID, mock.Anything).
					Return(nil, repository.ErrNotEnoughPoints)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "Unknown reward is not found",
			mockSetup: func(mockRepo *mocks.MockRewardRepository) {
				mockRepo.On("CreateRedemption", mock.Anything, kid.ID, rewardID, mock.Anything).
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "Redemption created",
			mockSetup: func(mockRepo *mocks.MockRewardRepository) {
				mockRepo.On("CreateRedemption", mock.Anything, kid.ID, rewardID, mock.Anything).
					Return(&model.Redemption{
						ID:          uuid.New(),
						KidID:       kid.ID,
						RewardID:    rewardID,
						Status:      model.StatusPending,
						RewardTitle: "Movie night",
						CostPoints:  50,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockRewardRepository{}
			tt.mockSetup(mockRepo)

			router := gin.New()
			a := auth.NewTokenAuth("admin-key", &staticKidResolver{kid: kid})
			NewRewardRoutes(router.Group("/api/v1"), service.NewRewardService(mockRepo), a, nil, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/kid/rewards/"+rewardID.String()+"/redeem", nil)
			req.Header.Set("Authorization", "Kid "+kid.APIToken)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}
