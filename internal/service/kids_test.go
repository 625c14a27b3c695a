package service

import (
	"context"
	"testing"

	"chorequest/internal/repository"
	"chorequest/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestKidService_Balance(t *testing.T) {
	kidID := uuid.New()

	tests := []struct {
		name            string
		mockSetup       func(mockRepo *mocks.MockKidRepository)
		expectedBalance int
		expectedError   error
	}{
		{
			name: "Kid not found",
			mockSetup: func(mockRepo *mocks.MockKidRepository) {
				mockRepo.On("GetBalance", mock.Anything, kidID).
					Return(0, repository.ErrNotFound)
			},
			expectedError: ErrKidNotFound,
		},
		{
			name: "Balance returned as stored",
			mockSetup: func(mockRepo *mocks.MockKidRepository) {
				mockRepo.On("GetBalance", mock.Anything, kidID).
					Return(135, nil)
			},
			expectedBalance: 135,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockKidRepository{}
			tt.mockSetup(mockRepo)

			s := NewKidService(mockRepo)

			balance, err := s.Balance(context.Background(), kidID)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedBalance, balance)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
