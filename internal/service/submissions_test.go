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

func TestSubmissionService_SubmitCompletion(t *testing.T) {
	fixedNow := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)
	kidID := uuid.New()
	choreID := uuid.New()

	tests := []struct {
		name          string
		mockSetup     func(mockRepo *mocks.MockSubmissionRepository)
		expectedError error
		check         func(t *testing.T, sub *model.Submission)
	}{
		{
			name: "Chore not assigned",
			mockSetup: func(mockRepo *mocks.MockSubmissionRepository) {
				mockRepo.On("CreateSubmission", mock.Anything, kidID, choreID, "", fixedNow, mock.Anything).
					Return(nil, repository.ErrNotAssigned)
			},
			expectedError: ErrNotAssigned,
		},
		{
			name: "Duplicate pending submission",
			mockSetup: func(mockRepo *mocks.MockSubmissionRepository) {
				mockRepo.On("CreateSubmission", mock.Anything, kidID, choreID, "", fixedNow, mock.Anything).
					Return(nil, repository.ErrAlreadyPending)
			},
			expectedError: ErrAlreadyPending,
		},
		{
			name: "Pending submission created",
			mockSetup: func(mockRepo *mocks.MockSubmissionRepository) {
				mockRepo.On("CreateSubmission", mock.Anything, kidID, choreID, "", fixedNow, mock.Anything).
					Return(&model.Submission{
						ID:          uuid.New(),
						KidID:       kidID,
						ChoreID:     choreID,
						Status:      model.StatusPending,
						SubmittedAt: fixedNow,
					}, nil)
			},
			check: func(t *testing.T, sub *model.Submission) {
				assert.Equal(t, model.StatusPending, sub.Status)
				assert.Equal(t, 0, sub.PointsAwarded)
			},
		},
		{
			name: "Auto-approved submission carries points",
			mockSetup: func(mockRepo *mocks.MockSubmissionRepository) {
				mockRepo.On("CreateSubmission", mock.Anything, kidID, choreID, "", fixedNow, mock.Anything).
					Return(&model.Submission{
						ID:            uuid.New(),
						KidID:         kidID,
						ChoreID:       choreID,
						Status:        model.StatusApproved,
						PointsAwarded: 15,
						SubmittedAt:   fixedNow,
						ReviewedAt:    &fixedNow,
					}, nil)
			},
			check: func(t *testing.T, sub *model.Submission) {
				assert.Equal(t, model.StatusApproved, sub.Status)
				assert.Equal(t, 15, sub.PointsAwarded)
				assert.NotNil(t, sub.ReviewedAt)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockSubmissionRepository{}
			service := NewSubmissionService(mockRepo, StreakForgiving)
			service.now = func() time.Time { return fixedNow }

			tt.mockSetup(mockRepo)

			sub, err := service.SubmitCompletion(context.Background(), kidID, choreID, "")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, sub)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, sub)
				if tt.check != nil {
					tt.check(t, sub)
				}
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestSubmissionService_SubmitCompletion_PassesScheduleFunc(t *testing.T) {
	fixedNow := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)
	kidID := uuid.New()
	choreID := uuid.New()

	mockRepo := &mocks.MockSubmissionRepository{}
	service := NewSubmissionService(mockRepo, StreakStrict)
	service.now = func() time.Time { return fixedNow }

	var captured model.ScheduleFunc
	mockRepo.On("CreateSubmission", mock.Anything, kidID, choreID, "done", fixedNow, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(5).(model.ScheduleFunc)
		}).
		Return(&model.Submission{ID: uuid.New(), Status: model.StatusApproved}, nil)

	_, err := service.SubmitCompletion(context.Background(), kidID, choreID, "done")
	assert.NoError(t, err)
	assert.NotNil(t, captured)

	// Strict policy resets when the replaced due timestamp is more than
	// one period stale.
	staleDue := fixedNow.Add(-3 * 24 * time.Hour)
	upd := captured(model.FrequencyDaily, staleDue)
	assert.True(t, upd.ResetStreak)
	assert.Equal(t, ComputeNextDue(model.FrequencyDaily, fixedNow), upd.NextDueAt)

	freshDue := fixedNow.Add(-time.Hour)
	assert.False(t, captured(model.FrequencyDaily, freshDue).ResetStreak)

	mockRepo.AssertExpectations(t)
}

func TestSubmissionService_Review(t *testing.T) {
	fixedNow := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	submissionID := uuid.New()
	override := 25

	tests := []struct {
		name           string
		decision       model.ReviewDecision
		pointsOverride *int
		mockSetup      func(mockRepo *mocks.MockSubmissionRepository)
		expectedError  error
		check          func(t *testing.T, sub *model.Submission)
	}{
		{
			name:     "Submission not found",
			decision: model.DecisionApprove,
			mockSetup: func(mockRepo *mocks.MockSubmissionRepository) {
				mockRepo.On("ReviewSubmission", mock.Anything, submissionID, model.DecisionApprove, (*int)(nil), "", fixedNow, mock.Anything).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrSubmissionNotFound,
		},
		{
			name:     "Already reviewed",
			decision: model.DecisionApprove,
			mockSetup: func(mockRepo *mocks.MockSubmissionRepository) {
				mockRepo.On("ReviewSubmission", mock.Anything, submissionID, model.DecisionApprove, (*int)(nil), "", fixedNow, mock.Anything).
					Return(nil, repository.ErrAlreadyReviewed)
			},
			expectedError: ErrAlreadyReviewed,
		},
		{
			name:           "Approve with override",
			decision:       model.DecisionApprove,
			pointsOverride: &override,
			mockSetup: func(mockRepo *mocks.MockSubmissionRepository) {
				mockRepo.On("ReviewSubmission", mock.Anything, submissionID, model.DecisionApprove, &override, "", fixedNow, mock.Anything).
					Return(&model.Submission{
						ID:            submissionID,
						Status:        model.StatusApproved,
						PointsAwarded: override,
						ReviewedAt:    &fixedNow,
					}, nil)
			},
			check: func(t *testing.T, sub *model.Submission) {
				assert.Equal(t, model.StatusApproved, sub.Status)
				assert.Equal(t, 25, sub.PointsAwarded)
			},
		},
		{
			name:     "Reject awards nothing",
			decision: model.DecisionReject,
			mockSetup: func(mockRepo *mocks.MockSubmissionRepository) {
				mockRepo.On("ReviewSubmission", mock.Anything, submissionID, model.DecisionReject, (*int)(nil), "", fixedNow, mock.Anything).
					Return(&model.Submission{
						ID:            submissionID,
						Status:        model.StatusRejected,
						PointsAwarded: 0,
						ReviewedAt:    &fixedNow,
					}, nil)
			},
			check: func(t *testing.T, sub *model.Submission) {
				assert.Equal(t, model.StatusRejected, sub.Status)
				assert.Equal(t, 0, sub.PointsAwarded)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockSubmissionRepository{}
			service := NewSubmissionService(mockRepo, StreakForgiving)
			service.now = func() time.Time { return fixedNow }

			tt.mockSetup(mockRepo)

			sub, err := service.Review(context.Background(), submissionID, tt.decision, tt.pointsOverride, "")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, sub)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, sub)
				if tt.check != nil {
					tt.check(t, sub)
				}
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
