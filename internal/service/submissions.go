package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chorequest/internal/model"
	"chorequest/internal/repository"

	"github.com/google/uuid"
)

type SubmissionService struct {
	repo         SubmissionRepository
	streakPolicy StreakPolicy
	now          func() time.Time
}

func NewSubmissionService(repo SubmissionRepository, policy StreakPolicy) *SubmissionService {
	return &SubmissionService{
		repo:         repo,
		streakPolicy: policy,
		now:          time.Now,
	}
}

// SubmitCompletion records a completion claim for an assigned chore.
// Chores that do not require approval come back already approved with
// points credited.
func (s *SubmissionService) SubmitCompletion(ctx context.Context, kidID, choreID uuid.UUID, note string) (*model.Submission, error) {
	now := s.now()

	sub, err := s.repo.CreateSubmission(ctx, kidID, choreID, note, now, scheduleFunc(s.streakPolicy, now))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotAssigned):
			return nil, ErrNotAssigned
		case errors.Is(err, repository.ErrAlreadyPending):
			return nil, ErrAlreadyPending
		default:
			return nil, fmt.Errorf("failed to create submission: %w", err)
		}
	}

	return sub, nil
}

// Review moves a pending submission to a terminal status. On approval
// the awarded points are the chore default unless the admin supplies an
// override; a non-empty note replaces the kid's note.
func (s *SubmissionService) Review(ctx context.Context, submissionID uuid.UUID, decision model.ReviewDecision, pointsOverride *int, note string) (*model.Submission, error) {
	now := s.now()

	sub, err := s.repo.ReviewSubmission(ctx, submissionID, decision, pointsOverride, note, now, scheduleFunc(s.streakPolicy, now))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrSubmissionNotFound
		case errors.Is(err, repository.ErrAlreadyReviewed):
			return nil, ErrAlreadyReviewed
		default:
			return nil, fmt.Errorf("failed to review submission: %w", err)
		}
	}

	return sub, nil
}

func (s *SubmissionService) List(ctx context.Context, status model.ReviewStatus) ([]*model.Submission, error) {
	subs, err := s.repo.ListSubmissions(ctx, status, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

func (s *SubmissionService) ListForKid(ctx context.Context, kidID uuid.UUID) ([]*model.Submission, error) {
	subs, err := s.repo.ListKidSubmissions(ctx, kidID, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to list kid submissions: %w", err)
	}
	return subs, nil
}
