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

type ChoreService struct {
	repo ChoreRepository
	now  func() time.Time
}

func NewChoreService(repo ChoreRepository) *ChoreService {
	return &ChoreService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *ChoreService) CreateChore(ctx context.Context, chore *model.Chore) (uuid.UUID, error) {
	if chore.Title == "" {
		return uuid.Nil, ErrTitleRequired
	}

	chore.ID = uuid.New()
	chore.Frequency = model.ParseFrequency(string(chore.Frequency))
	chore.CreatedAt = s.now()

	if err := s.repo.CreateChore(ctx, chore); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create chore: %w", err)
	}

	return chore.ID, nil
}

func (s *ChoreService) ListChores(ctx context.Context) ([]*model.Chore, error) {
	chores, err := s.repo.ListChores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chores: %w", err)
	}
	return chores, nil
}

func (s *ChoreService) DeleteChore(ctx context.Context, choreID uuid.UUID) error {
	err := s.repo.DeleteChore(ctx, choreID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrChoreNotFound
		}
		return fmt.Errorf("failed to delete chore: %w", err)
	}
	return nil
}

// Assign links a chore to a kid, seeding the assignment with its first
// due timestamp. Assigning an already-assigned pair is a no-op.
func (s *ChoreService) Assign(ctx context.Context, kidID, choreID uuid.UUID) error {
	chore, err := s.repo.GetChore(ctx, choreID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrChoreNotFound
		}
		return fmt.Errorf("failed to get chore: %w", err)
	}

	nextDue := ComputeNextDue(chore.Frequency, s.now())
	if err := s.repo.AssignChore(ctx, kidID, choreID, nextDue); err != nil {
		return fmt.Errorf("failed to assign chore: %w", err)
	}

	return nil
}

func (s *ChoreService) Unassign(ctx context.Context, kidID, choreID uuid.UUID) error {
	err := s.repo.UnassignChore(ctx, kidID, choreID)
	if err != nil {
		if errors.Is(err, repository.ErrNotAssigned) {
			return ErrNotAssigned
		}
		return fmt.Errorf("failed to unassign chore: %w", err)
	}
	return nil
}

// ListKidChores returns a kid's assignments with due-ness evaluated
// lazily against the current clock; nothing sweeps assignments in the
// background.
func (s *ChoreService) ListKidChores(ctx context.Context, kidID uuid.UUID) ([]*model.KidChore, error) {
	chores, err := s.repo.ListKidChores(ctx, kidID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kid chores: %w", err)
	}

	now := s.now()
	for _, kc := range chores {
		kc.IsDue = !kc.NextDueAt.After(now)
	}

	return chores, nil
}
