package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"chorequest/internal/model"
	"chorequest/internal/repository"

	"github.com/google/uuid"
)

type KidService struct {
	repo KidRepository
	now  func() time.Time
}

func NewKidService(repo KidRepository) *KidService {
	return &KidService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *KidService) CreateKid(ctx context.Context, name string) (*model.Kid, error) {
	if name == "" {
		return nil, ErrTitleRequired
	}

	token, err := newAPIToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate api token: %w", err)
	}

	kid := &model.Kid{
		ID:        uuid.New(),
		Name:      name,
		APIToken:  token,
		CreatedAt: s.now(),
	}

	if err := s.repo.CreateKid(ctx, kid); err != nil {
		return nil, fmt.Errorf("failed to create kid: %w", err)
	}

	return kid, nil
}

func (s *KidService) GetKid(ctx context.Context, kidID uuid.UUID) (*model.Kid, error) {
	kid, err := s.repo.GetKid(ctx, kidID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrKidNotFound
		}
		return nil, fmt.Errorf("failed to get kid: %w", err)
	}
	return kid, nil
}

func (s *KidService) GetKidByToken(ctx context.Context, token string) (*model.Kid, error) {
	kid, err := s.repo.GetKidByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrKidNotFound
		}
		return nil, fmt.Errorf("failed to get kid by token: %w", err)
	}
	return kid, nil
}

// Balance reads the cached ledger projection at request time, so a
// reviewed submission shows up even when the caller authenticated
// before the review landed.
func (s *KidService) Balance(ctx context.Context, kidID uuid.UUID) (int, error) {
	balance, err := s.repo.GetBalance(ctx, kidID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrKidNotFound
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

func (s *KidService) ListKids(ctx context.Context) ([]*model.Kid, error) {
	kids, err := s.repo.ListKids(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list kids: %w", err)
	}
	return kids, nil
}

func (s *KidService) DeleteKid(ctx context.Context, kidID uuid.UUID) error {
	err := s.repo.DeleteKid(ctx, kidID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrKidNotFound
		}
		return fmt.Errorf("failed to delete kid: %w", err)
	}
	return nil
}

// Feed assembles everything a kid's home screen shows: assignments with
// lazy due-ness, recent submissions, quest progress, recent redemptions
// and the tail of the points log.
func (s *KidService) Feed(ctx context.Context, kidID uuid.UUID) (*model.Feed, error) {
	kid, err := s.GetKid(ctx, kidID)
	if err != nil {
		return nil, err
	}

	chores, err := s.repo.ListKidChores(ctx, kidID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kid chores: %w", err)
	}
	now := s.now()
	for _, kc := range chores {
		kc.IsDue = !kc.NextDueAt.After(now)
	}

	submissions, err := s.repo.ListKidSubmissions(ctx, kidID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to list kid submissions: %w", err)
	}

	quests, err := s.repo.KidQuestProgress(ctx, kidID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quest progress: %w", err)
	}

	redemptions, err := s.repo.ListKidRedemptions(ctx, kidID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to list kid redemptions: %w", err)
	}

	history, err := s.repo.ListPointEntries(ctx, kidID, 20)
	if err != nil {
		return nil, fmt.Errorf("failed to list point entries: %w", err)
	}

	return &model.Feed{
		KidName:      kid.Name,
		TotalPoints:  kid.TotalPoints,
		Chores:       chores,
		Submissions:  submissions,
		Quests:       quests,
		Redemptions:  redemptions,
		PointHistory: history,
	}, nil
}

func (s *KidService) Stats(ctx context.Context) (*model.StatsOverview, error) {
	stats, err := s.repo.StatsOverview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats overview: %w", err)
	}
	return stats, nil
}

func newAPIToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
