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

type RewardService struct {
	repo RewardRepository
	now  func() time.Time
}

func NewRewardService(repo RewardRepository) *RewardService {
	return &RewardService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *RewardService) CreateReward(ctx context.Context, reward *model.Reward) (uuid.UUID, error) {
	if reward.Title == "" {
		return uuid.Nil, ErrTitleRequired
	}

	reward.ID = uuid.New()
	reward.IsActive = true
	reward.CreatedAt = s.now()

	if err := s.repo.CreateReward(ctx, reward); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create reward: %w", err)
	}

	return reward.ID, nil
}

func (s *RewardService) ListRewards(ctx context.Context, activeOnly bool) ([]*model.Reward, error) {
	rewards, err := s.repo.ListRewards(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	return rewards, nil
}

func (s *RewardService) ToggleReward(ctx context.Context, rewardID uuid.UUID) error {
	err := s.repo.ToggleReward(ctx, rewardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRewardNotFound
		}
		return fmt.Errorf("failed to toggle reward: %w", err)
	}
	return nil
}

// RequestRedemption opens a pending spend request when the reward is
// active and the kid's balance covers it on top of every redemption
// still awaiting review. No points move until an admin approves.
func (s *RewardService) RequestRedemption(ctx context.Context, kidID, rewardID uuid.UUID) (*model.Redemption, error) {
	rd, err := s.repo.CreateRedemption(ctx, kidID, rewardID, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrRewardNotFound
		case errors.Is(err, repository.ErrRewardInactive):
			return nil, ErrRewardInactive
		case errors.Is(err, repository.ErrNotEnoughPoints):
			return nil, ErrInsufficientPoints
		default:
			return nil, fmt.Errorf("failed to create redemption: %w", err)
		}
	}
	return rd, nil
}

// ReviewRedemption resolves a pending redemption; approval debits the
// kid's balance by the reward cost, rejection leaves it untouched.
func (s *RewardService) ReviewRedemption(ctx context.Context, redemptionID uuid.UUID, decision model.ReviewDecision) (*model.Redemption, error) {
	rd, err := s.repo.ReviewRedemption(ctx, redemptionID, decision, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrRedemptionNotFound
		case errors.Is(err, repository.ErrAlreadyReviewed):
			return nil, ErrAlreadyReviewed
		default:
			return nil, fmt.Errorf("failed to review redemption: %w", err)
		}
	}
	return rd, nil
}

func (s *RewardService) ListRedemptions(ctx context.Context, status model.ReviewStatus) ([]*model.Redemption, error) {
	redemptions, err := s.repo.ListRedemptions(ctx, status, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions: %w", err)
	}
	return redemptions, nil
}
