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

type QuestService struct {
	repo QuestRepository
	now  func() time.Time
}

func NewQuestService(repo QuestRepository) *QuestService {
	return &QuestService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *QuestService) CreateQuest(ctx context.Context, quest *model.Quest) (uuid.UUID, error) {
	if quest.Title == "" {
		return uuid.Nil, ErrTitleRequired
	}

	quest.ID = uuid.New()
	quest.IsActive = true
	quest.CreatedAt = s.now()

	if err := s.repo.CreateQuest(ctx, quest); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create quest: %w", err)
	}

	return quest.ID, nil
}

func (s *QuestService) ListQuests(ctx context.Context, activeOnly bool) ([]*model.Quest, error) {
	quests, err := s.repo.ListQuests(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}
	return quests, nil
}

func (s *QuestService) ToggleQuest(ctx context.Context, questID uuid.UUID) error {
	err := s.repo.ToggleQuest(ctx, questID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuestNotFound
		}
		return fmt.Errorf("failed to toggle quest: %w", err)
	}
	return nil
}

func (s *QuestService) CreateQuestTask(ctx context.Context, task *model.QuestTask) (uuid.UUID, error) {
	if task.Title == "" {
		return uuid.Nil, ErrTitleRequired
	}

	task.ID = uuid.New()

	err := s.repo.CreateQuestTask(ctx, task)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, ErrQuestNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to create quest task: %w", err)
	}

	return task.ID, nil
}

func (s *QuestService) ListQuestTasks(ctx context.Context, questID uuid.UUID) ([]*model.QuestTask, error) {
	tasks, err := s.repo.ListQuestTasks(ctx, questID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quest tasks: %w", err)
	}
	return tasks, nil
}

func (s *QuestService) DeleteQuestTask(ctx context.Context, taskID uuid.UUID) error {
	err := s.repo.DeleteQuestTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuestTaskNotFound
		}
		return fmt.Errorf("failed to delete quest task: %w", err)
	}
	return nil
}

// SubmitTask records a kid's claim on one quest task. A pending or
// approved claim blocks a duplicate; a rejected one does not.
func (s *QuestService) SubmitTask(ctx context.Context, kidID, taskID uuid.UUID, note string) (*model.QuestTaskStatus, error) {
	status, err := s.repo.CreateQuestTaskStatus(ctx, kidID, taskID, note, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrQuestTaskNotFound
		case errors.Is(err, repository.ErrAlreadySubmitted):
			return nil, ErrAlreadySubmitted
		default:
			return nil, fmt.Errorf("failed to submit quest task: %w", err)
		}
	}
	return status, nil
}

// ReviewTask resolves a pending quest task claim. Approval accrues the
// task points into the (kid, quest) accumulator and the kid's balance.
func (s *QuestService) ReviewTask(ctx context.Context, statusID uuid.UUID, decision model.ReviewDecision) (*model.QuestTaskStatus, error) {
	status, err := s.repo.ReviewQuestTask(ctx, statusID, decision, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrQuestTaskNotFound
		case errors.Is(err, repository.ErrAlreadyReviewed):
			return nil, ErrAlreadyReviewed
		default:
			return nil, fmt.Errorf("failed to review quest task: %w", err)
		}
	}
	return status, nil
}

func (s *QuestService) ListTaskStatuses(ctx context.Context, status model.ReviewStatus) ([]*model.QuestTaskStatus, error) {
	statuses, err := s.repo.ListQuestTaskStatuses(ctx, status, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to list quest task statuses: %w", err)
	}
	return statuses, nil
}

func (s *QuestService) Progress(ctx context.Context, kidID uuid.UUID) ([]*model.QuestProgress, error) {
	progress, err := s.repo.KidQuestProgress(ctx, kidID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quest progress: %w", err)
	}
	return progress, nil
}
