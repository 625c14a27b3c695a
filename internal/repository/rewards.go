package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chorequest/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type reward struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	CostPoints  int       `db:"cost_points"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}

func (rw *reward) toModel() *model.Reward {
	return &model.Reward{
		ID:          rw.ID,
		Title:       rw.Title,
		Description: rw.Description,
		CostPoints:  rw.CostPoints,
		IsActive:    rw.IsActive,
		CreatedAt:   rw.CreatedAt,
	}
}

type redemption struct {
	ID          uuid.UUID  `db:"id"`
	KidID       uuid.UUID  `db:"kid_id"`
	RewardID    uuid.UUID  `db:"reward_id"`
	Status      string     `db:"status"`
	RequestedAt time.Time  `db:"requested_at"`
	ResolvedAt  *time.Time `db:"resolved_at"`
	KidName     string     `db:"kid_name"`
	RewardTitle string     `db:"reward_title"`
	CostPoints  int        `db:"cost_points"`
}

func (rd *redemption) toModel() *model.Redemption {
	return &model.Redemption{
		ID:          rd.ID,
		KidID:       rd.KidID,
		RewardID:    rd.RewardID,
		Status:      model.ReviewStatus(rd.Status),
		RequestedAt: rd.RequestedAt,
		ResolvedAt:  rd.ResolvedAt,
		KidName:     rd.KidName,
		RewardTitle: rd.RewardTitle,
		CostPoints:  rd.CostPoints,
	}
}

func (r *Repository) CreateReward(ctx context.Context, rw *model.Reward) error {
	query, args, err := squirrel.
		Insert("rewards").
		SetMap(map[string]interface{}{
			"id":          rw.ID,
			"title":       rw.Title,
			"description": rw.Description,
			"cost_points": rw.CostPoints,
			"is_active":   rw.IsActive,
			"created_at":  rw.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build reward insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert reward: %w", err)
	}

	return nil
}

func (r *Repository) ListRewards(ctx context.Context, activeOnly bool) ([]*model.Reward, error) {
	builder := squirrel.
		Select("id", "title", "description", "cost_points", "is_active", "created_at").
		From("rewards").
		OrderBy("is_active DESC", "cost_points").
		PlaceholderFormat(squirrel.Dollar)
	if activeOnly {
		builder = builder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var rewards []*reward
	err = r.db.SelectContext(ctx, &rewards, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}

	list := make([]*model.Reward, len(rewards))
	for i, rw := range rewards {
		list[i] = rw.toModel()
	}

	return list, nil
}

func (r *Repository) ToggleReward(ctx context.Context, rewardID uuid.UUID) error {
	query, args, err := squirrel.
		Update("rewards").
		Set("is_active", squirrel.Expr("NOT is_active")).
		Where(squirrel.Eq{"id": rewardID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to toggle reward: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// CreateRedemption opens a pending spend request. The kid row is locked
// for the duration, so two concurrent requests cannot both pass the
// sufficiency check; outstanding pending redemptions count against the
// spendable balance even though no points move until approval.
func (r *Repository) CreateRedemption(ctx context.Context, kidID, rewardID uuid.UUID, now time.Time) (*model.Redemption, error) {
	var created *model.Redemption

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		kid, err := r.getKidForUpdate(ctx, tx, kidID)
		if err != nil {
			return err
		}

		rewardQuery, rewardArgs, err := squirrel.
			Select("id", "title", "description", "cost_points", "is_active", "created_at").
			From("rewards").
			Where(squirrel.Eq{"id": rewardID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		var rw reward
		err = tx.GetContext(ctx, &rw, rewardQuery, rewardArgs...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get reward: %w", err)
		}

		if !rw.IsActive {
			return ErrRewardInactive
		}

		outstandingQuery, outstandingArgs, err := squirrel.
			Select("COALESCE(SUM(rw.cost_points), 0)").
			From("redemptions rd").
			Join("rewards rw ON rw.id = rd.reward_id").
			Where(squirrel.Eq{"rd.kid_id": kidID, "rd.status": string(model.StatusPending)}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		var outstanding int
		err = tx.GetContext(ctx, &outstanding, outstandingQuery, outstandingArgs...)
		if err != nil {
			return fmt.Errorf("failed to sum pending redemptions: %w", err)
		}

		if kid.TotalPoints-outstanding < rw.CostPoints {
			return ErrNotEnoughPoints
		}

		rd := &model.Redemption{
			ID:          uuid.New(),
			KidID:       kidID,
			RewardID:    rewardID,
			Status:      model.StatusPending,
			RequestedAt: now,
			RewardTitle: rw.Title,
			CostPoints:  rw.CostPoints,
		}

		insertQuery, insertArgs, err := squirrel.
			Insert("redemptions").
			SetMap(map[string]interface{}{
				"id":           rd.ID,
				"kid_id":       rd.KidID,
				"reward_id":    rd.RewardID,
				"status":       string(rd.Status),
				"requested_at": rd.RequestedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, insertQuery, insertArgs...)
		if err != nil {
			return fmt.Errorf("failed to insert redemption: %w", err)
		}

		created = rd
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// ReviewRedemption resolves a pending redemption. Approval debits the
// ledger by the reward cost inside the same transaction; rejection
// touches nothing but the redemption row.
func (r *Repository) ReviewRedemption(ctx context.Context, redemptionID uuid.UUID, decision model.ReviewDecision, now time.Time) (*model.Redemption, error) {
	var reviewed *model.Redemption

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Select(
				"rd.id", "rd.kid_id", "rd.reward_id", "rd.status",
				"rd.requested_at", "rd.resolved_at",
				"'' AS kid_name", "rw.title AS reward_title", "rw.cost_points",
			).
			From("redemptions rd").
			Join("rewards rw ON rw.id = rd.reward_id").
			Where(squirrel.Eq{"rd.id": redemptionID}).
			Suffix("FOR UPDATE OF rd").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		var rd redemption
		err = tx.GetContext(ctx, &rd, query, args...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get redemption: %w", err)
		}

		if model.ReviewStatus(rd.Status).Terminal() {
			return ErrAlreadyReviewed
		}

		updateQuery, updateArgs, err := squirrel.
			Update("redemptions").
			Set("status", string(decision)).
			Set("resolved_at", now).
			Where(squirrel.Eq{"id": redemptionID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
		if err != nil {
			return fmt.Errorf("failed to update redemption: %w", err)
		}

		if decision == model.DecisionApprove {
			err = r.applyPointsTx(ctx, tx, rd.KidID, -rd.CostPoints, model.PointEntryRedeem, rd.ID, now)
			if err != nil {
				return err
			}
		}

		result := rd.toModel()
		result.Status = model.ReviewStatus(decision)
		result.ResolvedAt = &now
		reviewed = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reviewed, nil
}

func (r *Repository) ListRedemptions(ctx context.Context, status model.ReviewStatus, limit int) ([]*model.Redemption, error) {
	query, args, err := squirrel.
		Select(
			"rd.id", "rd.kid_id", "rd.reward_id", "rd.status",
			"rd.requested_at", "rd.resolved_at",
			"k.name AS kid_name", "rw.title AS reward_title", "rw.cost_points",
		).
		From("redemptions rd").
		Join("kids k ON k.id = rd.kid_id").
		Join("rewards rw ON rw.id = rd.reward_id").
		Where(squirrel.Eq{"rd.status": string(status)}).
		OrderBy("rd.requested_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var redemptions []*redemption
	err = r.db.SelectContext(ctx, &redemptions, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions: %w", err)
	}

	list := make([]*model.Redemption, len(redemptions))
	for i, rd := range redemptions {
		list[i] = rd.toModel()
	}

	return list, nil
}

func (r *Repository) ListKidRedemptions(ctx context.Context, kidID uuid.UUID, limit int) ([]*model.Redemption, error) {
	query, args, err := squirrel.
		Select(
			"rd.id", "rd.kid_id", "rd.reward_id", "rd.status",
			"rd.requested_at", "rd.resolved_at",
			"'' AS kid_name", "rw.title AS reward_title", "rw.cost_points",
		).
		From("redemptions rd").
		Join("rewards rw ON rw.id = rd.reward_id").
		Where(squirrel.Eq{"rd.kid_id": kidID}).
		OrderBy("rd.requested_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var redemptions []*redemption
	err = r.db.SelectContext(ctx, &redemptions, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list kid redemptions: %w", err)
	}

	list := make([]*model.Redemption, len(redemptions))
	for i, rd := range redemptions {
		list[i] = rd.toModel()
	}

	return list, nil
}
