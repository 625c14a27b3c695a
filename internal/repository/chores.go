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
)

type chore struct {
	ID               uuid.UUID `db:"id"`
	Title            string    `db:"title"`
	Description      string    `db:"description"`
	IsRecurring      bool      `db:"is_recurring"`
	Frequency        string    `db:"frequency"`
	DefaultPoints    int       `db:"default_points"`
	RequiresApproval bool      `db:"requires_approval"`
	CreatedAt        time.Time `db:"created_at"`
	AssignedCount    int       `db:"assigned_count"`
}

func (c *chore) toModel() *model.Chore {
	return &model.Chore{
		ID:               c.ID,
		Title:            c.Title,
		Description:      c.Description,
		IsRecurring:      c.IsRecurring,
		Frequency:        model.Frequency(c.Frequency),
		DefaultPoints:    c.DefaultPoints,
		RequiresApproval: c.RequiresApproval,
		CreatedAt:        c.CreatedAt,
		AssignedCount:    c.AssignedCount,
	}
}

type kidChore struct {
	KidID            uuid.UUID  `db:"kid_id"`
	ChoreID          uuid.UUID  `db:"chore_id"`
	NextDueAt        time.Time  `db:"next_due_at"`
	StreakCount      int        `db:"streak_count"`
	LastCompletedAt  *time.Time `db:"last_completed_at"`
	Title            string     `db:"title"`
	Description      string     `db:"description"`
	IsRecurring      bool       `db:"is_recurring"`
	Frequency        string     `db:"frequency"`
	DefaultPoints    int        `db:"default_points"`
	RequiresApproval bool       `db:"requires_approval"`
}

func (r *Repository) CreateChore(ctx context.Context, c *model.Chore) error {
	query, args, err := squirrel.
		Insert("chores").
		SetMap(map[string]interface{}{
			"id":                c.ID,
			"title":             c.Title,
			"description":       c.Description,
			"is_recurring":      c.IsRecurring,
			"frequency":         string(c.Frequency),
			"default_points":    c.DefaultPoints,
			"requires_approval": c.RequiresApproval,
			"created_at":        c.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build chore insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert chore: %w", err)
	}

	return nil
}

func (r *Repository) GetChore(ctx context.Context, choreID uuid.UUID) (*model.Chore, error) {
	query, args, err := squirrel.
		Select(
			"id", "title", "description", "is_recurring", "frequency",
			"default_points", "requires_approval", "created_at",
			"0 AS assigned_count",
		).
		From("chores").
		Where(squirrel.Eq{"id": choreID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var c chore
	err = r.db.GetContext(ctx, &c, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return c.toModel(), nil
}

func (r *Repository) ListChores(ctx context.Context) ([]*model.Chore, error) {
	query, args, err := squirrel.
		Select(
			"c.id", "c.title", "c.description", "c.is_recurring", "c.frequency",
			"c.default_points", "c.requires_approval", "c.created_at",
			"COUNT(kc.kid_id) AS assigned_count",
		).
		From("chores c").
		LeftJoin("kid_chores kc ON kc.chore_id = c.id").
		GroupBy("c.id").
		OrderBy("c.created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var chores []*chore
	err = r.db.SelectContext(ctx, &chores, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list chores: %w", err)
	}

	list := make([]*model.Chore, len(chores))
	for i, c := range chores {
		list[i] = c.toModel()
	}

	return list, nil
}

func (r *Repository) DeleteChore(ctx context.Context, choreID uuid.UUID) error {
	query, args, err := squirrel.
		Delete("chores").
		Where(squirrel.Eq{"id": choreID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete chore: %w", err)
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

// AssignChore links a chore to a kid with its first due timestamp.
// Re-assigning an existing pair keeps the current scheduling state.
func (r *Repository) AssignChore(ctx context.Context, kidID, choreID uuid.UUID, nextDueAt time.Time) error {
	query, args, err := squirrel.
		Insert("kid_chores").
		Columns("kid_id", "chore_id", "next_due_at").
		Values(kidID, choreID, nextDueAt).
		Suffix("ON CONFLICT (kid_id, chore_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to assign chore: %w", err)
	}

	return nil
}

func (r *Repository) UnassignChore(ctx context.Context, kidID, choreID uuid.UUID) error {
	query, args, err := squirrel.
		Delete("kid_chores").
		Where(squirrel.Eq{"kid_id": kidID, "chore_id": choreID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to unassign chore: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotAssigned
	}

	return nil
}

func (r *Repository) ListKidChores(ctx context.Context, kidID uuid.UUID) ([]*model.KidChore, error) {
	query, args, err := squirrel.
		Select(
			"kc.kid_id", "kc.chore_id", "kc.next_due_at", "kc.streak_count", "kc.last_completed_at",
			"c.title", "c.description", "c.is_recurring", "c.frequency",
			"c.default_points", "c.requires_approval",
		).
		From("kid_chores kc").
		Join("chores c ON c.id = kc.chore_id").
		Where(squirrel.Eq{"kc.kid_id": kidID}).
		OrderBy("kc.next_due_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*kidChore
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list kid chores: %w", err)
	}

	list := make([]*model.KidChore, len(rows))
	for i, row := range rows {
		list[i] = &model.KidChore{
			Assignment: model.Assignment{
				KidID:           row.KidID,
				ChoreID:         row.ChoreID,
				NextDueAt:       row.NextDueAt,
				StreakCount:     row.StreakCount,
				LastCompletedAt: row.LastCompletedAt,
			},
			Title:            row.Title,
			Description:      row.Description,
			IsRecurring:      row.IsRecurring,
			Frequency:        model.Frequency(row.Frequency),
			DefaultPoints:    row.DefaultPoints,
			RequiresApproval: row.RequiresApproval,
		}
	}

	return list, nil
}
