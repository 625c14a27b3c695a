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

type kid struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	APIToken    string    `db:"api_token"`
	TotalPoints int       `db:"total_points"`
	CreatedAt   time.Time `db:"created_at"`
	ChoreCount  int       `db:"chore_count"`
}

func (k *kid) toModel() *model.Kid {
	return &model.Kid{
		ID:          k.ID,
		Name:        k.Name,
		APIToken:    k.APIToken,
		TotalPoints: k.TotalPoints,
		CreatedAt:   k.CreatedAt,
		ChoreCount:  k.ChoreCount,
	}
}

func (r *Repository) CreateKid(ctx context.Context, k *model.Kid) error {
	query, args, err := squirrel.
		Insert("kids").
		SetMap(map[string]interface{}{
			"id":           k.ID,
			"name":         k.Name,
			"api_token":    k.APIToken,
			"total_points": k.TotalPoints,
			"created_at":   k.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build kid insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert kid: %w", err)
	}

	return nil
}

func (r *Repository) GetKid(ctx context.Context, kidID uuid.UUID) (*model.Kid, error) {
	query, args, err := squirrel.
		Select("id", "name", "api_token", "total_points", "created_at", "0 AS chore_count").
		From("kids").
		Where(squirrel.Eq{"id": kidID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var k kid
	err = r.db.GetContext(ctx, &k, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return k.toModel(), nil
}

func (r *Repository) GetKidByToken(ctx context.Context, token string) (*model.Kid, error) {
	query, args, err := squirrel.
		Select("id", "name", "api_token", "total_points", "created_at", "0 AS chore_count").
		From("kids").
		Where(squirrel.Eq{"api_token": token}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var k kid
	err = r.db.GetContext(ctx, &k, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return k.toModel(), nil
}

func (r *Repository) ListKids(ctx context.Context) ([]*model.Kid, error) {
	query, args, err := squirrel.
		Select(
			"k.id",
			"k.name",
			"k.api_token",
			"k.total_points",
			"k.created_at",
			"COUNT(kc.chore_id) AS chore_count",
		).
		From("kids k").
		LeftJoin("kid_chores kc ON kc.kid_id = k.id").
		GroupBy("k.id").
		OrderBy("k.name").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var kids []*kid
	err = r.db.SelectContext(ctx, &kids, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list kids: %w", err)
	}

	list := make([]*model.Kid, len(kids))
	for i, k := range kids {
		list[i] = k.toModel()
	}

	return list, nil
}

func (r *Repository) DeleteKid(ctx context.Context, kidID uuid.UUID) error {
	query, args, err := squirrel.
		Delete("kids").
		Where(squirrel.Eq{"id": kidID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete kid: %w", err)
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

func (r *Repository) getKidForUpdate(ctx context.Context, tx *sqlx.Tx, kidID uuid.UUID) (*model.Kid, error) {
	query, args, err := squirrel.
		Select("id", "name", "api_token", "total_points", "created_at", "0 AS chore_count").
		From("kids").
		Where(squirrel.Eq{"id": kidID}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var k kid
	err = tx.GetContext(ctx, &k, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return k.toModel(), nil
}
