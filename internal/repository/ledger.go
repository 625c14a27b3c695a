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

type pointEntry struct {
	ID        uuid.UUID `db:"id"`
	KidID     uuid.UUID `db:"kid_id"`
	Delta     int       `db:"delta"`
	Kind      string    `db:"kind"`
	RefID     uuid.UUID `db:"ref_id"`
	CreatedAt time.Time `db:"created_at"`
}

// applyPointsTx appends one signed entry to the points log and moves the
// cached balance by the same delta. Both writes share the caller's
// transaction; the balance update runs server-side so concurrent deltas
// are never lost.
func (r *Repository) applyPointsTx(ctx context.Context, tx *sqlx.Tx, kidID uuid.UUID, delta int, kind model.PointEntryKind, refID uuid.UUID, at time.Time) error {
	entryQuery, entryArgs, err := squirrel.
		Insert("point_entries").
		SetMap(map[string]interface{}{
			"id":         uuid.New(),
			"kid_id":     kidID,
			"delta":      delta,
			"kind":       string(kind),
			"ref_id":     refID,
			"created_at": at,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build point entry insert query: %w", err)
	}

	_, err = tx.ExecContext(ctx, entryQuery, entryArgs...)
	if err != nil {
		return fmt.Errorf("failed to insert point entry: %w", err)
	}

	updateQuery, updateArgs, err := squirrel.
		Update("kids").
		Set("total_points", squirrel.Expr("total_points + ?", delta)).
		Where(squirrel.Eq{"id": kidID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, updateQuery, updateArgs...)
	if err != nil {
		return fmt.Errorf("failed to update kid points: %w", err)
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

func (r *Repository) GetBalance(ctx context.Context, kidID uuid.UUID) (int, error) {
	query, args, err := squirrel.
		Select("total_points").
		From("kids").
		Where(squirrel.Eq{"id": kidID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var balance int
	err = r.db.GetContext(ctx, &balance, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	return balance, nil
}

func (r *Repository) ListPointEntries(ctx context.Context, kidID uuid.UUID, limit int) ([]*model.PointEntry, error) {
	query, args, err := squirrel.
		Select("id", "kid_id", "delta", "kind", "ref_id", "created_at").
		From("point_entries").
		Where(squirrel.Eq{"kid_id": kidID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var entries []*pointEntry
	err = r.db.SelectContext(ctx, &entries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list point entries: %w", err)
	}

	list := make([]*model.PointEntry, len(entries))
	for i, e := range entries {
		list[i] = &model.PointEntry{
			ID:        e.ID,
			KidID:     e.KidID,
			Delta:     e.Delta,
			Kind:      model.PointEntryKind(e.Kind),
			RefID:     e.RefID,
			CreatedAt: e.CreatedAt,
		}
	}

	return list, nil
}
