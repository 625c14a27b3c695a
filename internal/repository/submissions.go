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

type submission struct {
	ID            uuid.UUID  `db:"id"`
	KidID         uuid.UUID  `db:"kid_id"`
	ChoreID       uuid.UUID  `db:"chore_id"`
	Status        string     `db:"status"`
	Note          string     `db:"note"`
	PointsAwarded int        `db:"points_awarded"`
	SubmittedAt   time.Time  `db:"submitted_at"`
	ReviewedAt    *time.Time `db:"reviewed_at"`
	KidName       string     `db:"kid_name"`
	ChoreTitle    string     `db:"chore_title"`
}

func (s *submission) toModel() *model.Submission {
	return &model.Submission{
		ID:            s.ID,
		KidID:         s.KidID,
		ChoreID:       s.ChoreID,
		Status:        model.ReviewStatus(s.Status),
		Note:          s.Note,
		PointsAwarded: s.PointsAwarded,
		SubmittedAt:   s.SubmittedAt,
		ReviewedAt:    s.ReviewedAt,
		KidName:       s.KidName,
		ChoreTitle:    s.ChoreTitle,
	}
}

type assignedChore struct {
	NextDueAt        time.Time `db:"next_due_at"`
	StreakCount      int       `db:"streak_count"`
	Title            string    `db:"title"`
	IsRecurring      bool      `db:"is_recurring"`
	Frequency        string    `db:"frequency"`
	DefaultPoints    int       `db:"default_points"`
	RequiresApproval bool      `db:"requires_approval"`
}

// CreateSubmission inserts a completion claim for an assigned chore.
// When the chore does not require approval the claim is stored already
// approved and all approval side effects run in the same transaction.
func (r *Repository) CreateSubmission(ctx context.Context, kidID, choreID uuid.UUID, note string, now time.Time, schedule model.ScheduleFunc) (*model.Submission, error) {
	var created *model.Submission

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Select(
				"kc.next_due_at", "kc.streak_count",
				"c.title", "c.is_recurring", "c.frequency", "c.default_points", "c.requires_approval",
			).
			From("kid_chores kc").
			Join("chores c ON c.id = kc.chore_id").
			Where(squirrel.Eq{"kc.kid_id": kidID, "kc.chore_id": choreID}).
			Suffix("FOR UPDATE OF kc").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		var ac assignedChore
		err = tx.GetContext(ctx, &ac, query, args...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotAssigned
			}
			return fmt.Errorf("failed to get assignment: %w", err)
		}

		dupQuery, dupArgs, err := squirrel.
			Select("id").
			From("submissions").
			Where(squirrel.Eq{
				"kid_id":   kidID,
				"chore_id": choreID,
				"status":   string(model.StatusPending),
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		var dupID uuid.UUID
		err = tx.GetContext(ctx, &dupID, dupQuery, dupArgs...)
		if err == nil {
			return ErrAlreadyPending
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check pending submission: %w", err)
		}

		sub := &model.Submission{
			ID:          uuid.New(),
			KidID:       kidID,
			ChoreID:     choreID,
			Status:      model.StatusPending,
			Note:        note,
			SubmittedAt: now,
			ChoreTitle:  ac.Title,
		}
		if !ac.RequiresApproval {
			sub.Status = model.StatusApproved
			sub.PointsAwarded = ac.DefaultPoints
			sub.ReviewedAt = &now
		}

		insertQuery, insertArgs, err := squirrel.
			Insert("submissions").
			SetMap(map[string]interface{}{
				"id":             sub.ID,
				"kid_id":         sub.KidID,
				"chore_id":       sub.ChoreID,
				"status":         string(sub.Status),
				"note":           sub.Note,
				"points_awarded": sub.PointsAwarded,
				"submitted_at":   sub.SubmittedAt,
				"reviewed_at":    sub.ReviewedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, insertQuery, insertArgs...)
		if err != nil {
			return fmt.Errorf("failed to insert submission: %w", err)
		}

		if sub.Status == model.StatusApproved {
			err = r.applyPointsTx(ctx, tx, kidID, sub.PointsAwarded, model.PointEntryChore, sub.ID, now)
			if err != nil {
				return err
			}

			if ac.IsRecurring {
				err = r.advanceAssignmentTx(ctx, tx, kidID, choreID, ac, now, schedule)
				if err != nil {
					return err
				}
			}
		}

		created = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

type reviewableSubmission struct {
	submission
	IsRecurring   bool       `db:"is_recurring"`
	Frequency     string     `db:"frequency"`
	DefaultPoints int        `db:"default_points"`
	StreakCount   *int       `db:"streak_count"`
	NextDueAt     *time.Time `db:"next_due_at"`
}

// ReviewSubmission moves a pending submission to a terminal status. The
// pending check, the status write, the ledger credit and the assignment
// update all run in one transaction; the submission row is locked so two
// concurrent reviews of the same id cannot both credit the ledger.
func (r *Repository) ReviewSubmission(ctx context.Context, submissionID uuid.UUID, decision model.ReviewDecision, pointsOverride *int, note string, now time.Time, schedule model.ScheduleFunc) (*model.Submission, error) {
	var reviewed *model.Submission

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Select(
				"s.id", "s.kid_id", "s.chore_id", "s.status", "s.note",
				"s.points_awarded", "s.submitted_at", "s.reviewed_at",
				"k.name AS kid_name", "c.title AS chore_title",
				"c.is_recurring", "c.frequency", "c.default_points",
				"kc.streak_count", "kc.next_due_at",
			).
			From("submissions s").
			Join("kids k ON k.id = s.kid_id").
			Join("chores c ON c.id = s.chore_id").
			LeftJoin("kid_chores kc ON kc.kid_id = s.kid_id AND kc.chore_id = s.chore_id").
			Where(squirrel.Eq{"s.id": submissionID}).
			Suffix("FOR UPDATE OF s").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		var rs reviewableSubmission
		err = tx.GetContext(ctx, &rs, query, args...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get submission: %w", err)
		}

		if model.ReviewStatus(rs.Status).Terminal() {
			return ErrAlreadyReviewed
		}

		points := 0
		if decision == model.DecisionApprove {
			points = rs.DefaultPoints
			if pointsOverride != nil {
				points = *pointsOverride
			}
		}

		update := squirrel.
			Update("submissions").
			Set("status", string(decision)).
			Set("points_awarded", points).
			Set("reviewed_at", now).
			Where(squirrel.Eq{"id": submissionID}).
			PlaceholderFormat(squirrel.Dollar)
		if note != "" {
			update = update.Set("note", note)
		}

		updateQuery, updateArgs, err := update.ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
		if err != nil {
			return fmt.Errorf("failed to update submission: %w", err)
		}

		if decision == model.DecisionApprove {
			err = r.applyPointsTx(ctx, tx, rs.KidID, points, model.PointEntryChore, rs.ID, now)
			if err != nil {
				return err
			}

			if rs.IsRecurring && rs.NextDueAt != nil {
				ac := assignedChore{
					NextDueAt:   *rs.NextDueAt,
					StreakCount: derefInt(rs.StreakCount),
					Frequency:   rs.Frequency,
				}
				err = r.advanceAssignmentTx(ctx, tx, rs.KidID, rs.ChoreID, ac, now, schedule)
				if err != nil {
					return err
				}
			}
		}

		result := rs.submission.toModel()
		result.Status = model.ReviewStatus(decision)
		result.PointsAwarded = points
		result.ReviewedAt = &now
		if note != "" {
			result.Note = note
		}
		reviewed = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reviewed, nil
}

// advanceAssignmentTx recomputes the schedule for a recurring chore after
// an approved completion. The streak restarts at 1 when the schedule
// callback reports a missed window, otherwise it grows by one.
func (r *Repository) advanceAssignmentTx(ctx context.Context, tx *sqlx.Tx, kidID, choreID uuid.UUID, ac assignedChore, now time.Time, schedule model.ScheduleFunc) error {
	upd := schedule(model.Frequency(ac.Frequency), ac.NextDueAt)

	streak := ac.StreakCount + 1
	if upd.ResetStreak {
		streak = 1
	}

	query, args, err := squirrel.
		Update("kid_chores").
		Set("streak_count", streak).
		Set("last_completed_at", now).
		Set("next_due_at", upd.NextDueAt).
		Where(squirrel.Eq{"kid_id": kidID, "chore_id": choreID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to advance assignment: %w", err)
	}

	return nil
}

func (r *Repository) ListSubmissions(ctx context.Context, status model.ReviewStatus, limit int) ([]*model.Submission, error) {
	query, args, err := squirrel.
		Select(
			"s.id", "s.kid_id", "s.chore_id", "s.status", "s.note",
			"s.points_awarded", "s.submitted_at", "s.reviewed_at",
			"k.name AS kid_name", "c.title AS chore_title",
		).
		From("submissions s").
		Join("kids k ON k.id = s.kid_id").
		Join("chores c ON c.id = s.chore_id").
		Where(squirrel.Eq{"s.status": string(status)}).
		OrderBy("s.submitted_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var subs []*submission
	err = r.db.SelectContext(ctx, &subs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	list := make([]*model.Submission, len(subs))
	for i, s := range subs {
		list[i] = s.toModel()
	}

	return list, nil
}

func (r *Repository) ListKidSubmissions(ctx context.Context, kidID uuid.UUID, limit int) ([]*model.Submission, error) {
	query, args, err := squirrel.
		Select(
			"s.id", "s.kid_id", "s.chore_id", "s.status", "s.note",
			"s.points_awarded", "s.submitted_at", "s.reviewed_at",
			"'' AS kid_name", "c.title AS chore_title",
		).
		From("submissions s").
		Join("chores c ON c.id = s.chore_id").
		Where(squirrel.Eq{"s.kid_id": kidID}).
		OrderBy("s.submitted_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var subs []*submission
	err = r.db.SelectContext(ctx, &subs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list kid submissions: %w", err)
	}

	list := make([]*model.Submission, len(subs))
	for i, s := range subs {
		list[i] = s.toModel()
	}

	return list, nil
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
