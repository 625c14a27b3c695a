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
	"github.com/lib/pq"
)

type quest struct {
	ID           uuid.UUID `db:"id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	TargetReward string    `db:"target_reward"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	TaskCount    int       `db:"task_count"`
}

type questTask struct {
	ID          uuid.UUID `db:"id"`
	QuestID     uuid.UUID `db:"quest_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Points      int       `db:"points"`
	OrderIndex  int       `db:"order_index"`
}

type questTaskStatus struct {
	ID          uuid.UUID  `db:"id"`
	KidID       uuid.UUID  `db:"kid_id"`
	QuestTaskID uuid.UUID  `db:"quest_task_id"`
	Status      string     `db:"status"`
	Note        string     `db:"note"`
	SubmittedAt time.Time  `db:"submitted_at"`
	ReviewedAt  *time.Time `db:"reviewed_at"`
	KidName     string     `db:"kid_name"`
	QuestID     uuid.UUID  `db:"quest_id"`
	TaskTitle   string     `db:"task_title"`
	Points      int        `db:"points"`
}

func (s *questTaskStatus) toModel() *model.QuestTaskStatus {
	return &model.QuestTaskStatus{
		ID:          s.ID,
		KidID:       s.KidID,
		QuestTaskID: s.QuestTaskID,
		Status:      model.ReviewStatus(s.Status),
		Note:        s.Note,
		SubmittedAt: s.SubmittedAt,
		ReviewedAt:  s.ReviewedAt,
		KidName:     s.KidName,
		QuestID:     s.QuestID,
		TaskTitle:   s.TaskTitle,
		Points:      s.Points,
	}
}

func (r *Repository) CreateQuest(ctx context.Context, q *model.Quest) error {
	query, args, err := squirrel.
		Insert("quests").
		SetMap(map[string]interface{}{
			"id":            q.ID,
			"title":         q.Title,
			"description":   q.Description,
			"target_reward": q.TargetReward,
			"is_active":     q.IsActive,
			"created_at":    q.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build quest insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert quest: %w", err)
	}

	return nil
}

func (r *Repository) ListQuests(ctx context.Context, activeOnly bool) ([]*model.Quest, error) {
	builder := squirrel.
		Select(
			"q.id", "q.title", "q.description", "q.target_reward",
			"q.is_active", "q.created_at",
			"COUNT(qt.id) AS task_count",
		).
		From("quests q").
		LeftJoin("quest_tasks qt ON qt.quest_id = q.id").
		GroupBy("q.id").
		OrderBy("q.is_active DESC", "q.created_at DESC").
		PlaceholderFormat(squirrel.Dollar)
	if activeOnly {
		builder = builder.Where(squirrel.Eq{"q.is_active": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var quests []*quest
	err = r.db.SelectContext(ctx, &quests, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}

	list := make([]*model.Quest, len(quests))
	for i, q := range quests {
		list[i] = &model.Quest{
			ID:           q.ID,
			Title:        q.Title,
			Description:  q.Description,
			TargetReward: q.TargetReward,
			IsActive:     q.IsActive,
			CreatedAt:    q.CreatedAt,
			TaskCount:    q.TaskCount,
		}
	}

	return list, nil
}

func (r *Repository) ToggleQuest(ctx context.Context, questID uuid.UUID) error {
	query, args, err := squirrel.
		Update("quests").
		Set("is_active", squirrel.Expr("NOT is_active")).
		Where(squirrel.Eq{"id": questID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to toggle quest: %w", err)
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

func (r *Repository) CreateQuestTask(ctx context.Context, t *model.QuestTask) error {
	existsQuery, existsArgs, err := squirrel.
		Select("id").
		From("quests").
		Where(squirrel.Eq{"id": t.QuestID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	var questID uuid.UUID
	err = r.db.GetContext(ctx, &questID, existsQuery, existsArgs...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	query, args, err := squirrel.
		Insert("quest_tasks").
		SetMap(map[string]interface{}{
			"id":          t.ID,
			"quest_id":    t.QuestID,
			"title":       t.Title,
			"description": t.Description,
			"points":      t.Points,
			"order_index": t.OrderIndex,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert quest task: %w", err)
	}

	return nil
}

func (r *Repository) ListQuestTasks(ctx context.Context, questID uuid.UUID) ([]*model.QuestTask, error) {
	query, args, err := squirrel.
		Select("id", "quest_id", "title", "description", "points", "order_index").
		From("quest_tasks").
		Where(squirrel.Eq{"quest_id": questID}).
		OrderBy("order_index", "id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var tasks []*questTask
	err = r.db.SelectContext(ctx, &tasks, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quest tasks: %w", err)
	}

	list := make([]*model.QuestTask, len(tasks))
	for i, t := range tasks {
		list[i] = &model.QuestTask{
			ID:          t.ID,
			QuestID:     t.QuestID,
			Title:       t.Title,
			Description: t.Description,
			Points:      t.Points,
			OrderIndex:  t.OrderIndex,
		}
	}

	return list, nil
}

func (r *Repository) DeleteQuestTask(ctx context.Context, taskID uuid.UUID) error {
	query, args, err := squirrel.
		Delete("quest_tasks").
		Where(squirrel.Eq{"id": taskID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete quest task: %w", err)
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

// CreateQuestTaskStatus inserts a pending claim for one quest task. A
// pending or approved claim for the same (kid, task) blocks a new one; a
// rejected claim does not, so a kid can retry after a rejection.
func (r *Repository) CreateQuestTaskStatus(ctx context.Context, kidID, taskID uuid.UUID, note string, now time.Time) (*model.QuestTaskStatus, error) {
	var created *model.QuestTaskStatus

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		taskQuery, taskArgs, err := squirrel.
			Select("id", "quest_id", "title", "description", "points", "order_index").
			From("quest_tasks").
			Where(squirrel.Eq{"id": taskID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		var task questTask
		err = tx.GetContext(ctx, &task, taskQuery, taskArgs...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get quest task: %w", err)
		}

		dupQuery, dupArgs, err := squirrel.
			Select("id").
			From("quest_task_statuses").
			Where(squirrel.Eq{
				"kid_id":        kidID,
				"quest_task_id": taskID,
				"status":        []string{string(model.StatusPending), string(model.StatusApproved)},
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		var dupID uuid.UUID
		err = tx.GetContext(ctx, &dupID, dupQuery, dupArgs...)
		if err == nil {
			return ErrAlreadySubmitted
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check quest task status: %w", err)
		}

		status := &model.QuestTaskStatus{
			ID:          uuid.New(),
			KidID:       kidID,
			QuestTaskID: taskID,
			Status:      model.StatusPending,
			Note:        note,
			SubmittedAt: now,
			QuestID:     task.QuestID,
			TaskTitle:   task.Title,
			Points:      task.Points,
		}

		insertQuery, insertArgs, err := squirrel.
			Insert("quest_task_statuses").
			SetMap(map[string]interface{}{
				"id":            status.ID,
				"kid_id":        status.KidID,
				"quest_task_id": status.QuestTaskID,
				"status":        string(status.Status),
				"note":          status.Note,
				"submitted_at":  status.SubmittedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, insertQuery, insertArgs...)
		if err != nil {
			return fmt.Errorf("failed to insert quest task status: %w", err)
		}

		created = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// ReviewQuestTask resolves a pending quest task claim. Approval rolls the
// task points into the (kid, quest) accumulator with insert-at-zero-then-
// add semantics and credits the kid's ledger, all in one transaction.
func (r *Repository) ReviewQuestTask(ctx context.Context, statusID uuid.UUID, decision model.ReviewDecision, now time.Time) (*model.QuestTaskStatus, error) {
	var reviewed *model.QuestTaskStatus

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Select(
				"qts.id", "qts.kid_id", "qts.quest_task_id", "qts.status",
				"qts.note", "qts.submitted_at", "qts.reviewed_at",
				"'' AS kid_name",
				"qt.quest_id", "qt.title AS task_title", "qt.points",
			).
			From("quest_task_statuses qts").
			Join("quest_tasks qt ON qt.id = qts.quest_task_id").
			Where(squirrel.Eq{"qts.id": statusID}).
			Suffix("FOR UPDATE OF qts").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		var ts questTaskStatus
		err = tx.GetContext(ctx, &ts, query, args...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get quest task status: %w", err)
		}

		if model.ReviewStatus(ts.Status).Terminal() {
			return ErrAlreadyReviewed
		}

		updateQuery, updateArgs, err := squirrel.
			Update("quest_task_statuses").
			Set("status", string(decision)).
			Set("reviewed_at", now).
			Where(squirrel.Eq{"id": statusID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
		if err != nil {
			return fmt.Errorf("failed to update quest task status: %w", err)
		}

		if decision == model.DecisionApprove {
			upsertQuery, upsertArgs, err := squirrel.
				Insert("quest_progress").
				Columns("kid_id", "quest_id", "total_points").
				Values(ts.KidID, ts.QuestID, ts.Points).
				Suffix("ON CONFLICT (kid_id, quest_id) DO UPDATE SET total_points = quest_progress.total_points + EXCLUDED.total_points").
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return err
			}

			_, err = tx.ExecContext(ctx, upsertQuery, upsertArgs...)
			if err != nil {
				return fmt.Errorf("failed to upsert quest progress: %w", err)
			}

			err = r.applyPointsTx(ctx, tx, ts.KidID, ts.Points, model.PointEntryQuestTask, ts.ID, now)
			if err != nil {
				return err
			}
		}

		result := ts.toModel()
		result.Status = model.ReviewStatus(decision)
		result.ReviewedAt = &now
		reviewed = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reviewed, nil
}

func (r *Repository) ListQuestTaskStatuses(ctx context.Context, status model.ReviewStatus, limit int) ([]*model.QuestTaskStatus, error) {
	query, args, err := squirrel.
		Select(
			"qts.id", "qts.kid_id", "qts.quest_task_id", "qts.status",
			"qts.note", "qts.submitted_at", "qts.reviewed_at",
			"k.name AS kid_name",
			"qt.quest_id", "qt.title AS task_title", "qt.points",
		).
		From("quest_task_statuses qts").
		Join("quest_tasks qt ON qt.id = qts.quest_task_id").
		Join("kids k ON k.id = qts.kid_id").
		Where(squirrel.Eq{"qts.status": string(status)}).
		OrderBy("qts.submitted_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var statuses []*questTaskStatus
	err = r.db.SelectContext(ctx, &statuses, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quest task statuses: %w", err)
	}

	list := make([]*model.QuestTaskStatus, len(statuses))
	for i, s := range statuses {
		list[i] = s.toModel()
	}

	return list, nil
}

type questProgressRow struct {
	QuestID       uuid.UUID      `db:"id"`
	Title         string         `db:"title"`
	Description   string         `db:"description"`
	TargetReward  string         `db:"target_reward"`
	EarnedPoints  int            `db:"earned_points"`
	TotalPoints   int            `db:"total_points"`
	TotalTasks    int            `db:"total_tasks"`
	ApprovedTasks pq.StringArray `db:"approved_tasks"`
}

// KidQuestProgress reports every active quest with the kid's accumulator
// and the derived completion numbers. Completion is read-time arithmetic
// over approved task claims, never a stored state.
func (r *Repository) KidQuestProgress(ctx context.Context, kidID uuid.UUID) ([]*model.QuestProgress, error) {
	query := squirrel.
		Select(
			"q.id",
			"q.title",
			"q.description",
			"q.target_reward",
			"COALESCE(kqp.total_points, 0) AS earned_points",
			"COALESCE(SUM(qt.points), 0) AS total_points",
			"COUNT(qt.id) AS total_tasks",
			"array_agg(qts.id::text) FILTER (WHERE qts.id IS NOT NULL) AS approved_tasks",
		).
		From("quests q").
		LeftJoin("quest_tasks qt ON qt.quest_id = q.id").
		LeftJoin("quest_task_statuses qts ON qts.quest_task_id = qt.id AND qts.kid_id = ? AND qts.status = 'approved'", kidID).
		LeftJoin("quest_progress kqp ON kqp.quest_id = q.id AND kqp.kid_id = ?", kidID).
		Where(squirrel.Eq{"q.is_active": true}).
		GroupBy("q.id", "kqp.total_points").
		OrderBy("q.created_at").
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build quest progress query: %w", err)
	}

	var rows []*questProgressRow
	err = r.db.SelectContext(ctx, &rows, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get quest progress: %w", err)
	}

	list := make([]*model.QuestProgress, len(rows))
	for i, row := range rows {
		list[i] = &model.QuestProgress{
			QuestID:        row.QuestID,
			Title:          row.Title,
			Description:    row.Description,
			TargetReward:   row.TargetReward,
			EarnedPoints:   row.EarnedPoints,
			TotalPoints:    row.TotalPoints,
			TotalTasks:     row.TotalTasks,
			CompletedTasks: len(row.ApprovedTasks),
		}
	}

	return list, nil
}
