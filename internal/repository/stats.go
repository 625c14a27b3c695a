package repository

import (
	"context"
	"fmt"

	"chorequest/internal/model"

	"github.com/Masterminds/squirrel"
)

func (r *Repository) StatsOverview(ctx context.Context) (*model.StatsOverview, error) {
	stats := &model.StatsOverview{}

	pendingCounts := []struct {
		table string
		dest  *int
	}{
		{"submissions", &stats.PendingSubmissions},
		{"quest_task_statuses", &stats.PendingQuestTasks},
		{"redemptions", &stats.PendingRedemptions},
	}

	for _, pc := range pendingCounts {
		query, args, err := squirrel.
			Select("COUNT(*)").
			From(pc.table).
			Where(squirrel.Eq{"status": string(model.StatusPending)}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return nil, err
		}
		if err := r.db.GetContext(ctx, pc.dest, query, args...); err != nil {
			return nil, fmt.Errorf("failed to count pending %s: %w", pc.table, err)
		}
	}

	todayQuery, todayArgs, err := squirrel.
		Select("COUNT(*)").
		From("submissions").
		Where(squirrel.Expr("submitted_at::date = CURRENT_DATE")).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.db.GetContext(ctx, &stats.TodayCompletions, todayQuery, todayArgs...); err != nil {
		return nil, fmt.Errorf("failed to count today completions: %w", err)
	}

	streakQuery, streakArgs, err := squirrel.
		Select("k.name AS kid_name", "c.title AS chore_title", "kc.streak_count").
		From("kid_chores kc").
		Join("kids k ON k.id = kc.kid_id").
		Join("chores c ON c.id = kc.chore_id").
		Where(squirrel.Gt{"kc.streak_count": 0}).
		OrderBy("kc.streak_count DESC").
		Limit(5).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var streakLeaders []struct {
		KidName     string `db:"kid_name"`
		ChoreTitle  string `db:"chore_title"`
		StreakCount int    `db:"streak_count"`
	}
	if err := r.db.SelectContext(ctx, &streakLeaders, streakQuery, streakArgs...); err != nil {
		return nil, fmt.Errorf("failed to get streak leaders: %w", err)
	}
	for _, l := range streakLeaders {
		stats.StreakLeaders = append(stats.StreakLeaders, model.StreakLeader{
			KidName:     l.KidName,
			ChoreTitle:  l.ChoreTitle,
			StreakCount: l.StreakCount,
		})
	}

	pointsQuery, pointsArgs, err := squirrel.
		Select("name AS kid_name", "total_points").
		From("kids").
		OrderBy("total_points DESC").
		Limit(5).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var pointsLeaders []struct {
		KidName     string `db:"kid_name"`
		TotalPoints int    `db:"total_points"`
	}
	if err := r.db.SelectContext(ctx, &pointsLeaders, pointsQuery, pointsArgs...); err != nil {
		return nil, fmt.Errorf("failed to get points leaders: %w", err)
	}
	for _, l := range pointsLeaders {
		stats.PointsLeaders = append(stats.PointsLeaders, model.PointsLeader{
			KidName:     l.KidName,
			TotalPoints: l.TotalPoints,
		})
	}

	return stats, nil
}
