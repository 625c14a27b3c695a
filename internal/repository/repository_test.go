package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"chorequest/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests need a real PostgreSQL instance because the invariants
// they cover live in SQL: partial unique indexes, row locks and the
// ledger writes done inside transactions. Point TEST_DATABASE_URL at a
// scratch database to run them.
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := sqlx.Connect("pgx", url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, runMigrations(db))

	return &Repository{db: db}
}

func seedKid(t *testing.T, r *Repository, name string) *model.Kid {
	t.Helper()

	kid := &model.Kid{
		ID:        uuid.New(),
		Name:      name,
		APIToken:  uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, r.CreateKid(context.Background(), kid))
	return kid
}

func seedChore(t *testing.T, r *Repository, title string, points int, requiresApproval bool) *model.Chore {
	t.Helper()

	chore := &model.Chore{
		ID:               uuid.New(),
		Title:            title,
		IsRecurring:      true,
		Frequency:        model.FrequencyDaily,
		DefaultPoints:    points,
		RequiresApproval: requiresApproval,
		CreatedAt:        time.Now().UTC(),
	}
	require.NoError(t, r.CreateChore(context.Background(), chore))
	return chore
}

func advanceOneDay(_ model.Frequency, currentNextDue time.Time) model.ScheduleUpdate {
	return model.ScheduleUpdate{NextDueAt: currentNextDue.Add(24 * time.Hour)}
}

func TestRepository_LedgerConservation(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	kid := seedKid(t, r, "Nora")
	chore := seedChore(t, r, "Water the plants", 10, true)
	require.NoError(t, r.AssignChore(ctx, kid.ID, chore.ID, now.Add(time.Hour)))

	reward := &model.Reward{
		ID:         uuid.New(),
		Title:      "Extra screen time",
		CostPoints: 15,
		IsActive:   true,
		CreatedAt:  now,
	}
	require.NoError(t, r.CreateReward(ctx, reward))

	// Two approved chore submissions, one with an override.
	sub, err := r.CreateSubmission(ctx, kid.ID, chore.ID, "", now, advanceOneDay)
	require.NoError(t, err)
	_, err = r.ReviewSubmission(ctx, sub.ID, model.DecisionApprove, nil, "", now, advanceOneDay)
	require.NoError(t, err)

	sub, err = r.CreateSubmission(ctx, kid.ID, chore.ID, "", now, advanceOneDay)
	require.NoError(t, err)
	override := 25
	_, err = r.ReviewSubmission(ctx, sub.ID, model.DecisionApprove, &override, "", now, advanceOneDay)
	require.NoError(t, err)

	// One approved redemption spending part of it.
	rd, err := r.CreateRedemption(ctx, kid.ID, reward.ID, now)
	require.NoError(t, err)
	_, err = r.ReviewRedemption(ctx, rd.ID, model.DecisionApprove, now)
	require.NoError(t, err)

	balance, err := r.GetBalance(ctx, kid.ID)
	require.NoError(t, err)
	assert.Equal(t, 10+25-15, balance)

	entries, err := r.ListPointEntries(ctx, kid.ID, 100)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	sum := 0
	for _, e := range entries {
		sum += e.Delta
	}
	assert.Equal(t, balance, sum)
}

func TestRepository_ReviewSubmissionDisplayFields(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	kid := seedKid(t, r, "Iris")
	chore := seedChore(t, r, "Feed the cat", 5, true)
	require.NoError(t, r.AssignChore(ctx, kid.ID, chore.ID, now.Add(time.Hour)))

	sub, err := r.CreateSubmission(ctx, kid.ID, chore.ID, "", now, advanceOneDay)
	require.NoError(t, err)

	reviewed, err := r.ReviewSubmission(ctx, sub.ID, model.DecisionApprove, nil, "", now, advanceOneDay)
	require.NoError(t, err)

	assert.Equal(t, "Feed the cat", reviewed.ChoreTitle)
	assert.Equal(t, "Iris", reviewed.KidName)
	assert.Equal(t, model.StatusApproved, reviewed.Status)
	assert.Equal(t, 5, reviewed.PointsAwarded)
}

func TestRepository_SinglePendingSubmission(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	kid := seedKid(t, r, "Theo")
	chore := seedChore(t, r, "Make the bed", 5, true)
	require.NoError(t, r.AssignChore(ctx, kid.ID, chore.ID, now.Add(time.Hour)))

	first, err := r.CreateSubmission(ctx, kid.ID, chore.ID, "", now, advanceOneDay)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, first.Status)

	_, err = r.CreateSubmission(ctx, kid.ID, chore.ID, "", now, advanceOneDay)
	assert.ErrorIs(t, err, ErrAlreadyPending)

	// A rejected submission frees the slot again.
	_, err = r.ReviewSubmission(ctx, first.ID, model.DecisionReject, nil, "do it properly", now, advanceOneDay)
	require.NoError(t, err)

	second, err := r.CreateSubmission(ctx, kid.ID, chore.ID, "", now, advanceOneDay)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, second.Status)
}

func TestRepository_StreakGrowsPerApproval(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	kid := seedKid(t, r, "Milo")
	chore := seedChore(t, r, "Take out the trash", 5, true)
	require.NoError(t, r.AssignChore(ctx, kid.ID, chore.ID, now.Add(time.Hour)))

	const cycles = 3
	for i := 0; i < cycles; i++ {
		sub, err := r.CreateSubmission(ctx, kid.ID, chore.ID, "", now, advanceOneDay)
		require.NoError(t, err)
		_, err = r.ReviewSubmission(ctx, sub.ID, model.DecisionApprove, nil, "", now, advanceOneDay)
		require.NoError(t, err)
	}

	chores, err := r.ListKidChores(ctx, kid.ID)
	require.NoError(t, err)
	require.Len(t, chores, 1)
	assert.Equal(t, cycles, chores[0].StreakCount)

	// A schedule update asking for a reset drops the streak to 1, not 0:
	// the approval itself still counts.
	sub, err := r.CreateSubmission(ctx, kid.ID, chore.ID, "", now, advanceOneDay)
	require.NoError(t, err)
	_, err = r.ReviewSubmission(ctx, sub.ID, model.DecisionApprove, nil, "", now,
		func(f model.Frequency, due time.Time) model.ScheduleUpdate {
			return model.ScheduleUpdate{NextDueAt: due.Add(24 * time.Hour), ResetStreak: true}
		})
	require.NoError(t, err)

	chores, err = r.ListKidChores(ctx, kid.ID)
	require.NoError(t, err)
	require.Len(t, chores, 1)
	assert.Equal(t, 1, chores[0].StreakCount)
}
