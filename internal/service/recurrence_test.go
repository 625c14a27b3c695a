package service

import (
	"testing"
	"time"

	"chorequest/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestComputeNextDue_Daily(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{
			name:     "Morning submission lands tomorrow morning",
			now:      time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
			expected: time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC),
		},
		{
			name:     "Late evening submission still lands tomorrow",
			now:      time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC),
			expected: time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC),
		},
		{
			name:     "Just after midnight lands later the same calendar day plus one",
			now:      time.Date(2025, 3, 10, 0, 1, 0, 0, time.UTC),
			expected: time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC),
		},
		{
			name:     "Month rollover",
			now:      time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC),
			expected: time.Date(2025, 4, 1, 7, 0, 0, 0, time.UTC),
		},
		{
			name:     "Year rollover",
			now:      time.Date(2025, 12, 31, 20, 0, 0, 0, time.UTC),
			expected: time.Date(2026, 1, 1, 7, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeNextDue(model.FrequencyDaily, tt.now)
			assert.Equal(t, tt.expected, got)
			assert.True(t, got.After(tt.now))
		})
	}
}

func TestComputeNextDue_Weekly(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{
			// 2025-03-12 is a Wednesday.
			name:     "Midweek lands on next Monday",
			now:      time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC),
			expected: time.Date(2025, 3, 17, 7, 0, 0, 0, time.UTC),
		},
		{
			// 2025-03-16 is a Sunday.
			name:     "Sunday lands on the very next day",
			now:      time.Date(2025, 3, 16, 10, 0, 0, 0, time.UTC),
			expected: time.Date(2025, 3, 17, 7, 0, 0, 0, time.UTC),
		},
		{
			// 2025-03-10 is a Monday: same-weekday submissions must jump a
			// full week, never resolve to today.
			name:     "Monday jumps a full week",
			now:      time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC),
			expected: time.Date(2025, 3, 17, 7, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeNextDue(model.FrequencyWeekly, tt.now)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, time.Monday, got.Weekday())
			assert.True(t, got.After(tt.now))
		})
	}
}

func TestComputeNextDue_UnknownBehavesLikeDaily(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	daily := ComputeNextDue(model.FrequencyDaily, now)
	assert.Equal(t, daily, ComputeNextDue(model.FrequencyOnce, now))
	assert.Equal(t, daily, ComputeNextDue(model.Frequency("fortnightly"), now))
}

func TestComputeNextDue_PreservesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2025, 3, 10, 22, 0, 0, 0, loc)

	got := ComputeNextDue(model.FrequencyDaily, now)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, resetHour, got.Hour())
}

func TestParseStreakPolicy(t *testing.T) {
	assert.Equal(t, StreakStrict, ParseStreakPolicy("strict"))
	assert.Equal(t, StreakForgiving, ParseStreakPolicy("forgiving"))
	assert.Equal(t, StreakForgiving, ParseStreakPolicy(""))
	assert.Equal(t, StreakForgiving, ParseStreakPolicy("nonsense"))
}

func TestScheduleFunc_ForgivingNeverResets(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	// Due over a week ago; forgiving still keeps the streak.
	staleDue := time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)

	upd := scheduleFunc(StreakForgiving, now)(model.FrequencyDaily, staleDue)

	assert.False(t, upd.ResetStreak)
	assert.Equal(t, ComputeNextDue(model.FrequencyDaily, now), upd.NextDueAt)
}

func TestScheduleFunc_StrictResetsOutsideWindow(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		frequency   model.Frequency
		nextDue     time.Time
		expectReset bool
	}{
		{
			name:        "Daily approved within grace period keeps streak",
			frequency:   model.FrequencyDaily,
			nextDue:     time.Date(2025, 3, 20, 7, 0, 0, 0, time.UTC),
			expectReset: false,
		},
		{
			name:        "Daily approved a day late still inside one period",
			frequency:   model.FrequencyDaily,
			nextDue:     time.Date(2025, 3, 19, 13, 0, 0, 0, time.UTC),
			expectReset: false,
		},
		{
			name:        "Daily approved over a full day past due resets",
			frequency:   model.FrequencyDaily,
			nextDue:     time.Date(2025, 3, 18, 7, 0, 0, 0, time.UTC),
			expectReset: true,
		},
		{
			name:        "Weekly approved five days late stays inside window",
			frequency:   model.FrequencyWeekly,
			nextDue:     time.Date(2025, 3, 15, 7, 0, 0, 0, time.UTC),
			expectReset: false,
		},
		{
			name:        "Weekly approved over a week past due resets",
			frequency:   model.FrequencyWeekly,
			nextDue:     time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC),
			expectReset: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upd := scheduleFunc(StreakStrict, now)(tt.frequency, tt.nextDue)
			assert.Equal(t, tt.expectReset, upd.ResetStreak)
			assert.True(t, upd.NextDueAt.After(now))
		})
	}
}
