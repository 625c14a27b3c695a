package service

import (
	"time"

	"chorequest/internal/model"
)

// resetHour pins recomputed due timestamps to a fixed local hour so a
// chore approved late in the evening still comes due the next morning.
const resetHour = 7

// weeklyResetDay is the weekday a weekly chore comes due again.
const weeklyResetDay = time.Monday

// ComputeNextDue returns the next due timestamp for a recurrence policy.
// Pure and total: it never fails, and unknown policies (including "once",
// which keeps a placeholder "come back tomorrow" value because the
// schema has no null due date) behave like daily. The result is always
// strictly after now.
func ComputeNextDue(frequency model.Frequency, now time.Time) time.Time {
	switch frequency {
	case model.FrequencyWeekly:
		days := (int(weeklyResetDay) - int(now.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		next := now.AddDate(0, 0, days)
		return time.Date(next.Year(), next.Month(), next.Day(), resetHour, 0, 0, 0, now.Location())
	default:
		next := now.AddDate(0, 0, 1)
		return time.Date(next.Year(), next.Month(), next.Day(), resetHour, 0, 0, 0, now.Location())
	}
}

// StreakPolicy decides what happens to a streak when a recurring chore
// is approved after its due window already passed.
type StreakPolicy string

const (
	// StreakForgiving never resets a streak automatically. This matches
	// the historical behavior and is the default.
	StreakForgiving StreakPolicy = "forgiving"
	// StreakStrict restarts the streak at 1 when the approval lands more
	// than one full period past the due timestamp it replaces.
	StreakStrict StreakPolicy = "strict"
)

func ParseStreakPolicy(s string) StreakPolicy {
	if StreakPolicy(s) == StreakStrict {
		return StreakStrict
	}
	return StreakForgiving
}

func recurrencePeriod(frequency model.Frequency) time.Duration {
	if frequency == model.FrequencyWeekly {
		return 7 * 24 * time.Hour
	}
	return 24 * time.Hour
}

// missedWindow reports whether an approval at now landed a full period
// past the due timestamp being replaced.
func missedWindow(frequency model.Frequency, nextDue, now time.Time) bool {
	return now.After(nextDue.Add(recurrencePeriod(frequency)))
}

// scheduleFunc builds the callback the repository applies to an
// assignment when an approval of a recurring chore lands.
func scheduleFunc(policy StreakPolicy, now time.Time) model.ScheduleFunc {
	return func(frequency model.Frequency, currentNextDue time.Time) model.ScheduleUpdate {
		return model.ScheduleUpdate{
			NextDueAt:   ComputeNextDue(frequency, now),
			ResetStreak: policy == StreakStrict && missedWindow(frequency, currentNextDue, now),
		}
	}
}
