// Package streak implements the calendar-day completion rule.
//
// The streak only advances when every task is completed on a day that has
// not already been credited. Evaluation is pure so the rule can be tested
// without persistence and invoked redundantly by both sync paths.
package streak

import (
	"time"

	"taskdeck/internal/domain"
)

// Evaluate computes the streak state that follows prev given the current
// task list and the current time.
//
// Rules, in order:
//   - empty task list: nothing to evaluate, prev is returned unchanged
//   - not all tasks completed, or today already credited: prev unchanged
//   - last credited day was yesterday: count advances by one
//   - otherwise: streak restarts at 1 for today
//
// Days are UTC calendar-day strings; "yesterday" is exactly one calendar day
// before today. Calling Evaluate twice with the same inputs yields the same
// result, so redundant invocations from the broadcast and storage-watch
// paths are harmless.
func Evaluate(tasks domain.TaskList, prev domain.Streak, now time.Time) domain.Streak {
	if len(tasks) == 0 {
		return prev
	}

	today := domain.Day(now)

	if !tasks.AllCompleted() || prev.LastCompletedDate == today {
		return prev
	}

	if prev.LastCompletedDate == domain.PreviousDay(now) {
		return domain.Streak{
			Count:             prev.Count + 1,
			LastCompletedDate: today,
		}
	}

	return domain.Streak{
		Count:             1,
		LastCompletedDate: today,
	}
}
