package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskdeck/internal/domain"
)

func taskList(completed ...bool) domain.TaskList {
	list := make(domain.TaskList, len(completed))
	for i, c := range completed {
		list[i] = domain.Task{ID: int64(i + 1), Text: "task", Completed: c}
	}
	return list
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)
	today := domain.Day(now)
	yesterday := domain.PreviousDay(now)
	twoDaysAgo := now.UTC().AddDate(0, 0, -2).Format(domain.DayFormat)

	tests := []struct {
		name     string
		tasks    domain.TaskList
		prev     domain.Streak
		expected domain.Streak
	}{
		{
			name:     "should leave streak unchanged for empty task list",
			tasks:    domain.TaskList{},
			prev:     domain.Streak{Count: 3, LastCompletedDate: yesterday},
			expected: domain.Streak{Count: 3, LastCompletedDate: yesterday},
		},
		{
			name:     "should leave streak unchanged when not all tasks completed",
			tasks:    taskList(true, false, true),
			prev:     domain.Streak{Count: 3, LastCompletedDate: yesterday},
			expected: domain.Streak{Count: 3, LastCompletedDate: yesterday},
		},
		{
			name:     "should advance streak when last credited day was yesterday",
			tasks:    taskList(true, true),
			prev:     domain.Streak{Count: 3, LastCompletedDate: yesterday},
			expected: domain.Streak{Count: 4, LastCompletedDate: today},
		},
		{
			name:     "should reset streak after a two day gap",
			tasks:    taskList(true),
			prev:     domain.Streak{Count: 7, LastCompletedDate: twoDaysAgo},
			expected: domain.Streak{Count: 1, LastCompletedDate: today},
		},
		{
			name:     "should start streak at one with no previous record",
			tasks:    taskList(true, true, true),
			prev:     domain.Streak{},
			expected: domain.Streak{Count: 1, LastCompletedDate: today},
		},
		{
			name:     "should not credit the same day twice",
			tasks:    taskList(true, true),
			prev:     domain.Streak{Count: 4, LastCompletedDate: today},
			expected: domain.Streak{Count: 4, LastCompletedDate: today},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(tt.tasks, tt.prev, now)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	now := time.Date(2026, 8, 29, 23, 59, 59, 0, time.UTC)
	tasks := taskList(true, true)
	prev := domain.Streak{Count: 2, LastCompletedDate: domain.PreviousDay(now)}

	first := Evaluate(tasks, prev, now)
	second := Evaluate(tasks, first, now)

	assert.Equal(t, 3, first.Count)
	assert.Equal(t, first, second, "re-evaluating an already credited day must not change the streak")
}

func TestEvaluate_Pure(t *testing.T) {
	now := time.Now()
	tasks := taskList(true)
	prev := domain.Streak{Count: 1, LastCompletedDate: domain.PreviousDay(now)}

	Evaluate(tasks, prev, now)

	assert.Equal(t, 1, prev.Count, "input streak must not be mutated")
	assert.True(t, tasks.AllCompleted(), "input tasks must not be mutated")
}

func TestEvaluate_DayBoundaryUsesUTC(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	local := time.Date(2026, 8, 28, 23, 30, 0, 0, loc)

	result := Evaluate(taskList(true), domain.Streak{}, local)

	assert.Equal(t, "2026-08-29", result.LastCompletedDate)
}
