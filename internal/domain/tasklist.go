package domain

import "math"

// TaskList is an ordered sequence of tasks. Order is significant: it reflects
// the last committed manual order, with new tasks prepended.
type TaskList []Task

// PendingCount returns the number of tasks that are not completed.
func (tl TaskList) PendingCount() int {
	count := 0
	for _, t := range tl {
		if !t.Completed {
			count++
		}
	}
	return count
}

// CompletedCount returns the number of completed tasks.
func (tl TaskList) CompletedCount() int {
	return len(tl) - tl.PendingCount()
}

// AllCompleted returns true if every task in the list is completed.
// An empty list is not considered all-completed.
func (tl TaskList) AllCompleted() bool {
	if len(tl) == 0 {
		return false
	}
	for _, t := range tl {
		if !t.Completed {
			return false
		}
	}
	return true
}

// ProgressPercent returns the completion percentage rounded to the nearest
// integer. An empty list reports 0.
func (tl TaskList) ProgressPercent() int {
	if len(tl) == 0 {
		return 0
	}
	return int(math.Round(float64(tl.CompletedCount()) / float64(len(tl)) * 100))
}

// Find returns the index of the task with the given id, or -1 if absent.
func (tl TaskList) Find(id int64) int {
	for i, t := range tl {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy of the list so callers can mutate it without aliasing
// the receiver's backing array.
func (tl TaskList) Clone() TaskList {
	if tl == nil {
		return nil
	}
	out := make(TaskList, len(tl))
	copy(out, tl)
	return out
}
