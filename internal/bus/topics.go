package bus

import "taskdeck/internal/domain"

// Task event topics.
const (
	TopicTasksChanged = "tasks.changed"
	TopicTaskDue      = "tasks.due"
)

// Badge and timer topics.
const (
	TopicBadgeUpdate   = "badge.update"
	TopicTimerFinished = "timer.finished"
)

// TasksChangedEvent is broadcast after any context mutates the task list.
// Origin identifies the publishing context so receivers can skip refreshing
// a cache they just wrote themselves.
type TasksChangedEvent struct {
	Origin string
	Tasks  domain.TaskList
}

// TaskDueEvent is published when a pending task's due time is reached.
type TaskDueEvent struct {
	Task domain.Task
}

// BadgeUpdateEvent carries the recomputed pending-task count for the badge
// collaborator.
type BadgeUpdateEvent struct {
	Pending int
}

// TimerFinishedEvent is published when a focus session counts down to zero.
type TimerFinishedEvent struct{}
