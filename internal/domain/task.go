package domain

import (
	"time"
)

// Task represents a single to-do item in the domain model.
// This is a pure domain model without store-specific concerns.
// Identity is the ID; after creation only Completed and list position change.
type Task struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"createdAt"`
	Category  string     `json:"category,omitempty"`
	DueAt     *time.Time `json:"dueAt,omitempty"`
}

// NewTask creates a new Task with the given id and text.
func NewTask(id int64, text string) Task {
	return Task{
		ID:        id,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	return t.ID > 0 && t.Text != ""
}

// IsDue returns true if the task has a due time at or before now and is still pending.
func (t Task) IsDue(now time.Time) bool {
	return t.DueAt != nil && !t.Completed && !now.Before(*t.DueAt)
}

// String returns the task text for display purposes.
func (t Task) String() string {
	return t.Text
}
