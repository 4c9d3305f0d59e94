package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"taskdeck/internal/domain"
	"taskdeck/internal/errors"
	"taskdeck/internal/logging"
	"taskdeck/internal/storage"
	"taskdeck/internal/validation"
)

// ChangePublisher is notified with the full resulting task list after every
// successful mutation. CrossContextSync implements it.
type ChangePublisher interface {
	TasksChanged(ctx context.Context, tasks domain.TaskList) error
}

// Store owns the in-memory task list for one UI context. The persisted
// store remains the single source of truth: the in-memory list is a cache,
// refreshed whenever another context announces a change.
//
// Every mutation persists before touching the cache, so a failed write
// leaves the list consistent with the last successfully persisted state.
type Store struct {
	storage   storage.Store
	publisher ChangePublisher

	taskValidator   *validation.TaskValidator
	importValidator *validation.ImportValidator
	idGen           *IDGenerator

	mu    sync.Mutex
	tasks domain.TaskList
}

// NewStore creates a task store over the given persisted store.
// publisher may be nil for read-only consumers. textMaxLength bounds task
// text; zero or negative selects the default limit.
func NewStore(st storage.Store, publisher ChangePublisher, textMaxLength int) *Store {
	return &Store{
		storage:         st,
		publisher:       publisher,
		taskValidator:   validation.NewTaskValidatorWithLimit(textMaxLength),
		importValidator: validation.NewImportValidatorWithLimit(textMaxLength),
		idGen:           NewIDGenerator(),
	}
}

// Load fetches the persisted task list into the cache and returns it.
// An absent key loads as an empty list.
func (s *Store) Load(ctx context.Context) (domain.TaskList, error) {
	var tasks domain.TaskList
	if _, err := storage.GetJSON(ctx, s.storage, storage.KeyTasks, &tasks); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.tasks = tasks
	for _, t := range tasks {
		s.idGen.Observe(t.ID)
	}
	s.mu.Unlock()

	return tasks.Clone(), nil
}

// Tasks returns a copy of the cached list.
func (s *Store) Tasks() domain.TaskList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Clone()
}

// Refresh replaces the cache without persisting. Called when a change
// notification or broadcast carries a list written by another context.
func (s *Store) Refresh(tasks domain.TaskList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks.Clone()
	for _, t := range tasks {
		s.idGen.Observe(t.ID)
	}
}

// Add creates a task from text, prepends it, persists, and returns it.
// Fails with a validation error if text trims to empty.
func (s *Store) Add(ctx context.Context, text string) (*domain.Task, error) {
	cleaned, err := s.taskValidator.GetValidText(text)
	if err != nil {
		return nil, errors.NewValidationError("invalid task text", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := domain.NewTask(s.idGen.Next(), cleaned)
	next := make(domain.TaskList, 0, len(s.tasks)+1)
	next = append(next, task)
	next = append(next, s.tasks...)

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return &task, nil
}

// Toggle flips the completed flag of the task with the given id.
func (s *Store) Toggle(ctx context.Context, id int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.tasks.Find(id)
	if i < 0 {
		return nil, errors.NewNotFoundError("task", fmt.Sprintf("%d", id))
	}

	next := s.tasks.Clone()
	next[i].Completed = !next[i].Completed

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	task := next[i]
	return &task, nil
}

// Delete removes the task with the given id. Deleting an absent id is a
// no-op, not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.tasks.Find(id)
	if i < 0 {
		return nil
	}

	next := make(domain.TaskList, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)

	return s.commit(ctx, next)
}

// Reorder reassigns the sequence order according to orderedIDs, which must
// be exactly a permutation of the current ids.
func (s *Store) Reorder(ctx context.Context, orderedIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !sameIDSet(s.tasks, orderedIDs) {
		return errors.NewValidationError("reorder ids do not match the current task set", nil)
	}

	next := ReorderByIDs(s.tasks, orderedIDs)
	return s.commit(ctx, next)
}

// ImportAll atomically replaces the entire list with the given tasks.
func (s *Store) ImportAll(ctx context.Context, tasks domain.TaskList) error {
	if err := s.importValidator.ValidateTaskSequence(tasks); err != nil {
		return errors.NewValidationError("import payload is not a valid task sequence", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, tasks.Clone())
}

// Filter returns the cached tasks matching the query and category. Matching
// is a case-insensitive substring test on text; category matches exactly,
// with "all" (or empty) matching everything. Pure: nothing is persisted.
func (s *Store) Filter(query string, category string) domain.TaskList {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(query)
	matchAll := category == "" || category == "all"

	result := make(domain.TaskList, 0, len(s.tasks))
	for _, t := range s.tasks {
		if query != "" && !strings.Contains(strings.ToLower(t.Text), query) {
			continue
		}
		if !matchAll && t.Category != "" && t.Category != category {
			continue
		}
		result = append(result, t)
	}
	return result
}

// Progress returns the completion percentage of the cached list.
func (s *Store) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.ProgressPercent()
}

// commit persists next, swaps it into the cache on success, and triggers the
// publisher with the resulting list. Callers must hold s.mu.
//
// A publisher failure is logged, not returned: the mutation itself has
// already committed, and the store-driven sync path re-runs propagation on
// the next change anyway.
func (s *Store) commit(ctx context.Context, next domain.TaskList) error {
	if err := storage.SetJSON(ctx, s.storage, storage.KeyTasks, next); err != nil {
		return err
	}

	s.tasks = next
	for _, t := range next {
		s.idGen.Observe(t.ID)
	}

	if s.publisher != nil {
		if err := s.publisher.TasksChanged(ctx, next.Clone()); err != nil {
			logging.Debugf("tasks: change propagation failed: %v\n", err)
		}
	}
	return nil
}
