// Package sync propagates task-list mutations to the persisted store's
// observers: the badge counter, the streak tracker, and every other live
// context. Both its entry points are idempotent so the direct-write path and
// the storage-change path can fire for the same logical change in any order.
package sync

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/badge"
	"taskdeck/internal/bus"
	"taskdeck/internal/domain"
	"taskdeck/internal/logging"
	"taskdeck/internal/storage"
	"taskdeck/internal/streak"
)

// Syncer fans a task-list change out to the badge renderer, the streak
// record, and the broadcast bus.
type Syncer struct {
	origin  string
	storage storage.Store
	bus     *bus.Bus
	badge   badge.Renderer
	now     func() time.Time
}

// New creates a Syncer. Each Syncer carries a unique origin id so contexts
// can recognize their own broadcasts.
func New(st storage.Store, b *bus.Bus, renderer badge.Renderer) *Syncer {
	if renderer == nil {
		renderer = badge.Discard
	}
	return &Syncer{
		origin:  uuid.NewString(),
		storage: st,
		bus:     b,
		badge:   renderer,
		now:     time.Now,
	}
}

// Origin returns the id stamped on broadcasts from this syncer.
func (s *Syncer) Origin() string {
	return s.origin
}

// TasksChanged runs the full propagation for a list the caller has already
// persisted: badge recompute, streak evaluation, and a broadcast carrying
// the new list so other live contexts can refresh without re-reading.
func (s *Syncer) TasksChanged(ctx context.Context, tasks domain.TaskList) error {
	s.updateBadge(tasks)

	if err := s.updateStreak(ctx, tasks); err != nil {
		return err
	}

	s.bus.Publish(bus.TopicTasksChanged, bus.TasksChangedEvent{
		Origin: s.origin,
		Tasks:  tasks,
	})
	return nil
}

// Run consumes store change notifications until ctx is done. This is the
// secondary, store-driven path: it fires even for writes that originated
// outside the running UI (an import by another process, for example) and
// re-runs badge and streak so they stay correct regardless of write origin.
// It deliberately does not re-broadcast, since the store notification
// already reached every in-process watcher.
func (s *Syncer) Run(ctx context.Context) {
	changes := make(chan domain.TaskList, 16)

	cancel := s.storage.Watch(func(cs []storage.Change) {
		for _, c := range cs {
			if c.Key != storage.KeyTasks {
				continue
			}
			var tasks domain.TaskList
			if c.Value != nil {
				if err := json.Unmarshal(c.Value, &tasks); err != nil {
					logging.Debugf("sync: malformed tasks value in store: %v\n", err)
					continue
				}
			}
			// Never block the writer's notification path.
			select {
			case changes <- tasks:
			default:
			}
		}
	})
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case tasks := <-changes:
			s.updateBadge(tasks)
			if err := s.updateStreak(ctx, tasks); err != nil {
				logging.Debugf("sync: streak update failed: %v\n", err)
			}
		}
	}
}

// updateBadge recomputes the pending count and hands it to the renderer.
// Safe to invoke redundantly.
func (s *Syncer) updateBadge(tasks domain.TaskList) {
	pending := tasks.PendingCount()
	s.badge.RenderBadge(badge.Text(pending), badge.AccentColor)
	s.bus.Publish(bus.TopicBadgeUpdate, bus.BadgeUpdateEvent{Pending: pending})
}

// updateStreak evaluates the streak against the given list and persists the
// result only when it actually changed.
func (s *Syncer) updateStreak(ctx context.Context, tasks domain.TaskList) error {
	var prev domain.Streak
	if _, err := storage.GetJSON(ctx, s.storage, storage.KeyStreak, &prev); err != nil {
		return err
	}

	next := streak.Evaluate(tasks, prev, s.now())
	if next == prev {
		return nil
	}

	logging.Debugf("sync: streak %d (%s) -> %d (%s)\n",
		prev.Count, prev.LastCompletedDate, next.Count, next.LastCompletedDate)
	return storage.SetJSON(ctx, s.storage, storage.KeyStreak, next)
}
