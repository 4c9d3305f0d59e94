// Package alarm runs the background context's scheduled sweeps: due-task
// notifications and a daily streak re-evaluation.
package alarm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"taskdeck/internal/bus"
	"taskdeck/internal/domain"
	"taskdeck/internal/logging"
	"taskdeck/internal/notify"
	"taskdeck/internal/storage"
	"taskdeck/internal/streak"
)

// Scheduler periodically scans the persisted task list for due tasks and
// keeps the streak record fresh across day boundaries.
type Scheduler struct {
	storage  storage.Store
	bus      *bus.Bus
	notifier notify.Notifier
	cron     *cron.Cron
	now      func() time.Time

	mu       sync.Mutex
	notified map[int64]bool
}

// NewScheduler creates a scheduler over the shared store.
func NewScheduler(st storage.Store, b *bus.Bus, notifier notify.Notifier) *Scheduler {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Scheduler{
		storage:  st,
		bus:      b,
		notifier: notifier,
		cron:     cron.New(cron.WithLocation(time.UTC)),
		now:      time.Now,
		notified: make(map[int64]bool),
	}
}

// Start registers the sweeps and begins running them. The due sweep runs
// every minute; the streak sweep runs at midnight UTC so a day where all
// tasks stayed completed gets credited even if no mutation happens.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc("@every 1m", func() { s.SweepDue(ctx) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 * * *", func() { s.SweepStreak(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	go func() {
		<-ctx.Done()
		s.cron.Stop()
	}()
	return nil
}

// SweepDue notifies once for every pending task whose due time has passed.
// A task that stops being due (completed, deleted, or its due time moved)
// is forgotten, so it notifies again if it later becomes due once more.
func (s *Scheduler) SweepDue(ctx context.Context) {
	var tasks domain.TaskList
	if _, err := storage.GetJSON(ctx, s.storage, storage.KeyTasks, &tasks); err != nil {
		logging.Debugf("alarm: due sweep read failed: %v\n", err)
		return
	}

	now := s.now()
	due := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		if t.IsDue(now) {
			due[t.ID] = true
		}
	}

	s.mu.Lock()
	for id := range s.notified {
		if !due[id] {
			delete(s.notified, id)
		}
	}
	s.mu.Unlock()

	for _, t := range tasks {
		if !due[t.ID] {
			continue
		}

		s.mu.Lock()
		seen := s.notified[t.ID]
		s.notified[t.ID] = true
		s.mu.Unlock()
		if seen {
			continue
		}

		s.notifier.Notify("Task Due!", fmt.Sprintf("Your task %q is due now.", t.Text))
		if s.bus != nil {
			s.bus.Publish(bus.TopicTaskDue, bus.TaskDueEvent{Task: t})
		}
	}
}

// SweepStreak re-evaluates the streak against the persisted list and saves
// the result if it changed. Idempotent by construction.
func (s *Scheduler) SweepStreak(ctx context.Context) {
	var tasks domain.TaskList
	if _, err := storage.GetJSON(ctx, s.storage, storage.KeyTasks, &tasks); err != nil {
		logging.Debugf("alarm: streak sweep read failed: %v\n", err)
		return
	}

	var prev domain.Streak
	if _, err := storage.GetJSON(ctx, s.storage, storage.KeyStreak, &prev); err != nil {
		logging.Debugf("alarm: streak sweep read failed: %v\n", err)
		return
	}

	next := streak.Evaluate(tasks, prev, s.now())
	if next == prev {
		return
	}
	if err := storage.SetJSON(ctx, s.storage, storage.KeyStreak, next); err != nil {
		logging.Debugf("alarm: streak sweep write failed: %v\n", err)
	}
}
