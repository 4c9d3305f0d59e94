package app

import (
	"context"

	"taskdeck/internal/alarm"
	"taskdeck/internal/badge"
	"taskdeck/internal/bus"
	"taskdeck/internal/notify"
	"taskdeck/internal/storage"
)

// Background is the long-lived worker context. Besides the usual cache, it
// runs the store-driven sync path (badge and streak stay correct for writes
// of any origin), the external-write watcher, and the alarm sweeps.
type Background struct {
	*Context
	scheduler *alarm.Scheduler
	watcher   *storage.ExternalWatcher
}

// NewBackground creates the background worker context.
func NewBackground(st storage.Store, b *bus.Bus, renderer badge.Renderer, notifier notify.Notifier, textMaxLength int) *Background {
	bg := &Background{
		Context:   NewContext("background", st, b, renderer, textMaxLength),
		scheduler: alarm.NewScheduler(st, b, notifier),
	}
	if sqlStore, ok := st.(*storage.SQLiteStore); ok {
		bg.watcher = storage.NewExternalWatcher(sqlStore)
	}
	return bg
}

// Run opens the context and blocks servicing sync and alarms until ctx is
// done.
func (bg *Background) Run(ctx context.Context) error {
	if _, err := bg.Open(ctx); err != nil {
		return err
	}
	defer bg.Close()

	if err := bg.scheduler.Start(ctx); err != nil {
		return err
	}

	if bg.watcher != nil {
		go func() {
			_ = bg.watcher.Start(ctx)
		}()
	}

	bg.Syncer().Run(ctx)
	return nil
}
