// Package app wires the pieces owned by one UI context: a task store over
// the shared persisted state, a syncer stamping its broadcasts, and a bus
// subscription that keeps the in-memory cache fresh while other contexts
// mutate the list. Contexts share nothing but the store and the bus.
package app

import (
	"context"

	"taskdeck/internal/badge"
	"taskdeck/internal/bus"
	"taskdeck/internal/domain"
	"taskdeck/internal/logging"
	"taskdeck/internal/storage"
	synccore "taskdeck/internal/sync"
	"taskdeck/internal/tasks"
)

// Context is one independently running UI surface (popup, options page,
// background worker). Each holds its own in-memory task cache; the
// persisted store is the single source of truth.
type Context struct {
	name    string
	storage storage.Store
	bus     *bus.Bus
	syncer  *synccore.Syncer
	store   *tasks.Store
	sub     *bus.Subscription
	done    chan struct{}
}

// NewContext creates a context named after its UI surface. textMaxLength
// bounds task text; zero selects the default limit.
func NewContext(name string, st storage.Store, b *bus.Bus, renderer badge.Renderer, textMaxLength int) *Context {
	syncer := synccore.New(st, b, renderer)
	return &Context{
		name:    name,
		storage: st,
		bus:     b,
		syncer:  syncer,
		store:   tasks.NewStore(st, syncer, textMaxLength),
	}
}

// Name returns the surface name.
func (c *Context) Name() string {
	return c.name
}

// Tasks returns this context's task store.
func (c *Context) Tasks() *tasks.Store {
	return c.store
}

// Syncer returns this context's change propagator.
func (c *Context) Syncer() *synccore.Syncer {
	return c.syncer
}

// Open loads persisted state into the cache and begins listening for
// broadcasts from other contexts so the cache refreshes without re-reading
// the store. Reopening replaces the previous subscription.
func (c *Context) Open(ctx context.Context) (domain.TaskList, error) {
	c.Close()

	list, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	c.sub = c.bus.Subscribe(bus.TopicTasksChanged)
	c.done = make(chan struct{})
	go c.listen(c.sub, c.done)

	return list, nil
}

// listen refreshes the cache from broadcasts published by other contexts.
// Own broadcasts are skipped; the cache was already updated by the mutation.
func (c *Context) listen(sub *bus.Subscription, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-sub.Ch():
			if !ok {
				return
			}
			change, ok := event.Payload.(bus.TasksChangedEvent)
			if !ok || change.Origin == c.syncer.Origin() {
				continue
			}
			logging.Debugf("%s: refreshing cache from broadcast\n", c.name)
			c.store.Refresh(change.Tasks)
		}
	}
}

// Close tears the context down. Contexts that are closed receive no
// broadcasts and will load fresh state on next open.
func (c *Context) Close() {
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
	if c.sub != nil {
		c.bus.Unsubscribe(c.sub)
		c.sub = nil
	}
}

// Theme reads the persisted theme preference, defaulting to light.
func (c *Context) Theme(ctx context.Context) (domain.Theme, error) {
	var theme domain.Theme
	found, err := storage.GetJSON(ctx, c.storage, storage.KeyTheme, &theme)
	if err != nil {
		return "", err
	}
	if !found || !theme.IsValid() {
		return domain.ThemeLight, nil
	}
	return theme, nil
}

// SetTheme persists the theme preference.
func (c *Context) SetTheme(ctx context.Context, theme domain.Theme) error {
	return storage.SetJSON(ctx, c.storage, storage.KeyTheme, theme)
}

// ToggleTheme flips the persisted theme and returns the new value.
func (c *Context) ToggleTheme(ctx context.Context) (domain.Theme, error) {
	theme, err := c.Theme(ctx)
	if err != nil {
		return "", err
	}
	next := theme.Toggle()
	if err := c.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

// Streak reads the persisted streak record, absent until the first
// qualifying day.
func (c *Context) Streak(ctx context.Context) (domain.Streak, error) {
	var s domain.Streak
	if _, err := storage.GetJSON(ctx, c.storage, storage.KeyStreak, &s); err != nil {
		return domain.Streak{}, err
	}
	return s, nil
}
