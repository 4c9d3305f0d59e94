// Package timer implements the countdown focus timer. Timer state is
// ephemeral and bound to one context; nothing here touches persistence.
package timer

import (
	"fmt"
	"sync"
	"time"

	"taskdeck/internal/bus"
	"taskdeck/internal/notify"
)

// State enumerates the timer's lifecycle states.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
)

// String returns the state name for display.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// DefaultDuration is the fixed focus session length.
const DefaultDuration = 25 * time.Minute

// Timer is a single-context countdown state machine. It holds at most one
// live tick handle at a time: Start while running is a no-op, and Pause and
// Reset always cancel the handle, so duplicate tickers cannot accumulate.
type Timer struct {
	mu       sync.Mutex
	state    State
	minutes  int
	seconds  int
	initial  time.Duration
	interval time.Duration
	stop     chan struct{}

	notifier notify.Notifier
	bus      *bus.Bus
}

// New creates an idle timer at the default 25:00 duration.
func New(b *bus.Bus, notifier notify.Notifier) *Timer {
	return NewWithDuration(b, notifier, DefaultDuration)
}

// NewWithDuration creates an idle timer with a custom session length.
func NewWithDuration(b *bus.Bus, notifier notify.Notifier, d time.Duration) *Timer {
	if notifier == nil {
		notifier = notify.Discard
	}
	t := &Timer{
		initial:  d,
		interval: time.Second,
		notifier: notifier,
		bus:      b,
	}
	t.resetLocked()
	return t
}

// State returns the current lifecycle state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Remaining returns the minutes and seconds left on the clock.
func (t *Timer) Remaining() (minutes int, seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.minutes, t.seconds
}

// Display formats the remaining time as MM:SS.
func (t *Timer) Display() string {
	m, s := t.Remaining()
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Start begins (or resumes) the countdown, scheduling a per-second tick.
// Calling Start while already running is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateRunning {
		return
	}

	t.cancelLocked()
	t.state = StateRunning
	stop := make(chan struct{})
	t.stop = stop
	go t.run(stop)
}

// Pause stops the countdown, keeping the remaining time.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRunning {
		return
	}
	t.cancelLocked()
	t.state = StatePaused
}

// Reset cancels any scheduled tick and returns to idle at the full duration.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.resetLocked()
}

// Tick advances the countdown by one second. It only has an effect while
// running. When the clock reaches 00:00 the completion notification intent
// is emitted and the timer auto-resets to idle at the full duration.
func (t *Timer) Tick() {
	t.mu.Lock()

	if t.state != StateRunning {
		t.mu.Unlock()
		return
	}

	if t.seconds == 0 {
		if t.minutes == 0 {
			// Already at 00:00 while running; finish now.
			t.finishLocked()
			return
		}
		t.minutes--
		t.seconds = 59
	} else {
		t.seconds--
	}

	if t.minutes == 0 && t.seconds == 0 {
		t.finishLocked()
		return
	}

	t.mu.Unlock()
}

// run drives Tick once per interval until the handle is cancelled.
func (t *Timer) run(stop chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}

// finishLocked emits the completion intent and auto-resets. It releases the
// mutex itself so the notification runs outside the lock.
func (t *Timer) finishLocked() {
	t.cancelLocked()
	t.resetLocked()
	b := t.bus
	notifier := t.notifier
	t.mu.Unlock()

	notifier.Notify("Focus session finished!", "Time to take a short break.")
	if b != nil {
		b.Publish(bus.TopicTimerFinished, bus.TimerFinishedEvent{})
	}
}

// cancelLocked tears down the live tick handle, if any.
func (t *Timer) cancelLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// resetLocked restores the idle state at the full duration.
func (t *Timer) resetLocked() {
	t.state = StateIdle
	total := int(t.initial / time.Second)
	t.minutes = total / 60
	t.seconds = total % 60
}
