package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/bus"
	"taskdeck/internal/notify"
)

// recordingNotifier captures notifications across goroutines.
type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (r *recordingNotifier) Notify(title string, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.titles)
}

// newManualTimer returns a timer whose tick handle never fires on its own,
// so tests drive Tick deterministically.
func newManualTimer(d time.Duration) (*Timer, *recordingNotifier, *bus.Bus) {
	b := bus.New()
	notifier := &recordingNotifier{}
	tm := NewWithDuration(b, notifier, d)
	tm.interval = time.Hour
	return tm, notifier, b
}

func TestTimer_InitialState(t *testing.T) {
	tm := New(bus.New(), notify.Discard)

	assert.Equal(t, StateIdle, tm.State())
	m, s := tm.Remaining()
	assert.Equal(t, 25, m)
	assert.Equal(t, 0, s)
	assert.Equal(t, "25:00", tm.Display())
}

func TestTimer_TickOnlyWhileRunning(t *testing.T) {
	tm, _, _ := newManualTimer(DefaultDuration)

	tm.Tick()
	m, s := tm.Remaining()
	assert.Equal(t, 25, m, "idle timers must ignore ticks")
	assert.Equal(t, 0, s)

	tm.Start()
	tm.Tick()
	m, s = tm.Remaining()
	assert.Equal(t, 24, m, "ticking 25:00 borrows into 24:59")
	assert.Equal(t, 59, s)

	tm.Pause()
	tm.Tick()
	m, s = tm.Remaining()
	assert.Equal(t, 24, m, "paused timers must ignore ticks")
	assert.Equal(t, 59, s)
}

func TestTimer_PauseKeepsRemaining(t *testing.T) {
	tm, _, _ := newManualTimer(DefaultDuration)

	tm.Start()
	tm.Tick()
	tm.Tick()
	tm.Pause()

	assert.Equal(t, StatePaused, tm.State())
	assert.Equal(t, "24:58", tm.Display())

	// Resuming continues from where it stopped.
	tm.Start()
	tm.Tick()
	assert.Equal(t, "24:57", tm.Display())
}

func TestTimer_StartWhileRunningIsNoOp(t *testing.T) {
	tm, _, _ := newManualTimer(DefaultDuration)

	tm.Start()
	tm.Tick()
	tm.Start()

	assert.Equal(t, StateRunning, tm.State())
	assert.Equal(t, "24:59", tm.Display(), "a second Start must not reset the clock")
}

func TestTimer_Reset(t *testing.T) {
	tm, _, _ := newManualTimer(DefaultDuration)

	tm.Start()
	tm.Tick()
	tm.Reset()

	assert.Equal(t, StateIdle, tm.State())
	assert.Equal(t, "25:00", tm.Display())

	// Reset from paused behaves the same.
	tm.Start()
	tm.Tick()
	tm.Pause()
	tm.Reset()
	assert.Equal(t, StateIdle, tm.State())
	assert.Equal(t, "25:00", tm.Display())
}

func TestTimer_FinishOnLastTick(t *testing.T) {
	tm, notifier, b := newManualTimer(time.Second)
	sub := b.Subscribe(bus.TopicTimerFinished)
	defer b.Unsubscribe(sub)

	tm.Start()
	m, s := tm.Remaining()
	require.Equal(t, 0, m)
	require.Equal(t, 1, s)

	// The tick that reaches 00:00 finishes the session in the same step.
	tm.Tick()

	assert.Equal(t, StateIdle, tm.State(), "finishing auto-resets to idle")
	assert.Equal(t, "00:01", tm.Display(), "the clock returns to the full duration")
	assert.Equal(t, 1, notifier.count())

	select {
	case event := <-sub.Ch():
		assert.Equal(t, bus.TopicTimerFinished, event.Topic)
	default:
		t.Fatal("expected a finished event on the bus")
	}
}

func TestTimer_FinishFiresOnce(t *testing.T) {
	tm, notifier, _ := newManualTimer(time.Second)

	tm.Start()
	tm.Tick()
	tm.Tick()
	tm.Tick()

	assert.Equal(t, 1, notifier.count(), "post-finish ticks land on an idle timer")
}

func TestTimer_MinuteBorrow(t *testing.T) {
	tm, _, _ := newManualTimer(2 * time.Minute)

	tm.Start()
	for i := 0; i < 61; i++ {
		tm.Tick()
	}

	assert.Equal(t, "00:59", tm.Display())
	assert.Equal(t, StateRunning, tm.State())
}

func TestTimer_RunsInRealTime(t *testing.T) {
	b := bus.New()
	notifier := &recordingNotifier{}
	tm := NewWithDuration(b, notifier, 3*time.Second)
	tm.interval = 5 * time.Millisecond

	tm.Start()

	require.Eventually(t, func() bool {
		return tm.State() == StateIdle && notifier.count() == 1
	}, time.Second, 5*time.Millisecond, "the tick handle drives the countdown to completion")
}

func TestTimer_PauseCancelsTickHandle(t *testing.T) {
	b := bus.New()
	tm := NewWithDuration(b, notify.Discard, time.Minute)
	tm.interval = 5 * time.Millisecond

	tm.Start()
	time.Sleep(25 * time.Millisecond)
	tm.Pause()

	_, s := tm.Remaining()
	time.Sleep(50 * time.Millisecond)
	_, after := tm.Remaining()

	assert.Equal(t, s, after, "no ticks may land after Pause")
	assert.Equal(t, StatePaused, tm.State())
}
