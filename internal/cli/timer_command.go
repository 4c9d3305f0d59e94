package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"taskdeck/internal/bus"
	"taskdeck/internal/timer"
)

// TimerCommand runs a focus session in the foreground. The timer is bound
// to this invocation's context and is never persisted.
type TimerCommand struct {
	app *App
	out io.Writer
}

// NewTimerCommand creates a timer command handler.
func NewTimerCommand(app *App, out io.Writer) *TimerCommand {
	return &TimerCommand{app: app, out: out}
}

// Execute counts down for the given duration, printing the remaining time
// once per second. Interrupting the command cancels the tick handle.
func (c *TimerCommand) Execute(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		duration = c.app.Config.Timer.Duration
	}

	finished := c.app.Bus.Subscribe(bus.TopicTimerFinished)
	defer c.app.Bus.Unsubscribe(finished)

	t := timer.NewWithDuration(c.app.Bus, c.app.Notify, duration)
	t.Start()
	defer t.Reset()

	display := time.NewTicker(time.Second)
	defer display.Stop()

	fmt.Fprintf(c.out, "Focus session started (%s)\n", t.Display())
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out, "\nSession cancelled.")
			return nil
		case <-finished.Ch():
			fmt.Fprintln(c.out, "\nSession complete.")
			return nil
		case <-display.C:
			fmt.Fprintf(c.out, "\r%s", t.Display())
		}
	}
}
