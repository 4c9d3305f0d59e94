package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"taskdeck/internal/app"
	"taskdeck/internal/badge"
	"taskdeck/internal/notify"
)

// BackgroundCommand runs the long-lived background worker: the store-driven
// sync path, the external-write watcher, and the alarm sweeps.
type BackgroundCommand struct {
	app *App
	out io.Writer
}

// NewBackgroundCommand creates a background command handler.
func NewBackgroundCommand(a *App, out io.Writer) *BackgroundCommand {
	return &BackgroundCommand{app: a, out: out}
}

// Execute blocks until ctx is cancelled.
func (c *BackgroundCommand) Execute(ctx context.Context) error {
	renderer := badge.RendererFunc(func(text, color string) {
		if text == "" {
			text = "(empty)"
		}
		fmt.Fprintf(c.out, "badge %s %s\n", text, color)
	})

	worker := app.NewBackground(c.app.Store, c.app.Bus, renderer, notify.NewConsole(os.Stdout),
		c.app.Config.Validation.TextMaxLength)
	fmt.Fprintln(c.out, "Background worker running. Press Ctrl-C to stop.")
	return worker.Run(ctx)
}
