package cli

import (
	"fmt"
	"os"

	"taskdeck/internal/app"
	"taskdeck/internal/badge"
	"taskdeck/internal/bus"
	"taskdeck/internal/config"
	"taskdeck/internal/notify"
	"taskdeck/internal/storage"
)

// App holds the pieces a CLI invocation needs: the shared store, the bus,
// and a popup-style context through which commands mutate tasks.
type App struct {
	Config  *config.Config
	Store   storage.Store
	Bus     *bus.Bus
	Context *app.Context
	Notify  notify.Notifier

	ownsStore bool
}

// NewApp opens the configured file-backed store and a popup context over it.
func NewApp(cfg *config.Config) (*App, error) {
	store, err := config.CreateStore(cfg)
	if err != nil {
		return nil, err
	}

	a := NewAppWithStore(cfg, store)
	a.ownsStore = true
	return a, nil
}

// NewAppWithStore builds an App over an existing store. Tests use it with an
// in-memory store.
func NewAppWithStore(cfg *config.Config, store storage.Store) *App {
	b := bus.New()
	renderer := badge.Discard
	if cfg.Application.Verbose {
		renderer = badge.RendererFunc(func(text, color string) {
			if text == "" {
				text = "(empty)"
			}
			fmt.Fprintf(os.Stderr, "badge %s %s\n", text, color)
		})
	}

	return &App{
		Config:  cfg,
		Store:   store,
		Bus:     b,
		Context: app.NewContext("popup", store, b, renderer, cfg.Validation.TextMaxLength),
		Notify:  notify.NewConsole(os.Stdout),
	}
}

// Close releases the app's resources.
func (a *App) Close() {
	a.Context.Close()
	if a.ownsStore {
		a.Store.Close()
	}
}
