package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"taskdeck/internal/config"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	config *config.Config
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(cfg *config.Config) *RootCommand {
	root := &RootCommand{
		config: cfg,
	}

	root.cmd = &cobra.Command{
		Use:   "td",
		Short: "A personal task tracker with streaks and a focus timer",
		Long: `taskdeck (td) keeps a shared task list with completion streaks, a
pending-task badge, and a countdown focus timer. Several invocations (and the
background worker) share one persisted store and stay in sync through it.

EXAMPLES:
  td add "Write the report"                # Add a task to the top of the list
  td add "Call Sam" --category work        # Add with a category
  td list                                  # Show tasks, progress and streak
  td list report                           # Filter by search text
  td done 1718000000000                    # Toggle a task by id
  td move 1718000000000 1                  # Move a task to the top
  td export --dir ~/backups                # Export tasks as JSON
  td import tasks-backup-2026-08-29.json   # Replace the list from a backup
  td timer --duration 25m                  # Run a focus session
  td background                            # Run the badge/streak worker

CONFIGURATION:
  Priority order: command-line flags > environment variables > config.yaml > defaults

    TD_STORE_DIR                 Store directory (default: ~/.taskdeck)
    TD_STORE_FILENAME            Store filename (default: taskdeck.db)
    TD_TIMER_DURATION            Focus session length (default: 25m)
    TD_VALIDATION_TEXT_MAX       Max task text length (default: 500)
    TD_APP_TIMEOUT               Command timeout (default: 60s)
    TD_APP_VERBOSE               Verbose output (default: false)
    TD_DEBUG                     Enable debug logging`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.getConfigFromFlags()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("store-dir", "", "Store directory (overrides TD_STORE_DIR)")
	flags.String("store-filename", "", "Store filename (overrides TD_STORE_FILENAME)")
	flags.Duration("app-timeout", 0, "Command timeout (overrides TD_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TD_APP_VERBOSE)")
}

// getConfigFromFlags updates the configuration with values from command-line flags
func (r *RootCommand) getConfigFromFlags() error {
	flags := r.cmd.PersistentFlags()

	if storeDir, _ := flags.GetString("store-dir"); storeDir != "" {
		r.config.Storage.Dir = storeDir
	}
	if storeFilename, _ := flags.GetString("store-filename"); storeFilename != "" {
		r.config.Storage.Filename = storeFilename
	}
	if appTimeout, _ := flags.GetDuration("app-timeout"); appTimeout > 0 {
		r.config.Application.Timeout = appTimeout
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		r.config.Application.Verbose = verbose
	}

	return r.config.Validate()
}

// withApp opens the store, runs fn against a fresh App, and cleans up.
func (r *RootCommand) withApp(fn func(ctx context.Context, a *App) error) error {
	a, err := NewApp(r.config)
	if err != nil {
		return HandleError(err, os.Stderr)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Application.Timeout)
	defer cancel()

	return HandleError(fn(ctx, a), os.Stderr)
}

// withAppNoTimeout is withApp without a deadline, for long-running commands.
func (r *RootCommand) withAppNoTimeout(fn func(ctx context.Context, a *App) error) error {
	a, err := NewApp(r.config)
	if err != nil {
		return HandleError(err, os.Stderr)
	}
	defer a.Close()

	return HandleError(fn(context.Background(), a), os.Stderr)
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	var addCategory string
	var addDue time.Duration
	addCmd := &cobra.Command{
		Use:   "add [task text]",
		Short: "Add a task to the top of the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(ctx context.Context, a *App) error {
				return NewAddCommand(a, cmd.OutOrStdout()).Execute(ctx, args, addCategory, addDue)
			})
		},
	}
	addCmd.Flags().StringVar(&addCategory, "category", "", "Task category")
	addCmd.Flags().DurationVar(&addDue, "due", 0, "Due in the given duration (e.g. 2h)")

	var listCategory string
	listCmd := &cobra.Command{
		Use:   "list [search]",
		Short: "List tasks with progress and streak",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			return r.withApp(func(ctx context.Context, a *App) error {
				return NewListCommand(a, cmd.OutOrStdout()).Execute(ctx, query, listCategory)
			})
		},
	}
	listCmd.Flags().StringVar(&listCategory, "category", "all", "Category filter (\"all\" matches everything)")

	doneCmd := &cobra.Command{
		Use:   "done [id]",
		Short: "Toggle a task's completed state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(ctx context.Context, a *App) error {
				return NewDoneCommand(a, cmd.OutOrStdout()).Execute(ctx, args[0])
			})
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Remove a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(ctx context.Context, a *App) error {
				return NewRemoveCommand(a, cmd.OutOrStdout()).Execute(ctx, args[0])
			})
		},
	}

	moveCmd := &cobra.Command{
		Use:   "move [id] [position]",
		Short: "Move a task to a new position (1 = top)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(ctx context.Context, a *App) error {
				return NewMoveCommand(a, cmd.OutOrStdout()).Execute(ctx, args[0], args[1])
			})
		},
	}

	var exportDir string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks to a date-stamped JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(ctx context.Context, a *App) error {
				return NewExportCommand(a, cmd.OutOrStdout()).Execute(ctx, exportDir)
			})
		},
	}
	exportCmd.Flags().StringVar(&exportDir, "dir", ".", "Directory to write the export into")

	importCmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the task list from an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(ctx context.Context, a *App) error {
				return NewImportCommand(a, cmd.OutOrStdout()).Execute(ctx, args[0])
			})
		},
	}

	streakCmd := &cobra.Command{
		Use:   "streak",
		Short: "Show the daily completion streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(ctx context.Context, a *App) error {
				return NewStreakCommand(a, cmd.OutOrStdout()).Execute(ctx)
			})
		},
	}

	themeCmd := &cobra.Command{
		Use:   "theme [light|dark]",
		Short: "Show or toggle the theme preference",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			return r.withApp(func(ctx context.Context, a *App) error {
				return NewThemeCommand(a, cmd.OutOrStdout()).Execute(ctx, arg)
			})
		},
	}

	var timerDuration time.Duration
	timerCmd := &cobra.Command{
		Use:   "timer",
		Short: "Run a focus session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withAppNoTimeout(func(ctx context.Context, a *App) error {
				return NewTimerCommand(a, cmd.OutOrStdout()).Execute(ctx, timerDuration)
			})
		},
	}
	timerCmd.Flags().DurationVar(&timerDuration, "duration", 0, "Session length (default from config, 25m)")

	backgroundCmd := &cobra.Command{
		Use:   "background",
		Short: "Run the badge/streak background worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withAppNoTimeout(func(ctx context.Context, a *App) error {
				return NewBackgroundCommand(a, cmd.OutOrStdout()).Execute(ctx)
			})
		},
	}

	r.cmd.AddCommand(
		addCmd,
		listCmd,
		doneCmd,
		rmCmd,
		moveCmd,
		exportCmd,
		importCmd,
		streakCmd,
		themeCmd,
		timerCmd,
		backgroundCmd,
	)
}
