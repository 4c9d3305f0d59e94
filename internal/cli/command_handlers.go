package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"taskdeck/internal/backup"
	"taskdeck/internal/domain"
	"taskdeck/internal/errors"
)

// AddCommand creates a new task at the top of the list.
type AddCommand struct {
	app *App
	out io.Writer
}

// NewAddCommand creates an add command handler.
func NewAddCommand(app *App, out io.Writer) *AddCommand {
	return &AddCommand{app: app, out: out}
}

// Execute adds the task described by args and the optional category/due flags.
func (c *AddCommand) Execute(ctx context.Context, args []string, category string, due time.Duration) error {
	if _, err := c.app.Context.Open(ctx); err != nil {
		return err
	}

	text := strings.Join(args, " ")
	task, err := c.app.Context.Tasks().Add(ctx, text)
	if err != nil {
		return err
	}

	// Category and due date ride on top of the created task via import of
	// the amended list, keeping Add itself minimal.
	if category != "" || due > 0 {
		list := c.app.Context.Tasks().Tasks()
		if i := list.Find(task.ID); i >= 0 {
			list[i].Category = category
			if due > 0 {
				at := time.Now().Add(due)
				list[i].DueAt = &at
			}
			if err := c.app.Context.Tasks().ImportAll(ctx, list); err != nil {
				return err
			}
			task = &list[i]
		}
	}

	fmt.Fprintf(c.out, "Added task %d: %s\n", task.ID, task.Text)
	return nil
}

// ListCommand prints the task list with progress and streak.
type ListCommand struct {
	app *App
	out io.Writer
}

// NewListCommand creates a list command handler.
func NewListCommand(app *App, out io.Writer) *ListCommand {
	return &ListCommand{app: app, out: out}
}

// Execute lists tasks matching the optional search query and category.
func (c *ListCommand) Execute(ctx context.Context, query string, category string) error {
	if _, err := c.app.Context.Open(ctx); err != nil {
		return err
	}

	list := c.app.Context.Tasks().Filter(query, category)
	if len(list) == 0 {
		fmt.Fprintln(c.out, "No tasks found. Add one with 'td add'.")
		return nil
	}

	for _, task := range list {
		mark := " "
		if task.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %d  %s", mark, task.ID, task.Text)
		if task.Category != "" {
			line += fmt.Sprintf("  (%s)", task.Category)
		}
		if task.DueAt != nil {
			line += fmt.Sprintf("  due %s", task.DueAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(c.out, line)
	}

	streak, err := c.app.Context.Streak(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "\n%d%% done, streak %d\n", c.app.Context.Tasks().Progress(), streak.Count)
	return nil
}

// DoneCommand toggles a task's completed flag.
type DoneCommand struct {
	app *App
	out io.Writer
}

// NewDoneCommand creates a done command handler.
func NewDoneCommand(app *App, out io.Writer) *DoneCommand {
	return &DoneCommand{app: app, out: out}
}

// Execute toggles the task named by the id argument.
func (c *DoneCommand) Execute(ctx context.Context, idArg string) error {
	id, err := parseTaskID(idArg)
	if err != nil {
		return err
	}

	if _, err := c.app.Context.Open(ctx); err != nil {
		return err
	}

	task, err := c.app.Context.Tasks().Toggle(ctx, id)
	if err != nil {
		return err
	}

	if task.Completed {
		fmt.Fprintf(c.out, "Completed: %s\n", task.Text)
	} else {
		fmt.Fprintf(c.out, "Reopened: %s\n", task.Text)
	}
	return nil
}

// RemoveCommand deletes a task.
type RemoveCommand struct {
	app *App
	out io.Writer
}

// NewRemoveCommand creates a remove command handler.
func NewRemoveCommand(app *App, out io.Writer) *RemoveCommand {
	return &RemoveCommand{app: app, out: out}
}

// Execute deletes the task named by the id argument. Removing an id that is
// already gone is a quiet no-op.
func (c *RemoveCommand) Execute(ctx context.Context, idArg string) error {
	id, err := parseTaskID(idArg)
	if err != nil {
		return err
	}

	if _, err := c.app.Context.Open(ctx); err != nil {
		return err
	}

	if err := c.app.Context.Tasks().Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Removed task %d\n", id)
	return nil
}

// MoveCommand repositions a task in the manual order.
type MoveCommand struct {
	app *App
	out io.Writer
}

// NewMoveCommand creates a move command handler.
func NewMoveCommand(app *App, out io.Writer) *MoveCommand {
	return &MoveCommand{app: app, out: out}
}

// Execute moves the task to the given 1-based position and commits the
// resulting order.
func (c *MoveCommand) Execute(ctx context.Context, idArg string, positionArg string) error {
	id, err := parseTaskID(idArg)
	if err != nil {
		return err
	}
	position, err := strconv.Atoi(positionArg)
	if err != nil || position < 1 {
		return errors.NewValidationError("position must be a positive integer", err)
	}

	list, err := c.app.Context.Open(ctx)
	if err != nil {
		return err
	}

	i := list.Find(id)
	if i < 0 {
		return errors.NewNotFoundError("task", idArg)
	}

	ids := make([]int64, 0, len(list))
	for _, t := range list {
		if t.ID != id {
			ids = append(ids, t.ID)
		}
	}
	if position > len(list) {
		position = len(list)
	}
	ids = append(ids[:position-1], append([]int64{id}, ids[position-1:]...)...)

	if err := c.app.Context.Tasks().Reorder(ctx, ids); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Moved task %d to position %d\n", id, position)
	return nil
}

// parseTaskID parses an id argument.
func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("task id must be a positive integer", err)
	}
	return id, nil
}

// ExportCommand writes the task list to a date-stamped JSON file.
type ExportCommand struct {
	app *App
	out io.Writer
}

// NewExportCommand creates an export command handler.
func NewExportCommand(app *App, out io.Writer) *ExportCommand {
	return &ExportCommand{app: app, out: out}
}

// Execute exports into dir.
func (c *ExportCommand) Execute(ctx context.Context, dir string) error {
	list, err := c.app.Context.Open(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(c.out, "No tasks to export.")
		return nil
	}

	path, err := backup.ExportToFile(dir, list, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Exported %d task(s) to %s\n", len(list), path)
	return nil
}

// ImportCommand replaces the task list from an export file.
type ImportCommand struct {
	app *App
	out io.Writer
}

// NewImportCommand creates an import command handler.
func NewImportCommand(app *App, out io.Writer) *ImportCommand {
	return &ImportCommand{app: app, out: out}
}

// Execute parses the file and atomically replaces the persisted list.
func (c *ImportCommand) Execute(ctx context.Context, path string) error {
	tasks, err := backup.ImportFile(path)
	if err != nil {
		return err
	}

	if _, err := c.app.Context.Open(ctx); err != nil {
		return err
	}

	if err := c.app.Context.Tasks().ImportAll(ctx, tasks); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Imported %d task(s)\n", len(tasks))
	return nil
}

// StreakCommand prints the current completion streak.
type StreakCommand struct {
	app *App
	out io.Writer
}

// NewStreakCommand creates a streak command handler.
func NewStreakCommand(app *App, out io.Writer) *StreakCommand {
	return &StreakCommand{app: app, out: out}
}

// Execute prints the streak count and last credited day.
func (c *StreakCommand) Execute(ctx context.Context) error {
	streak, err := c.app.Context.Streak(ctx)
	if err != nil {
		return err
	}

	if streak.Count == 0 {
		fmt.Fprintln(c.out, "No streak yet. Complete every task today to start one.")
		return nil
	}
	fmt.Fprintf(c.out, "Streak: %d day(s), last credited %s\n", streak.Count, streak.LastCompletedDate)
	return nil
}

// ThemeCommand shows, sets, or toggles the theme preference.
type ThemeCommand struct {
	app *App
	out io.Writer
}

// NewThemeCommand creates a theme command handler.
func NewThemeCommand(app *App, out io.Writer) *ThemeCommand {
	return &ThemeCommand{app: app, out: out}
}

// Execute sets the theme when arg is "light" or "dark", toggles when arg is
// empty.
func (c *ThemeCommand) Execute(ctx context.Context, arg string) error {
	var theme domain.Theme
	var err error

	switch arg {
	case "":
		theme, err = c.app.Context.ToggleTheme(ctx)
	case string(domain.ThemeLight), string(domain.ThemeDark):
		theme = domain.Theme(arg)
		err = c.app.Context.SetTheme(ctx, theme)
	default:
		return errors.NewValidationError(`theme must be "light" or "dark"`, nil)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Theme: %s\n", theme)
	return nil
}
