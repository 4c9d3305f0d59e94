// Package notify defines the system-notification collaborator used for
// due-task alarms and focus timer completion.
package notify

import (
	"fmt"
	"io"
)

// Notifier displays a notification to the user.
type Notifier interface {
	Notify(title string, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(title string, message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(title string, message string) {
	f(title, message)
}

// Discard is a Notifier that does nothing.
var Discard Notifier = NotifierFunc(func(string, string) {})

// Console writes notifications to a writer; the CLI uses it in place of a
// system notification service.
type Console struct {
	Out io.Writer
}

// NewConsole creates a console notifier.
func NewConsole(out io.Writer) *Console {
	return &Console{Out: out}
}

// Notify implements Notifier.
func (c *Console) Notify(title string, message string) {
	fmt.Fprintf(c.Out, "[%s] %s\n", title, message)
}
