package cli

import (
	goerrors "errors"
	"fmt"
	"io"

	"taskdeck/internal/errors"
	"taskdeck/internal/logging"
)

// handledError marks an error whose user-facing message was already printed.
type handledError struct {
	err error
}

func (h *handledError) Error() string {
	return h.err.Error()
}

func (h *handledError) Unwrap() error {
	return h.err
}

// IsHandled reports whether the error was already reported to the user.
func IsHandled(err error) bool {
	var h *handledError
	return goerrors.As(err, &h)
}

// HandleError reports err on the given surface as a user-visible status
// message and returns a marked error so the process exits non-zero without
// printing twice. Validation and not-found failures never mutated state;
// store failures left the list at the last successfully persisted value and
// the message prompts a retry.
func HandleError(err error, out io.Writer) error {
	if err == nil {
		return nil
	}

	fmt.Fprintln(out, errors.GetUserMessage(err))

	if errors.ShouldLogError(err) {
		logging.Debugf("error detail: %v\n", err)
	}

	return &handledError{err: err}
}
