package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/errors"
)

// stderrTail is how many trailing stderr lines of a failed command are
// echoed back.
const stderrTail = 10

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates an error handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message for err based on its error code and returns err
// unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	w := h.Out
	if w == nil {
		w = os.Stderr
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(w, "❌ Configuration not found. Create a seedee.yml or pass --config.\n")

	case errors.ErrCodeMissingParameter:
		fmt.Fprintf(w, "❌ %v\n", err)
		if se, ok := errors.AsSeedeeError(err); ok {
			if field, ok := se.Details["field"]; ok {
				fmt.Fprintf(w, "Set '%v' in seedee.yml or on the command line.\n", field)
			}
		}

	case errors.ErrCodeCommandFailed:
		fmt.Fprintf(w, "❌ %v\n", err)
		printStderrTail(w, err)

	case errors.ErrCodeCommandSignaled:
		fmt.Fprintf(w, "❌ Command was interrupted: %v\n", err)

	case errors.ErrCodeCommandNotFound:
		fmt.Fprintf(w, "❌ Command not found: %v\n", err)
		fmt.Fprintf(w, "Make sure Xcode command line tools and any tools your steps call are installed and on PATH.\n")

	case errors.ErrCodeCommandLaunch:
		fmt.Fprintf(w, "❌ %v\n", err)
		fmt.Fprintf(w, "Make sure Xcode command line tools are installed and on PATH.\n")

	case errors.ErrCodeCleanupFailed:
		fmt.Fprintf(w, "❌ %v\n", err)
		fmt.Fprintf(w, "Temporary files may have been left behind.\n")

	default:
		fmt.Fprintf(w, "❌ Error: %v\n", err)
	}

	if h.Verbose {
		if se, ok := errors.AsSeedeeError(err); ok {
			fmt.Fprintf(w, "\nError details:\n%s\n", se.ToJSON())
		}
	}
	return err
}

func printStderrTail(w io.Writer, err error) {
	var exitErr *command.ExitError
	if stderrors.As(err, &exitErr) {
		if tail := lastLines(exitErr.ErrorOutput(), stderrTail); tail != "" {
			fmt.Fprintf(w, "\n%s\n", tail)
		}
	}
}

// ExitCode maps err to a process exit status. A failing child command's
// own status is passed through.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *command.ExitError
	if stderrors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	if errors.GetCode(err) == errors.ErrCodeCommandSignaled {
		return 130
	}
	return 1
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
