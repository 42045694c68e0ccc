package command

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/grovetools/seedee/errors"
)

// ExitError is returned when a command ran to completion with a non-zero
// exit status.
type ExitError struct {
	Args   []string
	Code   int
	Stdout []byte
	Stderr []byte
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command exited with status %d: %s", e.Code, commandLine(e.Args))
	if tail := lastLine(e.ErrorOutput()); tail != "" {
		msg += ": " + tail
	}
	return msg
}

// Output is the captured stdout with one trailing newline removed.
func (e *ExitError) Output() string { return trimNewline(e.Stdout) }

// ErrorOutput is the captured stderr with one trailing newline removed.
func (e *ExitError) ErrorOutput() string { return trimNewline(e.Stderr) }

// ExitNotFound is the status bash exits with when it cannot find the
// command to run.
const ExitNotFound = 127

func (e *ExitError) ErrorCode() errors.ErrorCode {
	if e.Code == ExitNotFound {
		return errors.ErrCodeCommandNotFound
	}
	return errors.ErrCodeCommandFailed
}

// SignalError is returned when the command was terminated by a signal. Err
// holds the context error when the termination came from cancellation.
// Signal is zero when ctx was done before the process started.
type SignalError struct {
	Args   []string
	Signal syscall.Signal
	Stdout []byte
	Stderr []byte
	Err    error
}

func (e *SignalError) Error() string {
	msg := fmt.Sprintf("command terminated by signal %d (%s): %s", int(e.Signal), e.Signal, commandLine(e.Args))
	if e.Signal == 0 {
		msg = "command not started: " + commandLine(e.Args)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SignalError) Unwrap() error { return e.Err }

// Output is the captured stdout with one trailing newline removed.
func (e *SignalError) Output() string { return trimNewline(e.Stdout) }

// ErrorOutput is the captured stderr with one trailing newline removed.
func (e *SignalError) ErrorOutput() string { return trimNewline(e.Stderr) }

func (e *SignalError) ErrorCode() errors.ErrorCode { return errors.ErrCodeCommandSignaled }

// LaunchError is returned when the process could not be started at all.
type LaunchError struct {
	Args []string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("could not start %s: %v", commandLine(e.Args), e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

func (e *LaunchError) ErrorCode() errors.ErrorCode { return errors.ErrCodeCommandLaunch }

func commandLine(args []string) string {
	if len(args) == 0 {
		return "<empty>"
	}
	return args[len(args)-1]
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
