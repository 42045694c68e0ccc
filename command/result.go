package command

import (
	"bytes"
	"fmt"
	"syscall"
)

// Status is the observed termination of a process: either a normal exit
// with a code, or termination by a signal.
type Status struct {
	Code     int
	Signal   syscall.Signal
	Signaled bool
}

// Exited returns the status of a process that exited with code.
func Exited(code int) Status {
	return Status{Code: code}
}

// Success reports a normal exit with code zero.
func (s Status) Success() bool {
	return !s.Signaled && s.Code == 0
}

func (s Status) String() string {
	if s.Signaled {
		return fmt.Sprintf("signal %s", s.Signal)
	}
	return fmt.Sprintf("exit status %d", s.Code)
}

// Result is the outcome of a process that launched and terminated.
type Result struct {
	// Args is the argument list actually run, shell included.
	Args   []string
	Status Status
	Stdout []byte
	Stderr []byte
}

// Output returns stdout decoded as a string with one trailing newline
// trimmed.
func (r *Result) Output() string {
	return trimNewline(r.Stdout)
}

// ErrorOutput returns stderr decoded as a string with one trailing newline
// trimmed.
func (r *Result) ErrorOutput() string {
	return trimNewline(r.Stderr)
}

// ExitCode returns the process exit code.
func (r *Result) ExitCode() int {
	return r.Status.Code
}

func trimNewline(b []byte) string {
	b = bytes.TrimSuffix(b, []byte("\n"))
	return string(b)
}
