package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/grovetools/seedee/command"
)

// Response scripts what FakeExecutor returns for a matching command.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Call records one Execute invocation.
type Call struct {
	Command command.Builder
	Dir     string
}

type rule struct {
	match    string
	response Response
}

// FakeExecutor is a command.Executor that records every command and answers
// from scripted responses instead of spawning processes. Unmatched commands
// succeed with empty output.
type FakeExecutor struct {
	mu    sync.Mutex
	rules []rule
	calls []Call
}

// NewFakeExecutor creates a FakeExecutor with no rules.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{}
}

// On scripts the response for commands whose line contains match. Rules are
// checked in the order they were added.
func (f *FakeExecutor) On(match string, response Response) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{match: match, response: response})
	return f
}

var _ command.Executor = (*FakeExecutor)(nil)

// Execute implements command.Executor.
func (f *FakeExecutor) Execute(ctx context.Context, cmd command.Builder, dir string) (*command.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Command: cmd, Dir: dir})
	response := f.lookup(cmd.String())
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	args := []string{"/bin/bash", "-c", cmd.String()}
	if response.Err != nil {
		return nil, response.Err
	}
	if response.ExitCode != 0 {
		return nil, &command.ExitError{
			Args:   args,
			Code:   response.ExitCode,
			Stdout: []byte(response.Stdout),
			Stderr: []byte(response.Stderr),
		}
	}
	return &command.Result{
		Args:   args,
		Status: command.Exited(0),
		Stdout: []byte(response.Stdout),
		Stderr: []byte(response.Stderr),
	}, nil
}

func (f *FakeExecutor) lookup(line string) Response {
	for _, r := range f.rules {
		if strings.Contains(line, r.match) {
			return r.response
		}
	}
	return Response{}
}

// Calls returns a copy of the recorded invocations.
func (f *FakeExecutor) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Commands returns the recorded command lines in order.
func (f *FakeExecutor) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, len(f.calls))
	for i, c := range f.calls {
		lines[i] = c.Command.String()
	}
	return lines
}
