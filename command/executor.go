package command

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/grovetools/seedee/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultShell runs every command so pipelines and && chains work as
	// written.
	DefaultShell = "/bin/bash"

	// DefaultWaitDelay bounds how long output pipes are drained after a
	// cancelled process has been killed.
	DefaultWaitDelay = 5 * time.Second
)

// Executor runs a fully formed command in a working directory. An empty dir
// means the current directory.
type Executor interface {
	Execute(ctx context.Context, cmd Builder, dir string) (*Result, error)
}

// ProcessFactory creates exec.Cmd instances. Tests can substitute it to
// control how the shell process is built.
type ProcessFactory interface {
	CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd
}

// RealProcessFactory is the production ProcessFactory backed by os/exec.
type RealProcessFactory struct{}

// CommandContext creates a standard context-aware exec.Cmd.
func (RealProcessFactory) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

// ShellExecutor runs commands through a shell (`bash -c`). Each call owns its
// own process and output buffers, so one ShellExecutor may be used from many
// goroutines at once.
type ShellExecutor struct {
	shell     string
	env       []string
	stdout    io.Writer
	stderr    io.Writer
	logger    *logrus.Entry
	factory   ProcessFactory
	waitDelay time.Duration
}

// Option configures a ShellExecutor.
type Option func(*ShellExecutor)

// WithShell overrides the shell binary.
func WithShell(path string) Option {
	return func(e *ShellExecutor) { e.shell = path }
}

// WithEnv adds KEY=VALUE pairs on top of the inherited environment.
func WithEnv(kv ...string) Option {
	return func(e *ShellExecutor) { e.env = append(e.env, kv...) }
}

// WithOutput mirrors the child's stdout and stderr live while still
// capturing them.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(e *ShellExecutor) {
		e.stdout = stdout
		e.stderr = stderr
	}
}

// WithLogger sets the logger used to echo each command line.
func WithLogger(logger *logrus.Entry) Option {
	return func(e *ShellExecutor) { e.logger = logger }
}

// WithProcessFactory replaces the process constructor.
func WithProcessFactory(f ProcessFactory) Option {
	return func(e *ShellExecutor) { e.factory = f }
}

// WithWaitDelay overrides DefaultWaitDelay.
func WithWaitDelay(d time.Duration) Option {
	return func(e *ShellExecutor) { e.waitDelay = d }
}

// NewShellExecutor creates a ShellExecutor with the given options.
func NewShellExecutor(opts ...Option) *ShellExecutor {
	e := &ShellExecutor{
		shell:     DefaultShell,
		logger:    logrus.NewEntry(logrus.StandardLogger()),
		factory:   RealProcessFactory{},
		waitDelay: DefaultWaitDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs cmd and waits for it to terminate. Exit status zero yields a
// Result; anything else yields *ExitError, *SignalError or *LaunchError.
// Cancelling ctx kills the process (and on unix its whole process group).
func (e *ShellExecutor) Execute(ctx context.Context, cmd Builder, dir string) (*Result, error) {
	if cmd.IsEmpty() {
		return nil, errors.InvalidInput("cannot execute an empty command")
	}

	line := cmd.String()
	args := []string{e.shell, "-c", line}

	proc := e.factory.CommandContext(ctx, args[0], args[1:]...)
	proc.Dir = dir
	proc.Env = append(os.Environ(), e.env...)
	proc.Stdin = nil
	proc.WaitDelay = e.waitDelay
	configureProcess(proc)

	outMirror, errMirror := mirrors(e.stdout, e.stderr)
	stdout := newCaptureBuffer(outMirror)
	stderr := newCaptureBuffer(errMirror)
	proc.Stdout = stdout
	proc.Stderr = stderr

	log := e.logger
	if dir != "" {
		log = log.WithField("dir", dir)
	}
	log.Infof("$ %s", line)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &SignalError{Args: args, Err: ctxErr}
	}
	if err := proc.Start(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &SignalError{Args: args, Err: ctxErr}
		}
		return nil, &LaunchError{Args: args, Err: err}
	}

	waitErr := proc.Wait()

	if waitErr == nil {
		return &Result{
			Args:   args,
			Status: Exited(0),
			Stdout: stdout.Bytes(),
			Stderr: stderr.Bytes(),
		}, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		sig := syscall.SIGKILL
		if status, ok := waitStatus(waitErr); ok && status.Signaled() {
			sig = status.Signal()
		}
		return nil, &SignalError{Args: args, Signal: sig, Stdout: stdout.Bytes(), Stderr: stderr.Bytes(), Err: ctxErr}
	}

	var exitErr *exec.ExitError
	if stderrors.As(waitErr, &exitErr) {
		if status, ok := waitStatus(waitErr); ok && status.Signaled() {
			return nil, &SignalError{Args: args, Signal: status.Signal(), Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
		}
		return nil, &ExitError{Args: args, Code: exitErr.ExitCode(), Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	}

	// The process ran but its termination could not be observed cleanly,
	// e.g. the output pipes were held open past WaitDelay.
	return nil, &LaunchError{Args: args, Err: waitErr}
}

func waitStatus(err error) (syscall.WaitStatus, bool) {
	var exitErr *exec.ExitError
	if !stderrors.As(err, &exitErr) {
		var zero syscall.WaitStatus
		return zero, false
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	return status, ok
}
