// Package action defines the unit of CI work and the helpers that run it.
package action

import (
	"context"
	stderrors "errors"
	"reflect"
	"strings"
	"time"

	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/errors"
	"github.com/grovetools/seedee/logging"
	"github.com/grovetools/seedee/taskexec"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Action is one unit of CI work producing a T.
//
// Run is called once per invocation. CleanUp is called at most once after
// Run, with Run's error (nil on success), to remove anything transient Run
// created. BuildCommand exposes the command an action would run without
// running it; actions that do not shell out return an empty Builder.
type Action[T any] interface {
	Run(ctx context.Context) (T, error)
	CleanUp(ctx context.Context, cause error) error
	BuildCommand(ctx context.Context) (command.Builder, error)
}

// Named is implemented by actions that want a label other than their type
// name.
type Named interface {
	Name() string
}

// Scoper is implemented by actions that install capabilities on the context
// their Run (and any sub-actions) execute under. Base implements it.
type Scoper interface {
	Scope(ctx context.Context) context.Context
}

// NameOf returns the label used for a in logs.
func NameOf(a any) string {
	if n, ok := a.(Named); ok {
		if name := n.Name(); name != "" {
			return name
		}
	}
	t := reflect.TypeOf(a)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "action"
	}
	name, _, _ := strings.Cut(t.Name(), "[")
	if name == "" {
		return "action"
	}
	return name
}

// Base supplies the optional parts of Action and resolves capabilities.
// Executor and FS, when set, take precedence over the ambient values in the
// context.
type Base struct {
	Executor command.Executor
	FS       afero.Fs
}

// Exec returns the injected Executor, or the one in ctx.
func (b Base) Exec(ctx context.Context) command.Executor {
	if b.Executor != nil {
		return b.Executor
	}
	return taskexec.Executor(ctx)
}

// FileSystem returns the injected file system, or the one in ctx.
func (b Base) FileSystem(ctx context.Context) afero.Fs {
	if b.FS != nil {
		return b.FS
	}
	return taskexec.FileSystem(ctx)
}

// Logger returns the logger in ctx.
func (Base) Logger(ctx context.Context) *logrus.Entry {
	return taskexec.Logger(ctx)
}

// Scope installs the injected capabilities on ctx so sub-actions see them.
func (b Base) Scope(ctx context.Context) context.Context {
	if b.Executor != nil {
		ctx = taskexec.ExecutorKey.With(ctx, b.Executor)
	}
	if b.FS != nil {
		ctx = taskexec.FileSystemKey.With(ctx, b.FS)
	}
	return ctx
}

// CleanUp does nothing.
func (Base) CleanUp(context.Context, error) error { return nil }

// BuildCommand returns an empty command.
func (Base) BuildCommand(context.Context) (command.Builder, error) {
	return command.Builder{}, nil
}

// Run runs a, logging its start and outcome. Errors are returned unchanged.
// Actions call Run to invoke sub-actions; ctx carries the capabilities down.
func Run[T any](ctx context.Context, a Action[T]) (T, error) {
	logging.Bootstrap()

	if s, ok := a.(Scoper); ok {
		ctx = s.Scope(ctx)
	}

	name := NameOf(a)
	log := taskexec.Logger(ctx).WithField("action", name)
	log.Infof("Running %s", name)

	start := time.Now()
	result, err := a.Run(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		log.WithError(err).WithField("elapsed", elapsed).Errorf("%s failed", name)
		return result, err
	}
	log.WithField("elapsed", elapsed).Infof("%s finished", name)
	return result, nil
}

// RunWithCleanUp runs a and then calls its CleanUp exactly once with the run
// error. A cleanup failure is never dropped: after a failed run both errors
// are returned joined, after a successful run the cleanup error alone.
// CleanUp still runs when ctx has been cancelled.
func RunWithCleanUp[T any](ctx context.Context, a Action[T]) (T, error) {
	result, runErr := Run(ctx, a)

	cleanCtx := context.WithoutCancel(ctx)
	if s, ok := a.(Scoper); ok {
		cleanCtx = s.Scope(cleanCtx)
	}
	if cleanErr := a.CleanUp(cleanCtx, runErr); cleanErr != nil {
		wrapped := errors.CleanupFailed(NameOf(a), cleanErr)
		if runErr != nil {
			return result, stderrors.Join(runErr, wrapped)
		}
		return result, wrapped
	}
	return result, runErr
}
