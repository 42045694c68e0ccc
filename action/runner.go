package action

import (
	"context"

	"github.com/grovetools/seedee/command"
)

// Runner is an Action with its result type erased, for running
// heterogeneous actions in sequence.
type Runner interface {
	Name() string
	BuildCommand(ctx context.Context) (command.Builder, error)
	// Run runs the action and its cleanup.
	Run(ctx context.Context) (any, error)
}

// AsRunner wraps a.
func AsRunner[T any](a Action[T]) Runner {
	return runner[T]{action: a}
}

type runner[T any] struct {
	action Action[T]
}

func (r runner[T]) Name() string { return NameOf(r.action) }

func (r runner[T]) BuildCommand(ctx context.Context) (command.Builder, error) {
	return r.action.BuildCommand(ctx)
}

func (r runner[T]) Run(ctx context.Context) (any, error) {
	return RunWithCleanUp(ctx, r.action)
}
