package action

import (
	"context"

	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/errors"
)

// Shell runs an arbitrary command.
type Shell struct {
	Base
	Command command.Builder
	Dir     string
}

func (s Shell) BuildCommand(context.Context) (command.Builder, error) {
	return s.Command, nil
}

func (s Shell) Run(ctx context.Context) (*command.Result, error) {
	if s.Command.IsEmpty() {
		return nil, errors.MissingParameter("Shell", "command")
	}
	return s.Exec(ctx).Execute(ctx, s.Command, s.Dir)
}

// RunShell runs cmd in dir with the ambient executor.
func RunShell(ctx context.Context, cmd command.Builder, dir string) (*command.Result, error) {
	return Run[*command.Result](ctx, Shell{Command: cmd, Dir: dir})
}
