package actions

import (
	"context"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/errors"
)

// Script runs a line of shell, as written, through action.Shell.
type Script struct {
	action.Base
	Script string `mapstructure:"script" validate:"required"`
	Dir    string `mapstructure:"working_directory"`
}

func (a *Script) BuildCommand(context.Context) (command.Builder, error) {
	if a.Script == "" {
		return command.Builder{}, errors.MissingParameter("Script", "script")
	}
	return command.New(a.Script), nil
}

func (a *Script) Run(ctx context.Context) (*command.Result, error) {
	cmd, err := a.BuildCommand(ctx)
	if err != nil {
		return nil, err
	}
	return action.Run[*command.Result](ctx, action.Shell{Base: a.Base, Command: cmd, Dir: a.Dir})
}
