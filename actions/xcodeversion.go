package actions

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/config"
	"github.com/grovetools/seedee/errors"
)

// SelectXcodeVersion switches the active Xcode with xcversion, installing
// the xcode-install gem first when xcversion is missing.
type SelectXcodeVersion struct {
	action.Base
	Version string `mapstructure:"version" validate:"required"`
}

// NewSelectXcode seeds the version from the xcode section of cfg.
func NewSelectXcode(cfg *config.Config) *SelectXcodeVersion {
	return &SelectXcodeVersion{Version: cfg.Xcode.Version}
}

func (a *SelectXcodeVersion) BuildCommand(context.Context) (command.Builder, error) {
	if a.Version == "" {
		return command.Builder{}, errors.MissingParameter("SelectXcodeVersion", "version")
	}
	return command.New("xcversion", "select", command.Quote(a.Version)), nil
}

func (a *SelectXcodeVersion) Run(ctx context.Context) (*command.Result, error) {
	cmd, err := a.BuildCommand(ctx)
	if err != nil {
		return nil, err
	}

	executor := a.Exec(ctx)
	installed, err := a.hasXcversion(ctx, executor)
	if err != nil {
		return nil, err
	}
	if !installed {
		a.Logger(ctx).Info("xcversion not found, installing xcode-install")
		if _, err := executor.Execute(ctx, command.New("gem", "install", "xcode-install"), ""); err != nil {
			return nil, err
		}
	}
	return executor.Execute(ctx, cmd, "")
}

func (a *SelectXcodeVersion) hasXcversion(ctx context.Context, executor command.Executor) (bool, error) {
	res, err := executor.Execute(ctx, command.New("which", "xcversion"), "")
	if err != nil {
		var exitErr *command.ExitError
		if stderrors.As(err, &exitErr) {
			return false, nil
		}
		return false, err
	}
	out := res.Output()
	return out != "" && !strings.Contains(out, "not found"), nil
}
