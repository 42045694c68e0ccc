package actions

import (
	"context"
	"path/filepath"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/config"
	"github.com/spf13/afero"
)

// PodInstall runs `pod install`, through bundler when the directory has a
// Gemfile.
type PodInstall struct {
	action.Base
	Dir        string `mapstructure:"working_directory"`
	RepoUpdate bool   `mapstructure:"repo_update"`
}

// NewPodInstall seeds a pod install from the cocoapods section of cfg.
func NewPodInstall(cfg *config.Config) *PodInstall {
	return &PodInstall{
		Dir:        cfg.Project.WorkingDirectory,
		RepoUpdate: cfg.CocoaPods.RepoUpdate,
	}
}

func (a *PodInstall) BuildCommand(ctx context.Context) (command.Builder, error) {
	project := Project{UsesBundler: a.usesBundler(ctx)}
	return project.Tool("pod").
		Append("install").
		AppendIf("--repo-update", a.RepoUpdate), nil
}

func (a *PodInstall) Run(ctx context.Context) (*command.Result, error) {
	cmd, err := a.BuildCommand(ctx)
	if err != nil {
		return nil, err
	}
	return a.Exec(ctx).Execute(ctx, cmd, a.Dir)
}

func (a *PodInstall) usesBundler(ctx context.Context) bool {
	ok, _ := afero.Exists(a.FileSystem(ctx), filepath.Join(a.Dir, "Gemfile"))
	return ok
}
