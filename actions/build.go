package actions

import (
	"context"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/config"
	"github.com/grovetools/seedee/errors"
)

// BuildXcodeProject runs `xcodebuild build`, `build-for-testing` or, when
// ArchivePath is set, `archive`.
type BuildXcodeProject struct {
	action.Base
	ProjectRef      `mapstructure:",squash"`
	Dir             string `mapstructure:"working_directory"`
	Configuration   string `mapstructure:"configuration"`
	SDK             string `mapstructure:"sdk" validate:"omitempty,oneof=ios-simulator ios macos"`
	Destination     string `mapstructure:"destination"`
	ArchivePath     string `mapstructure:"archive_path"`
	BuildForTesting bool   `mapstructure:"build_for_testing"`
	Clean           bool   `mapstructure:"clean"`
	DerivedDataPath string `mapstructure:"derived_data_path"`
	BuildNumber     string `mapstructure:"build_number"`
	Formatter       string `mapstructure:"formatter" validate:"omitempty,oneof=none xcpretty xcbeautify"`
}

// NewBuild seeds a build from the project and build sections of cfg.
func NewBuild(cfg *config.Config) *BuildXcodeProject {
	return &BuildXcodeProject{
		ProjectRef:      projectRefFromConfig(cfg),
		Dir:             cfg.Project.WorkingDirectory,
		Configuration:   cfg.Build.Configuration,
		SDK:             cfg.Build.SDK,
		Clean:           cfg.Build.Clean,
		DerivedDataPath: cfg.Build.DerivedDataPath,
		Formatter:       cfg.Build.Formatter,
	}
}

func (a *BuildXcodeProject) destination() string {
	if a.Destination != "" {
		return a.Destination
	}
	return SDKDestination(a.SDK)
}

func (a *BuildXcodeProject) BuildCommand(context.Context) (command.Builder, error) {
	if a.IsZero() {
		return command.Builder{}, errors.MissingParameter("BuildXcodeProject", "project")
	}

	cmd := command.New("xcodebuild").AppendIf("clean", a.Clean)
	switch {
	case a.ArchivePath != "":
		cmd = cmd.Append("archive").AppendQuoted("-archivePath", a.ArchivePath)
	case a.BuildForTesting:
		cmd = cmd.Append("build-for-testing")
	default:
		cmd = cmd.Append("build")
	}

	cmd = a.args(cmd).
		AppendQuoted("-destination", a.destination()).
		AppendValue("-configuration", a.Configuration).
		AppendQuoted("-derivedDataPath", a.DerivedDataPath).
		AppendSeparated("CURRENT_PROJECT_VERSION", "=", a.BuildNumber)

	return withFormatter(cmd, a.Formatter), nil
}

func (a *BuildXcodeProject) Run(ctx context.Context) (*command.Result, error) {
	cmd, err := a.BuildCommand(ctx)
	if err != nil {
		return nil, err
	}
	return a.Exec(ctx).Execute(ctx, cmd, a.Dir)
}
