package actions

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/config"
	"github.com/grovetools/seedee/errors"
	"github.com/spf13/afero"
)

// TestOutput is the result of a test run.
type TestOutput struct {
	Result *command.Result
	// ResultBundles are the .xcresult bundles found under the derived data
	// Logs/Test directory after the run.
	ResultBundles []string
}

// TestXcodeProject runs `xcodebuild test` or `test-without-building`.
type TestXcodeProject struct {
	action.Base
	ProjectRef      `mapstructure:",squash"`
	Dir             string   `mapstructure:"working_directory"`
	Configuration   string   `mapstructure:"configuration"`
	Destination     string   `mapstructure:"destination"`
	WithoutBuilding bool     `mapstructure:"without_building"`
	DerivedDataPath string   `mapstructure:"derived_data_path"`
	TestPlan        string   `mapstructure:"test_plan"`
	OnlyTesting     []string `mapstructure:"only_testing"`
	Formatter       string   `mapstructure:"formatter" validate:"omitempty,oneof=none xcpretty xcbeautify"`
}

// NewTest seeds a test run from the project, build and test sections of cfg.
func NewTest(cfg *config.Config) *TestXcodeProject {
	return &TestXcodeProject{
		ProjectRef:      projectRefFromConfig(cfg),
		Dir:             cfg.Project.WorkingDirectory,
		Configuration:   cfg.Build.Configuration,
		Destination:     cfg.Test.Destination,
		WithoutBuilding: cfg.Test.WithoutBuilding,
		DerivedDataPath: cfg.Build.DerivedDataPath,
		Formatter:       cfg.Build.Formatter,
	}
}

func (a *TestXcodeProject) BuildCommand(context.Context) (command.Builder, error) {
	if a.IsZero() {
		return command.Builder{}, errors.MissingParameter("TestXcodeProject", "project")
	}

	destination := a.Destination
	if destination == "" {
		destination = config.DefaultTestDestination
	}

	verb := "test"
	if a.WithoutBuilding {
		verb = "test-without-building"
	}

	cmd := a.args(command.New("xcodebuild", verb)).
		AppendQuoted("-destination", destination).
		AppendValue("-configuration", a.Configuration).
		AppendQuoted("-derivedDataPath", a.DerivedDataPath).
		AppendQuoted("-testPlan", a.TestPlan)
	for _, target := range a.OnlyTesting {
		cmd = cmd.AppendSeparated("-only-testing", ":", target)
	}
	return withFormatter(cmd, a.Formatter), nil
}

func (a *TestXcodeProject) Run(ctx context.Context) (*TestOutput, error) {
	cmd, err := a.BuildCommand(ctx)
	if err != nil {
		return nil, err
	}
	res, err := a.Exec(ctx).Execute(ctx, cmd, a.Dir)
	if err != nil {
		return nil, err
	}

	out := &TestOutput{Result: res}
	root, err := a.derivedDataRoot(ctx)
	if err != nil {
		a.Logger(ctx).WithError(err).Warn("Could not locate derived data, skipping result bundles")
		return out, nil
	}
	out.ResultBundles = findResultBundles(a.FileSystem(ctx), root)
	return out, nil
}

// derivedDataRoot returns the explicit derived data path, or derives it from
// BUILD_ROOT (<root>/Build/Products).
func (a *TestXcodeProject) derivedDataRoot(ctx context.Context) (string, error) {
	if a.DerivedDataPath != "" {
		return a.DerivedDataPath, nil
	}
	settings, err := action.Run[Settings](ctx, &BuildSettings{
		Base:          a.Base,
		ProjectRef:    a.ProjectRef,
		Dir:           a.Dir,
		Configuration: a.Configuration,
	})
	if err != nil {
		return "", err
	}
	buildRoot, err := settings.Require("BUILD_ROOT")
	if err != nil {
		return "", err
	}
	return filepath.Dir(filepath.Dir(buildRoot)), nil
}

func findResultBundles(fs afero.Fs, root string) []string {
	matches, err := afero.Glob(fs, filepath.Join(root, "Logs", "Test", "*.xcresult"))
	if err != nil {
		return nil
	}
	sort.Strings(matches)
	return matches
}
