package cmd

import (
	"context"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/actions"
	"github.com/grovetools/seedee/cli"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/config"
	"github.com/grovetools/seedee/logging"
	"github.com/grovetools/seedee/pipeline"
	"github.com/grovetools/seedee/taskexec"
	"github.com/spf13/cobra"
)

// runContext installs the executor and logger every action resolves. An
// executor already bound on the command's context is kept, which is how
// tests substitute a fake.
func runContext(cmd *cobra.Command, quiet bool) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := cli.GetLogger(cmd)

	if _, ok := taskexec.ExecutorKey.Lookup(ctx); !ok {
		opts := []command.Option{command.WithLogger(log)}
		if !quiet {
			opts = append(opts, command.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()))
		}
		ctx = taskexec.ExecutorKey.With(ctx, command.NewShellExecutor(opts...))
	}
	return taskexec.LoggerKey.With(ctx, log)
}

func newStepper(cmd *cobra.Command) *pipeline.Stepper {
	return pipeline.NewStepper(cli.GetLogger(cmd), logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()))
}

// phases are the pre-run, run and post-run hooks of a single-action command.
// A nil hook is skipped.
type phases struct {
	pre  func(context.Context) error
	run  func(context.Context) error
	post func(context.Context) error
}

// runPhases runs each hook as a step. With quiet set the run phase is shown
// as a spinner titled title.
func runPhases(ctx context.Context, stepper *pipeline.Stepper, quiet bool, title string, p phases) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{pipeline.PhasePreRun, p.pre},
		{pipeline.PhaseRun, p.run},
		{pipeline.PhasePostRun, p.post},
	}
	for _, s := range steps {
		if s.fn == nil {
			continue
		}
		fn := s.fn
		if quiet && s.name == pipeline.PhaseRun {
			fn = func(ctx context.Context) error { return cli.RunWithSpinner(ctx, title, s.fn) }
		}
		if err := stepper.Step(ctx, s.name, fn); err != nil {
			return err
		}
	}
	return nil
}

// prepare selects Xcode and installs pods when cfg asks for it. It returns
// nil when there is nothing to do so the pre-run phase can be skipped.
func prepare(cfg *config.Config) func(context.Context) error {
	if cfg.Xcode.Version == "" && !cfg.CocoaPods.Enabled {
		return nil
	}
	return func(ctx context.Context) error {
		if cfg.Xcode.Version != "" {
			if _, err := action.RunWithCleanUp[*command.Result](ctx, actions.NewSelectXcode(cfg)); err != nil {
				return err
			}
		}
		if cfg.CocoaPods.Enabled {
			if _, err := action.RunWithCleanUp[*command.Result](ctx, actions.NewPodInstall(cfg)); err != nil {
				return err
			}
		}
		return nil
	}
}

// resolveProject fills in the project, workspace and scheme from the
// working directory when seedee.yml and the flags left them out.
func resolveProject(ctx context.Context, cfg *config.Config) error {
	if (cfg.Project.Project != "" || cfg.Project.Workspace != "") && cfg.Project.Scheme != "" {
		return nil
	}

	dir := cfg.Project.WorkingDirectory
	if dir == "" {
		dir = "."
	}
	found, err := actions.Discover(ctx, taskexec.FileSystem(ctx), dir)
	if err != nil {
		return err
	}

	if cfg.Project.Project == "" && cfg.Project.Workspace == "" {
		ref := found.Ref(cfg.Project.Scheme)
		cfg.Project.Project = ref.Project
		cfg.Project.Workspace = ref.Workspace
		cfg.Project.Scheme = ref.Scheme
	} else if cfg.Project.Scheme == "" && len(found.Schemes) > 0 {
		cfg.Project.Scheme = found.Schemes[0]
	}
	return nil
}
