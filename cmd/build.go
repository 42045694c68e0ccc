package cmd

import (
	"context"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/actions"
	"github.com/grovetools/seedee/cli"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/logging"
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	xf := cli.NewXcodeFlags()
	var (
		buildForTesting bool
		cocoapods       bool
		clean           bool
		archivePath     string
		xcodeVersion    string
		buildNumber     string
		dryRun          bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the Xcode project",
		Long: `Build the Xcode project with xcodebuild.

Project, workspace and scheme come from seedee.yml or the flags. When none
is configured, the working directory is scanned for one.

Examples:
  seedee build --scheme App
  seedee build --build-for-testing --cocoapods
  seedee build --sdk ios --configuration Release --archive-path build/App.xcarchive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			xf.Apply(cfg)
			if cmd.Flags().Changed("cocoapods") {
				cfg.CocoaPods.Enabled = cocoapods
			}
			if cmd.Flags().Changed("clean") {
				cfg.Build.Clean = clean
			}
			if xcodeVersion != "" {
				cfg.Xcode.Version = xcodeVersion
			}

			ctx := runContext(cmd, xf.Quiet)
			if err := resolveProject(ctx, cfg); err != nil {
				return err
			}

			build := actions.NewBuild(cfg)
			build.Destination = xf.Destination
			build.ArchivePath = archivePath
			build.BuildForTesting = buildForTesting
			build.BuildNumber = buildNumber

			if dryRun {
				return printCommand(ctx, cmd, build)
			}

			pretty := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())
			p := phases{
				pre: prepare(cfg),
				run: func(ctx context.Context) error {
					_, err := action.RunWithCleanUp[*command.Result](ctx, build)
					return err
				},
			}
			if archivePath != "" {
				p.post = func(context.Context) error {
					pretty.Path("Archive", archivePath)
					return nil
				}
			}
			return runPhases(ctx, newStepper(cmd), xf.Quiet, "Building "+build.Scheme, p)
		},
	}

	cmd.Flags().AddFlagSet(xf.FlagSet())
	cmd.Flags().BoolVar(&buildForTesting, "build-for-testing", false, "Run build-for-testing instead of build")
	cmd.Flags().BoolVar(&cocoapods, "cocoapods", false, "Run pod install before building")
	cmd.Flags().BoolVar(&clean, "clean", false, "Clean before building")
	cmd.Flags().StringVar(&archivePath, "archive-path", "", "Archive to this .xcarchive instead of building")
	cmd.Flags().StringVar(&xcodeVersion, "xcode-version", "", "Select this Xcode version with xcversion first")
	cmd.Flags().StringVar(&buildNumber, "build-number", "", "Set CURRENT_PROJECT_VERSION")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the xcodebuild command without running it")

	return cmd
}

// printCommand writes the command a would run.
func printCommand(ctx context.Context, cmd *cobra.Command, a interface {
	BuildCommand(context.Context) (command.Builder, error)
}) error {
	line, err := a.BuildCommand(ctx)
	if err != nil {
		return err
	}
	logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).Command(line.String())
	return nil
}
