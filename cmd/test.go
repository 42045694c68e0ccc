package cmd

import (
	"context"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/actions"
	"github.com/grovetools/seedee/cli"
	"github.com/grovetools/seedee/logging"
	"github.com/spf13/cobra"
)

func newTestCmd() *cobra.Command {
	xf := cli.NewXcodeFlags()
	var (
		withoutBuilding bool
		cocoapods       bool
		xcodeVersion    string
		testPlan        string
		onlyTesting     []string
		dryRun          bool
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the project's tests",
		Long: `Run xcodebuild test against a simulator and list the .xcresult
bundles it produced.

Examples:
  seedee test --scheme App
  seedee test --test-without-building --destination 'platform=iOS Simulator,name=iPhone 15'
  seedee test --only-testing AppTests/LoginTests`,
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
			if cmd.Flags().Changed("test-without-building") {
				cfg.Test.WithoutBuilding = withoutBuilding
			}
			if xcodeVersion != "" {
				cfg.Xcode.Version = xcodeVersion
			}

			ctx := runContext(cmd, xf.Quiet)
			if err := resolveProject(ctx, cfg); err != nil {
				return err
			}

			test := actions.NewTest(cfg)
			test.TestPlan = testPlan
			test.OnlyTesting = onlyTesting

			if dryRun {
				return printCommand(ctx, cmd, test)
			}

			pretty := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())
			var out *actions.TestOutput
			return runPhases(ctx, newStepper(cmd), xf.Quiet, "Testing "+test.Scheme, phases{
				pre: prepare(cfg),
				run: func(ctx context.Context) error {
					var err error
					out, err = action.RunWithCleanUp[*actions.TestOutput](ctx, test)
					return err
				},
				post: func(context.Context) error {
					for _, bundle := range out.ResultBundles {
						pretty.Path("Result bundle", bundle)
					}
					return nil
				},
			})
		},
	}

	cmd.Flags().AddFlagSet(xf.FlagSet())
	cmd.Flags().BoolVar(&withoutBuilding, "test-without-building", false, "Run test-without-building")
	cmd.Flags().BoolVar(&cocoapods, "cocoapods", false, "Run pod install before testing")
	cmd.Flags().StringVar(&xcodeVersion, "xcode-version", "", "Select this Xcode version with xcversion first")
	cmd.Flags().StringVar(&testPlan, "test-plan", "", "Test plan to run")
	cmd.Flags().StringSliceVar(&onlyTesting, "only-testing", nil, "Limit the run to these test identifiers")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the xcodebuild command without running it")

	return cmd
}
