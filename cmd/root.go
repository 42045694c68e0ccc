// Package cmd holds the seedee command tree.
package cmd

import (
	"context"

	"github.com/grovetools/seedee/cli"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the seedee command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"seedee",
		"CI/CD toolkit for building, testing and shipping Xcode projects",
	)
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.AddCommand(
		newBuildCmd(),
		newTestCmd(),
		newRunCmd(),
		newConfigCmd(),
		newProfileCmd(),
		newPathsCmd(),
		cli.NewVersionCommand("seedee"),
	)
	cli.SetStyledHelp(root)
	return root
}

// Execute runs seedee with args and returns the process exit status.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	verbose, _ := root.PersistentFlags().GetBool("verbose")
	handler := cli.NewErrorHandler(verbose)
	handler.Out = root.ErrOrStderr()
	_ = handler.Handle(err)
	return cli.ExitCode(err)
}
