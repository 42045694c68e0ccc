package cmd

import (
	"fmt"

	"github.com/grovetools/seedee/cli"
	"github.com/grovetools/seedee/logging"
	"github.com/grovetools/seedee/pipeline"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		dryRun bool
		list   bool
	)

	cmd := &cobra.Command{
		Use:   "run [pipeline]",
		Short: "Run a pipeline from seedee.yml",
		Long: `Run the steps of a pipeline declared under 'pipelines:' in seedee.yml,
in order, stopping at the first failure.

Examples:
  seedee run release
  seedee run release --dry-run
  seedee run --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if list || len(args) == 0 {
				for _, name := range pipeline.Names(cfg) {
					desc := cfg.Pipelines[name].Description
					if desc == "" {
						fmt.Fprintln(out, name)
						continue
					}
					fmt.Fprintf(out, "%s\t%s\n", name, desc)
				}
				return nil
			}

			p, err := pipeline.Load(cfg, args[0])
			if err != nil {
				return err
			}
			ctx := runContext(cmd, false)

			if dryRun {
				commands, err := p.Commands(ctx)
				if err != nil {
					return err
				}
				pretty := logging.NewPrettyLogger().WithWriter(out)
				for i, c := range commands {
					pretty.Field(fmt.Sprintf("%d. %s", i+1, p.Steps[i].Title), p.Steps[i].Runner.Name())
					if !c.IsEmpty() {
						pretty.Command(c.String())
					}
				}
				return nil
			}

			return p.Run(ctx, newStepper(cmd))
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print each step's command without running anything")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List the configured pipelines")

	return cmd
}
