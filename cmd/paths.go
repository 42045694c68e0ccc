package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/seedee/config"
	"github.com/grovetools/seedee/pkg/paths"
	"github.com/grovetools/seedee/pkg/provisioning"
	"github.com/spf13/cobra"
)

// PathsOutput lists the directories seedee reads from and writes to.
type PathsOutput struct {
	ConfigDir     string `json:"config_dir"`
	GlobalConfig  string `json:"global_config"`
	ProjectConfig string `json:"project_config,omitempty"`
	DataDir       string `json:"data_dir"`
	StateDir      string `json:"state_dir"`
	CacheDir      string `json:"cache_dir"`
	LogsDir       string `json:"logs_dir"`
	ProfilesDir   string `json:"profiles_dir"`
}

func newPathsCmd() *cobra.Command {
	var ensure bool

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the paths used by seedee",
		Long: `Print the paths used by seedee as JSON.

The directories follow the XDG Base Directory Specification unless
SEEDEE_HOME is set, in which case everything lives under it:
- config_dir: the global seedee.yml
- state_dir: log files
- profiles_dir: where provisioning profiles are installed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ensure {
				if err := paths.EnsureDirs(); err != nil {
					return fmt.Errorf("failed to create directories: %w", err)
				}
			}

			output := PathsOutput{
				ConfigDir:    paths.ConfigDir(),
				GlobalConfig: paths.GlobalConfigFile(),
				DataDir:      paths.DataDir(),
				StateDir:     paths.StateDir(),
				CacheDir:     paths.CacheDir(),
				LogsDir:      paths.LogsDir(),
				ProfilesDir:  provisioning.InstallDir(paths.HomeDir()),
			}
			if found, err := config.FindConfigFile("."); err == nil {
				output.ProjectConfig = found
			}

			jsonData, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal paths to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}

	cmd.Flags().BoolVar(&ensure, "ensure", false, "Create the directories if they are missing")
	return cmd
}
