package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/actions"
	"github.com/grovetools/seedee/cli"
	"github.com/grovetools/seedee/logging"
	"github.com/grovetools/seedee/pkg/provisioning"
	"github.com/grovetools/seedee/taskexec"
	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Install and inspect provisioning profiles",
	}
	cmd.AddCommand(newProfileInstallCmd(), newProfileInspectCmd())
	return cmd
}

func newProfileInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <file.mobileprovision>...",
		Short: "Copy profiles to where Xcode looks for them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := runContext(cmd, false)
			pretty := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())
			for _, path := range args {
				profile, err := action.RunWithCleanUp[*provisioning.Profile](ctx, &actions.AddProvisioningProfile{Path: path})
				if err != nil {
					return err
				}
				pretty.Success(fmt.Sprintf("Installed %s", profile.Name))
				pretty.Path("Path", provisioning.InstallPath(taskexec.HomeDir(ctx), profile))
			}
			return nil
		},
	}
}

// profileSummary is the --json form of `seedee profile inspect`.
type profileSummary struct {
	Name           string    `json:"name"`
	UUID           string    `json:"uuid"`
	AppIDName      string    `json:"app_id_name,omitempty"`
	TeamID         string    `json:"team_id,omitempty"`
	TeamName       string    `json:"team_name,omitempty"`
	Platform       []string  `json:"platform,omitempty"`
	Devices        int       `json:"devices"`
	ExpirationDate time.Time `json:"expiration_date"`
	Expired        bool      `json:"expired"`
}

func newProfileInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.mobileprovision>",
		Short: "Print what a provisioning profile contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := runContext(cmd, false)
			profile, err := provisioning.ParseFile(taskexec.FileSystem(ctx), args[0])
			if err != nil {
				return err
			}

			summary := profileSummary{
				Name:           profile.Name,
				UUID:           profile.UUID,
				AppIDName:      profile.AppIDName,
				TeamID:         profile.TeamID(),
				TeamName:       profile.TeamName,
				Platform:       profile.Platform,
				Devices:        len(profile.ProvisionedDevices),
				ExpirationDate: profile.ExpirationDate,
				Expired:        profile.Expired(time.Now()),
			}

			if cli.GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(summary, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			pretty := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())
			pretty.Field("Name", summary.Name)
			pretty.Field("UUID", summary.UUID)
			pretty.Field("App ID", summary.AppIDName)
			pretty.Field("Team", fmt.Sprintf("%s (%s)", summary.TeamName, summary.TeamID))
			pretty.Field("Platform", strings.Join(summary.Platform, ", "))
			pretty.Field("Devices", summary.Devices)
			pretty.Field("Expires", summary.ExpirationDate.Format(time.RFC3339))
			if summary.Expired {
				pretty.WarnPretty("This profile has expired")
			}
			return nil
		},
	}
}
