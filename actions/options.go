// Package actions implements the Xcode CI steps seedee runs: building,
// testing, exporting and uploading, plus the environment setup around them.
package actions

import (
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/config"
)

// Formatters that can be piped after xcodebuild.
const (
	FormatterNone       = "none"
	FormatterXcpretty   = "xcpretty"
	FormatterXcbeautify = "xcbeautify"
)

// ProjectRef points xcodebuild at a project or workspace and a scheme.
// Workspace wins when both are set.
type ProjectRef struct {
	Project   string `mapstructure:"project"`
	Workspace string `mapstructure:"workspace"`
	Scheme    string `mapstructure:"scheme"`
}

// IsZero reports whether neither a project nor a workspace is set.
func (p ProjectRef) IsZero() bool {
	return p.Project == "" && p.Workspace == ""
}

func (p ProjectRef) args(cmd command.Builder) command.Builder {
	if p.Workspace != "" {
		cmd = cmd.AppendQuoted("-workspace", p.Workspace)
	} else {
		cmd = cmd.AppendQuoted("-project", p.Project)
	}
	return cmd.AppendQuoted("-scheme", p.Scheme)
}

func projectRefFromConfig(cfg *config.Config) ProjectRef {
	return ProjectRef{
		Project:   cfg.Project.Project,
		Workspace: cfg.Project.Workspace,
		Scheme:    cfg.Project.Scheme,
	}
}

// SDKDestination is the generic -destination used to build for sdk. Unknown
// names yield "".
func SDKDestination(sdk string) string {
	switch sdk {
	case config.SDKiOSSimulator:
		return "generic/platform=iOS Simulator"
	case config.SDKiOS:
		return "generic/platform=iOS"
	case config.SDKmacOS:
		return "generic/platform=macOS,name=Any Mac"
	}
	return ""
}

// withFormatter pipes cmd through formatter. pipefail keeps xcodebuild's exit
// status once the output goes through a pipe.
func withFormatter(cmd command.Builder, formatter string) command.Builder {
	if formatter == "" || formatter == FormatterNone {
		return cmd
	}
	return pipefail(cmd).Append("|", formatter)
}

func pipefail(cmd command.Builder) command.Builder {
	return command.New("set", "-o", "pipefail", "&&").Append(cmd.Tokens()...)
}
