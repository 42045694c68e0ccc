package cli

import (
	"github.com/grovetools/seedee/config"
	"github.com/spf13/pflag"
)

// XcodeFlags are the project and build flags shared by `seedee build` and
// `seedee test`. Only flags given on the command line override seedee.yml.
type XcodeFlags struct {
	flags *pflag.FlagSet

	Project          string
	Workspace        string
	Scheme           string
	Configuration    string
	SDK              string
	Destination      string
	Formatter        string
	DerivedDataPath  string
	WorkingDirectory string
	Quiet            bool
}

// NewXcodeFlags creates the flag set. Add it to a command with
// cmd.Flags().AddFlagSet(f.FlagSet()).
func NewXcodeFlags() *XcodeFlags {
	f := &XcodeFlags{flags: pflag.NewFlagSet("xcode", pflag.ContinueOnError)}
	fs := f.flags
	fs.StringVar(&f.Project, "project", "", "Path to the .xcodeproj")
	fs.StringVar(&f.Workspace, "workspace", "", "Path to the .xcworkspace")
	fs.StringVarP(&f.Scheme, "scheme", "s", "", "Scheme to build")
	fs.StringVar(&f.Configuration, "configuration", "", "Build configuration such as Debug or Release")
	fs.StringVar(&f.SDK, "sdk", "", "Target SDK: ios-simulator, ios, or macos")
	fs.StringVar(&f.Destination, "destination", "", "xcodebuild -destination specifier")
	fs.StringVar(&f.Formatter, "formatter", "", "Output formatter: none, xcpretty, or xcbeautify")
	fs.StringVar(&f.DerivedDataPath, "derived-data-path", "", "Passed as -derivedDataPath")
	fs.StringVarP(&f.WorkingDirectory, "working-directory", "C", "", "Directory xcodebuild runs in")
	fs.BoolVarP(&f.Quiet, "quiet", "q", false, "Hide tool output and show a spinner instead")
	return f
}

// FlagSet returns the underlying pflag set.
func (f *XcodeFlags) FlagSet() *pflag.FlagSet {
	return f.flags
}

// Apply copies every flag the user set onto cfg.
func (f *XcodeFlags) Apply(cfg *config.Config) {
	changed := func(name string) bool {
		fl := f.flags.Lookup(name)
		return fl != nil && fl.Changed
	}

	if changed("project") {
		cfg.Project.Project = f.Project
		cfg.Project.Workspace = ""
	}
	if changed("workspace") {
		cfg.Project.Workspace = f.Workspace
		if !changed("project") {
			cfg.Project.Project = ""
		}
	}
	if changed("scheme") {
		cfg.Project.Scheme = f.Scheme
	}
	if changed("working-directory") {
		cfg.Project.WorkingDirectory = f.WorkingDirectory
	}
	if changed("configuration") {
		cfg.Build.Configuration = f.Configuration
	}
	if changed("sdk") {
		cfg.Build.SDK = f.SDK
	}
	if changed("formatter") {
		cfg.Build.Formatter = f.Formatter
	}
	if changed("derived-data-path") {
		cfg.Build.DerivedDataPath = f.DerivedDataPath
	}
	if changed("destination") {
		cfg.Test.Destination = f.Destination
	}
}
