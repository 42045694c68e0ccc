package actions

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/config"
	"github.com/grovetools/seedee/errors"
	"github.com/grovetools/seedee/pkg/appstore"
	"github.com/grovetools/seedee/pkg/exportoptions"
	"github.com/spf13/afero"
)

// ExportOutput is the result of an archive export.
type ExportOutput struct {
	Result     *command.Result
	ExportPath string
	// Packages are the .ipa or .pkg files written to ExportPath.
	Packages []string
}

// ExportArchive runs `xcodebuild -exportArchive`. The export options come
// either from an existing plist (OptionsPlist) or from Options, which is
// written next to the archive for the duration of the run.
type ExportArchive struct {
	action.Base
	Project                  string                 `mapstructure:"project"`
	ArchivePath              string                 `mapstructure:"archive_path" validate:"required"`
	ExportPath               string                 `mapstructure:"export_path" validate:"required"`
	OptionsPlist             string                 `mapstructure:"options_plist"`
	Options                  *exportoptions.Options `mapstructure:"options"`
	AllowProvisioningUpdates bool                   `mapstructure:"allow_provisioning_updates"`
	APIKey                   appstore.APIKey        `mapstructure:"api_key" validate:"-"`
	RemoveArchive            bool                   `mapstructure:"remove_archive"`
	Dir                      string                 `mapstructure:"working_directory"`

	generated string
}

// NewExport seeds an export from the project, export and app_store_connect
// sections of cfg.
func NewExport(cfg *config.Config) *ExportArchive {
	opts := exportoptions.FromConfig(cfg.Export)
	return &ExportArchive{
		Project: cfg.Project.Project,
		Options: &opts,
		APIKey:  appstore.FromConfig(cfg.AppStoreConnect),
		Dir:     cfg.Project.WorkingDirectory,
	}
}

// optionsPath is where the plist passed to xcodebuild lives.
func (a *ExportArchive) optionsPath() string {
	if a.OptionsPlist != "" {
		return a.OptionsPlist
	}
	return filepath.Join(filepath.Dir(a.ArchivePath), exportoptions.FileName)
}

func (a *ExportArchive) BuildCommand(context.Context) (command.Builder, error) {
	switch {
	case a.ArchivePath == "":
		return command.Builder{}, errors.MissingParameter("ExportArchive", "archive path")
	case a.ExportPath == "":
		return command.Builder{}, errors.MissingParameter("ExportArchive", "export path")
	case a.OptionsPlist == "" && a.Options == nil:
		return command.Builder{}, errors.MissingParameter("ExportArchive", "export options")
	}

	cmd := command.New("xcodebuild", "-exportArchive").
		AppendQuoted("-project", a.Project).
		AppendQuoted("-archivePath", a.ArchivePath).
		AppendQuoted("-exportPath", a.ExportPath).
		AppendQuoted("-exportOptionsPlist", a.optionsPath()).
		AppendIf("-allowProvisioningUpdates", a.AllowProvisioningUpdates)

	if !a.APIKey.IsZero() {
		if err := a.APIKey.Validate(); err != nil {
			return command.Builder{}, err
		}
		cmd = a.APIKey.XcodebuildArgs(cmd)
	}
	return pipefail(cmd), nil
}

func (a *ExportArchive) Run(ctx context.Context) (*ExportOutput, error) {
	cmd, err := a.BuildCommand(ctx)
	if err != nil {
		return nil, err
	}

	fs := a.FileSystem(ctx)
	if a.OptionsPlist == "" {
		path, err := a.Options.Write(fs, filepath.Dir(a.ArchivePath))
		if err != nil {
			return nil, err
		}
		a.generated = path
		a.Logger(ctx).WithField("path", path).Debug("Wrote export options")
	}

	res, err := a.Exec(ctx).Execute(ctx, cmd, a.Dir)
	if err != nil {
		return nil, err
	}

	return &ExportOutput{
		Result:     res,
		ExportPath: a.ExportPath,
		Packages:   findPackages(fs, a.ExportPath),
	}, nil
}

// CleanUp removes the generated options plist and, when RemoveArchive is
// set, the archive.
func (a *ExportArchive) CleanUp(ctx context.Context, _ error) error {
	fs := a.FileSystem(ctx)
	if a.generated != "" {
		if err := fs.Remove(a.generated); err != nil && !isNotExist(err) {
			return errors.FileOperation("remove", a.generated, err)
		}
		a.generated = ""
	}
	if a.RemoveArchive && a.ArchivePath != "" {
		if err := fs.RemoveAll(a.ArchivePath); err != nil {
			return errors.FileOperation("remove", a.ArchivePath, err)
		}
	}
	return nil
}

func findPackages(fs afero.Fs, dir string) []string {
	var packages []string
	for _, pattern := range []string{"*.ipa", "*.pkg"} {
		matches, err := afero.Glob(fs, filepath.Join(dir, pattern))
		if err == nil {
			packages = append(packages, matches...)
		}
	}
	sort.Strings(packages)
	return packages
}
