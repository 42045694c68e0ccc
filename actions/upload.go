package actions

import (
	"context"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/config"
	"github.com/grovetools/seedee/errors"
	"github.com/grovetools/seedee/pkg/appstore"
	"github.com/grovetools/seedee/taskexec"
)

// Build settings the bundle fields are derived from.
const (
	SettingBuildNumber   = "CURRENT_PROJECT_VERSION"
	SettingBundleID      = "PRODUCT_BUNDLE_IDENTIFIER"
	SettingMarketingName = "MARKETING_VERSION"
)

// UploadToAppStoreConnect uploads a package with `xcrun altool`. Missing
// bundle fields are read from the build settings when a project is given.
type UploadToAppStoreConnect struct {
	action.Base
	ProjectRef         `mapstructure:",squash"`
	Dir                string          `mapstructure:"working_directory"`
	Configuration      string          `mapstructure:"configuration"`
	PackagePath        string          `mapstructure:"package_path" validate:"required"`
	Type               string          `mapstructure:"type" validate:"omitempty,oneof=ios macos appletvos visionos"`
	APIKey             appstore.APIKey `mapstructure:"api_key" validate:"-"`
	AppleID            string          `mapstructure:"apple_id"`
	BundleVersion      string          `mapstructure:"bundle_version"`
	BundleID           string          `mapstructure:"bundle_id"`
	BundleShortVersion string          `mapstructure:"bundle_short_version"`

	installedKey string
}

// NewUpload seeds an upload from the project and app_store_connect sections
// of cfg. Key fields left empty there are read from the environment.
func NewUpload(cfg *config.Config) *UploadToAppStoreConnect {
	return &UploadToAppStoreConnect{
		ProjectRef:    projectRefFromConfig(cfg),
		Dir:           cfg.Project.WorkingDirectory,
		Configuration: cfg.Build.Configuration,
		APIKey:        appstore.FromConfig(cfg.AppStoreConnect).FromEnv(),
	}
}

func (a *UploadToAppStoreConnect) BuildCommand(context.Context) (command.Builder, error) {
	const name = "UploadToAppStoreConnect"
	switch {
	case a.PackagePath == "":
		return command.Builder{}, errors.MissingParameter(name, "package path")
	case a.BundleVersion == "":
		return command.Builder{}, errors.MissingParameter(name, "bundle version")
	case a.BundleID == "":
		return command.Builder{}, errors.MissingParameter(name, "bundle ID")
	case a.BundleShortVersion == "":
		return command.Builder{}, errors.MissingParameter(name, "bundle short version")
	}
	if err := a.APIKey.Validate(); err != nil {
		return command.Builder{}, err
	}

	platform := a.Type
	if platform == "" {
		platform = "ios"
	}

	cmd := command.New("xcrun", "altool", "--upload-package").
		Append(command.Quote(a.PackagePath)).
		AppendValue("--type", platform).
		AppendValue("--apiKey", a.APIKey.KeyID).
		AppendValue("--apiIssuer", a.APIKey.IssuerID).
		AppendValue("--apple-id", a.AppleID).
		AppendValue("--bundle-version", a.BundleVersion).
		AppendValue("--bundle-id", a.BundleID).
		AppendQuoted("--bundle-short-version-string", a.BundleShortVersion)
	return cmd, nil
}

func (a *UploadToAppStoreConnect) Run(ctx context.Context) (*command.Result, error) {
	if err := a.fillFromBuildSettings(ctx); err != nil {
		return nil, err
	}
	cmd, err := a.BuildCommand(ctx)
	if err != nil {
		return nil, err
	}

	installed, err := a.APIKey.Install(a.FileSystem(ctx), taskexec.HomeDir(ctx))
	if err != nil {
		return nil, err
	}
	a.installedKey = installed

	return a.Exec(ctx).Execute(ctx, cmd, a.Dir)
}

// CleanUp removes the API key copied for altool. A key that was already
// installed before Run is left alone.
func (a *UploadToAppStoreConnect) CleanUp(ctx context.Context, _ error) error {
	if a.installedKey == "" {
		return nil
	}
	if err := a.FileSystem(ctx).Remove(a.installedKey); err != nil && !isNotExist(err) {
		return errors.FileOperation("remove", a.installedKey, err)
	}
	a.installedKey = ""
	return nil
}

func (a *UploadToAppStoreConnect) fillFromBuildSettings(ctx context.Context) error {
	if a.BundleVersion != "" && a.BundleID != "" && a.BundleShortVersion != "" {
		return nil
	}
	if a.IsZero() {
		// BuildCommand reports the first missing field.
		return nil
	}

	settings, err := action.Run[Settings](ctx, &BuildSettings{
		Base:          a.Base,
		ProjectRef:    a.ProjectRef,
		Dir:           a.Dir,
		Configuration: a.Configuration,
	})
	if err != nil {
		return err
	}

	fill := func(field *string, key string) {
		if *field == "" {
			*field, _ = settings.Get(key)
		}
	}
	fill(&a.BundleVersion, SettingBuildNumber)
	fill(&a.BundleID, SettingBundleID)
	fill(&a.BundleShortVersion, SettingMarketingName)
	return nil
}
