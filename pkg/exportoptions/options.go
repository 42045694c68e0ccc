// Package exportoptions models the exportOptions.plist consumed by
// `xcodebuild -exportArchive`.
package exportoptions

import (
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/grovetools/seedee/config"
	"github.com/grovetools/seedee/errors"
	"github.com/grovetools/seedee/pkg/plist"
	"github.com/spf13/afero"
)

// Methods accepted by xcodebuild.
const (
	MethodAppStore       = "app-store"
	MethodAdHoc          = "ad-hoc"
	MethodEnterprise     = "enterprise"
	MethodDevelopment    = "development"
	MethodDeveloperID    = "developer-id"
	MethodPackage        = "package"
	MethodMacApplication = "mac-application"
)

// Special thinning values; any other value names a device.
const (
	ThinningNone        = "<none>"
	ThinningAllVariants = "<thin-for-all-variants>"
)

// FileName is the name of the generated file.
const FileName = "ExportOptions.plist"

var validate = validator.New()

// Manifest configures over-the-air installation for ad-hoc and enterprise
// exports.
type Manifest struct {
	AppURL               string `validate:"required,url"`
	DisplayImageURL      string `validate:"omitempty,url"`
	FullSizeImageURL     string `validate:"omitempty,url"`
	AssetPackManifestURL string `validate:"omitempty,url"`
}

// Options mirrors the keys documented by `xcodebuild -help`. Unset pointers
// and empty strings are left out of the plist so xcodebuild applies its own
// defaults.
type Options struct {
	Method       string `validate:"required,oneof=app-store ad-hoc enterprise development developer-id package mac-application"`
	Destination  string `validate:"omitempty,oneof=export upload"`
	SigningStyle string `validate:"omitempty,oneof=automatic manual"`
	TeamID       string

	CompileBitcode                 *bool
	StripSwiftSymbols              *bool
	UploadSymbols                  *bool
	ManageAppVersionAndBuildNumber *bool

	DistributionBundleIdentifier string
	ProvisioningProfiles         map[string]string
	Manifest                     *Manifest
	Thinning                     string

	SigningCertificate          string
	InstallerSigningCertificate string

	EmbedOnDemandResourcesAssetPacksInBundle *bool
	GenerateAppStoreInformation              *bool
	OnDemandResourcesAssetPacksBaseURL       string `validate:"omitempty,url"`
	ICloudContainerEnvironment               string `validate:"omitempty,oneof=Development Production"`
}

// FromConfig builds Options from the export section of seedee.yml.
func FromConfig(cfg *config.ExportConfig) Options {
	if cfg == nil {
		return Options{Method: MethodDevelopment}
	}
	return Options{
		Method:               cfg.Method,
		Destination:          cfg.Destination,
		SigningStyle:         cfg.SigningStyle,
		TeamID:               cfg.TeamID,
		ProvisioningProfiles: cfg.ProvisioningProfiles,
	}
}

// Validate checks the options xcodebuild would otherwise reject late.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid export options")
	}
	if o.Manifest != nil && o.Method != MethodAdHoc && o.Method != MethodEnterprise {
		return errors.InvalidInput(fmt.Sprintf("manifest requires method ad-hoc or enterprise, not %s", o.Method))
	}
	return nil
}

// Dict returns the plist dictionary.
func (o Options) Dict() map[string]any {
	dict := map[string]any{"method": o.Method}

	setString(dict, "destination", o.Destination)
	setString(dict, "signingStyle", o.SigningStyle)
	setString(dict, "teamID", o.TeamID)
	setString(dict, "distributionBundleIdentifier", o.DistributionBundleIdentifier)
	setString(dict, "thinning", o.Thinning)
	setString(dict, "signingCertificate", o.SigningCertificate)
	setString(dict, "installerSigningCertificate", o.InstallerSigningCertificate)
	setString(dict, "onDemandResourcesAssetPacksBaseURL", o.OnDemandResourcesAssetPacksBaseURL)
	setString(dict, "iCloudContainerEnvironment", o.ICloudContainerEnvironment)

	setBool(dict, "compileBitcode", o.CompileBitcode)
	setBool(dict, "stripSwiftSymbols", o.StripSwiftSymbols)
	setBool(dict, "uploadSymbols", o.UploadSymbols)
	setBool(dict, "manageAppVersionAndBuildNumber", o.ManageAppVersionAndBuildNumber)
	setBool(dict, "embedOnDemandResourcesAssetPacksInBundle", o.EmbedOnDemandResourcesAssetPacksInBundle)
	setBool(dict, "generateAppStoreInformation", o.GenerateAppStoreInformation)

	if len(o.ProvisioningProfiles) > 0 {
		dict["provisioningProfiles"] = o.ProvisioningProfiles
	}
	if m := o.Manifest; m != nil {
		manifest := map[string]any{"appURL": m.AppURL}
		setString(manifest, "displayImageURL", m.DisplayImageURL)
		setString(manifest, "fullSizeImageURL", m.FullSizeImageURL)
		setString(manifest, "assetPackManifestURL", m.AssetPackManifestURL)
		dict["manifest"] = manifest
	}
	return dict
}

// Marshal validates o and encodes it as a property list.
func (o Options) Marshal() ([]byte, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return plist.Marshal(o.Dict())
}

// Write stores the plist in dir and returns its path.
func (o Options) Write(fs afero.Fs, dir string) (string, error) {
	data, err := o.Marshal()
	if err != nil {
		return "", err
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", errors.FileOperation("create", dir, err)
	}
	path := filepath.Join(dir, FileName)
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return "", errors.FileOperation("write", path, err)
	}
	return path, nil
}

// Bool returns a pointer to b, for the optional switches.
func Bool(b bool) *bool { return &b }

func setString(dict map[string]any, key, value string) {
	if value != "" {
		dict[key] = value
	}
}

func setBool(dict map[string]any, key string, value *bool) {
	if value != nil {
		dict[key] = *value
	}
}
