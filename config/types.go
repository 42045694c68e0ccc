package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

//go:generate go run ../tools/schema-generator/ -o ../schema/seedee.schema.json

// Formats understood by the loader.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// SDK names accepted by build.sdk.
const (
	SDKiOSSimulator = "ios-simulator"
	SDKiOS          = "ios"
	SDKmacOS        = "macos"
)

// DefaultTestDestination is used when neither the config nor the command
// line picks a simulator.
const DefaultTestDestination = "platform=iOS Simulator,name=iPhone 14"

// Config is the parsed seedee.yml.
type Config struct {
	Project         ProjectConfig          `yaml:"project,omitempty" toml:"project,omitempty" jsonschema:"description=Where the Xcode project lives"`
	Build           BuildConfig            `yaml:"build,omitempty" toml:"build,omitempty" jsonschema:"description=xcodebuild build options"`
	Test            TestConfig             `yaml:"test,omitempty" toml:"test,omitempty" jsonschema:"description=xcodebuild test options"`
	Xcode           XcodeConfig            `yaml:"xcode,omitempty" toml:"xcode,omitempty" jsonschema:"description=Xcode selection"`
	CocoaPods       CocoaPodsConfig        `yaml:"cocoapods,omitempty" toml:"cocoapods,omitempty" jsonschema:"description=CocoaPods integration"`
	AppStoreConnect *AppStoreConnectConfig `yaml:"app_store_connect,omitempty" toml:"app_store_connect,omitempty" jsonschema:"description=App Store Connect API key"`
	Export          *ExportConfig          `yaml:"export,omitempty" toml:"export,omitempty" jsonschema:"description=Archive export options"`
	Pipelines       map[string]Pipeline    `yaml:"pipelines,omitempty" toml:"pipelines,omitempty" validate:"dive" jsonschema:"description=Named step sequences run by 'seedee run'"`

	// Extensions captures all other top-level keys for extensibility.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-" toml:"-" json:"-" jsonschema:"-"`
}

type ProjectConfig struct {
	WorkingDirectory string `yaml:"working_directory,omitempty" toml:"working_directory,omitempty" jsonschema:"description=Directory xcodebuild runs in"`
	Project          string `yaml:"project,omitempty" toml:"project,omitempty" validate:"omitempty,endswith=.xcodeproj,excluded_with=Workspace" jsonschema:"description=Path to the .xcodeproj"`
	Workspace        string `yaml:"workspace,omitempty" toml:"workspace,omitempty" validate:"omitempty,endswith=.xcworkspace" jsonschema:"description=Path to the .xcworkspace"`
	Scheme           string `yaml:"scheme,omitempty" toml:"scheme,omitempty" jsonschema:"description=Scheme to build"`
}

type BuildConfig struct {
	Configuration   string `yaml:"configuration,omitempty" toml:"configuration,omitempty" jsonschema:"description=Build configuration such as Debug or Release"`
	SDK             string `yaml:"sdk,omitempty" toml:"sdk,omitempty" validate:"omitempty,oneof=ios-simulator ios macos" jsonschema:"enum=ios-simulator,enum=ios,enum=macos"`
	Formatter       string `yaml:"formatter,omitempty" toml:"formatter,omitempty" validate:"omitempty,oneof=none xcpretty xcbeautify" jsonschema:"enum=none,enum=xcpretty,enum=xcbeautify"`
	DerivedDataPath string `yaml:"derived_data_path,omitempty" toml:"derived_data_path,omitempty" jsonschema:"description=Passed as -derivedDataPath"`
	Clean           bool   `yaml:"clean,omitempty" toml:"clean,omitempty" jsonschema:"description=Run a clean build"`
}

type TestConfig struct {
	Destination     string `yaml:"destination,omitempty" toml:"destination,omitempty" jsonschema:"description=xcodebuild -destination specifier"`
	WithoutBuilding bool   `yaml:"without_building,omitempty" toml:"without_building,omitempty" jsonschema:"description=Use test-without-building"`
}

type XcodeConfig struct {
	Version string `yaml:"version,omitempty" toml:"version,omitempty" jsonschema:"description=Xcode version selected with xcversion"`
}

type CocoaPodsConfig struct {
	Enabled    bool `yaml:"enabled,omitempty" toml:"enabled,omitempty" jsonschema:"description=Run pod install before building"`
	RepoUpdate bool `yaml:"repo_update,omitempty" toml:"repo_update,omitempty" jsonschema:"description=Pass --repo-update to pod install"`
}

type AppStoreConnectConfig struct {
	KeyID    string `yaml:"key_id,omitempty" toml:"key_id,omitempty" validate:"required" jsonschema:"description=Private key ID"`
	IssuerID string `yaml:"issuer_id,omitempty" toml:"issuer_id,omitempty" validate:"required" jsonschema:"description=Issuer ID from the API Keys page"`
	KeyPath  string `yaml:"key_path,omitempty" toml:"key_path,omitempty" jsonschema:"description=Path to the .p8 key file"`
}

type ExportConfig struct {
	Method               string            `yaml:"method,omitempty" toml:"method,omitempty" validate:"omitempty,oneof=app-store ad-hoc enterprise development developer-id package mac-application" jsonschema:"enum=app-store,enum=ad-hoc,enum=enterprise,enum=development,enum=developer-id,enum=package,enum=mac-application"`
	SigningStyle         string            `yaml:"signing_style,omitempty" toml:"signing_style,omitempty" validate:"omitempty,oneof=automatic manual" jsonschema:"enum=automatic,enum=manual"`
	TeamID               string            `yaml:"team_id,omitempty" toml:"team_id,omitempty" jsonschema:"description=Signing team"`
	Destination          string            `yaml:"destination,omitempty" toml:"destination,omitempty" validate:"omitempty,oneof=export upload" jsonschema:"enum=export,enum=upload"`
	ProvisioningProfiles map[string]string `yaml:"provisioning_profiles,omitempty" toml:"provisioning_profiles,omitempty" jsonschema:"description=Bundle identifier to profile name"`
}

// Pipeline is an ordered list of steps run by `seedee run <name>`.
type Pipeline struct {
	Description string `yaml:"description,omitempty" toml:"description,omitempty"`
	Steps       []Step `yaml:"steps,omitempty" toml:"steps,omitempty" validate:"required,min=1,dive"`
}

// Step names an action and the parameters it is decoded from.
type Step struct {
	Name   string                 `yaml:"name,omitempty" toml:"name,omitempty"`
	Action string                 `yaml:"action,omitempty" toml:"action,omitempty" validate:"required"`
	With   map[string]interface{} `yaml:"with,omitempty" toml:"with,omitempty"`
}

// Title is the step name, or its action when unnamed.
func (s Step) Title() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Action
}

// SetDefaults fills in the values xcodebuild would otherwise pick
// inconsistently across machines.
func (c *Config) SetDefaults() {
	if c.Build.Configuration == "" {
		c.Build.Configuration = "Debug"
	}
	if c.Build.SDK == "" {
		c.Build.SDK = SDKiOSSimulator
	}
	if c.Build.Formatter == "" {
		c.Build.Formatter = "none"
	}
	if c.Test.Destination == "" {
		c.Test.Destination = DefaultTestDestination
	}
	if c.Export != nil {
		if c.Export.Method == "" {
			c.Export.Method = "development"
		}
		if c.Export.SigningStyle == "" {
			c.Export.SigningStyle = "automatic"
		}
		if c.Export.Destination == "" {
			c.Export.Destination = "export"
		}
	}
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded seedee.yml into the provided target struct. The target must be a
// pointer. A missing key leaves the target untouched.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension '%s': %w", key, err)
	}

	return nil
}
