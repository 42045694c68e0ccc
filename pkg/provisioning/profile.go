// Package provisioning reads .mobileprovision files and knows where Xcode
// expects them to be installed.
package provisioning

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/grovetools/seedee/errors"
	"github.com/grovetools/seedee/pkg/plist"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
)

// Extension is the file extension Xcode uses for installed profiles.
const Extension = ".mobileprovision"

var validate = validator.New()

// Profile is the subset of a provisioning profile's payload seedee uses.
type Profile struct {
	Name                  string         `plist:"Name"`
	AppIDName             string         `plist:"AppIDName"`
	TeamName              string         `plist:"TeamName"`
	UUID                  string         `plist:"UUID" validate:"required"`
	TeamIdentifier        []string       `plist:"TeamIdentifier"`
	Platform              []string       `plist:"Platform"`
	ProvisionedDevices    []string       `plist:"ProvisionedDevices"`
	DeveloperCertificates [][]byte       `plist:"DeveloperCertificates"`
	Entitlements          map[string]any `plist:"Entitlements"`
	Version               int            `plist:"Version"`
	CreationDate          time.Time      `plist:"CreationDate"`
	ExpirationDate        time.Time      `plist:"ExpirationDate"`
}

// TeamID returns the first team identifier, or "".
func (p *Profile) TeamID() string {
	if len(p.TeamIdentifier) == 0 {
		return ""
	}
	return p.TeamIdentifier[0]
}

// Expired reports whether the profile has an expiration date before now.
func (p *Profile) Expired(now time.Time) bool {
	return !p.ExpirationDate.IsZero() && p.ExpirationDate.Before(now)
}

// FileName is the name Xcode looks the profile up by.
func (p *Profile) FileName() string {
	return p.UUID + Extension
}

// Parse decodes the property list embedded in a signed profile.
func Parse(data []byte) (*Profile, error) {
	payload, err := plist.Extract(data)
	if err != nil {
		return nil, err
	}
	dict, err := plist.UnmarshalDict(payload)
	if err != nil {
		return nil, err
	}

	var profile Profile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &profile,
		TagName:          "plist",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(dict); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if err := validate.Struct(&profile); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}
	return &profile, nil
}

// ParseFile reads and parses the profile at path.
func ParseFile(fs afero.Fs, path string) (*Profile, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.FileOperation("read", path, err)
	}
	profile, err := Parse(data)
	if err != nil {
		return nil, errors.ProfileInvalid(path, err)
	}
	return profile, nil
}

// InstallDir is where Xcode reads provisioning profiles from.
func InstallDir(home string) string {
	return filepath.Join(home, "Library", "MobileDevice", "Provisioning Profiles")
}

// InstallPath is the destination of p under home.
func InstallPath(home string, p *Profile) string {
	return filepath.Join(InstallDir(home), p.FileName())
}
