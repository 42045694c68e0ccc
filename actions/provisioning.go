package actions

import (
	"context"
	"path/filepath"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/errors"
	"github.com/grovetools/seedee/pkg/provisioning"
	"github.com/grovetools/seedee/taskexec"
	"github.com/spf13/afero"
)

// AddProvisioningProfile installs a .mobileprovision file where Xcode looks
// for it, under its UUID.
type AddProvisioningProfile struct {
	action.Base
	Path string `mapstructure:"path" validate:"required"`

	installed string
}

func (a *AddProvisioningProfile) Run(ctx context.Context) (*provisioning.Profile, error) {
	if a.Path == "" {
		return nil, errors.MissingParameter("AddProvisioningProfile", "path")
	}

	fs := a.FileSystem(ctx)
	profile, err := provisioning.ParseFile(fs, a.Path)
	if err != nil {
		return nil, err
	}

	dest := provisioning.InstallPath(taskexec.HomeDir(ctx), profile)
	if err := copyFile(fs, a.Path, dest); err != nil {
		return nil, err
	}
	a.installed = dest

	a.Logger(ctx).
		WithField("name", profile.Name).
		WithField("uuid", profile.UUID).
		WithField("path", dest).
		Info("Installed provisioning profile")
	return profile, nil
}

// CleanUp removes the installed copy when the run failed. A successful
// install is left for the steps that follow.
func (a *AddProvisioningProfile) CleanUp(ctx context.Context, cause error) error {
	if cause == nil || a.installed == "" {
		return nil
	}
	if err := a.FileSystem(ctx).Remove(a.installed); err != nil && !isNotExist(err) {
		return errors.FileOperation("remove", a.installed, err)
	}
	a.installed = ""
	return nil
}

func copyFile(fs afero.Fs, src, dest string) error {
	data, err := afero.ReadFile(fs, src)
	if err != nil {
		return errors.FileOperation("read", src, err)
	}
	if err := fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.FileOperation("create", filepath.Dir(dest), err)
	}
	if err := afero.WriteFile(fs, dest, data, 0o644); err != nil {
		return errors.FileOperation("write", dest, err)
	}
	return nil
}
