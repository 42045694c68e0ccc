// Package appstore holds App Store Connect API credentials as used by
// xcodebuild and altool.
package appstore

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/config"
	"github.com/grovetools/seedee/errors"
	"github.com/grovetools/seedee/pkg/paths"
	"github.com/spf13/afero"
)

// Environment variables read by FromEnv.
const (
	EnvKeyID    = "APP_STORE_CONNECT_KEY_ID"
	EnvIssuerID = "APP_STORE_CONNECT_ISSUER_ID"
	EnvKeyPath  = "APP_STORE_CONNECT_KEY_PATH"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		return name
	})
	return v
}

// APIKey identifies an App Store Connect API key.
type APIKey struct {
	KeyID    string `yaml:"key_id" mapstructure:"key_id" validate:"required"`
	IssuerID string `yaml:"issuer_id" mapstructure:"issuer_id" validate:"required"`
	// KeyPath is the .p8 file. altool only finds keys installed under a
	// private_keys directory, see Install.
	KeyPath string `yaml:"key_path" mapstructure:"key_path"`
}

// FromConfig copies the app_store_connect section. A nil section yields a
// zero key.
func FromConfig(cfg *config.AppStoreConnectConfig) APIKey {
	if cfg == nil {
		return APIKey{}
	}
	return APIKey{KeyID: cfg.KeyID, IssuerID: cfg.IssuerID, KeyPath: paths.Expand(cfg.KeyPath)}
}

// FromEnv fills empty fields of k from the environment.
func (k APIKey) FromEnv() APIKey {
	if k.KeyID == "" {
		k.KeyID = os.Getenv(EnvKeyID)
	}
	if k.IssuerID == "" {
		k.IssuerID = os.Getenv(EnvIssuerID)
	}
	if k.KeyPath == "" {
		k.KeyPath = paths.Expand(os.Getenv(EnvKeyPath))
	}
	return k
}

// IsZero reports whether no part of the key was given.
func (k APIKey) IsZero() bool {
	return k == APIKey{}
}

// Validate returns MISSING_PARAMETER naming the first absent field.
func (k APIKey) Validate() error {
	err := validate.Struct(k)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return errors.MissingParameter("App Store Connect API key", fieldErrs[0].Field())
	}
	return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid App Store Connect API key")
}

// FileName is the name altool searches for.
func (k APIKey) FileName() string {
	return fmt.Sprintf("AuthKey_%s.p8", k.KeyID)
}

// PrivateKeysDir is the directory under home that altool searches.
func PrivateKeysDir(home string) string {
	return filepath.Join(home, ".appstoreconnect", "private_keys")
}

// Install copies KeyPath into PrivateKeysDir and returns the destination.
// It returns "" when KeyPath is empty or a key with the same file name is
// already installed; only a non-empty result is the caller's to remove.
func (k APIKey) Install(fs afero.Fs, home string) (string, error) {
	if k.KeyPath == "" {
		return "", nil
	}
	dir := PrivateKeysDir(home)
	dest := filepath.Join(dir, k.FileName())
	if filepath.Clean(k.KeyPath) == dest {
		return "", nil
	}
	exists, err := afero.Exists(fs, dest)
	if err != nil {
		return "", errors.FileOperation("stat", dest, err)
	}
	if exists {
		return "", nil
	}

	data, err := afero.ReadFile(fs, k.KeyPath)
	if err != nil {
		return "", errors.FileOperation("read", k.KeyPath, err)
	}
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return "", errors.FileOperation("create", dir, err)
	}
	if err := afero.WriteFile(fs, dest, data, 0o600); err != nil {
		return "", errors.FileOperation("write", dest, err)
	}
	return dest, nil
}

// XcodebuildArgs appends the -authenticationKey* flags. Absent values are
// skipped.
func (k APIKey) XcodebuildArgs(cmd command.Builder) command.Builder {
	return cmd.
		AppendQuoted("-authenticationKeyPath", k.KeyPath).
		AppendValue("-authenticationKeyID", k.KeyID).
		AppendValue("-authenticationKeyIssuerID", k.IssuerID)
}
