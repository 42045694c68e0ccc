package actions

import (
	"context"
	"testing"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/errors"
	"github.com/grovetools/seedee/pkg/appstore"
	"github.com/grovetools/seedee/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeUpload() *UploadToAppStoreConnect {
	return &UploadToAppStoreConnect{
		PackagePath:        "/build/export/App.ipa",
		APIKey:             appstore.APIKey{KeyID: "K1", IssuerID: "I1"},
		BundleVersion:      "42",
		BundleID:           "com.example.app",
		BundleShortVersion: "1.2.0",
	}
}

func TestUploadCommand(t *testing.T) {
	a := completeUpload()
	a.AppleID = "1234567890"

	cmd, err := a.BuildCommand(newEnv(t).ctx)
	require.NoError(t, err)
	assert.Equal(t,
		"xcrun altool --upload-package /build/export/App.ipa --type ios --apiKey K1 --apiIssuer I1 "+
			"--apple-id 1234567890 --bundle-version 42 --bundle-id com.example.app --bundle-short-version-string 1.2.0",
		cmd.String())
}

func TestUploadMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*UploadToAppStoreConnect)
		field  string
	}{
		{"bundle version", func(a *UploadToAppStoreConnect) { a.BundleVersion = "" }, "bundle version"},
		{"bundle id", func(a *UploadToAppStoreConnect) { a.BundleID = "" }, "bundle ID"},
		{"short version", func(a *UploadToAppStoreConnect) { a.BundleShortVersion = "" }, "bundle short version"},
		{"package", func(a *UploadToAppStoreConnect) { a.PackagePath = "" }, "package path"},
		{"issuer", func(a *UploadToAppStoreConnect) { a.APIKey.IssuerID = "" }, "issuer_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := completeUpload()
			tt.mutate(a)

			_, err := action.Run[*command.Result](newEnv(t).ctx, a)
			require.Error(t, err)
			seedeeErr, ok := errors.AsSeedeeError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeMissingParameter, seedeeErr.Code)
			assert.Equal(t, tt.field, seedeeErr.Details["field"])
		})
	}
}

func TestUploadDerivesBundleFieldsFromBuildSettings(t *testing.T) {
	e := newEnv(t)
	e.exec.On("-showBuildSettings", testutil.Response{Stdout: showBuildSettings})

	a := &UploadToAppStoreConnect{
		ProjectRef:  ProjectRef{Project: "App.xcodeproj", Scheme: "App"},
		PackagePath: "/build/export/App.ipa",
		APIKey:      appstore.APIKey{KeyID: "K1", IssuerID: "I1"},
		BundleID:    "com.example.override",
	}
	_, err := action.Run[*command.Result](e.ctx, a)
	require.NoError(t, err)

	commands := e.exec.Commands()
	require.Len(t, commands, 2)
	assert.Contains(t, commands[1], "--bundle-version 42 --bundle-id com.example.override --bundle-short-version-string 1.2.0")
}

func TestUploadInstallsAndRemovesKey(t *testing.T) {
	e := newEnv(t)
	testutil.WriteFiles(t, e.fs, "/secrets", map[string]string{"key.p8": "PRIVATE"})

	a := completeUpload()
	a.APIKey.KeyPath = "/secrets/key.p8"

	var installedDuringRun bool
	e.exec.On("altool", testutil.Response{})
	_, err := action.RunWithCleanUp[*command.Result](e.ctx, &keyCheck{UploadToAppStoreConnect: a, seen: &installedDuringRun, fs: e.fs})
	require.NoError(t, err)

	assert.True(t, installedDuringRun)
	exists, _ := afero.Exists(e.fs, "/home/ci/.appstoreconnect/private_keys/AuthKey_K1.p8")
	assert.False(t, exists)
}

func TestUploadKeepsPreinstalledKey(t *testing.T) {
	const installed = "/home/ci/.appstoreconnect/private_keys/AuthKey_K1.p8"

	e := newEnv(t)
	testutil.WriteFiles(t, e.fs, "/home/ci/.appstoreconnect/private_keys", map[string]string{"AuthKey_K1.p8": "USER KEY"})
	e.exec.On("altool", testutil.Response{})

	a := completeUpload()
	a.APIKey.KeyPath = installed

	_, err := action.RunWithCleanUp[*command.Result](e.ctx, a)
	require.NoError(t, err)

	data, err := afero.ReadFile(e.fs, installed)
	require.NoError(t, err)
	assert.Equal(t, "USER KEY", string(data))
}

// keyCheck records whether the key was installed when the upload finished.
type keyCheck struct {
	*UploadToAppStoreConnect
	fs   afero.Fs
	seen *bool
}

func (k *keyCheck) Run(ctx context.Context) (*command.Result, error) {
	res, err := k.UploadToAppStoreConnect.Run(ctx)
	*k.seen, _ = afero.Exists(k.fs, "/home/ci/.appstoreconnect/private_keys/AuthKey_K1.p8")
	return res, err
}
