package actions

import (
	"context"
	"testing"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/errors"
	"github.com/grovetools/seedee/pkg/appstore"
	"github.com/grovetools/seedee/pkg/exportoptions"
	"github.com/grovetools/seedee/pkg/plist"
	"github.com/grovetools/seedee/taskexec"
	"github.com/grovetools/seedee/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCommand(t *testing.T) {
	a := &ExportArchive{
		Project:                  "App.xcodeproj",
		ArchivePath:              "/build/App.xcarchive",
		ExportPath:               "/build/export",
		OptionsPlist:             "/ci/ExportOptions.plist",
		AllowProvisioningUpdates: true,
		APIKey:                   appstore.APIKey{KeyID: "K1", IssuerID: "I1", KeyPath: "/keys/AuthKey_K1.p8"},
	}
	cmd, err := a.BuildCommand(context.Background())
	require.NoError(t, err)
	assert.Equal(t,
		"set -o pipefail && xcodebuild -exportArchive -project App.xcodeproj "+
			"-archivePath /build/App.xcarchive -exportPath /build/export "+
			"-exportOptionsPlist /ci/ExportOptions.plist -allowProvisioningUpdates "+
			"-authenticationKeyPath /keys/AuthKey_K1.p8 -authenticationKeyID K1 -authenticationKeyIssuerID I1",
		cmd.String())
}

func TestExportCommandMissingParameters(t *testing.T) {
	tests := []struct {
		name   string
		action ExportArchive
	}{
		{"archive", ExportArchive{ExportPath: "/out", OptionsPlist: "/o.plist"}},
		{"export path", ExportArchive{ArchivePath: "/a.xcarchive", OptionsPlist: "/o.plist"}},
		{"options", ExportArchive{ArchivePath: "/a.xcarchive", ExportPath: "/out"}},
		{"partial api key", ExportArchive{ArchivePath: "/a.xcarchive", ExportPath: "/out", OptionsPlist: "/o.plist", APIKey: appstore.APIKey{KeyID: "K"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.action
			_, err := a.BuildCommand(context.Background())
			assert.True(t, errors.Is(err, errors.ErrCodeMissingParameter), "got %v", err)
		})
	}
}

func TestExportWritesAndRemovesGeneratedPlist(t *testing.T) {
	e := newEnv(t)
	testutil.WriteFiles(t, e.fs, "/build", map[string]string{
		"App.xcarchive/Info.plist": "x",
		"export/App.ipa":           "ipa",
	})

	var seen map[string]any
	probe := &plistProbe{fs: e.fs, path: "/build/ExportOptions.plist", seen: &seen}
	ctx := contextWithProbe(e, probe)

	a := &ExportArchive{
		ArchivePath:   "/build/App.xcarchive",
		ExportPath:    "/build/export",
		Options:       &exportoptions.Options{Method: exportoptions.MethodAppStore, Destination: "export"},
		RemoveArchive: true,
	}

	out, err := action.RunWithCleanUp[*ExportOutput](ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []string{"/build/export/App.ipa"}, out.Packages)
	assert.Equal(t, map[string]any{"method": "app-store", "destination": "export"}, seen)

	exists, _ := afero.Exists(e.fs, "/build/ExportOptions.plist")
	assert.False(t, exists, "generated plist should be removed")
	exists, _ = afero.Exists(e.fs, "/build/App.xcarchive")
	assert.False(t, exists, "archive should be removed")
}

func TestExportCleansUpAfterFailure(t *testing.T) {
	e := newEnv(t)
	e.exec.On("-exportArchive", failure(70, "error: exportArchive: No signing certificate"))

	a := &ExportArchive{
		ArchivePath: "/build/App.xcarchive",
		ExportPath:  "/build/export",
		Options:     &exportoptions.Options{Method: exportoptions.MethodAdHoc},
	}
	_, err := action.RunWithCleanUp[*ExportOutput](e.ctx, a)
	require.Error(t, err)

	exists, _ := afero.Exists(e.fs, "/build/ExportOptions.plist")
	assert.False(t, exists)
}

func TestExportRejectsInvalidOptions(t *testing.T) {
	e := newEnv(t)
	a := &ExportArchive{
		ArchivePath: "/build/App.xcarchive",
		ExportPath:  "/build/export",
		Options:     &exportoptions.Options{Method: "ah-hoc"},
	}
	_, err := action.RunWithCleanUp[*ExportOutput](e.ctx, a)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	assert.Empty(t, e.exec.Calls())
}

// plistProbe captures the options plist while xcodebuild would be running.
type plistProbe struct {
	*testutil.FakeExecutor
	fs   afero.Fs
	path string
	seen *map[string]any
}

func (p *plistProbe) Execute(ctx context.Context, cmd command.Builder, dir string) (*command.Result, error) {
	if data, err := afero.ReadFile(p.fs, p.path); err == nil {
		*p.seen, _ = plist.UnmarshalDict(data)
	}
	return p.FakeExecutor.Execute(ctx, cmd, dir)
}

func contextWithProbe(e *env, p *plistProbe) context.Context {
	p.FakeExecutor = e.exec
	return taskexec.ExecutorKey.With(e.ctx, p)
}
