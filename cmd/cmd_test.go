package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/seedee/errors"
	"github.com/grovetools/seedee/taskexec"
	"github.com/grovetools/seedee/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectYAML = `
project:
  project: App.xcodeproj
  scheme: App
build:
  configuration: Release
pipelines:
  release:
    description: Archive and announce
    steps:
      - name: Archive
        action: build
        with:
          archive_path: build/App.xcarchive
          sdk: ios
      - action: shell
        with:
          script: echo done
`

type harness struct {
	ctx    context.Context
	exec   *testutil.FakeExecutor
	fs     afero.Fs
	config string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	testutil.IsolateHome(t)
	t.Setenv("SEEDEE_LOG_LEVEL", "error")

	dir := t.TempDir()
	path := filepath.Join(dir, "seedee.yml")
	require.NoError(t, os.WriteFile(path, []byte(projectYAML), 0o644))

	h := &harness{exec: testutil.NewFakeExecutor(), fs: afero.NewMemMapFs(), config: path}
	ctx := taskexec.New().Attach(context.Background())
	ctx = taskexec.ExecutorKey.With(ctx, h.exec)
	ctx = taskexec.FileSystemKey.With(ctx, h.fs)
	ctx = taskexec.HomeDirKey.With(ctx, "/home/ci")
	h.ctx = ctx
	return h
}

func (h *harness) run(args ...string) (string, error) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", h.config}, args...))
	err := root.ExecuteContext(h.ctx)
	return out.String(), err
}

func TestBuildCommandRunsXcodebuild(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("build", "--clean", "--sdk", "ios", "--build-number", "42")
	require.NoError(t, err)

	cmds := h.exec.Commands()
	require.Len(t, cmds, 1)
	assert.True(t, strings.HasPrefix(cmds[0], "xcodebuild clean build -project App.xcodeproj -scheme App"), cmds[0])
	assert.Contains(t, cmds[0], "-destination generic/platform=iOS -configuration Release")
	assert.Contains(t, cmds[0], "-configuration Release")
	assert.Contains(t, cmds[0], "CURRENT_PROJECT_VERSION=42")
	assert.Contains(t, out, "Step: run (finished)")
	assert.NotContains(t, out, "pre-run")
}

func TestBuildPreRunSelectsXcodeAndInstallsPods(t *testing.T) {
	h := newHarness(t)
	h.exec.On("which xcversion", testutil.Response{Stdout: "/usr/local/bin/xcversion\n"})

	out, err := h.run("build", "--cocoapods", "--xcode-version", "15.2")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"which xcversion",
		"xcversion select 15.2",
		"pod install",
	}, h.exec.Commands()[:3])
	assert.Contains(t, h.exec.Commands()[3], "xcodebuild build")
	assert.Contains(t, out, "Step: pre-run (finished)")
}

func TestBuildFailureStopsAndReturnsExitError(t *testing.T) {
	h := newHarness(t)
	h.exec.On("xcodebuild", testutil.Response{ExitCode: 65, Stderr: "error: no signing team\n"})

	out, err := h.run("build", "--archive-path", "build/App.xcarchive")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeCommandFailed))
	assert.Contains(t, out, "Step: run (failed)")
	assert.NotContains(t, out, "post-run")
}

func TestBuildDryRunDoesNotExecute(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("build", "--dry-run", "--build-for-testing")
	require.NoError(t, err)
	assert.Empty(t, h.exec.Commands())
	assert.Contains(t, out, "xcodebuild build-for-testing")
}

func TestTestCommandListsResultBundles(t *testing.T) {
	h := newHarness(t)
	testutil.WriteFiles(t, h.fs, "/dd", map[string]string{
		"Logs/Test/Run-App.xcresult/Info.plist": "x",
	})

	out, err := h.run("test", "--derived-data-path", "/dd", "--test-without-building",
		"--destination", "platform=iOS Simulator,name=iPhone 15")
	require.NoError(t, err)

	cmds := h.exec.Commands()
	require.Len(t, cmds, 1)
	assert.True(t, strings.HasPrefix(cmds[0], "xcodebuild test-without-building"), cmds[0])
	assert.Contains(t, cmds[0], "-destination 'platform=iOS Simulator,name=iPhone 15'")
	assert.Contains(t, out, "/dd/Logs/Test/Run-App.xcresult")
}

func TestRunPipeline(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("run", "release")
	require.NoError(t, err)

	cmds := h.exec.Commands()
	require.Len(t, cmds, 2)
	assert.Contains(t, cmds[0], "xcodebuild archive -archivePath build/App.xcarchive")
	assert.Equal(t, "echo done", cmds[1])
	assert.Contains(t, out, "Step: Archive (finished)")
}

func TestRunPipelineDryRunAndList(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("run", "release", "--dry-run")
	require.NoError(t, err)
	assert.Empty(t, h.exec.Commands())
	assert.Contains(t, out, "xcodebuild archive")
	assert.Contains(t, out, "echo done")

	out, err = h.run("run", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "release\tArchive and announce")
}

func TestRunUnknownPipeline(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("run", "nightly")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestConfigSubcommands(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	out, err = h.run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# Source: "+h.config)
	assert.Contains(t, out, "scheme: App")

	out, err = h.run("config", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"Seedee Configuration"`)
}

func TestConfigValidateRejectsBadStep(t *testing.T) {
	h := newHarness(t)
	bad := filepath.Join(t.TempDir(), "seedee.yml")
	require.NoError(t, os.WriteFile(bad, []byte(`
pipelines:
  broken:
    steps:
      - action: export
        with:
          archive_path: build/App.xcarchive
          no_such_option: true
`), 0o644))
	h.config = bad

	_, err := h.run("config", "validate")
	assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation))
}

func TestExecuteReturnsExitCode(t *testing.T) {
	testutil.IsolateHome(t)
	var missing = filepath.Join(t.TempDir(), "missing.yml")

	assert.Equal(t, 1, Execute(context.Background(), []string{"config", "show", "--config", missing}))
	assert.Equal(t, 0, Execute(context.Background(), []string{"version"}))
}
