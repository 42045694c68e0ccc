package pipeline

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/grovetools/seedee/config"
	"github.com/grovetools/seedee/errors"
	"github.com/grovetools/seedee/logging"
	"github.com/grovetools/seedee/taskexec"
	"github.com/grovetools/seedee/testutil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedeeYAML = `
project:
  project: App.xcodeproj
  scheme: App
build:
  configuration: Release
  sdk: ios
pipelines:
  release:
    description: Archive and export
    steps:
      - action: select-xcode
        with:
          version: "15.4"
      - name: Archive
        action: build
        with:
          archive_path: build/App.xcarchive
          build_number: 42
      - action: shell
        with:
          script: echo done
`

func quiet() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func testContext(t *testing.T) (context.Context, *testutil.FakeExecutor) {
	t.Helper()
	testutil.IsolateHome(t)
	fake := testutil.NewFakeExecutor().On("which xcversion", testutil.Response{Stdout: "/usr/local/bin/xcversion"})
	ctx := taskexec.LoggerKey.With(context.Background(), quiet())
	ctx = taskexec.ExecutorKey.With(ctx, fake)
	ctx = taskexec.FileSystemKey.With(ctx, afero.NewMemMapFs())
	return ctx, fake
}

func loadConfig(t *testing.T, doc string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFromBytes([]byte(doc))
	require.NoError(t, err)
	return cfg
}

func TestLoadAndRun(t *testing.T) {
	ctx, fake := testContext(t)
	cfg := loadConfig(t, seedeeYAML)

	p, err := Load(cfg, "release")
	require.NoError(t, err)
	require.Len(t, p.Steps, 3)
	assert.Equal(t, []string{"select-xcode", "Archive", "shell"}, []string{p.Steps[0].Title, p.Steps[1].Title, p.Steps[2].Title})

	var out bytes.Buffer
	require.NoError(t, p.Run(ctx, NewStepper(quiet(), logging.NewPrettyLogger().WithWriter(&out))))

	assert.Equal(t, []string{
		"which xcversion",
		"xcversion select 15.4",
		"xcodebuild archive -archivePath build/App.xcarchive -project App.xcodeproj -scheme App " +
			"-destination generic/platform=iOS -configuration Release CURRENT_PROJECT_VERSION=42",
		"echo done",
	}, fake.Commands())
	assert.Contains(t, out.String(), "Step: Archive (started)")
	assert.Contains(t, out.String(), "Step: Archive (finished)")
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	ctx, fake := testContext(t)
	fake.On("xcodebuild", testutil.Response{ExitCode: 65, Stderr: "** ARCHIVE FAILED **"})
	cfg := loadConfig(t, seedeeYAML)

	p, err := Load(cfg, "release")
	require.NoError(t, err)

	var out bytes.Buffer
	err = p.Run(ctx, NewStepper(quiet(), logging.NewPrettyLogger().WithWriter(&out)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2 (Archive)")
	assert.Equal(t, errors.ErrCodeCommandFailed, errors.GetCode(err))

	assert.NotContains(t, fake.Commands(), "echo done")
	assert.Contains(t, out.String(), "Step: Archive (failed)")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown action", "pipelines:\n  ci:\n    steps:\n      - action: deploy\n"},
		{"unknown parameter", "pipelines:\n  ci:\n    steps:\n      - action: build\n        with:\n          archive: x\n"},
		{"invalid sdk", "pipelines:\n  ci:\n    steps:\n      - action: build\n        with:\n          sdk: tvos\n"},
		{"missing required", "pipelines:\n  ci:\n    steps:\n      - action: install-profile\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.IsolateHome(t)
			cfg := loadConfig(t, tt.doc)
			_, err := Load(cfg, "ci")
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation), "got %v", err)
			assert.Error(t, ValidateAll(cfg))
		})
	}
}

func TestLoadUnknownPipeline(t *testing.T) {
	testutil.IsolateHome(t)
	_, err := Load(loadConfig(t, seedeeYAML), "nightly")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestCommands(t *testing.T) {
	ctx, fake := testContext(t)
	p, err := Load(loadConfig(t, seedeeYAML), "release")
	require.NoError(t, err)

	commands, err := p.Commands(ctx)
	require.NoError(t, err)
	require.Len(t, commands, 3)
	assert.Equal(t, "xcversion select 15.4", commands[0].String())
	assert.Equal(t, "echo done", commands[2].String())
	assert.Empty(t, fake.Calls())
}

func TestActionNames(t *testing.T) {
	assert.Equal(t, []string{
		"build", "export", "install-profile", "pod-install", "select-xcode", "shell", "test", "upload",
	}, ActionNames())
}

func TestStepperReportsElapsed(t *testing.T) {
	testutil.IsolateHome(t)
	var out bytes.Buffer
	s := NewStepper(quiet(), logging.NewPrettyLogger().WithWriter(&out))

	err := s.Step(context.Background(), PhasePreRun, func(context.Context) error {
		time.Sleep(10 * time.Millisecond)
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Step: pre-run (started)")
	assert.Regexp(t, `Step: pre-run \(finished\).*\(\d+\.\d s\)`, out.String())
}
