package actions

import (
	"testing"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/config"
	"github.com/grovetools/seedee/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCommand(t *testing.T) {
	tests := []struct {
		name   string
		action BuildXcodeProject
		want   []string
	}{
		{
			name:   "plain build",
			action: BuildXcodeProject{ProjectRef: ProjectRef{Project: "App.xcodeproj", Scheme: "App"}},
			want:   []string{"xcodebuild", "build", "-project", "App.xcodeproj", "-scheme", "App"},
		},
		{
			name: "archive for device",
			action: BuildXcodeProject{
				ProjectRef:    ProjectRef{Project: "App.xcodeproj", Scheme: "App"},
				ArchivePath:   "build/App.xcarchive",
				SDK:           config.SDKiOS,
				Configuration: "Release",
				BuildNumber:   "42",
			},
			want: []string{
				"xcodebuild", "archive", "-archivePath", "build/App.xcarchive",
				"-project", "App.xcodeproj", "-scheme", "App",
				"-destination", "generic/platform=iOS",
				"-configuration", "Release",
				"CURRENT_PROJECT_VERSION=42",
			},
		},
		{
			name: "clean build for testing in workspace",
			action: BuildXcodeProject{
				ProjectRef:      ProjectRef{Project: "App.xcodeproj", Workspace: "App.xcworkspace", Scheme: "App"},
				BuildForTesting: true,
				Clean:           true,
				SDK:             config.SDKiOSSimulator,
				DerivedDataPath: "/tmp/Derived Data",
			},
			want: []string{
				"xcodebuild", "clean", "build-for-testing",
				"-workspace", "App.xcworkspace", "-scheme", "App",
				"-destination", "'generic/platform=iOS Simulator'",
				"-derivedDataPath", "'/tmp/Derived Data'",
			},
		},
		{
			name: "explicit destination wins over sdk",
			action: BuildXcodeProject{
				ProjectRef:  ProjectRef{Project: "App.xcodeproj"},
				SDK:         config.SDKmacOS,
				Destination: "platform=macOS",
			},
			want: []string{"xcodebuild", "build", "-project", "App.xcodeproj", "-destination", "platform=macOS"},
		},
		{
			name: "formatter",
			action: BuildXcodeProject{
				ProjectRef: ProjectRef{Project: "App.xcodeproj"},
				Formatter:  FormatterXcpretty,
			},
			want: []string{"set", "-o", "pipefail", "&&", "xcodebuild", "build", "-project", "App.xcodeproj", "|", "xcpretty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.action
			got, err := a.BuildCommand(newEnv(t).ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Tokens())
		})
	}
}

func TestBuildRequiresProject(t *testing.T) {
	_, err := (&BuildXcodeProject{}).BuildCommand(newEnv(t).ctx)
	assert.True(t, errors.Is(err, errors.ErrCodeMissingParameter))
}

func TestBuildRunsInWorkingDirectory(t *testing.T) {
	e := newEnv(t)
	a := &BuildXcodeProject{ProjectRef: ProjectRef{Project: "App.xcodeproj"}, Dir: "/src/app"}

	res, err := action.Run[*command.Result](e.ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode())

	calls := e.exec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/src/app", calls[0].Dir)
	assert.Equal(t, "xcodebuild build -project App.xcodeproj", calls[0].Command.String())
}

func TestBuildFailurePassesThrough(t *testing.T) {
	e := newEnv(t)
	e.exec.On("xcodebuild", failure(65, "** BUILD FAILED **"))

	_, err := action.Run[*command.Result](e.ctx, &BuildXcodeProject{ProjectRef: ProjectRef{Project: "App.xcodeproj"}})
	var exitErr *command.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 65, exitErr.Code)
	assert.Equal(t, "** BUILD FAILED **", exitErr.ErrorOutput())
}

func TestNewBuildFromConfig(t *testing.T) {
	cfg := &config.Config{
		Project: config.ProjectConfig{Workspace: "App.xcworkspace", Scheme: "App", WorkingDirectory: "ios"},
		Build:   config.BuildConfig{Configuration: "Release", SDK: config.SDKiOS, Formatter: "none", Clean: true},
	}
	a := NewBuild(cfg)
	got, err := a.BuildCommand(newEnv(t).ctx)
	require.NoError(t, err)
	assert.Equal(t, "xcodebuild clean build -workspace App.xcworkspace -scheme App -destination generic/platform=iOS -configuration Release", got.String())
	assert.Equal(t, "ios", a.Dir)
}
