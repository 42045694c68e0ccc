package actions

import (
	"testing"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/errors"
	"github.com/grovetools/seedee/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const showBuildSettings = `Command line invocation:
    /Applications/Xcode.app/Contents/Developer/usr/bin/xcodebuild -showBuildSettings

Build settings for action build and target App:
    ACTION = build
    CURRENT_PROJECT_VERSION = 42
    MARKETING_VERSION = 1.2.0
    PRODUCT_BUNDLE_IDENTIFIER = com.example.app
    OTHER_LDFLAGS = -ObjC -lc++

Build settings for action build and target AppTests:
    PRODUCT_BUNDLE_IDENTIFIER = com.example.appTests
`

func TestParseSettings(t *testing.T) {
	settings := ParseSettings(showBuildSettings)

	assert.Equal(t, "42", settings["CURRENT_PROJECT_VERSION"])
	assert.Equal(t, "com.example.app", settings["PRODUCT_BUNDLE_IDENTIFIER"])
	assert.Equal(t, "-ObjC -lc++", settings["OTHER_LDFLAGS"])
	assert.NotContains(t, settings, "Command line invocation:")

	v, ok := settings.Get("MARKETING_VERSION")
	assert.True(t, ok)
	assert.Equal(t, "1.2.0", v)

	_, err := settings.Require("DEVELOPMENT_TEAM")
	assert.True(t, errors.Is(err, errors.ErrCodeMissingParameter))
}

func TestBuildSettingsAction(t *testing.T) {
	e := newEnv(t)
	e.exec.On("-showBuildSettings", testutil.Response{Stdout: showBuildSettings})

	a := &BuildSettings{ProjectRef: ProjectRef{Workspace: "App.xcworkspace", Scheme: "App"}, Configuration: "Release"}
	cmd, err := a.BuildCommand(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, "xcodebuild -workspace App.xcworkspace -scheme App -showBuildSettings -configuration Release", cmd.String())

	settings, err := action.Run[Settings](e.ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "42", settings["CURRENT_PROJECT_VERSION"])
}
