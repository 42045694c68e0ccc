package actions

import (
	"testing"

	"github.com/grovetools/seedee/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	e := newEnv(t)
	testutil.WriteFiles(t, e.fs, "/src/app", map[string]string{
		"App.xcodeproj/project.pbxproj":                                 "x",
		"App.xcodeproj/project.xcworkspace/contents.xcworkspacedata":    "x",
		"App.xcodeproj/xcshareddata/xcschemes/App.xcscheme":             "x",
		"App.xcodeproj/xcshareddata/xcschemes/AppUITests.xcscheme":      "x",
		"App.xcworkspace/contents.xcworkspacedata":                      "x",
		"Pods/Pods.xcodeproj/xcshareddata/xcschemes/Alamofire.xcscheme": "x",
		"Pods/Pods.xcodeproj/project.pbxproj":                           "x",
		"Vendor/Lib/Lib.xcodeproj/project.pbxproj":                      "x",
		"Gemfile":                                                       "source 'https://rubygems.org'",
	})

	project, err := Discover(e.ctx, e.fs, "/src/app")
	require.NoError(t, err)

	assert.Equal(t, []string{"App.xcodeproj"}, project.Projects)
	assert.Equal(t, []string{"App.xcworkspace"}, project.Workspaces)
	assert.Equal(t, []string{"App", "AppUITests"}, project.Schemes)
	assert.True(t, project.UsesBundler)

	ref := project.Ref("")
	assert.Equal(t, ProjectRef{Workspace: "App.xcworkspace", Scheme: "App"}, ref)
	assert.Equal(t, "bundle exec xcpretty", project.Tool("xcpretty").String())
}

func TestDiscoverProjectOnly(t *testing.T) {
	e := newEnv(t)
	testutil.WriteFiles(t, e.fs, "/src", map[string]string{
		"Beta.xcodeproj/project.pbxproj":  "x",
		"Alpha.xcodeproj/project.pbxproj": "x",
	})

	project, err := Discover(e.ctx, e.fs, "/src")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha.xcodeproj", "Beta.xcodeproj"}, project.Projects)
	assert.Empty(t, project.Schemes)
	assert.False(t, project.UsesBundler)
	assert.Equal(t, ProjectRef{Project: "Alpha.xcodeproj", Scheme: "Main"}, project.Ref("Main"))
	assert.Equal(t, "pod", project.Tool("pod").String())
}

func TestDiscoverMissingDirectory(t *testing.T) {
	e := newEnv(t)
	_, err := Discover(e.ctx, e.fs, "/nope")
	assert.Error(t, err)
}
