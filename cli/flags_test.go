package cli

import (
	"testing"

	"github.com/grovetools/seedee/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	cfg := &config.Config{
		Project: config.ProjectConfig{Project: "App.xcodeproj", Scheme: "App"},
		Build:   config.BuildConfig{Configuration: "Release"},
	}
	cfg.SetDefaults()
	return cfg
}

func TestXcodeFlagsApplyOnlyChanged(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "no flags keeps config",
			args: nil,
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "App.xcodeproj", cfg.Project.Project)
				assert.Equal(t, "Release", cfg.Build.Configuration)
				assert.Equal(t, config.SDKiOSSimulator, cfg.Build.SDK)
			},
		},
		{
			name: "scheme and configuration override",
			args: []string{"--scheme", "AppTests", "--configuration", "Debug"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "AppTests", cfg.Project.Scheme)
				assert.Equal(t, "Debug", cfg.Build.Configuration)
			},
		},
		{
			name: "workspace replaces project",
			args: []string{"--workspace", "App.xcworkspace"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "App.xcworkspace", cfg.Project.Workspace)
				assert.Empty(t, cfg.Project.Project)
			},
		},
		{
			name: "destination goes to test config",
			args: []string{"--destination", "platform=iOS Simulator,name=iPhone 15", "--sdk", "ios"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "platform=iOS Simulator,name=iPhone 15", cfg.Test.Destination)
				assert.Equal(t, config.SDKiOS, cfg.Build.SDK)
			},
		},
		{
			name: "short flags",
			args: []string{"-s", "Other", "-C", "ios"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "Other", cfg.Project.Scheme)
				assert.Equal(t, "ios", cfg.Project.WorkingDirectory)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewXcodeFlags()
			require.NoError(t, f.FlagSet().Parse(tt.args))
			cfg := baseConfig()
			f.Apply(cfg)
			tt.check(t, cfg)
		})
	}
}
