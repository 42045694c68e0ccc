package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedeeHomeOverridesXDG(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SEEDEE_HOME", home)

	assert.Equal(t, filepath.Join(home, "config"), ConfigDir())
	assert.Equal(t, filepath.Join(home, "state"), StateDir())
	assert.Equal(t, filepath.Join(home, "state", "logs"), LogsDir())
	assert.Equal(t, filepath.Join(home, "config", "seedee.yml"), GlobalConfigFile())
}

func TestXDGDirectories(t *testing.T) {
	root := t.TempDir()
	t.Setenv("SEEDEE_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "cfg"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	Reload()
	t.Cleanup(Reload)

	assert.Equal(t, filepath.Join(root, "cfg", "seedee"), ConfigDir())
	assert.Equal(t, filepath.Join(root, "cache", "seedee"), CacheDir())
}

func TestEnsureDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SEEDEE_HOME", home)

	require.NoError(t, EnsureDirs())
	assert.DirExists(t, LogsDir())
	assert.DirExists(t, CacheDir())
}

func TestExpand(t *testing.T) {
	t.Setenv("SEEDEE_KEYS", "/secrets")

	tests := []struct {
		in   string
		want string
	}{
		{"~/keys/AuthKey.p8", filepath.Join(HomeDir(), "keys/AuthKey.p8")},
		{"~", HomeDir()},
		{"$SEEDEE_KEYS/AuthKey.p8", "/secrets/AuthKey.p8"},
		{"${SEEDEE_KEYS}/a", "/secrets/a"},
		{"build/App.xcarchive", "build/App.xcarchive"},
		{"~other/file", "~other/file"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(tt.in))
		})
	}
}
