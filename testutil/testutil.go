package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// RequireBash skips the test if /bin/bash is not available
func RequireBash(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("bash executor tests need a POSIX shell")
	}
	if _, err := os.Stat("/bin/bash"); err != nil {
		t.Skip("bash not available")
	}
}

// RequireTool skips the test if name is not on PATH
func RequireTool(t *testing.T, name string) {
	t.Helper()

	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

// IsolateHome points SEEDEE_HOME at a temporary directory so tests never
// read or write the user's configuration, state or logs.
func IsolateHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("SEEDEE_HOME", home)
	return home
}

// WriteFiles creates each relative path under root with the given contents,
// making parent directories as needed.
func WriteFiles(t *testing.T, fs afero.Fs, root string, files map[string]string) {
	t.Helper()

	for rel, contents := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(contents), 0o644))
	}
}
