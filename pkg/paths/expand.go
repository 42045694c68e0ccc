package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand resolves a leading ~ to the home directory and expands $VAR and
// ${VAR} references. Relative paths stay relative.
func Expand(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = filepath.Join(HomeDir(), path[1:])
	}
	return os.ExpandEnv(path)
}
