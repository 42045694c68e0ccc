// Package paths provides XDG-compliant path resolution for Seedee.
//
// Resolution order:
// 1. SEEDEE_HOME (portable root) → $SEEDEE_HOME/{config,data,state,cache}
// 2. XDG base directories → $XDG_*_HOME/seedee
// 3. Platform defaults as resolved by adrg/xdg
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "seedee"

// Reload re-reads the XDG environment variables. Call it after changing
// them, typically in tests.
func Reload() {
	xdg.Reload()
}

func resolve(sub, base string) string {
	if home := os.Getenv("SEEDEE_HOME"); home != "" {
		return filepath.Join(home, sub)
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// ConfigDir returns the Seedee configuration directory.
// Used for the global seedee.yml.
func ConfigDir() string {
	return resolve("config", xdg.ConfigHome)
}

// DataDir returns the Seedee data directory.
func DataDir() string {
	return resolve("data", xdg.DataHome)
}

// StateDir returns the Seedee state directory.
// Used for logs.
func StateDir() string {
	return resolve("state", xdg.StateHome)
}

// CacheDir returns the Seedee cache directory.
func CacheDir() string {
	return resolve("cache", xdg.CacheHome)
}

// LogsDir returns the directory holding log files.
func LogsDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	return xdg.Home
}

// GlobalConfigFile returns the path of the user-wide configuration file.
func GlobalConfigFile() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "seedee.yml")
}

// EnsureDirs creates all Seedee directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), DataDir(), StateDir(), CacheDir(), LogsDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
