// Package config resolves user-supplied paths from the config file and
// environment, such as the database location.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a path as a user would write it in the config file:
// a leading ~ becomes the home directory and $VAR references are expanded.
// An empty path is returned as is.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	return os.ExpandEnv(expandTilde(path))
}

func expandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// No home directory to resolve against, keep the literal path.
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/"))
}
