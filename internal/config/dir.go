// Package config resolves modkill's settings from built-in defaults, an
// optional JSON config file, and command-line flags.
package config

import (
	"os"
	"path/filepath"
)

// Dir returns the modkill config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/modkill if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "modkill"), nil
}
