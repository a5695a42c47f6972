package config

import (
	"os"
	"path/filepath"
)

// DefaultPath returns ~/.config/clock-radio/config.json (or a file in the working directory).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "clock-radio", "config.json")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "clock-radio-config.json")
}
