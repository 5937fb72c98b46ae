package store

import (
	"os"
	"path/filepath"
)

// DefaultDataDir returns the platform data directory for the daemon,
// honoring XDG_DATA_HOME, falling back to ~/.local/share, then to a
// relative directory when no home can be resolved.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "standby")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "standby")
	}
	return "standby-data"
}

// DefaultDownloadsDir returns the conventional downloads directory, or ""
// when the home directory cannot be resolved.
func DefaultDownloadsDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Downloads")
	}
	return ""
}

// DefaultDesktopDir returns the conventional desktop directory, or "" when
// the home directory cannot be resolved.
func DefaultDesktopDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Desktop")
	}
	return ""
}
