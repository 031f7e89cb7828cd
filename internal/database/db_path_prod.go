//go:build prod

package database

import (
	"os"
	"path/filepath"
)

// GetDefaultDBPath returns the database path for production mode.
// In production, the database is stored in the user's config directory.
func GetDefaultDBPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "apiforge.db"
	}

	appDir := filepath.Join(configDir, "apiforge")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "apiforge.db"
	}

	return filepath.Join(appDir, "apiforge.db")
}

func IsDevelopment() bool {
	return false
}
