package database

import (
	"path/filepath"

	"snapsolve/internal/config"
	"snapsolve/internal/logging"
)

// GetDefaultDBPath returns snapsolve.db inside the application directory,
// falling back to the working directory when that cannot be resolved.
func GetDefaultDBPath() string {
	dir, err := config.AppDir()
	if err != nil {
		logging.L().Warnw("failed to resolve app dir, using working directory for database", "error", err)
		return "snapsolve.db"
	}
	return filepath.Join(dir, "snapsolve.db")
}
