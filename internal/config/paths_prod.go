//go:build prod

package config

import (
	"os"
	"path/filepath"
)

// AppDir returns the directory holding config, database, logs and captures.
// In production it lives in the user's config directory.
func AppDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(configDir, "snapsolve")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func IsDevelopment() bool {
	return false
}
