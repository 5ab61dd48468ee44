//go:build !prod

package config

import (
	"os"
	"path/filepath"
)

// AppDir returns the directory holding config, database, logs and captures.
// In dev mode it sits in the working directory for easy inspection.
func AppDir() (string, error) {
	dir, err := filepath.Abs(".snapsolve")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func IsDevelopment() bool {
	return true
}
