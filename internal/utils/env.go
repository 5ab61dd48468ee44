package utils

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// LoadEnv loads the first .env found in dirs, falling back to the project
// root when running from a source checkout. Variables already set in the
// process environment are never overwritten.
func LoadEnv(dirs ...string) error {
	if root, err := FindProjectRoot(); err == nil {
		dirs = append(dirs, root)
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		envPath := filepath.Join(dir, ".env")
		if !FileExists(envPath) {
			continue
		}
		return godotenv.Load(envPath)
	}
	return errors.New("no .env file found")
}
