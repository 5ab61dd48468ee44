package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyringConfig_UsesGivenAppDir(t *testing.T) {
	dir := t.TempDir()
	cfg := keyringConfig(dir)

	assert.Equal(t, filepath.Join(dir, "keyring"), cfg.FileDir)
	assert.Equal(t, serviceName, cfg.ServiceName)
}
