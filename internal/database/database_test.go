package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"snapsolve/internal/models"
)

func TestInit_MigratesProblemTables(t *testing.T) {
	db, err := Init(Config{Path: filepath.Join(t.TempDir(), "test.db"), LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.True(t, db.Migrator().HasTable(&models.Problem{}))
	assert.True(t, db.Migrator().HasTable(&models.SolveAttempt{}))
}

func TestInit_CreatesMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	db, err := Init(Config{Path: path, LogLevel: logger.Silent})
	require.NoError(t, err)
	require.NoError(t, Close(db))

	assert.FileExists(t, path)
}

func TestClose_NilIsNoop(t *testing.T) {
	assert.NoError(t, Close(nil))
}
