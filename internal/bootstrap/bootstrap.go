// Package bootstrap wires the long-lived objects shared by the desktop app
// and the CLI: logging, config, database, queues and services.
package bootstrap

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"snapsolve/internal/config"
	"snapsolve/internal/database"
	"snapsolve/internal/logging"
	"snapsolve/internal/screenshots"
	"snapsolve/internal/services"
	"snapsolve/internal/utils"
)

type Options struct {
	// AppDir overrides config.AppDir(), mostly for tests.
	AppDir string
	// ConfigPath overrides <AppDir>/config.json.
	ConfigPath string
	LogLevel   string
	// LogFile writes logs to <AppDir>/snapsolve.log as well as stderr.
	LogFile bool
	// Keyring enables the OS secret store as the API key fallback.
	Keyring bool
}

type Env struct {
	AppDir   string
	Store    *config.Store
	DB       *gorm.DB
	Queues   *screenshots.Manager
	Services *services.Services
	Log      *zap.SugaredLogger

	closeDB func() error
}

func Open(opts Options) (*Env, error) {
	dir := opts.AppDir
	if dir == "" {
		d, err := config.AppDir()
		if err != nil {
			return nil, fmt.Errorf("resolve app dir: %w", err)
		}
		dir = d
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create app dir: %w", err)
	}

	logOpts := logging.Options{Development: config.IsDevelopment(), Level: opts.LogLevel}
	if opts.LogFile {
		logOpts.File = filepath.Join(dir, "snapsolve.log")
	}
	log, err := logging.Init(logOpts)
	if err != nil {
		return nil, err
	}

	if err := utils.LoadEnv(dir); err != nil {
		log.Debugw("no .env loaded", "error", err)
	}

	var secrets config.SecretSource
	var keyringSvc *services.KeyringService
	if opts.Keyring {
		keyringSvc, err = services.NewKeyringService(dir)
		if err != nil {
			log.Warnw("keyring unavailable, API key must come from config or environment", "error", err)
		} else {
			secrets = keyringSvc
		}
	}

	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		cfgPath = filepath.Join(dir, "config.json")
	}
	store := config.NewStore(cfgPath, secrets)
	if err := store.Load(); err != nil {
		return nil, err
	}
	cfg := store.Get()
	log.Infow("configuration loaded", "path", cfgPath, "provider", cfg.Provider, "model", cfg.Model, "configured", cfg.IsConfigured())

	level := logger.Warn
	if config.IsDevelopment() {
		level = logger.Info
	}
	db, err := database.Init(database.Config{Path: filepath.Join(dir, "snapsolve.db"), LogLevel: level})
	if err != nil {
		return nil, err
	}
	closeDB := func() error { return database.Close(db) }

	queues, err := screenshots.NewManager(dir, cfg.MaxScreenshots)
	if err != nil {
		_ = closeDB()
		return nil, err
	}

	svc, err := services.NewServices(services.Deps{
		Store:   store,
		DB:      db,
		Queues:  queues,
		Keyring: keyringSvc,
		BaseDir: dir,
	})
	if err != nil {
		_ = closeDB()
		return nil, err
	}

	return &Env{
		AppDir:   dir,
		Store:    store,
		DB:       db,
		Queues:   queues,
		Services: svc,
		Log:      log,
		closeDB:  closeDB,
	}, nil
}

// Close stops services and closes the database. Safe to call twice.
func (e *Env) Close() error {
	if e == nil {
		return nil
	}
	var errs []error
	if e.Services != nil {
		e.Services.Close()
		e.Services = nil
	}
	if e.closeDB != nil {
		errs = append(errs, e.closeDB())
		e.closeDB = nil
	}
	logging.Sync()
	return errors.Join(errs...)
}
