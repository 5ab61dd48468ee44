// Package logging owns the process-wide zap logger. Services log through L();
// the Wails runtime is pointed at the same sink through WailsLogger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// Development switches to the console encoder at debug level.
	Development bool
	// File, when set, receives log output in addition to stderr.
	File  string
	Level string
}

var (
	mu   sync.RWMutex
	base = zap.NewNop().Sugar()
)

// Init builds the logger described by opts and installs it as the default.
func Init(opts Options) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	if opts.Level != "" {
		lvl, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	cfg.OutputPaths = []string{"stderr"}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		cfg.OutputPaths = append(cfg.OutputPaths, opts.File)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	sugar := logger.Sugar()
	Set(sugar)
	return sugar, nil
}

// L returns the current logger. It is a no-op logger until Init or Set runs.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func Set(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	mu.Lock()
	base = l
	mu.Unlock()
}

func Sync() {
	_ = L().Sync()
}
