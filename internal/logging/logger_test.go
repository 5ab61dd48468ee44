package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"

	wailslogger "github.com/wailsapp/wails/v2/pkg/logger"
)

var _ wailslogger.Logger = (*WailsLogger)(nil)

func TestWailsLogger_MapsLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := NewWailsLogger(zap.New(core).Sugar())

	w.Trace("trace")
	w.Info("info")
	w.Warning("warn")
	w.Error("error")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "wails", entries[0].LoggerName)
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	_, err := Init(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestSet_NilFallsBackToNop(t *testing.T) {
	prev := L()
	t.Cleanup(func() { Set(prev) })

	Set(nil)
	assert.NotNil(t, L())
}
