package logging

import "go.uber.org/zap"

// WailsLogger satisfies github.com/wailsapp/wails/v2/pkg/logger.Logger so the
// runtime's own messages and runtime.LogX calls end up in zap.
type WailsLogger struct {
	log *zap.SugaredLogger
}

func NewWailsLogger(l *zap.SugaredLogger) *WailsLogger {
	if l == nil {
		l = L()
	}
	return &WailsLogger{log: l.Named("wails")}
}

func (w *WailsLogger) Print(message string)   { w.log.Info(message) }
func (w *WailsLogger) Trace(message string)   { w.log.Debug(message) }
func (w *WailsLogger) Debug(message string)   { w.log.Debug(message) }
func (w *WailsLogger) Info(message string)    { w.log.Info(message) }
func (w *WailsLogger) Warning(message string) { w.log.Warn(message) }
func (w *WailsLogger) Error(message string)   { w.log.Error(message) }

// Fatal logs at error level; the runtime decides whether to exit.
func (w *WailsLogger) Fatal(message string) { w.log.Error(message) }
