package services

import (
	"context"
	"sync"

	"snapsolve/internal/events"
)

// EventEmitterService is handed to every service before the window exists.
// Until Startup binds it to the Wails runtime, events only reach the log.
type EventEmitterService struct {
	mu     sync.RWMutex
	target events.Emitter
}

func NewEventEmitterService() *EventEmitterService {
	return &EventEmitterService{target: events.LogEmitter{}}
}

func (e *EventEmitterService) Startup(ctx context.Context) {
	e.SetTarget(events.NewRuntimeEmitter(ctx))
}

// SetTarget redirects events; nil falls back to log-only.
func (e *EventEmitterService) SetTarget(target events.Emitter) {
	if target == nil {
		target = events.LogEmitter{}
	}
	e.mu.Lock()
	e.target = target
	e.mu.Unlock()
}

func (e *EventEmitterService) Emit(name string, payload ...interface{}) {
	e.mu.RLock()
	target := e.target
	e.mu.RUnlock()
	target.Emit(name, payload...)
}
