package events

import (
	"context"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Emitter pushes named events to whoever presents them.
type Emitter interface {
	Emit(name string, payload ...interface{})
}

type EmitterFunc func(name string, payload ...interface{})

func (f EmitterFunc) Emit(name string, payload ...interface{}) { f(name, payload...) }

// Discard drops every event.
var Discard Emitter = EmitterFunc(func(string, ...interface{}) {})

// RuntimeEmitter forwards events to the Wails frontend and mirrors them into
// the log. ctx must be the context handed to OnStartup.
type RuntimeEmitter struct {
	ctx context.Context
}

func NewRuntimeEmitter(ctx context.Context) *RuntimeEmitter {
	return &RuntimeEmitter{ctx: ctx}
}

func (e *RuntimeEmitter) Emit(name string, payload ...interface{}) {
	if e == nil || e.ctx == nil {
		return
	}
	runtime.EventsEmit(e.ctx, name, payload...)
	logEvent(name, payload...)
}

// Recorded is one event captured by a Recorder.
type Recorded struct {
	Name    string
	Payload []interface{}
	At      time.Time
}

// Recorder keeps every emitted event in memory. The CLI uses it to collect
// status lines and tests use it to assert on the event stream.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
	next   Emitter
}

// NewRecorder returns a Recorder that also forwards to next when non-nil.
func NewRecorder(next Emitter) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Emit(name string, payload ...interface{}) {
	r.mu.Lock()
	r.events = append(r.events, Recorded{Name: name, Payload: payload, At: time.Now()})
	r.mu.Unlock()
	if r.next != nil {
		r.next.Emit(name, payload...)
	}
}

func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}

// Names returns the recorded event names in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = e.Name
	}
	return names
}

// Count returns how many times name was emitted.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Name == name {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
