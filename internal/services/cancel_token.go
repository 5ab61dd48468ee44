package services

import (
	"context"
	"sync"
	"sync/atomic"

	"snapsolve/internal/models"
)

// cancelToken belongs to one outstanding request. Firing it cancels the
// request context and marks any late result as stale.
type cancelToken struct {
	ctx    context.Context
	cancel context.CancelFunc
	gen    uint64
	fired  atomic.Bool
}

func (t *cancelToken) fire() {
	t.fired.Store(true)
	t.cancel()
}

// Canceled reports whether the token was fired or its parent context ended.
func (t *cancelToken) Canceled() bool {
	return t.fired.Load() || t.ctx.Err() != nil
}

// tokenSet tracks at most one token per mode.
type tokenSet struct {
	mu     sync.Mutex
	gen    uint64
	active map[models.Mode]*cancelToken
}

func newTokenSet() *tokenSet {
	return &tokenSet{active: make(map[models.Mode]*cancelToken)}
}

// begin starts a new token for mode, firing the one it replaces.
func (s *tokenSet) begin(parent context.Context, mode models.Mode) *cancelToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev := s.active[mode]; prev != nil {
		prev.fire()
	}
	s.gen++
	ctx, cancel := context.WithCancel(parent)
	tok := &cancelToken{ctx: ctx, cancel: cancel, gen: s.gen}
	s.active[mode] = tok
	return tok
}

// finish releases tok. It is a no-op for tokens already replaced.
func (s *tokenSet) finish(mode models.Mode, tok *cancelToken) {
	s.mu.Lock()
	if s.active[mode] == tok {
		delete(s.active, mode)
	}
	s.mu.Unlock()
	tok.cancel()
}

// cancel fires the tokens for modes (all modes when empty) and returns how
// many were in flight.
func (s *tokenSet) cancel(modes ...models.Mode) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(modes) == 0 {
		modes = []models.Mode{models.ModeInitial, models.ModeDebug}
	}
	n := 0
	for _, mode := range modes {
		if tok := s.active[mode]; tok != nil {
			tok.fire()
			delete(s.active, mode)
			n++
		}
	}
	s.gen++
	return n
}

func (s *tokenSet) busy(mode models.Mode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[mode] != nil
}
