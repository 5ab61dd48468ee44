package services

import (
	"fmt"
	"sync"

	"snapsolve/internal/events"
	"snapsolve/internal/models"
)

// ViewService tracks which panel is visible and announces changes.
type ViewService struct {
	mu      sync.Mutex
	current models.View
	emitter events.Emitter
}

func NewViewService(emitter events.Emitter) *ViewService {
	if emitter == nil {
		emitter = events.Discard
	}
	return &ViewService{current: models.ViewQueue, emitter: emitter}
}

func (s *ViewService) Current() models.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set switches to v. view-changed is only emitted when the view differs.
func (s *ViewService) Set(v models.View) {
	s.mu.Lock()
	changed := s.current != v
	s.current = v
	s.mu.Unlock()
	if changed {
		s.emitter.Emit(events.ViewChanged, v)
	}
}

// Select validates a view name coming from the frontend.
func (s *ViewService) Select(name string) error {
	v := models.View(name)
	if !v.Valid() {
		return fmt.Errorf("unknown view %q", name)
	}
	s.Set(v)
	return nil
}

// Toggle flips between the queue and the result of the last run.
func (s *ViewService) Toggle() models.View {
	s.mu.Lock()
	next := models.ViewQueue
	if s.current == models.ViewQueue {
		next = models.ViewSolutions
	}
	s.current = next
	s.mu.Unlock()
	s.emitter.Emit(events.ViewChanged, next)
	return next
}
