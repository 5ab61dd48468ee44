package services

import (
	"context"
	"path/filepath"
	"sync"

	"snapsolve/internal/config"
	"snapsolve/internal/events"
	"snapsolve/internal/logging"
	"snapsolve/internal/models"
	"snapsolve/internal/pages"
)

// PageService serves the local reference pages and reloads them when the
// directory changes on disk or the configured directory moves.
type PageService struct {
	mu          sync.Mutex
	context     context.Context
	store       *config.Store
	baseDir     string
	emitter     events.Emitter
	root        string
	last        models.PagesResult
	loaded      bool
	watcher     *pages.Watcher
	unsubscribe func()
}

// NewPageService resolves a relative pagesDir against baseDir.
func NewPageService(store *config.Store, baseDir string, emitter events.Emitter) *PageService {
	if emitter == nil {
		emitter = events.Discard
	}
	s := &PageService{store: store, baseDir: baseDir, emitter: emitter}
	s.root = s.resolve(store.Get().PagesDir)
	s.unsubscribe = store.Subscribe(func(cfg config.Config) {
		root := s.resolve(cfg.PagesDir)
		s.mu.Lock()
		changed := root != s.root
		s.mu.Unlock()
		if changed {
			s.SetRoot(root)
		}
	})
	return s
}

func (s *PageService) resolve(dir string) string {
	if dir == "" {
		dir = config.DefaultPagesDir
	}
	if filepath.IsAbs(dir) || s.baseDir == "" {
		return dir
	}
	return filepath.Join(s.baseDir, dir)
}

// Startup starts watching the pages root. A missing root is not fatal; the
// next Reload reports it.
func (s *PageService) Startup(ctx context.Context) {
	s.mu.Lock()
	s.context = ctx
	s.mu.Unlock()
	s.startWatcher()
}

func (s *PageService) Root() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// LoadAll returns the cached result, loading it on first use.
func (s *PageService) LoadAll() models.PagesResult {
	s.mu.Lock()
	if s.loaded {
		res := s.last
		s.mu.Unlock()
		return res
	}
	s.mu.Unlock()
	return s.Reload()
}

// Reload reads the pages root again and emits pages-changed.
func (s *PageService) Reload() models.PagesResult {
	res := pages.LoadAll(s.Root())
	s.publish(res)
	return res
}

// SetRoot points the service at a new directory and reloads.
func (s *PageService) SetRoot(root string) models.PagesResult {
	s.mu.Lock()
	s.root = root
	running := s.context != nil
	s.mu.Unlock()

	if running {
		s.stopWatcher()
		s.startWatcher()
	}
	return s.Reload()
}

func (s *PageService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.stopWatcher()
}

func (s *PageService) publish(res models.PagesResult) {
	s.mu.Lock()
	s.last = res
	s.loaded = true
	s.mu.Unlock()
	s.emitter.Emit(events.PagesChanged, res)
}

func (s *PageService) startWatcher() {
	s.mu.Lock()
	ctx := s.context
	root := s.root
	s.mu.Unlock()
	if ctx == nil {
		return
	}

	w := pages.NewWatcher(root, s.publish)
	if err := w.Start(ctx); err != nil {
		logging.L().Warnw("pages watcher not started", "root", root, "error", err)
		return
	}
	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()
}

func (s *PageService) stopWatcher() {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()
	if w != nil {
		w.Stop()
	}
}
