package pages

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"snapsolve/internal/logging"
	"snapsolve/internal/models"
)

const defaultDebounce = 300 * time.Millisecond

// Watcher reloads the pages root when anything under it changes and hands
// the fresh result to onChange. Events are debounced so an editor save
// produces one reload.
type Watcher struct {
	mu       sync.Mutex
	root     string
	debounce time.Duration
	onChange func(models.PagesResult)
	watcher  *fsnotify.Watcher
	timer    *time.Timer
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewWatcher(root string, onChange func(models.PagesResult)) *Watcher {
	return &Watcher{
		root:     root,
		debounce: defaultDebounce,
		onChange: onChange,
	}
}

// SetDebounce must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	info, err := os.Stat(w.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("pages root is not a directory")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = fw
	w.addTree()

	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true
	go w.run(ctx, fw, w.stopCh, w.doneCh)

	logging.L().Infow("watching pages directory", "root", w.root)
	return nil
}

// addTree watches root and each immediate subfolder; page folders are one
// level deep so nothing further is needed.
func (w *Watcher) addTree() {
	if err := w.watcher.Add(w.root); err != nil {
		logging.L().Warnw("failed to watch pages root", "root", w.root, "error", err)
		return
	}
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub := filepath.Join(w.root, e.Name())
		if err := w.watcher.Add(sub); err != nil {
			logging.L().Debugw("failed to watch page folder", "folder", sub, "error", err)
		}
	}
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	for {
		select {
		case <-ctx.Done():
			w.shutdown()
			return
		case <-stopCh:
			return
		case evt, ok := <-fw.Events:
			if !ok {
				return
			}
			if evt.Has(fsnotify.Create) {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					_ = fw.Add(evt.Name)
				}
			}
			w.schedule()
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logging.L().Warnw("pages watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	running := w.running
	root := w.root
	onChange := w.onChange
	w.mu.Unlock()
	if !running || onChange == nil {
		return
	}
	onChange(LoadAll(root))
}

// Stop ends watching and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	close(stopCh)
	<-doneCh
	w.shutdown()
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.watcher != nil {
		_ = w.watcher.Close()
		w.watcher = nil
	}
}
