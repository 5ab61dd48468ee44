// Package screenshots keeps the bounded, ordered capture queues. Each queue
// owns the files it lists: evicting or clearing an entry deletes its file.
package screenshots

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"snapsolve/internal/logging"
	"snapsolve/internal/models"
	"snapsolve/internal/utils"
)

type entry struct {
	path    string
	preview string
}

type Queue struct {
	mu       sync.Mutex
	kind     models.QueueKind
	dir      string
	capacity int
	entries  []entry

	removeFile func(string) error
	encode     func(string) (string, error)
}

func NewQueue(kind models.QueueKind, dir string, capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{
		kind:       kind,
		dir:        dir,
		capacity:   capacity,
		removeFile: os.Remove,
		encode:     utils.FileDataURI,
	}
}

func (q *Queue) Kind() models.QueueKind { return q.kind }

// Dir is where captures for this queue are written.
func (q *Queue) Dir() string { return q.dir }

func (q *Queue) Capacity() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.capacity
}

// Push appends path. When the queue grows past capacity the oldest entries
// are dropped and their files deleted; their paths are returned.
func (q *Queue) Push(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("screenshot path is required")
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, entry{path: path})
	return q.evictLocked()
}

// SetCapacity changes the cap, evicting immediately if the queue is over it.
func (q *Queue) SetCapacity(capacity int) ([]string, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.capacity = capacity
	return q.evictLocked()
}

func (q *Queue) evictLocked() ([]string, error) {
	var evicted []string
	var errs []error
	for len(q.entries) > q.capacity {
		oldest := q.entries[0]
		q.entries = q.entries[1:]
		evicted = append(evicted, oldest.path)
		if err := q.removeLocked(oldest.path); err != nil {
			errs = append(errs, err)
		}
	}
	if len(evicted) > 0 {
		logging.L().Debugw("evicted screenshots", "queue", q.kind, "paths", evicted)
	}
	return evicted, errors.Join(errs...)
}

func (q *Queue) removeLocked(path string) error {
	for _, e := range q.entries {
		if e.path == path {
			// Same file queued twice; keep it for the remaining entry.
			return nil
		}
	}
	if err := q.removeFile(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete screenshot %s: %w", path, err)
	}
	return nil
}

// List returns the queued paths, oldest first.
func (q *Queue) List() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.path
	}
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Entries returns the queue with previews. Previews are encoded on first use
// and cached; unreadable files get an empty preview.
func (q *Queue) Entries() []models.Screenshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]models.Screenshot, len(q.entries))
	for i := range q.entries {
		e := &q.entries[i]
		if e.preview == "" {
			preview, err := q.encode(e.path)
			if err != nil {
				logging.L().Debugw("screenshot preview unavailable", "path", e.path, "error", err)
			} else {
				e.preview = preview
			}
		}
		out[i] = models.Screenshot{Path: e.path, Preview: e.preview}
	}
	return out
}

// Delete removes one entry and its file.
func (q *Queue) Delete(path string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, e := range q.entries {
		if e.path != path {
			continue
		}
		q.entries = append(q.entries[:i], q.entries[i+1:]...)
		return q.removeLocked(path)
	}
	return fmt.Errorf("screenshot not in %s queue: %s", q.kind, path)
}

// Clear removes every entry and its file.
func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	old := q.entries
	q.entries = nil
	var errs []error
	seen := make(map[string]bool, len(old))
	for _, e := range old {
		if seen[e.path] {
			continue
		}
		seen[e.path] = true
		if err := q.removeLocked(e.path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
