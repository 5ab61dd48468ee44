package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"snapsolve/internal/config"
	"snapsolve/internal/events"
	"snapsolve/internal/logging"
	"snapsolve/internal/models"
	"snapsolve/internal/screenshots"
	"snapsolve/internal/utils"
)

var mimeExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

type ScreenshotService struct {
	context     context.Context
	queues      *screenshots.Manager
	emitter     events.Emitter
	unsubscribe func()
}

// NewScreenshotService manages queues and keeps their capacity in sync with
// the configured maxScreenshots.
func NewScreenshotService(queues *screenshots.Manager, store *config.Store, emitter events.Emitter) *ScreenshotService {
	if emitter == nil {
		emitter = events.Discard
	}
	s := &ScreenshotService{queues: queues, emitter: emitter}
	if store != nil {
		s.unsubscribe = store.Subscribe(func(cfg config.Config) {
			if err := s.SetCapacity(cfg.MaxScreenshots); err != nil {
				logging.L().Warnw("failed to apply screenshot capacity", "capacity", cfg.MaxScreenshots, "error", err)
			}
		})
	}
	return s
}

func (s *ScreenshotService) Startup(ctx context.Context) {
	s.context = ctx
}

// SaveScreenshot decodes a data URI captured by the frontend, writes it to
// the queue's directory and queues it.
func (s *ScreenshotService) SaveScreenshot(kind models.QueueKind, dataURL string) (models.Screenshot, error) {
	q, err := s.queues.Queue(kind)
	if err != nil {
		return models.Screenshot{}, err
	}
	_, data, err := utils.DecodeDataURI(dataURL)
	if err != nil {
		return models.Screenshot{}, err
	}
	if len(data) == 0 {
		return models.Screenshot{}, errors.New("screenshot is empty")
	}
	mime := utils.SniffImageMimeType(data)
	ext, ok := mimeExtensions[mime]
	if !ok {
		return models.Screenshot{}, fmt.Errorf("unsupported screenshot type %q", mime)
	}

	path := filepath.Join(q.Dir(), uuid.NewString()+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return models.Screenshot{}, fmt.Errorf("write screenshot: %w", err)
	}
	if err := s.push(q, path); err != nil {
		return models.Screenshot{}, err
	}
	return models.Screenshot{Path: path, Preview: utils.EncodeDataURI(mime, data)}, nil
}

// AddFile copies an existing image into the queue. The queue deletes what it
// evicts, so the caller's file is never queued directly.
func (s *ScreenshotService) AddFile(kind models.QueueKind, src string) (models.Screenshot, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return models.Screenshot{}, err
	}
	mime := utils.SniffImageMimeType(data)
	if mime == "" {
		return models.Screenshot{}, fmt.Errorf("%s is not an image", src)
	}
	return s.SaveScreenshot(kind, utils.EncodeDataURI(mime, data))
}

func (s *ScreenshotService) push(q *screenshots.Queue, path string) error {
	evicted, err := q.Push(path)
	if len(evicted) > 0 {
		logging.L().Infow("screenshot queue full, dropped oldest", "queue", q.Kind(), "evicted", len(evicted))
	}
	s.notify(q)
	return err
}

func (s *ScreenshotService) List(kind models.QueueKind) ([]models.Screenshot, error) {
	q, err := s.queues.Queue(kind)
	if err != nil {
		return nil, err
	}
	return q.Entries(), nil
}

func (s *ScreenshotService) Delete(kind models.QueueKind, path string) error {
	q, err := s.queues.Queue(kind)
	if err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" {
		return errors.New("screenshot path is required")
	}
	if err := q.Delete(path); err != nil {
		return err
	}
	s.notify(q)
	return nil
}

func (s *ScreenshotService) Clear(kind models.QueueKind) error {
	q, err := s.queues.Queue(kind)
	if err != nil {
		return err
	}
	err = q.Clear()
	s.notify(q)
	return err
}

func (s *ScreenshotService) ClearAll() error {
	err := s.queues.ClearAll()
	s.notify(s.queues.Primary)
	s.notify(s.queues.Auxiliary)
	return err
}

func (s *ScreenshotService) SetCapacity(capacity int) error {
	if capacity == s.queues.Primary.Capacity() && capacity == s.queues.Auxiliary.Capacity() {
		return nil
	}
	err := s.queues.SetCapacity(capacity)
	s.notify(s.queues.Primary)
	s.notify(s.queues.Auxiliary)
	return err
}

func (s *ScreenshotService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *ScreenshotService) notify(q *screenshots.Queue) {
	s.emitter.Emit(events.ScreenshotsChanged, models.QueueSnapshot{Queue: q.Kind(), Screenshots: q.Entries()})
}
