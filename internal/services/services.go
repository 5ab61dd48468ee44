package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"snapsolve/internal/config"
	"snapsolve/internal/llm/prompts"
	"snapsolve/internal/screenshots"
)

// Deps are the long-lived objects the services are built from.
type Deps struct {
	Store   *config.Store
	DB      *gorm.DB
	Queues  *screenshots.Manager
	Prompts *prompts.Set
	Keyring *KeyringService
	// BaseDir anchors a relative pagesDir.
	BaseDir string
}

// Services is the container shared by the desktop app and the CLI.
type Services struct {
	Events      *EventEmitterService
	Config      ConfigService
	Keyring     *KeyringService
	Views       *ViewService
	Screenshots *ScreenshotService
	Pages       *PageService
	Processing  *ProcessingService
	Db          *DbServices
}

func NewServices(d Deps) (*Services, error) {
	if d.Store == nil {
		return nil, errors.New("config store is required")
	}
	if d.DB == nil {
		return nil, errors.New("database is required")
	}
	if d.Queues == nil {
		return nil, errors.New("screenshot queues are required")
	}
	if d.Prompts == nil {
		set, err := prompts.Default()
		if err != nil {
			return nil, err
		}
		d.Prompts = set
	}

	emitter := NewEventEmitterService()
	db := NewDbServices(d.DB)
	views := NewViewService(emitter)

	return &Services{
		Events:      emitter,
		Config:      NewConfigService(d.Store, emitter),
		Keyring:     d.Keyring,
		Views:       views,
		Screenshots: NewScreenshotService(d.Queues, d.Store, emitter),
		Pages:       NewPageService(d.Store, d.BaseDir, emitter),
		Processing:  NewProcessingService(d.Store, db.Problems, d.Queues, d.Prompts, views, emitter),
		Db:          db,
	}, nil
}

// Startup binds events to the window and starts background watchers.
func (s *Services) Startup(ctx context.Context) error {
	s.Events.Startup(ctx)
	s.Config.Startup(ctx)
	s.Screenshots.Startup(ctx)
	s.Pages.Startup(ctx)
	return s.Processing.Startup(ctx)
}

func (s *Services) Close() {
	s.Processing.Stop()
	s.Pages.Close()
	s.Screenshots.Close()
	s.Config.Close()
}
