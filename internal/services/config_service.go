package services

import (
	"context"
	"errors"
	"strings"

	"snapsolve/internal/config"
	"snapsolve/internal/events"
)

type ConfigService interface {
	Startup(ctx context.Context)
	Get() config.Config
	Update(next config.Config) (config.Config, error)
	SetOpacity(opacity float64) (float64, error)
	SetLanguage(language string) (config.Config, error)
	IsConfigured() bool
	RefreshSecret(provider string) (config.Config, error)
	Close()
}

type configService struct {
	store       *config.Store
	emitter     events.Emitter
	context     context.Context
	unsubscribe func()
}

// NewConfigService wraps store and forwards every change to the frontend as
// config-changed, with the API key redacted.
func NewConfigService(store *config.Store, emitter events.Emitter) ConfigService {
	if emitter == nil {
		emitter = events.Discard
	}
	s := &configService{store: store, emitter: emitter}
	s.unsubscribe = store.Subscribe(func(cfg config.Config) {
		s.emitter.Emit(events.ConfigChanged, cfg.Redacted())
	})
	return s
}

func (s *configService) Startup(ctx context.Context) {
	s.context = ctx
}

func (s *configService) Get() config.Config {
	return s.store.Get()
}

// Update replaces the config. An empty or redacted API key keeps the stored
// one so the frontend never has to round-trip the secret.
func (s *configService) Update(next config.Config) (config.Config, error) {
	current := s.store.Get()
	key := strings.TrimSpace(next.APIKey)
	if key == "" || (current.APIKey != "" && key == current.Redacted().APIKey) {
		next.APIKey = current.APIKey
	}
	updated, err := s.store.Update(next)
	if err != nil {
		return current, err
	}
	return updated, nil
}

func (s *configService) SetOpacity(opacity float64) (float64, error) {
	cfg, err := s.store.SetOpacity(opacity)
	if err != nil {
		return 0, err
	}
	return cfg.Opacity, nil
}

func (s *configService) SetLanguage(language string) (config.Config, error) {
	if strings.TrimSpace(language) == "" {
		return s.store.Get(), errors.New("language is required")
	}
	next := s.store.Get()
	next.Language = language
	return s.Update(next)
}

func (s *configService) IsConfigured() bool {
	return s.store.Get().IsConfigured()
}

// RefreshSecret picks up a key just written to the secret store.
func (s *configService) RefreshSecret(provider string) (config.Config, error) {
	return s.store.RefreshSecret(provider)
}

func (s *configService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}
