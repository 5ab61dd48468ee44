package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"snapsolve/internal/logging"
)

// SecretSource resolves an API key for a provider from a secret store.
type SecretSource interface {
	GetApiKey(provider string) (string, error)
}

// Store owns the live Config. Consumers get a handle to it and subscribe to
// changes instead of reading a global.
type Store struct {
	mu        sync.RWMutex
	path      string
	cfg       Config
	// fileKey is the only API key ever written to disk: one read from the
	// file or entered by the user. Keys from the environment or the secret
	// store stay in memory.
	fileKey   string
	secrets   SecretSource
	getenv    func(string) string
	observers map[int]func(Config)
	nextID    int
}

func NewStore(path string, secrets SecretSource) *Store {
	return &Store{
		path:      path,
		cfg:       Default(),
		secrets:   secrets,
		getenv:    os.Getenv,
		observers: make(map[int]func(Config)),
	}
}

// DefaultPath returns the config.json location inside AppDir.
func DefaultPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// SetEnvLookup replaces os.Getenv, mainly for tests.
func (s *Store) SetEnvLookup(fn func(string) string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn == nil {
		fn = os.Getenv
	}
	s.getenv = fn
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the config file. A missing or malformed file is not an error:
// defaults apply, then environment variables and the secret store fill any
// field the file left empty.
func (s *Store) Load() error {
	var fileCfg Config
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, &fileCfg); err != nil {
			logging.L().Warnw("config file is malformed, using defaults", "path", s.path, "error", err)
			fileCfg = Config{}
		}
	}

	s.mu.Lock()
	getenv := s.getenv
	s.mu.Unlock()

	fileKey := strings.TrimSpace(fileCfg.APIKey)
	cfg := overlayEnv(fileCfg, getenv).Normalized()
	if err := cfg.Validate(); err != nil {
		logging.L().Warnw("config file has invalid values, resetting provider", "error", err)
		cfg.Provider = DefaultProvider
		if cfg.MaxScreenshots > 50 {
			cfg.MaxScreenshots = DefaultMaxScreenshots
		}
	}
	if cfg.APIKey == "" {
		cfg.APIKey = s.secret(cfg.Provider)
	}

	s.mu.Lock()
	s.cfg = cfg
	s.fileKey = fileKey
	s.mu.Unlock()
	s.notify(cfg)
	return nil
}

// secret looks provider up in the secret store, "" when absent.
func (s *Store) secret(provider string) string {
	if s.secrets == nil {
		return ""
	}
	key, err := s.secrets.GetApiKey(provider)
	if err != nil {
		logging.L().Debugw("no API key in secret store", "provider", provider, "error", err)
		return ""
	}
	return strings.TrimSpace(key)
}

func envKey(getenv func(string) string) string {
	return overlayEnv(Config{}, getenv).APIKey
}

func overlayEnv(cfg Config, getenv func(string) string) Config {
	first := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				return v
			}
		}
		return ""
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		cfg.APIKey = first("AI_API_KEY", "OPENAI_API_KEY")
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = first("AI_ENDPOINT", "OPENAI_BASE_URL")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = first("AI_MODEL")
	}
	if strings.TrimSpace(cfg.Provider) == "" {
		cfg.Provider = first("AI_PROVIDER")
	}
	return cfg
}

// Get returns a copy of the current configuration.
func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update replaces the configuration wholesale, persists it and notifies
// subscribers. An API key equal to the current one is treated as unchanged,
// so a key resolved from the environment or secret store never reaches the
// file. On a provider change such a key is resolved again for the new
// provider.
func (s *Store) Update(next Config) (Config, error) {
	next = next.Normalized()
	if err := next.Validate(); err != nil {
		return Config{}, err
	}

	s.mu.RLock()
	cur, fileKey, getenv := s.cfg, s.fileKey, s.getenv
	s.mu.RUnlock()

	switch {
	case next.APIKey != cur.APIKey:
		fileKey = next.APIKey
	case next.Provider != cur.Provider && next.APIKey != fileKey:
		next.APIKey = s.resolveKey(next.Provider, getenv)
	}
	if next.APIKey == "" {
		next.APIKey = s.resolveKey(next.Provider, getenv)
	}

	if err := s.save(next, fileKey); err != nil {
		return Config{}, err
	}
	s.mu.Lock()
	s.cfg = next
	s.fileKey = fileKey
	s.mu.Unlock()
	s.notify(next)
	return next, nil
}

// resolveKey returns the environment key, falling back to the secret store.
func (s *Store) resolveKey(provider string, getenv func(string) string) string {
	if key := envKey(getenv); key != "" {
		return key
	}
	return s.secret(provider)
}

// RefreshSecret reloads the API key for provider from the secret store after
// it was written there. It only applies to the active provider. The new key
// replaces any key kept in the file, which is rewritten without it; a key
// that only lived in memory is not persisted.
func (s *Store) RefreshSecret(provider string) (Config, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	s.mu.RLock()
	cur, fileKey := s.cfg, s.fileKey
	s.mu.RUnlock()
	if provider != "" && provider != cur.Provider {
		return cur, nil
	}

	key := s.secret(cur.Provider)
	if key == "" || key == cur.APIKey {
		return cur, nil
	}
	next := cur
	next.APIKey = key
	if fileKey != "" {
		if err := s.save(next, ""); err != nil {
			return cur, err
		}
	}
	s.mu.Lock()
	s.cfg = next
	s.fileKey = ""
	s.mu.Unlock()
	s.notify(next)
	return next, nil
}

// SetOpacity clamps v, persists it and returns the stored configuration.
func (s *Store) SetOpacity(v float64) (Config, error) {
	next := s.Get()
	next.Opacity = ClampOpacity(v)
	return s.Update(next)
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn func(Config)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify(cfg Config) {
	s.mu.RLock()
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Config), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.observers[id])
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(cfg)
	}
}

// save writes cfg with fileKey in place of the resolved API key.
func (s *Store) save(cfg Config, fileKey string) error {
	if s.path == "" {
		return errors.New("config path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.APIKey = fileKey
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
