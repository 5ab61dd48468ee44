package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/99designs/keyring"

	"snapsolve/internal/config"
)

const serviceName = "snapsolve"

// KeyringService stores provider API keys in the OS secret store. It is also
// the config store's fallback SecretSource.
type KeyringService struct {
	ring keyring.Keyring
}

// NewKeyringService opens the platform keyring. When no native backend is
// available it falls back to an encrypted file under appDir (config.AppDir()
// when empty).
func NewKeyringService(appDir string) (*KeyringService, error) {
	if appDir == "" {
		dir, err := config.AppDir()
		if err != nil {
			return nil, err
		}
		appDir = dir
	}
	ring, err := keyring.Open(keyringConfig(appDir))
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return &KeyringService{ring: ring}, nil
}

func keyringConfig(appDir string) keyring.Config {
	return keyring.Config{
		ServiceName:              serviceName,
		KeychainTrustApplication: true,
		FileDir:                  filepath.Join(appDir, "keyring"),
		FilePasswordFunc:         keyring.FixedStringPrompt(serviceName),
	}
}

// NewKeyringServiceWith wraps an already opened keyring.
func NewKeyringServiceWith(ring keyring.Keyring) *KeyringService {
	return &KeyringService{ring: ring}
}

func (s *KeyringService) StoreApiKey(provider string, apiKey []byte) error {
	if len(apiKey) == 0 {
		return errors.New("API key is empty")
	}
	if provider == "" {
		return errors.New("provider is required")
	}
	return s.ring.Set(keyring.Item{
		Key:         provider,
		Data:        apiKey,
		Label:       provider + " API key",
		Description: "API key for " + provider + " used by snapsolve",
	})
}

// GetApiKey returns "" without error when no key is stored for provider.
func (s *KeyringService) GetApiKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}
	item, err := s.ring.Get(provider)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

func (s *KeyringService) DeleteApiKey(provider string) error {
	if provider == "" {
		return errors.New("provider is required")
	}
	err := s.ring.Remove(provider)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (s *KeyringService) ListApiKeys() ([]map[string]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	results := make([]map[string]string, 0, len(keys))
	for _, provider := range keys {
		results = append(results, map[string]string{
			"provider":    provider,
			"label":       provider + " API key",
			"description": "API key for " + provider + " used by snapsolve",
		})
	}
	return results, nil
}
