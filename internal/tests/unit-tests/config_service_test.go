package unit_tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapsolve/internal/config"
	"snapsolve/internal/events"
	"snapsolve/internal/services"
)

func newConfigService(t *testing.T) (services.ConfigService, *config.Store, *events.Recorder) {
	t.Helper()
	store := config.NewStore(filepath.Join(t.TempDir(), "config.json"), nil)
	store.SetEnvLookup(func(string) string { return "" })
	require.NoError(t, store.Load())
	rec := events.NewRecorder(nil)
	svc := services.NewConfigService(store, rec)
	t.Cleanup(svc.Close)
	return svc, store, rec
}

func TestConfigService_UpdateKeepsStoredKeyWhenBlank(t *testing.T) {
	svc, _, rec := newConfigService(t)

	cfg := svc.Get()
	cfg.APIKey = "sk-secret"
	_, err := svc.Update(cfg)
	require.NoError(t, err)
	assert.True(t, svc.IsConfigured())

	cfg.APIKey = ""
	cfg.Model = "gpt-4o-mini"
	updated, err := svc.Update(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sk-secret", updated.APIKey)
	assert.Equal(t, "gpt-4o-mini", updated.Model)

	require.Equal(t, 2, rec.Count(events.ConfigChanged))
	payload := rec.Events()[1].Payload[0].(config.Config)
	assert.NotEqual(t, "sk-secret", payload.APIKey)
}

func TestConfigService_SetOpacityClamps(t *testing.T) {
	svc, store, _ := newConfigService(t)

	v, err := svc.SetOpacity(5)
	require.NoError(t, err)
	assert.Equal(t, config.MaxOpacity, v)

	v, err = svc.SetOpacity(0.01)
	require.NoError(t, err)
	assert.Equal(t, config.MinOpacity, v)
	assert.Equal(t, config.MinOpacity, store.Get().Opacity)
}

func TestConfigService_SetLanguage(t *testing.T) {
	svc, _, _ := newConfigService(t)

	_, err := svc.SetLanguage(" ")
	assert.EqualError(t, err, "language is required")

	cfg, err := svc.SetLanguage("Rust")
	require.NoError(t, err)
	assert.Equal(t, "rust", cfg.Language)
}

func TestConfigService_RejectsUnknownProvider(t *testing.T) {
	svc, _, _ := newConfigService(t)

	cfg := svc.Get()
	cfg.Provider = "mistral"
	_, err := svc.Update(cfg)
	assert.Error(t, err)
}

func TestConfigService_RefreshSecretAfterKeyringWrite(t *testing.T) {
	ring := services.NewKeyringServiceWith(keyring.NewArrayKeyring(nil))
	store := config.NewStore(filepath.Join(t.TempDir(), "config.json"), ring)
	store.SetEnvLookup(func(string) string { return "" })
	require.NoError(t, store.Load())
	rec := events.NewRecorder(nil)
	svc := services.NewConfigService(store, rec)
	t.Cleanup(svc.Close)
	require.False(t, svc.IsConfigured())

	require.NoError(t, ring.StoreApiKey("openai", []byte("sk-keyring-9999")))
	cfg, err := svc.RefreshSecret("openai")
	require.NoError(t, err)

	assert.Equal(t, "sk-keyring-9999", cfg.APIKey)
	assert.True(t, svc.IsConfigured())
	require.Equal(t, 1, rec.Count(events.ConfigChanged))
	payload := rec.Events()[0].Payload[0].(config.Config)
	assert.Equal(t, cfg.Redacted().APIKey, payload.APIKey)
	assert.NotContains(t, payload.APIKey, "sk-keyring")

	_, err = svc.SetOpacity(0.5)
	require.NoError(t, err)
	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-keyring-9999")
}

func TestConfigService_ProviderChangePicksKeyringKey(t *testing.T) {
	ring := services.NewKeyringServiceWith(keyring.NewArrayKeyring(nil))
	require.NoError(t, ring.StoreApiKey("gemini", []byte("g-key")))
	store := config.NewStore(filepath.Join(t.TempDir(), "config.json"), ring)
	store.SetEnvLookup(func(string) string { return "" })
	require.NoError(t, store.Load())
	svc := services.NewConfigService(store, nil)
	t.Cleanup(svc.Close)

	cfg := svc.Get()
	cfg.Provider = config.ProviderGemini
	updated, err := svc.Update(cfg)
	require.NoError(t, err)
	assert.Equal(t, "g-key", updated.APIKey)
	assert.True(t, svc.IsConfigured())
}

func TestConfigService_RedactedKeyIsNotSaved(t *testing.T) {
	svc, store, _ := newConfigService(t)

	cfg := svc.Get()
	cfg.APIKey = "sk-secret-4321"
	saved, err := svc.Update(cfg)
	require.NoError(t, err)

	echoed := saved.Redacted()
	echoed.Language = "go"
	updated, err := svc.Update(echoed)
	require.NoError(t, err)
	assert.Equal(t, "sk-secret-4321", updated.APIKey)
	assert.Equal(t, "sk-secret-4321", store.Get().APIKey)
}
