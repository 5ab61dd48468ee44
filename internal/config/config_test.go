package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets map[string]string

func (f fakeSecrets) GetApiKey(provider string) (string, error) {
	if k, ok := f[provider]; ok {
		return k, nil
	}
	return "", errors.New("not found")
}

func noEnv(string) string { return "" }

func newTestStore(t *testing.T, secrets SecretSource) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "config.json"), secrets)
	s.SetEnvLookup(noEnv)
	return s
}

func TestClampOpacity(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{0.05, MinOpacity},
		{-3, MinOpacity},
		{1.7, MaxOpacity},
		{math.NaN(), DefaultOpacity},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClampOpacity(tc.in))
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.Load())

	cfg := s.Get()
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.IsConfigured())
}

func TestLoad_MalformedFileUsesDefaults(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0600))

	require.NoError(t, s.Load())
	assert.Equal(t, Default(), s.Get())
}

func TestLoad_PartialFileFillsMissingFields(t *testing.T) {
	s := newTestStore(t, nil)
	raw := `{"aiApiKey":"sk-test","language":"Go","opacity":3}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(raw), 0600))

	require.NoError(t, s.Load())
	cfg := s.Get()
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "go", cfg.Language)
	assert.Equal(t, MaxOpacity, cfg.Opacity)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.True(t, cfg.IsConfigured())
}

func TestLoad_EnvironmentFillsEmptyFields(t *testing.T) {
	s := newTestStore(t, nil)
	env := map[string]string{
		"OPENAI_API_KEY": "sk-env",
		"AI_MODEL":       "gpt-4o-mini",
	}
	s.SetEnvLookup(func(k string) string { return env[k] })
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"aiModel":"from-file"}`), 0600))

	require.NoError(t, s.Load())
	cfg := s.Get()
	assert.Equal(t, "sk-env", cfg.APIKey)
	assert.Equal(t, "from-file", cfg.Model)
}

func TestLoad_SecretStoreFallback(t *testing.T) {
	s := newTestStore(t, fakeSecrets{"openai": "sk-keyring"})
	require.NoError(t, s.Load())
	assert.Equal(t, "sk-keyring", s.Get().APIKey)
}

func TestLoad_UnknownProviderIsReset(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"aiProvider":"mystery"}`), 0600))

	require.NoError(t, s.Load())
	assert.Equal(t, DefaultProvider, s.Get().Provider)
}

func TestUpdate_PersistsAndNotifies(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.Load())

	var seen []Config
	unsubscribe := s.Subscribe(func(c Config) { seen = append(seen, c) })

	next := s.Get()
	next.APIKey = " sk-new "
	next.Opacity = 0.02
	got, err := s.Update(next)
	require.NoError(t, err)
	assert.Equal(t, "sk-new", got.APIKey)
	assert.Equal(t, MinOpacity, got.Opacity)
	require.Len(t, seen, 1)
	assert.Equal(t, got, seen[0])

	reloaded := newTestStore(t, nil)
	reloaded.path = s.Path()
	require.NoError(t, reloaded.Load())
	assert.Equal(t, got, reloaded.Get())

	unsubscribe()
	unsubscribe()
	_, err = s.SetOpacity(0.5)
	require.NoError(t, err)
	assert.Len(t, seen, 1)
}

func TestUpdate_RejectsUnknownProvider(t *testing.T) {
	s := newTestStore(t, nil)
	next := Default()
	next.Provider = "mystery"

	_, err := s.Update(next)
	assert.EqualError(t, err, "unsupported provider: mystery")
	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestSetOpacity_Clamps(t *testing.T) {
	s := newTestStore(t, nil)
	cfg, err := s.SetOpacity(9)
	require.NoError(t, err)
	assert.Equal(t, MaxOpacity, cfg.Opacity)
	assert.Equal(t, MaxOpacity, s.Get().Opacity)
}

func TestRedacted(t *testing.T) {
	cfg := Config{APIKey: "sk-abcdef1234"}
	assert.Equal(t, "*********1234", cfg.Redacted().APIKey)
	assert.Equal(t, "****", Config{APIKey: "abc"}.Redacted().APIKey)
	assert.Equal(t, "", Config{}.Redacted().APIKey)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestUpdate_SecretStoreKeyStaysOutOfFile(t *testing.T) {
	s := newTestStore(t, fakeSecrets{"openai": "sk-from-keyring-1234"})
	require.NoError(t, s.Load())

	cfg, err := s.SetOpacity(0.5)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-keyring-1234", cfg.APIKey)
	assert.NotContains(t, readFile(t, s.Path()), "sk-from-keyring-1234")

	next := s.Get()
	next.Language = "go"
	_, err = s.Update(next)
	require.NoError(t, err)
	assert.NotContains(t, readFile(t, s.Path()), "sk-from-keyring-1234")
	assert.True(t, s.Get().IsConfigured())
}

func TestUpdate_EnvironmentKeyStaysOutOfFile(t *testing.T) {
	s := newTestStore(t, nil)
	s.SetEnvLookup(func(k string) string {
		if k == "AI_API_KEY" {
			return "sk-env-5678"
		}
		return ""
	})
	require.NoError(t, s.Load())

	_, err := s.SetOpacity(0.4)
	require.NoError(t, err)
	assert.NotContains(t, readFile(t, s.Path()), "sk-env-5678")
	assert.Equal(t, "sk-env-5678", s.Get().APIKey)
}

func TestUpdate_EnteredKeyIsPersisted(t *testing.T) {
	s := newTestStore(t, fakeSecrets{"openai": "sk-keyring"})
	require.NoError(t, s.Load())

	next := s.Get()
	next.APIKey = "sk-typed"
	_, err := s.Update(next)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, s.Path()), `"aiApiKey": "sk-typed"`)
}

func TestUpdate_ProviderChangeResolvesSecret(t *testing.T) {
	s := newTestStore(t, fakeSecrets{"openai": "sk-openai", "gemini": "g-key"})
	require.NoError(t, s.Load())

	next := s.Get()
	next.Provider = ProviderGemini
	cfg, err := s.Update(next)
	require.NoError(t, err)
	assert.Equal(t, "g-key", cfg.APIKey)

	next = s.Get()
	next.Provider = ProviderAnthropic
	cfg, err = s.Update(next)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.APIKey)
	assert.False(t, cfg.IsConfigured())
}

func TestRefreshSecret(t *testing.T) {
	secrets := fakeSecrets{}
	s := newTestStore(t, secrets)
	require.NoError(t, s.Load())
	require.False(t, s.Get().IsConfigured())

	var seen []Config
	s.Subscribe(func(c Config) { seen = append(seen, c) })

	secrets["openai"] = "sk-later"
	cfg, err := s.RefreshSecret("gemini")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.APIKey)
	assert.Empty(t, seen)

	cfg, err = s.RefreshSecret("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-later", cfg.APIKey)
	assert.True(t, s.Get().IsConfigured())
	require.Len(t, seen, 1)
	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestRefreshSecret_ReplacesFileKey(t *testing.T) {
	secrets := fakeSecrets{}
	s := newTestStore(t, secrets)
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"aiApiKey":"sk-old-file"}`), 0600))
	require.NoError(t, s.Load())

	secrets["openai"] = "sk-keyring"
	cfg, err := s.RefreshSecret("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-keyring", cfg.APIKey)
	assert.NotContains(t, readFile(t, s.Path()), "sk-old-file")
	assert.NotContains(t, readFile(t, s.Path()), "sk-keyring")
}
