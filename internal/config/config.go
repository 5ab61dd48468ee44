package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Defaults live here and nowhere else.
const (
	DefaultProvider              = ProviderOpenAI
	DefaultEndpoint              = "https://api.openai.com/v1"
	DefaultModel                 = "gpt-4o"
	DefaultLanguage              = "python"
	DefaultOpacity               = 1.0
	DefaultPagesDir              = "pages"
	DefaultMaxScreenshots        = 5
	DefaultRequestTimeoutSeconds = 60

	MinOpacity = 0.1
	MaxOpacity = 1.0
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Config is the persisted application configuration. JSON names match the
// on-disk file written by earlier releases.
type Config struct {
	APIKey                string  `json:"aiApiKey"`
	Endpoint              string  `json:"aiEndpoint"`
	Model                 string  `json:"aiModel"`
	Provider              string  `json:"aiProvider"`
	Language              string  `json:"language"`
	Opacity               float64 `json:"opacity"`
	PagesDir              string  `json:"pagesDir"`
	MaxScreenshots        int     `json:"maxScreenshots"`
	RequestTimeoutSeconds int     `json:"requestTimeoutSeconds"`
}

func Default() Config {
	return Config{
		Endpoint:              DefaultEndpoint,
		Model:                 DefaultModel,
		Provider:              DefaultProvider,
		Language:              DefaultLanguage,
		Opacity:               DefaultOpacity,
		PagesDir:              DefaultPagesDir,
		MaxScreenshots:        DefaultMaxScreenshots,
		RequestTimeoutSeconds: DefaultRequestTimeoutSeconds,
	}
}

// ClampOpacity forces v into [MinOpacity, MaxOpacity]. NaN maps to the default.
func ClampOpacity(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return DefaultOpacity
	case v < MinOpacity:
		return MinOpacity
	case v > MaxOpacity:
		return MaxOpacity
	}
	return v
}

// Normalized trims every string field and fills blanks with defaults. The API
// key is never defaulted.
func (c Config) Normalized() Config {
	def := Default()
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Endpoint = strings.TrimRight(strings.TrimSpace(c.Endpoint), "/")
	c.Model = strings.TrimSpace(c.Model)
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.Language = strings.ToLower(strings.TrimSpace(c.Language))
	c.PagesDir = strings.TrimSpace(c.PagesDir)

	if c.Endpoint == "" {
		c.Endpoint = def.Endpoint
	}
	if c.Model == "" {
		c.Model = def.Model
	}
	if c.Provider == "" {
		c.Provider = def.Provider
	}
	if c.Language == "" {
		c.Language = def.Language
	}
	if c.Opacity == 0 {
		c.Opacity = def.Opacity
	}
	c.Opacity = ClampOpacity(c.Opacity)
	if c.PagesDir == "" {
		c.PagesDir = def.PagesDir
	}
	if c.MaxScreenshots <= 0 {
		c.MaxScreenshots = def.MaxScreenshots
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = def.RequestTimeoutSeconds
	}
	return c
}

func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported provider: %s", c.Provider)
	}
	if c.MaxScreenshots > 50 {
		return errors.New("maxScreenshots must be at most 50")
	}
	return nil
}

// IsConfigured reports whether enough is set to reach the AI endpoint.
func (c Config) IsConfigured() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.Endpoint) != ""
}

func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return DefaultRequestTimeoutSeconds * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// CustomEndpoint reports whether the endpoint differs from the OpenAI default,
// which is how non-OpenAI providers decide to override their SDK base URL.
func (c Config) CustomEndpoint() bool {
	return c.Endpoint != "" && c.Endpoint != DefaultEndpoint
}

// Redacted returns a copy safe to log or show: the key keeps its last four characters.
func (c Config) Redacted() Config {
	if n := len(c.APIKey); n > 4 {
		c.APIKey = strings.Repeat("*", n-4) + c.APIKey[n-4:]
	} else if n > 0 {
		c.APIKey = "****"
	}
	return c
}
