package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"snapsolve/internal/config"
	"snapsolve/internal/utils"
)

// VisionClient sends one system instruction plus a user message with inline
// images and returns the model's text reply.
type VisionClient interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

type Image struct {
	MimeType string
	Data     []byte
}

// DataURL returns the image as a base64 data URI.
func (i Image) DataURL() string {
	return utils.EncodeDataURI(i.MimeType, i.Data)
}

type Request struct {
	System      string
	Prompt      string
	Images      []Image
	Temperature float64
}

type Options struct {
	Provider string
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// Default models used when the configured model is still the OpenAI default
// but another provider was selected.
const (
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultAnthropicModel = "claude-sonnet-4-5"
)

// OptionsFromConfig maps the application config onto client options.
func OptionsFromConfig(cfg config.Config) Options {
	opts := Options{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		Timeout:  cfg.RequestTimeout(),
	}
	if cfg.Provider == config.ProviderOpenAI || cfg.CustomEndpoint() {
		opts.Endpoint = cfg.Endpoint
	}
	return opts
}

// New builds the client for opts.Provider.
func New(ctx context.Context, opts Options) (VisionClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("api key is required")
	}
	switch opts.Provider {
	case "", config.ProviderOpenAI:
		return NewOpenAIClient(opts)
	case config.ProviderGemini:
		if opts.Model == "" || opts.Model == config.DefaultModel {
			opts.Model = DefaultGeminiModel
		}
		return NewGeminiClient(ctx, opts)
	case config.ProviderAnthropic:
		if opts.Model == "" || opts.Model == config.DefaultModel {
			opts.Model = DefaultAnthropicModel
		}
		return NewClaudeClient(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported provider %q", opts.Provider)
	}
}
