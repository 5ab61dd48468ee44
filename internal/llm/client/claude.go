package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"snapsolve/internal/config"
)

const claudeMaxTokens = 4096

type ClaudeClient struct {
	chat *claude.ChatModel
}

func NewClaudeClient(ctx context.Context, opts Options) (*ClaudeClient, error) {
	cfg := &claude.Config{
		APIKey:    opts.APIKey,
		Model:     opts.Model,
		MaxTokens: claudeMaxTokens,
	}
	if opts.Endpoint != "" {
		endpoint := opts.Endpoint
		cfg.BaseURL = &endpoint
	}
	chat, err := claude.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Claude client: %w", err)
	}
	return &ClaudeClient{chat: chat}, nil
}

func (c *ClaudeClient) Name() string { return config.ProviderAnthropic }

func (c *ClaudeClient) Complete(ctx context.Context, req Request) (string, error) {
	content := make([]schema.ChatMessagePart, 0, len(req.Images)+1)
	content = append(content, schema.ChatMessagePart{Type: schema.ChatMessagePartTypeText, Text: req.Prompt})
	for _, img := range req.Images {
		content = append(content, schema.ChatMessagePart{
			Type: schema.ChatMessagePartTypeImageURL,
			ImageURL: &schema.ChatMessageImageURL{
				URL:      img.DataURL(),
				MIMEType: img.MimeType,
			},
		})
	}
	msgs := []*schema.Message{
		schema.SystemMessage(req.System),
		{Role: schema.User, MultiContent: content},
	}

	var callOpts []model.Option
	if req.Temperature > 0 {
		callOpts = append(callOpts, model.WithTemperature(float32(req.Temperature)))
	}

	out, err := c.chat.Generate(ctx, msgs, callOpts...)
	if err != nil {
		if code := scanStatus(err.Error()); code != 0 {
			return "", &StatusError{Provider: c.Name(), Code: code, Err: err}
		}
		return "", fmt.Errorf("claude generate failed: %w", err)
	}
	if out == nil || out.Content == "" {
		return "", errors.New("empty response from model")
	}
	return out.Content, nil
}
