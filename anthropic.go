package main

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

type anthropicCompleter struct {
	client *anthropic.Client
}

func newAnthropicCompleter(apiKey string, opts ...anthropic.ClientOption) *anthropicCompleter {
	return &anthropicCompleter{client: anthropic.NewClient(apiKey, opts...)}
}

func (c *anthropicCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	request := anthropic.MessagesRequest{
		Model:  anthropic.Model(req.Model),
		System: req.SystemPrompt,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(req.UserText),
				},
			},
		},
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature > 0 {
		temperature := req.Temperature
		request.Temperature = &temperature
	}

	resp, err := c.client.CreateMessages(ctx, request)
	if err != nil {
		return "", fmt.Errorf("error creating Anthropic message: %w", err)
	}

	if len(resp.Content) == 0 || resp.Content[0].Type != anthropic.MessagesContentTypeText {
		return "", fmt.Errorf("unexpected response format from Anthropic")
	}

	return resp.Content[0].GetText(), nil
}
