package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type openAICompleter struct {
	client *openai.Client
}

func newOpenAICompleter(client *openai.Client) *openAICompleter {
	return &openAICompleter{client: client}
}

func (c *openAICompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserText},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("error creating OpenAI chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("OpenAI returned an empty reply")
	}
	return reply, nil
}

type whisperTranscriber struct {
	client *openai.Client
	model  string
}

func newWhisperTranscriber(client *openai.Client, model string) *whisperTranscriber {
	if model == "" {
		model = openai.Whisper1
	}
	return &whisperTranscriber{client: client, model: model}
}

func (t *whisperTranscriber) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: filename,
		Reader:   audio,
	})
	if err != nil {
		return "", fmt.Errorf("error creating OpenAI transcription: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// newOpenAIClient builds a client; baseURL is only overridden in tests.
func newOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
