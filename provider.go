package main

import (
	"context"
	"io"
)

// CompletionRequest is one persona-framed completion call.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	UserText     string
	Temperature  float32
	MaxTokens    int
}

// Completer calls an external text completion provider.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Transcriber calls an external speech-to-text provider.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

func completionRequest(t Tuning, text string) CompletionRequest {
	return CompletionRequest{
		Model:        t.Model,
		SystemPrompt: t.SystemPrompt,
		UserText:     text,
		Temperature:  t.Temperature,
		MaxTokens:    t.MaxTokens,
	}
}
