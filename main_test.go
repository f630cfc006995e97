package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitProviders(t *testing.T) {
	t.Run("openai", func(t *testing.T) {
		cfg := testConfig()
		completer, transcriber := initProviders(cfg)
		assert.IsType(t, &openAICompleter{}, completer)
		assert.IsType(t, &whisperTranscriber{}, transcriber)
	})

	t.Run("anthropic with whisper", func(t *testing.T) {
		cfg := testConfig()
		cfg.Provider = ProviderAnthropic
		cfg.AnthropicAPIKey = "sk-ant"
		completer, transcriber := initProviders(cfg)
		assert.IsType(t, &anthropicCompleter{}, completer)
		assert.NotNil(t, transcriber)
	})

	t.Run("anthropic without voice", func(t *testing.T) {
		cfg := testConfig()
		cfg.Provider = ProviderAnthropic
		cfg.AnthropicAPIKey = "sk-ant"
		cfg.OpenAIAPIKey = ""
		completer, transcriber := initProviders(cfg)
		assert.IsType(t, &anthropicCompleter{}, completer)
		assert.Nil(t, transcriber)
	})
}

func runUntilStarted(t *testing.T, tb *testBot, started <-chan struct{}) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tb.Run(ctx) }()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("update source was not started")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestBot_RunPollMode(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "0"
	tb := newTestBot(t, cfg, false)

	started := make(chan struct{})
	deleted := false
	tb.tg.DeleteWebhookFunc = func(ctx context.Context, params *bot.DeleteWebhookParams) (bool, error) {
		deleted = true
		return true, nil
	}
	tb.tg.StartFunc = func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	}

	runUntilStarted(t, tb, started)
	assert.True(t, deleted)

	// Run stops the dispatcher on the way out.
	assert.ErrorIs(t, tb.dispatcher.Enqueue(context.Background(), InboundUpdate{ChatID: 1}), ErrQueueClosed)
}

func TestBot_RunWebhookMode(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "0"
	cfg.PublicURL = "https://bots.example.kz"
	cfg.WebhookSecret = "s3cret"
	tb := newTestBot(t, cfg, false)

	started := make(chan struct{})
	tb.tg.SetWebhookFunc = func(ctx context.Context, params *bot.SetWebhookParams) (bool, error) {
		assert.Equal(t, "https://bots.example.kz/webhook/s3cret", params.URL)
		assert.Equal(t, "s3cret", params.SecretToken)
		close(started)
		return true, nil
	}
	tb.tg.StartFunc = func(ctx context.Context) {
		t.Error("polling must not start in webhook mode")
	}

	runUntilStarted(t, tb, started)
}

func TestBot_RunWebhookRegistrationFails(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "0"
	cfg.PublicURL = "https://bots.example.kz"
	tb := newTestBot(t, cfg, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := 0
	tb.tg.SetWebhookFunc = func(context.Context, *bot.SetWebhookParams) (bool, error) {
		calls++
		// Cancelling skips the remaining backoff waits.
		cancel()
		return false, errors.New("bad request")
	}

	err := tb.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
