package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
)

func main() {
	initLoggers()
	InfoLogger.Println("Starting Telegram Bot Application")

	config, err := loadEnvConfig()
	if err != nil {
		ErrorLogger.Fatalf("Error loading configuration: %v", err)
	}
	if err := validateConfig(&config); err != nil {
		ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}

	initSentry(config)
	defer flushSentry()

	db, err := initDB(config.DatabasePath)
	if err != nil {
		ErrorLogger.Fatalf("Error initializing database: %v", err)
	}

	completer, transcriber := initProviders(config)

	b, err := NewBot(db, config, RealClock{}, nil, completer, transcriber)
	if err != nil {
		ErrorLogger.Fatalf("Error creating bot: %v", err)
	}

	tgClient, err := initTelegramBot(config.TelegramToken, b.handleUpdate)
	if err != nil {
		ErrorLogger.Fatalf("Error initializing Telegram client: %v", err)
	}
	b.setTelegramClient(tgClient)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := b.Run(ctx); err != nil {
		ErrorLogger.Printf("Bot stopped with error: %v", err)
	}
	InfoLogger.Println("Bot has stopped. Exiting application.")
}

// initProviders selects the completion backend. Voice notes need Whisper, so
// they are available whenever an OpenAI key is configured.
func initProviders(config Config) (Completer, Transcriber) {
	var transcriber Transcriber
	if config.OpenAIAPIKey != "" {
		oa := newOpenAIClient(config.OpenAIAPIKey, "")
		transcriber = newWhisperTranscriber(oa, config.Tuning.TranscriptionModel)
		if config.Provider == ProviderOpenAI {
			return newOpenAICompleter(oa), transcriber
		}
	} else {
		InfoLogger.Println("OPENAI_API_KEY is empty, voice notes are disabled")
	}
	return newAnthropicCompleter(config.AnthropicAPIKey), transcriber
}

// Run starts the workers and the update source selected by configuration,
// and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.dispatcher.Start(ctx)
	defer b.dispatcher.Stop()

	var bridge *webhookBridge
	if b.config.WebhookMode() {
		bridge = &webhookBridge{
			enqueue:     b.enqueueUpdate,
			pathSecret:  b.config.PathSecret(),
			headerToken: b.config.WebhookSecret,
		}
	}
	srv := &http.Server{
		Addr:              ":" + b.config.Port,
		Handler:           newHTTPHandler(bridge),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if b.config.WebhookMode() {
		InfoLogger.Println("Starting in webhook mode")
		if err := registerWebhook(ctx, b.tgBot, b.config.WebhookURL(), b.config.WebhookSecret,
			webhookRegisterAttempts, webhookRegisterBackoff); err != nil {
			return err
		}
		return serveHTTP(ctx, srv)
	}

	InfoLogger.Println("Starting in polling mode")
	if _, err := b.tgBot.DeleteWebhook(ctx, &bot.DeleteWebhookParams{}); err != nil {
		ErrorLogger.Printf("Error deleting webhook before polling: %v", err)
	}

	var wg sync.WaitGroup
	var httpErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		httpErr = serveHTTP(ctx, srv)
	}()

	b.tgBot.Start(ctx)
	wg.Wait()
	return httpErr
}
