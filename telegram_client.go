// telegram_client.go
package main

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// TelegramClient defines the methods required from the Telegram bot.
// *bot.Bot satisfies it.
type TelegramClient interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
	SetWebhook(ctx context.Context, params *bot.SetWebhookParams) (bool, error)
	DeleteWebhook(ctx context.Context, params *bot.DeleteWebhookParams) (bool, error)
	Start(ctx context.Context)
}

// telegramOptions configures the go-telegram client. Handlers run
// synchronously so polled updates reach the dispatcher in the order Telegram
// returned them; the dispatcher does the parallel work.
func telegramOptions(handleUpdate bot.HandlerFunc) []bot.Option {
	return []bot.Option{
		bot.WithDefaultHandler(handleUpdate),
		bot.WithNotAsyncHandlers(),
		bot.WithErrorsHandler(func(err error) {
			ErrorLogger.Printf("Telegram client error: %v", err)
		}),
	}
}

// initTelegramBot builds the go-telegram client. In poll mode every update
// reaches handleUpdate; in webhook mode the bridge bypasses the client.
func initTelegramBot(token string, handleUpdate bot.HandlerFunc) (TelegramClient, error) {
	tgBot, err := bot.New(token, telegramOptions(handleUpdate)...)
	if err != nil {
		return nil, err
	}
	return tgBot, nil
}
