// telegram_client_mock.go
package main

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/mock"
)

// MockTelegramClient is a mock implementation of TelegramClient for testing.
// A non-nil ...Func field takes precedence over recorded expectations.
type MockTelegramClient struct {
	mock.Mock
	SendMessageFunc   func(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	GetFileFunc       func(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	DownloadLinkFunc  func(f *models.File) string
	SetWebhookFunc    func(ctx context.Context, params *bot.SetWebhookParams) (bool, error)
	DeleteWebhookFunc func(ctx context.Context, params *bot.DeleteWebhookParams) (bool, error)
	StartFunc         func(ctx context.Context)
}

// SendMessage mocks sending a message.
func (m *MockTelegramClient) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, params)
	}
	args := m.Called(ctx, params)
	if msg, ok := args.Get(0).(*models.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetFile mocks resolving a file id.
func (m *MockTelegramClient) GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error) {
	if m.GetFileFunc != nil {
		return m.GetFileFunc(ctx, params)
	}
	args := m.Called(ctx, params)
	if f, ok := args.Get(0).(*models.File); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

// FileDownloadLink mocks building the download URL.
func (m *MockTelegramClient) FileDownloadLink(f *models.File) string {
	if m.DownloadLinkFunc != nil {
		return m.DownloadLinkFunc(f)
	}
	return m.Called(f).String(0)
}

// SetWebhook mocks webhook registration.
func (m *MockTelegramClient) SetWebhook(ctx context.Context, params *bot.SetWebhookParams) (bool, error) {
	if m.SetWebhookFunc != nil {
		return m.SetWebhookFunc(ctx, params)
	}
	args := m.Called(ctx, params)
	return args.Bool(0), args.Error(1)
}

// DeleteWebhook mocks webhook removal.
func (m *MockTelegramClient) DeleteWebhook(ctx context.Context, params *bot.DeleteWebhookParams) (bool, error) {
	if m.DeleteWebhookFunc != nil {
		return m.DeleteWebhookFunc(ctx, params)
	}
	args := m.Called(ctx, params)
	return args.Bool(0), args.Error(1)
}

// Start mocks starting the Telegram client.
func (m *MockTelegramClient) Start(ctx context.Context) {
	if m.StartFunc != nil {
		m.StartFunc(ctx)
		return
	}
	m.Called(ctx)
}
