package main

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFormatLead(t *testing.T) {
	text := formatLead(testLead("lead-1"))

	assert.Contains(t, text, "Новая заявка")
	assert.Contains(t, text, "Ниша: retail\n")
	assert.Contains(t, text, "Имя: Aigerim\n")
	assert.Contains(t, text, "Телефон: +7 700 000 00 00\n")
	assert.Contains(t, text, "Telegram: @aigerim_kz\n")
	assert.Contains(t, text, "Chat ID: 1001\n")
	assert.Contains(t, text, "Время: 2024-03-01T10:00:00Z")

	lead := testLead("lead-2")
	lead.Username = ""
	assert.NotContains(t, formatLead(lead), "Telegram:")
}

func TestAdminLeadSink(t *testing.T) {
	t.Run("sends to admin chat", func(t *testing.T) {
		tg := &MockTelegramClient{}
		tg.On("SendMessage", mock.Anything, mock.MatchedBy(func(p *bot.SendMessageParams) bool {
			return p.ChatID == testAdminChatID && p.Text == formatLead(testLead("lead-1"))
		})).Return(&models.Message{}, nil).Once()

		sink := &adminLeadSink{tg: tg, adminChatID: testAdminChatID}
		require.NoError(t, sink.SendLead(context.Background(), testLead("lead-1")))
		tg.AssertExpectations(t)
	})

	t.Run("wraps transport errors", func(t *testing.T) {
		tg := &MockTelegramClient{}
		cause := errors.New("bot was blocked")
		tg.On("SendMessage", mock.Anything, mock.Anything).Return(nil, cause)

		sink := &adminLeadSink{tg: tg, adminChatID: testAdminChatID}
		err := sink.SendLead(context.Background(), testLead("lead-1"))
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "lead-1")
	})

	t.Run("no admin chat", func(t *testing.T) {
		tg := &MockTelegramClient{}
		sink := &adminLeadSink{tg: tg}

		err := sink.SendLead(context.Background(), testLead("lead-1"))
		assert.ErrorIs(t, err, errNoAdminChat)
		tg.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	})
}
