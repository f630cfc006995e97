package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/google/uuid"
)

// LeadRecord is the immutable result of a completed dialogue.
type LeadRecord struct {
	ID        string
	ChatID    int64
	Username  string
	Niche     string
	Name      string
	Phone     string
	CreatedAt time.Time
}

func newLeadRecord(conv Conversation, username string, now time.Time) LeadRecord {
	return LeadRecord{
		ID:        uuid.NewString(),
		ChatID:    conv.ChatID,
		Username:  username,
		Niche:     conv.Niche,
		Name:      conv.Name,
		Phone:     conv.Phone,
		CreatedAt: now,
	}
}

// LeadSink delivers a lead to whoever handles it.
type LeadSink interface {
	SendLead(ctx context.Context, lead LeadRecord) error
}

var errNoAdminChat = errors.New("admin chat id is not configured")

// adminLeadSink posts leads as plain text to the administrator chat.
type adminLeadSink struct {
	tg          TelegramClient
	adminChatID int64
}

func (s *adminLeadSink) SendLead(ctx context.Context, lead LeadRecord) error {
	if s.adminChatID == 0 {
		return errNoAdminChat
	}
	_, err := s.tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: s.adminChatID,
		Text:   formatLead(lead),
	})
	if err != nil {
		return fmt.Errorf("send lead %s to admin chat %d: %w", lead.ID, s.adminChatID, err)
	}
	return nil
}

func formatLead(lead LeadRecord) string {
	var b strings.Builder
	b.WriteString("🆕 Новая заявка\n\n")
	fmt.Fprintf(&b, "Ниша: %s\n", lead.Niche)
	fmt.Fprintf(&b, "Имя: %s\n", lead.Name)
	fmt.Fprintf(&b, "Телефон: %s\n", lead.Phone)
	if lead.Username != "" {
		fmt.Fprintf(&b, "Telegram: @%s\n", lead.Username)
	}
	fmt.Fprintf(&b, "Chat ID: %d\n", lead.ChatID)
	fmt.Fprintf(&b, "Время: %s", lead.CreatedAt.Format(time.RFC3339))
	return b.String()
}
