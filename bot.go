package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"gorm.io/gorm"
)

type Bot struct {
	tgBot         TelegramClient
	store         *Store
	conversations *ConversationStore
	dialogue      *Dialogue
	completer     Completer
	transcriber   Transcriber // nil disables voice notes
	leadSink      LeadSink
	limiter       *RateLimiter
	dispatcher    *Dispatcher
	httpClient    *http.Client
	config        Config
	clock         Clock
}

// NewBot wires the dispatch layer. tgClient may be nil and attached later
// with setTelegramClient, since the Telegram client needs handleUpdate first.
func NewBot(db *gorm.DB, config Config, clock Clock, tgClient TelegramClient, completer Completer, transcriber Transcriber) (*Bot, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if completer == nil {
		return nil, errors.New("completion provider is required")
	}

	b := &Bot{
		store:         NewStore(db),
		conversations: NewConversationStore(),
		dialogue:      NewDialogue(clock),
		completer:     completer,
		transcriber:   transcriber,
		limiter:       NewRateLimiter(config.Tuning, clock),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		config:        config,
		clock:         clock,
	}
	b.dispatcher = NewDispatcher(config.Workers, config.QueueSize, b.process, b.recoverUpdate)

	if tgClient != nil {
		b.setTelegramClient(tgClient)
	}
	return b, nil
}

func (b *Bot) setTelegramClient(tgClient TelegramClient) {
	b.tgBot = tgClient
	b.leadSink = &adminLeadSink{tg: tgClient, adminChatID: b.config.AdminChatID}
}

// handleUpdate is the go-telegram default handler used in poll mode. It feeds
// the same queue as the webhook bridge.
func (b *Bot) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if err := b.enqueueUpdate(ctx, update); err != nil {
		ErrorLogger.Printf("Error enqueueing polled update %d: %v", update.ID, err)
	}
}

// enqueueUpdate converts a Telegram update and queues it. Updates without a
// dispatchable payload are dropped without error.
func (b *Bot) enqueueUpdate(ctx context.Context, update *models.Update) error {
	in, ok := parseUpdate(update)
	if !ok {
		return nil
	}
	return b.dispatcher.Enqueue(ctx, in)
}

// recoverUpdate turns a panic in a handler into the generic apology.
func (b *Bot) recoverUpdate(ctx context.Context, u InboundUpdate, recovered interface{}) {
	capturePanic(recovered, u.ChatID)
	b.sendResponse(ctx, u.ChatID, apologyText)
}

func (b *Bot) sendResponse(ctx context.Context, chatID int64, text string) error {
	_, err := b.tgBot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		ErrorLogger.Printf("Error sending message to chat %d: %v", chatID, err)
		return err
	}
	return nil
}

// deliverLead persists the lead and sends it to the notification sink once.
// Failures are logged and recorded; the user confirmation does not depend on them.
func (b *Bot) deliverLead(ctx context.Context, lead LeadRecord) {
	if err := b.store.SaveLead(lead); err != nil {
		ErrorLogger.Printf("Error storing lead %s for chat %d: %v", lead.ID, lead.ChatID, err)
		captureError(err, lead.ChatID, "lead_store")
	}
	if err := b.store.RecordFunnel(stateLeadCaptured, lead.ChatID); err != nil {
		ErrorLogger.Printf("Error recording funnel hit for chat %d: %v", lead.ChatID, err)
	}

	if err := b.leadSink.SendLead(ctx, lead); err != nil {
		ErrorLogger.Printf("Error delivering lead %s for chat %d: %v", lead.ID, lead.ChatID, err)
		captureError(err, lead.ChatID, "lead_sink")
		if err := b.store.MarkLeadFailed(lead.ID, err); err != nil {
			ErrorLogger.Printf("Error marking lead %s as failed: %v", lead.ID, err)
		}
		return
	}

	InfoLogger.Printf("Lead %s from chat %d delivered", lead.ID, lead.ChatID)
	if err := b.store.MarkLeadDelivered(lead.ID, b.clock.Now()); err != nil {
		ErrorLogger.Printf("Error marking lead %s as delivered: %v", lead.ID, err)
	}
}

// mirrorToAdmin copies a line of a free-text or voice exchange to the admin chat.
func (b *Bot) mirrorToAdmin(ctx context.Context, u InboundUpdate, label, text string) {
	if !b.config.MirrorToAdmin || b.config.AdminChatID == 0 || u.ChatID == b.config.AdminChatID {
		return
	}
	who := fmt.Sprintf("%d", u.UserID)
	if u.Username != "" {
		who = "@" + u.Username
	}
	mirrored := fmt.Sprintf("%s [%s, chat %d]:\n%s", label, who, u.ChatID, text)
	if err := b.sendResponse(ctx, b.config.AdminChatID, mirrored); err != nil {
		ErrorLogger.Printf("Error mirroring message from chat %d: %v", u.ChatID, err)
	}
}

func (b *Bot) createMessage(u InboundUpdate, kind, text string, isUser bool) Message {
	message := Message{
		ChatID:    u.ChatID,
		Kind:      kind,
		Text:      text,
		Timestamp: b.clock.Now(),
		IsUser:    isUser,
	}
	if isUser {
		message.UserID = u.UserID
		message.Username = u.Username
	} else {
		message.Username = "AI Assistant"
	}
	return message
}

func (b *Bot) storeMessage(message Message) {
	if err := b.store.StoreMessage(message); err != nil {
		ErrorLogger.Printf("Error storing message for chat %d: %v", message.ChatID, err)
	}
}

func (b *Bot) isAdmin(chatID int64) bool {
	return b.config.AdminChatID != 0 && chatID == b.config.AdminChatID
}
