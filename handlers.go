package main

import (
	"context"
)

// process routes one update to exactly one of the dialogue, the free-text
// responder or the voice responder. An active dialogue takes precedence for text.
func (b *Bot) process(ctx context.Context, u InboundUpdate) {
	switch u.Kind {
	case UpdateCommand:
		b.handleCommand(ctx, u)
	case UpdateText:
		conv := b.conversations.Get(u.ChatID)
		if conv.Active() {
			b.advanceDialogue(ctx, u, conv)
			return
		}
		b.respondText(ctx, u)
	case UpdateVoice:
		b.respondVoice(ctx, u)
	default:
		InfoLogger.Printf("Ignoring update %d of kind %s in chat %d", u.UpdateID, u.Kind, u.ChatID)
	}
}

func (b *Bot) handleCommand(ctx context.Context, u InboundUpdate) {
	switch u.Command {
	case "start":
		conv := b.conversations.Get(u.ChatID)
		if conv.Active() {
			InfoLogger.Printf("Chat %d restarted the dialogue from %s", u.ChatID, conv.State)
		}
		b.applyStep(ctx, u, &conv, b.dialogue.Start(&conv, u.FirstName))

	case "cancel":
		conv := b.conversations.Get(u.ChatID)
		b.applyStep(ctx, u, &conv, b.dialogue.Cancel(&conv))

	case "stats":
		b.sendStats(ctx, u)

	default:
		b.sendResponse(ctx, u.ChatID, unknownCmdText)
	}
}

func (b *Bot) advanceDialogue(ctx context.Context, u InboundUpdate, conv Conversation) {
	b.applyStep(ctx, u, &conv, b.dialogue.Advance(&conv, u.Text, u.Username))
}

// applyStep saves the conversation before any blocking call, delivers a
// completed lead and then replies.
func (b *Bot) applyStep(ctx context.Context, u InboundUpdate, conv *Conversation, step Step) {
	b.conversations.Put(*conv)

	if step.Entered != "" && step.Entered != StateIdle {
		if err := b.store.RecordFunnel(step.Entered, u.ChatID); err != nil {
			ErrorLogger.Printf("Error recording funnel hit for chat %d: %v", u.ChatID, err)
		}
	}

	if step.Lead != nil {
		b.deliverLead(ctx, *step.Lead)
	}

	if step.Reply != "" {
		b.sendResponse(ctx, u.ChatID, step.Reply)
	}
}

// sendStats answers /stats for the administrator only.
func (b *Bot) sendStats(ctx context.Context, u InboundUpdate) {
	if !b.isAdmin(u.ChatID) {
		b.sendResponse(ctx, u.ChatID, deniedText)
		return
	}

	stats, err := b.store.Stats()
	if err != nil {
		ErrorLogger.Printf("Error fetching stats: %v", err)
		b.sendResponse(ctx, u.ChatID, apologyText)
		return
	}
	b.sendResponse(ctx, u.ChatID, formatStats(stats))
}
