package main

import (
	"context"
)

// respondText forwards free text to the completion provider and relays the
// reply verbatim. Provider failures become the fixed apology.
func (b *Bot) respondText(ctx context.Context, u InboundUpdate) {
	b.storeMessage(b.createMessage(u, "text", u.Text, true))
	b.mirrorToAdmin(ctx, u, "📩 Сообщение", u.Text)

	if !b.limiter.Allow(u.senderKey()) {
		b.sendResponse(ctx, u.ChatID, rateLimitText)
		return
	}

	reply, err := b.completer.Complete(ctx, completionRequest(b.config.Tuning, u.Text))
	if err != nil {
		ErrorLogger.Printf("Error getting completion for chat %d: %v", u.ChatID, err)
		captureError(err, u.ChatID, "completion")
		reply = apologyText
	}

	b.relayReply(ctx, u, reply)
}

// respondVoice transcribes an attached voice note and relays the transcript.
func (b *Bot) respondVoice(ctx context.Context, u InboundUpdate) {
	if b.transcriber == nil {
		b.sendResponse(ctx, u.ChatID, noVoiceText)
		return
	}
	if !b.limiter.Allow(u.senderKey()) {
		b.sendResponse(ctx, u.ChatID, rateLimitText)
		return
	}

	transcript, err := b.transcribeVoice(ctx, u.Voice)
	if err != nil {
		ErrorLogger.Printf("Error transcribing voice note in chat %d: %v", u.ChatID, err)
		captureError(err, u.ChatID, "transcription")
		b.sendResponse(ctx, u.ChatID, apologyText)
		return
	}
	if transcript == "" {
		b.sendResponse(ctx, u.ChatID, emptyVoiceText)
		return
	}

	b.storeMessage(b.createMessage(u, "voice", transcript, true))
	b.mirrorToAdmin(ctx, u, "🎤 Голосовое", transcript)
	b.relayReply(ctx, u, transcript)
}

func (b *Bot) relayReply(ctx context.Context, u InboundUpdate, reply string) {
	if err := b.sendResponse(ctx, u.ChatID, reply); err != nil {
		return
	}
	b.storeMessage(b.createMessage(u, "reply", reply, false))
	b.mirrorToAdmin(ctx, u, "🤖 Ответ", reply)
}
