package main

import (
	"strings"

	"github.com/go-telegram/bot/models"
)

// UpdateKind tags the variant carried by an InboundUpdate.
type UpdateKind int

const (
	UpdateText UpdateKind = iota + 1
	UpdateVoice
	UpdateCommand
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateText:
		return "text"
	case UpdateVoice:
		return "voice"
	case UpdateCommand:
		return "command"
	default:
		return "unknown"
	}
}

// VoiceNote references an audio attachment stored on Telegram's side.
type VoiceNote struct {
	FileID   string
	Duration int
	MimeType string
}

// InboundUpdate is the transport-independent event consumed by dispatch.
type InboundUpdate struct {
	UpdateID  int64
	Kind      UpdateKind
	ChatID    int64
	UserID    int64
	Username  string
	FirstName string

	Text    string // TextMessage payload
	Command string // Command name without the slash or @botname, lowercased
	Args    string
	Voice   *VoiceNote
}

// parseUpdate converts a Telegram update into an InboundUpdate. The second
// result is false when the update carries nothing the bot dispatches on.
func parseUpdate(update *models.Update) (InboundUpdate, bool) {
	if update == nil || update.Message == nil {
		return InboundUpdate{}, false
	}
	message := update.Message

	in := InboundUpdate{
		UpdateID: update.ID,
		ChatID:   message.Chat.ID,
	}
	if message.From != nil {
		in.UserID = message.From.ID
		in.Username = message.From.Username
		in.FirstName = message.From.FirstName
	}

	if name, args, ok := parseCommand(message); ok {
		in.Kind = UpdateCommand
		in.Command = name
		in.Args = args
		return in, true
	}

	if message.Voice != nil {
		in.Kind = UpdateVoice
		in.Voice = &VoiceNote{
			FileID:   message.Voice.FileID,
			Duration: message.Voice.Duration,
			MimeType: message.Voice.MimeType,
		}
		return in, true
	}

	if message.Text != "" {
		in.Kind = UpdateText
		in.Text = message.Text
		return in, true
	}

	return InboundUpdate{}, false
}

// parseCommand recognizes a bot_command entity at the start of the text.
func parseCommand(message *models.Message) (string, string, bool) {
	for _, entity := range message.Entities {
		if entity.Type != "bot_command" || entity.Offset != 0 {
			continue
		}
		if entity.Length <= 1 || entity.Length > len(message.Text) {
			return "", "", false
		}
		command := message.Text[1:entity.Length]
		if i := strings.IndexByte(command, '@'); i >= 0 {
			command = command[:i]
		}
		args := strings.TrimSpace(message.Text[entity.Length:])
		return strings.ToLower(command), args, true
	}
	return "", "", false
}

// senderKey identifies who is rate limited. Channel posts and anonymous
// admins carry no sender, so their chat stands in for the user.
func (u InboundUpdate) senderKey() int64 {
	if u.UserID != 0 {
		return u.UserID
	}
	return u.ChatID
}
