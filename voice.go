package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/go-telegram/bot"
)

// maxVoiceBytes is the upload limit of the transcription API.
const maxVoiceBytes = 25 << 20

// transcribeVoice downloads a voice note from Telegram and streams it to the
// transcription provider.
func (b *Bot) transcribeVoice(ctx context.Context, voice *VoiceNote) (string, error) {
	if voice == nil || voice.FileID == "" {
		return "", errors.New("voice note has no file id")
	}

	file, err := b.tgBot.GetFile(ctx, &bot.GetFileParams{FileID: voice.FileID})
	if err != nil {
		return "", fmt.Errorf("get file %s: %w", voice.FileID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.tgBot.FileDownloadLink(file), nil)
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download voice note: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download voice note: unexpected status %s", resp.Status)
	}

	filename := "voice.ogg"
	if file.FilePath != "" {
		filename = path.Base(file.FilePath)
	}
	return b.transcriber.Transcribe(ctx, filename, io.LimitReader(resp.Body, maxVoiceBytes))
}
