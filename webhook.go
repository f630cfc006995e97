package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	maxUpdateBytes = 1 << 20

	webhookRegisterAttempts = 5
	webhookRegisterBackoff  = 5 * time.Second

	secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"
)

// updateEnqueuer accepts a decoded update for asynchronous processing.
type updateEnqueuer func(ctx context.Context, update *models.Update) error

// webhookBridge adapts Telegram push delivery to the dispatcher queue.
type webhookBridge struct {
	enqueue     updateEnqueuer
	pathSecret  string
	headerToken string // optional, checked when non-empty
}

func (h *webhookBridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if subtle.ConstantTimeCompare([]byte(r.PathValue("token")), []byte(h.pathSecret)) != 1 {
		http.NotFound(w, r)
		return
	}
	if h.headerToken != "" &&
		subtle.ConstantTimeCompare([]byte(r.Header.Get(secretTokenHeader)), []byte(h.headerToken)) != 1 {
		http.NotFound(w, r)
		return
	}

	update, err := decodeUpdate(io.LimitReader(r.Body, maxUpdateBytes))
	if err != nil {
		ErrorLogger.Printf("Error decoding webhook update: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := h.enqueue(r.Context(), update); err != nil {
		ErrorLogger.Printf("Error enqueueing webhook update %d: %v", update.ID, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Processing happens on the dispatcher; Telegram only needs the ack.
	w.WriteHeader(http.StatusOK)
}

var errEmptyUpdate = errors.New("update has no update_id")

// decodeUpdate reads exactly one JSON update from body. Trailing data after
// the object and updates without an id are rejected.
func decodeUpdate(body io.Reader) (*models.Update, error) {
	dec := json.NewDecoder(body)

	var update models.Update
	if err := dec.Decode(&update); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after update %d", update.ID)
	}
	if update.ID == 0 {
		return nil, errEmptyUpdate
	}
	return &update, nil
}

// newHTTPHandler builds the mux: the liveness root always, the webhook path
// only when a bridge is given.
func newHTTPHandler(bridge *webhookBridge) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, livenessText)
	})
	if bridge != nil {
		mux.Handle("POST /webhook/{token}", bridge)
	}
	return recoveryMiddleware(mux)
}

func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				ErrorLogger.Printf("PANIC: %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
				hub := sentry.CurrentHub().Clone()
				hub.WithScope(func(scope *sentry.Scope) {
					scope.SetTag("method", r.Method)
					scope.SetLevel(sentry.LevelFatal)
					hub.RecoverWithContext(r.Context(), err)
				})
				w.WriteHeader(http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// serveHTTP runs srv until ctx is cancelled, then shuts it down gracefully.
func serveHTTP(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		InfoLogger.Printf("HTTP server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// registerWebhook points Telegram at url, retrying a bounded number of times
// with a fixed backoff.
func registerWebhook(ctx context.Context, tg TelegramClient, url, secretToken string, attempts int, backoff time.Duration) error {
	params := &bot.SetWebhookParams{
		URL:            url,
		SecretToken:    secretToken,
		AllowedUpdates: []string{"message"},
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		ok, err := tg.SetWebhook(ctx, params)
		if err == nil && ok {
			InfoLogger.Printf("Webhook registered on attempt %d", attempt)
			return nil
		}
		if err == nil {
			err = errors.New("telegram rejected setWebhook")
		}
		lastErr = err
		ErrorLogger.Printf("Webhook registration attempt %d/%d failed: %v", attempt, attempts, err)

		if attempt == attempts {
			break
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("failed to register webhook after %d attempts: %w", attempts, lastErr)
}
