package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
)

// initSentry configures error reporting. An empty DSN leaves the SDK with a
// no-op transport, so callers can capture unconditionally.
func initSentry(cfg Config) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			// Leads carry phone numbers; never ship user identity.
			event.User = sentry.User{}
			return event
		},
	})
	if err != nil {
		ErrorLogger.Printf("Sentry init failed (continuing without it): %v", err)
		return
	}
	if cfg.SentryDSN == "" {
		InfoLogger.Println("SENTRY_DSN is empty, error reporting disabled")
	}
}

func flushSentry() {
	sentry.Flush(2 * time.Second)
}

// captureError reports err tagged with the chat it happened in.
func captureError(err error, chatID int64, component string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("chat_id", strconv.FormatInt(chatID, 10))
		scope.SetTag("component", component)
		sentry.CaptureException(err)
	})
}

// capturePanic reports a recovered panic value at fatal level.
func capturePanic(recovered interface{}, chatID int64) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("chat_id", strconv.FormatInt(chatID, 10))
		scope.SetLevel(sentry.LevelFatal)
		sentry.CaptureException(fmt.Errorf("panic: %v", recovered))
	})
}
