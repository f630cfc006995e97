package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	defaultOpenAIModel        = "gpt-4"
	defaultAnthropicModel     = "claude-3-5-sonnet-20240620"
	defaultTranscriptionModel = "whisper-1"
	defaultMaxTokens          = 1000
)

// Config is the process configuration, sourced from the environment.
type Config struct {
	TelegramToken   string
	Provider        string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	Port          string
	PublicURL     string
	WebhookSecret string

	AdminChatID   int64
	MirrorToAdmin bool

	DatabasePath string
	Workers      int
	QueueSize    int

	SentryDSN         string
	SentryEnvironment string

	Tuning Tuning
}

// Tuning holds the provider and limiter knobs read from the optional JSON file.
type Tuning struct {
	Model              string  `json:"model"`
	Temperature        float32 `json:"temperature"`
	MaxTokens          int     `json:"max_tokens"`
	SystemPrompt       string  `json:"system_prompt"`
	TranscriptionModel string  `json:"transcription_model"`
	MessagePerHour     int     `json:"messages_per_hour"`
	MessagePerDay      int     `json:"messages_per_day"`
	TempBanDuration    string  `json:"temp_ban_duration"`
}

// WebhookMode reports whether a public URL was configured.
func (c Config) WebhookMode() bool {
	return c.PublicURL != ""
}

// PathSecret is the token embedded in the webhook path.
func (c Config) PathSecret() string {
	if c.WebhookSecret != "" {
		return c.WebhookSecret
	}
	return c.TelegramToken
}

// WebhookURL is the address registered with Telegram in webhook mode.
func (c Config) WebhookURL() string {
	return strings.TrimRight(c.PublicURL, "/") + "/webhook/" + c.PathSecret()
}

// loadEnvConfig reads .env (if present) and the environment, then applies the
// tuning file named by BOT_CONFIG_FILE.
func loadEnvConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		InfoLogger.Println("No .env file found, using environment variables")
	}

	publicURL := os.Getenv("PUBLIC_URL")
	if publicURL == "" {
		publicURL = os.Getenv("RENDER_URL")
	}

	adminChatID, err := envInt64("ADMIN_CHAT_ID")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		TelegramToken:     strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		Provider:          strings.ToLower(envOr("AI_PROVIDER", ProviderOpenAI)),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		Port:              envOr("PORT", "8080"),
		PublicURL:         publicURL,
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		AdminChatID:       adminChatID,
		MirrorToAdmin:     envBool("MIRROR_TO_ADMIN", false),
		DatabasePath:      envOr("DATABASE_PATH", "bot.db"),
		Workers:           envInt("WORKERS", 4),
		QueueSize:         envInt("QUEUE_SIZE", 64),
		SentryDSN:         os.Getenv("SENTRY_DSN"),
		SentryEnvironment: envOr("SENTRY_ENVIRONMENT", "production"),
	}

	if filename := os.Getenv("BOT_CONFIG_FILE"); filename != "" {
		tuning, err := loadTuning(filename)
		if err != nil {
			return Config{}, err
		}
		cfg.Tuning = tuning
	}
	cfg.Tuning = cfg.Tuning.withDefaults(cfg.Provider)

	return cfg, nil
}

// loadTuning decodes a JSON tuning file.
func loadTuning(filename string) (Tuning, error) {
	var tuning Tuning
	file, err := os.Open(filename)
	if err != nil {
		return tuning, fmt.Errorf("failed to open config file %s: %w", filename, err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&tuning); err != nil {
		return tuning, fmt.Errorf("failed to decode JSON from %s: %w", filename, err)
	}
	return tuning, nil
}

func (t Tuning) withDefaults(provider string) Tuning {
	if t.Model == "" {
		if provider == ProviderAnthropic {
			t.Model = defaultAnthropicModel
		} else {
			t.Model = defaultOpenAIModel
		}
	}
	if t.MaxTokens <= 0 {
		t.MaxTokens = defaultMaxTokens
	}
	if strings.TrimSpace(t.SystemPrompt) == "" {
		t.SystemPrompt = personaPrompt
	}
	if t.TranscriptionModel == "" {
		t.TranscriptionModel = defaultTranscriptionModel
	}
	if t.TempBanDuration == "" {
		t.TempBanDuration = "1h"
	}
	return t
}

// validateConfig checks that credentials and values needed at startup are present.
func validateConfig(cfg *Config) error {
	if cfg.TelegramToken == "" {
		return fmt.Errorf("missing TELEGRAM_TOKEN")
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return fmt.Errorf("missing OPENAI_API_KEY for provider %q", cfg.Provider)
		}
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return fmt.Errorf("missing ANTHROPIC_API_KEY for provider %q", cfg.Provider)
		}
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", cfg.Provider)
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", cfg.Port, err)
	}
	if cfg.PublicURL != "" && !strings.HasPrefix(cfg.PublicURL, "https://") {
		return fmt.Errorf("PUBLIC_URL must be an https URL, got %q", cfg.PublicURL)
	}
	if cfg.MirrorToAdmin && cfg.AdminChatID == 0 {
		return fmt.Errorf("MIRROR_TO_ADMIN requires ADMIN_CHAT_ID")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("WORKERS must be positive, got %d", cfg.Workers)
	}
	if cfg.QueueSize < 0 {
		return fmt.Errorf("QUEUE_SIZE must not be negative, got %d", cfg.QueueSize)
	}
	if _, err := time.ParseDuration(cfg.Tuning.TempBanDuration); err != nil {
		return fmt.Errorf("invalid temp_ban_duration %q: %w", cfg.Tuning.TempBanDuration, err)
	}
	if cfg.Tuning.MessagePerHour < 0 || cfg.Tuning.MessagePerDay < 0 {
		return fmt.Errorf("message limits must not be negative")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// envInt64 is strict: a chat id that does not parse is a configuration error.
func envInt64(key string) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
