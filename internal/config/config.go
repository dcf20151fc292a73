package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath    string
	StoresConfig    string
	SeasonalConfig  string
	GeminiAPIKey    string
	RandomSeed      int64

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	TelegramFamilyChatID   int64

	// Google Tasks Config
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	TasksStateSecret   string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/menubot.db"
	}

	storesConfig := os.Getenv("STORES_CONFIG_PATH")
	if storesConfig == "" {
		storesConfig = "config/stores.yaml"
	}

	seasonalConfig := os.Getenv("SEASONAL_CONFIG_PATH")
	if seasonalConfig == "" {
		seasonalConfig = "config/seasonal.yaml"
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	var seed int64
	if s := os.Getenv("RANDOM_SEED"); s != "" {
		parsed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RANDOM_SEED %q: %w", s, err)
		}
		seed = parsed
	}

	// Telegram Config (optional for CLI, required for the bot)
	telegramBotToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	telegramWebhookURL := os.Getenv("TELEGRAM_WEBHOOK_URL")

	var allowedIDs []int64
	if raw := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q: %w", part, err)
			}
			allowedIDs = append(allowedIDs, id)
		}
	}

	var familyChatID int64
	if raw := os.Getenv("TELEGRAM_FAMILY_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_FAMILY_CHAT_ID %q: %w", raw, err)
		}
		familyChatID = id
	}

	return &Config{
		DatabasePath:           dbPath,
		StoresConfig:           storesConfig,
		SeasonalConfig:         seasonalConfig,
		GeminiAPIKey:           geminiAPIKey,
		RandomSeed:             seed,
		TelegramBotToken:       telegramBotToken,
		TelegramWebhookURL:     telegramWebhookURL,
		TelegramAllowedUserIDs: allowedIDs,
		TelegramFamilyChatID:   familyChatID,
		GoogleClientID:         os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:     os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:      os.Getenv("GOOGLE_REDIRECT_URL"),
		TasksStateSecret:       os.Getenv("TASKS_STATE_SECRET"),
	}, nil
}
