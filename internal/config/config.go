package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken string
	DatabaseURL   string
	LogLevel      string

	// DigestTime is the HH:MM wall-clock time of the daily digest.
	DigestTime string
	// CheckInterval is how often due reminders are looked up.
	CheckInterval time.Duration

	AIBaseURL string
	AIAPIKey  string
	AIModel   string

	PlacesBaseURL string
	PlacesAPIKey  string

	MetricsPort string
}

// Load reads configuration from environment variables with sane defaults.
// A .env file is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		DigestTime:    getEnvOrDefault("DIGEST_TIME", "08:00"),
		CheckInterval: parseInterval(strings.TrimSpace(os.Getenv("CHECK_INTERVAL"))),
		AIBaseURL:     getEnvOrDefault("AI_BASE_URL", "https://api.openai.com/v1"),
		AIAPIKey:      strings.TrimSpace(os.Getenv("AI_API_KEY")),
		AIModel:       getEnvOrDefault("AI_MODEL", "gpt-4o-mini"),
		PlacesBaseURL: getEnvOrDefault("PLACES_BASE_URL", "https://nominatim.openstreetmap.org"),
		PlacesAPIKey:  strings.TrimSpace(os.Getenv("PLACES_API_KEY")),
		MetricsPort:   getEnvOrDefault("METRICS_PORT", "9090"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "petpal.db"
	}

	if cfg.CheckInterval == 0 {
		cfg.CheckInterval = time.Minute
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		return 0
	}
	return interval
}

// getEnvOrDefault returns environment variable value or default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
