package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"linkedin-importer/internal/models"
)

// DefaultConfig returns the default configuration for the importer
func DefaultConfig() models.Config {
	return models.Config{
		DBPath:             "importer.db",
		Headless:           true,
		ScrapeDelay:        2 * time.Second,
		RequestTimeout:     15 * time.Second,
		ContentWaitTimeout: 10 * time.Second,
		MaxJobs:            4,
		LogLevel:           "info",
	}
}

// Load returns the default configuration with environment overrides
// applied. A .env file in the working directory is honored if present.
func Load() models.Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.ChromePath = getEnv("CHROME_PATH", cfg.ChromePath)
	cfg.Headless = getEnvBool("HEADLESS", cfg.Headless)
	cfg.ScrapeDelay = getEnvDuration("SCRAPE_DELAY", cfg.ScrapeDelay)
	cfg.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.ContentWaitTimeout = getEnvDuration("CONTENT_WAIT_TIMEOUT", cfg.ContentWaitTimeout)
	cfg.MaxJobs = getEnvInt64("MAX_JOBS", cfg.MaxJobs)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	// Rate-limit floor: never hit the target faster than every 2 seconds.
	if cfg.ScrapeDelay < 2*time.Second {
		cfg.ScrapeDelay = 2 * time.Second
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}
