package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string
	SecretFile     string

	// Authors allowed to write entries, and the year being written about
	Authors    []string
	ActiveYear int
	TZKey      string

	// Write-window override: allow writes on any day of the active year.
	// Testing only, must stay off in production.
	AllowAnyDay bool

	// Optional fixed "now" for tests (RFC 3339)
	TestNow string

	// Email / reminder settings
	EmailsEnabled   bool
	AWSRegion       string
	SESFromEmail    string
	SESFromName     string
	EmailRecipients map[string]string
	ReminderHour    int
	ExternalBaseURL string

	// Admin credentials (bcrypt hash, never the plain password)
	AdminUsername     string
	AdminPasswordHash string

	SessionDuration time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./memories.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		SecretFile:     getEnv("SECRET_FILE", "./.secret"),

		Authors:    splitList(getEnv("AUTHORS", "Jaime,Gabi")),
		ActiveYear: getEnvInt("ACTIVE_YEAR", 2026),
		TZKey:      getEnv("TZ_KEY", "Europe/Madrid"),

		AllowAnyDay: os.Getenv("ALLOW_WRITE") == "1",
		TestNow:     getEnv("TEST_NOW", ""),

		EmailsEnabled:   getEnvBool("EMAILS_ENABLED", false),
		AWSRegion:       getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail:    getEnv("SES_FROM_EMAIL", ""),
		SESFromName:     getEnv("SES_FROM_NAME", "Weekly Memories"),
		EmailRecipients: parseRecipients(getEnv("EMAIL_RECIPIENTS", "")),
		ReminderHour:    getEnvInt("REMINDER_HOUR", 9),
		ExternalBaseURL: getEnv("EXTERNAL_BASE_URL", ""),

		AdminUsername:     getEnv("ADMIN_USERNAME", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		SessionDuration: time.Hour,
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool reads a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// splitList parses a comma-separated list, trimming whitespace
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// parseRecipients parses "Author=addr,Author=addr" into a recipient map
func parseRecipients(value string) map[string]string {
	recipients := make(map[string]string)
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		addr := strings.TrimSpace(parts[1])
		if name != "" && addr != "" {
			recipients[name] = addr
		}
	}
	return recipients
}
