// Package config loads and validates all environment variables at startup.
// Every other package receives typed values — nothing reads os.Getenv directly.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port    string // default "8080"
	Env     string // "development" | "staging" | "production"
	BaseURL string // e.g. "https://app.runna.fit" — used in email CTA links

	// ── Database ──────────────────────────────────────────────────────────────
	DatabasePath string // path to the SQLite file, default "runna.db"

	// ── Gemini ────────────────────────────────────────────────────────────────
	GeminiAPIKey string
	GeminiModel  string // default "gemini-1.5-pro-latest"

	// ── Resend ────────────────────────────────────────────────────────────────
	// ResendAPIKey is optional: when empty the reminder channel runs disabled
	// and every send is skipped. The enabled/disabled decision is made once in
	// main.go, never re-checked per send.
	ResendAPIKey  string
	EmailFromAddr string // e.g. "coach@runna.fit"
	EmailFromName string // e.g. "Runna"

	// ── Auth ──────────────────────────────────────────────────────────────────
	JWTSecret string
	TokenTTL  time.Duration // default 72h

	// ── Reminders ─────────────────────────────────────────────────────────────
	// ReminderCronSpec is a standard five-field cron expression evaluated in
	// UTC. The default 16:00 UTC lands in the evening for the primary IST
	// audience (21:30 local).
	ReminderCronSpec string // default "0 16 * * *"
}

// Load reads all environment variables and returns a validated Config.
// It automatically loads a .env file from the working directory when present,
// so plain `go run ./cmd/api` works in development without any wrapper.
// Real environment variables always take precedence over .env values.
func Load() (*Config, error) {
	loadDotEnv(".env")

	c := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:8080"),
		DatabasePath:     getEnv("DATABASE_PATH", "runna.db"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-1.5-pro-latest"),
		ResendAPIKey:     os.Getenv("RESEND_API_KEY"),
		EmailFromAddr:    getEnv("EMAIL_FROM_ADDR", "coach@runna.fit"),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Runna"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TokenTTL:         getEnvAsDuration("TOKEN_TTL_HOURS", 72*time.Hour),
		ReminderCronSpec: getEnv("REMINDER_CRON", "0 16 * * *"),
	}

	return c, c.validate()
}

func (c *Config) validate() error {
	var errs []error

	required := map[string]string{
		"GEMINI_API_KEY": c.GeminiAPIKey,
		"JWT_SECRET":     c.JWTSecret,
	}

	for name, val := range required {
		if val == "" {
			errs = append(errs, fmt.Errorf("missing required env var: %s", name))
		}
	}

	return errors.Join(errs...)
}

// ─── DOT-ENV LOADER ──────────────────────────────────────────────────────────

// loadDotEnv reads key=value pairs from path and sets them in the environment,
// but only for keys that are not already set. This means real env vars (e.g.
// from Docker / Railway / your shell) always win over the file.
// Missing file, blank lines, and #-comments are all silently ignored.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return // file absent — that's fine
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		// Strip optional surrounding quotes: KEY="value" or KEY='value'
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		// Only set if the key isn't already present in the environment.
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	// Try a plain integer first (treated as seconds, minutes, or hours
	// depending on the variable name).
	if value, err := strconv.Atoi(valueStr); err == nil {
		switch {
		case strings.Contains(key, "HOURS"):
			return time.Duration(value) * time.Hour
		case strings.Contains(key, "MINUTES"):
			return time.Duration(value) * time.Minute
		default:
			return time.Duration(value) * time.Second
		}
	}
	// Fall back to Go duration syntax: "30s", "5m", "1h", etc.
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}
