// Package config loads and validates application configuration from
// environment variables. An optional .env file is honored for local
// development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DBPath is the SQLite file backing the local key-value store.
	// Defaults to "fleetflow.db". Use ":memory:" for a throwaway store.
	DBPath string

	// JWTSecret signs session tokens. Required.
	JWTSecret string

	// SheetID identifies the shared fleet spreadsheet. Optional — when empty
	// the spreadsheet endpoints report unauthenticated and sync is skipped.
	SheetID string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps incoming request body sizes. Defaults to 1 MiB —
	// a trip sheet with hundreds of stops is still far under that.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables (after merging an
// optional .env file) and returns a Config. Returns an error listing any
// required variables that are not set.
func Load() (Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("config.Load: MAX_BODY_BYTES: %w", err)
	}

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		DBPath:       getEnv("DB_PATH", "fleetflow.db"),
		SheetID:      os.Getenv("SHEET_ID"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		MaxBodyBytes: maxBody,
	}

	var missing []string

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring
// empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
