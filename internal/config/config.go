// Package config provides centralized configuration loaded from environment
// variables. Shared by cmd/etl and cmd/etl-api.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPlatformColumns is the marketplace price column set of the May-2022
// retail feed. Overridable via PLATFORM_COLUMNS; the aggregation core only
// ever sees the configured list.
var DefaultPlatformColumns = []string{
	"Ajio MRP",
	"Amazon MRP",
	"Amazon FBA MRP",
	"Flipkart MRP",
	"Limeroad MRP",
	"Myntra MRP",
	"Paytm MRP",
	"Snapdeal MRP",
}

// Config is populated from environment variables with sensible defaults.
type Config struct {
	ListenAddr      string
	DBPath          string
	DataFile        string
	OutputDir       string
	PlatformColumns []string
	RunTimeout      time.Duration
}

// Load reads a .env file if present, then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:      envOr("LISTEN_ADDR", ":8080"),
		DBPath:          envOr("DB_PATH", "etl.db"),
		DataFile:        envOr("DATA_FILE", "data/May-2022.csv"),
		OutputDir:       envOr("OUTPUT_DIR", "outputs"),
		PlatformColumns: platformColumns(),
		RunTimeout:      envDurationOr("RUN_TIMEOUT", 5*time.Minute),
	}
}

func platformColumns() []string {
	raw := os.Getenv("PLATFORM_COLUMNS")
	if raw == "" {
		return DefaultPlatformColumns
	}
	var cols []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return DefaultPlatformColumns
	}
	return cols
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
