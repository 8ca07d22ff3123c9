package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the process needs from the environment.
type Config struct {
	ListenAddr  string
	StoreDriver string // "memory" or "postgres"
	DatabaseURL string

	KafkaBrokers []string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRequestBytes int64

	// ConflictRetries bounds how often a lost conditional update is
	// retried. Zero keeps the terminal-failure default.
	ConflictRetries int
}

// Load reads .env if present, then the environment. Unset variables fall
// back to defaults suitable for local development with the memory store.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		StoreDriver:     getEnv("STORE_DRIVER", "memory"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		MaxRequestBytes: 64 << 10,
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}
	if v := os.Getenv("READ_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("READ_TIMEOUT: %w", err)
		}
		cfg.ReadTimeout = d
	}
	if v := os.Getenv("WRITE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("WRITE_TIMEOUT: %w", err)
		}
		cfg.WriteTimeout = d
	}
	if v := os.Getenv("MAX_REQUEST_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("MAX_REQUEST_BYTES: invalid value %q", v)
		}
		cfg.MaxRequestBytes = n
	}
	if v := os.Getenv("TXN_CONFLICT_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("TXN_CONFLICT_RETRIES: invalid value %q", v)
		}
		cfg.ConflictRetries = n
	}

	if cfg.StoreDriver != "memory" && cfg.StoreDriver != "postgres" {
		return cfg, fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.StoreDriver)
	}
	if cfg.StoreDriver == "postgres" && cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required with STORE_DRIVER=postgres")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
