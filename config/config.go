// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds settings shared by the CLI and the API server.
type Config struct {
	Workers      int
	Timeout      time.Duration
	PollInterval time.Duration
	SummaryDir   string
	LogLevel     string

	ListenAddr string
	APIKey     string
	RedisAddr  string
	RateLimit  int64
	RateWindow time.Duration
	MaxConns   int
}

// Defaults returns the configuration used when no environment overrides are present.
func Defaults() Config {
	return Config{
		Workers:      100,
		Timeout:      2 * time.Second,
		PollInterval: 150 * time.Millisecond,
		SummaryDir:   ".",
		LogLevel:     "info",
		ListenAddr:   ":8080",
		RateLimit:    60,
		RateWindow:   time.Minute,
		MaxConns:     256,
	}
}

// Load reads .env from the working directory when present, then applies
// environment variables on top of Defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (Config, error) {
	cfg := Defaults()
	var err error

	if cfg.Workers, err = intEnv("PORTLENS_WORKERS", cfg.Workers); err != nil {
		return Config{}, err
	}
	if cfg.Timeout, err = durationEnv("PORTLENS_TIMEOUT", cfg.Timeout); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval, err = durationEnv("PORTLENS_POLL_INTERVAL", cfg.PollInterval); err != nil {
		return Config{}, err
	}
	cfg.SummaryDir = getenv("PORTLENS_SUMMARY_DIR", cfg.SummaryDir)
	cfg.LogLevel = getenv("PORTLENS_LOG_LEVEL", cfg.LogLevel)

	cfg.ListenAddr = getenv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.APIKey = os.Getenv("API_KEY")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	limit, err := intEnv("RATE_LIMIT", int(cfg.RateLimit))
	if err != nil {
		return Config{}, err
	}
	cfg.RateLimit = int64(limit)
	if cfg.RateWindow, err = durationEnv("RATE_WINDOW", cfg.RateWindow); err != nil {
		return Config{}, err
	}
	if cfg.MaxConns, err = intEnv("MAX_CONNS", cfg.MaxConns); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings the scanner cannot run with.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.MaxConns < 1 {
		return fmt.Errorf("max conns must be at least 1, got %d", c.MaxConns)
	}
	return nil
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s is not a number: %s", key, raw)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s is not a duration: %s", key, raw)
	}
	return d, nil
}
