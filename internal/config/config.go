// Package config provides configuration for the settlerec process.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process configuration. Flags override these values where
// the CLI exposes a corresponding flag.
type Config struct {
	RuntimeDir   string        // Directory holding bank.txt / market.txt / status.txt
	PollInterval time.Duration // Orchestrator pass interval
	LogLevel     string        // debug | info | warn | error
	BenchDB      string        // SQLite database for benchmark results
}

// Load reads configuration from environment variables, loading a .env
// file first if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	runtimeDir := getEnv("SETTLEREC_RUNTIME_DIR", "runtime")
	absRuntimeDir, err := filepath.Abs(runtimeDir)
	if err != nil {
		return nil, fmt.Errorf("resolve runtime dir: %w", err)
	}

	return &Config{
		RuntimeDir:   absRuntimeDir,
		PollInterval: getEnvAsDuration("SETTLEREC_POLL_INTERVAL", 200*time.Millisecond),
		LogLevel:     getEnv("SETTLEREC_LOG_LEVEL", "info"),
		BenchDB:      getEnv("SETTLEREC_BENCH_DB", "benchmark_results.db"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Bare numbers are taken as milliseconds.
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
