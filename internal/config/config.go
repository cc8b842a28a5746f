// Package config provides environment/dotenv-driven configuration for
// the runtime: the same godotenv.Load + getEnv* accessor idiom, trimmed
// to the knobs this runtime actually has (worker pool size and poll
// cadence, plus ambient logging).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime's tunable parameters.
type Config struct {
	Engine  EngineConfig
	Logging LoggingConfig
}

// EngineConfig configures the Growth Plan worker pool: the thread-pool
// size and polling cadence are configured at startup.
type EngineConfig struct {
	WorkerPoolSize int
	QueuePoll      time.Duration
}

// LoggingConfig configures the zerolog-based structured logger.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "console"
}

// Load reads configuration from the environment (and a .env file, if
// present), applying defaults for anything unset.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Engine: EngineConfig{
			WorkerPoolSize: getEnvAsInt("SAKURA_WORKER_POOL_SIZE", 4),
			QueuePoll:      getEnvAsDuration("SAKURA_QUEUE_POLL_INTERVAL", 10*time.Millisecond),
		},
		Logging: LoggingConfig{
			Level:  getEnv("SAKURA_LOG_LEVEL", "info"),
			Format: getEnv("SAKURA_LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the loaded configuration for obviously invalid
// values.
func (c *Config) Validate() error {
	if c.Engine.WorkerPoolSize < 1 {
		return fmt.Errorf("worker pool size must be at least 1")
	}
	if c.Engine.QueuePoll <= 0 {
		return fmt.Errorf("queue poll interval must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logging.Format)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
