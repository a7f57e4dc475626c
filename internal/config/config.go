package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBPath            string
	LogLevel          string
	ExportWorkerCount int
	ExportQueueSize   int
	MaxMediaBytes     int
	MaxCSVBytes       int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:ankiforge.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		ExportWorkerCount: envIntOr("EXPORT_WORKER_COUNT", 2),
		ExportQueueSize:   envIntOr("EXPORT_QUEUE_SIZE", 32),
		MaxMediaBytes:     envIntOr("MAX_MEDIA_BYTES", 10<<20),
		MaxCSVBytes:       envIntOr("MAX_CSV_BYTES", 1<<20),
	}
}

// Validate checks the configuration, collecting every problem into one
// error so misconfiguration is reported in a single pass.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not a valid level", c.LogLevel))
	}
	if c.ExportWorkerCount <= 0 {
		problems = append(problems, "EXPORT_WORKER_COUNT must be positive")
	}
	if c.ExportQueueSize <= 0 {
		problems = append(problems, "EXPORT_QUEUE_SIZE must be positive")
	}
	if c.MaxMediaBytes <= 0 {
		problems = append(problems, "MAX_MEDIA_BYTES must be positive")
	}
	if c.MaxCSVBytes <= 0 {
		problems = append(problems, "MAX_CSV_BYTES must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
