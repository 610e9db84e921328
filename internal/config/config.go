package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

type Config struct {
	// Storage
	DataBackend  string
	SQLiteDBPath string
	DataDir      string

	// Screens
	PageSize           int
	TopCategories      int
	RecentTransactions int
	SeedOnStart        bool

	// Simulated capabilities
	OCRDelay  time.Duration
	SyncDelay time.Duration

	LogLevel string

	// AMQP change feed, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		DataBackend:  getEnv("DATA_BACKEND", BackendSQLite),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/spendwise.db"),
		DataDir:      getEnv("DATA_DIR", "data"),

		PageSize:           getEnvInt("PAGE_SIZE", 10),
		TopCategories:      getEnvInt("TOP_CATEGORIES", 3),
		RecentTransactions: getEnvInt("RECENT_TRANSACTIONS", 5),
		SeedOnStart:        getEnvBool("SEED_ON_START", true),

		OCRDelay:  getEnvDuration("OCR_DELAY", 1500*time.Millisecond),
		SyncDelay: getEnvDuration("SYNC_DELAY", time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "spendwise"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "record_changes"),
	}
}

// AMQPEnabled reports whether the change feed is configured.
func (c *Config) AMQPEnabled() bool { return c.AMQPURL != "" }

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{BackendMemory, BackendSQLite}
	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if c.DataBackend == BackendSQLite && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.PageSize < 1 || c.PageSize > 100 {
		errors = append(errors, fmt.Sprintf("invalid page size %d: must be between 1 and 100", c.PageSize))
	}
	if c.TopCategories < 1 {
		errors = append(errors, fmt.Sprintf("invalid top categories %d: must be at least 1", c.TopCategories))
	}
	if c.RecentTransactions < 1 {
		errors = append(errors, fmt.Sprintf("invalid recent transactions %d: must be at least 1", c.RecentTransactions))
	}

	if c.OCRDelay < 0 || c.OCRDelay > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid OCR delay %v: must be between 0 and 1m", c.OCRDelay))
	}
	if c.SyncDelay < 0 || c.SyncDelay > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid sync delay %v: must be between 0 and 1m", c.SyncDelay))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
