package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Environment    string

	StoreDriver    string
	DatabaseURL    string
	RedisURL       string
	RedisNamespace string
	SQLitePath     string

	JWTSecret string

	KafkaBrokers []string
	KafkaTopic   string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: parseList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:5174")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Environment:    getEnv("ENVIRONMENT", "production"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		RedisNamespace: getEnv("REDIS_NAMESPACE", "dappvotes"),
		SQLitePath:     getEnv("SQLITE_PATH", "dappvotes.db"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		KafkaBrokers:   parseList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "dappvotes.ledger"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected store has what it needs
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for store driver %q", c.StoreDriver)
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for store driver %q", c.StoreDriver)
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for store driver %q", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	return nil
}

// KafkaEnabled reports whether events should be published
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseList parses comma-separated values into a slice
func parseList(values string) []string {
	if values == "" {
		return []string{}
	}

	parts := strings.Split(values, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
