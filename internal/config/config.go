package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Relay    RelayConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Reports  ReportsConfig
	Logging  LoggingConfig
	Bot      BotConfig
}

// RelayConfig points at the chat relay that streams anonymized event
// metadata and accepts replies.
type RelayConfig struct {
	BaseURL string
	WSURL   string
}

type PostgresConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ReportsConfig tunes report behaviour without touching the scoring
// formulas themselves.
type ReportsConfig struct {
	CacheTTL          time.Duration
	AggregateInterval time.Duration
}

type LoggingConfig struct {
	Level string
	File  string
}

type BotConfig struct {
	Prefix string
	// UserID is the bot's own relay user id. Events it authored are
	// skipped so replies never feed the stats tables.
	UserID string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Relay: RelayConfig{
			BaseURL: getEnv("RELAY_BASE_URL", "http://localhost:3000"),
			WSURL:   getEnv("RELAY_WS_URL", "ws://localhost:3000/ws"),
		},
		Postgres: PostgresConfig{
			Host:         getEnv("POSTGRES_HOST", "localhost"),
			Port:         getEnvInt("POSTGRES_PORT", 5432),
			User:         getEnv("POSTGRES_USER", "pulse"),
			Password:     getEnv("POSTGRES_PASSWORD", ""),
			Database:     getEnv("POSTGRES_DB", "community_pulse"),
			SSLMode:      getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("POSTGRES_MAX_OPEN_CONNS", 20),
			MaxIdleConns: getEnvInt("POSTGRES_MAX_IDLE_CONNS", 4),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Reports: ReportsConfig{
			CacheTTL:          time.Duration(getEnvInt("REPORT_CACHE_TTL_SECONDS", 300)) * time.Second,
			AggregateInterval: time.Duration(getEnvInt("AGGREGATE_INTERVAL_SECONDS", 3600)) * time.Second,
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Bot: BotConfig{
			Prefix: getEnv("BOT_PREFIX", "!"),
			UserID: getEnv("BOT_USER_ID", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Relay.BaseURL == "" {
		return fmt.Errorf("RELAY_BASE_URL is required")
	}
	if c.Relay.WSURL == "" {
		return fmt.Errorf("RELAY_WS_URL is required")
	}
	if c.Postgres.Host == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.Postgres.Database == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}
	if c.Reports.CacheTTL < 0 {
		return fmt.Errorf("REPORT_CACHE_TTL_SECONDS must not be negative")
	}
	if c.Reports.AggregateInterval < time.Minute {
		return fmt.Errorf("AGGREGATE_INTERVAL_SECONDS must be at least 60")
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
