package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/yukikurage/crossword-server/internal/constants"
)

type Config struct {
	RPCAddr    string
	HealthAddr string

	DBDriver   string
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	SessionTTL           time.Duration
	SessionSweepSchedule string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxConnections  int
	MaxMessageBytes int

	LogLevel  string
	LogFormat string
	GinMode   string
}

// Load reads the configuration from the environment. Malformed durations
// and numbers are reported rather than silently replaced by defaults.
func Load() (*Config, error) {
	cfg := &Config{
		RPCAddr:              getEnv("RPC_ADDR", ":5000"),
		HealthAddr:           os.Getenv("HEALTH_ADDR"),
		DBDriver:             getEnv("DB_DRIVER", "sqlite"),
		SQLitePath:           getEnv("SQLITE_PATH", "crosswords.db"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "3306"),
		DBUser:               getEnv("DB_USER", "crossword"),
		DBPassword:           getEnv("DB_PASSWORD", "crossword"),
		DBName:               getEnv("DB_NAME", "crosswords"),
		SessionSweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "@every 1m"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		GinMode:              getEnv("GIN_MODE", "release"),
	}
	if _, set := os.LookupEnv("HEALTH_ADDR"); !set {
		cfg.HealthAddr = ":8080"
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", constants.DefaultSessionTTL); err != nil {
		return nil, err
	}
	if cfg.ReadTimeout, err = getDuration("READ_TIMEOUT", constants.DefaultReadTimeout); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = getDuration("WRITE_TIMEOUT", constants.DefaultWriteTimeout); err != nil {
		return nil, err
	}
	if cfg.MaxConnections, err = getInt("MAX_CONNECTIONS", constants.DefaultMaxConnections); err != nil {
		return nil, err
	}
	if cfg.MaxMessageBytes, err = getInt("MAX_MESSAGE_BYTES", constants.DefaultMaxMessageBytes); err != nil {
		return nil, err
	}

	switch cfg.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DBDriver)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL: must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return n, nil
}
