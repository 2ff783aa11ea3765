package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/net/http/httpguts"
)

type Config struct {
	AccessCode     string `env:"ACCESS_CODE" envDefault:"JUL2024"`
	FlagName       string `env:"FLAG_NAME" envDefault:"access_granted"`
	FlagSigningKey string `env:"FLAG_SIGNING_KEY"`
	StoreBackend   string `env:"STORE_BACKEND" envDefault:"cookie"`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"false"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"julebord"`
	DBSSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"julebord.db"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	NATSURL     string `env:"NATS_URL"`
	ProgramFile string `env:"PROGRAM_FILE"`

	// UI_ADDR and UI_PORT are joined into the listen address
	UIAddr string `env:"UI_ADDR" envDefault:"localhost"`
	UIPort string `env:"UI_PORT" envDefault:"60000"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	ShakeMS  int    `env:"GATE_SHAKE_MS" envDefault:"500"`
	ErrorMS  int    `env:"GATE_ERROR_MS" envDefault:"3000"`
}

// DotEnvPaths lists the env files LoadDotEnv tries, in order.
var DotEnvPaths = []string{"/etc/julebord/.env", ".env"}

// LoadDotEnv loads the first .env file found in DotEnvPaths and returns its path.
// Variables already set in the environment win.
func LoadDotEnv() (string, bool) {
	for _, path := range DotEnvPaths {
		if err := godotenv.Load(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// LoadConfig parses the environment into a Config.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that have a closed set of values.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case "cookie", "memory", "sqlite", "postgres", "redis":
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if !httpguts.ValidHeaderFieldName(c.FlagName) {
		return fmt.Errorf("FLAG_NAME %q is not a valid cookie name", c.FlagName)
	}
	if c.ShakeMS < 0 || c.ErrorMS < 0 {
		return fmt.Errorf("gate delays must not be negative")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.UIAddr + ":" + c.UIPort
}

// ShakeDuration is how long the gate shakes after a wrong code.
func (c *Config) ShakeDuration() time.Duration {
	return time.Duration(c.ShakeMS) * time.Millisecond
}

// ErrorDuration is how long the wrong-code message stays up.
func (c *Config) ErrorDuration() time.Duration {
	return time.Duration(c.ErrorMS) * time.Millisecond
}

// PostgresDSN builds the DSN for gorm's Postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
