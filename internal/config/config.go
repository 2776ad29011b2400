package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	AuthToken string `env:"AUTH_TOKEN"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	DBURL          string `env:"DB_URL,required"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"db/migrations"`
	AutoMigrate    bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	ReadTimeoutSecs  int `env:"SERVER_READ_TIMEOUT" envDefault:"15"`
	WriteTimeoutSecs int `env:"SERVER_WRITE_TIMEOUT" envDefault:"15"`
	IdleTimeoutSecs  int `env:"SERVER_IDLE_TIMEOUT" envDefault:"60"`

	DBMaxConns        int `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns        int `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxIdleSecs     int `env:"DB_MAX_CONN_IDLE_SECS" envDefault:"300"`
	DBMaxLifeSecs     int `env:"DB_MAX_CONN_LIFETIME_SECS" envDefault:"3600"`
	DBConnTimeoutSecs int `env:"DB_CONN_TIMEOUT_SECS" envDefault:"10"`
	DBStatementCache  int `env:"DB_STATEMENT_CACHE_CAPACITY" envDefault:"256"`
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.DBURL) == "" {
		return fmt.Errorf("DB_URL is required")
	}
	if c.AutoMigrate && strings.TrimSpace(c.MigrationsPath) == "" {
		return fmt.Errorf("MIGRATIONS_PATH is required when AUTO_MIGRATE is set")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.LogLevel)
	}
	if c.ReadTimeoutSecs <= 0 || c.WriteTimeoutSecs <= 0 || c.IdleTimeoutSecs <= 0 {
		return fmt.Errorf("SERVER_*_TIMEOUT values must be positive")
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if c.DBStatementCache < 0 {
		return fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	return nil
}

// Level returns the parsed log level. Load has already rejected invalid values.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// ReadTimeout and friends convert the second-based settings to durations.
func (c Config) ReadTimeout() time.Duration  { return seconds(c.ReadTimeoutSecs) }
func (c Config) WriteTimeout() time.Duration { return seconds(c.WriteTimeoutSecs) }
func (c Config) IdleTimeout() time.Duration  { return seconds(c.IdleTimeoutSecs) }

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
