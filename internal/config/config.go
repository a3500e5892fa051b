// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Supported stores
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds everything the sheet command needs to wire its collaborators
type Config struct {
	Store string `env:"SHEET_STORE" envDefault:"sqlite"`

	SQLitePath string `env:"SHEET_SQLITE_PATH" envDefault:"rpg-sheet.db"`

	// RedisAddrs with more than one entry selects cluster mode
	RedisAddrs    []string `env:"SHEET_REDIS_ADDR" envSeparator:"," envDefault:"localhost:6379"`
	RedisPoolSize int      `env:"SHEET_REDIS_POOL_SIZE" envDefault:"10"`

	WriteAttempts int           `env:"SHEET_WRITE_ATTEMPTS" envDefault:"3"`
	WriteBackoff  time.Duration `env:"SHEET_WRITE_BACKOFF" envDefault:"100ms"`

	SRDBaseURL string        `env:"SHEET_SRD_BASE_URL" envDefault:"https://www.dnd5eapi.co/api/2014/"`
	SRDTimeout time.Duration `env:"SHEET_SRD_TIMEOUT" envDefault:"30s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the process environment and validates the result
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given key/value pairs instead of the process environment
func LoadFrom(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.InvalidArgumentf("parse env: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combination of settings
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("SHEET_STORE", c.Store, []string{StoreSQLite, StoreRedis}, vb)
	switch c.Store {
	case StoreSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			vb.RequiredField("SHEET_SQLITE_PATH")
		}
	case StoreRedis:
		if len(c.RedisAddrs) == 0 {
			vb.RequiredField("SHEET_REDIS_ADDR")
		}
		if c.RedisPoolSize < 1 {
			vb.InvalidField("SHEET_REDIS_POOL_SIZE", "must be at least 1")
		}
	}

	if c.WriteAttempts < 1 {
		vb.InvalidField("SHEET_WRITE_ATTEMPTS", "must be at least 1")
	}
	if c.WriteBackoff < 0 {
		vb.InvalidField("SHEET_WRITE_BACKOFF", "must not be negative")
	}
	if c.SRDTimeout <= 0 {
		vb.InvalidField("SHEET_SRD_TIMEOUT", "must be positive")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		vb.InvalidField("LOG_LEVEL", err.Error())
	}

	return vb.Build()
}

// SlogLevel returns the configured log level, falling back to info
func (c *Config) SlogLevel() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLogLevel accepts debug, info, warn or error in any case
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
