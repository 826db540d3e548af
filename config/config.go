// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrInvalid is returned when a loaded value is out of range.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings of the sliderx service.
type Config struct {
	Addr     string `env:"SLIDERX_ADDR" envDefault:":8000"`
	LogLevel string `env:"SLIDERX_LOG_LEVEL" envDefault:"info"`

	// Request bodies larger than this are rejected.
	MaxBodyBytes int64 `env:"SLIDERX_MAX_BODY_BYTES" envDefault:"1048576"`

	ReadTimeout     time.Duration `env:"SLIDERX_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SLIDERX_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SLIDERX_SHUTDOWN_TIMEOUT" envDefault:"5s"`

	// OTLP/HTTP endpoint URL. Tracing is off when empty.
	OTelEndpoint string `env:"SLIDERX_OTEL_ENDPOINT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: address is empty", ErrInvalid)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max body bytes must be positive, got %d", ErrInvalid, c.MaxBodyBytes)
	case c.ReadTimeout <= 0, c.WriteTimeout <= 0:
		return fmt.Errorf("%w: read and write timeouts must be positive", ErrInvalid)
	case c.ShutdownTimeout < 0:
		return fmt.Errorf("%w: shutdown timeout is negative", ErrInvalid)
	}
	return nil
}
