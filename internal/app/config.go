package app

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"quik-bars/internal/session"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "QUIK"

// Config holds application configuration from env
type Config struct {
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	LogFormat    string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
	SaveFormat   string `envconfig:"SAVE_FORMAT" default:"csv" validate:"oneof=csv parquet json"`
	GapReport    bool   `envconfig:"GAP_REPORT" default:"false"`
	SessionOpen  string `envconfig:"SESSION_OPEN" default:"10:00" validate:"required"`
	SessionClose string `envconfig:"SESSION_CLOSE" default:"18:40" validate:"required"`
}

// LoadConfig reads config from environment and validates it.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks enumerated values and the session window.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	_, err := c.Window()
	return err
}

// Window returns the regular trading session.
func (c *Config) Window() (session.Window, error) {
	open, err := session.ParseClock(c.SessionOpen)
	if err != nil {
		return session.Window{}, fmt.Errorf("SESSION_OPEN: %w", err)
	}
	cls, err := session.ParseClock(c.SessionClose)
	if err != nil {
		return session.Window{}, fmt.Errorf("SESSION_CLOSE: %w", err)
	}
	if cls <= open {
		return session.Window{}, fmt.Errorf("session close %s is not after open %s", cls, open)
	}
	return session.Window{Open: open, Close: cls}, nil
}
