package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ApiURL         string        `env:"OFFICE_API_URL" envDefault:"http://localhost:8080"`
	RoomsURL       string        `env:"OFFICE_ROOMS_URL" envDefault:"http://localhost:8997"`
	PresenceURL    string        `env:"OFFICE_PRESENCE_URL"`
	AccessToken    string        `env:"OFFICE_ACCESS_TOKEN"`
	ServerAddr     string        `env:"OFFICE_SERVER_ADDR" envDefault:"localhost:8000"`
	AllowedOrigins []string      `env:"OFFICE_ALLOWED_ORIGINS" envSeparator:","`
	RequestTimeout time.Duration `env:"OFFICE_REQUEST_TIMEOUT" envDefault:"10s"`
}

// FromEnv loads the configuration from environment variables, applying defaults
// for anything unset. The result is not validated; callers may override fields
// from flags before calling Validate.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return &cfg, nil
}

// Validate checks everything an authenticated session needs.
func (c *Config) Validate() error {
	if err := c.ValidateEndpoints(); err != nil {
		return err
	}
	if c.AccessToken == "" {
		return fmt.Errorf("access token cannot be empty")
	}

	return nil
}

// ValidateEndpoints checks the backend addresses and timeout only, for calls
// made before a user has a token.
func (c *Config) ValidateEndpoints() error {
	if err := validateBaseURL(c.ApiURL); err != nil {
		return fmt.Errorf("api url: %w", err)
	}
	if err := validateBaseURL(c.RoomsURL); err != nil {
		return fmt.Errorf("rooms url: %w", err)
	}
	if c.PresenceURL != "" {
		if err := validateBaseURL(c.PresenceURL); err != nil {
			return fmt.Errorf("presence url: %w", err)
		}
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}

	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q is not an absolute url", raw)
	}

	return nil
}
