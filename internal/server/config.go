package server

import (
	"fmt"

	"github.com/concave-dev/preflight/internal/config"
	"github.com/concave-dev/preflight/internal/rules"
	"github.com/concave-dev/preflight/internal/validate"
)

const (
	// DefaultPort is the default port for the validation service
	DefaultPort = 8008

	// DefaultMaxBodyBytes caps the size of a submitted configuration
	DefaultMaxBodyBytes int64 = 1 << 20
)

// Config holds the parameters of the validation service.
type Config struct {
	BindAddr     string           // HTTP bind address (e.g., "127.0.0.1")
	BindPort     int              // HTTP bind port
	MaxBodyBytes int64            // Largest accepted request body
	Settings     *config.Settings // Tool settings: default profile, timeouts, API URLs

	// Deps overrides the live rule dependencies built from Settings.
	Deps *rules.Deps
}

// DefaultConfig returns a loopback configuration with default settings.
func DefaultConfig() *Config {
	return &Config{
		BindAddr:     "127.0.0.1",
		BindPort:     DefaultPort,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Validate checks the configuration before the server starts.
func (c *Config) Validate() error {
	if err := validate.ValidateRequiredString(c.BindAddr, "bind address"); err != nil {
		return err
	}
	if err := validate.ValidatePortRange(c.BindPort); err != nil {
		return fmt.Errorf("bind port validation failed: %w", err)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive")
	}
	if c.Settings == nil {
		return fmt.Errorf("settings cannot be nil")
	}
	// Requests resolve profiles by built-in name only, so the default must be one too.
	if _, err := rules.Builtin(c.Settings.Profile); err != nil {
		return fmt.Errorf("default profile must be built-in: %w", err)
	}
	return nil
}
