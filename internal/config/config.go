package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config represents the configuration for the forwarding simulator
type Config struct {
	// Table files, required before any resolution can happen
	InterfaceFile string `json:"interface_file"`
	RouteFile     string `json:"route_file"`

	// Input/output streams; empty means stdin/stdout
	InputFile  string `json:"input_file"`
	OutputFile string `json:"output_file"`

	LogLevel   string `json:"log_level"`
	SilentMode bool   `json:"silent_mode"`

	// Concurrency for destination processing; 0 keeps the serial path
	ConcurrencyLimit int `json:"concurrency_limit"`
}

// NewDefaultConfig creates a new config with default values
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:         "info",
		SilentMode:       false,
		ConcurrencyLimit: 0,
	}
}

// LoadConfig reads a JSON config file, applying defaults for absent
// fields. An empty path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the config for values the simulator cannot run with
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if c.InterfaceFile == "" {
		return fmt.Errorf("interface table file is required")
	}

	if c.RouteFile == "" {
		return fmt.Errorf("route table file is required")
	}

	if c.ConcurrencyLimit < 0 {
		return fmt.Errorf("concurrency limit must be >= 0, got %d", c.ConcurrencyLimit)
	}

	return nil
}
