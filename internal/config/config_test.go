package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("Expected log level 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.ConcurrencyLimit != 0 {
		t.Errorf("Expected serial default (concurrency 0), got %d", cfg.ConcurrencyLimit)
	}

	if cfg.SilentMode {
		t.Error("Expected silent mode off by default")
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *Config
		expectError bool
	}{
		{
			name: "valid config",
			cfg: &Config{
				InterfaceFile:    "interfaces.txt",
				RouteFile:        "routes.txt",
				LogLevel:         "info",
				ConcurrencyLimit: 0,
			},
			expectError: false,
		},
		{
			name: "invalid log level",
			cfg: &Config{
				InterfaceFile: "interfaces.txt",
				RouteFile:     "routes.txt",
				LogLevel:      "loud",
			},
			expectError: true,
		},
		{
			name: "missing interface table",
			cfg: &Config{
				RouteFile: "routes.txt",
				LogLevel:  "info",
			},
			expectError: true,
		},
		{
			name: "missing route table",
			cfg: &Config{
				InterfaceFile: "interfaces.txt",
				LogLevel:      "info",
			},
			expectError: true,
		},
		{
			name: "negative concurrency",
			cfg: &Config{
				InterfaceFile:    "interfaces.txt",
				RouteFile:        "routes.txt",
				LogLevel:         "info",
				ConcurrencyLimit: -1,
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.expectError && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"interface_file": "interfaces.txt",
		"route_file": "routes.txt",
		"log_level": "debug",
		"concurrency_limit": 8
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.InterfaceFile != "interfaces.txt" {
		t.Errorf("Expected interface file 'interfaces.txt', got '%s'", cfg.InterfaceFile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug', got '%s'", cfg.LogLevel)
	}
	if cfg.ConcurrencyLimit != 8 {
		t.Errorf("Expected concurrency limit 8, got %d", cfg.ConcurrencyLimit)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig with empty path failed: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected defaults for empty path, got log level '%s'", cfg.LogLevel)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Expected error for missing config file, got nil")
	}
}

func TestLoadConfigBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for malformed config file, got nil")
	}
}
