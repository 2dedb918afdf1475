package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PANTRY_API_URL", "")
	t.Setenv("DATA_BACKEND", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()
	if cfg.APIBaseURL != "http://localhost:5000/api" {
		t.Errorf("unexpected default API URL: %s", cfg.APIBaseURL)
	}
	if cfg.DataBackend != "memory" {
		t.Errorf("unexpected default backend: %s", cfg.DataBackend)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unexpected default log level: %s", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PANTRY_API_URL", "https://pantry.example/api")
	t.Setenv("DATA_BACKEND", "rest")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.APIBaseURL != "https://pantry.example/api" {
		t.Errorf("API URL not read from env: %s", cfg.APIBaseURL)
	}
	if cfg.DataBackend != "rest" {
		t.Errorf("backend not read from env: %s", cfg.DataBackend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config: %v", err)
	}
}

func TestValidateRejectsBadBackend(t *testing.T) {
	cfg := &Config{APIBaseURL: "http://x/api", DataBackend: "sqlite", LogLevel: "info"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if !strings.Contains(err.Error(), "invalid data backend") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRestRequiresURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"bad scheme", "ftp://host/api"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{APIBaseURL: tc.url, DataBackend: "rest", LogLevel: "info"}
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := &Config{APIBaseURL: "http://x/api", DataBackend: "memory", LogLevel: "loud"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}
