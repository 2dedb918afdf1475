package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

type Config struct {
	// Backend API
	APIBaseURL string

	// Backend selection
	DataBackend string

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		APIBaseURL:  getEnv("PANTRY_API_URL", "http://localhost:5000/api"),
		DataBackend: getEnv("DATA_BACKEND", "memory"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"memory", "rest"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "rest" {
		if c.APIBaseURL == "" {
			errors = append(errors, "API base URL cannot be empty when using rest backend")
		} else if parsedURL, err := url.Parse(c.APIBaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
