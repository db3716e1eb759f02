package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/scribe-audio/scribe/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port      string
	Databases map[string]string // database name -> sqlite file path
	WorkerURL string
	PollMin   time.Duration
	PollMax   time.Duration
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", constants.DefaultPort),
		Databases: parseDatabases(getEnv("SCRIBE_DATABASES", constants.DefaultDatabases)),
		WorkerURL: getEnv("SCRIBE_WORKER_URL", constants.DefaultWorkerURL),
		PollMin:   getDurationEnv("SCRIBE_POLL_MIN", constants.DefaultPollMin),
		PollMax:   getDurationEnv("SCRIBE_POLL_MAX", constants.DefaultPollMax),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if len(c.Databases) == 0 {
		errors = append(errors, "SCRIBE_DATABASES must declare at least one name=path pair")
	}
	for name, path := range c.Databases {
		if name == "" || path == "" {
			errors = append(errors, fmt.Sprintf("SCRIBE_DATABASES entry %q=%q is incomplete", name, path))
		}
	}

	if c.WorkerURL == "" {
		errors = append(errors, "SCRIBE_WORKER_URL cannot be empty")
	} else if u, err := url.Parse(c.WorkerURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("SCRIBE_WORKER_URL is not a valid URL: %s", c.WorkerURL))
	}

	if c.PollMin <= 0 {
		errors = append(errors, fmt.Sprintf("SCRIBE_POLL_MIN must be positive, got: %s", c.PollMin))
	}
	if c.PollMax < c.PollMin {
		errors = append(errors, fmt.Sprintf("SCRIBE_POLL_MAX must be >= SCRIBE_POLL_MIN, got: %s < %s", c.PollMax, c.PollMin))
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// parseDatabases parses a comma-separated list of name=path pairs.
func parseDatabases(raw string) map[string]string {
	dbs := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, path, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		dbs[strings.TrimSpace(name)] = strings.TrimSpace(path)
	}
	return dbs
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getDurationEnv retrieves a duration environment variable with a fallback default
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
