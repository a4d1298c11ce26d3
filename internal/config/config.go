// Package config provides environment-based configuration following
// 12-factor principles. All configuration is loaded from environment
// variables with the SC_ prefix.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
)

// Config holds the settings cmd/superchain-tap needs to reach a
// SuperChain server: the two transport base URLs and the optional
// Basic-auth credentials described by the environment-sourced
// configuration external collaborator.
type Config struct {
	HTTPBaseURL string
	WSURL       string

	// Username and Password are empty when SC_USERNAME/SC_PASSWORD are
	// unset; AuthHeaderValue then returns "" and callers send no
	// Authorization header at all.
	Username string
	Password string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, all prefixed
// with SC_ (e.g. SC_HTTP_URL, SC_USERNAME).
func Load() (*Config, error) {
	cfg := &Config{
		HTTPBaseURL: os.Getenv("SC_HTTP_URL"),
		WSURL:       os.Getenv("SC_WS_URL"),
		Username:    os.Getenv("SC_USERNAME"),
		Password:    os.Getenv("SC_PASSWORD"),
		LogLevel:    envOrDefault("SC_LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("SC_LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPBaseURL == "" {
		return errors.New("SC_HTTP_URL is required")
	}
	if _, err := url.Parse(c.HTTPBaseURL); err != nil {
		return fmt.Errorf("invalid SC_HTTP_URL: %w", err)
	}

	if c.WSURL == "" {
		return errors.New("SC_WS_URL is required")
	}
	if _, err := url.Parse(c.WSURL); err != nil {
		return fmt.Errorf("invalid SC_WS_URL: %w", err)
	}

	if (c.Username == "") != (c.Password == "") {
		return errors.New("SC_USERNAME and SC_PASSWORD must be set together")
	}

	return nil
}

// AuthHeaderValue returns the "Basic <base64(user:pass)>" header value
// for the configured credentials, or "" if none were set.
func (c *Config) AuthHeaderValue() string {
	if c.Username == "" {
		return ""
	}
	raw := c.Username + ":" + c.Password
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
