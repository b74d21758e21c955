// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateUserStore(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateProvider() error {
	if err := validateHTTPURL(c.Provider.BaseURL, "PROVIDER_BASE_URL"); err != nil {
		return err
	}
	if c.Provider.MaxConcurrency < 1 {
		return fmt.Errorf("PROVIDER_MAX_CONCURRENCY must be at least 1, got %d", c.Provider.MaxConcurrency)
	}
	if c.Provider.RequestsPerSecond < 0 {
		return fmt.Errorf("PROVIDER_REQUESTS_PER_SECOND must not be negative")
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.Debounce < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE must not be negative")
	}
	if c.Search.RemoteHits < 0 {
		return fmt.Errorf("SEARCH_REMOTE_HITS must not be negative")
	}
	return nil
}

func (c *Config) validateUserStore() error {
	if c.UserStore.RemoteURL == "" {
		return nil // remote store is optional, fallback-only mode
	}
	return validateHTTPURL(c.UserStore.RemoteURL, "USER_STORE_REMOTE_URL")
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOGGING_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("LOGGING_FORMAT %q must be json or console", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL checks that the value parses as an absolute http(s) URL.
func validateHTTPURL(raw, name string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme, got %q", name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host", name)
	}
	return nil
}
