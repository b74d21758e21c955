// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

// Package config provides layered configuration for the MoonFlix catalog
// service: built-in defaults, an optional YAML file and environment variable
// overrides, loaded through koanf.
package config

import "time"

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Provider  ProviderConfig  `koanf:"provider"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Search    SearchConfig    `koanf:"search"`
	UserStore UserStoreConfig `koanf:"user_store"`
	Addons    AddonsConfig    `koanf:"addons"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// CORSOrigins lists allowed origins for browser clients.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs / RateLimitWindow bound request rates per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// ProviderConfig holds metadata provider (TMDB-compatible) settings.
type ProviderConfig struct {
	BaseURL  string `koanf:"base_url"`
	APIKey   string `koanf:"api_key"`
	Language string `koanf:"language"`

	// PosterBaseURL and BackdropBaseURL are prepended to image paths
	// returned by the provider.
	PosterBaseURL   string `koanf:"poster_base_url"`
	BackdropBaseURL string `koanf:"backdrop_base_url"`

	Timeout time.Duration `koanf:"timeout"`

	// MaxConcurrency caps concurrently in-flight enrichment fetches.
	MaxConcurrency int `koanf:"max_concurrency"`

	// RequestsPerSecond rate-limits outbound provider calls. 0 disables.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// BreakerEnabled wraps the provider client with a circuit breaker.
	BreakerEnabled bool `koanf:"breaker_enabled"`
}

// CatalogConfig holds seed data and staged loading settings.
type CatalogConfig struct {
	// SeedDir contains the JSON seed batches (movies.json, series.json,
	// animes.json, cartoons.json).
	SeedDir string `koanf:"seed_dir"`

	// SeriesDelay and ExtrasDelay stage the secondary batch appends so the
	// initial film batch is served without waiting for the full catalog.
	SeriesDelay time.Duration `koanf:"series_delay"`
	ExtrasDelay time.Duration `koanf:"extras_delay"`
}

// SearchConfig holds hybrid search settings.
type SearchConfig struct {
	// Debounce is the input-inactivity window before a query executes.
	Debounce time.Duration `koanf:"debounce"`

	// RemoteHits caps how many provider search hits are cross-referenced.
	RemoteHits int `koanf:"remote_hits"`
}

// UserStoreConfig holds favorites/likes storage settings.
type UserStoreConfig struct {
	// RemoteURL is the base URL of the hosted row store. Empty disables the
	// remote store; all operations then use the local fallback.
	RemoteURL string `koanf:"remote_url"`
	APIKey    string `koanf:"api_key"`

	// FallbackPath is the badger directory for the local fallback store.
	FallbackPath string `koanf:"fallback_path"`
}

// AddonsConfig holds addon registry settings.
type AddonsConfig struct {
	// RegistryPath is the badger directory for installed-addon state.
	RegistryPath string `koanf:"registry_path"`

	// DefaultManifests are installed on startup when missing.
	DefaultManifests []string `koanf:"default_manifests"`

	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Provider: ProviderConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			APIKey:            "",
			Language:          "pt-BR",
			PosterBaseURL:     "https://image.tmdb.org/t/p/w342",
			BackdropBaseURL:   "https://image.tmdb.org/t/p/w1280",
			Timeout:           15 * time.Second,
			MaxConcurrency:    4,
			RequestsPerSecond: 20,
			BreakerEnabled:    true,
		},
		Catalog: CatalogConfig{
			SeedDir:     "data/seed",
			SeriesDelay: time.Second,
			ExtrasDelay: 500 * time.Millisecond,
		},
		Search: SearchConfig{
			Debounce:   400 * time.Millisecond,
			RemoteHits: 8,
		},
		UserStore: UserStoreConfig{
			RemoteURL:    "",
			APIKey:       "",
			FallbackPath: "/data/userstore",
		},
		Addons: AddonsConfig{
			RegistryPath:     "/data/addons",
			DefaultManifests: []string{},
			Timeout:          15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
