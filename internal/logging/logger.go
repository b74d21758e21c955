// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

// Package logging wraps zerolog behind package-level helpers so every part
// of the service logs through one configured instance.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("component", "catalog").Msg("seed batch loaded")
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config controls the shared logger. Zero values fall back to info-level
// JSON on stderr.
type Config struct {
	// Level is the minimum level emitted: trace, debug, info, warn, error.
	Level string

	// Format selects json (machine-readable) or console (human-readable).
	Format string

	// Caller annotates entries with the emitting file and line.
	Caller bool

	// Output overrides the destination writer.
	Output io.Writer
}

// DefaultConfig is the configuration used before Init is called.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json", Output: os.Stderr}
}

var (
	mu  sync.RWMutex
	log zerolog.Logger
)

func init() {
	// A usable logger must exist before main gets a chance to call Init,
	// config loading itself may need to log.
	configure(DefaultConfig())
}

// Init reconfigures the shared logger. Safe to call more than once.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	configure(cfg)
}

func configure(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.SetGlobalLevel(levelFor(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	base := zerolog.New(out).With().Timestamp()
	if cfg.Caller {
		base = base.Caller()
	}
	log = base.Logger()
}

func levelFor(name string) zerolog.Level {
	switch strings.ToLower(name) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns a copy of the shared logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// With opens a child context for component-scoped loggers:
//
//	logger := logging.With().Str("component", "search").Logger()
func With() zerolog.Context {
	return Logger().With()
}

// The event constructors on zerolog.Logger have pointer receivers, so the
// shared logger is bound to a local before each call.

// Debug starts a debug-level entry.
func Debug() *zerolog.Event {
	l := Logger()
	return l.Debug()
}

// Info starts an info-level entry.
func Info() *zerolog.Event {
	l := Logger()
	return l.Info()
}

// Warn starts a warn-level entry.
func Warn() *zerolog.Event {
	l := Logger()
	return l.Warn()
}

// Error starts an error-level entry.
func Error() *zerolog.Event {
	l := Logger()
	return l.Error()
}

// Fatal starts a fatal-level entry. The process exits once it is written.
func Fatal() *zerolog.Event {
	l := Logger()
	return l.Fatal()
}
