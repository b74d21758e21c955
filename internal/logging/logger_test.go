// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("component", "test").Msg("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["message"] != "hello" {
		t.Errorf("Expected message 'hello', got %v", entry["message"])
	}
	if entry["component"] != "test" {
		t.Errorf("Expected component 'test', got %v", entry["component"])
	}
}

func TestPackageLevelHelpersEmit(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "trace", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("at debug")
	Info().Msg("at info")
	Warn().Msg("at warn")
	Error().Msg("at error")

	out := buf.String()
	for _, want := range []string{"at debug", "at info", "at warn", "at error"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output, got %s", want, out)
		}
	}
}

func TestLevelFor(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"debug":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"warn":     zerolog.WarnLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"bogus":    zerolog.InfoLevel,
		"":         zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := levelFor(in); got != want {
			t.Errorf("levelFor(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCtx_RequestIDPropagation(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	ctx := ContextWithRequestID(context.Background(), "req-123")
	logger := Ctx(ctx)
	logger.Info().Msg("with id")

	if !strings.Contains(buf.String(), "req-123") {
		t.Errorf("Expected request id in output, got %s", buf.String())
	}

	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("RequestIDFromContext = %q, want req-123", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("Expected empty request id, got %q", got)
	}
}

func TestSlogAdapter_WritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	slogger := slog.New(NewSlogHandler())
	slogger.Info("supervisor event", "service", "catalog-loader", "attempts", int64(2))

	out := buf.String()
	for _, want := range []string{"supervisor event", "catalog-loader", "attempts"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output, got %s", want, out)
		}
	}
}

func TestSlogAdapter_Groups(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	slogger := slog.New(NewSlogHandler()).WithGroup("suture")
	slogger.Warn("backoff", "failures", int64(3))

	if !strings.Contains(buf.String(), "suture.failures") {
		t.Errorf("Expected grouped key 'suture.failures', got %s", buf.String())
	}
}
