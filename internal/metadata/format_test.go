// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package metadata

import "testing"

func TestFormatRuntime(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		want    string
	}{
		{"zero runtime", 0, "N/A"},
		{"negative runtime", -10, "N/A"},
		{"under an hour", 45, "45m"},
		{"exactly one hour", 60, "1h 0m"},
		{"hours and minutes", 125, "2h 5m"},
		{"long feature", 201, "3h 21m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRuntime(tt.minutes); got != tt.want {
				t.Errorf("FormatRuntime(%d) = %q, want %q", tt.minutes, got, tt.want)
			}
		})
	}
}

func TestFormatReleaseDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"full date", "2024-07-15", "15/07/2024"},
		{"empty", "", ""},
		{"year only", "2024", ""},
		{"year and month", "2024-07", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatReleaseDate(tt.in); got != tt.want {
				t.Errorf("FormatReleaseDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestYearOf(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2024-07-15", 2024},
		{"1999-01-01", 1999},
		{"", 0},
		{"not-a-date", 0},
	}

	for _, tt := range tests {
		if got := YearOf(tt.in); got != tt.want {
			t.Errorf("YearOf(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRatingString(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{7.456, "7.5"},
		{10, "10.0"},
		{0, ""},
		{-1, ""},
	}

	for _, tt := range tests {
		if got := RatingString(tt.in); got != tt.want {
			t.Errorf("RatingString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
