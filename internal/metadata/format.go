// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package metadata

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatRuntime renders a runtime in minutes as a human string:
// 0 -> "N/A", 45 -> "45m", 125 -> "2h 5m".
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return "N/A"
	}
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatReleaseDate converts a provider date (YYYY-MM-DD) to DD/MM/YYYY.
// Malformed or empty input yields "".
func FormatReleaseDate(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return ""
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

// YearOf extracts the year from a provider date (YYYY-MM-DD), or 0.
func YearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
