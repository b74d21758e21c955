// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/moonflix/moonflix/internal/models"
)

// Seed batch file names, in load order.
const (
	SeedMovies   = "movies.json"
	SeedSeries   = "series.json"
	SeedAnimes   = "animes.json"
	SeedCartoons = "cartoons.json"
)

// seedEntry shadows the record id so batches may carry it as a JSON number
// or a string. All other fields decode straight into the record.
type seedEntry struct {
	models.MediaRecord
	RawID json.RawMessage `json:"id"`
}

// ReadSeedBatch loads one seed batch file, normalizing ids to their decimal
// string form and stamping the content kind and source on every record.
// Records without a usable id are dropped.
func ReadSeedBatch(path string, kind models.MediaKind) ([]models.MediaRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed batch %s: %w", path, err)
	}

	var entries []seedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse seed batch %s: %w", path, err)
	}

	source := batchSource(path)
	records := make([]models.MediaRecord, 0, len(entries))
	for _, entry := range entries {
		rec := entry.MediaRecord
		rec.ID = normalizeID(entry.RawID)
		if rec.ID == "" {
			continue
		}
		if rec.Kind == "" {
			rec.Kind = kind
		}
		if rec.Source == "" {
			rec.Source = source
		}
		records = append(records, rec)
	}
	return records, nil
}

// normalizeID renders a raw JSON id (number or string) as its canonical
// string form.
func normalizeID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	return n.String()
}

// batchSource derives the record source tag from the batch file name
// ("movies.json" -> "movies").
func batchSource(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}
