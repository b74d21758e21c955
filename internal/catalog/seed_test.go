// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/moonflix/moonflix/internal/models"
)

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadSeedBatchNormalizesIDs(t *testing.T) {
	path := writeSeed(t, "movies.json", `[
		{"id": 101, "title": "Loading...", "imdbId": "tt0101", "imageUrl": "https://images.unsplash.com/photo"},
		{"id": "abc-2", "title": "Named"},
		{"title": "no id at all"}
	]`)

	records, err := ReadSeedBatch(path, models.KindMovie)
	if err != nil {
		t.Fatalf("ReadSeedBatch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (id-less entry dropped)", len(records))
	}

	if records[0].ID != "101" {
		t.Errorf("numeric id normalized to %q, want \"101\"", records[0].ID)
	}
	if records[0].ExternalID != "tt0101" {
		t.Errorf("ExternalID = %q", records[0].ExternalID)
	}
	if !records[0].IsStub() {
		t.Error("placeholder seed record should be a stub")
	}
	if records[1].ID != "abc-2" {
		t.Errorf("string id kept as %q, want \"abc-2\"", records[1].ID)
	}
}

func TestReadSeedBatchStampsKindAndSource(t *testing.T) {
	path := writeSeed(t, "animes.json", `[
		{"id": 1, "title": "A"},
		{"id": 2, "title": "B", "type": "series", "source": "custom"}
	]`)

	records, err := ReadSeedBatch(path, models.KindAnime)
	if err != nil {
		t.Fatalf("ReadSeedBatch: %v", err)
	}

	if records[0].Kind != models.KindAnime || records[0].Source != "animes" {
		t.Errorf("defaults not stamped: %+v", records[0])
	}
	if records[1].Kind != models.KindSeries || records[1].Source != "custom" {
		t.Errorf("explicit kind/source must win: %+v", records[1])
	}
}

func TestReadSeedBatchErrors(t *testing.T) {
	if _, err := ReadSeedBatch(filepath.Join(t.TempDir(), "absent.json"), models.KindMovie); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeSeed(t, "bad.json", `{"not": "an array"}`)
	if _, err := ReadSeedBatch(path, models.KindMovie); err == nil {
		t.Error("expected error for malformed batch")
	}
}
