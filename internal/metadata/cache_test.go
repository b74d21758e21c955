// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package metadata

import (
	"sync"
	"testing"

	"github.com/moonflix/moonflix/internal/models"
)

func TestPatchCacheSetGet(t *testing.T) {
	cache := NewPatchCache()

	if _, ok := cache.Get("tt0137523"); ok {
		t.Fatal("empty cache should miss")
	}

	cache.Set("tt0137523", Patch{Title: "Fight Club"})

	patch, ok := cache.Get("tt0137523")
	if !ok {
		t.Fatal("expected cache hit after Set")
	}
	if patch.Title != "Fight Club" {
		t.Errorf("patch.Title = %q, want %q", patch.Title, "Fight Club")
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestPatchCacheNegativeEntry(t *testing.T) {
	cache := NewPatchCache()
	cache.Set("tt0000000", Patch{})

	patch, ok := cache.Get("tt0000000")
	if !ok {
		t.Fatal("negative entry should still be a hit")
	}
	if !patch.IsEmpty() {
		t.Error("negative entry should be the empty patch")
	}

	stub := models.MediaRecord{ID: "42", Title: models.PlaceholderTitle}
	got := patch.Apply(stub)
	if got.ID != stub.ID || got.Title != stub.Title || got.Rating != "" {
		t.Errorf("applying an empty patch changed the record: %+v", got)
	}
}

func TestPatchCacheIgnoresEmptyKey(t *testing.T) {
	cache := NewPatchCache()
	cache.Set("", Patch{Title: "nameless"})
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after empty-key Set", cache.Len())
	}
}

func TestPatchCacheConcurrentAccess(t *testing.T) {
	cache := NewPatchCache()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Set("tt0137523", Patch{Title: "Fight Club"})
				cache.Get("tt0137523")
			}
		}()
	}
	wg.Wait()

	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestPatchApplyMergesOnlyPopulatedFields(t *testing.T) {
	stub := models.MediaRecord{
		ID:       "7",
		Title:    models.PlaceholderTitle,
		VideoURL: "https://example.com/watch/7",
		Genre:    "Drama",
		Genres:   []string{"Drama"},
	}

	patch := Patch{
		Title:  "Heat",
		Rating: "8.3",
		Genres: []string{"Crime", "Thriller"},
	}

	got := patch.Apply(stub)

	if got.ID != "7" || got.VideoURL != "https://example.com/watch/7" {
		t.Error("identity and playback URL must survive enrichment")
	}
	if got.Title != "Heat" {
		t.Errorf("Title = %q, want %q", got.Title, "Heat")
	}
	if got.Rating != "8.3" {
		t.Errorf("Rating = %q, want %q", got.Rating, "8.3")
	}
	if got.Genre != "Crime" {
		t.Errorf("Genre = %q, want primary genre from patch", got.Genre)
	}
	if got.Description != "" {
		t.Errorf("Description = %q, want untouched empty field", got.Description)
	}
}
