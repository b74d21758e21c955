// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/moonflix/moonflix/internal/models"
)

// stubEnricher enriches by stamping a fixed title.
type stubEnricher struct {
	calls int
}

func (e *stubEnricher) Resolve(ctx context.Context, externalID string, stub models.MediaRecord) models.MediaRecord {
	e.calls++
	stub.Title = "Enriched " + externalID
	stub.ImageURL = "https://image.example/real.jpg"
	return stub
}

func seedStore(n int) *Store {
	store := NewStore()
	records := make([]models.MediaRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, models.MediaRecord{
			ID:         fmt.Sprintf("%d", i),
			ExternalID: fmt.Sprintf("tt%07d", i),
			Title:      models.PlaceholderTitle,
		})
	}
	store.LoadInitial(records)
	return store
}

func TestFeedRowBoundaries(t *testing.T) {
	store := seedStore(60)
	feed := NewFeedBuilder(store, nil).Build(context.Background())

	if len(feed.Top10) != 10 {
		t.Errorf("Top10 len = %d, want 10", len(feed.Top10))
	}
	if len(feed.NewReleases) != 20 {
		t.Errorf("NewReleases len = %d, want 20", len(feed.NewReleases))
	}
	if len(feed.Trending) != 20 || feed.Trending[0].ID != "25" {
		t.Errorf("Trending len = %d first id = %q, want 20 starting at 25",
			len(feed.Trending), first(feed.Trending))
	}
	if len(feed.ContinueWatching) != 7 || feed.ContinueWatching[0].ID != "15" {
		t.Errorf("ContinueWatching len = %d first id = %q, want 7 starting at 15",
			len(feed.ContinueWatching), first(feed.ContinueWatching))
	}
	if feed.Hero == nil || feed.Hero.ID != "25" {
		t.Errorf("Hero = %+v, want first trending record", feed.Hero)
	}
}

func first(rows []models.MediaRecord) string {
	if len(rows) == 0 {
		return ""
	}
	return rows[0].ID
}

func TestFeedSmallCatalog(t *testing.T) {
	store := seedStore(3)
	feed := NewFeedBuilder(store, nil).Build(context.Background())

	if len(feed.Top10) != 3 || len(feed.NewReleases) != 3 {
		t.Errorf("small catalog rows wrong: top10=%d releases=%d",
			len(feed.Top10), len(feed.NewReleases))
	}
	if len(feed.Trending) != 0 || len(feed.ContinueWatching) != 0 {
		t.Error("rows beyond the catalog must be empty, not nil panics")
	}
	if feed.Hero == nil || feed.Hero.ID != "0" {
		t.Errorf("Hero = %+v, want first record fallback", feed.Hero)
	}
}

func TestFeedEmptyCatalog(t *testing.T) {
	feed := NewFeedBuilder(NewStore(), nil).Build(context.Background())
	if feed.Hero != nil {
		t.Errorf("Hero = %+v, want nil for empty catalog", feed.Hero)
	}
	if feed.Top10 == nil || len(feed.Top10) != 0 {
		t.Errorf("Top10 = %v, want empty non-nil row", feed.Top10)
	}
}

func TestFeedEnrichesHeroAndWritesBack(t *testing.T) {
	store := seedStore(60)
	enricher := &stubEnricher{}

	feed := NewFeedBuilder(store, enricher).Build(context.Background())

	if enricher.calls != 1 {
		t.Fatalf("enricher calls = %d, want 1 (hero only)", enricher.calls)
	}
	if feed.Hero.Title == models.PlaceholderTitle {
		t.Error("hero must be enriched")
	}

	stored, _ := store.Get(feed.Hero.ID)
	if stored.Title != feed.Hero.Title {
		t.Error("enriched hero must be written back to the store")
	}
}

func TestFeedRowsCarryHeroEnrichment(t *testing.T) {
	store := seedStore(60)
	feed := NewFeedBuilder(store, &stubEnricher{}).Build(context.Background())

	// The hero is the first trending record; the row cut from the same
	// build must show the enriched version, not the stub it replaced.
	if feed.Trending[0].ID != feed.Hero.ID {
		t.Fatalf("Trending[0].ID = %q, Hero.ID = %q", feed.Trending[0].ID, feed.Hero.ID)
	}
	if feed.Trending[0].Title != feed.Hero.Title {
		t.Errorf("Trending[0].Title = %q, want enriched %q", feed.Trending[0].Title, feed.Hero.Title)
	}
}

func TestFeedSkipsEnrichingNonStubHero(t *testing.T) {
	store := NewStore()
	records := make([]models.MediaRecord, 0, 30)
	for i := 0; i < 30; i++ {
		records = append(records, models.MediaRecord{
			ID:       fmt.Sprintf("%d", i),
			Title:    fmt.Sprintf("Title %d", i),
			ImageURL: "https://image.example/real.jpg",
		})
	}
	store.LoadInitial(records)

	enricher := &stubEnricher{}
	feed := NewFeedBuilder(store, enricher).Build(context.Background())

	if enricher.calls != 0 {
		t.Errorf("enricher calls = %d, want 0 for already-enriched hero", enricher.calls)
	}
	if feed.Hero == nil || feed.Hero.ID != "25" {
		t.Errorf("Hero = %+v", feed.Hero)
	}
}
