// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package catalog

import (
	"context"

	"github.com/moonflix/moonflix/internal/models"
)

// Feed row boundaries over the catalog snapshot. The rows deliberately
// overlap so a small catalog still fills every shelf.
const (
	top10Size = 10

	releasesSize = 20

	trendingStart = 25
	trendingEnd   = 45

	continueStart = 15
	continueEnd   = 22
)

// Feed is the assembled home screen: a hero highlight plus the standard
// rows, all cut from the catalog snapshot in insertion order.
type Feed struct {
	Hero             *models.MediaRecord  `json:"hero,omitempty"`
	Top10            []models.MediaRecord `json:"top10"`
	NewReleases      []models.MediaRecord `json:"newReleases"`
	Trending         []models.MediaRecord `json:"trending"`
	ContinueWatching []models.MediaRecord `json:"continueWatching"`
}

// Enricher resolves a stub record into its enriched form. Satisfied by
// metadata.Resolver.
type Enricher interface {
	Resolve(ctx context.Context, externalID string, stub models.MediaRecord) models.MediaRecord
}

// FeedBuilder assembles the home feed from the catalog store, enriching the
// hero record eagerly so the largest element on screen never shows
// placeholder data.
type FeedBuilder struct {
	store    *Store
	enricher Enricher
}

// NewFeedBuilder creates a feed builder. enricher may be nil, in which case
// the hero is served as stored.
func NewFeedBuilder(store *Store, enricher Enricher) *FeedBuilder {
	return &FeedBuilder{store: store, enricher: enricher}
}

// Build assembles the feed from the current catalog snapshot. The hero is
// enriched and written back before the rows are cut, so a row holding the
// hero record shows the enriched version in the same response.
func (b *FeedBuilder) Build(ctx context.Context) Feed {
	snapshot := b.store.Snapshot()
	hero := b.pickHero(ctx, snapshot)
	if hero != nil {
		snapshot = b.store.Snapshot()
	}

	return Feed{
		Hero:             hero,
		Top10:            cut(snapshot, 0, top10Size),
		NewReleases:      cut(snapshot, 0, releasesSize),
		Trending:         cut(snapshot, trendingStart, trendingEnd),
		ContinueWatching: cut(snapshot, continueStart, continueEnd),
	}
}

// pickHero selects the hero record: the first trending entry when the
// catalog is deep enough, the first record otherwise. The pick is enriched
// in-line and written back to the store so the detail view reuses it.
func (b *FeedBuilder) pickHero(ctx context.Context, snapshot []models.MediaRecord) *models.MediaRecord {
	var pick models.MediaRecord
	switch {
	case len(snapshot) > trendingStart:
		pick = snapshot[trendingStart]
	case len(snapshot) > 0:
		pick = snapshot[0]
	default:
		return nil
	}

	if b.enricher != nil && pick.IsStub() {
		pick = b.enricher.Resolve(ctx, pick.ExternalID, pick)
		b.store.ApplyEnrichment(pick)
	}
	return &pick
}

// cut returns snapshot[start:end] clamped to the snapshot bounds.
func cut(snapshot []models.MediaRecord, start, end int) []models.MediaRecord {
	if start >= len(snapshot) {
		return []models.MediaRecord{}
	}
	if end > len(snapshot) {
		end = len(snapshot)
	}
	out := make([]models.MediaRecord, end-start)
	copy(out, snapshot[start:end])
	return out
}
