// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

// Package search implements the hybrid catalog search: an instant local
// pass over the in-memory catalog plus a provider-backed remote pass whose
// hits are cross-referenced back to playable catalog records.
package search

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/moonflix/moonflix/internal/catalog"
	"github.com/moonflix/moonflix/internal/config"
	"github.com/moonflix/moonflix/internal/logging"
	"github.com/moonflix/moonflix/internal/metadata"
	"github.com/moonflix/moonflix/internal/metrics"
	"github.com/moonflix/moonflix/internal/models"
)

// stripMarks removes combining marks after NFD decomposition, so "Pokémon"
// and "pokemon" compare equal.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, trims and strips diacritics from a query or title
// for matching.
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// singular strips a trailing plural "s" so "movies" also matches "movie".
func singular(s string) string {
	if len(s) > 1 && strings.HasSuffix(s, "s") {
		return s[:len(s)-1]
	}
	return s
}

// Matcher runs hybrid searches over the catalog store and the metadata
// provider.
type Matcher struct {
	store      *catalog.Store
	provider   metadata.Provider
	remoteHits int
	logger     zerolog.Logger
}

// NewMatcher creates a matcher. provider may be nil, which disables the
// remote pass.
func NewMatcher(store *catalog.Store, provider metadata.Provider, cfg config.SearchConfig) *Matcher {
	hits := cfg.RemoteHits
	if hits <= 0 {
		hits = 8
	}
	return &Matcher{
		store:      store,
		provider:   provider,
		remoteHits: hits,
		logger:     logging.With().Str("component", "search").Logger(),
	}
}

// Search runs both passes for a query. Remote-matched records come first,
// then the remaining local matches, deduplicated by record id. A remote
// pass failure degrades to local-only results, never to an error.
func (m *Matcher) Search(ctx context.Context, query string) []models.MediaRecord {
	start := time.Now()
	defer func() { metrics.SearchDuration.Observe(time.Since(start).Seconds()) }()

	normQuery := Normalize(query)
	if normQuery == "" {
		return nil
	}

	snapshot := m.store.Snapshot()
	local := m.localPass(snapshot, normQuery)
	remote := m.remotePass(ctx, snapshot, local, query, normQuery)

	merged := make([]models.MediaRecord, 0, len(remote)+len(local))
	seen := make(map[string]struct{}, len(remote)+len(local))
	for _, rec := range append(remote, local...) {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		merged = append(merged, rec)
	}
	return merged
}

// localPass matches catalog records by title, genre or cast. Stub records
// are excluded: a placeholder title would match every query for nothing.
func (m *Matcher) localPass(snapshot []models.MediaRecord, normQuery string) []models.MediaRecord {
	metrics.SearchQueriesTotal.WithLabelValues("local").Inc()
	singQuery := singular(normQuery)

	var out []models.MediaRecord
	for _, rec := range snapshot {
		if rec.IsStub() {
			continue
		}
		if m.matches(&rec, normQuery, singQuery) {
			out = append(out, rec)
		}
	}
	return out
}

// matches applies the singular form to genre tags only. Titles and cast
// names match the query as typed.
func (m *Matcher) matches(rec *models.MediaRecord, normQuery, singQuery string) bool {
	if strings.Contains(Normalize(rec.Title), normQuery) {
		return true
	}
	for _, genre := range rec.GenreList() {
		g := Normalize(genre)
		if strings.Contains(g, normQuery) || strings.Contains(g, singQuery) {
			return true
		}
	}
	for _, name := range rec.Cast {
		if strings.Contains(Normalize(name), normQuery) {
			return true
		}
	}
	return false
}

// remotePass searches the provider and keeps only hits that cross-reference
// to a catalog record, hydrated with the provider metadata but keeping the
// local identity and playback URL. Hits whose normalized title already
// appears among the local matches are skipped before any cross-reference
// lookup happens.
func (m *Matcher) remotePass(ctx context.Context, snapshot, local []models.MediaRecord, rawQuery, normQuery string) []models.MediaRecord {
	if m.provider == nil {
		return nil
	}
	metrics.SearchQueriesTotal.WithLabelValues("remote").Inc()

	hits, err := m.provider.SearchMulti(ctx, strings.TrimSpace(rawQuery))
	if err != nil {
		m.logger.Debug().Err(err).Str("query", normQuery).Msg("remote search failed")
		return nil
	}
	if len(hits) > m.remoteHits {
		hits = hits[:m.remoteHits]
	}

	// Index catalog records by external id. Some seed batches store the
	// provider-native numeric id in the external id field, so both keys
	// are indexed.
	byExternal := make(map[string]models.MediaRecord, len(snapshot))
	for _, rec := range snapshot {
		if rec.ExternalID != "" {
			byExternal[rec.ExternalID] = rec
		}
	}

	var out []models.MediaRecord
	seenTitles := make(map[string]struct{}, len(local))
	for _, rec := range local {
		seenTitles[Normalize(rec.Title)] = struct{}{}
	}
	for i := range hits {
		hit := &hits[i]

		title := Normalize(hit.DisplayTitle())
		if _, dup := seenTitles[title]; dup {
			continue
		}
		seenTitles[title] = struct{}{}

		local, ok := m.crossReference(ctx, hit, byExternal)
		if !ok {
			continue
		}
		out = append(out, hydrate(hit, local))
	}
	return out
}

// crossReference maps a provider hit back to a catalog record, first by the
// native id as stored in seed data, then by the provider's external id.
func (m *Matcher) crossReference(ctx context.Context, hit *metadata.SearchHit, byExternal map[string]models.MediaRecord) (models.MediaRecord, bool) {
	if rec, ok := byExternal[hit.NativeIDString()]; ok {
		return rec, true
	}

	externalID, err := m.provider.ExternalID(ctx, hit.ID, hit.MediaType)
	if err != nil || externalID == "" {
		return models.MediaRecord{}, false
	}
	rec, ok := byExternal[externalID]
	return rec, ok
}

// hydrate overlays provider search metadata on a catalog record. Identity
// and playback URL always come from the catalog.
func hydrate(hit *metadata.SearchHit, local models.MediaRecord) models.MediaRecord {
	out := local
	if title := hit.DisplayTitle(); title != "" {
		out.Title = title
	}
	if hit.Overview != "" {
		out.Description = hit.Overview
	}
	if hit.PosterURL != "" {
		out.ImageURL = hit.PosterURL
	}
	if hit.BackdropURL != "" {
		out.BackdropURL = hit.BackdropURL
	}
	if rating := metadata.RatingString(hit.VoteAverage); rating != "" {
		out.Rating = rating
	}
	if year := metadata.YearOf(hit.ReleaseOrAirDate()); year > 0 {
		out.Year = year
	}
	if out.Kind == "" {
		if hit.MediaType == metadata.MediaTypeTV {
			out.Kind = models.KindSeries
		} else {
			out.Kind = models.KindMovie
		}
	}
	return out
}
