// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package metadata

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/moonflix/moonflix/internal/logging"
	"github.com/moonflix/moonflix/internal/metrics"
	"github.com/moonflix/moonflix/internal/models"
	"github.com/moonflix/moonflix/internal/queue"
)

// topCastSize is how many leading cast credits an enriched record keeps.
const topCastSize = 5

// Resolver turns stub records into enriched records exactly once per
// external id, using the provider, the patch cache and the bounded queue.
//
// Resolve never returns an error: every failure degrades to the unmodified
// stub so a slow or broken provider can only ever cost freshness, never
// availability. Outcomes are cached asymmetrically: a provider lookup that
// SUCCEEDS with no match caches an empty patch (no retry), while a lookup
// that FAILS leaves the cache cold so the next visibility event retries.
type Resolver struct {
	provider Provider
	cache    *PatchCache
	queue    *queue.Queue
	logger   zerolog.Logger
}

// NewResolver creates a resolver on top of the given provider, cache and
// queue.
func NewResolver(provider Provider, cache *PatchCache, q *queue.Queue) *Resolver {
	return &Resolver{
		provider: provider,
		cache:    cache,
		queue:    q,
		logger:   logging.With().Str("component", "resolver").Logger(),
	}
}

// Cache exposes the resolver's patch cache (the true de-duplication point
// for concurrent enrichment triggers).
func (r *Resolver) Cache() *PatchCache {
	return r.cache
}

// Resolve produces the enriched record for a stub. An empty external id or
// a cached patch resolves immediately; otherwise the work is queued behind
// the concurrency limit. When ctx is done before the queued task completes,
// the stub is returned but the task still runs and populates the cache.
func (r *Resolver) Resolve(ctx context.Context, externalID string, stub models.MediaRecord) models.MediaRecord {
	if externalID == "" {
		metrics.EnrichmentTotal.WithLabelValues("skipped").Inc()
		return stub
	}

	if patch, ok := r.cache.Get(externalID); ok {
		metrics.EnrichmentTotal.WithLabelValues("cached").Inc()
		return patch.Apply(stub)
	}

	done := make(chan models.MediaRecord, 1)
	r.queue.Enqueue(func() {
		done <- r.resolveTask(ctx, externalID, stub)
	})

	select {
	case rec := <-done:
		return rec
	case <-ctx.Done():
		return stub
	}
}

// resolveTask runs with a concurrency slot held.
func (r *Resolver) resolveTask(ctx context.Context, externalID string, stub models.MediaRecord) models.MediaRecord {
	// Re-check the cache: another resolve for the same id may have
	// completed while this task sat in the backlog.
	if patch, ok := r.cache.Get(externalID); ok {
		metrics.EnrichmentTotal.WithLabelValues("cached").Inc()
		return patch.Apply(stub)
	}

	nativeID, mediaType, err := r.locate(ctx, externalID, stub.Kind)
	if err != nil {
		r.logger.Debug().Err(err).Str("external_id", externalID).Msg("external id lookup failed")
		metrics.EnrichmentTotal.WithLabelValues("error").Inc()
		return stub
	}

	if nativeID == "" {
		// Provider answered but knows nothing about this id. Cache the
		// empty patch so the lookup is not repeated.
		r.cache.Set(externalID, Patch{})
		metrics.EnrichmentTotal.WithLabelValues("not_found").Inc()
		return stub
	}

	details, err := r.provider.Details(ctx, mediaType, nativeID)
	if err != nil {
		// Cache stays cold on fetch errors so a later resolve retries.
		r.logger.Debug().Err(err).Str("external_id", externalID).Msg("details fetch failed")
		metrics.EnrichmentTotal.WithLabelValues("error").Inc()
		return stub
	}

	patch := buildPatch(details, stub.Kind, mediaType)
	r.cache.Set(externalID, patch)
	metrics.EnrichmentTotal.WithLabelValues("enriched").Inc()
	return patch.Apply(stub)
}

// locate maps an external id to a provider-native id and media kind.
// IMDB-style ids ("tt...") go through the find indirection; anything else is
// used verbatim as the provider-native id.
func (r *Resolver) locate(ctx context.Context, externalID string, kind models.MediaKind) (nativeID, mediaType string, err error) {
	tvLike := kind.TVLike()

	if !strings.HasPrefix(externalID, "tt") {
		if tvLike {
			return externalID, MediaTypeTV, nil
		}
		return externalID, MediaTypeMovie, nil
	}

	found, err := r.provider.Find(ctx, externalID)
	if err != nil {
		return "", "", err
	}

	if tvLike {
		// Series, anime and cartoons are indexed as TV on the provider;
		// a movie hit for their id would be a homonym.
		if len(found.TVResults) > 0 {
			return formatNativeID(found.TVResults[0].ID), MediaTypeTV, nil
		}
		return "", "", nil
	}

	if len(found.MovieResults) > 0 {
		return formatNativeID(found.MovieResults[0].ID), MediaTypeMovie, nil
	}
	if len(found.TVResults) > 0 {
		return formatNativeID(found.TVResults[0].ID), MediaTypeTV, nil
	}
	return "", "", nil
}

// buildPatch maps a details payload to a catalog patch, normalizing runtime
// and date and preserving the stub's content kind when it had one.
func buildPatch(details *TitleDetails, stubKind models.MediaKind, mediaType string) Patch {
	kind := stubKind
	if kind == "" {
		if mediaType == MediaTypeTV {
			kind = models.KindSeries
		} else {
			kind = models.KindMovie
		}
	}

	genres := details.GenreNames()
	if len(genres) == 0 {
		genres = []string{fallbackGenreLabel(kind)}
	}

	releaseDate := details.ReleaseOrAirDate()

	return Patch{
		Title:       details.DisplayTitle(),
		Description: details.Overview,
		ImageURL:    details.PosterURL,
		BackdropURL: details.BackdropURL,
		Rating:      RatingString(details.VoteAverage),
		VoteCount:   details.VoteCount,
		Year:        YearOf(releaseDate),
		ReleaseDate: FormatReleaseDate(releaseDate),
		Duration:    FormatRuntime(details.RuntimeMinutes()),
		Genres:      genres,
		Cast:        details.TopCast(topCastSize),
		Kind:        kind,
	}
}

// fallbackGenreLabel supplies a primary genre for titles the provider
// returns without genre tags.
func fallbackGenreLabel(kind models.MediaKind) string {
	switch kind {
	case models.KindAnime:
		return "Anime"
	case models.KindCartoon:
		return "Cartoon"
	case models.KindSeries:
		return "Series"
	default:
		return "Movie"
	}
}

func formatNativeID(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
