// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package metadata

import (
	"context"
	"fmt"
	"strconv"

	"github.com/moonflix/moonflix/internal/models"
)

// Provider media kinds as used by the wire API.
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// Provider is the narrow contract the resolver and the search matcher need
// from the metadata backend. Both Client and BreakerClient implement it.
type Provider interface {
	// Find resolves an IMDB-style external id to provider-native hits.
	Find(ctx context.Context, externalID string) (*FindResult, error)

	// Details fetches full title details including credits.
	Details(ctx context.Context, mediaType, nativeID string) (*TitleDetails, error)

	// SearchMulti runs a combined movie+series search for the raw query.
	SearchMulti(ctx context.Context, query string) ([]SearchHit, error)

	// ExternalID resolves a provider-native id to its IMDB-style id, trying
	// the given media types in order. Empty result with nil error means the
	// provider knows the title but has no external id for it.
	ExternalID(ctx context.Context, nativeID int64, mediaTypes ...string) (string, error)
}

// FindResult groups the provider-native hits for an external id lookup.
type FindResult struct {
	MovieResults []FindHit `json:"movie_results"`
	TVResults    []FindHit `json:"tv_results"`
}

// FindHit is a single hit of a find-by-external-id lookup.
type FindHit struct {
	ID int64 `json:"id"`
}

// genreRef is a genre entry in a details payload.
type genreRef struct {
	Name string `json:"name"`
}

// castRef is a cast credit in a details payload.
type castRef struct {
	Name string `json:"name"`
}

// TitleDetails is the parsed details payload. Title/Name and the two date
// fields are the movie/tv variants of the same information; use the
// accessors instead of reading them directly.
type TitleDetails struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Name           string     `json:"name"`
	Overview       string     `json:"overview"`
	PosterPath     string     `json:"poster_path"`
	BackdropPath   string     `json:"backdrop_path"`
	VoteAverage    float64    `json:"vote_average"`
	VoteCount      int        `json:"vote_count"`
	ReleaseDate    string     `json:"release_date"`
	FirstAirDate   string     `json:"first_air_date"`
	Runtime        int        `json:"runtime"`
	EpisodeRunTime []int      `json:"episode_run_time"`
	Genres         []genreRef `json:"genres"`
	Credits        struct {
		Cast []castRef `json:"cast"`
	} `json:"credits"`

	// PosterURL and BackdropURL are full image URLs resolved by the client
	// from the path fields. Empty when the provider has no artwork.
	PosterURL   string `json:"-"`
	BackdropURL string `json:"-"`
}

// DisplayTitle returns the movie title or the series name.
func (d *TitleDetails) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// ReleaseOrAirDate returns the release date or the first air date.
func (d *TitleDetails) ReleaseOrAirDate() string {
	if d.ReleaseDate != "" {
		return d.ReleaseDate
	}
	return d.FirstAirDate
}

// RuntimeMinutes returns the movie runtime, falling back to the first
// episode runtime for series.
func (d *TitleDetails) RuntimeMinutes() int {
	if d.Runtime > 0 {
		return d.Runtime
	}
	if len(d.EpisodeRunTime) > 0 {
		return d.EpisodeRunTime[0]
	}
	return 0
}

// GenreNames returns the genre names in payload order.
func (d *TitleDetails) GenreNames() []string {
	if len(d.Genres) == 0 {
		return nil
	}
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return names
}

// TopCast returns up to n leading cast names.
func (d *TitleDetails) TopCast(n int) []string {
	cast := d.Credits.Cast
	if len(cast) > n {
		cast = cast[:n]
	}
	names := make([]string, 0, len(cast))
	for _, c := range cast {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return names
}

// SearchHit is one normalized multi-search result. The client filters out
// hits that are neither movies nor series and fills Title/ReleaseDate from
// the kind-specific variants.
type SearchHit struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`

	PosterURL   string `json:"-"`
	BackdropURL string `json:"-"`
}

// DisplayTitle returns the movie title or the series name.
func (h *SearchHit) DisplayTitle() string {
	if h.Title != "" {
		return h.Title
	}
	return h.Name
}

// ReleaseOrAirDate returns the release date or the first air date.
func (h *SearchHit) ReleaseOrAirDate() string {
	if h.ReleaseDate != "" {
		return h.ReleaseDate
	}
	return h.FirstAirDate
}

// NativeIDString returns the provider-native id in its decimal form, as it
// appears when seed lists index content by native id.
func (h *SearchHit) NativeIDString() string {
	return strconv.FormatInt(h.ID, 10)
}

// Patch is the partial-metadata result of one enrichment, keyed by external
// id in the cache. The zero value is the "not found" marker: applying it
// leaves a record untouched.
type Patch struct {
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	BackdropURL string           `json:"backdropUrl,omitempty"`
	Rating      string           `json:"rating,omitempty"`
	VoteCount   int              `json:"voteCount,omitempty"`
	Year        int              `json:"year,omitempty"`
	ReleaseDate string           `json:"fullReleaseDate,omitempty"`
	Duration    string           `json:"duration,omitempty"`
	Genres      []string         `json:"genres,omitempty"`
	Cast        []string         `json:"cast,omitempty"`
	Kind        models.MediaKind `json:"type,omitempty"`
}

// IsEmpty reports whether the patch carries no data (a cached negative
// lookup).
func (p *Patch) IsEmpty() bool {
	return p.Title == "" && p.Description == "" && p.ImageURL == "" &&
		p.BackdropURL == "" && p.Rating == "" && p.VoteCount == 0 &&
		p.Year == 0 && p.ReleaseDate == "" && p.Duration == "" &&
		len(p.Genres) == 0 && len(p.Cast) == 0 && p.Kind == ""
}

// Apply merges the patch over a stub record. Only populated patch fields
// overwrite; the record identity and playback URL are always preserved.
func (p *Patch) Apply(stub models.MediaRecord) models.MediaRecord {
	out := stub
	if p.Title != "" {
		out.Title = p.Title
	}
	if p.Description != "" {
		out.Description = p.Description
	}
	if p.ImageURL != "" {
		out.ImageURL = p.ImageURL
	}
	if p.BackdropURL != "" {
		out.BackdropURL = p.BackdropURL
	}
	if p.Rating != "" {
		out.Rating = p.Rating
	}
	if p.VoteCount > 0 {
		out.VoteCount = p.VoteCount
	}
	if p.Year > 0 {
		out.Year = p.Year
	}
	if p.ReleaseDate != "" {
		out.ReleaseDate = p.ReleaseDate
	}
	if p.Duration != "" {
		out.Duration = p.Duration
	}
	if len(p.Genres) > 0 {
		out.Genres = p.Genres
		out.Genre = p.Genres[0]
	}
	if len(p.Cast) > 0 {
		out.Cast = p.Cast
	}
	if p.Kind != "" {
		out.Kind = p.Kind
	}
	return out
}

// RatingString renders a provider vote average as the catalog's
// string-encoded decimal, or "" when the provider reports no votes.
func RatingString(voteAverage float64) string {
	if voteAverage <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f", voteAverage)
}
