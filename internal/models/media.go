// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package models

import "strings"

// MediaKind identifies the content kind of a catalog record.
type MediaKind string

const (
	KindMovie   MediaKind = "movie"
	KindSeries  MediaKind = "series"
	KindAnime   MediaKind = "anime"
	KindCartoon MediaKind = "cartoon"
)

// TVLike reports whether the kind maps to a "tv" lookup on the metadata
// provider. Anime and cartoons are indexed as TV series there.
func (k MediaKind) TVLike() bool {
	return k == KindSeries || k == KindAnime || k == KindCartoon
}

// PlaceholderTitle is the title seed records carry before enrichment.
const PlaceholderTitle = "Loading..."

// placeholderImageMarker identifies the generic stock image used by seed
// records that have not been enriched yet.
const placeholderImageMarker = "unsplash"

// MediaRecord is the central catalog entity.
//
// A record is either a stub (populated only from static seed data, with a
// placeholder image) or enriched (fields overwritten with authoritative
// provider metadata). Enrichment is monotonic: the record identity never
// changes and enriched fields are never reverted to placeholder state.
type MediaRecord struct {
	// ID is unique within the catalog for a session. Opaque: seed loaders
	// normalize numeric ids to their decimal string form.
	ID string `json:"id"`

	// ExternalID is the IMDB-style cross-reference key (tt1234567). Some
	// content kinds carry the provider-native numeric id here instead.
	ExternalID string `json:"imdbId,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Genre is the primary genre tag, kept alongside the full list for
	// compatibility with seed data that only carries one.
	Genre  string   `json:"genre,omitempty"`
	Genres []string `json:"genres,omitempty"`

	Year        int    `json:"year,omitempty"`
	ReleaseDate string `json:"fullReleaseDate,omitempty"` // DD/MM/YYYY

	// Rating is a string-encoded decimal ("7.8"), matching the seed format.
	Rating    string `json:"rating,omitempty"`
	VoteCount int    `json:"voteCount,omitempty"`

	Duration string   `json:"duration,omitempty"` // "2h 5m", "45m" or "N/A"
	Cast     []string `json:"cast,omitempty"`

	ImageURL    string `json:"imageUrl"`
	BackdropURL string `json:"backdropUrl,omitempty"`
	VideoURL    string `json:"videoUrl,omitempty"`

	Kind MediaKind `json:"type,omitempty"`

	// Source records which data source populated the record (seed batch
	// name or addon id).
	Source string `json:"source,omitempty"`
}

// IsStub reports whether the record still carries only seed data: a
// placeholder image or the placeholder title.
func (m *MediaRecord) IsStub() bool {
	if m.Title == PlaceholderTitle {
		return true
	}
	return m.ImageURL == "" || strings.Contains(m.ImageURL, placeholderImageMarker)
}

// GenreList returns the full genre list, falling back to the primary genre
// when the list is absent.
func (m *MediaRecord) GenreList() []string {
	if len(m.Genres) > 0 {
		return m.Genres
	}
	if m.Genre != "" {
		return []string{m.Genre}
	}
	return nil
}

// SharesGenre reports whether the record shares at least one genre tag with
// the given list.
func (m *MediaRecord) SharesGenre(genres []string) bool {
	for _, g := range m.GenreList() {
		for _, other := range genres {
			if g == other {
				return true
			}
		}
	}
	return false
}

// Category is a titled group of records, used by the home feed and addon
// catalog ingestion.
type Category struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Records []MediaRecord `json:"movies"`
}
