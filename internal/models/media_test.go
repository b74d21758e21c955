// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package models

import "testing"

func TestMediaKindTVLike(t *testing.T) {
	tests := []struct {
		kind MediaKind
		want bool
	}{
		{KindMovie, false},
		{KindSeries, true},
		{KindAnime, true},
		{KindCartoon, true},
		{MediaKind(""), false},
	}
	for _, tt := range tests {
		if got := tt.kind.TVLike(); got != tt.want {
			t.Errorf("TVLike(%q) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestIsStub(t *testing.T) {
	tests := []struct {
		name string
		rec  MediaRecord
		want bool
	}{
		{"placeholder title", MediaRecord{Title: PlaceholderTitle, ImageURL: "https://x/real.jpg"}, true},
		{"placeholder image", MediaRecord{Title: "Heat", ImageURL: "https://images.unsplash.com/photo"}, true},
		{"no image", MediaRecord{Title: "Heat"}, true},
		{"enriched", MediaRecord{Title: "Heat", ImageURL: "https://image.tmdb.org/p.jpg"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.IsStub(); got != tt.want {
				t.Errorf("IsStub() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenreListFallsBackToPrimary(t *testing.T) {
	rec := MediaRecord{Genre: "Drama"}
	if got := rec.GenreList(); len(got) != 1 || got[0] != "Drama" {
		t.Errorf("GenreList() = %v", got)
	}

	rec.Genres = []string{"Crime", "Thriller"}
	if got := rec.GenreList(); len(got) != 2 || got[0] != "Crime" {
		t.Errorf("GenreList() = %v", got)
	}

	if got := (&MediaRecord{}).GenreList(); got != nil {
		t.Errorf("GenreList() on empty record = %v", got)
	}
}

func TestSharesGenre(t *testing.T) {
	rec := MediaRecord{Genres: []string{"Drama", "Crime"}}

	if !rec.SharesGenre([]string{"Crime"}) {
		t.Error("SharesGenre(Crime) = false")
	}
	if rec.SharesGenre([]string{"Comedy"}) {
		t.Error("SharesGenre(Comedy) = true")
	}
	if rec.SharesGenre(nil) {
		t.Error("SharesGenre(nil) = true")
	}
}
