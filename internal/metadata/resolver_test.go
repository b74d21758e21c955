// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package metadata

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/moonflix/moonflix/internal/models"
	"github.com/moonflix/moonflix/internal/queue"
)

// fakeProvider implements Provider with programmable responses and atomic
// call counters.
type fakeProvider struct {
	findCalls    atomic.Int64
	detailsCalls atomic.Int64

	findFn    func(externalID string) (*FindResult, error)
	detailsFn func(mediaType, nativeID string) (*TitleDetails, error)
	delay     time.Duration
}

func (f *fakeProvider) Find(ctx context.Context, externalID string) (*FindResult, error) {
	f.findCalls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.findFn != nil {
		return f.findFn(externalID)
	}
	return &FindResult{}, nil
}

func (f *fakeProvider) Details(ctx context.Context, mediaType, nativeID string) (*TitleDetails, error) {
	f.detailsCalls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.detailsFn != nil {
		return f.detailsFn(mediaType, nativeID)
	}
	return nil, errors.New("not configured")
}

func (f *fakeProvider) SearchMulti(ctx context.Context, query string) ([]SearchHit, error) {
	return nil, nil
}

func (f *fakeProvider) ExternalID(ctx context.Context, nativeID int64, mediaTypes ...string) (string, error) {
	return "", nil
}

func movieDetails(id int64, title string) *TitleDetails {
	return &TitleDetails{
		ID:          id,
		Title:       title,
		Overview:    "overview for " + title,
		VoteAverage: 7.8,
		VoteCount:   1200,
		ReleaseDate: "2021-03-09",
		Runtime:     118,
		Genres:      []genreRef{{Name: "Action"}},
		Credits: struct {
			Cast []castRef `json:"cast"`
		}{Cast: []castRef{{Name: "Lead One"}, {Name: "Lead Two"}}},
	}
}

func newTestResolver(p Provider, maxConcurrency int) *Resolver {
	return NewResolver(p, NewPatchCache(), queue.New(maxConcurrency))
}

func TestResolveEmptyExternalIDReturnsStub(t *testing.T) {
	fp := &fakeProvider{}
	r := newTestResolver(fp, 4)

	stub := models.MediaRecord{ID: "1", Title: models.PlaceholderTitle}
	got := r.Resolve(context.Background(), "", stub)

	if got.Title != models.PlaceholderTitle {
		t.Errorf("Title = %q, want untouched placeholder", got.Title)
	}
	if fp.findCalls.Load() != 0 || fp.detailsCalls.Load() != 0 {
		t.Error("no provider calls expected for empty external id")
	}
}

func TestResolveEnrichesThroughFindIndirection(t *testing.T) {
	fp := &fakeProvider{
		findFn: func(externalID string) (*FindResult, error) {
			return &FindResult{MovieResults: []FindHit{{ID: 550}}}, nil
		},
		detailsFn: func(mediaType, nativeID string) (*TitleDetails, error) {
			if mediaType != MediaTypeMovie || nativeID != "550" {
				t.Errorf("Details(%q, %q), want movie/550", mediaType, nativeID)
			}
			return movieDetails(550, "Fight Club"), nil
		},
	}
	r := newTestResolver(fp, 4)

	stub := models.MediaRecord{
		ID:         "7",
		ExternalID: "tt0137523",
		Title:      models.PlaceholderTitle,
		VideoURL:   "https://example.com/watch/7",
	}
	got := r.Resolve(context.Background(), "tt0137523", stub)

	if got.Title != "Fight Club" {
		t.Errorf("Title = %q, want enriched title", got.Title)
	}
	if got.Duration != "1h 58m" {
		t.Errorf("Duration = %q, want 1h 58m", got.Duration)
	}
	if got.ReleaseDate != "09/03/2021" {
		t.Errorf("ReleaseDate = %q, want 09/03/2021", got.ReleaseDate)
	}
	if got.Year != 2021 {
		t.Errorf("Year = %d, want 2021", got.Year)
	}
	if got.Rating != "7.8" {
		t.Errorf("Rating = %q, want 7.8", got.Rating)
	}
	if got.Kind != models.KindMovie {
		t.Errorf("Kind = %q, want movie", got.Kind)
	}
	if got.ID != "7" || got.VideoURL != "https://example.com/watch/7" {
		t.Error("identity and playback URL must survive enrichment")
	}
}

func TestResolveSecondCallServedFromCache(t *testing.T) {
	fp := &fakeProvider{
		findFn: func(string) (*FindResult, error) {
			return &FindResult{MovieResults: []FindHit{{ID: 550}}}, nil
		},
		detailsFn: func(string, string) (*TitleDetails, error) {
			return movieDetails(550, "Fight Club"), nil
		},
	}
	r := newTestResolver(fp, 4)
	stub := models.MediaRecord{ID: "7", Title: models.PlaceholderTitle}

	first := r.Resolve(context.Background(), "tt0137523", stub)
	second := r.Resolve(context.Background(), "tt0137523", stub)

	if first.Title != second.Title {
		t.Errorf("cache replay diverged: %q vs %q", first.Title, second.Title)
	}
	if n := fp.findCalls.Load(); n != 1 {
		t.Errorf("findCalls = %d, want 1 (second resolve from cache)", n)
	}
	if n := fp.detailsCalls.Load(); n != 1 {
		t.Errorf("detailsCalls = %d, want 1", n)
	}
}

func TestResolveTVLikeKindIgnoresMovieHits(t *testing.T) {
	fp := &fakeProvider{
		findFn: func(string) (*FindResult, error) {
			// Homonym: the external id matches both a movie and a series.
			return &FindResult{
				MovieResults: []FindHit{{ID: 100}},
				TVResults:    []FindHit{{ID: 200}},
			}, nil
		},
		detailsFn: func(mediaType, nativeID string) (*TitleDetails, error) {
			if mediaType != MediaTypeTV || nativeID != "200" {
				t.Errorf("Details(%q, %q), want tv/200", mediaType, nativeID)
			}
			d := movieDetails(200, "")
			d.Name = "Dark"
			d.ReleaseDate = ""
			d.FirstAirDate = "2017-12-01"
			return d, nil
		},
	}
	r := newTestResolver(fp, 4)

	stub := models.MediaRecord{ID: "9", Kind: models.KindSeries, Title: models.PlaceholderTitle}
	got := r.Resolve(context.Background(), "tt5753856", stub)

	if got.Title != "Dark" {
		t.Errorf("Title = %q, want series name", got.Title)
	}
	if got.Kind != models.KindSeries {
		t.Errorf("Kind = %q, want preserved series kind", got.Kind)
	}
}

func TestResolveMovieFallsBackToTVHit(t *testing.T) {
	fp := &fakeProvider{
		findFn: func(string) (*FindResult, error) {
			return &FindResult{TVResults: []FindHit{{ID: 300}}}, nil
		},
		detailsFn: func(mediaType, nativeID string) (*TitleDetails, error) {
			if mediaType != MediaTypeTV || nativeID != "300" {
				t.Errorf("Details(%q, %q), want tv/300", mediaType, nativeID)
			}
			d := movieDetails(300, "")
			d.Name = "Missing Movie That Is A Show"
			return d, nil
		},
	}
	r := newTestResolver(fp, 4)

	stub := models.MediaRecord{ID: "10", Title: models.PlaceholderTitle}
	got := r.Resolve(context.Background(), "tt7654321", stub)

	if got.Title != "Missing Movie That Is A Show" {
		t.Errorf("Title = %q, want tv fallback hit", got.Title)
	}
	if got.Kind != models.KindSeries {
		t.Errorf("Kind = %q, want series from tv media type", got.Kind)
	}
}

func TestResolveNativeIDSkipsFind(t *testing.T) {
	fp := &fakeProvider{
		detailsFn: func(mediaType, nativeID string) (*TitleDetails, error) {
			if mediaType != MediaTypeMovie || nativeID != "603" {
				t.Errorf("Details(%q, %q), want movie/603", mediaType, nativeID)
			}
			return movieDetails(603, "The Matrix"), nil
		},
	}
	r := newTestResolver(fp, 4)

	stub := models.MediaRecord{ID: "603", Title: models.PlaceholderTitle}
	got := r.Resolve(context.Background(), "603", stub)

	if got.Title != "The Matrix" {
		t.Errorf("Title = %q, want enriched title", got.Title)
	}
	if fp.findCalls.Load() != 0 {
		t.Error("native ids must not go through the find indirection")
	}
}

func TestResolveNotFoundCachesNegativeEntry(t *testing.T) {
	fp := &fakeProvider{
		findFn: func(string) (*FindResult, error) {
			return &FindResult{}, nil
		},
	}
	r := newTestResolver(fp, 4)

	stub := models.MediaRecord{ID: "11", Title: models.PlaceholderTitle}
	first := r.Resolve(context.Background(), "tt9999999", stub)
	second := r.Resolve(context.Background(), "tt9999999", stub)

	if first.Title != models.PlaceholderTitle || second.Title != models.PlaceholderTitle {
		t.Error("not-found resolves must return the stub unchanged")
	}
	if n := fp.findCalls.Load(); n != 1 {
		t.Errorf("findCalls = %d, want 1 (negative result cached)", n)
	}
}

func TestResolveProviderErrorLeavesCacheCold(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)

	fp := &fakeProvider{
		findFn: func(string) (*FindResult, error) {
			if fail.Load() {
				return nil, errors.New("provider unavailable")
			}
			return &FindResult{MovieResults: []FindHit{{ID: 550}}}, nil
		},
		detailsFn: func(string, string) (*TitleDetails, error) {
			return movieDetails(550, "Fight Club"), nil
		},
	}
	r := newTestResolver(fp, 4)
	stub := models.MediaRecord{ID: "7", Title: models.PlaceholderTitle}

	got := r.Resolve(context.Background(), "tt0137523", stub)
	if got.Title != models.PlaceholderTitle {
		t.Error("failed resolve must degrade to the stub")
	}

	// The failure must not be cached: once the provider recovers, the same
	// id resolves fully.
	fail.Store(false)
	got = r.Resolve(context.Background(), "tt0137523", stub)
	if got.Title != "Fight Club" {
		t.Errorf("Title = %q, want retry to succeed after provider recovery", got.Title)
	}
	if n := fp.findCalls.Load(); n != 2 {
		t.Errorf("findCalls = %d, want 2 (error then retry)", n)
	}
}

func TestResolveConcurrencyBounded(t *testing.T) {
	const limit = 4

	var inFlight, peak atomic.Int64
	fp := &fakeProvider{
		findFn: func(string) (*FindResult, error) {
			cur := inFlight.Add(1)
			for {
				p := peak.Load()
				if cur <= p || peak.CompareAndSwap(p, cur) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
			return &FindResult{}, nil
		},
	}
	r := newTestResolver(fp, limit)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "tt000000" + string(rune('a'+i))
			r.Resolve(context.Background(), id, models.MediaRecord{ID: id})
		}(i)
	}
	wg.Wait()

	if p := peak.Load(); p > limit {
		t.Errorf("peak concurrent lookups = %d, want <= %d", p, limit)
	}
	if n := fp.findCalls.Load(); n != 16 {
		t.Errorf("findCalls = %d, want 16", n)
	}
}

func TestResolveContextDoneReturnsStubButStillFills(t *testing.T) {
	release := make(chan struct{})
	fp := &fakeProvider{
		findFn: func(string) (*FindResult, error) {
			<-release
			return &FindResult{MovieResults: []FindHit{{ID: 550}}}, nil
		},
		detailsFn: func(string, string) (*TitleDetails, error) {
			return movieDetails(550, "Fight Club"), nil
		},
	}
	r := newTestResolver(fp, 1)

	ctx, cancel := context.WithCancel(context.Background())
	stub := models.MediaRecord{ID: "7", Title: models.PlaceholderTitle}

	done := make(chan models.MediaRecord, 1)
	go func() { done <- r.Resolve(ctx, "tt0137523", stub) }()

	cancel()
	got := <-done
	if got.Title != models.PlaceholderTitle {
		t.Error("cancelled resolve must return the stub")
	}

	// The queued task keeps running and populates the cache.
	close(release)
	deadline := time.After(2 * time.Second)
	for r.Cache().Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("cache never populated after cancellation")
		case <-time.After(5 * time.Millisecond):
		}
	}

	got = r.Resolve(context.Background(), "tt0137523", stub)
	if got.Title != "Fight Club" {
		t.Errorf("Title = %q, want cached enrichment", got.Title)
	}
}

func TestResolveDuplicateInFlightBothEnrich(t *testing.T) {
	fp := &fakeProvider{
		delay: 10 * time.Millisecond,
		findFn: func(string) (*FindResult, error) {
			return &FindResult{MovieResults: []FindHit{{ID: 550}}}, nil
		},
		detailsFn: func(string, string) (*TitleDetails, error) {
			return movieDetails(550, "Fight Club"), nil
		},
	}
	r := newTestResolver(fp, 4)
	stub := models.MediaRecord{ID: "7", Title: models.PlaceholderTitle}

	// Two visibility events for the same title racing each other. Both must
	// come back enriched; the second network round-trip is tolerated.
	var wg sync.WaitGroup
	results := make([]models.MediaRecord, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Resolve(context.Background(), "tt0137523", stub)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got.Title != "Fight Club" {
			t.Errorf("result %d Title = %q, want enriched", i, got.Title)
		}
	}
	if r.Cache().Len() != 1 {
		t.Errorf("cache Len() = %d, want 1", r.Cache().Len())
	}
}
