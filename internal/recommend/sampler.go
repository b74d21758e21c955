// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

// Package recommend assembles the related-titles shelf for a detail view by
// sampling the in-memory catalog.
package recommend

import (
	"math/rand"
	"sync"
	"time"

	"github.com/moonflix/moonflix/internal/catalog"
	"github.com/moonflix/moonflix/internal/models"
)

const (
	// sampleSize is how many genre-related titles one shelf shows.
	sampleSize = 12

	// minResults is the threshold below which the shelf is padded from the
	// general catalog.
	minResults = 5

	// fallbackTarget is the padded shelf size.
	fallbackTarget = 10
)

// Sampler draws random related titles for a subject record. Candidates
// share at least one genre with the subject; when the genre pool is too
// thin, the shelf is topped up from the whole catalog so it never renders
// nearly empty.
type Sampler struct {
	store *catalog.Store

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler creates a sampler over the catalog store. A non-zero seed
// makes the sampling deterministic, for tests.
func NewSampler(store *catalog.Store, seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{
		store: store,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Related samples the shelf for a subject record. The subject itself and
// stub records never appear.
func (s *Sampler) Related(subject models.MediaRecord) []models.MediaRecord {
	snapshot := s.store.Snapshot()
	subjectGenres := subject.GenreList()

	var candidates []models.MediaRecord
	for _, rec := range snapshot {
		if rec.ID == subject.ID || rec.IsStub() {
			continue
		}
		if rec.SharesGenre(subjectGenres) {
			candidates = append(candidates, rec)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > sampleSize {
		candidates = candidates[:sampleSize]
	}

	if len(candidates) >= minResults {
		return candidates
	}
	return s.padLocked(candidates, subject.ID, snapshot)
}

// padLocked tops a thin shelf up to fallbackTarget from the shuffled
// catalog, skipping ids already picked. Caller holds s.mu.
func (s *Sampler) padLocked(picked []models.MediaRecord, subjectID string, snapshot []models.MediaRecord) []models.MediaRecord {
	taken := make(map[string]struct{}, len(picked)+1)
	taken[subjectID] = struct{}{}
	for _, rec := range picked {
		taken[rec.ID] = struct{}{}
	}

	pool := make([]models.MediaRecord, 0, len(snapshot))
	for _, rec := range snapshot {
		if rec.IsStub() {
			continue
		}
		if _, dup := taken[rec.ID]; dup {
			continue
		}
		pool = append(pool, rec)
	}
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	for _, rec := range pool {
		if len(picked) >= fallbackTarget {
			break
		}
		picked = append(picked, rec)
	}
	return picked
}
