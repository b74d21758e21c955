// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package catalog

import (
	"sync"

	"github.com/moonflix/moonflix/internal/metrics"
	"github.com/moonflix/moonflix/internal/models"
)

// Store is the in-memory session catalog. It preserves insertion order (the
// seed batch order drives the home feed) and supports in-place replacement
// of individual records as enrichment results land.
type Store struct {
	mu      sync.RWMutex
	records []models.MediaRecord
	index   map[string]int
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// LoadInitial replaces the whole catalog with the given records. Used once
// at startup for the first seed batch.
func (s *Store) LoadInitial(records []models.MediaRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]models.MediaRecord, 0, len(records))
	s.index = make(map[string]int, len(records))
	s.appendLocked(records)
	metrics.CatalogSize.Set(float64(len(s.records)))
}

// AppendBatch appends records to the catalog, preserving order. Records
// whose id is already present are skipped so staged batches and addon
// catalogs cannot introduce duplicates.
func (s *Store) AppendBatch(records []models.MediaRecord) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.records)
	s.appendLocked(records)
	metrics.CatalogSize.Set(float64(len(s.records)))
	return len(s.records) - before
}

func (s *Store) appendLocked(records []models.MediaRecord) {
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		if _, exists := s.index[rec.ID]; exists {
			continue
		}
		s.index[rec.ID] = len(s.records)
		s.records = append(s.records, rec)
	}
}

// ApplyEnrichment replaces the stored record with the enriched version,
// matched by id and keeping the record's position. Returns false when the
// id is not in the catalog.
func (s *Store) ApplyEnrichment(rec models.MediaRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[rec.ID]
	if !ok {
		return false
	}
	s.records[pos] = rec
	return true
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (models.MediaRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return models.MediaRecord{}, false
	}
	return s.records[pos], true
}

// Snapshot returns a copy of the catalog in insertion order. Callers may
// slice and filter the result freely.
func (s *Store) Snapshot() []models.MediaRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MediaRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records in the catalog.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
