// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package metadata

import (
	"sync"

	"github.com/moonflix/moonflix/internal/metrics"
)

// PatchCache memoizes resolved metadata patches keyed by external id so the
// same enrichment network call never repeats within a session.
//
// A negative lookup (external id unknown to the provider) is stored as an
// empty patch so it is not retried. There is deliberately no TTL and no
// eviction: entries live for the process lifetime and the distinct-id space
// is bounded by the catalog size.
type PatchCache struct {
	mu      sync.RWMutex
	entries map[string]Patch
}

// NewPatchCache creates an empty patch cache.
func NewPatchCache() *PatchCache {
	return &PatchCache{entries: make(map[string]Patch)}
}

// Get returns the cached patch for an external id.
func (c *PatchCache) Get(externalID string) (Patch, bool) {
	c.mu.RLock()
	patch, ok := c.entries[externalID]
	c.mu.RUnlock()

	if ok {
		metrics.MetadataCacheHits.Inc()
	} else {
		metrics.MetadataCacheMisses.Inc()
	}
	return patch, ok
}

// Set stores the patch for an external id. Storing the zero Patch marks the
// id as "not found" and suppresses further lookups.
func (c *PatchCache) Set(externalID string, patch Patch) {
	if externalID == "" {
		return
	}
	c.mu.Lock()
	c.entries[externalID] = patch
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *PatchCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
