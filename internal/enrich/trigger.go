// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

// Package enrich connects card visibility events to the metadata resolver.
// Each card instance triggers at most one enrichment; the patch cache below
// the resolver keeps repeat triggers for the same title cheap.
package enrich

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/moonflix/moonflix/internal/catalog"
	"github.com/moonflix/moonflix/internal/logging"
)

// notifyBuffer bounds pending visibility events. A full buffer drops the
// event; the card will simply render seed data until it scrolls into view
// again under lighter load.
const notifyBuffer = 256

type request struct {
	cardID   string
	recordID string
}

// Trigger is the lazy enrichment pump. Visibility notifications are
// deduplicated per card instance, queued, and processed by the supervised
// Serve loop: resolve the record, write the enriched version back to the
// catalog.
type Trigger struct {
	store    *catalog.Store
	enricher catalog.Enricher
	logger   zerolog.Logger

	mu    sync.Mutex
	fired map[string]struct{}

	queue chan request
}

// NewTrigger creates a trigger over the given store and enricher.
func NewTrigger(store *catalog.Store, enricher catalog.Enricher) *Trigger {
	return &Trigger{
		store:    store,
		enricher: enricher,
		logger:   logging.With().Str("component", "enrich-trigger").Logger(),
		fired:    make(map[string]struct{}),
		queue:    make(chan request, notifyBuffer),
	}
}

// String implements fmt.Stringer for supervisor logs.
func (t *Trigger) String() string {
	return "enrich-trigger"
}

// Notify registers that a card instance became visible. The first call per
// card id queues an enrichment; later calls are no-ops. Returns whether the
// event was queued.
func (t *Trigger) Notify(cardID, recordID string) bool {
	if cardID == "" || recordID == "" {
		return false
	}

	t.mu.Lock()
	if _, done := t.fired[cardID]; done {
		t.mu.Unlock()
		return false
	}
	t.fired[cardID] = struct{}{}
	t.mu.Unlock()

	select {
	case t.queue <- request{cardID: cardID, recordID: recordID}:
		return true
	default:
		// Shed load rather than block the notifier. Un-mark the card so a
		// later visibility event can retry.
		t.mu.Lock()
		delete(t.fired, cardID)
		t.mu.Unlock()
		t.logger.Warn().Str("record_id", recordID).Msg("enrichment event dropped, buffer full")
		return false
	}
}

// Forget releases a card instance id, typically when the card leaves the
// view for good. A new instance with the same id may notify again.
func (t *Trigger) Forget(cardID string) {
	t.mu.Lock()
	delete(t.fired, cardID)
	t.mu.Unlock()
}

// Serve implements suture.Service, draining the notification queue until
// the context ends. Each event is processed in its own goroutine: Resolve
// blocks until the queued fetch completes, and the bounded queue below the
// resolver is what caps provider concurrency, not this loop.
func (t *Trigger) Serve(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-t.queue:
			wg.Add(1)
			go func() {
				defer wg.Done()
				t.process(ctx, req)
			}()
		}
	}
}

func (t *Trigger) process(ctx context.Context, req request) {
	rec, ok := t.store.Get(req.recordID)
	if !ok {
		return
	}
	if !rec.IsStub() {
		return
	}

	enriched := t.enricher.Resolve(ctx, rec.ExternalID, rec)
	if t.store.ApplyEnrichment(enriched) {
		t.logger.Debug().Str("record_id", req.recordID).Msg("record enriched")
	}
}
