// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/moonflix/moonflix/internal/metrics"
	"github.com/moonflix/moonflix/internal/models"
)

// ErrSuperseded is returned when a newer query arrived before this one
// finished; its results must be discarded.
var ErrSuperseded = errors.New("search superseded by a newer query")

// Debouncer serializes rapid-fire queries from a typing user: each call
// waits out the debounce window and is cancelled the moment a newer query
// arrives, so only the final query of a burst hits the provider and only
// its results are ever delivered.
type Debouncer struct {
	matcher *Matcher
	delay   time.Duration

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewDebouncer wraps a matcher with the given debounce window. A
// non-positive delay disables the wait but supersession still applies.
func NewDebouncer(matcher *Matcher, delay time.Duration) *Debouncer {
	return &Debouncer{matcher: matcher, delay: delay}
}

// Search runs a debounced hybrid search. It returns ErrSuperseded when a
// newer call arrived first, or the context error when ctx ended.
func (d *Debouncer) Search(ctx context.Context, query string) ([]models.MediaRecord, error) {
	d.mu.Lock()
	d.gen++
	myGen := d.gen
	if d.cancel != nil {
		d.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()

	if d.delay > 0 {
		timer := time.NewTimer(d.delay)
		defer timer.Stop()
		select {
		case <-runCtx.Done():
			return nil, d.doneErr(ctx)
		case <-timer.C:
		}
	}

	results := d.matcher.Search(runCtx, query)

	d.mu.Lock()
	current := d.gen == myGen
	d.mu.Unlock()
	if !current {
		metrics.SearchQueriesTotal.WithLabelValues("superseded").Inc()
		return nil, ErrSuperseded
	}
	if err := runCtx.Err(); err != nil {
		return nil, d.doneErr(ctx)
	}
	return results, nil
}

// doneErr distinguishes "the caller went away" from "a newer query won".
func (d *Debouncer) doneErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	metrics.SearchQueriesTotal.WithLabelValues("superseded").Inc()
	return ErrSuperseded
}
