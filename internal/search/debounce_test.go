// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package search

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestDebouncer(delay time.Duration) *Debouncer {
	return NewDebouncer(newTestMatcher(testStore(), nil), delay)
}

func TestDebouncerDeliversFinalQuery(t *testing.T) {
	d := newTestDebouncer(20 * time.Millisecond)
	ctx := context.Background()

	type outcome struct {
		ids []string
		err error
	}
	firstDone := make(chan outcome, 1)
	go func() {
		results, err := d.Search(ctx, "pokemon")
		firstDone <- outcome{ids(results), err}
	}()

	// Give the first query time to enter its debounce wait, then supersede
	// it the way a user typing the next character would.
	time.Sleep(5 * time.Millisecond)
	results, err := d.Search(ctx, "matrix")
	if err != nil {
		t.Fatalf("final query failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "2" {
		t.Errorf("final query results = %v, want record 2", ids(results))
	}

	select {
	case out := <-firstDone:
		if !errors.Is(out.err, ErrSuperseded) {
			t.Errorf("first query returned (%v, %v), want ErrSuperseded", out.ids, out.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first query never returned")
	}
}

func TestDebouncerZeroDelayStillSearches(t *testing.T) {
	d := newTestDebouncer(0)

	results, err := d.Search(context.Background(), "matrix")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "2" {
		t.Errorf("results = %v, want record 2", ids(results))
	}
}

func TestDebouncerReturnsContextError(t *testing.T) {
	d := newTestDebouncer(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := d.Search(ctx, "matrix")
		done <- err
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Search did not return after cancel")
	}
}
