// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package metadata

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/moonflix/moonflix/internal/logging"
	"github.com/moonflix/moonflix/internal/metrics"
)

const (
	// breakerInterval resets counts after this long in the closed state.
	breakerInterval = time.Minute

	// breakerTimeout is how long the circuit stays open before half-open.
	breakerTimeout = 2 * time.Minute
)

// Ensure BreakerClient implements Provider.
var _ Provider = (*BreakerClient)(nil)

// BreakerClient wraps a Provider with a circuit breaker so a degraded
// metadata backend fails fast instead of tying up queue slots on timeouts.
// An open circuit surfaces as an ordinary provider error, which the resolver
// already degrades to "use existing data".
type BreakerClient struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker[any]
	name  string
}

// NewBreakerClient creates a circuit-breaker wrapper around the given
// provider. Configuration:
//   - max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - opens at >= 60% failure rate with minimum 10 requests
func NewBreakerClient(inner Provider) *BreakerClient {
	const cbName = "metadata-provider"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[circuit breaker] opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("[circuit breaker] state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &BreakerClient{inner: inner, cb: cb, name: cbName}
}

// Find implements Provider.
func (b *BreakerClient) Find(ctx context.Context, externalID string) (*FindResult, error) {
	return execute(b, func() (*FindResult, error) {
		return b.inner.Find(ctx, externalID)
	})
}

// Details implements Provider.
func (b *BreakerClient) Details(ctx context.Context, mediaType, nativeID string) (*TitleDetails, error) {
	return execute(b, func() (*TitleDetails, error) {
		return b.inner.Details(ctx, mediaType, nativeID)
	})
}

// SearchMulti implements Provider.
func (b *BreakerClient) SearchMulti(ctx context.Context, query string) ([]SearchHit, error) {
	return execute(b, func() ([]SearchHit, error) {
		return b.inner.SearchMulti(ctx, query)
	})
}

// ExternalID implements Provider.
func (b *BreakerClient) ExternalID(ctx context.Context, nativeID int64, mediaTypes ...string) (string, error) {
	return execute(b, func() (string, error) {
		return b.inner.ExternalID(ctx, nativeID, mediaTypes...)
	})
}

// execute routes a typed call through the breaker.
func execute[T any](b *BreakerClient, fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
