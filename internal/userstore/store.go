// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

// Package userstore persists per-user catalog state (favorites and likes).
// The primary backend is a hosted PostgREST-style row store; a local badger
// database serves as the fallback when the remote store is unreachable or
// not configured.
package userstore

import "context"

// Store is the per-user state contract shared by the remote, local and
// combined implementations.
type Store interface {
	// AddFavorite records a favorite. Adding an existing favorite is a
	// no-op, not an error.
	AddFavorite(ctx context.Context, userID, recordID string) error

	// RemoveFavorite deletes a favorite. Removing an absent favorite is a
	// no-op, not an error.
	RemoveFavorite(ctx context.Context, userID, recordID string) error

	// Favorites lists the user's favorite record ids in no guaranteed
	// order.
	Favorites(ctx context.Context, userID string) ([]string, error)

	// SetLike stores the like/dislike flag for a record. Both states are
	// explicit; absence means the user never voted.
	SetLike(ctx context.Context, userID, recordID string, liked bool) error

	// Likes returns the user's votes keyed by record id.
	Likes(ctx context.Context, userID string) (map[string]bool, error)

	// Close releases backend resources.
	Close() error
}
