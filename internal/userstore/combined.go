// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package userstore

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/moonflix/moonflix/internal/logging"
)

// CombinedStore prefers the remote row store and falls back to the local
// store on any remote failure. Writes that fall back land locally only; the
// remote copy catches up the next time the user performs the action while
// the backend is healthy. That looseness matches the stakes: favorites and
// likes, not payments.
type CombinedStore struct {
	remote Store
	local  Store
	logger zerolog.Logger
}

// NewCombinedStore creates the combined store. remote may be nil, in which
// case every operation goes straight to local.
func NewCombinedStore(remote, local Store) *CombinedStore {
	return &CombinedStore{
		remote: remote,
		local:  local,
		logger: logging.With().Str("component", "userstore").Logger(),
	}
}

// AddFavorite implements Store.
func (c *CombinedStore) AddFavorite(ctx context.Context, userID, recordID string) error {
	if c.remote != nil {
		err := c.remote.AddFavorite(ctx, userID, recordID)
		if err == nil {
			return nil
		}
		c.fallback("add_favorite", err)
	}
	return c.local.AddFavorite(ctx, userID, recordID)
}

// RemoveFavorite implements Store.
func (c *CombinedStore) RemoveFavorite(ctx context.Context, userID, recordID string) error {
	if c.remote != nil {
		err := c.remote.RemoveFavorite(ctx, userID, recordID)
		if err == nil {
			return nil
		}
		c.fallback("remove_favorite", err)
	}
	return c.local.RemoveFavorite(ctx, userID, recordID)
}

// Favorites implements Store.
func (c *CombinedStore) Favorites(ctx context.Context, userID string) ([]string, error) {
	if c.remote != nil {
		ids, err := c.remote.Favorites(ctx, userID)
		if err == nil {
			return ids, nil
		}
		c.fallback("favorites", err)
	}
	return c.local.Favorites(ctx, userID)
}

// SetLike implements Store.
func (c *CombinedStore) SetLike(ctx context.Context, userID, recordID string, liked bool) error {
	if c.remote != nil {
		err := c.remote.SetLike(ctx, userID, recordID, liked)
		if err == nil {
			return nil
		}
		c.fallback("set_like", err)
	}
	return c.local.SetLike(ctx, userID, recordID, liked)
}

// Likes implements Store.
func (c *CombinedStore) Likes(ctx context.Context, userID string) (map[string]bool, error) {
	if c.remote != nil {
		votes, err := c.remote.Likes(ctx, userID)
		if err == nil {
			return votes, nil
		}
		c.fallback("likes", err)
	}
	return c.local.Likes(ctx, userID)
}

// Close implements Store.
func (c *CombinedStore) Close() error {
	var firstErr error
	if c.remote != nil {
		firstErr = c.remote.Close()
	}
	if err := c.local.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (c *CombinedStore) fallback(op string, err error) {
	c.logger.Warn().Err(err).Str("op", op).Msg("remote user store failed, using local fallback")
}
