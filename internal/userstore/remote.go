// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package userstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/moonflix/moonflix/internal/config"
)

// Table names on the hosted row store.
const (
	favoritesTable = "favorites"
	likesTable     = "likes"
)

// RemoteStore talks to a PostgREST-compatible row store over its REST
// filter syntax (column=eq.value).
type RemoteStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRemoteStore creates a remote store client from configuration.
func NewRemoteStore(cfg config.UserStoreConfig) *RemoteStore {
	return &RemoteStore{
		baseURL:    cfg.RemoteURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type favoriteRow struct {
	UserID   string `json:"user_id"`
	RecordID string `json:"record_id"`
}

type likeRow struct {
	UserID   string `json:"user_id"`
	RecordID string `json:"record_id"`
	Liked    bool   `json:"liked"`
}

// AddFavorite implements Store.
func (r *RemoteStore) AddFavorite(ctx context.Context, userID, recordID string) error {
	row := favoriteRow{UserID: userID, RecordID: recordID}
	return r.upsert(ctx, favoritesTable, row)
}

// RemoveFavorite implements Store.
func (r *RemoteStore) RemoveFavorite(ctx context.Context, userID, recordID string) error {
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	q.Set("record_id", "eq."+recordID)
	return r.do(ctx, http.MethodDelete, favoritesTable, q, nil, nil)
}

// Favorites implements Store.
func (r *RemoteStore) Favorites(ctx context.Context, userID string) ([]string, error) {
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	q.Set("select", "record_id")

	var rows []favoriteRow
	if err := r.do(ctx, http.MethodGet, favoritesTable, q, nil, &rows); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.RecordID)
	}
	return ids, nil
}

// SetLike implements Store.
func (r *RemoteStore) SetLike(ctx context.Context, userID, recordID string, liked bool) error {
	row := likeRow{UserID: userID, RecordID: recordID, Liked: liked}
	return r.upsert(ctx, likesTable, row)
}

// Likes implements Store.
func (r *RemoteStore) Likes(ctx context.Context, userID string) (map[string]bool, error) {
	q := url.Values{}
	q.Set("user_id", "eq."+userID)

	var rows []likeRow
	if err := r.do(ctx, http.MethodGet, likesTable, q, nil, &rows); err != nil {
		return nil, err
	}

	votes := make(map[string]bool, len(rows))
	for _, row := range rows {
		votes[row.RecordID] = row.Liked
	}
	return votes, nil
}

// Close implements Store.
func (r *RemoteStore) Close() error {
	return nil
}

// upsert POSTs a row with merge-duplicates resolution so repeated writes of
// the same key are idempotent.
func (r *RemoteStore) upsert(ctx context.Context, table string, row any) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to encode %s row: %w", table, err)
	}
	return r.do(ctx, http.MethodPost, table, nil, body, nil)
}

func (r *RemoteStore) do(ctx context.Context, method, table string, query url.Values, body []byte, out any) error {
	reqURL := r.baseURL + "/" + table
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build row store request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.apiKey != "" {
		req.Header.Set("apikey", r.apiKey)
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "resolution=merge-duplicates")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("row store request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("row store returned status %d: %s", resp.StatusCode, string(msg))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode row store response: %w", err)
		}
	}
	return nil
}
