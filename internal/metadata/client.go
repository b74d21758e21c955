// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

/*
client.go - Metadata provider REST client

Implements the TMDB-compatible v3 API surface the catalog pipeline consumes:
find-by-external-id, title details with credits, multi search and external id
lookup. Responses are validated and normalized at this boundary so the rest
of the pipeline only ever sees the parsed types.
*/

package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/moonflix/moonflix/internal/config"
	"github.com/moonflix/moonflix/internal/metrics"
)

// Ensure Client implements Provider.
var _ Provider = (*Client)(nil)

// Client provides access to the metadata provider REST API.
type Client struct {
	baseURL      string
	apiKey       string
	language     string
	posterBase   string
	backdropBase string
	httpClient   *http.Client
	limiter      *rate.Limiter
}

// NewClient creates a metadata provider client from configuration.
func NewClient(cfg config.ProviderConfig) *Client {
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond)+1)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		posterBase:   cfg.PosterBaseURL,
		backdropBase: cfg.BackdropBaseURL,
		httpClient:   &http.Client{Timeout: timeout},
		limiter:      limiter,
	}
}

// Find resolves an IMDB-style external id to provider-native hits.
func (c *Client) Find(ctx context.Context, externalID string) (*FindResult, error) {
	q := url.Values{}
	q.Set("external_source", "imdb_id")

	var result FindResult
	if err := c.doGet(ctx, "find", "/find/"+url.PathEscape(externalID), q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Details fetches full title details including credits for a provider-native
// id. mediaType must be "movie" or "tv".
func (c *Client) Details(ctx context.Context, mediaType, nativeID string) (*TitleDetails, error) {
	if mediaType != MediaTypeMovie && mediaType != MediaTypeTV {
		return nil, fmt.Errorf("invalid media type %q", mediaType)
	}

	q := url.Values{}
	q.Set("append_to_response", "credits")

	var details TitleDetails
	path := "/" + mediaType + "/" + url.PathEscape(nativeID)
	if err := c.doGet(ctx, "details", path, q, &details); err != nil {
		return nil, err
	}
	if details.ID == 0 {
		return nil, fmt.Errorf("details payload for %s/%s is missing an id", mediaType, nativeID)
	}

	details.PosterURL = c.imageURL(c.posterBase, details.PosterPath)
	details.BackdropURL = c.imageURL(c.backdropBase, details.BackdropPath)
	return &details, nil
}

// SearchMulti runs a combined movie+series search. Hits that are neither
// movies nor series (people, collections) are dropped here.
func (c *Client) SearchMulti(ctx context.Context, query string) ([]SearchHit, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", "1")
	q.Set("include_adult", "false")

	var payload struct {
		Results []SearchHit `json:"results"`
	}
	if err := c.doGet(ctx, "search_multi", "/search/multi", q, &payload); err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(payload.Results))
	for _, hit := range payload.Results {
		if hit.MediaType != MediaTypeMovie && hit.MediaType != MediaTypeTV {
			continue
		}
		hit.PosterURL = c.imageURL(c.posterBase, hit.PosterPath)
		hit.BackdropURL = c.imageURL(c.backdropBase, hit.BackdropPath)
		hits = append(hits, hit)
	}
	return hits, nil
}

// ExternalID resolves a provider-native id to its IMDB-style id, trying the
// given media types in order. With no types given, movie then tv.
func (c *Client) ExternalID(ctx context.Context, nativeID int64, mediaTypes ...string) (string, error) {
	if len(mediaTypes) == 0 {
		mediaTypes = []string{MediaTypeMovie, MediaTypeTV}
	}

	var lastErr error
	for _, mt := range mediaTypes {
		var payload struct {
			IMDBID string `json:"imdb_id"`
		}
		path := "/" + mt + "/" + strconv.FormatInt(nativeID, 10) + "/external_ids"
		if err := c.doGet(ctx, "external_ids", path, nil, &payload); err != nil {
			lastErr = err
			continue
		}
		if payload.IMDBID != "" {
			return payload.IMDBID, nil
		}
	}
	return "", lastErr
}

// doGet performs a rate-limited GET against the provider and decodes the
// JSON response body into v.
func (c *Client) doGet(ctx context.Context, endpoint, path string, query url.Values, v any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	start := time.Now()
	err := c.get(ctx, path, query, v)
	metrics.ObserveProviderRequest(endpoint, start, err)
	return err
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	if c.language != "" {
		query.Set("language", c.language)
	}

	reqURL := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512))
		if readErr != nil {
			return fmt.Errorf("provider returned status %d (failed to read body)", resp.StatusCode)
		}
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}

// imageURL joins an image base URL with a provider image path.
func (c *Client) imageURL(base, path string) string {
	if base == "" || path == "" {
		return ""
	}
	return base + path
}
