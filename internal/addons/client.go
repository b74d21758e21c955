// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

// Package addons installs community catalog addons and ingests their
// catalogs into the media store. The manifest and catalog wire format
// follows the de-facto addon ecosystem convention: a manifest.json
// describing resources plus /catalog/{type}/{id}.json endpoints.
package addons

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/moonflix/moonflix/internal/models"
)

// Client fetches and validates addon manifests and catalogs.
type Client struct {
	httpClient *http.Client
	validate   *validator.Validate
}

// NewClient creates an addon client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// FetchManifest downloads and validates a manifest, deriving the addon base
// URL from the manifest location.
func (c *Client) FetchManifest(ctx context.Context, manifestURL string) (*models.AddonManifest, error) {
	parsed, err := url.Parse(manifestURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("invalid manifest URL %q", manifestURL)
	}

	var manifest models.AddonManifest
	if err := c.getJSON(ctx, manifestURL, &manifest); err != nil {
		return nil, err
	}
	if err := c.validate.Struct(&manifest); err != nil {
		return nil, fmt.Errorf("manifest %s failed validation: %w", manifestURL, err)
	}

	manifest.BaseURL = strings.TrimSuffix(manifestURL, "/manifest.json")
	return &manifest, nil
}

// FetchCatalog downloads one catalog of an installed addon.
func (c *Client) FetchCatalog(ctx context.Context, manifest *models.AddonManifest, ref models.AddonCatalogRef) ([]models.AddonMeta, error) {
	endpoint := fmt.Sprintf("%s/catalog/%s/%s.json",
		manifest.BaseURL, url.PathEscape(ref.Type), url.PathEscape(ref.ID))

	var payload struct {
		Metas []models.AddonMeta `json:"metas"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return payload.Metas, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to build addon request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("addon request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("addon returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode addon response: %w", err)
	}
	return nil
}
