// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/moonflix/moonflix/internal/addons"
	"github.com/moonflix/moonflix/internal/catalog"
	"github.com/moonflix/moonflix/internal/enrich"
	"github.com/moonflix/moonflix/internal/logging"
	"github.com/moonflix/moonflix/internal/models"
	"github.com/moonflix/moonflix/internal/recommend"
	"github.com/moonflix/moonflix/internal/search"
	"github.com/moonflix/moonflix/internal/userstore"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// Handler carries the service dependencies for all HTTP endpoints. Optional
// dependencies (addons, user store) may be nil; their endpoints then return
// 404s via the router not mounting them.
type Handler struct {
	store    *catalog.Store
	feed     *catalog.FeedBuilder
	searcher *search.Debouncer
	trigger  *enrich.Trigger
	sampler  *recommend.Sampler
	users    userstore.Store
	registry *addons.Registry
	ingestor *addons.Ingestor
	logger   zerolog.Logger
}

// NewHandler creates the handler set.
func NewHandler(
	store *catalog.Store,
	feed *catalog.FeedBuilder,
	searcher *search.Debouncer,
	trigger *enrich.Trigger,
	sampler *recommend.Sampler,
	users userstore.Store,
	registry *addons.Registry,
	ingestor *addons.Ingestor,
) *Handler {
	return &Handler{
		store:    store,
		feed:     feed,
		searcher: searcher,
		trigger:  trigger,
		sampler:  sampler,
		users:    users,
		registry: registry,
		ingestor: ingestor,
		logger:   logging.With().Str("component", "api").Logger(),
	}
}

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]string{"status": "alive"})
}

// HealthReady reports readiness: the catalog must have records to serve.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.store.Len() == 0 {
		NewResponseWriter(w, r).Error(http.StatusServiceUnavailable, "NOT_READY", "catalog is empty")
		return
	}
	WriteSuccess(w, r, map[string]any{
		"status":       "ready",
		"catalog_size": h.store.Len(),
	})
}

// Home serves the assembled home feed.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.feed.Build(r.Context()))
}

// Catalog lists catalog records with offset/limit pagination.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := pageParams(r)
	if err != nil {
		WriteBadRequest(w, r, err.Error())
		return
	}

	snapshot := h.store.Snapshot()
	total := len(snapshot)

	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := snapshot[offset:end]

	NewResponseWriter(w, r).SuccessWithPagination(page, &PaginationMeta{
		Total:   total,
		Count:   len(page),
		Offset:  offset,
		Limit:   limit,
		HasMore: end < total,
	})
}

// CatalogDetails serves one record plus its related-titles shelf.
func (h *Handler) CatalogDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := h.store.Get(id)
	if !ok {
		WriteNotFound(w, r, "record not found")
		return
	}

	WriteSuccess(w, r, map[string]any{
		"record":  rec,
		"related": h.sampler.Related(rec),
	})
}

type visibleRequest struct {
	CardID   string `json:"cardId"`
	RecordID string `json:"recordId"`
}

// CatalogVisible accepts a card visibility event and queues lazy
// enrichment for the record.
func (h *Handler) CatalogVisible(w http.ResponseWriter, r *http.Request) {
	var req visibleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, r, "invalid request body")
		return
	}
	if req.CardID == "" || req.RecordID == "" {
		WriteBadRequest(w, r, "cardId and recordId are required")
		return
	}

	queued := h.trigger.Notify(req.CardID, req.RecordID)
	WriteSuccess(w, r, map[string]bool{"queued": queued})
}

// Search runs the debounced hybrid search for the q parameter. Superseded
// queries answer 200 with superseded=true so typing clients can simply
// ignore the stale response.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		WriteBadRequest(w, r, "q parameter is required")
		return
	}

	results, err := h.searcher.Search(r.Context(), query)
	if errors.Is(err, search.ErrSuperseded) {
		WriteSuccess(w, r, map[string]any{"superseded": true, "results": []models.MediaRecord{}})
		return
	}
	if err != nil {
		NewResponseWriter(w, r).InternalError("search failed")
		return
	}
	if results == nil {
		results = []models.MediaRecord{}
	}
	WriteSuccess(w, r, map[string]any{"superseded": false, "results": results})
}

// Favorites lists the user's favorite records, hydrated from the catalog
// when present.
func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	ids, err := h.users.Favorites(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("favorites lookup failed")
		NewResponseWriter(w, r).InternalError("failed to load favorites")
		return
	}

	records := make([]models.MediaRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := h.store.Get(id); ok {
			records = append(records, rec)
		} else {
			records = append(records, models.MediaRecord{ID: id})
		}
	}
	WriteSuccess(w, r, records)
}

// AddFavorite stores one favorite.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	recordID := chi.URLParam(r, "recordID")

	if err := h.users.AddFavorite(r.Context(), userID, recordID); err != nil {
		h.logger.Error().Err(err).Msg("add favorite failed")
		NewResponseWriter(w, r).InternalError("failed to store favorite")
		return
	}
	NewResponseWriter(w, r).Created(map[string]string{"recordId": recordID})
}

// RemoveFavorite deletes one favorite.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	recordID := chi.URLParam(r, "recordID")

	if err := h.users.RemoveFavorite(r.Context(), userID, recordID); err != nil {
		h.logger.Error().Err(err).Msg("remove favorite failed")
		NewResponseWriter(w, r).InternalError("failed to remove favorite")
		return
	}
	NewResponseWriter(w, r).NoContent()
}

type likeRequest struct {
	Liked bool `json:"liked"`
}

// SetLike stores a like/dislike vote.
func (h *Handler) SetLike(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	recordID := chi.URLParam(r, "recordID")

	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, r, "invalid request body")
		return
	}

	if err := h.users.SetLike(r.Context(), userID, recordID, req.Liked); err != nil {
		h.logger.Error().Err(err).Msg("set like failed")
		NewResponseWriter(w, r).InternalError("failed to store vote")
		return
	}
	WriteSuccess(w, r, map[string]bool{"liked": req.Liked})
}

// Likes returns the user's votes.
func (h *Handler) Likes(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	votes, err := h.users.Likes(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("likes lookup failed")
		NewResponseWriter(w, r).InternalError("failed to load votes")
		return
	}
	WriteSuccess(w, r, votes)
}

// Addons lists installed addons.
func (h *Handler) Addons(w http.ResponseWriter, r *http.Request) {
	entries, err := h.registry.List()
	if err != nil {
		NewResponseWriter(w, r).InternalError("failed to list addons")
		return
	}
	if entries == nil {
		entries = []models.InstalledAddon{}
	}
	WriteSuccess(w, r, entries)
}

type installRequest struct {
	ManifestURL string `json:"manifestUrl"`
}

// InstallAddon installs an addon from a manifest URL and ingests its
// catalogs immediately.
func (h *Handler) InstallAddon(w http.ResponseWriter, r *http.Request) {
	var req installRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ManifestURL == "" {
		WriteBadRequest(w, r, "manifestUrl is required")
		return
	}

	entry, err := h.registry.Install(r.Context(), req.ManifestURL)
	if err != nil {
		h.logger.Warn().Err(err).Str("manifest_url", req.ManifestURL).Msg("addon install failed")
		NewResponseWriter(w, r).ExternalServiceError("addon", err)
		return
	}

	added := h.ingestor.Run(r.Context())
	NewResponseWriter(w, r).Created(map[string]any{
		"addon":         entry,
		"records_added": added,
	})
}

// RemoveAddon uninstalls an addon. Its already-ingested records stay for
// the session; they vanish on restart.
func (h *Handler) RemoveAddon(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.registry.Remove(id); err != nil {
		if errors.Is(err, addons.ErrNotInstalled) {
			WriteNotFound(w, r, "addon not installed")
			return
		}
		NewResponseWriter(w, r).InternalError("failed to remove addon")
		return
	}
	NewResponseWriter(w, r).NoContent()
}

type activeRequest struct {
	Active bool `json:"active"`
}

// SetAddonActive toggles ingestion for an addon.
func (h *Handler) SetAddonActive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req activeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, r, "invalid request body")
		return
	}

	if err := h.registry.SetActive(id, req.Active); err != nil {
		if errors.Is(err, addons.ErrNotInstalled) {
			WriteNotFound(w, r, "addon not installed")
			return
		}
		NewResponseWriter(w, r).InternalError("failed to update addon")
		return
	}
	WriteSuccess(w, r, map[string]bool{"active": req.Active})
}

// pageParams parses offset/limit query parameters with defaults.
func pageParams(r *http.Request) (offset, limit int, err error) {
	limit = defaultPageLimit
	q := r.URL.Query()

	if raw := q.Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, errors.New("offset must be a non-negative integer")
		}
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return 0, 0, errors.New("limit must be a positive integer")
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return offset, limit, nil
}
