// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package addons

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/moonflix/moonflix/internal/catalog"
	"github.com/moonflix/moonflix/internal/logging"
	"github.com/moonflix/moonflix/internal/models"
)

// playerEmbedBase hosts the web player that resolves IMDB-style ids to a
// playable stream.
const playerEmbedBase = "https://watch.moonflix.app"

// catalogResource is the manifest resource required for ingestion.
const catalogResource = "catalog"

// Ingestor flattens the catalogs of all active addons into the media store.
type Ingestor struct {
	registry *Registry
	client   *Client
	store    *catalog.Store
	logger   zerolog.Logger
}

// NewIngestor creates an ingestor over the registry and store.
func NewIngestor(registry *Registry, client *Client, store *catalog.Store) *Ingestor {
	return &Ingestor{
		registry: registry,
		client:   client,
		store:    store,
		logger:   logging.With().Str("component", "addon-ingest").Logger(),
	}
}

// Run ingests every listable catalog of every active addon. Per-catalog
// failures are logged and skipped. Returns how many records were added.
func (i *Ingestor) Run(ctx context.Context) int {
	active, err := i.registry.Active()
	if err != nil {
		i.logger.Error().Err(err).Msg("failed to list active addons")
		return 0
	}

	added := 0
	for _, entry := range active {
		if !entry.Manifest.HasResource(catalogResource) {
			continue
		}
		for _, ref := range entry.Manifest.Catalogs {
			if RequiresSearch(ref) {
				continue
			}
			category, err := i.ingestCatalog(ctx, &entry.Manifest, ref)
			if err != nil {
				i.logger.Warn().Err(err).
					Str("addon", entry.Manifest.ID).
					Str("catalog", ref.ID).
					Msg("catalog ingestion failed")
				continue
			}
			added += i.store.AppendBatch(category.Records)
		}
	}

	if added > 0 {
		i.logger.Info().Int("added", added).Msg("addon catalogs ingested")
	}
	return added
}

// ingestCatalog fetches one catalog and converts it into a titled category.
func (i *Ingestor) ingestCatalog(ctx context.Context, manifest *models.AddonManifest, ref models.AddonCatalogRef) (models.Category, error) {
	metas, err := i.client.FetchCatalog(ctx, manifest, ref)
	if err != nil {
		return models.Category{}, err
	}

	title := ref.Name
	if title == "" {
		title = manifest.Name
	}
	category := models.Category{
		ID:    manifest.ID + ":" + ref.ID,
		Title: title,
	}
	for _, meta := range metas {
		rec, ok := metaToRecord(manifest.ID, ref.Type, meta)
		if !ok {
			continue
		}
		category.Records = append(category.Records, rec)
	}
	return category, nil
}

// RequiresSearch reports whether a catalog can only be listed with a query
// and therefore cannot be ingested wholesale.
func RequiresSearch(ref models.AddonCatalogRef) bool {
	for _, extra := range ref.Extra {
		if extra.Name == "search" && extra.IsRequired {
			return true
		}
	}
	return false
}

// metaToRecord converts an addon catalog entry to a catalog record. Entries
// without an id or a name are dropped.
func metaToRecord(addonID, catalogType string, meta models.AddonMeta) (models.MediaRecord, bool) {
	if meta.ID == "" || meta.Name == "" {
		return models.MediaRecord{}, false
	}

	kind := kindFor(meta.Type, catalogType)

	rec := models.MediaRecord{
		ID:          addonID + ":" + meta.ID,
		Title:       meta.Name,
		Description: meta.Description,
		ImageURL:    meta.Poster,
		Rating:      meta.IMDBRating,
		Year:        yearFromReleaseInfo(meta.ReleaseInfo),
		Duration:    meta.Runtime,
		Genres:      meta.Genres,
		Kind:        kind,
		Source:      addonID,
	}
	if len(meta.Genres) > 0 {
		rec.Genre = meta.Genres[0]
	}

	if strings.HasPrefix(meta.ID, "tt") {
		rec.ExternalID = meta.ID
		rec.VideoURL = playerURL(meta.ID, kind)
	} else {
		// Non-IMDB ids stay addressable through the addon protocol.
		rec.VideoURL = "stremio://detail/" + catalogType + "/" + meta.ID
	}
	return rec, true
}

// playerURL builds the embed player URL for an IMDB-style id.
func playerURL(imdbID string, kind models.MediaKind) string {
	if kind.TVLike() {
		return playerEmbedBase + "/serie/" + imdbID
	}
	return playerEmbedBase + "/filme/" + imdbID
}

// kindFor maps addon type labels to catalog kinds, preferring the entry's
// own type over the catalog's.
func kindFor(metaType, catalogType string) models.MediaKind {
	t := metaType
	if t == "" {
		t = catalogType
	}
	switch t {
	case "series", "tv":
		return models.KindSeries
	case "anime":
		return models.KindAnime
	default:
		return models.KindMovie
	}
}

// yearFromReleaseInfo parses the leading year of a release info label like
// "2019" or "2019-2022".
func yearFromReleaseInfo(info string) int {
	if len(info) < 4 {
		return 0
	}
	year, err := strconv.Atoi(info[:4])
	if err != nil {
		return 0
	}
	return year
}
