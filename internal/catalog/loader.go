// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package catalog

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/moonflix/moonflix/internal/config"
	"github.com/moonflix/moonflix/internal/logging"
	"github.com/moonflix/moonflix/internal/models"
)

// StagedLoader populates the catalog in stages: films immediately, series
// after a short delay, then animes and cartoons. The stages keep the first
// feed render fast while the long tail of the catalog streams in behind it.
//
// It runs as a one-shot supervised service. A batch that fails to load is
// logged and skipped; the service never takes the process down over a bad
// seed file.
type StagedLoader struct {
	store  *Store
	cfg    config.CatalogConfig
	logger zerolog.Logger
}

// NewStagedLoader creates a staged loader for the given store.
func NewStagedLoader(store *Store, cfg config.CatalogConfig) *StagedLoader {
	return &StagedLoader{
		store:  store,
		cfg:    cfg,
		logger: logging.With().Str("component", "staged-loader").Logger(),
	}
}

// String implements fmt.Stringer for supervisor logs.
func (l *StagedLoader) String() string {
	return "catalog-staged-loader"
}

// Serve implements suture.Service. It loads all stages once and then asks
// the supervisor not to restart it.
func (l *StagedLoader) Serve(ctx context.Context) error {
	l.loadInitial()

	if err := l.sleep(ctx, l.cfg.SeriesDelay); err != nil {
		return err
	}
	l.appendBatch(SeedSeries, models.KindSeries)

	if err := l.sleep(ctx, l.cfg.ExtrasDelay); err != nil {
		return err
	}
	l.appendBatch(SeedAnimes, models.KindAnime)
	l.appendBatch(SeedCartoons, models.KindCartoon)

	l.logger.Info().Int("catalog_size", l.store.Len()).Msg("staged catalog load complete")
	return suture.ErrDoNotRestart
}

func (l *StagedLoader) loadInitial() {
	records, err := ReadSeedBatch(filepath.Join(l.cfg.SeedDir, SeedMovies), models.KindMovie)
	if err != nil {
		l.logger.Error().Err(err).Msg("initial seed batch failed to load")
		return
	}
	l.store.LoadInitial(records)
	l.logger.Info().Int("records", len(records)).Msg("initial seed batch loaded")
}

func (l *StagedLoader) appendBatch(file string, kind models.MediaKind) {
	records, err := ReadSeedBatch(filepath.Join(l.cfg.SeedDir, file), kind)
	if err != nil {
		l.logger.Error().Err(err).Str("batch", file).Msg("seed batch failed to load")
		return
	}
	added := l.store.AppendBatch(records)
	l.logger.Info().Str("batch", file).Int("added", added).Msg("seed batch appended")
}

func (l *StagedLoader) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
