// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

// Command server runs the MoonFlix catalog service: staged seed loading,
// lazy metadata enrichment, hybrid search and the HTTP API, all under one
// supervisor tree.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/thejerf/suture/v4"

	"github.com/moonflix/moonflix/internal/addons"
	"github.com/moonflix/moonflix/internal/api"
	"github.com/moonflix/moonflix/internal/catalog"
	"github.com/moonflix/moonflix/internal/config"
	"github.com/moonflix/moonflix/internal/enrich"
	"github.com/moonflix/moonflix/internal/logging"
	"github.com/moonflix/moonflix/internal/metadata"
	"github.com/moonflix/moonflix/internal/queue"
	"github.com/moonflix/moonflix/internal/recommend"
	"github.com/moonflix/moonflix/internal/search"
	"github.com/moonflix/moonflix/internal/supervisor"
	"github.com/moonflix/moonflix/internal/userstore"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Int("port", cfg.Server.Port).
		Str("seed_dir", cfg.Catalog.SeedDir).
		Msg("starting moonflix")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catalog and enrichment pipeline.
	store := catalog.NewStore()

	var provider metadata.Provider = metadata.NewClient(cfg.Provider)
	if cfg.Provider.BreakerEnabled {
		provider = metadata.NewBreakerClient(provider)
	}
	resolver := metadata.NewResolver(provider, metadata.NewPatchCache(), queue.New(cfg.Provider.MaxConcurrency))

	loader := catalog.NewStagedLoader(store, cfg.Catalog)
	trigger := enrich.NewTrigger(store, resolver)
	feed := catalog.NewFeedBuilder(store, resolver)
	sampler := recommend.NewSampler(store, 0)
	searcher := search.NewDebouncer(search.NewMatcher(store, provider, cfg.Search), cfg.Search.Debounce)

	// Per-user state: hosted row store when configured, local fallback
	// always.
	local, err := userstore.OpenLocalStore(cfg.UserStore.FallbackPath)
	if err != nil {
		return err
	}
	defer func() { _ = local.Close() }()

	var remote userstore.Store
	if cfg.UserStore.RemoteURL != "" {
		remote = userstore.NewRemoteStore(cfg.UserStore)
	}
	users := userstore.NewCombinedStore(remote, local)

	// Addon registry and ingestion.
	addonClient := addons.NewClient(cfg.Addons.Timeout)
	registry, err := addons.OpenRegistry(cfg.Addons.RegistryPath, addonClient)
	if err != nil {
		return err
	}
	defer func() { _ = registry.Close() }()
	ingestor := addons.NewIngestor(registry, addonClient, store)

	// HTTP surface.
	handler := api.NewHandler(store, feed, searcher, trigger, sampler, users, registry, ingestor)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler, cfg.Server).Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	// Supervisor tree: catalog loading, enrichment and the API as
	// separately supervised layers.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddCatalogService(loader)
	tree.AddCatalogService(&addonBootstrap{registry: registry, ingestor: ingestor, cfg: cfg.Addons})
	tree.AddEnrichmentService(trigger)
	tree.AddAPIService(supervisor.NewHTTPService(server, "http-server"))

	err = tree.Serve(ctx)
	if err != nil && ctx.Err() != nil {
		// Normal signal-driven shutdown.
		logging.Info().Msg("shutdown complete")
		return nil
	}
	return err
}

// addonBootstrap installs the configured default addons and runs one
// ingestion pass, then retires.
type addonBootstrap struct {
	registry *addons.Registry
	ingestor *addons.Ingestor
	cfg      config.AddonsConfig
}

func (b *addonBootstrap) String() string {
	return "addon-bootstrap"
}

func (b *addonBootstrap) Serve(ctx context.Context) error {
	b.registry.EnsureDefaults(ctx, b.cfg.DefaultManifests)
	b.ingestor.Run(ctx)
	return suture.ErrDoNotRestart
}
