// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package addons

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/moonflix/moonflix/internal/logging"
	"github.com/moonflix/moonflix/internal/models"
)

// ErrNotInstalled is returned for operations on an unknown addon id.
var ErrNotInstalled = errors.New("addon not installed")

var keyPrefix = []byte("addon/")

func addonKey(id string) []byte {
	return []byte("addon/" + id)
}

// Registry persists installed addons in an embedded badger database so
// installs survive restarts.
type Registry struct {
	db     *badger.DB
	client *Client
	logger zerolog.Logger
}

// OpenRegistry opens (or creates) the registry at path. An empty path opens
// an in-memory registry.
func OpenRegistry(path string, client *Client) (*Registry, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open addon registry at %q: %w", path, err)
	}
	return &Registry{
		db:     db,
		client: client,
		logger: logging.With().Str("component", "addon-registry").Logger(),
	}, nil
}

// Install fetches, validates and stores the addon behind a manifest URL.
// Reinstalling an addon id replaces the stored entry (a version upgrade).
func (r *Registry) Install(ctx context.Context, manifestURL string) (*models.InstalledAddon, error) {
	manifest, err := r.client.FetchManifest(ctx, manifestURL)
	if err != nil {
		return nil, err
	}

	entry := models.InstalledAddon{
		Manifest:    *manifest,
		ManifestURL: manifestURL,
		Active:      true,
		InstalledAt: time.Now().UnixMilli(),
	}
	if err := r.put(&entry); err != nil {
		return nil, err
	}

	r.logger.Info().Str("addon", manifest.ID).Str("version", manifest.Version).Msg("addon installed")
	return &entry, nil
}

// EnsureDefaults installs the given manifest URLs when their addon id is
// not present yet. Failures are logged and skipped; a dead default addon
// must not block startup.
func (r *Registry) EnsureDefaults(ctx context.Context, manifestURLs []string) {
	installed, err := r.List()
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to list addons for defaults")
		return
	}
	byURL := make(map[string]struct{}, len(installed))
	for _, entry := range installed {
		byURL[entry.ManifestURL] = struct{}{}
	}

	for _, manifestURL := range manifestURLs {
		if _, ok := byURL[manifestURL]; ok {
			continue
		}
		if _, err := r.Install(ctx, manifestURL); err != nil {
			r.logger.Warn().Err(err).Str("manifest_url", manifestURL).Msg("default addon install failed")
		}
	}
}

// Get returns one installed addon by id.
func (r *Registry) Get(id string) (*models.InstalledAddon, error) {
	var entry models.InstalledAddon
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(addonKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotInstalled
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns all installed addons, oldest install first.
func (r *Registry) List() ([]models.InstalledAddon, error) {
	var entries []models.InstalledAddon
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = keyPrefix

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var entry models.InstalledAddon
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].InstalledAt < entries[j].InstalledAt
	})
	return entries, nil
}

// Active returns the installed addons whose catalogs should be ingested.
func (r *Registry) Active() ([]models.InstalledAddon, error) {
	entries, err := r.List()
	if err != nil {
		return nil, err
	}
	active := entries[:0]
	for _, entry := range entries {
		if entry.Active {
			active = append(active, entry)
		}
	}
	return active, nil
}

// SetActive flips the ingestion flag for an addon.
func (r *Registry) SetActive(id string, active bool) error {
	entry, err := r.Get(id)
	if err != nil {
		return err
	}
	entry.Active = active
	return r.put(entry)
}

// Remove uninstalls an addon. Removing an unknown id returns
// ErrNotInstalled.
func (r *Registry) Remove(id string) error {
	if _, err := r.Get(id); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(addonKey(id))
	})
}

// Close releases the underlying database.
func (r *Registry) Close() error {
	if err := r.db.Close(); err != nil && !errors.Is(err, badger.ErrDBClosed) {
		return err
	}
	return nil
}

func (r *Registry) put(entry *models.InstalledAddon) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode addon entry: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(addonKey(entry.Manifest.ID), value)
	})
}
