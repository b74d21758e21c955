// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package models

// AddonExtra describes an extra parameter an addon catalog accepts.
// Catalogs that require "search" cannot be listed without a query and are
// skipped during ingestion.
type AddonExtra struct {
	Name       string `json:"name"`
	IsRequired bool   `json:"isRequired,omitempty"`
}

// AddonCatalogRef identifies one catalog endpoint exposed by an addon.
type AddonCatalogRef struct {
	Type  string       `json:"type"`
	ID    string       `json:"id"`
	Name  string       `json:"name,omitempty"`
	Extra []AddonExtra `json:"extra,omitempty"`
}

// AddonManifest describes an installable addon. Only the fields the catalog
// ingestion consumes are modeled; the manifest format itself is owned by the
// addon ecosystem.
type AddonManifest struct {
	ID          string            `json:"id" validate:"required"`
	Name        string            `json:"name" validate:"required"`
	Version     string            `json:"version" validate:"required"`
	Description string            `json:"description,omitempty"`
	Resources   []string          `json:"resources"`
	Types       []string          `json:"types,omitempty"`
	Catalogs    []AddonCatalogRef `json:"catalogs"`

	// BaseURL is derived from the manifest URL at install time and used to
	// build catalog endpoint URLs. Not part of the published manifest.
	BaseURL string `json:"baseUrl,omitempty"`
}

// HasResource reports whether the addon advertises the given resource.
func (m *AddonManifest) HasResource(name string) bool {
	for _, r := range m.Resources {
		if r == name {
			return true
		}
	}
	return false
}

// InstalledAddon is a registry entry for an installed addon.
type InstalledAddon struct {
	Manifest    AddonManifest `json:"manifest"`
	ManifestURL string        `json:"manifestUrl"`
	Active      bool          `json:"active"`
	InstalledAt int64         `json:"installedAt"` // unix milliseconds
}

// AddonMeta is one entry of an addon catalog response. Field presence is
// validated at the ingestion boundary before records enter the catalog.
type AddonMeta struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Poster      string   `json:"poster,omitempty"`
	IMDBRating  string   `json:"imdbRating,omitempty"`
	ReleaseInfo string   `json:"releaseInfo,omitempty"`
	Description string   `json:"description,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Runtime     string   `json:"runtime,omitempty"`
}
