// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

// Package models defines the shared data structures of the catalog
// service: media records, categories and addon manifests. Field json tags
// match the seed data and client wire format.
package models
