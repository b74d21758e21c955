// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

// Package catalog owns the in-memory media catalog: the record store, the
// JSON seed loader, the staged batch loader that brings the secondary
// content kinds in after startup, and the home feed assembly.
package catalog
