// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package userstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// LocalStore keeps per-user state in an embedded badger database. Keys are
// "fav/<user>/<record>" and "like/<user>/<record>"; like values are a single
// byte, '1' for liked.
type LocalStore struct {
	db *badger.DB
}

// OpenLocalStore opens (or creates) the badger database at path. An empty
// path opens an in-memory database, used by tests and ephemeral deploys.
func OpenLocalStore(path string) (*LocalStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open user store at %q: %w", path, err)
	}
	return &LocalStore{db: db}, nil
}

func favKey(userID, recordID string) []byte {
	return []byte("fav/" + userID + "/" + recordID)
}

func likeKey(userID, recordID string) []byte {
	return []byte("like/" + userID + "/" + recordID)
}

// AddFavorite implements Store.
func (l *LocalStore) AddFavorite(ctx context.Context, userID, recordID string) error {
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(favKey(userID, recordID), []byte{1})
	})
}

// RemoveFavorite implements Store.
func (l *LocalStore) RemoveFavorite(ctx context.Context, userID, recordID string) error {
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(favKey(userID, recordID))
	})
}

// Favorites implements Store.
func (l *LocalStore) Favorites(ctx context.Context, userID string) ([]string, error) {
	prefix := []byte("fav/" + userID + "/")

	var ids []string
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, string(prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SetLike implements Store.
func (l *LocalStore) SetLike(ctx context.Context, userID, recordID string, liked bool) error {
	value := []byte{0}
	if liked {
		value = []byte{1}
	}
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(likeKey(userID, recordID), value)
	})
}

// Likes implements Store.
func (l *LocalStore) Likes(ctx context.Context, userID string) (map[string]bool, error) {
	prefix := []byte("like/" + userID + "/")

	votes := make(map[string]bool)
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			recordID := strings.TrimPrefix(string(item.Key()), string(prefix))
			if err := item.Value(func(val []byte) error {
				votes[recordID] = len(val) == 1 && val[0] == 1
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return votes, nil
}

// Close implements Store.
func (l *LocalStore) Close() error {
	if err := l.db.Close(); err != nil && !errors.Is(err, badger.ErrDBClosed) {
		return err
	}
	return nil
}
