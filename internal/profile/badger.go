// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package profile

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const (
	// profileKeyPrefix namespaces profile records in BadgerDB.
	profileKeyPrefix = "profile:"

	// genresKey stores the vocabulary the index was built against.
	genresKey = "meta:genres"

	// sourceKey stores the stamp of the profile table the index was loaded from.
	sourceKey = "meta:source"
)

// IndexMeta describes what a BadgerIndex was loaded from. Both fields are
// empty for an index that was never fully loaded.
type IndexMeta struct {
	Genres []string
	Source string
}

// Stamp identifies one published profile table by size and modification
// time. Commit renames a fresh file into place, so every regeneration yields
// a new stamp.
func Stamp(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat profile table: %w", err)
	}
	return fmt.Sprintf("%d:%d", fi.Size(), fi.ModTime().UnixNano()), nil
}

// storedProfile is the badger value. JSON cannot encode NaN, so NaN slots are
// stored as zero and listed in Unrated.
type storedProfile struct {
	UserID      int       `json:"user_id"`
	Preferences []float64 `json:"preferences"`
	Unrated     []int     `json:"unrated,omitempty"`
	Watched     []int     `json:"watched"`
}

func encodeProfile(p *UserProfile) ([]byte, error) {
	sp := storedProfile{
		UserID:      p.UserID,
		Preferences: make([]float64, len(p.Preferences)),
		Watched:     p.Watched,
	}
	for i, v := range p.Preferences {
		if math.IsNaN(v) {
			sp.Unrated = append(sp.Unrated, i)
			continue
		}
		sp.Preferences[i] = v
	}
	return json.Marshal(sp)
}

func decodeProfile(data []byte) (*UserProfile, error) {
	var sp storedProfile
	if err := json.Unmarshal(data, &sp); err != nil {
		return nil, err
	}
	for _, i := range sp.Unrated {
		if i >= 0 && i < len(sp.Preferences) {
			sp.Preferences[i] = math.NaN()
		}
	}
	if sp.Watched == nil {
		sp.Watched = []int{}
	}
	return &UserProfile{UserID: sp.UserID, Preferences: sp.Preferences, Watched: sp.Watched}, nil
}

func profileKey(userID int) []byte {
	return []byte(profileKeyPrefix + strconv.Itoa(userID))
}

// BadgerIndex is a persistent user_id -> profile store.
type BadgerIndex struct {
	db *badger.DB
}

// OpenBadgerIndex opens (or creates) an index at path. An in-memory index ignores path.
func OpenBadgerIndex(path string, inMemory bool) (*BadgerIndex, error) {
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB internal logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger profile index: %w", err)
	}
	return &BadgerIndex{db: db}, nil
}

// Close closes the underlying database.
func (b *BadgerIndex) Close() error {
	return b.db.Close()
}

// Replace drops every stored profile and loads t in its place, recording
// source as the table stamp. The metadata is removed first and written last,
// so an interrupted Replace leaves an index that Meta reports as unloaded.
func (b *BadgerIndex) Replace(ctx context.Context, t *Table, source string) error {
	if err := b.clear(); err != nil {
		return fmt.Errorf("clear profile index: %w", err)
	}

	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for _, p := range t.Profiles() {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := encodeProfile(p)
		if err != nil {
			return fmt.Errorf("marshal profile %d: %w", p.UserID, err)
		}
		if err := wb.Set(profileKey(p.UserID), data); err != nil {
			return fmt.Errorf("store profile %d: %w", p.UserID, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush profile index: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	genres, err := json.Marshal(t.Genres)
	if err != nil {
		return fmt.Errorf("marshal genres: %w", err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(genresKey), genres); err != nil {
			return err
		}
		return txn.Set([]byte(sourceKey), []byte(source))
	})
	if err != nil {
		return fmt.Errorf("store index metadata: %w", err)
	}
	return nil
}

// clear deletes the metadata, then every profile key.
func (b *BadgerIndex) clear() error {
	err := b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(genresKey)); err != nil {
			return err
		}
		return txn.Delete([]byte(sourceKey))
	})
	if err != nil {
		return err
	}

	var keys [][]byte
	err = b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(profileKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}

	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Lookup implements Lookup.
func (b *BadgerIndex) Lookup(_ context.Context, userID int) (*UserProfile, bool, error) {
	var p *UserProfile
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var derr error
			p, derr = decodeProfile(val)
			return derr
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup profile %d: %w", userID, err)
	}
	return p, true, nil
}

// Meta returns the vocabulary and table stamp stored with the index.
func (b *BadgerIndex) Meta() (IndexMeta, error) {
	var meta IndexMeta
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(genresKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta.Genres)
		}); err != nil {
			return err
		}

		item, err = txn.Get([]byte(sourceKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		src, err := item.ValueCopy(nil)
		meta.Source = string(src)
		return err
	})
	if err != nil {
		return IndexMeta{}, fmt.Errorf("load index metadata: %w", err)
	}
	return meta, nil
}

// Len counts stored profiles.
func (b *BadgerIndex) Len() (int, error) {
	n := 0
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(profileKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
