// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/mwrenn/avsignallab/internal/logging"
)

// Key layout for BadgerDB storage
const deviceKeyPrefix = "device:"

// ErrDeviceNotFound is returned by Store.Get for missing entries.
var ErrDeviceNotFound = errors.New("device not found")

// Store persists user-added devices in BadgerDB. Keys are
// "device:<category>:<id>" with JSON-encoded Device values.
type Store struct {
	db *badger.DB
}

// OpenStore opens (or creates) the device database at dir.
func OpenStore(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's own logger is too chatty; we log at the store level

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open device store: %w", err)
	}

	logging.Debug().Str("dir", dir).Msg("Device store opened")
	return &Store{db: db}, nil
}

// NewStore wraps an already-open BadgerDB handle.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func deviceKey(category Category, id string) []byte {
	return []byte(deviceKeyPrefix + string(category) + ":" + id)
}

// Put stores a user-added device. The device's Category and UserAdded
// fields are normalized before writing.
func (s *Store) Put(category Category, d Device) error {
	if !category.Valid() {
		return fmt.Errorf("invalid category %q", category)
	}
	if d.ID == "" {
		return errors.New("device id required")
	}
	if strings.ContainsAny(d.ID, ": \t\n") {
		return fmt.Errorf("invalid device id %q", d.ID)
	}

	d.Category = category
	d.UserAdded = true

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal device: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(deviceKey(category, d.ID), data)
	})
}

// Get retrieves one user-added device.
func (s *Store) Get(category Category, id string) (Device, error) {
	var d Device

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(deviceKey(category, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrDeviceNotFound
		}
		if err != nil {
			return fmt.Errorf("get device: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &d)
		})
	})
	if err != nil {
		return Device{}, err
	}
	return d, nil
}

// List returns all user-added devices in a category.
func (s *Store) List(category Category) ([]Device, error) {
	prefix := []byte(deviceKeyPrefix + string(category) + ":")
	var out []Device

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var d Device
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &d)
			})
			if err != nil {
				return fmt.Errorf("decode device: %w", err)
			}
			out = append(out, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a user-added device. Deleting a missing device is not
// an error.
func (s *Store) Delete(category Category, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(deviceKey(category, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}
