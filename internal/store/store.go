// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/metrics"
	"github.com/nestscout/nestscout/internal/mlpipeline"
	"github.com/nestscout/nestscout/internal/recommend"
)

// Key prefixes for BadgerDB storage.
const (
	listingKeyPrefix = "listing:"
	eventKeyPrefix   = "event:"
	profileKeyPrefix = "profile:"

	eventSequenceKey = "seq:event"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Config contains storage configuration.
type Config struct {
	// Path is the BadgerDB data directory. Ignored when InMemory is set.
	Path string `json:"path" koanf:"path"`

	// InMemory keeps all data in memory; useful for tests and demos.
	InMemory bool `json:"in_memory" koanf:"in_memory"`
}

// DefaultConfig returns production storage defaults.
func DefaultConfig() Config {
	return Config{Path: "data/store"}
}

// Store is the BadgerDB-backed persistence layer for listings, events,
// and user preference profiles. Values are JSON-encoded; listing and
// profile keys embed the record ID, events get a monotonic sequence
// number so insertion order survives iteration.
type Store struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger zerolog.Logger
}

// The store feeds the training pipeline directly.
var _ mlpipeline.DataProvider = (*Store)(nil)

// Open opens or creates the store.
func Open(cfg Config, logger zerolog.Logger) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	seq, err := db.GetSequence([]byte(eventSequenceKey), 100)
	if err != nil {
		_ = db.Close() //nolint:errcheck // cleanup after sequence failure
		return nil, fmt.Errorf("open event sequence: %w", err)
	}

	return &Store{
		db:     db,
		seq:    seq,
		logger: logger.With().Str("component", "store").Logger(),
	}, nil
}

// Close releases the sequence and closes the database.
func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		s.logger.Warn().Err(err).Msg("release event sequence")
	}
	return s.db.Close()
}

// PutListing inserts or replaces a listing.
func (s *Store) PutListing(ctx context.Context, l recommend.Listing) error {
	if l.ID <= 0 {
		return fmt.Errorf("listing id must be positive, got %d", l.ID)
	}
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal listing: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(listingKey(l.ID), data)
	})
	if err != nil {
		metrics.RecordStoreError("put_listing")
		return fmt.Errorf("put listing: %w", err)
	}
	metrics.RecordStoreOperation("put", "listing")
	return nil
}

// GetListing retrieves a listing by ID.
func (s *Store) GetListing(ctx context.Context, id int) (recommend.Listing, error) {
	var l recommend.Listing
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(listingKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &l)
		})
	})
	if err != nil {
		return recommend.Listing{}, err
	}
	return l, nil
}

// Listings returns every listing in key order.
func (s *Store) Listings(ctx context.Context) ([]recommend.Listing, error) {
	var listings []recommend.Listing
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, listingKeyPrefix, func(val []byte) error {
			var l recommend.Listing
			if err := json.Unmarshal(val, &l); err != nil {
				return err
			}
			listings = append(listings, l)
			return nil
		})
	})
	if err != nil {
		metrics.RecordStoreError("list_listings")
		return nil, fmt.Errorf("list listings: %w", err)
	}
	metrics.RecordStoreOperation("list", "listing")
	return listings, nil
}

// AddEvent appends an interaction event. Events are immutable; each gets
// the next sequence number as its key.
func (s *Store) AddEvent(ctx context.Context, e recommend.Event) error {
	if !e.Kind.Valid() {
		return fmt.Errorf("invalid event kind %q", e.Kind)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	n, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("next event sequence: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(eventKey(n), data)
	})
	if err != nil {
		metrics.RecordStoreError("add_event")
		return fmt.Errorf("add event: %w", err)
	}
	metrics.RecordStoreOperation("put", "interaction")
	return nil
}

// Events returns every interaction event in insertion order.
func (s *Store) Events(ctx context.Context) ([]recommend.Event, error) {
	var events []recommend.Event
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, eventKeyPrefix, func(val []byte) error {
			var e recommend.Event
			if err := json.Unmarshal(val, &e); err != nil {
				return err
			}
			events = append(events, e)
			return nil
		})
	})
	if err != nil {
		metrics.RecordStoreError("list_events")
		return nil, fmt.Errorf("list events: %w", err)
	}
	metrics.RecordStoreOperation("list", "interaction")
	return events, nil
}

// PutProfile inserts or replaces a user's preference profile.
func (s *Store) PutProfile(ctx context.Context, userID int, p recommend.Profile) error {
	if userID <= 0 {
		return fmt.Errorf("user id must be positive, got %d", userID)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(userID), data)
	})
	if err != nil {
		metrics.RecordStoreError("put_profile")
		return fmt.Errorf("put profile: %w", err)
	}
	metrics.RecordStoreOperation("put", "profile")
	return nil
}

// GetProfile retrieves a user's preference profile.
func (s *Store) GetProfile(ctx context.Context, userID int) (recommend.Profile, error) {
	var p recommend.Profile
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return recommend.Profile{}, err
	}
	return p, nil
}

// CountListings returns the number of stored listings.
func (s *Store) CountListings(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefixKeys(txn, listingKeyPrefix, func() { count++ })
	})
	if err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return count, nil
}

// CountProfiles returns the number of stored user profiles.
func (s *Store) CountProfiles(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefixKeys(txn, profileKeyPrefix, func() { count++ })
	})
	if err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return count, nil
}

// Clear removes all listings, events, and profiles.
func (s *Store) Clear(ctx context.Context) error {
	err := s.db.DropPrefix(
		[]byte(listingKeyPrefix),
		[]byte(eventKeyPrefix),
		[]byte(profileKeyPrefix),
	)
	if err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	return nil
}

func listingKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%010d", listingKeyPrefix, id))
}

func eventKey(n uint64) []byte {
	return []byte(fmt.Sprintf("%s%016d", eventKeyPrefix, n))
}

func profileKey(userID int) []byte {
	return []byte(fmt.Sprintf("%s%010d", profileKeyPrefix, userID))
}

func scanPrefix(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

func scanPrefixKeys(txn *badger.Txn, prefix string, fn func()) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		fn()
	}
	return nil
}
