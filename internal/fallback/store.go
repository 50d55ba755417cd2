// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

// Package fallback implements the local profile store used when the primary
// database is unavailable. Profiles are stored in BadgerDB keyed by the
// identity-provider subject, with a secondary index by profile ID.
package fallback

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/pmatlas/pmatlas/internal/config"
	"github.com/pmatlas/pmatlas/internal/logging"
	"github.com/pmatlas/pmatlas/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	profileKeyPrefix = "profile:"
	idKeyPrefix      = "profile_id:"
)

// ErrProfileNotFound is returned when no profile exists for the lookup key.
var ErrProfileNotFound = errors.New("profile not found in fallback store")

// Store is a BadgerDB-backed profile store.
type Store struct {
	db *badger.DB
}

// Open creates or opens the fallback store at the configured path.
func Open(cfg *config.FallbackConfig) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	// Route Badger's own logging through zerolog
	opts = opts.WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open fallback store: %w", err)
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an existing Badger handle. Used by tests.
func NewWithDB(db *badger.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying Badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunGC runs one round of Badger value log garbage collection.
// Returns badger.ErrNoRewrite when there was nothing to reclaim.
func (s *Store) RunGC(discardRatio float64) error {
	return s.db.RunValueLogGC(discardRatio)
}

// Put stores a profile under both its subject key and its ID index.
func (s *Store) Put(p *models.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		subjectKey := []byte(profileKeyPrefix + p.SubjectID)
		if err := txn.Set(subjectKey, data); err != nil {
			return fmt.Errorf("set profile: %w", err)
		}

		idKey := []byte(idKeyPrefix + p.ID)
		if err := txn.Set(idKey, []byte(p.SubjectID)); err != nil {
			return fmt.Errorf("set id index: %w", err)
		}

		return nil
	})
}

// GetBySubject retrieves a profile by its identity-provider subject.
// Returns ErrProfileNotFound when absent.
func (s *Store) GetBySubject(subjectID string) (*models.Profile, error) {
	var profile models.Profile

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(profileKeyPrefix + subjectID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// GetByID retrieves a profile through the ID index.
// Returns ErrProfileNotFound when absent.
func (s *Store) GetByID(id string) (*models.Profile, error) {
	var subjectID string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(idKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("get id index: %w", err)
		}

		return item.Value(func(val []byte) error {
			subjectID = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetBySubject(subjectID)
}

// List returns every profile held in the fallback store.
func (s *Store) List() ([]*models.Profile, error) {
	var profiles []*models.Profile

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profileKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var p models.Profile
				if err := json.Unmarshal(val, &p); err != nil {
					return fmt.Errorf("unmarshal profile: %w", err)
				}
				profiles = append(profiles, &p)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

// badgerLogger adapts Badger's logger interface onto zerolog. Badger is
// chatty at INFO during compaction, so its INFO goes to debug level.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Msgf(trimNewline(format), args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Msgf(trimNewline(format), args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Msgf(trimNewline(format), args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Debug().Msgf(trimNewline(format), args...)
}

func trimNewline(s string) string {
	for len(s) > 0 && s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	return s
}
