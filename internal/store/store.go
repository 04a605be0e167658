// Package store provides the local persistence layer for the jewel client.
//
// Everything here is cache: the backend owns the authoritative copies of
// user lists, and the catalog is refreshed wholesale. Reads of cache keys
// therefore fail soft: malformed or missing data is treated as absent and
// never surfaced to callers.
package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/jewelapp/jewel-client/internal/domain"
)

// Store wraps a Badger database instance holding all client-side state.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Products is the offline catalog cache.
	Products *Entity[domain.Product]
}

// Open opens (or creates) the local database at the given path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil      // Disable Badger's internal logging
	opts.SyncWrites = true // Survive crashes without corrupting list state

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}

	s.Products = NewEntity[domain.Product](s, keyProductPrefix).
		WithIndex("category", func(p *domain.Product) []string {
			category := strings.ToLower(strings.TrimSpace(p.Category))
			if category == "" {
				return nil
			}
			return []string{category}
		})

	if logger != nil {
		logger.Info("local store opened", "path", path)
	}

	return s, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing local store")
	}
	return s.db.Close()
}

// set serializes and persists a value, overwriting any prior value.
func (s *Store) set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// setRaw persists raw bytes under a key. Used by tests to simulate
// corrupted cache entries.
func (s *Store) setRaw(key string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getCache reads a cache key into dest, failing soft: a missing key, a read
// error, or malformed JSON all report absent. Malformed data is logged at
// debug level and otherwise ignored.
func (s *Store) getCache(key string, dest any) bool {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false
	}
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("cache read failed, treating as absent", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		if s.logger != nil {
			s.logger.Debug("malformed cache entry, treating as absent", "key", key, "error", err)
		}
		return false
	}
	return true
}

// delete removes a key. Deleting an absent key is a no-op.
func (s *Store) delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}
