package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when an entity does not exist.
var ErrNotFound = errors.New("entity not found")

// Entity provides generic cache operations for a domain type.
// Unlike a source-of-truth table there is no create/update distinction:
// Put always overwrites, because the backend copy wins.
type Entity[T any] struct {
	store   *Store
	prefix  string
	indexes []index[T]
}

// index defines a secondary index on an entity.
type index[T any] struct {
	name   string
	keyGen func(*T) []string
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{
		store:  s,
		prefix: prefix,
	}
}

// WithIndex adds a secondary index to the entity.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, index[T]{name: name, keyGen: keyGen})
	return e
}

// indexKey builds an index entry key. The entity ID is part of the key so
// one index value can map to many entities.
func (e *Entity[T]) indexKey(name, value, id string) string {
	return e.prefix + "idx:" + name + ":" + value + ":" + id
}

// Put stores the entity, overwriting any prior version and rewriting its
// index entries.
func (e *Entity[T]) Put(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	key := e.prefix + id

	return e.store.db.Update(func(txn *badger.Txn) error {
		// Remove index entries for the previous version, if any.
		if old, err := e.getInTxn(txn, id); err == nil {
			for _, idx := range e.indexes {
				for _, value := range idx.keyGen(old) {
					if err := txn.Delete([]byte(e.indexKey(idx.name, value, id))); err != nil {
						return fmt.Errorf("failed to delete stale index key: %w", err)
					}
				}
			}
		}

		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		for _, idx := range e.indexes {
			for _, value := range idx.keyGen(entity) {
				if err := txn.Set([]byte(e.indexKey(idx.name, value, id)), []byte(id)); err != nil {
					return fmt.Errorf("failed to set index key: %w", err)
				}
			}
		}

		return nil
	})
}

// Get retrieves an entity by ID. Returns ErrNotFound if it does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entity *T
	err := e.store.db.View(func(txn *badger.Txn) error {
		found, err := e.getInTxn(txn, id)
		if err != nil {
			return err
		}
		entity = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// getInTxn loads and unmarshals an entity within a transaction.
func (e *Entity[T]) getInTxn(txn *badger.Txn, id string) (*T, error) {
	item, err := txn.Get([]byte(e.prefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var entity T
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entity)
	})
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// Delete removes an entity and its index entries.
// Deleting an absent entity is a no-op.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		old, err := e.getInTxn(txn, id)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		for _, idx := range e.indexes {
			for _, value := range idx.keyGen(old) {
				if err := txn.Delete([]byte(e.indexKey(idx.name, value, id))); err != nil {
					return fmt.Errorf("failed to delete index key: %w", err)
				}
			}
		}

		return txn.Delete([]byte(e.prefix + id))
	})
}

// List returns all entities, skipping index entries.
func (e *Entity[T]) List(ctx context.Context) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entities []*T
	err := e.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(e.prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		idxPrefix := e.prefix + "idx:"
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			if strings.HasPrefix(string(item.Key()), idxPrefix) {
				continue
			}
			var entity T
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entity)
			})
			if err != nil {
				return err
			}
			entities = append(entities, &entity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// ListByIndex returns all entities whose index contains the given value.
func (e *Entity[T]) ListByIndex(ctx context.Context, indexName, value string) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []string
	err := e.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(e.prefix + "idx:" + indexName + ":" + value + ":")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			ids = append(ids, string(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entities := make([]*T, 0, len(ids))
	for _, id := range ids {
		entity, err := e.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
