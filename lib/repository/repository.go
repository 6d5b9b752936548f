package repository

import (
	"encoding/json"
	"fmt"

	"github.com/wowa-cli/wowa/lib/store"
)

// Repository is a typed view on a store.IStore for one entity kind. Every value is
// written in an envelope stamped with the repository's schema version and every
// value read is migrated up to that version before it is decoded into T.
//
// The repository performs no I/O of its own and holds no state besides its
// configuration, so it is safe for concurrent use whenever the store is.
type Repository[T any] struct {
	store      store.IStore
	version    int
	migrations []Migration
}

// New creates a repository for schema version `version` on top of s.
// migrations[i] must map schema version i+1 to i+2, so exactly version-1
// migrations are required.
func New[T any](s store.IStore, version int, migrations []Migration) (*Repository[T], error) {
	if s == nil {
		return nil, fmt.Errorf("repository: store must not be nil")
	}
	if version < 1 {
		return nil, fmt.Errorf("repository: schema version must be >= 1, got %d", version)
	}
	if len(migrations) != version-1 {
		return nil, fmt.Errorf("repository: schema version %d requires %d migrations, got %d", version, version-1, len(migrations))
	}
	return &Repository[T]{
		store:      s,
		version:    version,
		migrations: append([]Migration(nil), migrations...),
	}, nil
}

// Version returns the schema version values are written with.
func (r *Repository[T]) Version() int {
	return r.version
}

// Get returns the value stored under key. The boolean return value indicates
// whether a value was found.
func (r *Repository[T]) Get(key store.Key) (T, bool, error) {
	var zero T

	raw, found, err := r.store.Get(key)
	if err != nil || !found {
		return zero, false, err
	}

	value, err := r.parse(raw)
	if err != nil {
		return zero, false, fmt.Errorf("record %s: %w", key, err)
	}
	return value, true, nil
}

// GetByPrefix returns every value whose key starts with prefix.
func (r *Repository[T]) GetByPrefix(prefix store.Key) ([]T, error) {
	raws, err := r.store.GetByPrefix(prefix)
	if err != nil {
		return nil, err
	}

	values := make([]T, 0, len(raws))
	for _, raw := range raws {
		value, err := r.parse(raw)
		if err != nil {
			return nil, fmt.Errorf("record under %s: %w", prefix, err)
		}
		values = append(values, value)
	}
	return values, nil
}

// Set stores value under key, wrapped in an envelope with the repository's version.
func (r *Repository[T]) Set(key store.Key, value T) error {
	raw, err := encodeRecord(r.version, value)
	if err != nil {
		return fmt.Errorf("record %s: %w", key, err)
	}
	return r.store.Set(key, raw)
}

// Delete removes the value stored under key.
func (r *Repository[T]) Delete(key store.Key) error {
	return r.store.Delete(key)
}

// parse decodes a raw stored value, migrates it and decodes the result into T.
func (r *Repository[T]) parse(raw string) (T, error) {
	var value T

	rec, err := decodeRecord(raw)
	if err != nil {
		return value, err
	}

	payload, err := applyMigrations(rec, r.version, r.migrations)
	if err != nil {
		return value, err
	}

	if err := json.Unmarshal(payload, &value); err != nil {
		return value, fmt.Errorf("failed to decode payload (schema version %d): %w", r.version, err)
	}
	return value, nil
}
