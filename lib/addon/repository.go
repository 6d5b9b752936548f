package addon

import (
	"github.com/wowa-cli/wowa/lib/repository"
	"github.com/wowa-cli/wowa/lib/store"
)

const packagesPrefix = "packages"

// Repository persists installed package records under ["packages", variant, id].
type Repository struct {
	records *repository.Repository[Record]
}

// NewRepository creates a package repository on top of s.
func NewRepository(s store.IStore) (*Repository, error) {
	records, err := repository.New[Record](s, SchemaVersion, recordMigrations)
	if err != nil {
		return nil, err
	}
	return &Repository{records: records}, nil
}

func packageKey(id string, variant Variant) store.Key {
	return store.Key{packagesPrefix, string(variant), id}
}

// Save writes r, replacing any record with the same id and variant.
func (r *Repository) Save(rec Record) error {
	return r.records.Set(packageKey(rec.ID, rec.Variant), rec)
}

// Delete removes the record for id and variant.
func (r *Repository) Delete(id string, variant Variant) error {
	return r.records.Delete(packageKey(id, variant))
}

// Get returns the record for id and variant. The boolean return value
// indicates whether the record exists.
func (r *Repository) Get(id string, variant Variant) (Record, bool, error) {
	return r.records.Get(packageKey(id, variant))
}

// List returns every record of variant, or of all variants if variant is empty.
func (r *Repository) List(variant Variant) ([]Record, error) {
	prefix := store.Key{packagesPrefix}
	if variant != "" {
		prefix = append(prefix, string(variant))
	}
	return r.records.GetByPrefix(prefix)
}
