// Package config persists user settings as plain strings in the store under ["config", name].
package config

import (
	"fmt"
	"sort"

	"github.com/wowa-cli/wowa/lib/store"
)

// Setting names.
const (
	GameDir     = "game.dir"
	CurseToken  = "curse.token"
	GithubToken = "github.token"
)

// Names lists every known setting.
var Names = []string{GameDir, CurseToken, GithubToken}

const configPrefix = "config"

// Repository reads and writes settings.
type Repository struct {
	store store.IStore
}

// NewRepository creates a settings repository on top of s.
func NewRepository(s store.IStore) *Repository {
	return &Repository{store: s}
}

func validate(name string) error {
	for _, n := range Names {
		if n == name {
			return nil
		}
	}
	return fmt.Errorf("unknown setting %q", name)
}

// Get returns the value of name. The boolean return value indicates whether it is set.
func (r *Repository) Get(name string) (string, bool, error) {
	if err := validate(name); err != nil {
		return "", false, err
	}
	return r.store.Get(store.Key{configPrefix, name})
}

// Set stores value for name.
func (r *Repository) Set(name, value string) error {
	if err := validate(name); err != nil {
		return err
	}
	return r.store.Set(store.Key{configPrefix, name}, value)
}

// Unset removes the value of name.
func (r *Repository) Unset(name string) error {
	if err := validate(name); err != nil {
		return err
	}
	return r.store.Delete(store.Key{configPrefix, name})
}

// All returns every setting that has a value, sorted by name.
func (r *Repository) All() ([][2]string, error) {
	var all [][2]string
	for _, name := range Names {
		value, found, err := r.store.Get(store.Key{configPrefix, name})
		if err != nil {
			return nil, err
		}
		if found {
			all = append(all, [2]string{name, value})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i][0] < all[j][0] })
	return all, nil
}
