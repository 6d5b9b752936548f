package fstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/afero"
	"github.com/wowa-cli/wowa/lib/store"
)

var (
	writesTotal   = metrics.NewCounter("wowa_store_writes_total")
	writeDuration = metrics.NewHistogram("wowa_store_write_duration_seconds")
)

// entry is the on-disk representation of a single key-value pair.
type entry struct {
	Key   store.Key `json:"key"`
	Value string    `json:"value"`
}

type storeImpl struct {
	mu      sync.Mutex
	fs      afero.Fs
	path    string
	entries []entry
}

// NewFileStore creates a new, uninitialized file store on top of fs.
// If fs is nil the operating system file system is used.
// Call Init before using the store.
func NewFileStore(fs afero.Fs) store.IStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &storeImpl{fs: fs}
}

// Open is a convenience wrapper that creates a file store on the operating
// system file system and initializes it with path.
func Open(path string) (store.IStore, error) {
	s := NewFileStore(nil)
	if err := s.Init(path); err != nil {
		return nil, err
	}
	return s, nil
}

// mustBeInitialized panics if Init was not called yet.
//
// Thread-safety: Must be called while holding s.mu.
func (s *storeImpl) mustBeInitialized() {
	if s.path == "" {
		panic(store.ErrNotInitialized)
	}
}

// indexOf returns the position of key in s.entries or -1.
//
// Thread-safety: Must be called while holding s.mu.
func (s *storeImpl) indexOf(key store.Key) int {
	for i := range s.entries {
		if s.entries[i].Key.Equal(key) {
			return i
		}
	}
	return -1
}

// save serializes entries and replaces the store file. The data is written
// to a temporary sibling first and then renamed over the destination, so a reader
// never observes a partially written file.
//
// Thread-safety: Must be called while holding s.mu.
func (s *storeImpl) save(entries []entry) error {
	start := time.Now()
	defer writeDuration.UpdateDuration(start)

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return store.NewError(store.RetCIOError, "failed to create store directory", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return store.NewError(store.RetCInternalError, "failed to encode store entries", err)
	}

	tmpPath := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, data, 0o644); err != nil {
		return store.NewError(store.RetCIOError, "failed to write store file", err)
	}
	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		return store.NewError(store.RetCIOError, "failed to replace store file", err)
	}

	writesTotal.Inc()
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Init(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path != "" {
		return store.NewError(store.RetCAlreadyInitialized, "the store is already initialized", nil)
	}
	if path == "" {
		return store.NewError(store.RetCInternalError, "the store path must not be empty", nil)
	}

	entries := []entry{}
	data, err := afero.ReadFile(s.fs, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// start empty
	case err != nil:
		return store.NewError(store.RetCIOError, "failed to read store file", err)
	case len(data) > 0:
		if err := json.Unmarshal(data, &entries); err != nil {
			return store.NewError(store.RetCCorrupted, "failed to decode store file", err)
		}
	}

	s.path = path
	s.entries = entries
	return nil
}

func (s *storeImpl) Get(key store.Key) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustBeInitialized()

	if i := s.indexOf(key); i >= 0 {
		return s.entries[i].Value, true, nil
	}
	return "", false, nil
}

func (s *storeImpl) GetByPrefix(prefix store.Key) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustBeInitialized()

	values := make([]string, 0)
	for _, e := range s.entries {
		if e.Key.HasPrefix(prefix) {
			values = append(values, e.Value)
		}
	}
	return values, nil
}

func (s *storeImpl) Set(key store.Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustBeInitialized()

	// mutate a copy, s.entries only changes once the file is written
	next := make([]entry, len(s.entries), len(s.entries)+1)
	copy(next, s.entries)

	// copy the key, the caller may reuse its slice
	k := append(store.Key(nil), key...)
	if i := s.indexOf(k); i >= 0 {
		next[i].Value = value
	} else {
		next = append(next, entry{Key: k, Value: value})
	}
	return s.commit(next)
}

func (s *storeImpl) Delete(key store.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustBeInitialized()

	next := make([]entry, 0, len(s.entries))
	for _, e := range s.entries {
		if !e.Key.Equal(key) {
			next = append(next, e)
		}
	}
	return s.commit(next)
}

// commit writes next to disk and makes it the current entry list on success.
//
// Thread-safety: Must be called while holding s.mu.
func (s *storeImpl) commit(next []entry) error {
	if err := s.save(next); err != nil {
		return err
	}
	s.entries = next
	return nil
}
