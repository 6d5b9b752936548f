package testing

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wowa-cli/wowa/lib/store"
)

// RunStoreTests runs the conformance test suite for a store.IStore implementation.
// factory must return a new, uninitialized store on every call. Stores created by
// the same factory must share their backing file system, the suite reopens files
// written by an earlier instance.
func RunStoreTests(t *testing.T, name string, factory store.Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, newInitialized(t, factory))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, newInitialized(t, factory))
		})

		t.Run("GetByPrefix", func(t *testing.T) {
			testGetByPrefix(t, newInitialized(t, factory))
		})

		t.Run("PrefixIsolation", func(t *testing.T) {
			testPrefixIsolation(t, newInitialized(t, factory))
		})

		t.Run("InitTwice", func(t *testing.T) {
			testInitTwice(t, factory)
		})

		t.Run("UseBeforeInit", func(t *testing.T) {
			testUseBeforeInit(t, factory)
		})

		t.Run("SaveLoad", func(t *testing.T) {
			testSaveLoad(t, factory)
		})

		t.Run("ConcurrentSet", func(t *testing.T) {
			testConcurrentSet(t, factory)
		})
	})
}

// RunStoreBenchmarks runs write and read benchmarks for a store.IStore implementation.
func RunStoreBenchmarks(b *testing.B, name string, factory store.Factory) {
	b.Run(name, func(b *testing.B) {
		s := factory()
		if err := s.Init(filepath.Join(b.TempDir(), "store.json")); err != nil {
			b.Fatalf("Init failed: %v", err)
		}
		for i := 0; i < 100; i++ {
			_ = s.Set(store.Key{"bench", fmt.Sprintf("key-%d", i)}, "value")
		}

		b.Run("Set", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = s.Set(store.Key{"bench", fmt.Sprintf("key-%d", i%100)}, "value")
			}
		})

		b.Run("Get", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _, _ = s.Get(store.Key{"bench", fmt.Sprintf("key-%d", i%100)})
			}
		})

		b.Run("GetByPrefix", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = s.GetByPrefix(store.Key{"bench"})
			}
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// newInitialized creates a store from factory bound to a fresh file
func newInitialized(t *testing.T, factory store.Factory) store.IStore {
	t.Helper()
	s := factory()
	if err := s.Init(filepath.Join(t.TempDir(), "store.json")); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s
}

func mustSet(t *testing.T, s store.IStore, key store.Key, value string) {
	t.Helper()
	if err := s.Set(key, value); err != nil {
		t.Fatalf("Set(%v) failed: %v", key, err)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, s store.IStore) {
	key := store.Key{"packages", "retail", "details"}

	if _, found, err := s.Get(key); err != nil || found {
		t.Errorf("Expected key %v to be absent in an empty store (found=%v, err=%v)", key, found, err)
	}

	mustSet(t, s, key, "value-1")
	value, found, err := s.Get(key)
	if err != nil || !found {
		t.Fatalf("Expected key %v to exist after Set (found=%v, err=%v)", key, found, err)
	}
	if value != "value-1" {
		t.Errorf("Expected value %q, got %q", "value-1", value)
	}

	mustSet(t, s, key, "value-2")
	value, _, _ = s.Get(key)
	if value != "value-2" {
		t.Errorf("Expected updated value %q, got %q", "value-2", value)
	}

	values, _ := s.GetByPrefix(key)
	if len(values) != 1 {
		t.Errorf("Expected exactly one entry for %v after two Sets, got %d", key, len(values))
	}

	// a shorter or longer key is a different key
	if _, found, _ := s.Get(key[:2]); found {
		t.Errorf("Expected prefix key %v not to match %v", key[:2], key)
	}
	if _, found, _ := s.Get(append(store.Key{}, "packages", "retail", "details", "x")); found {
		t.Errorf("Expected longer key not to match %v", key)
	}

	// mutating the caller's key after Set must not affect the store
	reused := store.Key{"config", "a"}
	mustSet(t, s, reused, "a")
	reused[1] = "b"
	if _, found, _ := s.Get(store.Key{"config", "a"}); !found {
		t.Errorf("Store must not alias the caller's key slice")
	}
}

func testDelete(t *testing.T, s store.IStore) {
	key := store.Key{"packages", "classic", "questie"}
	mustSet(t, s, key, "v")

	if err := s.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found, _ := s.Get(key); found {
		t.Errorf("Expected key %v to be absent after Delete", key)
	}
	values, _ := s.GetByPrefix(store.Key{"packages"})
	if len(values) != 0 {
		t.Errorf("Expected no entries after Delete, got %v", values)
	}

	if err := s.Delete(store.Key{"nonexistent"}); err != nil {
		t.Errorf("Deleting a nonexistent key should not fail: %v", err)
	}
}

func testGetByPrefix(t *testing.T, s store.IStore) {
	mustSet(t, s, store.Key{"packages", "retail", "a"}, "ra")
	mustSet(t, s, store.Key{"packages", "retail", "b"}, "rb")
	mustSet(t, s, store.Key{"packages", "classic", "a"}, "ca")
	mustSet(t, s, store.Key{"config", "game.dir"}, "dir")
	mustSet(t, s, store.Key{"pack"}, "short")

	tests := []struct {
		prefix store.Key
		want   []string
	}{
		{store.Key{"packages"}, []string{"ca", "ra", "rb"}},
		{store.Key{"packages", "retail"}, []string{"ra", "rb"}},
		{store.Key{"packages", "retail", "a"}, []string{"ra"}},
		{store.Key{"config"}, []string{"dir"}},
		{store.Key{}, []string{"ca", "dir", "ra", "rb", "short"}},
		{store.Key{"missing"}, []string{}},
	}

	for _, tt := range tests {
		got, err := s.GetByPrefix(tt.prefix)
		if err != nil {
			t.Errorf("GetByPrefix(%v) failed: %v", tt.prefix, err)
			continue
		}
		sort.Strings(got)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("GetByPrefix(%v) mismatch (-want +got):\n%s", tt.prefix, diff)
		}
	}
}

func testPrefixIsolation(t *testing.T, s store.IStore) {
	for i := 0; i < 10; i++ {
		mustSet(t, s, store.Key{"packages", "retail", fmt.Sprintf("p%d", i)}, "retail")
		mustSet(t, s, store.Key{"packages", "classic", fmt.Sprintf("p%d", i)}, "classic")
	}

	for _, variant := range []string{"retail", "classic"} {
		values, err := s.GetByPrefix(store.Key{"packages", variant})
		if err != nil {
			t.Fatalf("GetByPrefix failed: %v", err)
		}
		if len(values) != 10 {
			t.Errorf("Expected 10 %s entries, got %d", variant, len(values))
		}
		for _, v := range values {
			if v != variant {
				t.Errorf("Prefix %s returned an entry of %s", variant, v)
			}
		}
	}
}

func testInitTwice(t *testing.T, factory store.Factory) {
	s := newInitialized(t, factory)
	err := s.Init(filepath.Join(t.TempDir(), "other.json"))
	if !store.IsCode(err, store.RetCAlreadyInitialized) {
		t.Errorf("Expected RetCAlreadyInitialized on second Init, got %v", err)
	}
}

func testUseBeforeInit(t *testing.T, factory store.Factory) {
	calls := map[string]func(s store.IStore){
		"Get":         func(s store.IStore) { _, _, _ = s.Get(store.Key{"a"}) },
		"GetByPrefix": func(s store.IStore) { _, _ = s.GetByPrefix(store.Key{"a"}) },
		"Set":         func(s store.IStore) { _ = s.Set(store.Key{"a"}, "b") },
		"Delete":      func(s store.IStore) { _ = s.Delete(store.Key{"a"}) },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, store.ErrNotInitialized) {
					t.Errorf("Expected panic with ErrNotInitialized, got %v", r)
				}
			}()
			call(factory())
		})
	}
}

func testSaveLoad(t *testing.T, factory store.Factory) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "store.json")

	s1 := factory()
	if err := s1.Init(path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	mustSet(t, s1, store.Key{"packages", "retail", "a"}, "1")
	mustSet(t, s1, store.Key{"packages", "retail", "b"}, "2")
	mustSet(t, s1, store.Key{"packages", "retail", "a"}, "3")
	if err := s1.Delete(store.Key{"packages", "retail", "b"}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	s2 := factory()
	if err := s2.Init(path); err != nil {
		t.Fatalf("Init on existing file failed: %v", err)
	}
	value, found, err := s2.Get(store.Key{"packages", "retail", "a"})
	if err != nil || !found || value != "3" {
		t.Errorf("Expected reloaded value %q, got %q (found=%v, err=%v)", "3", value, found, err)
	}
	if _, found, _ := s2.Get(store.Key{"packages", "retail", "b"}); found {
		t.Errorf("Deleted key must not be reloaded")
	}
}

func testConcurrentSet(t *testing.T, factory store.Factory) {
	path := filepath.Join(t.TempDir(), "store.json")
	s := factory()
	if err := s.Init(path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	const workers = 16
	const perWorker = 20

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key := store.Key{"concurrent", fmt.Sprintf("w%d", w)}
				if err := s.Set(key, fmt.Sprintf("%d", i)); err != nil {
					t.Errorf("Set failed: %v", err)
				}
				// reads interleave with writes and must always see a complete state
				if _, err := s.GetByPrefix(store.Key{"concurrent"}); err != nil {
					t.Errorf("GetByPrefix failed: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	// reopen from disk: exactly one entry per key, holding the last written value
	reopened := factory()
	if err := reopened.Init(path); err != nil {
		t.Fatalf("Init on written file failed: %v", err)
	}
	values, err := reopened.GetByPrefix(store.Key{"concurrent"})
	if err != nil {
		t.Fatalf("GetByPrefix failed: %v", err)
	}
	if len(values) != workers {
		t.Fatalf("Expected %d entries on disk, got %d", workers, len(values))
	}
	for w := 0; w < workers; w++ {
		value, found, _ := reopened.Get(store.Key{"concurrent", fmt.Sprintf("w%d", w)})
		if !found || value != fmt.Sprintf("%d", perWorker-1) {
			t.Errorf("Worker %d: expected last value %d, got %q (found=%v)", w, perWorker-1, value, found)
		}
	}
}
