package fstore

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/wowa-cli/wowa/lib/store"
	storetesting "github.com/wowa-cli/wowa/lib/store/testing"
)

func Test(t *testing.T) {
	storetesting.RunStoreTests(t, "FileStore(os)", func() store.IStore {
		return NewFileStore(nil)
	})

	memFs := afero.NewMemMapFs()
	storetesting.RunStoreTests(t, "FileStore(mem)", func() store.IStore {
		return NewFileStore(memFs)
	})
}

func Benchmark(b *testing.B) {
	memFs := afero.NewMemMapFs()
	storetesting.RunStoreBenchmarks(b, "FileStore(mem)", func() store.IStore {
		return NewFileStore(memFs)
	})
}

func TestFileFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/data/wowa.json"

	s := NewFileStore(fs)
	if err := s.Init(path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := s.Set(store.Key{"config", "game.dir"}, "/games/wow"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(store.Key{"packages", "retail", "details"}, `{"schemaVersion":3}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("store file was not written: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("store file is not a JSON array: %v", err)
	}
	want := []map[string]any{
		{"key": []any{"config", "game.dir"}, "value": "/games/wow"},
		{"key": []any{"packages", "retail", "details"}, "value": `{"schemaVersion":3}`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("store file mismatch (-want +got):\n%s", diff)
	}

	if exists, _ := afero.Exists(fs, path+".tmp"); exists {
		t.Errorf("temporary file must not be left behind")
	}
}

func TestDeleteRewritesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := filepath.Join("/data", "wowa.json")

	s := NewFileStore(fs)
	if err := s.Init(path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	_ = s.Set(store.Key{"a"}, "1")
	if err := s.Delete(store.Key{"a"}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	data, _ := afero.ReadFile(fs, path)
	if string(data) != "[]" {
		t.Errorf("Expected empty array on disk after deleting the last entry, got %s", data)
	}
}

func TestInitEmptyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/data/wowa.json", nil, 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(fs)
	if err := s.Init("/data/wowa.json"); err != nil {
		t.Fatalf("Init on an empty file should succeed, got %v", err)
	}
	values, _ := s.GetByPrefix(store.Key{})
	if len(values) != 0 {
		t.Errorf("Expected no entries, got %v", values)
	}
}

func TestInitCorruptedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/data/wowa.json", []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(fs)
	err := s.Init("/data/wowa.json")
	if !store.IsCode(err, store.RetCCorrupted) {
		t.Fatalf("Expected RetCCorrupted, got %v", err)
	}

	// a failed Init leaves the store uninitialized so it can be retried
	if err := s.Init("/data/other.json"); err != nil {
		t.Errorf("Init after a failed Init should succeed, got %v", err)
	}
}

func TestWriteFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	if err := afero.WriteFile(base, "/data/wowa.json", []byte(`[{"key":["kept"],"value":"1"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(afero.NewReadOnlyFs(base))
	if err := s.Init("/data/wowa.json"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	err := s.Set(store.Key{"a"}, "1")
	if !store.IsCode(err, store.RetCIOError) {
		t.Errorf("Expected RetCIOError on a read-only file system, got %v", err)
	}
	if _, found, _ := s.Get(store.Key{"a"}); found {
		t.Errorf("Expected a failed Set to leave no entry behind")
	}

	if err := s.Set(store.Key{"kept"}, "2"); !store.IsCode(err, store.RetCIOError) {
		t.Errorf("Expected RetCIOError on a read-only file system, got %v", err)
	}
	if value, _, _ := s.Get(store.Key{"kept"}); value != "1" {
		t.Errorf("Expected a failed update to keep the old value, got %q", value)
	}

	if err := s.Delete(store.Key{"kept"}); !store.IsCode(err, store.RetCIOError) {
		t.Errorf("Expected RetCIOError on a read-only file system, got %v", err)
	}
	if value, found, _ := s.Get(store.Key{"kept"}); !found || value != "1" {
		t.Errorf("Expected a failed Delete to keep the entry, got found=%v value=%q", found, value)
	}
}
