package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/wowa-cli/wowa/lib/store"
	"github.com/wowa-cli/wowa/lib/store/fstore"
)

// --------------------------------------------------------------------------
// Test schema: three versions of a bookmark
// --------------------------------------------------------------------------

type bookmarkV1 struct {
	URL string `json:"url"`
}

type bookmarkV2 struct {
	URLs []string `json:"urls"`
}

type bookmark struct {
	URLs  []string `json:"urls"`
	Count int      `json:"count"`
}

var (
	toV2 = Migrate(func(b bookmarkV1) bookmarkV2 {
		return bookmarkV2{URLs: []string{b.URL}}
	})
	toV3 = Migrate(func(b bookmarkV2) bookmark {
		return bookmark{URLs: b.URLs, Count: len(b.URLs)}
	})
)

func newStore(t *testing.T) store.IStore {
	t.Helper()
	s := fstore.NewFileStore(afero.NewMemMapFs())
	if err := s.Init("/data/store.json"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s
}

func newRepo(t *testing.T, s store.IStore) *Repository[bookmark] {
	t.Helper()
	repo, err := New[bookmark](s, 3, []Migration{toV2, toV3})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return repo
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestNewValidatesConfiguration(t *testing.T) {
	s := newStore(t)

	tests := []struct {
		name       string
		version    int
		migrations []Migration
		wantErr    bool
	}{
		{"version 1 without migrations", 1, nil, false},
		{"version 3 with two migrations", 3, []Migration{toV2, toV3}, false},
		{"version 0", 0, nil, true},
		{"too few migrations", 3, []Migration{toV2}, true},
		{"too many migrations", 1, []Migration{toV2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[bookmark](s, tt.version, tt.migrations)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if _, err := New[bookmark](nil, 1, nil); err == nil {
		t.Errorf("New() with a nil store should fail")
	}
}

func TestRoundTrip(t *testing.T) {
	s := newStore(t)
	repo := newRepo(t, s)
	key := store.Key{"bookmarks", "home"}
	want := bookmark{URLs: []string{"https://a.example", "https://b.example"}, Count: 2}

	if err := repo.Set(key, want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found, err := repo.Get(key)
	if err != nil || !found {
		t.Fatalf("Get failed: found=%v, err=%v", found, err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// the raw value is an envelope stamped with the repository version
	raw, _, _ := s.Get(key)
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("stored value is not an envelope: %v", err)
	}
	if env.SchemaVersion != 3 {
		t.Errorf("Expected schemaVersion 3, got %d", env.SchemaVersion)
	}
}

func TestGetMissing(t *testing.T) {
	repo := newRepo(t, newStore(t))

	got, found, err := repo.Get(store.Key{"bookmarks", "missing"})
	if err != nil || found {
		t.Errorf("Expected not found without error, got found=%v err=%v", found, err)
	}
	if diff := cmp.Diff(bookmark{}, got); diff != "" {
		t.Errorf("Expected zero value (-want +got):\n%s", diff)
	}
}

func TestMigrationChain(t *testing.T) {
	s := newStore(t)
	repo := newRepo(t, s)
	rawV1 := `{"url":"https://a.example"}`

	// manually apply migration 1 then migration 2
	step1, err := toV2(json.RawMessage(rawV1))
	if err != nil {
		t.Fatal(err)
	}
	step2, err := toV3(step1)
	if err != nil {
		t.Fatal(err)
	}
	var want bookmark
	if err := json.Unmarshal(step2, &want); err != nil {
		t.Fatal(err)
	}

	stored := map[string]string{
		"bare":            rawV1,
		"envelope v1":     `{"schemaVersion":1,"payload":` + rawV1 + `}`,
		"legacy envelope": `{"version":1,"value":` + rawV1 + `}`,
	}

	for name, raw := range stored {
		t.Run(name, func(t *testing.T) {
			key := store.Key{"bookmarks", name}
			if err := s.Set(key, raw); err != nil {
				t.Fatal(err)
			}
			got, found, err := repo.Get(key)
			if err != nil || !found {
				t.Fatalf("Get failed: found=%v, err=%v", found, err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("migrated value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPartialMigration(t *testing.T) {
	s := newStore(t)
	repo := newRepo(t, s)
	key := store.Key{"bookmarks", "v2"}

	if err := s.Set(key, `{"schemaVersion":2,"payload":{"urls":["x","y","z"]}}`); err != nil {
		t.Fatal(err)
	}

	got, _, err := repo.Get(key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := bookmark{URLs: []string{"x", "y", "z"}, Count: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNoDowngrade(t *testing.T) {
	chain := []Migration{toV2, toV3, toV3, toV3}

	for target := 1; target <= 5; target++ {
		t.Run(fmt.Sprintf("target=%d", target), func(t *testing.T) {
			s := newStore(t)
			repo, err := New[bookmark](s, target, chain[:target-1])
			if err != nil {
				t.Fatal(err)
			}

			key := store.Key{"bookmarks", "future"}
			raw := fmt.Sprintf(`{"schemaVersion":%d,"payload":{"urls":[]}}`, target+1)
			if err := s.Set(key, raw); err != nil {
				t.Fatal(err)
			}

			_, _, err = repo.Get(key)
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) || !errors.Is(err, ErrCannotDowngrade) {
				t.Fatalf("Expected SchemaError wrapping ErrCannotDowngrade, got %v", err)
			}
			if schemaErr.Stored != target+1 || schemaErr.Target != target {
				t.Errorf("Unexpected versions in error: %+v", schemaErr)
			}

			if _, err := repo.GetByPrefix(store.Key{"bookmarks"}); !errors.Is(err, ErrCannotDowngrade) {
				t.Errorf("Expected GetByPrefix to fail with ErrCannotDowngrade, got %v", err)
			}
		})
	}
}

func TestGetByPrefixMigratesEveryItem(t *testing.T) {
	s := newStore(t)
	repo := newRepo(t, s)

	_ = s.Set(store.Key{"bookmarks", "a"}, `{"url":"a"}`)
	_ = s.Set(store.Key{"bookmarks", "b"}, `{"schemaVersion":2,"payload":{"urls":["b"]}}`)
	_ = repo.Set(store.Key{"bookmarks", "c"}, bookmark{URLs: []string{"c"}, Count: 1})
	_ = s.Set(store.Key{"other", "d"}, `{"url":"d"}`)

	got, err := repo.GetByPrefix(store.Key{"bookmarks"})
	if err != nil {
		t.Fatalf("GetByPrefix failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 bookmarks, got %d", len(got))
	}
	for _, b := range got {
		if b.Count != 1 || len(b.URLs) != 1 {
			t.Errorf("bookmark not migrated: %+v", b)
		}
	}
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	repo := newRepo(t, s)
	key := store.Key{"bookmarks", "gone"}

	_ = repo.Set(key, bookmark{})
	if err := repo.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found, _ := s.Get(key); found {
		t.Errorf("Expected raw entry to be removed")
	}
}

func TestFailingMigration(t *testing.T) {
	s := newStore(t)
	broken := func(json.RawMessage) (json.RawMessage, error) {
		return nil, errors.New("boom")
	}
	repo, err := New[bookmark](s, 2, []Migration{broken})
	if err != nil {
		t.Fatal(err)
	}

	_ = s.Set(store.Key{"bookmarks", "x"}, `{"url":"x"}`)
	_, _, err = repo.Get(store.Key{"bookmarks", "x"})
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Errorf("Expected SchemaError, got %v", err)
	}
}

func TestDecodeRecord(t *testing.T) {
	tests := []struct {
		raw     string
		kind    recordKind
		version int
		wantErr bool
	}{
		{`{"schemaVersion":2,"payload":{}}`, kindEnvelope, 2, false},
		{`{"schemaVersion":2,"payload":{},"extra":true}`, kindEnvelope, 2, false},
		{`{"version":4,"value":{}}`, kindLegacyEnvelope, 4, false},
		// a payload that happens to carry a "version" field is not an envelope
		{`{"version":"1.2.3","value":"x","name":"n"}`, kindBare, 1, false},
		{`{"id":"x","version":"1.2.3"}`, kindBare, 1, false},
		{`{"schemaVersion":1}`, kindBare, 1, false},
		{`{"schemaVersion":0,"payload":{}}`, 0, 0, true},
		{`{"schemaVersion":"two","payload":{}}`, 0, 0, true},
		{`["a","b"]`, kindBare, 1, false},
		{`"https://example.com"`, kindBare, 1, false},
		{`42`, kindBare, 1, false},
		{`null`, kindBare, 1, false},
		{`not json`, 0, 0, true},
	}

	for _, tt := range tests {
		rec, err := decodeRecord(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("decodeRecord(%s) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if rec.kind != tt.kind || rec.version != tt.version {
			t.Errorf("decodeRecord(%s) = (%s, v%d), want (%s, v%d)", tt.raw, rec.kind, rec.version, tt.kind, tt.version)
		}
	}
}

func TestNonObjectPayloadIsBare(t *testing.T) {
	s := newStore(t)
	strs, err := New[[]string](s, 2, []Migration{
		Migrate(func(v []string) []string { return append(v, "migrated") }),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := s.Set(store.Key{"list"}, `["a"]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, found, err := strs.Get(store.Key{"list"})
	if err != nil || !found {
		t.Fatalf("Get failed: found=%v err=%v", found, err)
	}
	if diff := cmp.Diff([]string{"a", "migrated"}, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}

	// the decode into the payload type reports the mismatch
	if err := s.Set(store.Key{"number"}, `42`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, _, err := newRepo(t, s).Get(store.Key{"number"}); err == nil {
		t.Errorf("Expected a decode error for a number read as bookmark")
	}
}
