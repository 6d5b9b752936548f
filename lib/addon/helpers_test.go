package addon

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"github.com/wowa-cli/wowa/lib/store"
	"github.com/wowa-cli/wowa/lib/store/fstore"
)

const testGameDir = "/games/wow"

type staticSettings string

func (s staticSettings) GameDir() (string, error) {
	return string(s), nil
}

// fakeCatalog serves candidates for "fake:<id>" identifiers from memory.
type fakeCatalog struct {
	mu           sync.Mutex
	candidates   map[string][]Candidate // by query
	files        map[string]FileMetadata
	archives     map[string][]byte // by file id
	searchErrs   map[string]error
	downloadErr  error
	downloads    int
	downloadedBy map[string]int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		candidates:   map[string][]Candidate{},
		files:        map[string]FileMetadata{},
		archives:     map[string][]byte{},
		searchErrs:   map[string]error{},
		downloadedBy: map[string]int{},
	}
}

// publish makes id available for retail with a single file.
func (c *fakeCatalog) publish(t *testing.T, id, label string, files map[string]string) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	fileID := id + "@" + label
	c.candidates[id] = []Candidate{{
		ID:         id,
		ExternalID: "ext-" + id,
		Name:       strings.ToUpper(id),
		Author:     "tester",
		URL:        "fake:" + id,
		Releases:   []Release{{Variant: Retail, FileID: fileID}},
	}}
	c.files[fileID] = FileMetadata{FileID: fileID, VersionLabel: label, DownloadURL: "mem://" + fileID}
	c.archives[fileID] = zipBytes(t, files)
}

func (c *fakeCatalog) Name() string {
	return "fake"
}

func (c *fakeCatalog) Accepts(identifier string) (string, bool) {
	if !strings.HasPrefix(identifier, "fake:") {
		return "", false
	}
	return strings.TrimPrefix(identifier, "fake:"), true
}

func (c *fakeCatalog) SearchByIdentifier(_ context.Context, query string, _ Variant) ([]Candidate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.searchErrs[query]; err != nil {
		return nil, err
	}
	return c.candidates[query], nil
}

func (c *fakeCatalog) FetchFileMetadata(_ context.Context, _ string, fileID string) (FileMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	file, ok := c.files[fileID]
	if !ok {
		return FileMetadata{}, errors.New("unknown file " + fileID)
	}
	return file, nil
}

func (c *fakeCatalog) Download(_ context.Context, file FileMetadata) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.downloadErr != nil {
		return nil, c.downloadErr
	}
	c.downloads++
	c.downloadedBy[file.FileID]++
	return c.archives[file.FileID], nil
}

func (c *fakeCatalog) downloadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.downloads
}

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// stepClock returns a clock advancing one minute per call.
func stepClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Minute)
		return now
	}
}

type fixture struct {
	fs      afero.Fs
	store   store.IStore
	repo    *Repository
	catalog *fakeCatalog
	manager *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()

	s := fstore.NewFileStore(fs)
	if err := s.Init("/data/wowa.json"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	repo, err := NewRepository(s)
	if err != nil {
		t.Fatalf("NewRepository failed: %v", err)
	}

	catalog := newFakeCatalog()
	manager := NewManager(repo, staticSettings(testGameDir),
		WithCatalogs(catalog),
		WithFs(fs),
		WithClock(stepClock()),
		WithConcurrency(2),
	)
	return &fixture{fs: fs, store: s, repo: repo, catalog: catalog, manager: manager}
}

func (f *fixture) installPath(parts ...string) string {
	dir, _ := InstallDir(testGameDir, Retail)
	return strings.Join(append([]string{dir}, parts...), "/")
}

func (f *fixture) exists(t *testing.T, parts ...string) bool {
	t.Helper()
	ok, err := afero.Exists(f.fs, f.installPath(parts...))
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	return ok
}
