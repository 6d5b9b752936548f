package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wowa-cli/wowa/lib/addon"
)

var _ addon.Catalog = (*Client)(nil)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	releaseBody := func(r *http.Request) string {
		return `{"id": 10, "tag_name": "5.8.0", "assets": [
			{"id": 1, "name": "WeakAuras-5.8.0.tar.gz", "url": "http://` + r.Host + `/assets/1"},
			{"id": 2, "name": "WeakAuras-5.8.0.zip", "url": "http://` + r.Host + `/assets/2"}
		]}`
	}
	mux.HandleFunc("/repos/WeakAuras/WeakAuras2/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(releaseBody(r)))
	})
	mux.HandleFunc("/repos/WeakAuras/WeakAuras2/releases/10", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(releaseBody(r)))
	})
	mux.HandleFunc("/assets/2", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/octet-stream" {
			t.Errorf("Unexpected Accept header %q", r.Header.Get("Accept"))
		}
		if r.Header.Get("Authorization") != "token secret" {
			t.Errorf("Unexpected Authorization header %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte("zip-bytes"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchFetchDownload(t *testing.T) {
	srv := newTestServer(t)
	c := New("secret", WithBaseURL(srv.URL))
	ctx := context.Background()

	candidates, err := c.SearchByIdentifier(ctx, "WeakAuras/WeakAuras2", addon.Retail)
	if err != nil {
		t.Fatalf("SearchByIdentifier failed: %v", err)
	}
	want := []addon.Candidate{{
		ID:         "weakauras2",
		ExternalID: "WeakAuras/WeakAuras2",
		Name:       "WeakAuras2",
		Author:     "WeakAuras",
		URL:        "https://github.com/WeakAuras/WeakAuras2",
		Releases: []addon.Release{
			{Variant: addon.Retail, FileID: "10:2"},
			{Variant: addon.Classic, FileID: "10:2"},
		},
	}}
	if diff := cmp.Diff(want, candidates); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}

	file, err := c.FetchFileMetadata(ctx, "WeakAuras/WeakAuras2", "10:2")
	if err != nil {
		t.Fatalf("FetchFileMetadata failed: %v", err)
	}
	if file.VersionLabel != "5.8.0" {
		t.Errorf("Expected version 5.8.0, got %q", file.VersionLabel)
	}

	data, err := c.Download(ctx, file)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if string(data) != "zip-bytes" {
		t.Errorf("Unexpected archive %q", data)
	}

	if _, err := c.FetchFileMetadata(ctx, "WeakAuras/WeakAuras2", "10:99"); !errors.Is(err, addon.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown asset, got %v", err)
	}
}

func TestSearchWithoutRelease(t *testing.T) {
	srv := newTestServer(t)
	c := New("", WithBaseURL(srv.URL))

	candidates, err := c.SearchByIdentifier(context.Background(), "someone/unreleased", addon.Retail)
	if err != nil {
		t.Fatalf("SearchByIdentifier failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Expected no candidates, got %v", candidates)
	}
}

func TestParseFileID(t *testing.T) {
	rel, ast, err := parseFileID("10:2")
	if err != nil || rel != 10 || ast != 2 {
		t.Errorf("parseFileID = %d, %d, %v", rel, ast, err)
	}
	for _, id := range []string{"10", "a:2", "10:b"} {
		if _, _, err := parseFileID(id); err == nil {
			t.Errorf("Expected %q to be rejected", id)
		}
	}
}

func TestLatestRelease(t *testing.T) {
	srv := newTestServer(t)
	c := New("secret", WithBaseURL(srv.URL))
	ctx := context.Background()

	rel, err := c.LatestRelease(ctx, "WeakAuras/WeakAuras2")
	if err != nil {
		t.Fatalf("LatestRelease failed: %v", err)
	}
	if rel.TagName != "5.8.0" {
		t.Errorf("Expected tag 5.8.0, got %q", rel.TagName)
	}
	a, ok := rel.AssetNamed("WeakAuras-5.8.0.zip")
	if !ok || a.ID != 2 {
		t.Fatalf("AssetNamed = %v, %v", a, ok)
	}
	if _, ok := rel.AssetNamed("missing"); ok {
		t.Error("Expected no asset called missing")
	}

	data, err := c.DownloadAsset(ctx, a)
	if err != nil {
		t.Fatalf("DownloadAsset failed: %v", err)
	}
	if string(data) != "zip-bytes" {
		t.Errorf("Unexpected asset content %q", data)
	}

	if _, err := c.LatestRelease(ctx, "someone/unreleased"); !errors.Is(err, addon.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
