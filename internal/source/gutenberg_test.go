// ABOUTME: Tests for the Gutenberg fetcher and its compressed cache
// ABOUTME: Uses an httptest server in place of gutenberg.org
package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
)

func newBookServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestGutenberg_LoadFetchesAndCaches(t *testing.T) {
	srv, hits := newBookServer(t, http.StatusOK, sampleBook)
	dir := t.TempDir()
	g := NewGutenberg(srv.URL, dir, srv.Client(), nil)

	book, err := g.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if book.Len() != 4 {
		t.Errorf("Len() = %d, want 4", book.Len())
	}
	if _, err := os.Stat(g.CachePath()); err != nil {
		t.Errorf("cache not written: %v", err)
	}

	// Second load comes from the cache
	book, err = g.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if book.Len() != 4 {
		t.Errorf("cached Len() = %d, want 4", book.Len())
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
}

func TestGutenberg_Refresh(t *testing.T) {
	srv, hits := newBookServer(t, http.StatusOK, sampleBook)
	g := NewGutenberg(srv.URL, t.TempDir(), srv.Client(), nil)

	if _, err := g.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2", hits.Load())
	}
}

func TestGutenberg_HTTPError(t *testing.T) {
	srv, _ := newBookServer(t, http.StatusNotFound, "missing")
	g := NewGutenberg(srv.URL, t.TempDir(), srv.Client(), nil)

	if _, err := g.Load(context.Background()); err == nil {
		t.Error("Load() should fail on 404")
	}
	if _, err := os.Stat(g.CachePath()); !os.IsNotExist(err) {
		t.Error("failed fetch should not create a cache")
	}
}

func TestGutenberg_CorruptCacheRefetches(t *testing.T) {
	srv, hits := newBookServer(t, http.StatusOK, sampleBook)
	dir := t.TempDir()
	g := NewGutenberg(srv.URL, dir, srv.Client(), nil)

	if err := os.WriteFile(g.CachePath(), []byte("not zstd"), 0o644); err != nil {
		t.Fatal(err)
	}

	book, err := g.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if book.Len() != 4 || hits.Load() != 1 {
		t.Errorf("Len() = %d, hits = %d; want 4, 1", book.Len(), hits.Load())
	}
}

func TestGutenberg_MissingMarkers(t *testing.T) {
	srv, _ := newBookServer(t, http.StatusOK, "no markers here")
	g := NewGutenberg(srv.URL, t.TempDir(), srv.Client(), nil)

	if _, err := g.Load(context.Background()); err == nil {
		t.Error("Load() should fail without Gutenberg markers")
	}
}
