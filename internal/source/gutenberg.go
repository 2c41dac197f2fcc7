// ABOUTME: Gutenberg text source with a zstd-compressed local cache
// ABOUTME: Fetches the ebook once, then serves paragraphs from the cache
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// cacheFile is the compressed copy of the raw ebook text
const cacheFile = "book.txt.zst"

// Gutenberg loads a Project Gutenberg plain-text ebook
type Gutenberg struct {
	url      string
	cacheDir string
	client   *http.Client
	logger   *slog.Logger
}

// NewGutenberg creates a source for url caching under cacheDir.
// A nil client uses http.DefaultClient; a nil logger discards output.
func NewGutenberg(url, cacheDir string, client *http.Client, logger *slog.Logger) *Gutenberg {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Gutenberg{
		url:      url,
		cacheDir: cacheDir,
		client:   client,
		logger:   logger,
	}
}

// CachePath returns the location of the compressed cache
func (g *Gutenberg) CachePath() string {
	return filepath.Join(g.cacheDir, cacheFile)
}

// URL returns the ebook address
func (g *Gutenberg) URL() string {
	return g.url
}

// Load returns the book's paragraphs, fetching it if it isn't cached
func (g *Gutenberg) Load(ctx context.Context) (*Book, error) {
	raw, err := g.rawText(ctx)
	if err != nil {
		return nil, err
	}

	body, err := StripGutenbergWrapper(raw)
	if err != nil {
		return nil, err
	}

	return NewBook(ExtractParagraphs(body)), nil
}

// Refresh discards the cache and fetches the book again
func (g *Gutenberg) Refresh(ctx context.Context) (*Book, error) {
	if err := os.Remove(g.CachePath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove cache: %w", err)
	}
	return g.Load(ctx)
}

func (g *Gutenberg) rawText(ctx context.Context) (string, error) {
	text, err := g.readCache()
	if err == nil {
		g.logger.Debug("using cached book text", "path", g.CachePath())
		return text, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		g.logger.Warn("cache unreadable, refetching", "path", g.CachePath(), "error", err)
	}

	text, err = g.fetch(ctx)
	if err != nil {
		return "", err
	}

	if err := g.writeCache(text); err != nil {
		// The run can continue without a cache
		g.logger.Warn("failed to cache book text", "error", err)
	} else {
		g.logger.Info("cached book text", "path", g.CachePath())
	}
	return text, nil
}

func (g *Gutenberg) fetch(ctx context.Context) (string, error) {
	g.logger.Info("fetching book", "url", g.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", g.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: %s", g.url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(body), nil
}

func (g *Gutenberg) readCache() (string, error) {
	f, err := os.Open(g.CachePath())
	if err != nil {
		return "", err
	}
	defer f.Close()

	decoder, err := zstd.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()

	data, err := io.ReadAll(decoder)
	if err != nil {
		return "", fmt.Errorf("decompress cache: %w", err)
	}
	return string(data), nil
}

func (g *Gutenberg) writeCache(text string) error {
	if err := os.MkdirAll(g.cacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(g.cacheDir, cacheFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	encoder, err := zstd.NewWriter(tmp)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := io.WriteString(encoder, text); err != nil {
		encoder.Close()
		tmp.Close()
		return fmt.Errorf("compress: %w", err)
	}
	if err := encoder.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("finalize compression: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}

	return os.Rename(tmp.Name(), g.CachePath())
}
