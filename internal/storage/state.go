// ABOUTME: Progress-state persistence between posting runs
// ABOUTME: StateStore interface plus the JSON file backend
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/harper/bookthread/internal/models"
)

// StateStore loads and saves the reading cursor
type StateStore interface {
	Load(ctx context.Context) (*models.State, error)
	Save(ctx context.Context, state *models.State) error
	Close() error
}

// FileStore keeps state as indented JSON in a single file
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore creates a store at path; the file is created on first Save
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the state file location
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the state. A missing file is a fresh start; an unreadable
// one is logged and treated the same way.
func (f *FileStore) Load(ctx context.Context) (*models.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var state models.State
	if err := json.Unmarshal(data, &state); err != nil {
		f.logger.Warn("failed to parse state file, using defaults", "path", f.path, "error", err)
		return models.NewState(), nil
	}
	return &state, nil
}

// Save writes the state atomically
func (f *FileStore) Save(ctx context.Context, state *models.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

// Close is a no-op for files
func (f *FileStore) Close() error {
	return nil
}
