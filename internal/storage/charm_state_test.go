// ABOUTME: Tests for the charm-backed state store
// ABOUTME: Uses an in-memory stand-in for the charm KV client
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/harper/bookthread/internal/models"
)

type memKV struct {
	data   map[string][]byte
	closed bool
	syncs  int
	err    error
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Has(key string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.data[key]
	return ok, nil
}

func (m *memKV) GetJSON(key string, dest interface{}) error {
	return json.Unmarshal(m.data[key], dest)
}

func (m *memKV) SetJSON(key string, value interface{}) error {
	if m.err != nil {
		return m.err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = data
	return nil
}

func (m *memKV) Sync() error {
	if m.err != nil {
		return m.err
	}
	m.syncs++
	return nil
}

func (m *memKV) Close() error {
	m.closed = true
	return nil
}

func TestCharmStore_RoundTrip(t *testing.T) {
	kv := newMemKV()
	store := NewCharmStore(kv)

	state, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state.CurrentParagraph != 0 {
		t.Errorf("fresh CurrentParagraph = %d, want 0", state.CurrentParagraph)
	}

	if err := store.Save(context.Background(), &models.State{CurrentParagraph: 12, LastPostURI: "at://x"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, ok := kv.data["state:progress"]; !ok {
		t.Error("state should be stored under state:progress")
	}

	state, err = store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state.CurrentParagraph != 12 || state.LastPostURI != "at://x" {
		t.Errorf("Load() = %+v", state)
	}

	if err := store.Close(); err != nil || !kv.closed {
		t.Errorf("Close() error = %v, closed = %v", err, kv.closed)
	}
}

func TestCharmStore_Errors(t *testing.T) {
	kv := newMemKV()
	kv.err = errors.New("sync failed")
	store := NewCharmStore(kv)

	if _, err := store.Load(context.Background()); err == nil {
		t.Error("Load() should surface KV errors")
	}
	if err := store.Save(context.Background(), models.NewState()); err == nil {
		t.Error("Save() should surface KV errors")
	}
}

func TestCharmStore_Sync(t *testing.T) {
	kv := newMemKV()
	store := NewCharmStore(kv)

	if err := store.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if kv.syncs != 1 {
		t.Errorf("syncs = %d, want 1", kv.syncs)
	}

	kv.err = errors.New("offline")
	if err := store.Sync(); err == nil {
		t.Error("Sync() should surface the charm error")
	}
}
