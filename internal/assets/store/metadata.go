// Package store persists asset records in a JSON metadata file and the
// uploaded bytes in a flat directory.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"vctbuilder/internal/assets/models"
	"vctbuilder/pkg/platform/sentinel"
)

// Metadata keeps every record in memory and rewrites the file on change.
type Metadata struct {
	mu     sync.RWMutex
	path   string
	assets map[string]*models.Asset
}

// OpenMetadata loads path; a missing or empty file starts an empty catalog.
func OpenMetadata(path string) (*Metadata, error) {
	m := &Metadata{path: path, assets: make(map[string]*models.Asset)}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(data) == 0) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read assets metadata: %w", err)
	}
	var records []*models.Asset
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode assets metadata: %w", err)
	}
	for _, a := range records {
		m.assets[a.ID] = a
	}
	return m, nil
}

func (m *Metadata) Save(_ context.Context, a *models.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, had := m.assets[a.ID]
	m.assets[a.ID] = a.Clone()
	if err := m.flush(); err != nil {
		if had {
			m.assets[a.ID] = prev
		} else {
			delete(m.assets, a.ID)
		}
		return err
	}
	return nil
}

func (m *Metadata) FindByID(_ context.Context, id string) (*models.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assets[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return a.Clone(), nil
}

func (m *Metadata) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.assets[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(m.assets, id)
	if err := m.flush(); err != nil {
		m.assets[id] = prev
		return err
	}
	return nil
}

// List returns records newest first. IDs sort by creation time.
func (m *Metadata) List(_ context.Context) ([]*models.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sorted(), nil
}

func (m *Metadata) sorted() []*models.Asset {
	out := make([]*models.Asset, 0, len(m.assets))
	for _, a := range m.assets {
		out = append(out, a.Clone())
	}
	slices.SortFunc(out, func(a, b *models.Asset) int {
		return strings.Compare(b.ID, a.ID)
	})
	return out
}

// flush writes through a temp file and rename. Caller holds mu.
func (m *Metadata) flush() error {
	data, err := json.MarshalIndent(m.sorted(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode assets metadata: %w", err)
	}
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".assets-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write assets metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close assets metadata: %w", err)
	}
	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return fmt.Errorf("replace assets metadata: %w", err)
	}
	return nil
}
