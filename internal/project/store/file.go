package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"vctbuilder/internal/project/models"
	"vctbuilder/pkg/platform/sentinel"
)

// FileStore is an InMemoryStore that rewrites a JSON file after every change.
// The file holds the project list in recency order.
type FileStore struct {
	*InMemoryStore
	path string
}

// NewFileStore loads path if it exists. A missing file starts empty.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{InMemoryStore: NewInMemoryStore(), path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read projects file: %w", err)
	}
	if len(data) == 0 {
		return fs, nil
	}

	var projects []*models.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("decode projects file: %w", err)
	}
	for _, p := range projects {
		fs.projects[p.ID] = p
	}
	return fs, nil
}

func (s *FileStore) Save(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.projects[p.ID]
	s.projects[p.ID] = p.Clone()
	if err := s.flush(); err != nil {
		if had {
			s.projects[p.ID] = prev
		} else {
			delete(s.projects, p.ID)
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.projects[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.projects, id)
	if err := s.flush(); err != nil {
		s.projects[id] = prev
		return err
	}
	return nil
}

// flush writes through a temp file and rename. Caller holds mu.
func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode projects: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create projects dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".projects-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write projects: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close projects file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace projects file: %w", err)
	}
	return nil
}
