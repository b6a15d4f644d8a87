package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"vctbuilder/internal/project/models"
	"vctbuilder/pkg/platform/sentinel"
)

// InMemoryStore keeps projects in a map. Values are cloned on the way in and
// out so callers never share state with the store.
type InMemoryStore struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*models.Project
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{projects: make(map[uuid.UUID]*models.Project)}
}

// Save inserts or overwrites the project with the same ID.
func (s *InMemoryStore) Save(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

// List returns every project, most recently updated first.
func (s *InMemoryStore) List(_ context.Context) ([]*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Clone())
	}
	sortByRecency(out)
	return out, nil
}

func (s *InMemoryStore) snapshot() []*models.Project {
	out := make([]*models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	sortByRecency(out)
	return out
}

func sortByRecency(ps []*models.Project) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].UpdatedAt.Equal(ps[j].UpdatedAt) {
			return ps[i].ID.String() < ps[j].ID.String()
		}
		return ps[i].UpdatedAt.After(ps[j].UpdatedAt)
	})
}
