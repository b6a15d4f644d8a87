package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"vctbuilder/internal/project/models"
	"vctbuilder/pkg/platform/sentinel"
	"vctbuilder/pkg/testutil"
)

// projectStore is the behavior every adapter shares.
type projectStore interface {
	Save(ctx context.Context, p *models.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Project, error)
}

func newProject(id uuid.UUID, name string, updated time.Time) *models.Project {
	return &models.Project{
		ID:         id,
		Name:       name,
		VCT:        testutil.NewDocumentBuilder().WithClaim("Given name", "given_name").Build(),
		SampleData: map[string]string{"given_name": "Ada"},
		CreatedAt:  testutil.FixedTime,
		UpdatedAt:  updated,
	}
}

type StoreSuite struct {
	suite.Suite
	newStore func(t *testing.T) projectStore
	store    projectStore
}

func (s *StoreSuite) SetupTest() {
	s.store = s.newStore(s.T())
}

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(*testing.T) projectStore { return NewInMemoryStore() }})
}

func (s *StoreSuite) TestSaveAndFind() {
	ctx := context.Background()
	p := newProject(testutil.TestIDs.Project1, "Identity", testutil.FixedTime)
	s.Require().NoError(s.store.Save(ctx, p))

	got, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.Name, got.Name)
	s.Equal(p.VCT, got.VCT)
	s.Equal(p.SampleData, got.SampleData)
}

func (s *StoreSuite) TestSnapshotsAreIndependent() {
	ctx := context.Background()
	p := newProject(testutil.TestIDs.Project1, "Identity", testutil.FixedTime)
	s.Require().NoError(s.store.Save(ctx, p))

	p.VCT.Name = "mutated after save"
	p.SampleData["given_name"] = "mutated"

	got, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Identity Credential", got.VCT.Name)
	s.Equal("Ada", got.SampleData["given_name"])

	got.VCT.Name = "mutated after load"
	again, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Identity Credential", again.VCT.Name)
}

func (s *StoreSuite) TestSaveOverwrites() {
	ctx := context.Background()
	p := newProject(testutil.TestIDs.Project1, "Identity", testutil.FixedTime)
	s.Require().NoError(s.store.Save(ctx, p))

	p.Name = "Renamed"
	p.UpdatedAt = testutil.FixedTime.Add(time.Minute)
	s.Require().NoError(s.store.Save(ctx, p))

	all, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("Renamed", all[0].Name)
}

func (s *StoreSuite) TestListOrdersByUpdatedDesc() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, newProject(testutil.TestIDs.Project1, "old", testutil.FixedTime)))
	s.Require().NoError(s.store.Save(ctx, newProject(testutil.TestIDs.Project2, "new", testutil.FixedTime.Add(2*time.Hour))))
	s.Require().NoError(s.store.Save(ctx, newProject(testutil.TestIDs.Project3, "mid", testutil.FixedTime.Add(time.Hour))))

	all, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal([]string{"new", "mid", "old"}, []string{all[0].Name, all[1].Name, all[2].Name})
}

func (s *StoreSuite) TestDelete() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, newProject(testutil.TestIDs.Project1, "Identity", testutil.FixedTime)))

	s.Require().NoError(s.store.Delete(ctx, testutil.TestIDs.Project1))
	_, err := s.store.FindByID(ctx, testutil.TestIDs.Project1)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(ctx, testutil.TestIDs.Project1), sentinel.ErrNotFound)
}

func TestInMemoryStoreConcurrentSaves(t *testing.T) {
	st := NewInMemoryStore()
	result := testutil.RunConcurrent(50, func(idx int) error {
		return st.Save(context.Background(), newProject(uuid.New(), "p", testutil.FixedTime.Add(time.Duration(idx)*time.Second)))
	})
	assert.Equal(t, 50, result.Successes)
	assert.Zero(t, result.Uncoded)

	all, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 50)
}
