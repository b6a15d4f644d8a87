package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"vctbuilder/internal/assets/models"
	"vctbuilder/pkg/platform/sentinel"
)

type MetadataSuite struct {
	suite.Suite
	path  string
	store *Metadata
}

func TestMetadataSuite(t *testing.T) {
	suite.Run(t, new(MetadataSuite))
}

func (s *MetadataSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "meta", "assets.json")
	var err error
	s.store, err = OpenMetadata(s.path)
	s.Require().NoError(err)
}

func (s *MetadataSuite) asset(name string) *models.Asset {
	id := models.NewID(time.Now())
	return &models.Asset{ID: id, Filename: id + ".png", Name: name, MimeType: "image/png"}
}

func (s *MetadataSuite) TestSaveListReopen() {
	ctx := context.Background()
	first := s.asset("first")
	second := s.asset("second")
	s.Require().NoError(s.store.Save(ctx, first))
	s.Require().NoError(s.store.Save(ctx, second))

	list, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("second", list[0].Name)

	reopened, err := OpenMetadata(s.path)
	s.Require().NoError(err)
	got, err := reopened.FindByID(ctx, first.ID)
	s.Require().NoError(err)
	s.Equal(first, got)
}

func (s *MetadataSuite) TestFindReturnsCopy() {
	ctx := context.Background()
	a := s.asset("logo")
	s.Require().NoError(s.store.Save(ctx, a))

	got, _ := s.store.FindByID(ctx, a.ID)
	got.Name = "changed"
	again, _ := s.store.FindByID(ctx, a.ID)
	s.Equal("logo", again.Name)
}

func (s *MetadataSuite) TestDelete() {
	ctx := context.Background()
	a := s.asset("logo")
	s.Require().NoError(s.store.Save(ctx, a))
	s.Require().NoError(s.store.Delete(ctx, a.ID))

	_, err := s.store.FindByID(ctx, a.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(ctx, a.ID), sentinel.ErrNotFound)
}

func (s *MetadataSuite) TestCorruptFile() {
	path := filepath.Join(s.T().TempDir(), "assets.json")
	s.Require().NoError(os.WriteFile(path, []byte("{"), 0o644))
	_, err := OpenMetadata(path)
	s.Error(err)
}

func TestBlobs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	b, err := NewBlobs(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, b.Dir())

	require.NoError(t, b.Write("a.png", []byte("png")))
	assert.Error(t, b.Write("a.png", []byte("again")), "existing files are never overwritten")

	data, err := b.Read("a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	require.NoError(t, b.Remove("a.png"))
	require.NoError(t, b.Remove("a.png"))
	_, err = b.Read("a.png")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	for _, bad := range []string{"", "../x.png", "sub/x.png", ".hidden"} {
		assert.ErrorIs(t, b.Write(bad, nil), sentinel.ErrInvalidInput, bad)
	}
}
