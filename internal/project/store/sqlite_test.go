package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"vctbuilder/pkg/testutil"
)

func openTestSQLite(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	st, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(t *testing.T) projectStore {
		return openTestSQLite(t, filepath.Join(t.TempDir(), "data", "projects.db"))
	}})
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.db")
	ctx := context.Background()

	st, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	updated := testutil.FixedTime.Add(90 * time.Minute)
	require.NoError(t, st.Save(ctx, newProject(testutil.TestIDs.Project1, "Identity", updated)))
	require.NoError(t, st.Health(ctx))
	require.NoError(t, st.Close())

	reopened := openTestSQLite(t, path)
	got, err := reopened.FindByID(ctx, testutil.TestIDs.Project1)
	require.NoError(t, err)
	assert.Equal(t, "Identity", got.Name)
	assert.True(t, got.UpdatedAt.Equal(updated))
	assert.True(t, got.CreatedAt.Equal(testutil.FixedTime))
	assert.Equal(t, "Ada", got.SampleData["given_name"])
}

func TestSQLiteStoreMigratesLegacyDocument(t *testing.T) {
	ctx := context.Background()
	st := openTestSQLite(t, filepath.Join(t.TempDir(), "projects.db"))
	_, err := st.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, document, sample_data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		testutil.TestIDs.Project1.String(), "Legacy", legacyDocument, `{}`,
		testutil.FixedTime.UnixNano(), testutil.FixedTime.UnixNano(),
	)
	require.NoError(t, err)

	got, err := st.FindByID(ctx, testutil.TestIDs.Project1)
	require.NoError(t, err)
	assertMigrated(t, got)
}
