package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vctbuilder/pkg/platform/sentinel"
	"vctbuilder/pkg/testutil"
)

var projectColumns = []string{"id", "name", "document", "sample_data", "created_at", "updated_at"}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func TestPostgresSave(t *testing.T) {
	st, mock := newMockStore(t)
	p := newProject(testutil.TestIDs.Project1, "Identity", testutil.FixedTime)
	doc, err := json.Marshal(p.VCT)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO projects")).
		WithArgs(p.ID, "Identity", doc, []byte(`{"given_name":"Ada"}`), p.CreatedAt, p.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, st.Save(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveMissingTable(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO projects").
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "projects" does not exist`})

	err := st.Save(context.Background(), newProject(testutil.TestIDs.Project1, "Identity", testutil.FixedTime))
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestPostgresFindByID(t *testing.T) {
	st, mock := newMockStore(t)
	p := newProject(testutil.TestIDs.Project1, "Identity", testutil.FixedTime)
	doc, err := json.Marshal(p.VCT)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects")).
		WithArgs(p.ID).
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow(p.ID.String(), p.Name, doc, []byte(`{"given_name":"Ada"}`), p.CreatedAt, p.UpdatedAt))

	got, err := st.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.VCT, got.VCT)
	assert.Equal(t, "Ada", got.SampleData["given_name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByIDMigratesLegacyDocument(t *testing.T) {
	st, mock := newMockStore(t)
	id := testutil.TestIDs.Project1

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow(id.String(), "Legacy", []byte(legacyDocument), []byte(`{}`), testutil.FixedTime, testutil.FixedTime))

	got, err := st.FindByID(context.Background(), id)
	require.NoError(t, err)
	assertMigrated(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByIDNotFound(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectQuery("FROM projects").WillReturnError(sql.ErrNoRows)

	_, err := st.FindByID(context.Background(), testutil.TestIDs.Project1)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresDelete(t *testing.T) {
	t.Run("removes row", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM projects")).
			WithArgs(testutil.TestIDs.Project1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, st.Delete(context.Background(), testutil.TestIDs.Project1))
	})

	t.Run("missing row is not found", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectExec("DELETE FROM projects").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, st.Delete(context.Background(), testutil.TestIDs.Project1), sentinel.ErrNotFound)
	})

	t.Run("driver error is wrapped", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectExec("DELETE FROM projects").WillReturnError(errors.New("connection reset"))
		err := st.Delete(context.Background(), testutil.TestIDs.Project1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "delete project")
	})
}

func TestPostgresList(t *testing.T) {
	st, mock := newMockStore(t)
	a := newProject(testutil.TestIDs.Project1, "newer", testutil.FixedTime.Add(time.Hour))
	b := newProject(testutil.TestIDs.Project2, "older", testutil.FixedTime)
	docA, _ := json.Marshal(a.VCT)
	docB, _ := json.Marshal(b.VCT)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY updated_at DESC")).
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow(a.ID.String(), a.Name, docA, []byte(`{}`), a.CreatedAt, a.UpdatedAt).
			AddRow(b.ID.String(), b.Name, docB, nil, b.CreatedAt, b.UpdatedAt))

	all, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "newer", all[0].Name)
	assert.NotNil(t, all[1].SampleData)
	assert.NoError(t, mock.ExpectationsWereMet())
}
