package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectVersionsTable(mock sqlmock.Sqlmock, applied ...string) {
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{"version"})
	for _, v := range applied {
		rows.AddRow(v)
	}
	mock.ExpectQuery(regexp.QuoteMeta(selectVersions)).WillReturnRows(rows)
}

func expectApply(mock sqlmock.Sqlmock, stmt, version string) {
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(insertVersion)).WithArgs(version).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestMigrateAppliesPendingFilesInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	migrations := fstest.MapFS{
		"0002_index.up.sql":      {Data: []byte("CREATE INDEX b")},
		"0001_projects.up.sql":   {Data: []byte("CREATE TABLE a")},
		"0001_projects.down.sql": {Data: []byte("DROP TABLE a")},
	}

	expectVersionsTable(mock)
	expectApply(mock, "CREATE TABLE a", "0001_projects")
	expectApply(mock, "CREATE INDEX b", "0002_index")

	require.NoError(t, Migrate(context.Background(), db, migrations))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateSkipsAppliedVersions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	migrations := fstest.MapFS{
		"0001_projects.up.sql": {Data: []byte("CREATE TABLE a")},
		"0002_index.up.sql":    {Data: []byte("CREATE INDEX b")},
	}

	expectVersionsTable(mock, "0001_projects")
	expectApply(mock, "CREATE INDEX b", "0002_index")

	require.NoError(t, Migrate(context.Background(), db, migrations))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateRollsBackFailingFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectVersionsTable(mock)
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE x").WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err = Migrate(context.Background(), db, fstest.MapFS{"0001_x.up.sql": {Data: []byte("CREATE TABLE x")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0001_x.up.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNilPool(t *testing.T) {
	var p *Pool
	assert.Error(t, p.Health(context.Background()))
	assert.NoError(t, p.Close())

	p, err := New(context.Background(), DefaultConfig(""))
	assert.NoError(t, err)
	assert.Nil(t, p)
}
