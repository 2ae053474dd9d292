package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-backend/migrations"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_indexes.sql":       {Data: []byte("CREATE INDEX x;")},
		"001_activity_logs.sql": {Data: []byte("CREATE TABLE y;")},
		"999_reset.sql":         {Data: []byte("DROP TABLE y;")},
		"README.md":             {Data: []byte("docs")},
	}

	pending, err := PendingMigrations(fsys, map[string]bool{})
	require.NoError(t, err)
	assert.Equal(t, []string{"001_activity_logs.sql", "002_indexes.sql"}, pending)

	pending, err = PendingMigrations(fsys, map[string]bool{"001_activity_logs.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"002_indexes.sql"}, pending)
}

func TestRunMigrations_AppliesOnlyNewFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte("CREATE TABLE a;")},
		"002_b.sql": {Data: []byte("CREATE TABLE b;")},
	}
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT filename FROM schema_migrations").
		WillReturnRows(pgxmock.NewRows([]string{"filename"}).AddRow("001_a.sql"))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b;")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("002_b.sql").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	n, err := NewMigrator(mock, fsys, nil).RunMigrations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_FailedFileIsNotRecorded(t *testing.T) {
	fsys := fstest.MapFS{"001_a.sql": {Data: []byte("CREATE TABLE a;")}}
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("syntax error")
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT filename FROM schema_migrations").
		WillReturnRows(pgxmock.NewRows([]string{"filename"}))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a;")).WillReturnError(boom)

	_, err = NewMigrator(mock, fsys, nil).RunMigrations(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	pending, err := PendingMigrations(migrations.FS, nil)
	require.NoError(t, err)
	assert.Contains(t, pending, "001_activity_logs.sql")
}
