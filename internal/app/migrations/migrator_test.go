package migrations

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionOf(t *testing.T) {
	assert.Equal(t, "001", VersionOf("migrations/001_init.sql"))
	assert.Equal(t, "002", VersionOf("002_indexes.sql"))
	assert.Equal(t, "seed.sql", VersionOf("seed.sql"))
}

func TestPendingFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_indexes.sql", "001_init.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := PendingFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "001_init.sql"),
		filepath.Join(dir, "002_indexes.sql"),
	}, files)

	_, err = PendingFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRepositoryMigrationsAreOrdered(t *testing.T) {
	files, err := PendingFiles(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001", VersionOf(files[0]))
}

func TestMigrator_MigrateFromDirectory(t *testing.T) {
	const checkApplied = `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`
	const recordApplied = `INSERT INTO schema_migrations (version) VALUES ($1)`

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_init.sql"), []byte("CREATE TABLE a (id INT);"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "002_more.sql"), []byte("CREATE TABLE b (id INT);"), 0o600))

	newMock := func(t *testing.T) pgxmock.PgxPoolIface {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		t.Cleanup(mock.Close)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
		return mock
	}

	t.Run("skips applied versions", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(checkApplied)).WithArgs("001").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(regexp.QuoteMeta(checkApplied)).WithArgs("002").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b (id INT);")).
			WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
		mock.ExpectExec(regexp.QuoteMeta(recordApplied)).WithArgs("002").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		applied, err := NewMigrator(mock, zerolog.Nop()).MigrateFromDirectory(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 1, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed file is rolled back", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(checkApplied)).WithArgs("001").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a (id INT);")).
			WillReturnError(errors.New("syntax error"))
		mock.ExpectRollback()

		applied, err := NewMigrator(mock, zerolog.Nop()).MigrateFromDirectory(context.Background(), dir)
		assert.ErrorContains(t, err, "001_init.sql")
		assert.Zero(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
