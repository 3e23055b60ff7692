package db_test

import (
	"database/sql"
	"net/url"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"precis/backend/internal/db"

	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	database, err := db.Open(dbPath)
	require.NoError(t, err)
	require.NotNil(t, database)
	defer database.Close()

	for _, table := range []string{"settings", "summary_runs"} {
		var name string
		err = database.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err)
		require.Equal(t, table, name)
	}
}

func TestOpen_Twice(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	first, err := db.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.Open(dbPath)
	require.NoError(t, err, "reopening an up-to-date database must not fail")
	require.NoError(t, second.Close())
}

// Pragmas applied via Exec only affect one pooled connection, so they
// must live in the DSN.
func TestBuildDSN_AllPragmasInDSN(t *testing.T) {
	dsn := db.BuildDSN("mydb.sqlite")
	require.Contains(t, dsn, "file:mydb.sqlite")

	decodedDSN, err := url.QueryUnescape(dsn)
	require.NoError(t, err)

	expectedPragmas := []string{
		"journal_mode(WAL)",
		"foreign_keys(ON)",
		"busy_timeout(30000)",
		"synchronous(NORMAL)",
	}

	for _, pragma := range expectedPragmas {
		require.Contains(t, decodedDSN, pragma, "DSN must contain pragma: "+pragma)
	}
}

func TestMigrate_ClosedDB(t *testing.T) {
	database, err := sql.Open("sqlite", "file::memory:?cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Close())

	err = db.Migrate(database)
	require.Error(t, err)
}
