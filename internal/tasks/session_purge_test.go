package tasks

import (
	"database/sql"
	"os"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionsDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := "./test_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)

	_, err = db.Exec(`CREATE TABLE sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);`)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	return db
}

func TestNewSessionPurger_InvalidSchedule(t *testing.T) {
	db := setupSessionsDB(t)

	_, err := NewSessionPurger(db, "not a schedule")
	assert.Error(t, err)
}

func TestPurge_RemovesOnlyExpiredSessions(t *testing.T) {
	db := setupSessionsDB(t)

	// Expiry is stored as a julian day number
	_, err := db.Exec(`INSERT INTO sessions (token, data, expiry) VALUES
		('expired', x'00', julianday('now', '-1 hour')),
		('live',    x'00', julianday('now', '+1 hour'))`)
	require.NoError(t, err)

	purger, err := NewSessionPurger(db, "0 * * * *")
	require.NoError(t, err)

	purged, err := purger.Purge()
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	var remaining string
	require.NoError(t, db.QueryRow("SELECT token FROM sessions").Scan(&remaining))
	assert.Equal(t, "live", remaining)
}

func TestPurge_EmptyTable(t *testing.T) {
	db := setupSessionsDB(t)

	purger, err := NewSessionPurger(db, "0 * * * *")
	require.NoError(t, err)

	purged, err := purger.Purge()
	require.NoError(t, err)
	assert.Zero(t, purged)
}
