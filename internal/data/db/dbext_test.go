package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	dir := t.TempDir()
	database, err := Open(dir, DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database, dir
}

func TestOpen_creates_file_and_schema(t *testing.T) {
	database, dir := openTestDB(t)

	_, err := os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)

	var name string
	err = database.Conn().QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='notices'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "notices", name)
}

func TestOpen_is_idempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := Open(dir, DefaultOpenOptions())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(dir, DefaultOpenOptions())
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestWithTx_rolls_back_on_error(t *testing.T) {
	database, _ := openTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := database.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO notices (portal, notice_id, created_at) VALUES ('p', 'n1', 0)`)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, database.Conn().QueryRow(`SELECT COUNT(*) FROM notices`).Scan(&count))
	assert.Zero(t, count)
}
