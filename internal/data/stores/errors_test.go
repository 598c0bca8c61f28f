package stores

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscartozzoni/noticeq/internal/data/db"
)

func TestIsCorruptionError_message(t *testing.T) {
	assert.True(t, IsCorruptionError(errors.New("file is not a database")))
	assert.True(t, IsCorruptionError(fmt.Errorf("migrate: %w", errors.New("database disk image is malformed"))))
	assert.False(t, IsCorruptionError(errors.New("disk full")))
	assert.False(t, IsCorruptionError(nil))
}

func TestIsBusyError_plain_errors(t *testing.T) {
	assert.False(t, IsBusyError(nil))
	assert.False(t, IsBusyError(errors.New("database is locked")))
}

func TestRecoverFromCorruption_moves_files_aside(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, db.FileName)
	require.NoError(t, os.WriteFile(dbPath, []byte("garbage"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("garbage"), 0o644))

	at := time.Date(2024, 3, 5, 14, 30, 0, 0, time.Local)
	backup, err := RecoverFromCorruption(dir, at)
	require.NoError(t, err)

	assert.Equal(t, dbPath+".corrupt.20240305-143000", backup)
	assert.FileExists(t, backup)
	assert.FileExists(t, backup+"-wal")
	assert.NoFileExists(t, dbPath)
	assert.NoFileExists(t, dbPath+"-wal")

	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	require.NoError(t, database.Close())
}

func TestRecoverFromCorruption_missing_files(t *testing.T) {
	backup, err := RecoverFromCorruption(t.TempDir(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, backup)
}
