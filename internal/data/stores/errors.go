package stores

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mscartozzoni/noticeq/internal/core/logging"
	"github.com/mscartozzoni/noticeq/internal/data/db"
)

// Messages seen when the driver reports corruption without a result code,
// e.g. from the migration step.
var corruptionMessages = []string{
	"database disk image is malformed",
	"file is not a database",
	"database corruption",
}

func sqliteCode(err error) int {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()
	}
	return 0
}

// IsBusyError reports whether a history write lost a lock race with another
// noticeq process.
func IsBusyError(err error) bool {
	return err != nil && sqliteCode(err) == sqlite3.SQLITE_BUSY
}

// IsCorruptionError reports whether the history database file is unusable
// and should be moved aside.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}

	switch sqliteCode(err) {
	case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CANTOPEN:
		return true
	}

	msg := err.Error()
	return slices.ContainsFunc(corruptionMessages, func(m string) bool {
		return strings.Contains(msg, m)
	})
}

// RecoverFromCorruption renames the history database in dataDir, together
// with its -wal and -shm files, to "<file>.corrupt.<timestamp>" so the next
// open starts with empty history. It returns the backup path of the main
// file, or "" when there was none to move.
func RecoverFromCorruption(dataDir string, now time.Time) (string, error) {
	logger := logging.Component("history")

	dbPath := filepath.Join(dataDir, db.FileName)
	backup := fmt.Sprintf("%s.corrupt.%s", dbPath, now.Format("20060102-150405"))

	moved := false
	for _, suffix := range []string{"", "-wal", "-shm"} {
		err := os.Rename(dbPath+suffix, backup+suffix)
		switch {
		case err == nil:
			moved = moved || suffix == ""
			logger.Warn().Str("file", db.FileName+suffix).Str("backup", backup+suffix).Msg("moved corrupted history file aside")
		case errors.Is(err, fs.ErrNotExist):
		case suffix == "":
			return "", fmt.Errorf("move %s aside: %w", db.FileName, err)
		default:
			// A leftover -wal or -shm next to a fresh database makes SQLite
			// replay pages from the corrupted one.
			if rmErr := os.Remove(dbPath + suffix); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				return "", fmt.Errorf("remove %s%s: %w", db.FileName, suffix, err)
			}
			logger.Warn().Str("file", db.FileName+suffix).Msg("removed corrupted history file")
		}
	}

	if !moved {
		return "", nil
	}
	return backup, nil
}
