package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mscartozzoni/noticeq/internal/core/notice"
	"github.com/mscartozzoni/noticeq/internal/data/db"
	"github.com/mscartozzoni/noticeq/internal/toast"
)

const busyRetries = 3

// Entry is one recorded notice.
type Entry struct {
	Seq    int64
	Portal string
	Notice notice.Notice
}

// HistoryStore records every notice created by a dispatcher using SQLite.
type HistoryStore struct {
	db         *db.DB
	maxEntries int
}

var _ toast.Recorder = (*HistoryStore)(nil)

// NewHistoryStore creates a new SQLite-backed history store. maxEntries caps
// the rows kept per portal; 0 = unlimited retention.
func NewHistoryStore(db *db.DB, maxEntries int) *HistoryStore {
	return &HistoryStore{db: db, maxEntries: maxEntries}
}

// Record persists n under portal and prunes the portal's oldest rows beyond
// the retention limit.
func (s *HistoryStore) Record(ctx context.Context, portal string, n notice.Notice) error {
	var err error
	for range busyRetries {
		err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
			if err := insertNotice(ctx, tx, portal, n); err != nil {
				return err
			}
			return s.pruneTx(ctx, tx, portal)
		})
		if !IsBusyError(err) {
			break
		}
		log.Warn().Ctx(ctx).Err(err).Msg("history database busy, retrying")
	}
	if err != nil {
		return fmt.Errorf("record notice %s: %w", n.ID, err)
	}
	return nil
}

func insertNotice(ctx context.Context, tx *sql.Tx, portal string, n notice.Notice) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO notices (portal, notice_id, title, description, variant, ttl_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		portal, n.ID, n.Title, n.Description, string(n.Variant), n.TTL.Milliseconds(), n.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert notice: %w", err)
	}
	return nil
}

func (s *HistoryStore) pruneTx(ctx context.Context, tx *sql.Tx, portal string) error {
	if s.maxEntries <= 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		DELETE FROM notices
		WHERE portal = ? AND seq NOT IN (
			SELECT seq FROM notices WHERE portal = ? ORDER BY seq DESC LIMIT ?
		)`,
		portal, portal, s.maxEntries,
	)
	if err != nil {
		return fmt.Errorf("prune notices: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. An empty portal lists all
// portals; limit <= 0 lists everything.
func (s *HistoryStore) List(ctx context.Context, portal string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT seq, portal, notice_id, title, description, variant, ttl_ms, created_at
		FROM notices
		WHERE ? = '' OR portal = ?
		ORDER BY seq DESC
		LIMIT ?`,
		portal, portal, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []Entry
	for rows.Next() {
		var (
			e         Entry
			variant   string
			ttlMs     int64
			createdAt int64
		)
		if err := rows.Scan(&e.Seq, &e.Portal, &e.Notice.ID, &e.Notice.Title, &e.Notice.Description, &variant, &ttlMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notice: %w", err)
		}
		e.Notice.Variant = notice.Variant(variant)
		e.Notice.Visible = true
		e.Notice.TTL = time.Duration(ttlMs) * time.Millisecond
		e.Notice.CreatedAt = time.Unix(0, createdAt)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}

	return result, nil
}

// Clear deletes the history of a portal, or of every portal when portal is
// empty. It returns the number of rows removed.
func (s *HistoryStore) Clear(ctx context.Context, portal string) (int64, error) {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM notices WHERE ? = '' OR portal = ?`, portal, portal)
	if err != nil {
		return 0, fmt.Errorf("clear notices: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear notices: %w", err)
	}
	return n, nil
}

// Count returns the number of recorded notices for portal, or for every
// portal when portal is empty.
func (s *HistoryStore) Count(ctx context.Context, portal string) (int64, error) {
	var count int64
	err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM notices WHERE ? = '' OR portal = ?`, portal, portal).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count notices: %w", err)
	}
	return count, nil
}
