package stores

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscartozzoni/noticeq/internal/core/notice"
	"github.com/mscartozzoni/noticeq/internal/data/db"
)

func openHistory(t *testing.T, maxEntries int) *HistoryStore {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err, "Open")
	t.Cleanup(func() { _ = database.Close() })
	return NewHistoryStore(database, maxEntries)
}

func testNotice(id string, created time.Time) notice.Notice {
	return notice.Notice{
		ID:          id,
		Title:       "title " + id,
		Description: "desc " + id,
		Variant:     notice.VariantWarning,
		Visible:     true,
		CreatedAt:   created,
		TTL:         1500 * time.Millisecond,
	}
}

func TestHistoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("record and list", func(t *testing.T) {
		store := openHistory(t, 0)
		now := time.Now()

		require.NoError(t, store.Record(ctx, "patient", testNotice("n1", now)))

		entries, err := store.List(ctx, "patient", 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		got := entries[0]
		assert.Positive(t, got.Seq)
		assert.Equal(t, "patient", got.Portal)
		assert.Equal(t, "n1", got.Notice.ID)
		assert.Equal(t, "title n1", got.Notice.Title)
		assert.Equal(t, "desc n1", got.Notice.Description)
		assert.Equal(t, notice.VariantWarning, got.Notice.Variant)
		assert.Equal(t, 1500*time.Millisecond, got.Notice.TTL)
		assert.Equal(t, now.UnixNano(), got.Notice.CreatedAt.UnixNano())
	})

	t.Run("list returns newest first", func(t *testing.T) {
		store := openHistory(t, 0)
		base := time.Now()

		for i, id := range []string{"first", "second", "third"} {
			require.NoError(t, store.Record(ctx, "doctor", testNotice(id, base.Add(time.Duration(i)*time.Second))))
		}

		entries, err := store.List(ctx, "doctor", 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "third", entries[0].Notice.ID)
		assert.Equal(t, "first", entries[2].Notice.ID)

		limited, err := store.List(ctx, "doctor", 2)
		require.NoError(t, err)
		assert.Len(t, limited, 2)
	})

	t.Run("portal filter", func(t *testing.T) {
		store := openHistory(t, 0)
		now := time.Now()

		require.NoError(t, store.Record(ctx, "patient", testNotice("p1", now)))
		require.NoError(t, store.Record(ctx, "financial", testNotice("f1", now)))
		require.NoError(t, store.Record(ctx, "financial", testNotice("f2", now)))

		fin, err := store.List(ctx, "financial", 0)
		require.NoError(t, err)
		assert.Len(t, fin, 2)

		all, err := store.List(ctx, "", 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		count, err := store.Count(ctx, "patient")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("retention per portal", func(t *testing.T) {
		store := openHistory(t, 2)
		now := time.Now()

		for i := range 5 {
			require.NoError(t, store.Record(ctx, "inbox", testNotice(fmt.Sprintf("i%d", i), now)))
		}
		require.NoError(t, store.Record(ctx, "budgeting", testNotice("b0", now)))

		entries, err := store.List(ctx, "inbox", 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "i4", entries[0].Notice.ID)
		assert.Equal(t, "i3", entries[1].Notice.ID)

		count, err := store.Count(ctx, "budgeting")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "other portals are not pruned")
	})

	t.Run("duplicate notice id is rejected", func(t *testing.T) {
		store := openHistory(t, 0)
		now := time.Now()

		require.NoError(t, store.Record(ctx, "patient", testNotice("dup", now)))
		assert.Error(t, store.Record(ctx, "patient", testNotice("dup", now)))
	})

	t.Run("clear", func(t *testing.T) {
		store := openHistory(t, 0)
		now := time.Now()

		require.NoError(t, store.Record(ctx, "patient", testNotice("p1", now)))
		require.NoError(t, store.Record(ctx, "doctor", testNotice("d1", now)))

		removed, err := store.Clear(ctx, "patient")
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		removed, err = store.Clear(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		count, err := store.Count(ctx, "")
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
