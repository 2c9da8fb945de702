package history

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*DBRecordStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDBRecordStore(sqlx.NewDb(db, "mysql")), mock
}

func TestDBRecordStore_GetRecord(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("returns the record", func(t *testing.T) {
		store, mock := newMockStore(t)
		rows := sqlmock.NewRows([]string{
			"id", "user_id", "user_sentence", "language", "score", "feedback", "review_count", "created_at",
		}).AddRow(int64(7), "user-1", "I look forward to hearing from you.", "en", 8.5, []byte(`{"tone":"well done"}`), 2, now)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM practice_records WHERE id = ?")).
			WithArgs(int64(7)).
			WillReturnRows(rows)

		got, err := store.GetRecord(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, "user-1", got.UserID)
		require.NotNil(t, got.Score)
		assert.Equal(t, 8.5, *got.Score)
		assert.Equal(t, Feedback{Categories: map[Category]string{CategoryTone: "well done"}}, got.Feedback)
		assert.Equal(t, 2, got.ReviewCount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing record", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM practice_records WHERE id = ?")).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := store.GetRecord(context.Background(), 99)
		require.ErrorIs(t, err, ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDBRecordStore_ListRecords(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	from := now.AddDate(0, 0, -7)

	tests := []struct {
		name      string
		filter    Filter
		wantQuery string
		wantArgs  []driver.Value
	}{
		{
			name:      "default listing sorts newest first",
			filter:    Filter{},
			wantQuery: "SELECT * FROM practice_records WHERE user_id = ? ORDER BY created_at DESC",
			wantArgs:  []driver.Value{"user-1"},
		},
		{
			name:      "window filter bounds created_at",
			filter:    Filter{From: from, To: now, Order: OrderCreatedAsc},
			wantQuery: "SELECT * FROM practice_records WHERE user_id = ? AND created_at >= ? AND created_at < ? ORDER BY created_at ASC",
			wantArgs:  []driver.Value{"user-1", from, now},
		},
		{
			name:      "due filter requires a scheduled review",
			filter:    Filter{DueBefore: &now, Order: OrderNextReviewAsc, Limit: 5},
			wantQuery: "SELECT * FROM practice_records WHERE user_id = ? AND next_review IS NOT NULL AND next_review <= ? ORDER BY next_review ASC LIMIT ?",
			wantArgs:  []driver.Value{"user-1", now, 5},
		},
		{
			name:      "unreviewed filter with language and pagination",
			filter:    Filter{Language: "en", OnlyUnreviewed: true, Limit: 10, Offset: 20},
			wantQuery: "SELECT * FROM practice_records WHERE user_id = ? AND language = ? AND review_count = 0 ORDER BY created_at DESC LIMIT ? OFFSET ?",
			wantArgs:  []driver.Value{"user-1", "en", 10, 20},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			mock.ExpectQuery(regexp.QuoteMeta(tt.wantQuery)).
				WithArgs(tt.wantArgs...).
				WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(int64(1), "user-1"))

			got, err := store.ListRecords(context.Background(), "user-1", tt.filter)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRecordStore_ListRecords_retriesTransientFailures(t *testing.T) {
	store, mock := newMockStore(t)
	query := regexp.QuoteMeta("SELECT * FROM practice_records WHERE user_id = ? ORDER BY created_at DESC")
	mock.ExpectQuery(query).WillReturnError(fmt.Errorf("connection refused"))
	mock.ExpectQuery(query).WillReturnError(fmt.Errorf("connection refused"))
	mock.ExpectQuery(query).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(int64(1), "user-1"))

	got, err := store.ListRecords(context.Background(), "user-1", Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRecordStore_CountRecords(t *testing.T) {
	t.Run("returns the count", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM practice_records WHERE user_id = ?")).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		got, err := store.CountRecords(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, 42, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("persistent failure surfaces as unavailable", func(t *testing.T) {
		store, mock := newMockStore(t)
		query := regexp.QuoteMeta("SELECT COUNT(*) FROM practice_records WHERE user_id = ?")
		for i := 0; i < 3; i++ {
			mock.ExpectQuery(query).WillReturnError(fmt.Errorf("connection refused"))
		}

		_, err := store.CountRecords(context.Background(), "user-1")
		require.ErrorIs(t, err, ErrStoreUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDBRecordStore_CreateRecord(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	score := 7.0

	t.Run("inserts and reloads the stored record", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO practice_records").
			WillReturnResult(sqlmock.NewResult(7, 1))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM practice_records WHERE id = ?")).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "user_sentence", "score", "created_at"}).
				AddRow(int64(7), "user-1", "See you soon.", score, now))

		record := &PracticeRecord{
			UserID:       "user-1",
			UserSentence: "See you soon.",
			Score:        &score,
			Language:     "en",
		}
		require.NoError(t, store.CreateRecord(context.Background(), record))
		assert.Equal(t, int64(7), record.ID)
		assert.Equal(t, now, record.CreatedAt.UTC())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure surfaces as unavailable", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO practice_records").
			WillReturnError(fmt.Errorf("connection refused"))

		err := store.CreateRecord(context.Background(), &PracticeRecord{UserID: "user-1"})
		require.ErrorIs(t, err, ErrStoreUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDBRecordStore_BatchCreate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("inserts all records in one transaction", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO practice_records").
			WillReturnResult(sqlmock.NewResult(1, 2))
		mock.ExpectCommit()

		records := []*PracticeRecord{
			{UserID: "user-1", UserSentence: "first", CreatedAt: now},
			{UserID: "user-1", UserSentence: "second", CreatedAt: now},
		}
		require.NoError(t, store.BatchCreate(context.Background(), records))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO practice_records").
			WillReturnError(fmt.Errorf("connection refused"))
		mock.ExpectRollback()

		err := store.BatchCreate(context.Background(), []*PracticeRecord{{UserID: "user-1"}})
		require.ErrorIs(t, err, ErrStoreUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		store, mock := newMockStore(t)
		require.NoError(t, store.BatchCreate(context.Background(), nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDBRecordStore_UpdateReview(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	patch := ReviewPatch{ReviewCount: 3, LastReviewed: now, NextReview: now.AddDate(0, 0, 4)}

	t.Run("updates the review state", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("UPDATE practice_records").
			WithArgs(3, now, now.AddDate(0, 0, 4), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.UpdateReview(context.Background(), 7, patch))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing record", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("UPDATE practice_records").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.UpdateReview(context.Background(), 99, patch)
		require.ErrorIs(t, err, ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db failure surfaces as unavailable", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("UPDATE practice_records").
			WillReturnError(fmt.Errorf("connection refused"))

		err := store.UpdateReview(context.Background(), 7, patch)
		require.ErrorIs(t, err, ErrStoreUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
