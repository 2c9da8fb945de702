package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/jmoiron/sqlx"

	"github.com/mrdaiking/lingrow/internal/database"
)

// DBRecordStore implements RecordStore using MySQL.
type DBRecordStore struct {
	db *sqlx.DB
}

// NewDBRecordStore creates a new DBRecordStore.
func NewDBRecordStore(db *sqlx.DB) *DBRecordStore {
	return &DBRecordStore{db: db}
}

// CreateRecord inserts a new record. MySQL assigns the id and the creation
// timestamp; both are read back into record.
func (s *DBRecordStore) CreateRecord(ctx context.Context, record *PracticeRecord) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO practice_records
			(user_id, original_sentence, user_sentence, suggested_version, feedback, learning_tips, score, language, reaction)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.UserID, record.OriginalSentence, record.UserSentence, record.SuggestedVersion,
		record.Feedback, record.LearningTips, record.Score, record.Language, record.Reaction,
	)
	if err != nil {
		return unavailable("insert practice record", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return unavailable("read inserted record id", err)
	}

	created, err := s.GetRecord(ctx, id)
	if err != nil {
		return fmt.Errorf("reload created record: %w", err)
	}
	*record = *created
	return nil
}

// BatchCreate inserts records in one transaction using a multi-row INSERT.
// Unlike CreateRecord, provided timestamps and review state are preserved,
// which is what a history import needs.
func (s *DBRecordStore) BatchCreate(ctx context.Context, records []*PracticeRecord) error {
	if len(records) == 0 {
		return nil
	}

	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		columns := []string{
			"user_id", "original_sentence", "user_sentence", "suggested_version",
			"feedback", "learning_tips", "score", "language", "reaction",
			"review_count", "last_reviewed", "next_review", "created_at",
		}
		query := database.BuildMultiRowInsert("practice_records", columns, len(records))

		var args []interface{}
		for _, r := range records {
			args = append(args,
				r.UserID, r.OriginalSentence, r.UserSentence, r.SuggestedVersion,
				r.Feedback, r.LearningTips, r.Score, r.Language, r.Reaction,
				r.ReviewCount, r.LastReviewed, r.NextReview, r.CreatedAt,
			)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert practice records: %w", err)
		}
		return nil
	})
	if err != nil {
		return unavailable("batch create practice records", err)
	}
	return nil
}

// GetRecord returns the record with the given id.
func (s *DBRecordStore) GetRecord(ctx context.Context, id int64) (*PracticeRecord, error) {
	var record PracticeRecord
	err := s.read(ctx, func() error {
		return s.db.GetContext(ctx, &record, "SELECT * FROM practice_records WHERE id = ?", id)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get practice record %d: %w", id, ErrRecordNotFound)
		}
		return nil, unavailable("get practice record", err)
	}
	return &record, nil
}

// ListRecords returns records of a user matching the filter.
func (s *DBRecordStore) ListRecords(ctx context.Context, userID string, filter Filter) ([]PracticeRecord, error) {
	query, args := buildListQuery(userID, filter)

	var records []PracticeRecord
	err := s.read(ctx, func() error {
		records = records[:0]
		return s.db.SelectContext(ctx, &records, query, args...)
	})
	if err != nil {
		return nil, unavailable("list practice records", err)
	}
	return records, nil
}

// CountRecords returns the total number of records for a user.
func (s *DBRecordStore) CountRecords(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.read(ctx, func() error {
		return s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM practice_records WHERE user_id = ?", userID)
	})
	if err != nil {
		return 0, unavailable("count practice records", err)
	}
	return count, nil
}

// UpdateReview applies a review patch to a record.
func (s *DBRecordStore) UpdateReview(ctx context.Context, id int64, patch ReviewPatch) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE practice_records
		SET review_count = ?, last_reviewed = ?, next_review = ?
		WHERE id = ?`,
		patch.ReviewCount, patch.LastReviewed, patch.NextReview, id,
	)
	if err != nil {
		return unavailable("update review state", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return unavailable("read affected rows", err)
	}
	if affected == 0 {
		return fmt.Errorf("update review state of record %d: %w", id, ErrRecordNotFound)
	}
	return nil
}

func buildListQuery(userID string, filter Filter) (string, []interface{}) {
	query := "SELECT * FROM practice_records WHERE user_id = ?"
	args := []interface{}{userID}

	if filter.Language != "" {
		query += " AND language = ?"
		args = append(args, filter.Language)
	}
	if !filter.From.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		query += " AND created_at < ?"
		args = append(args, filter.To)
	}
	if filter.DueBefore != nil {
		query += " AND next_review IS NOT NULL AND next_review <= ?"
		args = append(args, *filter.DueBefore)
	}
	if filter.OnlyUnreviewed {
		query += " AND review_count = 0"
	}

	switch filter.Order {
	case OrderCreatedAsc:
		query += " ORDER BY created_at ASC"
	case OrderNextReviewAsc:
		query += " ORDER BY next_review ASC"
	default:
		query += " ORDER BY created_at DESC"
	}

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}
	return query, args
}

// read runs a query, retrying transient failures. The analytics components
// never retry themselves; that policy lives here at the gateway.
func (s *DBRecordStore) read(ctx context.Context, op func() error) error {
	return retry.Do(
		op,
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(100*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
	)
}

func isTransient(err error) bool {
	return !errors.Is(err, sql.ErrNoRows) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStoreUnavailable, err))
}
