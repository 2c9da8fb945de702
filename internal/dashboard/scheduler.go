package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/mrdaiking/lingrow/internal/history"
)

// DefaultReviewBatchSize is the due-queue size used when the caller does not
// specify one.
const DefaultReviewBatchSize = 5

// maxIntervalShift caps the doubling exponent so the computed interval stays
// within the range of time.Duration.
const maxIntervalShift = 16

// ReviewScheduler implements spaced repetition over practice records: each
// completed review doubles the interval until the record is due again,
// producing the sequence 1, 2, 4, 8, 16, 32, ... days.
type ReviewScheduler struct {
	store history.RecordStore
	clock Clock
}

// NewReviewScheduler creates a new ReviewScheduler.
func NewReviewScheduler(store history.RecordStore, clock Clock) *ReviewScheduler {
	return &ReviewScheduler{store: store, clock: clock.normalize()}
}

// NextReviewAt returns when a record reviewed reviewCount times so far, last
// reviewed at lastReviewed, becomes due again. A never-reviewed record is due
// one day after its first review.
func NextReviewAt(reviewCount int, lastReviewed time.Time) time.Time {
	shift := reviewCount
	if shift < 0 {
		shift = 0
	}
	if shift > maxIntervalShift {
		shift = maxIntervalShift
	}
	return lastReviewed.Add(time.Duration(1<<shift) * 24 * time.Hour)
}

// MarkReviewed records a completed review: the review count is incremented,
// the review instant stored and the next due instant derived from the
// doubling schedule. The new due instant is returned.
//
// The read-modify-write is not transactional; two concurrent reviews of the
// same record converge on the last writer, which is acceptable for review
// scheduling.
func (s *ReviewScheduler) MarkReviewed(ctx context.Context, recordID int64, reviewCount int) (time.Time, error) {
	if recordID <= 0 {
		return time.Time{}, invalidInput("record id is required")
	}
	if reviewCount < 0 {
		return time.Time{}, invalidInput("review count must not be negative")
	}

	now := s.clock.Now()
	next := NextReviewAt(reviewCount, now)
	if err := s.store.UpdateReview(ctx, recordID, history.ReviewPatch{
		ReviewCount:  reviewCount + 1,
		LastReviewed: now,
		NextReview:   next,
	}); err != nil {
		return time.Time{}, fmt.Errorf("update review state: %w", err)
	}
	return next, nil
}

// DueForReview returns up to batchSize records whose next review instant has
// passed, soonest due first so the oldest overdue items surface first. When
// fewer are due, never-reviewed records are backfilled newest first; a brand
// new user still gets a non-empty queue.
func (s *ReviewScheduler) DueForReview(ctx context.Context, userID string, batchSize int) ([]history.PracticeRecord, error) {
	if userID == "" {
		return nil, invalidInput("user id is required")
	}
	if batchSize < 0 {
		return nil, invalidInput("batch size must not be negative")
	}
	if batchSize == 0 {
		batchSize = DefaultReviewBatchSize
	}

	now := s.clock.Now()
	queue, err := s.store.ListRecords(ctx, userID, history.Filter{
		DueBefore: &now,
		Order:     history.OrderNextReviewAsc,
		Limit:     batchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list due records: %w", err)
	}
	if len(queue) >= batchSize {
		return queue, nil
	}

	fresh, err := s.store.ListRecords(ctx, userID, history.Filter{
		OnlyUnreviewed: true,
		Order:          history.OrderCreatedDesc,
		Limit:          batchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list unreviewed records: %w", err)
	}

	seen := make(map[int64]struct{}, len(queue))
	for _, record := range queue {
		seen[record.ID] = struct{}{}
	}
	for _, record := range fresh {
		if len(queue) >= batchSize {
			break
		}
		if _, dup := seen[record.ID]; dup {
			continue
		}
		queue = append(queue, record)
	}
	return queue, nil
}
