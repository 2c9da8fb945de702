package history

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrRecordNotFound is returned when an operation references a record
	// that does not exist.
	ErrRecordNotFound = errors.New("practice record not found")

	// ErrStoreUnavailable is returned when the backing store fails or times
	// out. Callers can distinguish it from ErrRecordNotFound with errors.Is.
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// Order controls the sort order of a record listing.
type Order int

const (
	// OrderCreatedDesc sorts newest submissions first.
	OrderCreatedDesc Order = iota
	// OrderCreatedAsc sorts oldest submissions first.
	OrderCreatedAsc
	// OrderNextReviewAsc sorts soonest-due review items first.
	OrderNextReviewAsc
)

// Filter narrows a record listing. Zero values mean "no constraint".
// From is inclusive and To exclusive.
type Filter struct {
	Language       string
	From           time.Time
	To             time.Time
	DueBefore      *time.Time
	OnlyUnreviewed bool
	Order          Order
	Limit          int
	Offset         int
}

// ReviewPatch is the only mutation applied to a record after creation.
type ReviewPatch struct {
	ReviewCount  int
	LastReviewed time.Time
	NextReview   time.Time
}

// RecordStore is the gateway to persisted practice records. Implementations
// own retry and timeout policy; callers treat every method as a single
// fallible remote operation.
type RecordStore interface {
	// CreateRecord inserts a new record. The store assigns ID and CreatedAt.
	CreateRecord(ctx context.Context, record *PracticeRecord) error
	// BatchCreate inserts records preserving their timestamps and review
	// state. Used by history imports.
	BatchCreate(ctx context.Context, records []*PracticeRecord) error
	GetRecord(ctx context.Context, id int64) (*PracticeRecord, error)
	ListRecords(ctx context.Context, userID string, filter Filter) ([]PracticeRecord, error)
	CountRecords(ctx context.Context, userID string) (int, error)
	UpdateReview(ctx context.Context, id int64, patch ReviewPatch) error
}
