package dashboard

import (
	"context"
	"fmt"

	"github.com/mrdaiking/lingrow/internal/history"
)

// StreakCalculator derives the consecutive-day practice streak from record
// timestamps.
type StreakCalculator struct {
	store history.RecordStore
	clock Clock
}

// NewStreakCalculator creates a new StreakCalculator.
func NewStreakCalculator(store history.RecordStore, clock Clock) *StreakCalculator {
	return &StreakCalculator{store: store, clock: clock.normalize()}
}

// Compute returns the number of consecutive calendar days with at least one
// practice record, counting backward from today. A user who practiced
// yesterday but not yet today keeps a live streak anchored at yesterday;
// the first gap beyond the anchor ends the streak.
func (c *StreakCalculator) Compute(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, invalidInput("user id is required")
	}

	records, err := c.store.ListRecords(ctx, userID, history.Filter{Order: history.OrderCreatedDesc})
	if err != nil {
		return 0, fmt.Errorf("list practice records: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	days := make(map[string]struct{}, len(records))
	for _, record := range records {
		days[c.clock.dayKey(record.CreatedAt)] = struct{}{}
	}

	current := c.clock.today()
	if _, practiced := days[c.clock.dayKey(current)]; !practiced {
		current = current.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, practiced := days[c.clock.dayKey(current)]; !practiced {
			break
		}
		streak++
		current = current.AddDate(0, 0, -1)
	}
	return streak, nil
}
