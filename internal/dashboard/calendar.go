package dashboard

import (
	"context"
	"fmt"

	"github.com/mrdaiking/lingrow/internal/history"
)

// DefaultCalendarWindowDays is the trailing window used when the caller does
// not specify one.
const DefaultCalendarWindowDays = 30

// CalendarAggregator buckets practice records into a trailing window of
// calendar days for the heatmap view.
type CalendarAggregator struct {
	store history.RecordStore
	clock Clock
}

// NewCalendarAggregator creates a new CalendarAggregator.
func NewCalendarAggregator(store history.RecordStore, clock Clock) *CalendarAggregator {
	return &CalendarAggregator{store: store, clock: clock.normalize()}
}

// Build returns the per-day session count for the window of windowDays days
// ending today. Every day in the window is present and zero-filled, so the
// result always holds windowDays+1 keys; the heatmap must never miss a day.
func (a *CalendarAggregator) Build(ctx context.Context, userID string, windowDays int) (map[string]int, error) {
	if userID == "" {
		return nil, invalidInput("user id is required")
	}
	if windowDays < 0 {
		return nil, invalidInput("window days must not be negative")
	}
	if windowDays == 0 {
		windowDays = DefaultCalendarWindowDays
	}

	today := a.clock.today()
	start := today.AddDate(0, 0, -windowDays)

	days := make(map[string]int, windowDays+1)
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		days[a.clock.dayKey(day)] = 0
	}

	records, err := a.store.ListRecords(ctx, userID, history.Filter{
		From:  start,
		To:    today.AddDate(0, 0, 1),
		Order: history.OrderCreatedAsc,
	})
	if err != nil {
		return nil, fmt.Errorf("list practice records: %w", err)
	}

	for _, record := range records {
		key := a.clock.dayKey(record.CreatedAt)
		if _, inWindow := days[key]; inWindow {
			days[key]++
		}
	}
	return days, nil
}
