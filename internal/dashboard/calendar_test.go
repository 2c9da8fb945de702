package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mrdaiking/lingrow/internal/history"
	mock_history "github.com/mrdaiking/lingrow/internal/mocks/history"
)

func TestCalendarAggregator_Build(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	t.Run("every day in the window is present and zero filled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock_history.NewMockRecordStore(ctrl)
		store.EXPECT().ListRecords(gomock.Any(), "user-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, filter history.Filter) ([]history.PracticeRecord, error) {
				assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), filter.From)
				assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), filter.To)
				assert.Equal(t, history.OrderCreatedAsc, filter.Order)
				return []history.PracticeRecord{
					recordOn(now),
					recordOn(now.Add(-3 * time.Hour)),
					recordOn(now.AddDate(0, 0, -2)),
				}, nil
			})

		aggregator := NewCalendarAggregator(store, ClockAt(now))
		got, err := aggregator.Build(context.Background(), "user-1", 7)
		require.NoError(t, err)

		require.Len(t, got, 8)
		assert.Equal(t, 2, got["2026-03-10"])
		assert.Equal(t, 1, got["2026-03-08"])
		assert.Equal(t, 0, got["2026-03-09"])
		assert.Equal(t, 0, got["2026-03-03"])
	})

	t.Run("zero window falls back to the default", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock_history.NewMockRecordStore(ctrl)
		store.EXPECT().ListRecords(gomock.Any(), "user-1", gomock.Any()).
			Return([]history.PracticeRecord{}, nil)

		aggregator := NewCalendarAggregator(store, ClockAt(now))
		got, err := aggregator.Build(context.Background(), "user-1", 0)
		require.NoError(t, err)
		assert.Len(t, got, DefaultCalendarWindowDays+1)
	})

	t.Run("records outside the window are ignored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock_history.NewMockRecordStore(ctrl)
		store.EXPECT().ListRecords(gomock.Any(), "user-1", gomock.Any()).
			Return([]history.PracticeRecord{
				recordOn(now.AddDate(0, 0, -10)),
			}, nil)

		aggregator := NewCalendarAggregator(store, ClockAt(now))
		got, err := aggregator.Build(context.Background(), "user-1", 7)
		require.NoError(t, err)

		require.Len(t, got, 8)
		for day, count := range got {
			assert.Zero(t, count, "day %s", day)
		}
	})

	t.Run("negative window is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock_history.NewMockRecordStore(ctrl)

		aggregator := NewCalendarAggregator(store, ClockAt(now))
		_, err := aggregator.Build(context.Background(), "user-1", -1)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("empty user id is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock_history.NewMockRecordStore(ctrl)

		aggregator := NewCalendarAggregator(store, ClockAt(now))
		_, err := aggregator.Build(context.Background(), "", 7)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("store failure is propagated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock_history.NewMockRecordStore(ctrl)
		store.EXPECT().ListRecords(gomock.Any(), "user-1", gomock.Any()).
			Return(nil, history.ErrStoreUnavailable)

		aggregator := NewCalendarAggregator(store, ClockAt(now))
		_, err := aggregator.Build(context.Background(), "user-1", 7)
		require.ErrorIs(t, err, history.ErrStoreUnavailable)
	})
}
