package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/mrdaiking/lingrow/internal/history"
)

// HistoryOptions controls a history listing.
type HistoryOptions struct {
	Language string
	PageSize int
	Page     int
}

// RunHistoryList prints a page of a user's practice history, newest first.
func RunHistoryList(ctx context.Context, store history.RecordStore, w io.Writer, userID string, opts HistoryOptions) error {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	page := opts.Page
	if page < 0 {
		page = 0
	}

	records, err := store.ListRecords(ctx, userID, history.Filter{
		Language: opts.Language,
		Order:    history.OrderCreatedDesc,
		Limit:    pageSize + 1,
		Offset:   page * pageSize,
	})
	if err != nil {
		return fmt.Errorf("list practice history: %w", err)
	}

	hasMore := len(records) > pageSize
	if hasMore {
		records = records[:pageSize]
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No practice history found.")
		return nil
	}

	fmt.Fprintf(w, "%-8s  %-16s  %-6s  %-8s  %s\n", "ID", "Date", "Score", "Language", "Sentence")
	fmt.Fprintf(w, "%-8s  %-16s  %-6s  %-8s  %s\n", "--", "----", "-----", "--------", "--------")
	for _, record := range records {
		score := "-"
		if record.Score != nil {
			score = fmt.Sprintf("%.1f", *record.Score)
		}
		fmt.Fprintf(w, "%-8d  %-16s  %-6s  %-8s  %s\n",
			record.ID,
			record.CreatedAt.Format("2006-01-02 15:04"),
			score,
			record.Language,
			record.UserSentence,
		)
	}

	if hasMore {
		fmt.Fprintf(w, "\nMore results available: rerun with --page %d\n", page+1)
	}
	return nil
}
