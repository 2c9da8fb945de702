package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mrdaiking/lingrow/internal/dashboard"
	"github.com/mrdaiking/lingrow/internal/history"
)

// RunReviewDue prints the spaced repetition queue for a user.
func RunReviewDue(ctx context.Context, store history.RecordStore, clock dashboard.Clock, w io.Writer, userID string, batchSize int) error {
	scheduler := dashboard.NewReviewScheduler(store, clock)
	records, err := scheduler.DueForReview(ctx, userID, batchSize)
	if err != nil {
		return fmt.Errorf("list due reviews: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "Nothing to review.")
		return nil
	}

	fmt.Fprintf(w, "%-8s  %-12s  %-20s  %s\n", "ID", "Status", "Due", "Sentence")
	fmt.Fprintf(w, "%-8s  %-12s  %-20s  %s\n", "--", "------", "---", "--------")
	for _, record := range records {
		status := "new"
		due := "-"
		if record.NextReview != nil {
			status = color.RedString("overdue")
			due = record.NextReview.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%-8d  %-12s  %-20s  %s\n", record.ID, status, due, record.UserSentence)
	}
	return nil
}

// RunMarkReviewed records a completed review for a record and prints the
// next due date.
func RunMarkReviewed(ctx context.Context, store history.RecordStore, clock dashboard.Clock, w io.Writer, recordID int64, reviewCount int) error {
	scheduler := dashboard.NewReviewScheduler(store, clock)
	next, err := scheduler.MarkReviewed(ctx, recordID, reviewCount)
	if err != nil {
		return fmt.Errorf("mark record %d reviewed: %w", recordID, err)
	}

	fmt.Fprintf(w, "Record %d reviewed. %s\n",
		recordID, color.GreenString("Next review due %s", next.Format("2006-01-02 15:04")))
	return nil
}
