// Package cli implements the terminal front end for dashboard analytics.
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/mrdaiking/lingrow/internal/dashboard"
	"github.com/mrdaiking/lingrow/internal/history"
)

// RunDashboardReport prints streak, level, focus areas and a practice
// calendar summary for a user.
func RunDashboardReport(ctx context.Context, store history.RecordStore, clock dashboard.Clock, w io.Writer, userID string, windowDays int) error {
	streak, err := dashboard.NewStreakCalculator(store, clock).Compute(ctx, userID)
	if err != nil {
		return fmt.Errorf("compute streak: %w", err)
	}

	level, err := dashboard.NewLevelEngine(store).Compute(ctx, userID)
	if err != nil {
		return fmt.Errorf("compute level: %w", err)
	}

	focus, err := dashboard.NewFocusAnalyzer(store).Analyze(ctx, userID, 0)
	if err != nil {
		return fmt.Errorf("analyze focus areas: %w", err)
	}

	calendar, err := dashboard.NewCalendarAggregator(store, clock).Build(ctx, userID, windowDays)
	if err != nil {
		return fmt.Errorf("build calendar: %w", err)
	}

	fmt.Fprintln(w, "Practice Dashboard")
	fmt.Fprintln(w, "==================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-16s %s\n", "Streak:", formatStreak(streak))
	fmt.Fprintf(w, "%-16s %.1f (%s)\n", "Level:", level.Level, level.Title)
	fmt.Fprintf(w, "%-16s %d%% toward %d sessions\n", "Progress:", level.Progress, level.NextMilestone)
	fmt.Fprintf(w, "%-16s %s\n", "Grade:", colorizeGrade(level.LetterGrade))
	fmt.Fprintln(w)

	if len(focus.FocusAreas) == 0 {
		fmt.Fprintln(w, "No focus areas: recent feedback shows no weak category.")
	} else {
		fmt.Fprintln(w, "Focus areas (worst first):")
		for _, area := range focus.FocusAreas {
			fmt.Fprintf(w, "  %-16s avg %.1f\n", area.Category, area.Average)
		}
	}
	fmt.Fprintln(w)

	active, total := 0, 0
	days := make([]string, 0, len(calendar))
	for day, count := range calendar {
		days = append(days, day)
		if count > 0 {
			active++
			total += count
		}
	}
	sort.Strings(days)
	fmt.Fprintf(w, "Calendar: %d sessions on %d of the last %d days (%s .. %s)\n",
		total, active, len(days), days[0], days[len(days)-1])

	return nil
}

func formatStreak(streak int) string {
	if streak == 0 {
		return "0 days"
	}
	return color.GreenString("%d day(s)", streak)
}

func colorizeGrade(grade string) string {
	switch grade[0] {
	case 'A', 'B':
		return color.GreenString(grade)
	case 'C', 'D':
		return color.YellowString(grade)
	default:
		return color.RedString(grade)
	}
}
