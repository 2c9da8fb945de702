package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mrdaiking/lingrow/internal/history"
)

// DefaultFocusWindowSize is the number of recent records mined when the
// caller does not specify one.
const DefaultFocusWindowSize = 20

// focusThreshold is the average score below which a category needs work.
const focusThreshold = 7.5

// maxFocusAreas bounds the ranked list to the weakest categories.
const maxFocusAreas = 2

// categoryKeywords associates each category with the free-text markers used
// when feedback arrives unstructured.
var categoryKeywords = map[history.Category][]string{
	history.CategoryProfessionalism: {"formal", "professional", "business", "workplace"},
	history.CategoryClarity:         {"clear", "concise", "specific", "precise", "ambiguous"},
	history.CategoryTone:            {"tone", "polite", "assertive", "friendly", "direct", "passive"},
	history.CategoryGrammar:         {"grammar", "verb", "tense", "preposition", "conjugation", "plural", "singular"},
}

// FocusArea is a category whose historical average score signals a need for
// improvement.
type FocusArea struct {
	Category history.Category `json:"category"`
	Average  float64          `json:"average"`
}

// FocusReport contains the ranked focus areas plus the full per-category
// average map for display.
type FocusReport struct {
	FocusAreas       []FocusArea                  `json:"focusAreas"`
	CategoryAverages map[history.Category]float64 `json:"categoryAverages"`
}

// FocusAnalyzer mines per-category feedback scores out of recent records to
// rank the user's weakest skill categories.
type FocusAnalyzer struct {
	store history.RecordStore
}

// NewFocusAnalyzer creates a new FocusAnalyzer.
func NewFocusAnalyzer(store history.RecordStore) *FocusAnalyzer {
	return &FocusAnalyzer{store: store}
}

// Analyze inspects the feedback of the most recent windowSize records. A
// record's score counts toward every category its feedback mentions, either
// structurally or through keywords. Categories averaging below 7.5 qualify as
// focus areas, ranked worst first, at most two. Categories with no samples
// are left out entirely rather than defaulting to zero.
func (a *FocusAnalyzer) Analyze(ctx context.Context, userID string, windowSize int) (*FocusReport, error) {
	if userID == "" {
		return nil, invalidInput("user id is required")
	}
	if windowSize < 0 {
		return nil, invalidInput("window size must not be negative")
	}
	if windowSize == 0 {
		windowSize = DefaultFocusWindowSize
	}

	records, err := a.store.ListRecords(ctx, userID, history.Filter{
		Order: history.OrderCreatedDesc,
		Limit: windowSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list recent records: %w", err)
	}

	samples := make(map[history.Category][]float64)
	for _, record := range records {
		if record.Score == nil || record.Feedback.IsZero() {
			continue
		}
		for _, category := range history.Categories() {
			if mentionsCategory(record.Feedback, category) {
				samples[category] = append(samples[category], *record.Score)
			}
		}
	}

	report := &FocusReport{
		FocusAreas:       []FocusArea{},
		CategoryAverages: make(map[history.Category]float64),
	}
	for _, category := range history.Categories() {
		scores := samples[category]
		if len(scores) == 0 {
			continue
		}
		var sum float64
		for _, score := range scores {
			sum += score
		}
		average := sum / float64(len(scores))
		report.CategoryAverages[category] = math.Round(average*10) / 10
		if average < focusThreshold {
			report.FocusAreas = append(report.FocusAreas, FocusArea{Category: category, Average: average})
		}
	}

	sort.SliceStable(report.FocusAreas, func(i, j int) bool {
		return report.FocusAreas[i].Average < report.FocusAreas[j].Average
	})
	if len(report.FocusAreas) > maxFocusAreas {
		report.FocusAreas = report.FocusAreas[:maxFocusAreas]
	}
	return report, nil
}

func mentionsCategory(feedback history.Feedback, category history.Category) bool {
	if feedback.IsCategorized() {
		return feedback.Categories[category] != ""
	}
	text := strings.ToLower(feedback.Text)
	for _, keyword := range categoryKeywords[category] {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
