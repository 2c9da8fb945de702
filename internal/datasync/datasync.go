// Package datasync imports practice history exports into the record store.
package datasync

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrdaiking/lingrow/internal/history"
)

// batchSize bounds the rows per multi-row INSERT.
const batchSize = 100

// ImportOptions controls import behavior.
type ImportOptions struct {
	// DryRun reports what would be imported without writing.
	DryRun bool
	// DefaultUserID is applied to records missing a user id, e.g. exports
	// scoped to a single account.
	DefaultUserID string
}

// ImportResult tracks counts for an import run.
type ImportResult struct {
	Created int
	Skipped int
}

// Importer reads a YAML practice history export and writes it to the store.
type Importer struct {
	store  history.RecordStore
	writer io.Writer
}

// NewImporter creates a new Importer. Progress output goes to writer.
func NewImporter(store history.RecordStore, writer io.Writer) *Importer {
	return &Importer{store: store, writer: writer}
}

// ImportFile imports every record in the export at path. Records without a
// resolvable user id are skipped and counted, never failed, so one malformed
// row does not abort a migration.
func (i *Importer) ImportFile(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export file: %w", err)
	}

	var rows []exportRecord
	if err := yaml.Unmarshal(contents, &rows); err != nil {
		return nil, fmt.Errorf("parse export file: %w", err)
	}

	result := &ImportResult{}
	var pending []*history.PracticeRecord
	for _, row := range rows {
		record, ok := row.toRecord(opts.DefaultUserID)
		if !ok {
			result.Skipped++
			continue
		}
		pending = append(pending, record)
		result.Created++
	}

	if opts.DryRun {
		fmt.Fprintf(i.writer, "Dry run: would import %d record(s), skip %d\n", result.Created, result.Skipped)
		return result, nil
	}

	for start := 0; start < len(pending); start += batchSize {
		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		if err := i.store.BatchCreate(ctx, pending[start:end]); err != nil {
			return nil, fmt.Errorf("import records %d-%d: %w", start, end-1, err)
		}
	}

	fmt.Fprintf(i.writer, "Imported %d record(s), skipped %d\n", result.Created, result.Skipped)
	return result, nil
}

// exportRecord mirrors the field names of the original export format.
type exportRecord struct {
	UserID           string         `yaml:"userId"`
	OriginalSentence string         `yaml:"originalSentence"`
	UserSentence     string         `yaml:"userSentence"`
	SuggestedVersion string         `yaml:"suggestedVersion"`
	Feedback         exportFeedback `yaml:"feedback"`
	LearningTips     string         `yaml:"learningTips"`
	Score            *float64       `yaml:"score"`
	Language         string         `yaml:"language"`
	Reaction         *string        `yaml:"reaction"`
	ReviewCount      int            `yaml:"reviewCount"`
	LastReviewed     *time.Time     `yaml:"lastReviewed"`
	NextReview       *time.Time     `yaml:"nextReview"`
	Timestamp        time.Time      `yaml:"timestamp"`
}

func (r exportRecord) toRecord(defaultUserID string) (*history.PracticeRecord, bool) {
	userID := r.UserID
	if userID == "" {
		userID = defaultUserID
	}
	if userID == "" || r.UserSentence == "" {
		return nil, false
	}

	createdAt := r.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	reviewCount := r.ReviewCount
	if reviewCount < 0 {
		reviewCount = 0
	}

	return &history.PracticeRecord{
		UserID:           userID,
		OriginalSentence: r.OriginalSentence,
		UserSentence:     r.UserSentence,
		SuggestedVersion: r.SuggestedVersion,
		Feedback:         r.Feedback.Feedback,
		LearningTips:     r.LearningTips,
		Score:            r.Score,
		Language:         r.Language,
		Reaction:         r.Reaction,
		ReviewCount:      reviewCount,
		LastReviewed:     r.LastReviewed,
		NextReview:       r.NextReview,
		CreatedAt:        createdAt,
	}, true
}

// exportFeedback accepts both feedback shapes of the export: a scalar for
// free text, a mapping for per-category commentary.
type exportFeedback struct {
	history.Feedback
}

func (f *exportFeedback) UnmarshalYAML(value *yaml.Node) error {
	f.Feedback = history.Feedback{}
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			return nil
		}
		f.Text = value.Value
	case yaml.MappingNode:
		categories := make(map[history.Category]string)
		if err := value.Decode(&categories); err != nil {
			return fmt.Errorf("decode categorized feedback: %w", err)
		}
		f.Categories = categories
	default:
		return fmt.Errorf("unsupported feedback shape at line %d", value.Line)
	}
	return nil
}
