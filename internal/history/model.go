// Package history provides practice record storage and retrieval.
package history

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Category is a skill category referenced by scoring feedback.
type Category string

const (
	CategoryProfessionalism Category = "professionalism"
	CategoryClarity         Category = "clarity"
	CategoryTone            Category = "tone"
	CategoryGrammar         Category = "grammar"
)

// Categories returns every feedback category in display order.
func Categories() []Category {
	return []Category{
		CategoryProfessionalism,
		CategoryClarity,
		CategoryTone,
		CategoryGrammar,
	}
}

// Feedback is the scoring commentary attached to a practice record. It is
// either free text or a per-category map. The persisted shape varies (JSON
// object, JSON-encoded string, bare text), so it is resolved exactly once at
// the store boundary; readers never re-inspect the raw value.
type Feedback struct {
	Text       string
	Categories map[Category]string
}

// IsZero reports whether no feedback was recorded.
func (f Feedback) IsZero() bool {
	return f.Text == "" && len(f.Categories) == 0
}

// IsCategorized reports whether the feedback is a per-category map.
func (f Feedback) IsCategorized() bool {
	return len(f.Categories) > 0
}

// Scan implements sql.Scanner for the feedback column.
func (f *Feedback) Scan(src any) error {
	*f = Feedback{}
	var raw string
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("unsupported feedback column type %T", src)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}
	f.decode(raw)
	return nil
}

// decode resolves the historical feedback shapes: a JSON object keyed by
// category, a JSON string (occasionally wrapping another JSON object), or
// plain text.
func (f *Feedback) decode(raw string) {
	var categories map[Category]string
	if err := json.Unmarshal([]byte(raw), &categories); err == nil {
		f.Categories = categories
		return
	}

	var text string
	if err := json.Unmarshal([]byte(raw), &text); err == nil {
		if err := json.Unmarshal([]byte(text), &categories); err == nil {
			f.Categories = categories
			return
		}
		f.Text = text
		return
	}

	f.Text = raw
}

// Value implements driver.Valuer for the feedback column.
func (f Feedback) Value() (driver.Value, error) {
	switch {
	case f.IsCategorized():
		encoded, err := json.Marshal(f.Categories)
		if err != nil {
			return nil, fmt.Errorf("encode categorized feedback: %w", err)
		}
		return encoded, nil
	case f.Text != "":
		encoded, err := json.Marshal(f.Text)
		if err != nil {
			return nil, fmt.Errorf("encode feedback text: %w", err)
		}
		return encoded, nil
	default:
		return nil, nil
	}
}

// MarshalJSON preserves the variant on the wire: categorized feedback is an
// object, free text a string.
func (f Feedback) MarshalJSON() ([]byte, error) {
	if f.IsCategorized() {
		return json.Marshal(f.Categories)
	}
	return json.Marshal(f.Text)
}

// UnmarshalJSON accepts either wire shape.
func (f *Feedback) UnmarshalJSON(data []byte) error {
	*f = Feedback{}
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	f.decode(raw)
	return nil
}

// PracticeRecord is one completed practice submission together with the
// scoring result and spaced repetition state.
//
// ID and CreatedAt are assigned by the store at insertion. ReviewCount,
// LastReviewed and NextReview are the only fields mutated after creation,
// exclusively through RecordStore.UpdateReview.
type PracticeRecord struct {
	ID               int64      `db:"id" json:"id"`
	UserID           string     `db:"user_id" json:"userId"`
	OriginalSentence string     `db:"original_sentence" json:"originalSentence"`
	UserSentence     string     `db:"user_sentence" json:"userSentence"`
	SuggestedVersion string     `db:"suggested_version" json:"suggestedVersion"`
	Feedback         Feedback   `db:"feedback" json:"feedback,omitzero"`
	LearningTips     string     `db:"learning_tips" json:"learningTips,omitempty"`
	Score            *float64   `db:"score" json:"score,omitempty"`
	Language         string     `db:"language" json:"language"`
	Reaction         *string    `db:"reaction" json:"reaction,omitempty"`
	ReviewCount      int        `db:"review_count" json:"reviewCount"`
	LastReviewed     *time.Time `db:"last_reviewed" json:"lastReviewed,omitempty"`
	NextReview       *time.Time `db:"next_review" json:"nextReview,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"timestamp"`
}

// ScoreEntry is the projection used by recent score listings.
type ScoreEntry struct {
	ID        int64     `json:"id"`
	Score     *float64  `json:"score"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}

// ScoreEntryOf projects a record onto its score listing shape.
func ScoreEntryOf(record PracticeRecord) ScoreEntry {
	return ScoreEntry{
		ID:        record.ID,
		Score:     record.Score,
		Language:  record.Language,
		Timestamp: record.CreatedAt,
	}
}
