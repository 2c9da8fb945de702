package history

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedback_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want Feedback
	}{
		{
			name: "null column",
			src:  nil,
			want: Feedback{},
		},
		{
			name: "json object keyed by category",
			src:  []byte(`{"grammar":"watch the tense","tone":"too casual"}`),
			want: Feedback{Categories: map[Category]string{
				CategoryGrammar: "watch the tense",
				CategoryTone:    "too casual",
			}},
		},
		{
			name: "json encoded string",
			src:  []byte(`"Keep sentences short."`),
			want: Feedback{Text: "Keep sentences short."},
		},
		{
			name: "double encoded object",
			src:  []byte(`"{\"clarity\":\"be specific\"}"`),
			want: Feedback{Categories: map[Category]string{
				CategoryClarity: "be specific",
			}},
		},
		{
			name: "plain text",
			src:  []byte(`Watch your grammar.`),
			want: Feedback{Text: "Watch your grammar."},
		},
		{
			name: "string column",
			src:  `{"grammar":"verb agreement"}`,
			want: Feedback{Categories: map[Category]string{
				CategoryGrammar: "verb agreement",
			}},
		},
		{
			name: "json null literal",
			src:  []byte(`null`),
			want: Feedback{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Feedback
			require.NoError(t, got.Scan(tt.src))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFeedback_Scan_unsupportedType(t *testing.T) {
	var got Feedback
	assert.Error(t, got.Scan(42))
}

func TestFeedback_Value(t *testing.T) {
	t.Run("categorized feedback stores a json object", func(t *testing.T) {
		feedback := Feedback{Categories: map[Category]string{CategoryTone: "too blunt"}}
		value, err := feedback.Value()
		require.NoError(t, err)
		assert.JSONEq(t, `{"tone":"too blunt"}`, string(value.([]byte)))
	})

	t.Run("free text stores a json string", func(t *testing.T) {
		feedback := Feedback{Text: "Good effort."}
		value, err := feedback.Value()
		require.NoError(t, err)
		assert.Equal(t, `"Good effort."`, string(value.([]byte)))
	})

	t.Run("empty feedback stores null", func(t *testing.T) {
		value, err := Feedback{}.Value()
		require.NoError(t, err)
		assert.Nil(t, value)
	})
}

func TestFeedback_roundTrip(t *testing.T) {
	// A value written by Value must be restored by Scan unchanged.
	for _, feedback := range []Feedback{
		{Text: "Try a more formal register."},
		{Categories: map[Category]string{
			CategoryProfessionalism: "use workplace vocabulary",
			CategoryClarity:         "shorter sentences",
		}},
	} {
		value, err := feedback.Value()
		require.NoError(t, err)

		var got Feedback
		require.NoError(t, got.Scan(value))
		assert.Equal(t, feedback, got)
	}
}

func TestFeedback_JSON(t *testing.T) {
	t.Run("categorized feedback marshals as object", func(t *testing.T) {
		encoded, err := json.Marshal(Feedback{Categories: map[Category]string{CategoryGrammar: "tense"}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"grammar":"tense"}`, string(encoded))
	})

	t.Run("free text marshals as string", func(t *testing.T) {
		encoded, err := json.Marshal(Feedback{Text: "Nice."})
		require.NoError(t, err)
		assert.Equal(t, `"Nice."`, string(encoded))
	})

	t.Run("unmarshal accepts both shapes", func(t *testing.T) {
		var fromObject Feedback
		require.NoError(t, json.Unmarshal([]byte(`{"tone":"softer"}`), &fromObject))
		assert.Equal(t, Feedback{Categories: map[Category]string{CategoryTone: "softer"}}, fromObject)

		var fromString Feedback
		require.NoError(t, json.Unmarshal([]byte(`"Be concise."`), &fromString))
		assert.Equal(t, Feedback{Text: "Be concise."}, fromString)
	})
}

func TestScoreEntryOf(t *testing.T) {
	score := 8.5
	record := PracticeRecord{
		ID:       42,
		Score:    &score,
		Language: "en",
	}
	entry := ScoreEntryOf(record)
	assert.Equal(t, int64(42), entry.ID)
	assert.Equal(t, &score, entry.Score)
	assert.Equal(t, "en", entry.Language)
	assert.Equal(t, record.CreatedAt, entry.Timestamp)
}
