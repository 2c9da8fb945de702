package dashboard

import (
	"context"
	"fmt"
	"math"

	"github.com/mrdaiking/lingrow/internal/history"
)

// recentScoreWindow is the number of newest records whose scores feed the
// level adjustment and letter grade.
const recentScoreWindow = 30

// levelLadder maps cumulative session counts to titles, ascending.
var levelLadder = []struct {
	threshold int
	title     string
}{
	{0, "Beginner"},
	{5, "Novice Communicator"},
	{15, "Developing Communicator"},
	{30, "Competent Communicator"},
	{50, "Proficient Communicator"},
	{75, "Advanced Communicator"},
	{100, "Expert Communicator"},
	{150, "Master Communicator"},
}

// LevelInfo describes a user's standing on the level ladder.
type LevelInfo struct {
	Level         float64 `json:"level"`
	Title         string  `json:"title"`
	Progress      int     `json:"progress"`
	NextMilestone int     `json:"nextMilestone"`
	LetterGrade   string  `json:"letterGrade"`
}

// LevelEngine converts cumulative practice count and recent average score
// into a level, title, progress percentage and letter grade.
type LevelEngine struct {
	store history.RecordStore
}

// NewLevelEngine creates a new LevelEngine.
func NewLevelEngine(store history.RecordStore) *LevelEngine {
	return &LevelEngine{store: store}
}

// Compute derives the level descriptor for a user. A user with no records
// lands on the first rung with an F grade.
func (e *LevelEngine) Compute(ctx context.Context, userID string) (*LevelInfo, error) {
	if userID == "" {
		return nil, invalidInput("user id is required")
	}

	count, err := e.store.CountRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count practice records: %w", err)
	}

	recent, err := e.store.ListRecords(ctx, userID, history.Filter{
		Order: history.OrderCreatedDesc,
		Limit: recentScoreWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("list recent records: %w", err)
	}

	var averageScore float64
	var scored int
	for _, record := range recent {
		if record.Score != nil {
			averageScore += *record.Score
			scored++
		}
	}
	if scored > 0 {
		averageScore /= float64(scored)
	}

	level := 1.0
	title := levelLadder[0].title
	currentThreshold := levelLadder[0].threshold
	nextThreshold := levelLadder[1].threshold
	for i, rung := range levelLadder {
		if count < rung.threshold {
			break
		}
		level = float64(i + 1)
		title = rung.title
		currentThreshold = rung.threshold
		if i < len(levelLadder)-1 {
			nextThreshold = levelLadder[i+1].threshold
		} else {
			// Past the last rung the next milestone is extrapolated.
			nextThreshold = rung.threshold * 3 / 2
		}
	}

	// The score adjustment shifts the level by half a step without
	// re-deriving the rung: the title gains a prefix but the progress math
	// below keeps using the unadjusted threshold pair. Kept for
	// compatibility with existing dashboards.
	if averageScore > 8.5 && level < float64(len(levelLadder)) {
		level += 0.5
		title = "Advanced " + title
	} else if averageScore < 6 && level > 1 {
		level -= 0.5
	}

	progress := 0
	if nextThreshold > currentThreshold {
		progress = int(math.Round(float64(count-currentThreshold) / float64(nextThreshold-currentThreshold) * 100))
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return &LevelInfo{
		Level:         level,
		Title:         title,
		Progress:      progress,
		NextMilestone: nextThreshold,
		LetterGrade:   LetterGrade(averageScore),
	}, nil
}

// LetterGrade buckets a 0-10 score onto the A+..F scale.
func LetterGrade(score float64) string {
	switch {
	case score >= 9.5:
		return "A+"
	case score >= 9.0:
		return "A"
	case score >= 8.5:
		return "A-"
	case score >= 8.0:
		return "B+"
	case score >= 7.5:
		return "B"
	case score >= 7.0:
		return "B-"
	case score >= 6.5:
		return "C+"
	case score >= 6.0:
		return "C"
	case score >= 5.5:
		return "C-"
	case score >= 5.0:
		return "D+"
	case score >= 4.0:
		return "D"
	default:
		return "F"
	}
}
