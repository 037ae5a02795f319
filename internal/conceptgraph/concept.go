package conceptgraph

import (
	"time"

	"github.com/asengupta/mentor/internal/bloom"
)

// Concept is a single node in the knowledge graph: one idea within a
// topic, with the prerequisite edges and mastery bookkeeping attached.
type Concept struct {
	ID          string
	TopicID     string
	Name        string
	Description string

	// Prerequisites holds the IDs of concepts that must be mastered
	// before this one unlocks. Edges are validated for acyclicity at
	// insertion time, never at traversal time.
	Prerequisites []string

	// DifficultyLevel is a 1-5 scale used as the topological tiebreaker.
	DifficultyLevel int

	EstimatedMins int

	// MasteryScore is the learner's command of this concept, in [0,1].
	// Mutated only through Graph.UpdateMastery.
	MasteryScore float64

	// CurrentBloomLevel is the deepest understanding the learner has
	// demonstrated for this concept across all sessions.
	CurrentBloomLevel bloom.Level

	// Misconceptions, Strengths and GapAreas are rolling lists fed by
	// tutoring session summaries.
	Misconceptions []string
	Strengths      []string
	GapAreas       []string

	TimesPracticed int
	LastPracticed  *time.Time
}

// clampDifficulty normalizes a difficulty level into the 1-5 scale.
func clampDifficulty(d int) int {
	if d < 1 {
		return 1
	}
	if d > 5 {
		return 5
	}
	return d
}

// clampMastery normalizes a mastery score into [0,1].
func clampMastery(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
