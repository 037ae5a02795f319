package quiz

import (
	"math"

	"github.com/asengupta/mentor/internal/store"
)

// Summary captures what a finished session covered and how it went.
type Summary struct {
	SessionID      string
	Mode           Mode
	Total          int
	Correct        int
	Accuracy       float64
	ElapsedMinutes int
	Topics         []string
}

func buildSummary(s *store.QuizSession, outcomes []store.QuizOutcome, topicByQuestion map[string]string) Summary {
	sum := Summary{
		SessionID: s.ID,
		Mode:      Mode(s.Mode),
		Total:     s.Total,
		Correct:   s.Correct,
	}
	if s.Total > 0 {
		sum.Accuracy = float64(s.Correct) / float64(s.Total)
	}
	if s.EndedAt != nil {
		minutes := s.EndedAt.Sub(s.StartedAt).Minutes()
		sum.ElapsedMinutes = int(math.Round(minutes))
	}

	seen := make(map[string]bool)
	for _, o := range outcomes {
		topic := topicByQuestion[o.QuestionID]
		if topic == "" || seen[topic] {
			continue
		}
		seen[topic] = true
		sum.Topics = append(sum.Topics, topic)
	}
	return sum
}
