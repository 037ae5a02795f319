// Package learner tracks the rolling performance profile used to adapt
// question difficulty and session pacing.
package learner

import "time"

const (
	// DefaultAccuracyWindow is the rolling window size for recent accuracy.
	DefaultAccuracyWindow = 20

	// DefaultStreakCap is the streak value treated as full consistency.
	DefaultStreakCap = 8
)

// Profile holds the learner's rolling performance metrics.
type Profile struct {
	// TotalAnswered counts every recorded answer.
	TotalAnswered int `json:"total_answered"`
	// TotalCorrect counts correct answers.
	TotalCorrect int `json:"total_correct"`
	// Recent holds the last N answer results for recent accuracy.
	Recent []bool `json:"recent"`
	// AccuracyWindow is the rolling window size (default 20).
	AccuracyWindow int `json:"accuracy_window"`
	// Streak is the current correct-answer streak.
	Streak int `json:"streak"`
	// BestStreak is the longest streak seen.
	BestStreak int `json:"best_streak"`
	// StreakCap is the streak value treated as full consistency (default 8).
	StreakCap int `json:"streak_cap"`
	// LastAnswered is when the learner last recorded an answer.
	LastAnswered *time.Time `json:"last_answered,omitempty"`
}

// NewProfile returns a Profile with default settings.
func NewProfile() *Profile {
	return &Profile{
		AccuracyWindow: DefaultAccuracyWindow,
		StreakCap:      DefaultStreakCap,
	}
}

// RecordAnswer folds one answer result into the profile.
func (p *Profile) RecordAnswer(correct bool, at time.Time) {
	p.TotalAnswered++
	if correct {
		p.TotalCorrect++
		p.Streak++
		if p.Streak > p.BestStreak {
			p.BestStreak = p.Streak
		}
	} else {
		p.Streak = 0
	}

	p.Recent = append(p.Recent, correct)
	window := p.AccuracyWindow
	if window <= 0 {
		window = DefaultAccuracyWindow
	}
	if len(p.Recent) > window {
		p.Recent = p.Recent[len(p.Recent)-window:]
	}

	t := at
	p.LastAnswered = &t
}

// Accuracy returns the lifetime accuracy in [0,1].
func (p *Profile) Accuracy() float64 {
	if p.TotalAnswered == 0 {
		return 0
	}
	return float64(p.TotalCorrect) / float64(p.TotalAnswered)
}

// RecentAccuracy returns accuracy over the rolling window in [0,1].
func (p *Profile) RecentAccuracy() float64 {
	if len(p.Recent) == 0 {
		return 0
	}
	correct := 0
	for _, c := range p.Recent {
		if c {
			correct++
		}
	}
	return float64(correct) / float64(len(p.Recent))
}

// Consistency returns the streak component in [0,1].
func (p *Profile) Consistency() float64 {
	cap := p.StreakCap
	if cap <= 0 {
		return 0
	}
	if p.Streak >= cap {
		return 1
	}
	return float64(p.Streak) / float64(cap)
}

// SuggestedDifficulty maps recent accuracy to a difficulty band for
// newly generated questions.
func (p *Profile) SuggestedDifficulty() string {
	// Too little signal: start in the middle.
	if len(p.Recent) < 5 {
		return "medium"
	}
	acc := p.RecentAccuracy()
	switch {
	case acc >= 0.85:
		return "hard"
	case acc < 0.5:
		return "easy"
	default:
		return "medium"
	}
}
