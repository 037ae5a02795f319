package learner

import (
	"testing"
	"time"
)

var answeredAt = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestRecordAnswerCountsAndStreaks(t *testing.T) {
	p := NewProfile()
	for _, correct := range []bool{true, true, true, false, true} {
		p.RecordAnswer(correct, answeredAt)
	}

	if p.TotalAnswered != 5 || p.TotalCorrect != 4 {
		t.Fatalf("answered=%d correct=%d, want 5/4", p.TotalAnswered, p.TotalCorrect)
	}
	if p.Streak != 1 {
		t.Fatalf("streak = %d, want 1", p.Streak)
	}
	if p.BestStreak != 3 {
		t.Fatalf("best streak = %d, want 3", p.BestStreak)
	}
	if p.LastAnswered == nil || !p.LastAnswered.Equal(answeredAt) {
		t.Fatalf("last answered = %v", p.LastAnswered)
	}
}

func TestAccuracy(t *testing.T) {
	p := NewProfile()
	if p.Accuracy() != 0 {
		t.Fatalf("empty profile accuracy = %f, want 0", p.Accuracy())
	}
	p.RecordAnswer(true, answeredAt)
	p.RecordAnswer(true, answeredAt)
	p.RecordAnswer(false, answeredAt)
	p.RecordAnswer(true, answeredAt)
	if got := p.Accuracy(); got != 0.75 {
		t.Fatalf("accuracy = %f, want 0.75", got)
	}
}

func TestRecentAccuracyWindowSlides(t *testing.T) {
	p := NewProfile()
	p.AccuracyWindow = 3

	// Old misses should fall out of the window.
	for _, correct := range []bool{false, false, true, true, true} {
		p.RecordAnswer(correct, answeredAt)
	}
	if len(p.Recent) != 3 {
		t.Fatalf("recent window length = %d, want 3", len(p.Recent))
	}
	if got := p.RecentAccuracy(); got != 1.0 {
		t.Fatalf("recent accuracy = %f, want 1.0", got)
	}
	// Lifetime accuracy still sees the misses.
	if got := p.Accuracy(); got != 0.6 {
		t.Fatalf("lifetime accuracy = %f, want 0.6", got)
	}
}

func TestConsistencyCapped(t *testing.T) {
	p := NewProfile()
	for i := 0; i < 12; i++ {
		p.RecordAnswer(true, answeredAt)
	}
	if got := p.Consistency(); got != 1.0 {
		t.Fatalf("consistency = %f, want 1.0 at cap", got)
	}

	p.RecordAnswer(false, answeredAt)
	if got := p.Consistency(); got != 0 {
		t.Fatalf("consistency after miss = %f, want 0", got)
	}
}

func TestSuggestedDifficulty(t *testing.T) {
	tests := []struct {
		name    string
		answers []bool
		want    string
	}{
		{"cold start", []bool{true, true}, "medium"},
		{"strong run", []bool{true, true, true, true, true, true}, "hard"},
		{"struggling", []bool{false, false, false, true, false, false}, "easy"},
		{"middling", []bool{true, false, true, true, false, true}, "medium"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProfile()
			for _, correct := range tt.answers {
				p.RecordAnswer(correct, answeredAt)
			}
			if got := p.SuggestedDifficulty(); got != tt.want {
				t.Fatalf("suggested difficulty = %q, want %q", got, tt.want)
			}
		})
	}
}
