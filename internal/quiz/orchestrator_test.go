package quiz

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/asengupta/mentor/internal/spacedrep"
	"github.com/asengupta/mentor/internal/store"
)

func TestQualityFor(t *testing.T) {
	tests := []struct {
		correct    bool
		confidence int
		want       int
	}{
		{false, 1, 1},
		{false, 2, 2},
		{false, 5, 2},
		{true, 1, 3},
		{true, 3, 3},
		{true, 4, 4},
		{true, 5, 5},
	}
	for _, tt := range tests {
		got := qualityFor(tt.correct, tt.confidence)
		if got != tt.want {
			t.Errorf("qualityFor(%v, %d) = %d, want %d",
				tt.correct, tt.confidence, got, tt.want)
		}
	}
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "mentor.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return NewOrchestrator(s), s
}

func seedQuestion(t *testing.T, s *store.Store, id, topicID string, now time.Time) {
	t.Helper()
	item := spacedrep.NewItem(id, topicID, now)
	err := s.Questions().Create(context.Background(), &store.Question{
		ID:         id,
		TopicID:    topicID,
		Prompt:     "what does " + id + " mean?",
		Answer:     "answer " + id,
		Difficulty: "medium",
		CreatedAt:  now,
	}, item)
	if err != nil {
		t.Fatal(err)
	}
}

func seedTopic(t *testing.T, s *store.Store, id string, now time.Time) {
	t.Helper()
	err := s.Topics().Create(context.Background(), &store.Topic{
		ID: id, Name: id, CreatedAt: now,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestStartWithNoQuestions(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	_, err := o.Start(context.Background(), "", ModeMixed, 10)
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("err = %v, want ErrNoQuestions", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	o, s := newTestOrchestrator(t)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	o.now = func() time.Time { return now }

	seedTopic(t, s, "go", now)
	seedTopic(t, s, "sql", now)
	seedQuestion(t, s, "q1", "go", now)
	seedQuestion(t, s, "q2", "go", now)
	seedQuestion(t, s, "q3", "sql", now)

	sess, err := o.Start(ctx, "", ModeMixed, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Queue) != 3 {
		t.Fatalf("queue length = %d, want 3", len(sess.Queue))
	}

	// Correct with full confidence reschedules out a day.
	quality, err := o.RecordOutcome(ctx, sess, "q1", true, 5)
	if err != nil {
		t.Fatal(err)
	}
	if quality != 5 {
		t.Errorf("quality = %d, want 5", quality)
	}

	// Confidently wrong still caps at quality 2.
	quality, err = o.RecordOutcome(ctx, sess, "q3", false, 5)
	if err != nil {
		t.Fatal(err)
	}
	if quality != 2 {
		t.Errorf("quality = %d, want 2", quality)
	}

	// The reschedule must be persisted, not just held in memory.
	items, err := s.Questions().ReviewItems(ctx, "go")
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range items {
		if it.ID != "q1" {
			continue
		}
		if it.RepetitionCount != 1 || it.IntervalDays != 1 {
			t.Errorf("q1 persisted as reps=%d interval=%d, want 1/1",
				it.RepetitionCount, it.IntervalDays)
		}
		if !it.DueAt.Equal(now.AddDate(0, 0, 1)) {
			t.Errorf("q1 due at %v, want next day", it.DueAt)
		}
	}

	now = now.Add(14 * time.Minute)
	summary, err := o.End(ctx, sess)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total != 2 || summary.Correct != 1 {
		t.Errorf("summary totals = %d/%d, want 2/1", summary.Correct, summary.Total)
	}
	if summary.Accuracy != 0.5 {
		t.Errorf("accuracy = %v, want 0.5", summary.Accuracy)
	}
	if summary.ElapsedMinutes != 14 {
		t.Errorf("elapsed = %d minutes, want 14", summary.ElapsedMinutes)
	}
	if len(summary.Topics) != 2 {
		t.Errorf("topics = %v, want both go and sql", summary.Topics)
	}

	stored, err := s.QuizSessions().Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.EndedAt == nil {
		t.Error("session not sealed in store")
	}

	// Answers flow into the learner profile.
	profile, err := o.Profile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if profile.TotalAnswered != 2 || profile.TotalCorrect != 1 {
		t.Errorf("profile = %d/%d, want 2 answered, 1 correct",
			profile.TotalCorrect, profile.TotalAnswered)
	}
}

func TestRecordOutcomeRejectsBadConfidence(t *testing.T) {
	ctx := context.Background()
	o, s := newTestOrchestrator(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	o.now = func() time.Time { return now }

	seedTopic(t, s, "go", now)
	seedQuestion(t, s, "q1", "go", now)

	sess, err := o.Start(ctx, "go", ModeMixed, 10)
	if err != nil {
		t.Fatal(err)
	}

	for _, bad := range []int{0, 6, -1} {
		_, err := o.RecordOutcome(ctx, sess, "q1", true, bad)
		var confErr *InvalidConfidenceError
		if !errors.As(err, &confErr) {
			t.Errorf("confidence %d: err = %v, want InvalidConfidenceError", bad, err)
		}
	}

	// Nothing was recorded against the session.
	outcomes, err := s.QuizSessions().Outcomes(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 0 {
		t.Errorf("outcomes = %d, want 0", len(outcomes))
	}
}

func TestRecordOutcomeUnknownQuestion(t *testing.T) {
	ctx := context.Background()
	o, s := newTestOrchestrator(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	o.now = func() time.Time { return now }

	seedTopic(t, s, "go", now)
	seedQuestion(t, s, "q1", "go", now)

	sess, err := o.Start(ctx, "go", ModeMixed, 10)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := o.RecordOutcome(ctx, sess, "nope", true, 4); err == nil {
		t.Error("expected error for question outside the session")
	}
}
