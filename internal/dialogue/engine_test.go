package dialogue

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/asengupta/mentor/internal/assess"
	"github.com/asengupta/mentor/internal/bloom"
	"github.com/asengupta/mentor/internal/conceptgraph"
	"github.com/asengupta/mentor/internal/llm"
	"github.com/asengupta/mentor/internal/store"
)

func newTestEngine(t *testing.T, provider llm.Provider) (*Engine, *conceptgraph.Graph, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "mentor.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if err := s.Topics().Create(ctx, &store.Topic{ID: "go", Name: "go", CreatedAt: now}); err != nil {
		t.Fatal(err)
	}

	concept := conceptgraph.Concept{
		ID:          "goroutines",
		TopicID:     "go",
		Name:        "Goroutines",
		Description: "Lightweight threads managed by the Go runtime.",
	}
	g, err := conceptgraph.FromConcepts([]conceptgraph.Concept{concept})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Concepts().Save(ctx, &concept); err != nil {
		t.Fatal(err)
	}

	e := NewEngine(s, g, provider)
	e.now = func() time.Time { return now }
	return e, g, s
}

// A session with no provider at all must still run start to finish and
// seal a non-empty summary.
func TestOfflineSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	e, _, s := newTestEngine(t, nil)

	sess, greeting, err := e.Start(ctx, "goroutines", Config{Mode: ModeExploration})
	if err != nil {
		t.Fatal(err)
	}
	if greeting.Text == "" {
		t.Fatal("empty greeting")
	}
	if sess.State != StateProbing {
		t.Fatalf("state after greeting = %q, want probing", sess.State)
	}

	replies := []string{
		"a goroutine runs concurrently because the runtime schedules it onto threads, which means thousands can run at once",
		"not sure, maybe it blocks?",
		"it blocks because the channel has no buffer, so the sender waits until a receiver is ready",
	}
	for _, text := range replies {
		reply, err := e.Turn(ctx, sess, text)
		if err != nil {
			t.Fatal(err)
		}
		if reply.Text == "" {
			t.Error("empty coach reply")
		}
	}

	summary, err := e.End(ctx, sess)
	if err != nil {
		t.Fatal(err)
	}
	if summary.DepthAchieved == "" || summary.LearnerTurns != 3 {
		t.Errorf("summary = %+v", summary)
	}

	stored, err := s.TutorSessions().Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.EndedAt == nil || stored.State != string(StateClosing) {
		t.Errorf("stored session = %+v, want sealed", stored)
	}
	if stored.Summary == "" {
		t.Error("sealed session has empty summary")
	}
	var decoded Summary
	if err := json.Unmarshal([]byte(stored.Summary), &decoded); err != nil {
		t.Fatalf("summary is not valid JSON: %v", err)
	}

	// Greeting + 3 learner turns + 3 coach replies.
	turns, err := s.TutorSessions().Turns(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 7 {
		t.Errorf("transcript length = %d, want 7", len(turns))
	}
}

func assessment(confidence, level string, tags ...string) llm.MockResponse {
	if tags == nil {
		tags = []string{}
	}
	body, _ := json.Marshal(map[string]any{
		"confidence":     confidence,
		"bloom_level":    level,
		"misconceptions": tags,
	})
	return llm.MockResponse{Content: body}
}

func utterance(text string) llm.MockResponse {
	body, _ := json.Marshal(text)
	return llm.MockResponse{Content: body}
}

// Three straight turns assessed at analyze depth must never let the
// session's Bloom level regress, even when a later turn reads shallower.
func TestBloomNeverRegressesWithinSession(t *testing.T) {
	ctx := context.Background()
	mock := llm.NewMockProvider(
		utterance("Tell me what you understand about goroutines."), // greeting
		assessment("high", "analyze"),
		utterance("What trade-off does that create?"),
		assessment("high", "analyze"),
		utterance("And under contention?"),
		assessment("medium", "understand"), // shallower reading
		utterance("Walk me through the scheduler."),
	)
	e, g, _ := newTestEngine(t, mock)

	sess, _, err := e.Start(ctx, "goroutines", Config{Mode: ModeDepthCheck})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := e.Turn(ctx, sess, "the scheduler multiplexes goroutines over threads"); err != nil {
			t.Fatal(err)
		}
	}

	if sess.Bloom != bloom.LevelAnalyze {
		t.Errorf("session bloom = %v, want analyze", sess.Bloom)
	}
	concept, err := g.Get("goroutines")
	if err != nil {
		t.Fatal(err)
	}
	if concept.CurrentBloomLevel != bloom.LevelAnalyze {
		t.Errorf("concept bloom = %v, want analyze", concept.CurrentBloomLevel)
	}
}

func TestMasteryDeltasAndTagLifecycle(t *testing.T) {
	ctx := context.Background()
	mock := llm.NewMockProvider(
		utterance("Let's explore goroutines."),
		assessment("medium", "understand", assess.TagOvergeneralization),
		utterance("Is that always true?"),
		assessment("high", "apply"),
		utterance("Exactly."),
	)
	e, g, _ := newTestEngine(t, mock)

	sess, _, err := e.Start(ctx, "goroutines", Config{Mode: ModeExploration})
	if err != nil {
		t.Fatal(err)
	}

	// Misconception turn: mastery dips.
	reply, err := e.Turn(ctx, sess, "goroutines always run in parallel")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Move != MoveProbeSimpler {
		t.Errorf("move = %q, want probe-simpler for a misconception", reply.Move)
	}
	concept, _ := g.Get("goroutines")
	if concept.MasteryScore != 0 {
		t.Errorf("mastery = %v, want 0 (clamped after negative delta)", concept.MasteryScore)
	}

	// Clean strong turn: mastery rises, tag resolves.
	if _, err := e.Turn(ctx, sess, "no, they run concurrently; parallelism depends on GOMAXPROCS"); err != nil {
		t.Fatal(err)
	}
	concept, _ = g.Get("goroutines")
	if concept.MasteryScore != deltaStrong {
		t.Errorf("mastery = %v, want %v", concept.MasteryScore, deltaStrong)
	}

	summary, err := e.End(ctx, sess)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary.Insights) != 1 || summary.Insights[0] != assess.TagOvergeneralization {
		t.Errorf("insights = %v, want resolved overgeneralization", summary.Insights)
	}
	if len(summary.AreasToReview) != 0 {
		t.Errorf("areas to review = %v, want none", summary.AreasToReview)
	}
}

func TestTurnBudgetClosesSession(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)

	sess, _, err := e.Start(ctx, "goroutines", Config{Mode: ModeTeaching, TurnBudget: 2})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.Turn(ctx, sess, "channels pass values between goroutines"); err != nil {
		t.Fatal(err)
	}
	reply, err := e.Turn(ctx, sess, "and they block when unbuffered")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Move != MoveClose || reply.State != StateClosing {
		t.Errorf("budget-exhausting turn = %q/%q, want close/closing", reply.Move, reply.State)
	}
	if _, err := e.Turn(ctx, sess, "one more thing"); err == nil {
		t.Error("turn accepted after session closed")
	}
}

func TestEndHonorsCancellation(t *testing.T) {
	e, _, s := newTestEngine(t, nil)
	ctx := context.Background()

	sess, _, err := e.Start(ctx, "goroutines", Config{Mode: ModeExploration})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Turn(ctx, sess, "a goroutine is a lightweight thread"); err != nil {
		t.Fatal(err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := e.End(cancelled, sess); err == nil {
		t.Fatal("End succeeded on a cancelled context")
	}

	// No partial write: the session is still open.
	stored, err := s.TutorSessions().Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.EndedAt != nil {
		t.Error("cancelled End sealed the session")
	}
}

func TestStartRejectsUnknownConceptAndMode(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t, nil)

	if _, _, err := e.Start(ctx, "missing", Config{Mode: ModeExploration}); err == nil {
		t.Error("expected error for unknown concept")
	}
	if _, _, err := e.Start(ctx, "goroutines", Config{Mode: Mode("osmosis")}); err == nil {
		t.Error("expected error for unknown mode")
	}
}
