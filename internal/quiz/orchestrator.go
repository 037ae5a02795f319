// Package quiz runs practice sessions: it builds an interleaved
// question queue for the chosen mode, grades each answer into a recall
// quality, feeds the scheduler, and seals the session into a summary.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/asengupta/mentor/internal/learner"
	"github.com/asengupta/mentor/internal/locks"
	"github.com/asengupta/mentor/internal/spacedrep"
	"github.com/asengupta/mentor/internal/store"
)

// ErrNoQuestions is returned when the selected mode has nothing to serve.
var ErrNoQuestions = errors.New("no questions available for this session")

// InvalidConfidenceError reports a self-reported confidence outside 1-5.
type InvalidConfidenceError struct {
	Confidence int
}

func (e *InvalidConfidenceError) Error() string {
	return fmt.Sprintf("confidence %d out of range [1, 5]", e.Confidence)
}

// Session is an in-progress practice session. The queue holds the
// scheduler state for each question; RecordOutcome mutates it in place
// as answers come in.
type Session struct {
	ID        string
	TopicID   string
	Mode      Mode
	Queue     []*spacedrep.ReviewItem
	StartedAt time.Time
}

// Orchestrator coordinates a quiz session against the store.
type Orchestrator struct {
	questions *store.QuestionRepo
	sessions  *store.QuizSessionRepo
	profiles  *store.ProfileRepo
	locks     *locks.KeyedMutex
	now       func() time.Time
}

func NewOrchestrator(s *store.Store) *Orchestrator {
	return &Orchestrator{
		questions: s.Questions(),
		sessions:  s.QuizSessions(),
		profiles:  s.Profiles(),
		locks:     locks.New(),
		now:       time.Now,
	}
}

// Start builds the question queue for the given topic and mode and
// persists a new session. An empty topicID draws from all topics.
func (o *Orchestrator) Start(ctx context.Context, topicID string, mode Mode, maxQuestions int) (*Session, error) {
	items, err := o.questions.ReviewItems(ctx, topicID)
	if err != nil {
		return nil, err
	}

	now := o.now()
	queue, err := BuildQueue(items, mode, maxQuestions, now)
	if err != nil {
		return nil, err
	}
	if len(queue) == 0 {
		return nil, ErrNoQuestions
	}

	sess := &Session{
		ID:        uuid.NewString(),
		TopicID:   topicID,
		Mode:      mode,
		Queue:     queue,
		StartedAt: now,
	}
	if err := o.sessions.Create(ctx, &store.QuizSession{
		ID:        sess.ID,
		TopicID:   topicID,
		Mode:      string(mode),
		StartedAt: now,
	}); err != nil {
		return nil, err
	}
	return sess, nil
}

// RecordOutcome grades one answered question. The answer and the
// learner's self-reported confidence (1-5) collapse into an SM-2
// quality, which reschedules the item, may shift the question's
// difficulty band, and updates the learner profile. Returns the quality
// that was recorded.
func (o *Orchestrator) RecordOutcome(ctx context.Context, sess *Session, questionID string, correct bool, confidence int) (int, error) {
	if confidence < 1 || confidence > 5 {
		return 0, &InvalidConfidenceError{Confidence: confidence}
	}

	item := sess.item(questionID)
	if item == nil {
		return 0, fmt.Errorf("question %q is not in this session", questionID)
	}

	o.locks.Lock(questionID)
	defer o.locks.Unlock(questionID)

	now := o.now()
	quality := qualityFor(correct, confidence)
	if err := spacedrep.RecordReview(item, quality, now); err != nil {
		return 0, err
	}
	if err := o.questions.UpdateReview(ctx, item); err != nil {
		return 0, err
	}

	if err := o.adjustDifficulty(ctx, questionID, item, correct); err != nil {
		return 0, err
	}

	if err := o.sessions.AppendOutcome(ctx, &store.QuizOutcome{
		SessionID:  sess.ID,
		QuestionID: questionID,
		Correct:    correct,
		Confidence: confidence,
		Quality:    quality,
		AnsweredAt: now,
	}); err != nil {
		return 0, err
	}

	profile, err := o.profiles.Load(ctx)
	if err != nil {
		return 0, err
	}
	profile.RecordAnswer(correct, now)
	if err := o.profiles.Save(ctx, profile); err != nil {
		return 0, err
	}
	return quality, nil
}

// End seals the session and computes its summary.
func (o *Orchestrator) End(ctx context.Context, sess *Session) (*Summary, error) {
	if err := o.sessions.Finish(ctx, sess.ID, o.now()); err != nil {
		return nil, err
	}
	stored, err := o.sessions.Get(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	outcomes, err := o.sessions.Outcomes(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	summary := buildSummary(stored, outcomes, sess.topicByQuestion())
	return &summary, nil
}

// Profile exposes the learner profile, for callers that tune question
// difficulty to recent performance.
func (o *Orchestrator) Profile(ctx context.Context) (*learner.Profile, error) {
	return o.profiles.Load(ctx)
}

func (s *Session) item(questionID string) *spacedrep.ReviewItem {
	for _, it := range s.Queue {
		if it.ID == questionID {
			return it
		}
	}
	return nil
}

func (s *Session) topicByQuestion() map[string]string {
	m := make(map[string]string, len(s.Queue))
	for _, it := range s.Queue {
		m[it.ID] = it.TopicID
	}
	return m
}

// qualityFor collapses a correctness flag and a 1-5 confidence into an
// SM-2 quality. Wrong answers land in 0-2; a wrong answer given with
// high confidence still scores 2, since the learner at least engaged
// with the material. Correct answers land in 3-5.
func qualityFor(correct bool, confidence int) int {
	if !correct {
		if confidence < 2 {
			return confidence
		}
		return 2
	}
	if confidence > 3 {
		return confidence
	}
	return 3
}

func (o *Orchestrator) adjustDifficulty(ctx context.Context, questionID string, item *spacedrep.ReviewItem, correct bool) error {
	q, err := o.questions.Get(ctx, questionID)
	if err != nil {
		return err
	}
	next := spacedrep.AdjustDifficulty(q.Difficulty, item, correct)
	if next == q.Difficulty {
		return nil
	}
	return o.questions.UpdateDifficulty(ctx, questionID, next)
}
