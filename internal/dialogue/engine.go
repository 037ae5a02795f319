// Package dialogue runs Socratic tutoring sessions: a turn-based state
// machine that probes, assesses and teaches one concept, tracking the
// learner's demonstrated Bloom depth and mastery as the conversation
// unfolds. The coach's utterances come from the LLM when available and
// from deterministic per-move lines when not, so a session always runs
// to a sealed summary.
package dialogue

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asengupta/mentor/internal/assess"
	"github.com/asengupta/mentor/internal/bloom"
	"github.com/asengupta/mentor/internal/conceptgraph"
	"github.com/asengupta/mentor/internal/llm"
	"github.com/asengupta/mentor/internal/store"
)

// DefaultTurnBudget caps learner turns per session.
const DefaultTurnBudget = 12

// Mastery deltas applied per assessed learner turn.
const (
	deltaStrong        = 0.05
	deltaPartial       = 0.02
	deltaMisconception = -0.02
)

// Config tunes a tutoring session.
type Config struct {
	Mode Mode

	// TurnBudget overrides DefaultTurnBudget when > 0.
	TurnBudget int
}

// Session is one in-flight tutoring dialogue.
type Session struct {
	ID        string
	ConceptID string
	Mode      Mode
	State     State

	// BloomStart is the concept's recorded level when the session began.
	// Bloom only rises within the session.
	BloomStart bloom.Level
	Bloom      bloom.Level

	TurnBudget   int
	LearnerTurns int

	openTags     map[string]bool
	resolvedTags map[string]bool
	transcript   []llm.Message
	nextIdx      int
	startedAt    time.Time
}

// Reply is the coach's side of one exchange.
type Reply struct {
	Text   string
	Move   Move
	State  State
	Signal assess.Signal
}

// Summary is the sealed record of a finished session.
type Summary struct {
	DepthAchieved string   `json:"depth_achieved"`
	Insights      []string `json:"insights"`
	AreasToReview []string `json:"areas_to_review"`
	LearnerTurns  int      `json:"learner_turns"`
}

// Engine drives tutoring sessions over a concept graph.
type Engine struct {
	graph    *conceptgraph.Graph
	assessor *assess.Assessor
	provider llm.Provider
	sessions *store.TutorSessionRepo
	concepts *store.ConceptRepo
	now      func() time.Time
}

// NewEngine builds an engine. provider may be nil, in which case every
// utterance and assessment comes from the deterministic fallbacks.
func NewEngine(s *store.Store, g *conceptgraph.Graph, provider llm.Provider) *Engine {
	return &Engine{
		graph:    g,
		assessor: assess.New(provider),
		provider: provider,
		sessions: s.TutorSessions(),
		concepts: s.Concepts(),
		now:      time.Now,
	}
}

// Start opens a session on a concept and returns it with the coach's
// greeting.
func (e *Engine) Start(ctx context.Context, conceptID string, cfg Config) (*Session, *Reply, error) {
	concept, err := e.graph.Get(conceptID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return nil, nil, err
	}

	budget := cfg.TurnBudget
	if budget <= 0 {
		budget = DefaultTurnBudget
	}

	now := e.now()
	sess := &Session{
		ID:           uuid.NewString(),
		ConceptID:    conceptID,
		Mode:         cfg.Mode,
		State:        StateGreeting,
		BloomStart:   concept.CurrentBloomLevel,
		Bloom:        concept.CurrentBloomLevel,
		TurnBudget:   budget,
		openTags:     make(map[string]bool),
		resolvedTags: make(map[string]bool),
		startedAt:    now,
	}

	if err := e.sessions.Create(ctx, &store.TutorSession{
		ID:         sess.ID,
		ConceptID:  conceptID,
		State:      string(StateGreeting),
		BloomStart: int(sess.BloomStart),
		BloomEnd:   int(sess.Bloom),
		StartedAt:  now,
	}); err != nil {
		return nil, nil, err
	}

	greeting := e.greet(ctx, concept, cfg.Mode)
	reply := &Reply{Text: greeting, Move: MoveGreet, State: StateProbing}
	sess.State = StateProbing
	if err := e.recordCoachTurn(ctx, sess, reply); err != nil {
		return nil, nil, err
	}
	return sess, reply, nil
}

// Turn processes one learner utterance: assess, pick a move, update
// depth and mastery, and answer.
func (e *Engine) Turn(ctx context.Context, sess *Session, learnerText string) (*Reply, error) {
	if sess.State == StateClosing {
		return nil, fmt.Errorf("session %q is already closing", sess.ID)
	}

	concept, err := e.graph.Get(sess.ConceptID)
	if err != nil {
		return nil, err
	}

	sess.LearnerTurns++
	now := e.now()
	if err := e.sessions.AppendTurn(ctx, &store.TutorTurn{
		SessionID: sess.ID,
		Idx:       sess.nextIdx,
		Role:      "learner",
		Content:   learnerText,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	sess.nextIdx++
	sess.transcript = append(sess.transcript, llm.Message{Role: llm.RoleUser, Content: learnerText})

	sess.State = StateAssessing
	sig := e.assessor.Assess(ctx, learnerText, assess.ConceptContext{
		ConceptName: concept.Name,
		Description: concept.Description,
		RecentTurns: recentTranscript(sess.transcript, 6),
	})
	class := classify(sig)

	// Bloom is monotonic within the session.
	sess.Bloom = bloom.Max(sess.Bloom, sig.BloomGuess)
	if err := e.graph.RaiseBloomLevel(sess.ConceptID, sess.Bloom); err != nil {
		return nil, err
	}
	e.trackTags(sess, sig, class)
	if _, err := e.graph.UpdateMastery(sess.ConceptID, masteryDelta(sig, class)); err != nil {
		return nil, err
	}

	var move Move
	var state State
	if sess.LearnerTurns >= sess.TurnBudget {
		move, state = MoveClose, StateClosing
	} else {
		move = chooseMove(sess.Mode, class)
		state = stateFor(class)
	}
	sess.State = state
	if err := e.sessions.UpdateState(ctx, sess.ID, string(state), int(sess.Bloom)); err != nil {
		return nil, err
	}

	reply := &Reply{
		Text:   e.utter(ctx, sess, concept, move),
		Move:   move,
		State:  state,
		Signal: sig,
	}
	if err := e.recordCoachTurn(ctx, sess, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// End seals the session: summary computed, persisted alongside the
// concept's final mastery state. Honors cancellation before any write,
// so an interrupted End leaves both records untouched.
func (e *Engine) End(ctx context.Context, sess *Session) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &Summary{
		DepthAchieved: sess.Bloom.String(),
		Insights:      sortedKeys(sess.resolvedTags),
		AreasToReview: sortedKeys(sess.openTags),
		LearnerTurns:  sess.LearnerTurns,
	}
	encoded, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}

	if err := e.sessions.Finish(ctx, sess.ID, e.now(), string(encoded)); err != nil {
		return nil, err
	}

	concept, err := e.graph.Get(sess.ConceptID)
	if err != nil {
		return nil, err
	}
	concept.TimesPracticed++
	practiced := e.now()
	concept.LastPracticed = &practiced
	concept.Misconceptions = mergeTags(concept.Misconceptions, sortedKeys(sess.openTags))
	if err := e.concepts.UpdateProgress(ctx, concept); err != nil {
		return nil, err
	}

	sess.State = StateClosing
	return summary, nil
}

func (e *Engine) greet(ctx context.Context, concept *conceptgraph.Concept, mode Mode) string {
	if e.provider == nil {
		return fallbackGreeting(mode, concept.Name, concept.Description)
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeTutorTurn)
	resp, err := e.provider.Generate(ctx, llm.Request{
		System:    coachSystemPrompt(concept, mode),
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: "Open the session with your first message to the learner."}},
		MaxTokens: 512,
	})
	if err != nil {
		return fallbackGreeting(mode, concept.Name, concept.Description)
	}
	return decodeUtterance(resp.Content, fallbackGreeting(mode, concept.Name, concept.Description))
}

func (e *Engine) utter(ctx context.Context, sess *Session, concept *conceptgraph.Concept, move Move) string {
	fallback := fallbackLine(move, concept.Name)
	if e.provider == nil || move == MoveClose {
		return fallback
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeTutorTurn)
	messages := append(recentMessages(sess.transcript, 6), llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("(Your next move: %s. Respond to the learner accordingly.)", moveInstruction(move)),
	})
	resp, err := e.provider.Generate(ctx, llm.Request{
		System:    coachSystemPrompt(concept, sess.Mode),
		Messages:  messages,
		MaxTokens: 512,
	})
	if err != nil {
		return fallback
	}
	return decodeUtterance(resp.Content, fallback)
}

func (e *Engine) recordCoachTurn(ctx context.Context, sess *Session, reply *Reply) error {
	if err := e.sessions.AppendTurn(ctx, &store.TutorTurn{
		SessionID: sess.ID,
		Idx:       sess.nextIdx,
		Role:      "coach",
		Content:   reply.Text,
		Move:      string(reply.Move),
		CreatedAt: e.now(),
	}); err != nil {
		return err
	}
	sess.nextIdx++
	sess.transcript = append(sess.transcript, llm.Message{Role: llm.RoleAssistant, Content: reply.Text})
	return nil
}

// trackTags records new misconceptions as open, and moves every open
// tag to resolved once the learner demonstrates strong understanding
// with no misconceptions in sight.
func (e *Engine) trackTags(sess *Session, sig assess.Signal, class signalClass) {
	for _, tag := range sig.Misconceptions {
		if !sess.resolvedTags[tag] {
			sess.openTags[tag] = true
		}
	}
	if len(sig.Misconceptions) == 0 && class >= signalStrong {
		for tag := range sess.openTags {
			sess.resolvedTags[tag] = true
			delete(sess.openTags, tag)
		}
	}
}

func masteryDelta(sig assess.Signal, class signalClass) float64 {
	if len(sig.Misconceptions) > 0 {
		return deltaMisconception
	}
	switch class {
	case signalStrong, signalMastered:
		return deltaStrong
	case signalPartial:
		return deltaPartial
	default:
		return 0
	}
}

func coachSystemPrompt(concept *conceptgraph.Concept, mode Mode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a Socratic tutor teaching the concept %q.\n", concept.Name)
	if concept.Description != "" {
		fmt.Fprintf(&b, "Concept description: %s\n", concept.Description)
	}
	fmt.Fprintf(&b, "Session mode: %s.\n", mode)
	b.WriteString("Be encouraging, intellectually curious, clear and concise. " +
		"Prefer questions over lectures. One question at a time.")
	return b.String()
}

func moveInstruction(move Move) string {
	switch move {
	case MoveProbeSimpler:
		return "they are struggling; ask a simpler probing question"
	case MoveGuide:
		return "ask a guiding follow-up question"
	case MoveEscalate:
		return "ask a deeper question at the next Bloom level"
	case MoveTransfer:
		return "pose a novel transfer question"
	case MoveExplain:
		return "give a clear explanation with one example"
	case MoveCheck:
		return "check understanding with a small question"
	case MoveAdvance:
		return "move on to the next sub-concept"
	case MoveExtend:
		return "offer an extension challenge"
	case MoveGround:
		return "restate the scenario more concretely"
	case MoveNudge:
		return "nudge them toward the missing step"
	case MoveComplicate:
		return "increase the scenario's complexity"
	case MoveEdgeCase:
		return "present an edge case"
	case MoveAskConfusion:
		return "ask what felt confusing"
	case MoveAskExample:
		return "ask for a specific example"
	case MoveAskConnections:
		return "ask for connections to other concepts"
	case MoveTeachBack:
		return "ask the learner to teach the concept back"
	default:
		return "wrap up the session warmly"
	}
}

// decodeUtterance unwraps plain-text responses the providers encode as
// a JSON string; raw text that isn't valid JSON passes through as-is.
func decodeUtterance(raw json.RawMessage, fallback string) string {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = string(raw)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	return text
}

func recentTranscript(messages []llm.Message, n int) []string {
	msgs := recentMessages(messages, n)
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		role := "learner"
		if m.Role == llm.RoleAssistant {
			role = "coach"
		}
		out = append(out, fmt.Sprintf("%s: %s", role, m.Content))
	}
	return out
}

func recentMessages(messages []llm.Message, n int) []llm.Message {
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func mergeTags(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	out := existing
	for _, t := range existing {
		seen[t] = true
	}
	for _, t := range incoming {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
