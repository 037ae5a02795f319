// Package assess classifies a learner's dialogue turn into
// understanding signals: confidence, a Bloom level guess, and any
// misconception tags. The primary path is a structured LLM call; when
// that fails for any reason a deterministic text heuristic answers
// instead, so assessment never blocks or fails a tutoring session.
package assess

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/asengupta/mentor/internal/bloom"
	"github.com/asengupta/mentor/internal/llm"
)

// Confidence grades how sure the learner seems of their answer.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Misconception tags form a closed set so downstream bookkeeping
// (insights, areas to review) stays reproducible across providers.
const (
	TagConfusedTerminology = "confused-terminology"
	TagOvergeneralization  = "overgeneralization"
	TagInvertedCausality   = "inverted-causality"
	TagMissingPrerequisite = "missing-prerequisite"
	TagSurfaceRecall       = "surface-recall"
)

// KnownTags lists every valid misconception tag.
var KnownTags = []string{
	TagConfusedTerminology,
	TagOvergeneralization,
	TagInvertedCausality,
	TagMissingPrerequisite,
	TagSurfaceRecall,
}

// Signal is the per-turn assessment triple.
type Signal struct {
	Confidence     Confidence  `json:"confidence"`
	BloomGuess     bloom.Level `json:"-"`
	Misconceptions []string    `json:"misconceptions"`
}

// ConceptContext describes what the turn is about and what was said
// recently, so the model can judge the answer in context.
type ConceptContext struct {
	ConceptName string
	Description string
	RecentTurns []string
}

// DefaultTimeout bounds the LLM call for a single assessment. A turn in
// a live dialogue cannot wait longer than this.
const DefaultTimeout = 15 * time.Second

// Assessor classifies learner turns.
type Assessor struct {
	provider llm.Provider

	// Timeout overrides DefaultTimeout when > 0.
	Timeout time.Duration
}

// New wraps the provider with a single-retry policy; a turn assessment
// is latency-sensitive, so it gets at most one second chance before the
// heuristic takes over.
func New(p llm.Provider) *Assessor {
	if p == nil {
		return &Assessor{}
	}
	return &Assessor{
		provider: llm.WithRetry(p, llm.RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     2 * time.Second,
			Multiplier:  2.0,
		}),
	}
}

// Assess classifies one learner turn. Never returns an error: any LLM
// failure, including total provider absence, is answered by the
// deterministic heuristic.
func (a *Assessor) Assess(ctx context.Context, turnText string, cc ConceptContext) Signal {
	if a.provider == nil {
		return Heuristic(turnText)
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ctx = llm.WithPurpose(ctx, llm.PurposeAssessment)

	resp, err := a.provider.Generate(ctx, llm.Request{
		System:    assessSystemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: buildAssessPrompt(turnText, cc)}},
		Schema:    assessmentSchema(),
		MaxTokens: 512,
	})
	if err != nil {
		return Heuristic(turnText)
	}

	var parsed struct {
		Confidence     string   `json:"confidence"`
		BloomLevel     string   `json:"bloom_level"`
		Misconceptions []string `json:"misconceptions"`
	}
	if err := json.Unmarshal(resp.Content, &parsed); err != nil {
		return Heuristic(turnText)
	}

	sig := Signal{
		Confidence:     Confidence(parsed.Confidence),
		BloomGuess:     bloom.ParseLevel(parsed.BloomLevel),
		Misconceptions: filterKnownTags(parsed.Misconceptions),
	}
	switch sig.Confidence {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
	default:
		return Heuristic(turnText)
	}
	return sig
}

const assessSystemPrompt = `You are an expert tutor assessing a learner's reply. ` +
	`Judge only what the reply demonstrates, not what the learner might know. ` +
	`Tag a misconception only when the reply clearly shows it.`

func buildAssessPrompt(turnText string, cc ConceptContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Concept: %s\n", cc.ConceptName)
	if cc.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", cc.Description)
	}
	if len(cc.RecentTurns) > 0 {
		b.WriteString("\nRecent dialogue:\n")
		for _, turn := range cc.RecentTurns {
			fmt.Fprintf(&b, "  %s\n", turn)
		}
	}
	fmt.Fprintf(&b, "\nLearner's reply:\n%s\n", turnText)
	b.WriteString("\nClassify the reply's confidence, Bloom level, and misconceptions.")
	return b.String()
}

func assessmentSchema() *llm.Schema {
	levels := make([]any, 0, len(bloom.AllLevels()))
	for _, l := range bloom.AllLevels() {
		levels = append(levels, l.String())
	}
	tags := make([]any, 0, len(KnownTags))
	for _, t := range KnownTags {
		tags = append(tags, t)
	}
	return &llm.Schema{
		Name:        "understanding-assessment",
		Description: "Understanding signals inferred from one learner turn",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"confidence": map[string]any{
					"type": "string",
					"enum": []any{"low", "medium", "high"},
				},
				"bloom_level": map[string]any{
					"type": "string",
					"enum": levels,
				},
				"misconceptions": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string", "enum": tags},
				},
			},
			"required":             []any{"confidence", "bloom_level", "misconceptions"},
			"additionalProperties": false,
		},
	}
}

func filterKnownTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range tags {
		if seen[t] {
			continue
		}
		for _, known := range KnownTags {
			if t == known {
				seen[t] = true
				out = append(out, t)
				break
			}
		}
	}
	return out
}
