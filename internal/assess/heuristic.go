package assess

import (
	"strings"

	"github.com/asengupta/mentor/internal/bloom"
)

// Word lists driving the offline classifier. Causal connectives signal
// reasoning; hedges signal uncertainty.
var (
	causalMarkers = []string{
		"because", "therefore", "which means", "for example",
		"so that", "as a result", "that is why",
	}
	hedgeMarkers = []string{
		"confused", "don't understand", "not sure", "maybe",
		"i guess", "no idea", "i think?",
	}
	analysisMarkers = []string{
		"compared to", "on the other hand", "the difference",
		"trade-off", "tradeoff", "depends on", "in contrast",
	}
)

// Heuristic classifies a turn from its text alone. It is total: any
// input, including empty text, produces a valid signal.
//
// Scoring starts from a neutral midpoint. Causal connectives and
// multi-clause structure raise the depth estimate; hedging and very
// short answers lower confidence.
func Heuristic(turnText string) Signal {
	lower := strings.ToLower(turnText)
	words := len(strings.Fields(turnText))

	score := 0
	if containsAny(lower, causalMarkers) {
		score += 2
	}
	if containsAny(lower, analysisMarkers) {
		score += 2
	}
	if clauses(turnText) >= 2 {
		score++
	}
	if containsAny(lower, hedgeMarkers) {
		score -= 2
	}
	if words < 5 {
		score -= 2
	}

	sig := Signal{}
	switch {
	case score <= -2:
		sig.Confidence = ConfidenceLow
	case score >= 2:
		sig.Confidence = ConfidenceHigh
	default:
		sig.Confidence = ConfidenceMedium
	}

	switch {
	case words == 0:
		sig.BloomGuess = bloom.LevelNone
	case score >= 4:
		sig.BloomGuess = bloom.LevelAnalyze
	case score >= 2:
		sig.BloomGuess = bloom.LevelApply
	case score >= 0:
		sig.BloomGuess = bloom.LevelUnderstand
	default:
		sig.BloomGuess = bloom.LevelRemember
	}

	// The heuristic sees text only, so the one misconception it can
	// detect with any reliability is recall without reasoning.
	if words >= 5 && score <= -1 && !containsAny(lower, hedgeMarkers) {
		sig.Misconceptions = []string{TagSurfaceRecall}
	}
	return sig
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// clauses counts rough clause boundaries: sentence punctuation plus
// commas followed by a conjunction.
func clauses(s string) int {
	n := 1
	for _, sep := range []string{". ", "; ", ", and ", ", but ", ", so "} {
		n += strings.Count(s, sep)
	}
	return n
}
