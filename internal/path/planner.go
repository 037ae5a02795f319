// Package path plans a learner's route through a topic's concept
// graph: a prerequisite-respecting sequence, the next concept to study,
// and review and gap analysis over the mastery state.
package path

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/asengupta/mentor/internal/bloom"
	"github.com/asengupta/mentor/internal/conceptgraph"
)

// MasteredThreshold is the mastery score at which a concept counts as
// learned and the path moves past it.
const MasteredThreshold = 0.8

// Path is a planned sequence through one topic's concepts.
type Path struct {
	TopicID         string
	ConceptIDs      []string
	EstimatedHours  float64
	DifficultyCurve []int
	Milestones      []Milestone
}

// Milestone marks a quarter-point of the path.
type Milestone struct {
	Percentage int
	ConceptID  string
	Name       string
}

// Planner builds and inspects learning paths over a concept graph.
type Planner struct {
	graph *conceptgraph.Graph
}

func NewPlanner(g *conceptgraph.Graph) *Planner {
	return &Planner{graph: g}
}

// BuildPath sequences the topic's concepts in prerequisite order,
// easier concepts first among peers.
func (p *Planner) BuildPath(topicID string) (*Path, error) {
	seq := p.graph.TopicConcepts(topicID)
	if len(seq) == 0 {
		return nil, fmt.Errorf("topic %q has no concepts", topicID)
	}

	path := &Path{TopicID: topicID}
	totalMins := 0
	for _, c := range seq {
		path.ConceptIDs = append(path.ConceptIDs, c.ID)
		path.DifficultyCurve = append(path.DifficultyCurve, c.DifficultyLevel)
		totalMins += c.EstimatedMins
	}
	path.EstimatedHours = math.Round(float64(totalMins)/60*10) / 10
	path.Milestones = milestones(seq)
	return path, nil
}

func milestones(seq []*conceptgraph.Concept) []Milestone {
	var ms []Milestone
	total := len(seq)
	for _, pct := range []int{25, 50, 75, 100} {
		idx := total*pct/100 - 1
		if idx < 0 || idx >= total {
			continue
		}
		ms = append(ms, Milestone{
			Percentage: pct,
			ConceptID:  seq[idx].ID,
			Name:       fmt.Sprintf("%d%% complete: %s", pct, seq[idx].Name),
		})
	}
	return ms
}

// NextConcept returns the first concept on the path that is unlocked
// but not yet mastered, or nil when the whole path is complete.
func (p *Planner) NextConcept(path *Path) (*conceptgraph.Concept, error) {
	for _, id := range path.ConceptIDs {
		c, err := p.graph.Get(id)
		if err != nil {
			return nil, err
		}
		if c.MasteryScore >= MasteredThreshold {
			continue
		}
		unlocked, err := p.graph.IsUnlocked(id)
		if err != nil {
			return nil, err
		}
		if unlocked {
			return c, nil
		}
	}
	return nil, nil
}

// ProgressPercentage reports how much of the path is mastered, 0-100.
func (p *Planner) ProgressPercentage(path *Path) float64 {
	if len(path.ConceptIDs) == 0 {
		return 0
	}
	mastered := 0
	for _, id := range path.ConceptIDs {
		c, err := p.graph.Get(id)
		if err != nil {
			continue
		}
		if c.MasteryScore >= MasteredThreshold {
			mastered++
		}
	}
	return float64(mastered) / float64(len(path.ConceptIDs)) * 100
}

// CrossedMilestone reports the highest quarter boundary (25, 50, 75 or
// 100) passed when the mastered count moves from before to after out of
// total concepts. Returns 0 when no boundary was crossed.
func CrossedMilestone(total, before, after int) int {
	if total <= 0 || after <= before {
		return 0
	}
	crossed := 0
	for _, pct := range []int{25, 50, 75, 100} {
		need := total * pct
		if before*100 < need && after*100 >= need {
			crossed = pct
		}
	}
	return crossed
}

// ReviewSuggestion is a concept worth revisiting, with the reasons.
type ReviewSuggestion struct {
	ConceptID string
	Priority  int
	Reason    string
}

// SuggestReviewConcepts scores every concept for review value: partial
// mastery weighs most, then being a prerequisite of something else,
// staleness, and open misconceptions. Returns the top max suggestions,
// highest priority first.
func (p *Planner) SuggestReviewConcepts(max int, now time.Time) []ReviewSuggestion {
	var suggestions []ReviewSuggestion
	for _, c := range p.graph.Concepts() {
		// Never-touched concepts belong to the path, not to review.
		if c.MasteryScore == 0 && c.TimesPracticed == 0 {
			continue
		}
		score := 0
		var reasons []string

		if c.MasteryScore > 0.6 && c.MasteryScore < 0.85 {
			score += 3
			reasons = append(reasons, "solidify understanding")
		}
		if len(p.graph.Dependents(c.ID)) > 0 {
			score += 2
			reasons = append(reasons, "prerequisite for later concepts")
		}
		if c.LastPracticed != nil && now.Sub(*c.LastPracticed) > 7*24*time.Hour {
			score += 2
			reasons = append(reasons, "refresh memory")
		}
		if len(c.Misconceptions) > 0 {
			score += 1
			reasons = append(reasons, "address misconceptions")
		}

		if score > 0 {
			suggestions = append(suggestions, ReviewSuggestion{
				ConceptID: c.ID,
				Priority:  score,
				Reason:    strings.Join(reasons, ", "),
			})
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Priority != suggestions[j].Priority {
			return suggestions[i].Priority > suggestions[j].Priority
		}
		return suggestions[i].ConceptID < suggestions[j].ConceptID
	})
	if max > 0 && len(suggestions) > max {
		suggestions = suggestions[:max]
	}
	return suggestions
}

// Gap types produced by IdentifyKnowledgeGaps.
const (
	GapWeakFoundation   = "weak_foundation"
	GapNeedsApplication = "needs_application"
)

// Gap flags a structural weakness in the learner's knowledge.
type Gap struct {
	Type              string
	ConceptID         string
	WeakPrerequisites []string
	Severity          string
	Recommendation    string
}

// IdentifyKnowledgeGaps walks the graph looking for concepts built on
// shaky prerequisites, and for concepts understood in the abstract but
// never applied.
func (p *Planner) IdentifyKnowledgeGaps() []Gap {
	var gaps []Gap
	for _, c := range p.graph.Concepts() {
		if c.MasteryScore > 0.7 {
			var weak []string
			for _, pid := range c.Prerequisites {
				prereq, err := p.graph.Get(pid)
				if err != nil {
					continue
				}
				if prereq.MasteryScore < 0.6 {
					weak = append(weak, pid)
				}
			}
			if len(weak) > 0 {
				sort.Strings(weak)
				gaps = append(gaps, Gap{
					Type:              GapWeakFoundation,
					ConceptID:         c.ID,
					WeakPrerequisites: weak,
					Severity:          "high",
					Recommendation:    "review foundational concepts before proceeding",
				})
			}
		}

		if c.CurrentBloomLevel == bloom.LevelUnderstand {
			gaps = append(gaps, Gap{
				Type:           GapNeedsApplication,
				ConceptID:      c.ID,
				Severity:       "medium",
				Recommendation: "practice applying this concept in new contexts",
			})
		}
	}
	return gaps
}
