// Package conceptgraph models the concept dependency graph: a DAG of
// concepts whose edges are prerequisite relationships, plus the mastery
// bookkeeping that gates which concepts are unlocked for study.
//
// Cycles are rejected at edge-insertion time, so an invalid graph is
// unrepresentable rather than merely detected during traversal.
package conceptgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/asengupta/mentor/internal/bloom"
)

// DefaultUnlockThreshold is the mastery score every prerequisite must
// reach before a concept unlocks.
const DefaultUnlockThreshold = 0.6

// Graph is a mutable concept DAG with precomputed reverse edges.
// The zero value is not usable; construct with New.
type Graph struct {
	byID       map[string]*Concept
	dependents map[string][]string

	// UnlockThreshold overrides DefaultUnlockThreshold when > 0.
	UnlockThreshold float64
}

// New creates an empty graph with the default unlock threshold.
func New() *Graph {
	return &Graph{
		byID:       make(map[string]*Concept),
		dependents: make(map[string][]string),
	}
}

// FromConcepts builds a graph from a pre-validated concept set, e.g.
// one loaded from the store. Prerequisite edges referencing concepts
// outside the set, and edges that would close a cycle, are rejected.
func FromConcepts(concepts []Concept) (*Graph, error) {
	g := New()
	for i := range concepts {
		c := concepts[i]
		prereqs := c.Prerequisites
		c.Prerequisites = nil
		if err := g.AddConcept(c); err != nil {
			return nil, err
		}
		// Re-add edges through AddPrerequisite so they get cycle-checked.
		concepts[i].Prerequisites = prereqs
	}
	for _, c := range concepts {
		for _, p := range c.Prerequisites {
			if err := g.AddPrerequisite(c.ID, p); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// AddConcept inserts a concept node. The concept's Prerequisites field
// must be empty; edges are added through AddPrerequisite so each one is
// cycle-checked.
func (g *Graph) AddConcept(c Concept) error {
	if c.ID == "" {
		return fmt.Errorf("concept ID must not be empty")
	}
	if _, exists := g.byID[c.ID]; exists {
		return &DuplicateError{ConceptID: c.ID}
	}
	if len(c.Prerequisites) > 0 {
		return fmt.Errorf("concept %q: add prerequisite edges via AddPrerequisite", c.ID)
	}
	c.DifficultyLevel = clampDifficulty(c.DifficultyLevel)
	c.MasteryScore = clampMastery(c.MasteryScore)
	g.byID[c.ID] = &c
	return nil
}

// AddPrerequisite adds the edge prerequisiteID -> conceptID. The edge is
// rejected with a CycleError when conceptID can already reach
// prerequisiteID through existing edges; the graph is left unchanged.
func (g *Graph) AddPrerequisite(conceptID, prerequisiteID string) error {
	c, ok := g.byID[conceptID]
	if !ok {
		return &NotFoundError{ConceptID: conceptID}
	}
	if _, ok := g.byID[prerequisiteID]; !ok {
		return &NotFoundError{ConceptID: prerequisiteID}
	}
	if conceptID == prerequisiteID {
		return &CycleError{ConceptID: conceptID, PrerequisiteID: prerequisiteID}
	}
	for _, existing := range c.Prerequisites {
		if existing == prerequisiteID {
			return nil // edge already present
		}
	}
	// The new edge closes a cycle iff the prerequisite is reachable from
	// the concept by following dependency edges downstream.
	if g.reachable(conceptID, prerequisiteID) {
		return &CycleError{ConceptID: conceptID, PrerequisiteID: prerequisiteID}
	}

	c.Prerequisites = append(c.Prerequisites, prerequisiteID)
	g.dependents[prerequisiteID] = append(g.dependents[prerequisiteID], conceptID)
	return nil
}

// reachable reports whether target is reachable from start by following
// dependent edges (start -> things that depend on start -> ...).
func (g *Graph) reachable(start, target string) bool {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == target {
			return true
		}
		for _, dep := range g.dependents[id] {
			if !seen[dep] {
				seen[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return false
}

// Get returns the concept with the given ID.
func (g *Graph) Get(id string) (*Concept, error) {
	c, ok := g.byID[id]
	if !ok {
		return nil, &NotFoundError{ConceptID: id}
	}
	return c, nil
}

// Concepts returns all concepts, ordered by ID for determinism.
func (g *Graph) Concepts() []*Concept {
	out := make([]*Concept, 0, len(g.byID))
	for _, c := range g.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of concepts in the graph.
func (g *Graph) Len() int { return len(g.byID) }

// unlockThreshold resolves the effective prerequisite mastery threshold.
func (g *Graph) unlockThreshold() float64 {
	if g.UnlockThreshold > 0 {
		return g.UnlockThreshold
	}
	return DefaultUnlockThreshold
}

// IsUnlocked reports whether every prerequisite of the concept meets the
// mastery threshold. Concepts with no prerequisites are always unlocked.
func (g *Graph) IsUnlocked(id string) (bool, error) {
	c, ok := g.byID[id]
	if !ok {
		return false, &NotFoundError{ConceptID: id}
	}
	threshold := g.unlockThreshold()
	for _, pid := range c.Prerequisites {
		p, ok := g.byID[pid]
		if !ok || p.MasteryScore < threshold {
			return false, nil
		}
	}
	return true, nil
}

// UpdateMastery applies a delta to a concept's mastery score, clamping
// the result to [0,1]. Returns the new score.
func (g *Graph) UpdateMastery(id string, delta float64) (float64, error) {
	c, ok := g.byID[id]
	if !ok {
		return 0, &NotFoundError{ConceptID: id}
	}
	c.MasteryScore = clampMastery(c.MasteryScore + delta)
	return c.MasteryScore, nil
}

// RaiseBloomLevel lifts a concept's recorded Bloom level to the given
// level if it is deeper than the current one.
func (g *Graph) RaiseBloomLevel(id string, level bloom.Level) error {
	c, ok := g.byID[id]
	if !ok {
		return &NotFoundError{ConceptID: id}
	}
	c.CurrentBloomLevel = bloom.Max(c.CurrentBloomLevel, level)
	return nil
}

// TopologicalOrder returns a deterministic linearization of the graph
// (Kahn's algorithm). Ready concepts are emitted in ascending difficulty
// order, ties broken by ascending ID, so identical graphs always produce
// identical orderings.
func (g *Graph) TopologicalOrder() []*Concept {
	inDegree := make(map[string]int, len(g.byID))
	for id, c := range g.byID {
		inDegree[id] = len(c.Prerequisites)
	}

	var ready []*Concept
	for id, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, g.byID[id])
		}
	}

	order := make([]*Concept, 0, len(g.byID))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			if ready[i].DifficultyLevel != ready[j].DifficultyLevel {
				return ready[i].DifficultyLevel < ready[j].DifficultyLevel
			}
			return ready[i].ID < ready[j].ID
		})
		c := ready[0]
		ready = ready[1:]
		order = append(order, c)

		for _, depID := range g.dependents[c.ID] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				ready = append(ready, g.byID[depID])
			}
		}
	}
	return order
}

// TopicConcepts returns the topological order restricted to one topic.
func (g *Graph) TopicConcepts(topicID string) []*Concept {
	var out []*Concept
	for _, c := range g.TopologicalOrder() {
		if c.TopicID == topicID {
			out = append(out, c)
		}
	}
	return out
}

// Dependents returns the IDs of concepts that directly require the given
// concept, sorted for determinism.
func (g *Graph) Dependents(id string) []string {
	deps := make([]string, len(g.dependents[id]))
	copy(deps, g.dependents[id])
	sort.Strings(deps)
	return deps
}

// Validate performs structural checks over the whole graph: dangling
// prerequisite references and out-of-range fields. Cycles cannot occur
// through the public API but are swept here as a defense for graphs
// loaded from external storage.
func (g *Graph) Validate() error {
	var errs []string

	for _, c := range g.Concepts() {
		for _, pid := range c.Prerequisites {
			if _, ok := g.byID[pid]; !ok {
				errs = append(errs, fmt.Sprintf("concept %q references nonexistent prerequisite %q", c.ID, pid))
			}
		}
		if c.MasteryScore < 0 || c.MasteryScore > 1 {
			errs = append(errs, fmt.Sprintf("concept %q: mastery score %f outside [0,1]", c.ID, c.MasteryScore))
		}
	}

	if len(g.TopologicalOrder()) < len(g.byID) {
		errs = append(errs, "cycle detected in prerequisite edges")
	}

	if len(errs) > 0 {
		return fmt.Errorf("concept graph validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
