package conceptgraph

import (
	"errors"
	"testing"

	"github.com/asengupta/mentor/internal/bloom"
)

func buildTestGraph(t *testing.T) *Graph {
	t.Helper()
	g := New()
	concepts := []Concept{
		{ID: "vars", TopicID: "go", Name: "Variables", DifficultyLevel: 1},
		{ID: "funcs", TopicID: "go", Name: "Functions", DifficultyLevel: 2},
		{ID: "closures", TopicID: "go", Name: "Closures", DifficultyLevel: 3},
		{ID: "goroutines", TopicID: "go", Name: "Goroutines", DifficultyLevel: 4},
	}
	for _, c := range concepts {
		if err := g.AddConcept(c); err != nil {
			t.Fatalf("AddConcept(%s): %v", c.ID, err)
		}
	}
	edges := [][2]string{
		{"funcs", "vars"},
		{"closures", "funcs"},
		{"goroutines", "funcs"},
	}
	for _, e := range edges {
		if err := g.AddPrerequisite(e[0], e[1]); err != nil {
			t.Fatalf("AddPrerequisite(%s, %s): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestAddConcept_Duplicate(t *testing.T) {
	g := New()
	if err := g.AddConcept(Concept{ID: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := g.AddConcept(Concept{ID: "a"})
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
}

func TestAddPrerequisite_DirectCycleRejected(t *testing.T) {
	g := New()
	g.AddConcept(Concept{ID: "a"})
	g.AddConcept(Concept{ID: "b"})
	if err := g.AddPrerequisite("b", "a"); err != nil {
		t.Fatalf("a -> b edge: %v", err)
	}

	err := g.AddPrerequisite("a", "b")
	var cyc *CycleError
	if !errors.As(err, &cyc) {
		t.Fatalf("expected CycleError, got %v", err)
	}

	// Graph must be unchanged: "a" still has no prerequisites.
	a, _ := g.Get("a")
	if len(a.Prerequisites) != 0 {
		t.Errorf("rejected edge mutated the graph: %v", a.Prerequisites)
	}
}

func TestAddPrerequisite_TransitiveCycleRejected(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddConcept(Concept{ID: id})
	}
	// a -> b -> c
	if err := g.AddPrerequisite("b", "a"); err != nil {
		t.Fatal(err)
	}
	if err := g.AddPrerequisite("c", "b"); err != nil {
		t.Fatal(err)
	}

	// c -> a would close the loop transitively.
	err := g.AddPrerequisite("a", "c")
	var cyc *CycleError
	if !errors.As(err, &cyc) {
		t.Fatalf("expected CycleError for transitive cycle, got %v", err)
	}
	a, _ := g.Get("a")
	if len(a.Prerequisites) != 0 {
		t.Errorf("rejected edge mutated the graph: %v", a.Prerequisites)
	}
}

func TestAddPrerequisite_SelfEdgeRejected(t *testing.T) {
	g := New()
	g.AddConcept(Concept{ID: "a"})
	err := g.AddPrerequisite("a", "a")
	var cyc *CycleError
	if !errors.As(err, &cyc) {
		t.Fatalf("expected CycleError for self edge, got %v", err)
	}
}

func TestAddPrerequisite_UnknownConcept(t *testing.T) {
	g := New()
	g.AddConcept(Concept{ID: "a"})
	err := g.AddPrerequisite("a", "missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestIsUnlocked(t *testing.T) {
	g := buildTestGraph(t)

	// Root concept has no prerequisites.
	if ok, _ := g.IsUnlocked("vars"); !ok {
		t.Error("vars should be unlocked")
	}

	// funcs requires vars at >= 0.6.
	if ok, _ := g.IsUnlocked("funcs"); ok {
		t.Error("funcs should be locked while vars mastery is 0")
	}
	g.UpdateMastery("vars", 0.59)
	if ok, _ := g.IsUnlocked("funcs"); ok {
		t.Error("funcs should be locked just below threshold")
	}
	g.UpdateMastery("vars", 0.01)
	if ok, _ := g.IsUnlocked("funcs"); !ok {
		t.Error("funcs should unlock at threshold")
	}
}

func TestIsUnlocked_CustomThreshold(t *testing.T) {
	g := buildTestGraph(t)
	g.UnlockThreshold = 0.9
	g.UpdateMastery("vars", 0.8)
	if ok, _ := g.IsUnlocked("funcs"); ok {
		t.Error("funcs should remain locked under a 0.9 threshold")
	}
}

func TestUpdateMastery_Clamped(t *testing.T) {
	g := New()
	g.AddConcept(Concept{ID: "a"})

	if score, _ := g.UpdateMastery("a", 1.5); score != 1.0 {
		t.Errorf("mastery above 1: got %f", score)
	}
	if score, _ := g.UpdateMastery("a", -3); score != 0.0 {
		t.Errorf("mastery below 0: got %f", score)
	}
}

func TestTopologicalOrder_Deterministic(t *testing.T) {
	g := buildTestGraph(t)

	want := []string{"vars", "funcs", "closures", "goroutines"}
	for i := 0; i < 5; i++ {
		order := g.TopologicalOrder()
		if len(order) != len(want) {
			t.Fatalf("got %d concepts, want %d", len(order), len(want))
		}
		for j, c := range order {
			if c.ID != want[j] {
				t.Fatalf("run %d: order[%d] = %q, want %q", i, j, c.ID, want[j])
			}
		}
	}
}

func TestTopologicalOrder_DifficultyTiebreak(t *testing.T) {
	g := New()
	// Two roots with different difficulty; harder one sorts later even
	// though its ID sorts earlier.
	g.AddConcept(Concept{ID: "aa", DifficultyLevel: 5})
	g.AddConcept(Concept{ID: "zz", DifficultyLevel: 1})

	order := g.TopologicalOrder()
	if order[0].ID != "zz" || order[1].ID != "aa" {
		t.Errorf("got order %q, %q; want zz, aa", order[0].ID, order[1].ID)
	}
}

func TestRaiseBloomLevel_Monotonic(t *testing.T) {
	g := New()
	g.AddConcept(Concept{ID: "a"})
	g.RaiseBloomLevel("a", bloom.LevelAnalyze)
	g.RaiseBloomLevel("a", bloom.LevelRemember)

	c, _ := g.Get("a")
	if c.CurrentBloomLevel != bloom.LevelAnalyze {
		t.Errorf("bloom level regressed: got %v", c.CurrentBloomLevel)
	}
}

func TestFromConcepts_RejectsCycle(t *testing.T) {
	_, err := FromConcepts([]Concept{
		{ID: "a", Prerequisites: []string{"b"}},
		{ID: "b", Prerequisites: []string{"a"}},
	})
	var cyc *CycleError
	if !errors.As(err, &cyc) {
		t.Fatalf("expected CycleError, got %v", err)
	}
}

func TestValidate_OK(t *testing.T) {
	g := buildTestGraph(t)
	if err := g.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}
