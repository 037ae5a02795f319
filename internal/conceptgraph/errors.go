package conceptgraph

import "fmt"

// CycleError indicates a prerequisite edge was rejected because adding
// it would have closed a cycle. The graph is unchanged after the error.
type CycleError struct {
	ConceptID      string
	PrerequisiteID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("prerequisite %q -> %q would create a cycle", e.PrerequisiteID, e.ConceptID)
}

// NotFoundError indicates an operation referenced an unknown concept ID.
type NotFoundError struct {
	ConceptID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("concept not found: %q", e.ConceptID)
}

// DuplicateError indicates an AddConcept call reused an existing ID.
type DuplicateError struct {
	ConceptID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("concept already exists: %q", e.ConceptID)
}
