package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/asengupta/mentor/internal/bloom"
	"github.com/asengupta/mentor/internal/conceptgraph"
)

// ConceptRepo persists concepts and their prerequisite edges.
type ConceptRepo struct {
	db *sql.DB
}

// Save inserts or replaces a concept row. Prerequisite edges are managed
// separately via SavePrerequisite so the graph's cycle checks stay in
// front of every edge insertion.
func (r *ConceptRepo) Save(ctx context.Context, c *conceptgraph.Concept) error {
	misconceptions, err := json.Marshal(c.Misconceptions)
	if err != nil {
		return fmt.Errorf("marshal misconceptions: %w", err)
	}
	strengths, err := json.Marshal(c.Strengths)
	if err != nil {
		return fmt.Errorf("marshal strengths: %w", err)
	}
	gaps, err := json.Marshal(c.GapAreas)
	if err != nil {
		return fmt.Errorf("marshal gap areas: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO concepts
			(id, topic_id, name, description, difficulty, estimated_mins,
			 mastery_score, bloom_level, misconceptions, strengths, gap_areas,
			 times_practiced, last_practiced)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			difficulty = excluded.difficulty,
			estimated_mins = excluded.estimated_mins,
			mastery_score = excluded.mastery_score,
			bloom_level = excluded.bloom_level,
			misconceptions = excluded.misconceptions,
			strengths = excluded.strengths,
			gap_areas = excluded.gap_areas,
			times_practiced = excluded.times_practiced,
			last_practiced = excluded.last_practiced`,
		c.ID, c.TopicID, c.Name, c.Description, c.DifficultyLevel, c.EstimatedMins,
		c.MasteryScore, int(c.CurrentBloomLevel), string(misconceptions),
		string(strengths), string(gaps), c.TimesPracticed, nullableTime(c.LastPracticed),
	)
	if err != nil {
		return fmt.Errorf("save concept: %w", err)
	}
	return nil
}

// SavePrerequisite records a prerequisite edge.
func (r *ConceptRepo) SavePrerequisite(ctx context.Context, conceptID, prerequisiteID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO concept_prerequisites (concept_id, prerequisite_id) VALUES (?, ?)`,
		conceptID, prerequisiteID,
	)
	if err != nil {
		return fmt.Errorf("save prerequisite: %w", err)
	}
	return nil
}

// LoadGraph loads all concepts for a topic (or every topic when topicID
// is empty) with prerequisite lists populated, and assembles them into a
// validated graph.
func (r *ConceptRepo) LoadGraph(ctx context.Context, topicID string) (*conceptgraph.Graph, error) {
	loaded, err := r.loadConcepts(ctx, topicID)
	if err != nil {
		return nil, err
	}
	concepts := make([]conceptgraph.Concept, len(loaded))
	for i, c := range loaded {
		concepts[i] = *c
	}
	return conceptgraph.FromConcepts(concepts)
}

func (r *ConceptRepo) loadConcepts(ctx context.Context, topicID string) ([]*conceptgraph.Concept, error) {
	query := `SELECT id, topic_id, name, description, difficulty, estimated_mins,
	                 mastery_score, bloom_level, misconceptions, strengths, gap_areas,
	                 times_practiced, last_practiced
	          FROM concepts`
	var args []any
	if topicID != "" {
		query += ` WHERE topic_id = ?`
		args = append(args, topicID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load concepts: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*conceptgraph.Concept)
	var concepts []*conceptgraph.Concept
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, err
		}
		byID[c.ID] = c
		concepts = append(concepts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	edges, err := r.db.QueryContext(ctx,
		`SELECT concept_id, prerequisite_id FROM concept_prerequisites ORDER BY concept_id, prerequisite_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("load prerequisites: %w", err)
	}
	defer edges.Close()

	for edges.Next() {
		var conceptID, prereqID string
		if err := edges.Scan(&conceptID, &prereqID); err != nil {
			return nil, fmt.Errorf("scan prerequisite: %w", err)
		}
		if c, ok := byID[conceptID]; ok {
			c.Prerequisites = append(c.Prerequisites, prereqID)
		}
	}
	return concepts, edges.Err()
}

// Get loads a single concept with its prerequisites.
func (r *ConceptRepo) Get(ctx context.Context, id string) (*conceptgraph.Concept, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, topic_id, name, description, difficulty, estimated_mins,
		        mastery_score, bloom_level, misconceptions, strengths, gap_areas,
		        times_practiced, last_practiced
		 FROM concepts WHERE id = ?`, id,
	)
	c, err := scanConcept(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("concept %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT prerequisite_id FROM concept_prerequisites WHERE concept_id = ? ORDER BY prerequisite_id`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("load prerequisites: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var prereqID string
		if err := rows.Scan(&prereqID); err != nil {
			return nil, fmt.Errorf("scan prerequisite: %w", err)
		}
		c.Prerequisites = append(c.Prerequisites, prereqID)
	}
	return c, rows.Err()
}

// UpdateProgress persists the mutable learning state of a concept.
func (r *ConceptRepo) UpdateProgress(ctx context.Context, c *conceptgraph.Concept) error {
	misconceptions, err := json.Marshal(c.Misconceptions)
	if err != nil {
		return fmt.Errorf("marshal misconceptions: %w", err)
	}
	strengths, err := json.Marshal(c.Strengths)
	if err != nil {
		return fmt.Errorf("marshal strengths: %w", err)
	}
	gaps, err := json.Marshal(c.GapAreas)
	if err != nil {
		return fmt.Errorf("marshal gap areas: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE concepts
		 SET mastery_score = ?, bloom_level = ?, misconceptions = ?, strengths = ?,
		     gap_areas = ?, times_practiced = ?, last_practiced = ?
		 WHERE id = ?`,
		c.MasteryScore, int(c.CurrentBloomLevel), string(misconceptions),
		string(strengths), string(gaps), c.TimesPracticed,
		nullableTime(c.LastPracticed), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update concept progress: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("concept %q: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (r *ConceptRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM concepts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete concept: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConcept(row rowScanner) (*conceptgraph.Concept, error) {
	var c conceptgraph.Concept
	var bloomLevel int
	var misconceptions, strengths, gaps string
	var last sql.NullTime

	err := row.Scan(&c.ID, &c.TopicID, &c.Name, &c.Description, &c.DifficultyLevel,
		&c.EstimatedMins, &c.MasteryScore, &bloomLevel, &misconceptions,
		&strengths, &gaps, &c.TimesPracticed, &last)
	if err != nil {
		return nil, err
	}

	c.CurrentBloomLevel = bloom.Level(bloomLevel)
	if err := json.Unmarshal([]byte(misconceptions), &c.Misconceptions); err != nil {
		return nil, fmt.Errorf("unmarshal misconceptions: %w", err)
	}
	if err := json.Unmarshal([]byte(strengths), &c.Strengths); err != nil {
		return nil, fmt.Errorf("unmarshal strengths: %w", err)
	}
	if err := json.Unmarshal([]byte(gaps), &c.GapAreas); err != nil {
		return nil, fmt.Errorf("unmarshal gap areas: %w", err)
	}
	if last.Valid {
		t := last.Time
		c.LastPracticed = &t
	}
	return &c, nil
}
