package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// LearningPath is a persisted ordered traversal of a topic's concepts.
type LearningPath struct {
	ID         string
	TopicID    string
	ConceptIDs []string
	CreatedAt  time.Time
}

// PathRepo manages learning paths.
type PathRepo struct {
	db *sql.DB
}

// Save inserts or replaces the path for a topic. A topic keeps a single
// current path; replanning overwrites it.
func (r *PathRepo) Save(ctx context.Context, p *LearningPath) error {
	ids, err := json.Marshal(p.ConceptIDs)
	if err != nil {
		return fmt.Errorf("marshal concept ids: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM learning_paths WHERE topic_id = ?`, p.TopicID); err != nil {
		return fmt.Errorf("clear old path: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO learning_paths (id, topic_id, concept_ids, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.TopicID, string(ids), p.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("save path: %w", err)
	}
	return tx.Commit()
}

// GetByTopic returns the current path for a topic.
func (r *PathRepo) GetByTopic(ctx context.Context, topicID string) (*LearningPath, error) {
	var p LearningPath
	var ids string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, topic_id, concept_ids, created_at FROM learning_paths WHERE topic_id = ?`,
		topicID,
	).Scan(&p.ID, &p.TopicID, &ids, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("path for topic %q: %w", topicID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get path: %w", err)
	}
	if err := json.Unmarshal([]byte(ids), &p.ConceptIDs); err != nil {
		return nil, fmt.Errorf("unmarshal concept ids: %w", err)
	}
	return &p, nil
}

func (r *PathRepo) Delete(ctx context.Context, topicID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM learning_paths WHERE topic_id = ?`, topicID)
	if err != nil {
		return fmt.Errorf("delete path: %w", err)
	}
	return nil
}
