package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Topic is a subject area the learner studies.
type Topic struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// TopicRepo manages topics.
type TopicRepo struct {
	db *sql.DB
}

func (r *TopicRepo) Create(ctx context.Context, t *Topic) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO topics (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, t.Description, t.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}

func (r *TopicRepo) Get(ctx context.Context, id string) (*Topic, error) {
	var t Topic
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM topics WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("topic %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get topic: %w", err)
	}
	return &t, nil
}

// GetByName looks a topic up by its display name.
func (r *TopicRepo) GetByName(ctx context.Context, name string) (*Topic, error) {
	var t Topic
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM topics WHERE name = ?`, name,
	).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("topic %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get topic by name: %w", err)
	}
	return &t, nil
}

func (r *TopicRepo) List(ctx context.Context) ([]Topic, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM topics ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var topics []Topic
	for rows.Next() {
		var t Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *TopicRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM topics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("topic %q: %w", id, ErrNotFound)
	}
	return nil
}
