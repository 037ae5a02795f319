package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/asengupta/mentor/internal/spacedrep"
)

// Question is a practice question persisted with its review schedule.
type Question struct {
	ID          string
	TopicID     string
	ConceptID   string
	Prompt      string
	Answer      string
	Explanation string
	Difficulty  string
	CreatedAt   time.Time
}

// QuestionRepo manages questions and their spaced repetition state.
type QuestionRepo struct {
	db *sql.DB
}

// Create inserts a question together with its initial review item.
func (r *QuestionRepo) Create(ctx context.Context, q *Question, item *spacedrep.ReviewItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO questions
			(id, topic_id, concept_id, prompt, answer, explanation, difficulty, created_at,
			 ease_factor, interval_days, repetition_count, due_at,
			 times_reviewed, times_correct, last_reviewed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.TopicID, q.ConceptID, q.Prompt, q.Answer, q.Explanation,
		q.Difficulty, q.CreatedAt.UTC(),
		item.EaseFactor, item.IntervalDays, item.RepetitionCount, item.DueAt.UTC(),
		item.TimesReviewed, item.TimesCorrect, nullableTime(item.LastReviewed),
	)
	if err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

func (r *QuestionRepo) Get(ctx context.Context, id string) (*Question, error) {
	var q Question
	err := r.db.QueryRowContext(ctx,
		`SELECT id, topic_id, concept_id, prompt, answer, explanation, difficulty, created_at
		 FROM questions WHERE id = ?`, id,
	).Scan(&q.ID, &q.TopicID, &q.ConceptID, &q.Prompt, &q.Answer,
		&q.Explanation, &q.Difficulty, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("question %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	return &q, nil
}

// ListByTopic returns all questions for a topic ordered by creation time.
func (r *QuestionRepo) ListByTopic(ctx context.Context, topicID string) ([]Question, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, topic_id, concept_id, prompt, answer, explanation, difficulty, created_at
		 FROM questions WHERE topic_id = ? ORDER BY created_at`, topicID,
	)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()
	return scanQuestions(rows)
}

// ReviewItems loads the spaced repetition state for every question. When
// topicID is non-empty, only that topic's items are returned.
func (r *QuestionRepo) ReviewItems(ctx context.Context, topicID string) ([]*spacedrep.ReviewItem, error) {
	query := `SELECT id, topic_id, ease_factor, interval_days, repetition_count,
	                 due_at, times_reviewed, times_correct, last_reviewed
	          FROM questions`
	var args []any
	if topicID != "" {
		query += ` WHERE topic_id = ?`
		args = append(args, topicID)
	}
	query += ` ORDER BY due_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load review items: %w", err)
	}
	defer rows.Close()

	var items []*spacedrep.ReviewItem
	for rows.Next() {
		var it spacedrep.ReviewItem
		var last sql.NullTime
		if err := rows.Scan(&it.ID, &it.TopicID, &it.EaseFactor, &it.IntervalDays,
			&it.RepetitionCount, &it.DueAt, &it.TimesReviewed, &it.TimesCorrect, &last); err != nil {
			return nil, fmt.Errorf("scan review item: %w", err)
		}
		if last.Valid {
			t := last.Time
			it.LastReviewed = &t
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// UpdateReview persists the review state after a scheduling update.
func (r *QuestionRepo) UpdateReview(ctx context.Context, item *spacedrep.ReviewItem) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE questions
		 SET ease_factor = ?, interval_days = ?, repetition_count = ?, due_at = ?,
		     times_reviewed = ?, times_correct = ?, last_reviewed = ?
		 WHERE id = ?`,
		item.EaseFactor, item.IntervalDays, item.RepetitionCount, item.DueAt.UTC(),
		item.TimesReviewed, item.TimesCorrect, nullableTime(item.LastReviewed),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update review state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("question %q: %w", item.ID, ErrNotFound)
	}
	return nil
}

// UpdateDifficulty persists a difficulty band change.
func (r *QuestionRepo) UpdateDifficulty(ctx context.Context, id, difficulty string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE questions SET difficulty = ? WHERE id = ?`, difficulty, id,
	)
	if err != nil {
		return fmt.Errorf("update difficulty: %w", err)
	}
	return nil
}

func (r *QuestionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

func scanQuestions(rows *sql.Rows) ([]Question, error) {
	var questions []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.TopicID, &q.ConceptID, &q.Prompt, &q.Answer,
			&q.Explanation, &q.Difficulty, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
