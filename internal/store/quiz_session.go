package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// QuizSession is a persisted practice session.
type QuizSession struct {
	ID        string
	TopicID   string
	Mode      string
	StartedAt time.Time
	EndedAt   *time.Time
	Total     int
	Correct   int
}

// QuizOutcome is one answered question within a session.
type QuizOutcome struct {
	Sequence   int64
	SessionID  string
	QuestionID string
	Correct    bool
	Confidence int
	Quality    int
	AnsweredAt time.Time
}

// QuizSessionRepo manages quiz sessions and their outcomes.
type QuizSessionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *QuizSessionRepo) Create(ctx context.Context, s *QuizSession) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO quiz_sessions (id, topic_id, mode, started_at, total, correct)
		 VALUES (?, ?, ?, ?, 0, 0)`,
		s.ID, s.TopicID, s.Mode, s.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create quiz session: %w", err)
	}
	return nil
}

// AppendOutcome records an answered question and bumps the session counters.
func (r *QuizSessionRepo) AppendOutcome(ctx context.Context, o *QuizOutcome) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	o.Sequence = seqNum

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO quiz_outcomes (sequence, session_id, question_id, correct, confidence, quality, answered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.Sequence, o.SessionID, o.QuestionID, o.Correct, o.Confidence, o.Quality,
		o.AnsweredAt.UTC()); err != nil {
		return fmt.Errorf("save outcome: %w", err)
	}

	correctDelta := 0
	if o.Correct {
		correctDelta = 1
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE quiz_sessions SET total = total + 1, correct = correct + ? WHERE id = ?`,
		correctDelta, o.SessionID); err != nil {
		return fmt.Errorf("update session counters: %w", err)
	}
	return tx.Commit()
}

// Finish marks the session as ended.
func (r *QuizSessionRepo) Finish(ctx context.Context, id string, endedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE quiz_sessions SET ended_at = ? WHERE id = ?`, endedAt.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("finish quiz session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("quiz session %q: %w", id, ErrNotFound)
	}
	return nil
}

func (r *QuizSessionRepo) Get(ctx context.Context, id string) (*QuizSession, error) {
	var s QuizSession
	var ended sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, topic_id, mode, started_at, ended_at, total, correct
		 FROM quiz_sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.TopicID, &s.Mode, &s.StartedAt, &ended, &s.Total, &s.Correct)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("quiz session %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz session: %w", err)
	}
	if ended.Valid {
		t := ended.Time
		s.EndedAt = &t
	}
	return &s, nil
}

// ListRecent returns the most recent sessions, newest first.
func (r *QuizSessionRepo) ListRecent(ctx context.Context, limit int) ([]QuizSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, topic_id, mode, started_at, ended_at, total, correct
		 FROM quiz_sessions ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list quiz sessions: %w", err)
	}
	defer rows.Close()

	var sessions []QuizSession
	for rows.Next() {
		var s QuizSession
		var ended sql.NullTime
		if err := rows.Scan(&s.ID, &s.TopicID, &s.Mode, &s.StartedAt, &ended,
			&s.Total, &s.Correct); err != nil {
			return nil, fmt.Errorf("scan quiz session: %w", err)
		}
		if ended.Valid {
			t := ended.Time
			s.EndedAt = &t
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Outcomes returns a session's outcomes in answer order.
func (r *QuizSessionRepo) Outcomes(ctx context.Context, sessionID string) ([]QuizOutcome, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sequence, session_id, question_id, correct, confidence, quality, answered_at
		 FROM quiz_outcomes WHERE session_id = ? ORDER BY sequence`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []QuizOutcome
	for rows.Next() {
		var o QuizOutcome
		if err := rows.Scan(&o.Sequence, &o.SessionID, &o.QuestionID, &o.Correct,
			&o.Confidence, &o.Quality, &o.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
