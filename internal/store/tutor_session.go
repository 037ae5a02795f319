package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TutorSession is a persisted Socratic dialogue session.
type TutorSession struct {
	ID         string
	ConceptID  string
	State      string
	BloomStart int
	BloomEnd   int
	StartedAt  time.Time
	EndedAt    *time.Time
	Summary    string // JSON-encoded session summary, empty until ended
}

// TutorTurn is one utterance within a tutoring session.
type TutorTurn struct {
	SessionID string
	Idx       int
	Role      string
	Content   string
	Move      string
	CreatedAt time.Time
}

// TutorSessionRepo manages tutoring sessions and their transcripts.
type TutorSessionRepo struct {
	db *sql.DB
}

func (r *TutorSessionRepo) Create(ctx context.Context, s *TutorSession) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tutor_sessions (id, concept_id, state, bloom_start, bloom_end, started_at, summary)
		 VALUES (?, ?, ?, ?, ?, ?, '')`,
		s.ID, s.ConceptID, s.State, s.BloomStart, s.BloomEnd, s.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create tutor session: %w", err)
	}
	return nil
}

// AppendTurn appends an utterance to the transcript.
func (r *TutorSessionRepo) AppendTurn(ctx context.Context, t *TutorTurn) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tutor_turns (session_id, idx, role, content, move, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.SessionID, t.Idx, t.Role, t.Content, t.Move, t.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("append tutor turn: %w", err)
	}
	return nil
}

// UpdateState persists a dialogue state transition.
func (r *TutorSessionRepo) UpdateState(ctx context.Context, id, state string, bloomEnd int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tutor_sessions SET state = ?, bloom_end = ? WHERE id = ?`,
		state, bloomEnd, id,
	)
	if err != nil {
		return fmt.Errorf("update tutor session state: %w", err)
	}
	return nil
}

// Finish marks the session as ended with its summary.
func (r *TutorSessionRepo) Finish(ctx context.Context, id string, endedAt time.Time, summary string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tutor_sessions SET ended_at = ?, state = 'closing', summary = ? WHERE id = ?`,
		endedAt.UTC(), summary, id,
	)
	if err != nil {
		return fmt.Errorf("finish tutor session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("tutor session %q: %w", id, ErrNotFound)
	}
	return nil
}

func (r *TutorSessionRepo) Get(ctx context.Context, id string) (*TutorSession, error) {
	var s TutorSession
	var ended sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, concept_id, state, bloom_start, bloom_end, started_at, ended_at, summary
		 FROM tutor_sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.ConceptID, &s.State, &s.BloomStart, &s.BloomEnd,
		&s.StartedAt, &ended, &s.Summary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tutor session %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tutor session: %w", err)
	}
	if ended.Valid {
		t := ended.Time
		s.EndedAt = &t
	}
	return &s, nil
}

// Turns returns the transcript in order.
func (r *TutorSessionRepo) Turns(ctx context.Context, sessionID string) ([]TutorTurn, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, idx, role, content, move, created_at
		 FROM tutor_turns WHERE session_id = ? ORDER BY idx`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tutor turns: %w", err)
	}
	defer rows.Close()

	var turns []TutorTurn
	for rows.Next() {
		var t TutorTurn
		if err := rows.Scan(&t.SessionID, &t.Idx, &t.Role, &t.Content, &t.Move,
			&t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tutor turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// ListRecent returns the most recent tutoring sessions, newest first.
func (r *TutorSessionRepo) ListRecent(ctx context.Context, limit int) ([]TutorSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, concept_id, state, bloom_start, bloom_end, started_at, ended_at, summary
		 FROM tutor_sessions ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list tutor sessions: %w", err)
	}
	defer rows.Close()

	var sessions []TutorSession
	for rows.Next() {
		var s TutorSession
		var ended sql.NullTime
		if err := rows.Scan(&s.ID, &s.ConceptID, &s.State, &s.BloomStart, &s.BloomEnd,
			&s.StartedAt, &ended, &s.Summary); err != nil {
			return nil, fmt.Errorf("scan tutor session: %w", err)
		}
		if ended.Valid {
			t := ended.Time
			s.EndedAt = &t
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
