package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/asengupta/mentor/internal/learner"
)

// ProfileRepo persists the single learner profile as a JSON document.
// The CLI is single-user, so the table holds exactly one row.
type ProfileRepo struct {
	db *sql.DB
}

// Save stores the profile, replacing any previous version.
func (r *ProfileRepo) Save(ctx context.Context, p *learner.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO learner_profiles (id, data, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Load returns the stored profile, or a fresh one if none exists yet.
func (r *ProfileRepo) Load(ctx context.Context) (*learner.Profile, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM learner_profiles WHERE id = 1`,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return learner.NewProfile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	var p learner.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &p, nil
}
