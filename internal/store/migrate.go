package store

import (
	"database/sql"
	"fmt"
)

// migrate creates the schema. All statements are idempotent so Open can
// run them unconditionally.
func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS topics (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS questions (
			id               TEXT PRIMARY KEY,
			topic_id         TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
			concept_id       TEXT NOT NULL DEFAULT '',
			prompt           TEXT NOT NULL,
			answer           TEXT NOT NULL,
			explanation      TEXT NOT NULL DEFAULT '',
			difficulty       TEXT NOT NULL DEFAULT 'medium',
			created_at       TIMESTAMP NOT NULL,
			ease_factor      REAL NOT NULL DEFAULT 2.5,
			interval_days    INTEGER NOT NULL DEFAULT 0,
			repetition_count INTEGER NOT NULL DEFAULT 0,
			due_at           TIMESTAMP NOT NULL,
			times_reviewed   INTEGER NOT NULL DEFAULT 0,
			times_correct    INTEGER NOT NULL DEFAULT 0,
			last_reviewed    TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_topic ON questions(topic_id)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_due ON questions(due_at)`,

		`CREATE TABLE IF NOT EXISTS concepts (
			id              TEXT PRIMARY KEY,
			topic_id        TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
			name            TEXT NOT NULL,
			description     TEXT NOT NULL DEFAULT '',
			difficulty      INTEGER NOT NULL DEFAULT 1,
			estimated_mins  INTEGER NOT NULL DEFAULT 0,
			mastery_score   REAL NOT NULL DEFAULT 0,
			bloom_level     INTEGER NOT NULL DEFAULT 0,
			misconceptions  TEXT NOT NULL DEFAULT '[]',
			strengths       TEXT NOT NULL DEFAULT '[]',
			gap_areas       TEXT NOT NULL DEFAULT '[]',
			times_practiced INTEGER NOT NULL DEFAULT 0,
			last_practiced  TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_concepts_topic ON concepts(topic_id)`,

		`CREATE TABLE IF NOT EXISTS concept_prerequisites (
			concept_id      TEXT NOT NULL REFERENCES concepts(id) ON DELETE CASCADE,
			prerequisite_id TEXT NOT NULL REFERENCES concepts(id) ON DELETE CASCADE,
			PRIMARY KEY (concept_id, prerequisite_id)
		)`,

		`CREATE TABLE IF NOT EXISTS learning_paths (
			id          TEXT PRIMARY KEY,
			topic_id    TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
			concept_ids TEXT NOT NULL,
			created_at  TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_paths_topic ON learning_paths(topic_id)`,

		`CREATE TABLE IF NOT EXISTS quiz_sessions (
			id         TEXT PRIMARY KEY,
			topic_id   TEXT NOT NULL DEFAULT '',
			mode       TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			ended_at   TIMESTAMP,
			total      INTEGER NOT NULL DEFAULT 0,
			correct    INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS quiz_outcomes (
			sequence    INTEGER PRIMARY KEY,
			session_id  TEXT NOT NULL REFERENCES quiz_sessions(id) ON DELETE CASCADE,
			question_id TEXT NOT NULL,
			correct     INTEGER NOT NULL,
			confidence  INTEGER NOT NULL,
			quality     INTEGER NOT NULL,
			answered_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_session ON quiz_outcomes(session_id)`,

		`CREATE TABLE IF NOT EXISTS tutor_sessions (
			id          TEXT PRIMARY KEY,
			concept_id  TEXT NOT NULL,
			state       TEXT NOT NULL,
			bloom_start INTEGER NOT NULL DEFAULT 0,
			bloom_end   INTEGER NOT NULL DEFAULT 0,
			started_at  TIMESTAMP NOT NULL,
			ended_at    TIMESTAMP,
			summary     TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS tutor_turns (
			session_id TEXT NOT NULL REFERENCES tutor_sessions(id) ON DELETE CASCADE,
			idx        INTEGER NOT NULL,
			role       TEXT NOT NULL,
			content    TEXT NOT NULL,
			move       TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (session_id, idx)
		)`,

		`CREATE TABLE IF NOT EXISTS learner_profiles (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			data       TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS llm_request_events (
			sequence      INTEGER PRIMARY KEY,
			provider      TEXT NOT NULL,
			model         TEXT NOT NULL,
			purpose       TEXT NOT NULL,
			input_tokens  INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms    INTEGER NOT NULL DEFAULT 0,
			success       INTEGER NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			request_body  TEXT NOT NULL DEFAULT '',
			response_body TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}
