package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaV1 is the initial schema for the SQLite store.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS personas (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    archetype TEXT,
    observables TEXT NOT NULL,  -- JSON
    traits TEXT NOT NULL        -- JSON
);

CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    state TEXT NOT NULL,
    config TEXT NOT NULL,     -- JSON
    scorecard TEXT NOT NULL,  -- JSON
    scenario TEXT NOT NULL,   -- JSON
    summary TEXT NOT NULL,    -- JSON
    started_at TEXT NOT NULL,
    finished_at TEXT,
    error TEXT
);

CREATE TABLE IF NOT EXISTS outcomes (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    persona_id TEXT NOT NULL,
    did_not_try_rate REAL NOT NULL,
    failed_rate REAL NOT NULL,
    success_rate REAL NOT NULL,
    mean_state TEXT NOT NULL,  -- JSON
    PRIMARY KEY (run_id, persona_id)
);
CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InitSchema creates the schema if it does not exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}
