package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"synthsim/internal/engine"
	"synthsim/internal/persona"
	"synthsim/internal/sampling"
)

// SQLiteStore implements Store using SQLite for persistence.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a SQLiteStore rooted at projectRoot. The database
// lives at .synthsim/synthsim.db.
func NewSQLiteStore(projectRoot string) (*SQLiteStore, error) {
	dir := filepath.Join(projectRoot, ".synthsim")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create .synthsim directory: %w", err)
	}

	dbPath := filepath.Join(dir, "synthsim.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// SavePersonas replaces the stored population.
func (s *SQLiteStore) SavePersonas(ctx context.Context, personas []persona.Persona) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM personas`); err != nil {
		return fmt.Errorf("clear personas: %w", err)
	}
	for i, p := range personas {
		obs, err := json.Marshal(p.Observables)
		if err != nil {
			return fmt.Errorf("marshal observables for %s: %w", p.ID, err)
		}
		traits, err := json.Marshal(p.Traits)
		if err != nil {
			return fmt.Errorf("marshal traits for %s: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO personas (id, position, archetype, observables, traits) VALUES (?, ?, ?, ?, ?)`,
			p.ID, i, p.Archetype, string(obs), string(traits)); err != nil {
			return fmt.Errorf("insert persona %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// ListPersonas returns the stored population in insertion order.
func (s *SQLiteStore) ListPersonas(ctx context.Context) ([]persona.Persona, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, archetype, observables, traits FROM personas ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query personas: %w", err)
	}
	defer rows.Close()

	var personas []persona.Persona
	for rows.Next() {
		var p persona.Persona
		var obs, traits string
		if err := rows.Scan(&p.ID, &p.Archetype, &obs, &traits); err != nil {
			return nil, fmt.Errorf("scan persona: %w", err)
		}
		if err := json.Unmarshal([]byte(obs), &p.Observables); err != nil {
			return nil, fmt.Errorf("unmarshal observables for %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(traits), &p.Traits); err != nil {
			return nil, fmt.Errorf("unmarshal traits for %s: %w", p.ID, err)
		}
		personas = append(personas, p)
	}
	return personas, rows.Err()
}

// SaveRun stores a terminal run and its outcomes.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *engine.Run) error {
	cfg, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	card, err := json.Marshal(run.Scorecard)
	if err != nil {
		return fmt.Errorf("marshal scorecard: %w", err)
	}
	scn, err := json.Marshal(run.Scenario)
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}
	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, state, config, scorecard, scenario, summary, started_at, finished_at, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.State), string(cfg), string(card), string(scn), string(summary),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Error); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM outcomes WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("clear outcomes for %s: %w", run.ID, err)
	}
	for _, o := range run.Outcomes {
		state, err := json.Marshal(o.MeanState)
		if err != nil {
			return fmt.Errorf("marshal mean state for %s: %w", o.PersonaID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO outcomes (run_id, persona_id, did_not_try_rate, failed_rate, success_rate, mean_state)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, o.PersonaID, o.DidNotTryRate, o.FailedRate, o.SuccessRate, string(state)); err != nil {
			return fmt.Errorf("insert outcome for %s: %w", o.PersonaID, err)
		}
	}
	return tx.Commit()
}

// GetRun returns a stored run with its outcomes.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*engine.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, state, config, scorecard, scenario, summary, started_at, finished_at, error
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT persona_id, did_not_try_rate, failed_rate, success_rate, mean_state
		 FROM outcomes WHERE run_id = ? ORDER BY persona_id`, id)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o engine.Outcome
		var state string
		if err := rows.Scan(&o.PersonaID, &o.DidNotTryRate, &o.FailedRate, &o.SuccessRate, &state); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		var mean sampling.State
		if err := json.Unmarshal([]byte(state), &mean); err != nil {
			return nil, fmt.Errorf("unmarshal mean state: %w", err)
		}
		o.MeanState = mean
		run.Outcomes = append(run.Outcomes, o)
	}
	return run, rows.Err()
}

// ListRuns returns stored runs, newest first, without outcomes.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]engine.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, state, config, scorecard, scenario, summary, started_at, finished_at, error
		 FROM runs ORDER BY started_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []engine.Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanRun decodes one runs row via the given scan function.
func scanRun(scan func(dest ...any) error) (*engine.Run, error) {
	var run engine.Run
	var state, cfg, card, scn, summary, started, finished string
	if err := scan(&run.ID, &state, &cfg, &card, &scn, &summary, &started, &finished, &run.Error); err != nil {
		return nil, err
	}
	run.State = engine.RunState(state)
	if err := json.Unmarshal([]byte(cfg), &run.Config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := json.Unmarshal([]byte(card), &run.Scorecard); err != nil {
		return nil, fmt.Errorf("unmarshal scorecard: %w", err)
	}
	if err := json.Unmarshal([]byte(scn), &run.Scenario); err != nil {
		return nil, fmt.Errorf("unmarshal scenario: %w", err)
	}
	if err := json.Unmarshal([]byte(summary), &run.Summary); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return nil, fmt.Errorf("parse finished_at: %w", err)
	}
	return &run, nil
}
