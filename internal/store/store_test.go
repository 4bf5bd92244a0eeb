package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synthsim/internal/engine"
	"synthsim/internal/persona"
	"synthsim/internal/sampling"
	"synthsim/internal/scenario"
	"synthsim/internal/scorecard"
)

// stores returns both implementations so every test runs against each.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLiteStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func sampleRun(id string, started time.Time) *engine.Run {
	return &engine.Run{
		ID:        id,
		State:     engine.RunCompleted,
		Config:    engine.Config{NSynths: 2, NExecutions: 10, Seed: 42},
		Scorecard: scorecard.New(0.4, 0.3, 0.2, 0.5),
		Scenario:  scenario.Baseline(),
		Personas:  persona.Generate(2, 1),
		Outcomes: []engine.Outcome{
			{
				PersonaID:     "synth-0000",
				DidNotTryRate: 0.2,
				FailedRate:    0.3,
				SuccessRate:   0.5,
				MeanState:     sampling.State{Capability: 0.6, Trust: 0.5, FrictionTolerance: 0.4, Exploration: 0.7},
			},
			{
				PersonaID:     "synth-0001",
				DidNotTryRate: 0.1,
				FailedRate:    0.1,
				SuccessRate:   0.8,
				MeanState:     sampling.State{Capability: 0.8, Trust: 0.7, FrictionTolerance: 0.6, Exploration: 0.5},
			},
		},
		Summary: engine.Summary{
			Personas:      2,
			Executions:    10,
			MeanDidNotTry: 0.15,
			MeanFailed:    0.2,
			MeanSuccess:   0.65,
		},
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
	}
}

func TestPersonaRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := persona.Generate(25, 99)
			require.NoError(t, s.SavePersonas(ctx, want))

			got, err := s.ListPersonas(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// SavePersonas replaces, not appends.
			smaller := persona.Generate(5, 3)
			require.NoError(t, s.SavePersonas(ctx, smaller))
			got, err = s.ListPersonas(ctx)
			require.NoError(t, err)
			assert.Equal(t, smaller, got)
		})
	}
}

func TestRunRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			run := sampleRun("run-1", time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
			require.NoError(t, s.SaveRun(ctx, run))

			got, err := s.GetRun(ctx, "run-1")
			require.NoError(t, err)
			assert.Equal(t, run.ID, got.ID)
			assert.Equal(t, engine.RunCompleted, got.State)
			assert.Equal(t, run.Config, got.Config)
			assert.Equal(t, run.Summary, got.Summary)
			assert.Equal(t, run.Outcomes, got.Outcomes)
			// Retained inputs are deliberately not persisted.
			assert.Empty(t, got.Personas)
		})
	}
}

func TestGetRun_NotFound(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.GetRun(context.Background(), "no-such-run")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			older := sampleRun("run-old", time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))
			newer := sampleRun("run-new", time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC))
			require.NoError(t, s.SaveRun(ctx, older))
			require.NoError(t, s.SaveRun(ctx, newer))

			runs, err := s.ListRuns(ctx)
			require.NoError(t, err)
			require.Len(t, runs, 2)
			assert.Equal(t, "run-new", runs[0].ID)
			assert.Equal(t, "run-old", runs[1].ID)
			for _, r := range runs {
				assert.Empty(t, r.Outcomes, "ListRuns must not load outcomes")
			}
		})
	}
}

func TestSaveRun_Idempotent(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			run := sampleRun("run-1", time.Now().UTC().Truncate(time.Second))
			require.NoError(t, s.SaveRun(ctx, run))
			require.NoError(t, s.SaveRun(ctx, run))

			got, err := s.GetRun(ctx, "run-1")
			require.NoError(t, err)
			assert.Len(t, got.Outcomes, 2)

			runs, err := s.ListRuns(ctx)
			require.NoError(t, err)
			assert.Len(t, runs, 1)
		})
	}
}
