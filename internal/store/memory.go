package store

import (
	"context"
	"sort"
	"sync"

	"synthsim/internal/engine"
	"synthsim/internal/persona"
)

// MemoryStore is an in-memory Store for tests and one-shot CLI invocations.
// Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	personas []persona.Persona
	runs     map[string]engine.Run
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]engine.Run)}
}

// SavePersonas replaces the stored population.
func (s *MemoryStore) SavePersonas(ctx context.Context, personas []persona.Persona) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personas = append([]persona.Persona(nil), personas...)
	return nil
}

// ListPersonas returns the stored population in insertion order.
func (s *MemoryStore) ListPersonas(ctx context.Context) ([]persona.Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]persona.Persona(nil), s.personas...), nil
}

// SaveRun stores a copy of the run without its retained personas.
func (s *MemoryStore) SaveRun(ctx context.Context, run *engine.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *run
	stored.Personas = nil
	stored.Outcomes = append([]engine.Outcome(nil), run.Outcomes...)
	s.runs[run.ID] = stored
	return nil
}

// GetRun returns a stored run by ID.
func (s *MemoryStore) GetRun(ctx context.Context, id string) (*engine.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	run.Outcomes = append([]engine.Outcome(nil), run.Outcomes...)
	return &run, nil
}

// ListRuns returns stored runs, newest first, without outcomes.
func (s *MemoryStore) ListRuns(ctx context.Context) ([]engine.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]engine.Run, 0, len(s.runs))
	for _, run := range s.runs {
		run.Outcomes = nil
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
