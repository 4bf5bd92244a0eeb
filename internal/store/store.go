// Package store provides persistence for persona populations and completed
// simulation runs. The engine itself never touches a store; the CLI and API
// layers wire one in when results need to outlive the process.
package store

import (
	"context"
	"errors"

	"synthsim/internal/engine"
	"synthsim/internal/persona"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store persists personas and runs.
type Store interface {
	// SavePersonas replaces the stored population.
	SavePersonas(ctx context.Context, personas []persona.Persona) error

	// ListPersonas returns the stored population in insertion order.
	ListPersonas(ctx context.Context) ([]persona.Persona, error)

	// SaveRun stores a terminal run with its per-persona outcomes. The
	// retained persona population is not persisted; runs loaded back from
	// a store carry outcomes and summary only.
	SaveRun(ctx context.Context, run *engine.Run) error

	// GetRun returns a stored run by ID, ErrNotFound if absent.
	GetRun(ctx context.Context, id string) (*engine.Run, error)

	// ListRuns returns stored runs, newest first, without their outcomes.
	ListRuns(ctx context.Context) ([]engine.Run, error)

	Close() error
}
