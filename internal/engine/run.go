package engine

import (
	"time"

	"synthsim/internal/persona"
	"synthsim/internal/sampling"
	"synthsim/internal/scenario"
	"synthsim/internal/scorecard"
)

// RunState is the lifecycle state of a simulation run.
type RunState string

const (
	RunPending   RunState = "pending"
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunFailed    RunState = "failed"
	RunCancelled RunState = "cancelled"
)

// Config holds the simulation parameters. Identical (config, scorecard,
// scenario, personas) always produce identical output.
type Config struct {
	// NSynths is the population size. It must match the number of personas
	// handed to Run.
	NSynths int `json:"n_synths" yaml:"n_synths"`

	// NExecutions is the number of Monte-Carlo trials per persona.
	NExecutions int `json:"n_executions" yaml:"n_executions"`

	// Sigma is the trait noise scale. Zero means "use the scenario default".
	Sigma float64 `json:"sigma" yaml:"sigma"`

	// Seed roots every per-(persona, execution) random stream.
	Seed int64 `json:"seed" yaml:"seed"`

	// Parallelism bounds concurrent persona simulation. Zero means one
	// worker per CPU. It never affects results, only wall-clock time.
	Parallelism int `json:"parallelism,omitempty" yaml:"parallelism,omitempty"`
}

// Outcome is the aggregated result for one persona: outcome frequencies over
// NExecutions trials, plus the mean sampled state those trials saw. The three
// rates always sum to 1 within floating-point tolerance.
type Outcome struct {
	PersonaID     string  `json:"persona_id"`
	DidNotTryRate float64 `json:"did_not_try_rate"`
	FailedRate    float64 `json:"failed_rate"`
	SuccessRate   float64 `json:"success_rate"`

	// MeanState is the per-trait mean of the sampled states, the feature
	// vector region analysis works on.
	MeanState sampling.State `json:"mean_state"`
}

// Summary aggregates a run across the population.
type Summary struct {
	Personas      int     `json:"personas"`
	Skipped       int     `json:"skipped"`
	Executions    int     `json:"executions"`
	MeanDidNotTry float64 `json:"mean_did_not_try_rate"`
	MeanFailed    float64 `json:"mean_failed_rate"`
	MeanSuccess   float64 `json:"mean_success_rate"`
}

// Run is one complete simulation: inputs, lifecycle state, and per-persona
// outcomes. Outcomes are immutable once the run reaches a terminal state.
//
// The inputs are retained so analyzers can re-run the engine against the
// same population and scenario (sensitivity analysis needs this).
type Run struct {
	ID        string              `json:"id"`
	State     RunState            `json:"state"`
	Config    Config              `json:"config"`
	Scorecard scorecard.Scorecard `json:"scorecard"`
	Scenario  scenario.Scenario   `json:"scenario"`
	Personas  []persona.Persona   `json:"-"`

	Outcomes []Outcome `json:"outcomes"`
	Summary  Summary   `json:"summary"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`

	// Error carries the diagnostic message for failed runs.
	Error string `json:"error,omitempty"`
}
