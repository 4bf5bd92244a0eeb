// Package engine orchestrates Monte-Carlo behavioral-outcome simulations:
// N personas × M executions of (state sample → probability → outcome draw),
// aggregated into per-persona outcome distributions.
//
// Trials share no mutable state. Each (persona, execution) pair derives its
// own random stream from the run seed, so results are identical regardless
// of worker count or scheduling order.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"synthsim/internal/model"
	"synthsim/internal/persona"
	"synthsim/internal/sampling"
	"synthsim/internal/scenario"
	"synthsim/internal/scorecard"
)

// batchSize is how many personas are simulated between cancellation checks.
const batchSize = 32

// Engine runs simulations. It holds no per-run state and is safe for
// concurrent use.
type Engine struct {
	weights model.Weights
	log     *slog.Logger
}

// NewEngine creates an engine with the given probability-model weights.
// A nil logger discards log output.
func NewEngine(weights model.Weights, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{weights: weights, log: logger}
}

// Weights returns the probability-model weights the engine was built with.
func (e *Engine) Weights() model.Weights {
	return e.weights
}

// Run simulates the population and returns a completed Run.
//
// Validation happens before any sampling: an invalid scorecard, scenario, or
// config returns a *ConfigurationError and the run never starts. Individual
// malformed personas are skipped and counted in the summary. A NaN/Inf
// probability is fatal: the returned run is in state failed and the error is
// a *NumericalError. If ctx is cancelled between persona batches the run
// ends in state cancelled with the outcomes computed so far discarded.
func (e *Engine) Run(ctx context.Context, personas []persona.Persona, card scorecard.Scorecard, scn scenario.Scenario, cfg Config) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		State:     RunPending,
		Config:    cfg,
		Scorecard: card,
		Scenario:  scn,
		Personas:  personas,
	}

	if err := validate(personas, card, scn, cfg); err != nil {
		return run, err
	}

	run.State = RunRunning
	run.StartedAt = time.Now()
	e.log.Info("simulation started",
		"run_id", run.ID,
		"scenario", scn.Name,
		"personas", len(personas),
		"executions", cfg.NExecutions,
		"seed", cfg.Seed)

	sigma := cfg.Sigma
	if sigma == 0 {
		sigma = scn.Sigma
	}

	workers := cfg.Parallelism
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Preallocated by persona index: workers never share slots, and the
	// final ordering is the input ordering, not completion order.
	results := make([]*Outcome, len(personas))

	for start := 0; start < len(personas); start += batchSize {
		if err := ctx.Err(); err != nil {
			run.State = RunCancelled
			run.FinishedAt = time.Now()
			e.log.Info("simulation cancelled", "run_id", run.ID, "personas_done", start)
			return run, err
		}

		end := start + batchSize
		if end > len(personas) {
			end = len(personas)
		}

		g := new(errgroup.Group)
		g.SetLimit(workers)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				p := personas[i]
				if err := p.Validate(); err != nil {
					e.log.Warn("skipping malformed persona", "run_id", run.ID, "index", i, "reason", err)
					return nil
				}
				outcome, err := e.simulatePersona(p, i, card, scn, sigma, cfg)
				if err != nil {
					return err
				}
				results[i] = outcome
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			run.State = RunFailed
			run.FinishedAt = time.Now()
			run.Error = err.Error()
			e.log.Error("simulation failed", "run_id", run.ID, "error", err)
			return run, err
		}
	}

	run.Outcomes = make([]Outcome, 0, len(personas))
	for _, o := range results {
		if o != nil {
			run.Outcomes = append(run.Outcomes, *o)
		}
	}
	run.Summary = summarize(run.Outcomes, len(personas), cfg.NExecutions)
	run.State = RunCompleted
	run.FinishedAt = time.Now()
	e.log.Info("simulation completed",
		"run_id", run.ID,
		"personas", run.Summary.Personas,
		"skipped", run.Summary.Skipped,
		"mean_success_rate", run.Summary.MeanSuccess)
	return run, nil
}

// simulatePersona runs NExecutions independent trials for one persona and
// tallies the outcome frequencies.
func (e *Engine) simulatePersona(p persona.Persona, index int, card scorecard.Scorecard, scn scenario.Scenario, sigma float64, cfg Config) (*Outcome, error) {
	var didNotTry, failed, succeeded int
	var sum sampling.State

	for j := 0; j < cfg.NExecutions; j++ {
		rng := sampling.NewStream(cfg.Seed, index, j)
		state := sampling.SampleState(p.Traits, scn, sigma, rng)

		pAttempt := e.weights.PAttempt(state, card)
		pSuccess := e.weights.PSuccess(state, card)
		if !model.ValidProbability(pAttempt) || !model.ValidProbability(pSuccess) {
			return nil, &NumericalError{
				PersonaID: p.ID,
				Execution: j,
				Detail:    fmt.Sprintf("p_attempt=%v p_success=%v", pAttempt, pSuccess),
			}
		}

		switch model.SampleOutcome(pAttempt, pSuccess, rng) {
		case model.OutcomeDidNotTry:
			didNotTry++
		case model.OutcomeFailed:
			failed++
		case model.OutcomeSucceeded:
			succeeded++
		}

		sum.Capability += state.Capability
		sum.Trust += state.Trust
		sum.FrictionTolerance += state.FrictionTolerance
		sum.Exploration += state.Exploration
	}

	m := float64(cfg.NExecutions)
	return &Outcome{
		PersonaID:     p.ID,
		DidNotTryRate: float64(didNotTry) / m,
		FailedRate:    float64(failed) / m,
		SuccessRate:   float64(succeeded) / m,
		MeanState: sampling.State{
			Capability:        sum.Capability / m,
			Trust:             sum.Trust / m,
			FrictionTolerance: sum.FrictionTolerance / m,
			Exploration:       sum.Exploration / m,
		},
	}, nil
}

// validate applies all pre-sampling checks. Every violation is a
// *ConfigurationError so the caller can fail fast.
func validate(personas []persona.Persona, card scorecard.Scorecard, scn scenario.Scenario, cfg Config) error {
	if cfg.NSynths <= 0 {
		return &ConfigurationError{Field: "n_synths", Reason: fmt.Sprintf("%d, want > 0", cfg.NSynths)}
	}
	if cfg.NSynths != len(personas) {
		return &ConfigurationError{Field: "n_synths", Reason: fmt.Sprintf("%d does not match population size %d", cfg.NSynths, len(personas))}
	}
	if cfg.NExecutions <= 0 {
		return &ConfigurationError{Field: "n_executions", Reason: fmt.Sprintf("%d, want > 0", cfg.NExecutions)}
	}
	if math.IsNaN(cfg.Sigma) || math.IsInf(cfg.Sigma, 0) || cfg.Sigma < 0 {
		return &ConfigurationError{Field: "sigma", Reason: fmt.Sprintf("%v, want finite >= 0", cfg.Sigma)}
	}
	if err := card.Validate(); err != nil {
		return &ConfigurationError{Field: "scorecard", Reason: err.Error()}
	}
	if err := scn.Validate(); err != nil {
		return &ConfigurationError{Field: "scenario", Reason: err.Error()}
	}
	return nil
}

// summarize computes population-level means. Rates are weighted equally per
// persona since every persona runs the same number of executions.
func summarize(outcomes []Outcome, population, executions int) Summary {
	s := Summary{
		Personas:   len(outcomes),
		Skipped:    population - len(outcomes),
		Executions: executions,
	}
	if len(outcomes) == 0 {
		return s
	}
	for _, o := range outcomes {
		s.MeanDidNotTry += o.DidNotTryRate
		s.MeanFailed += o.FailedRate
		s.MeanSuccess += o.SuccessRate
	}
	n := float64(len(outcomes))
	s.MeanDidNotTry /= n
	s.MeanFailed /= n
	s.MeanSuccess /= n
	return s
}
