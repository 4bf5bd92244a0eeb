// Package sensitivity ranks scorecard dimensions by how much they move
// simulation outcomes, using the One-At-a-Time (OAT) method: each dimension
// is perturbed in isolation while every other dimension stays at baseline,
// and the engine re-runs against the identical population, scenario, and
// config.
package sensitivity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"synthsim/internal/engine"
	"synthsim/internal/scorecard"
)

// DefaultDeltas are the standard perturbations applied to each dimension.
func DefaultDeltas() []float64 {
	return []float64{-0.10, -0.05, 0.05, 0.10}
}

// DeltaOutcome records one perturbed re-run.
type DeltaOutcome struct {
	Delta       float64 `json:"delta"`
	SuccessRate float64 `json:"success_rate"`
	// Change is SuccessRate minus the baseline mean success rate.
	Change float64 `json:"change"`
}

// DimensionSensitivity is the per-dimension result.
type DimensionSensitivity struct {
	Dimension scorecard.Dimension `json:"-"`
	Name      string              `json:"dimension"`

	// Index is the mean absolute success-rate change per unit of delta.
	// Always non-negative; near zero for dimensions the probability model
	// does not weight.
	Index float64 `json:"index"`

	// Rank is 1 for the most impactful dimension. Ties break by dimension
	// declaration order.
	Rank int `json:"rank"`

	Deltas []DeltaOutcome `json:"deltas"`
}

// Result ties a sensitivity analysis to its baseline run.
type Result struct {
	BaselineRunID       string                 `json:"baseline_run_id"`
	BaselineSuccessRate float64                `json:"baseline_success_rate"`
	Dimensions          []DimensionSensitivity `json:"dimensions"`
}

// Analyzer re-runs the engine with perturbed scorecards. Each analysis call
// is self-contained; nothing is cached between calls.
type Analyzer struct {
	engine *engine.Engine
	log    *slog.Logger
}

// NewAnalyzer creates an analyzer around the given engine. A nil logger
// discards log output.
func NewAnalyzer(eng *engine.Engine, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{engine: eng, log: logger}
}

// Analyze computes OAT sensitivity for every scorecard dimension against the
// baseline run. The baseline must be a completed run that retained its
// inputs. Deltas default to DefaultDeltas when empty; zero deltas are
// rejected since they carry no information.
//
// The per-(dimension, delta) re-runs are independent, complete Monte-Carlo
// runs and execute in parallel. Results are deterministic: every re-run uses
// the baseline config and seed.
func (a *Analyzer) Analyze(ctx context.Context, baseline *engine.Run, deltas []float64) (*Result, error) {
	if baseline == nil || baseline.State != engine.RunCompleted {
		return nil, fmt.Errorf("sensitivity analysis needs a completed baseline run")
	}
	if len(baseline.Personas) == 0 {
		return nil, fmt.Errorf("baseline run %s did not retain its persona population", baseline.ID)
	}
	if len(deltas) == 0 {
		deltas = DefaultDeltas()
	}
	for _, d := range deltas {
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return nil, fmt.Errorf("invalid delta %v: want finite non-zero", d)
		}
	}

	dims := scorecard.Dimensions()
	a.log.Info("sensitivity analysis started",
		"baseline_run", baseline.ID, "dimensions", len(dims), "deltas", len(deltas))

	// successRates[d][k] is the mean success rate with dimension d perturbed
	// by deltas[k].
	successRates := make([][]float64, len(dims))
	for i := range successRates {
		successRates[i] = make([]float64, len(deltas))
	}

	g, gctx := errgroup.WithContext(ctx)
	for di, dim := range dims {
		di, dim := di, dim
		for ki, delta := range deltas {
			ki, delta := ki, delta
			g.Go(func() error {
				perturbed := baseline.Scorecard.WithScore(dim, baseline.Scorecard.Get(dim).Value+delta)
				run, err := a.engine.Run(gctx, baseline.Personas, perturbed, baseline.Scenario, baseline.Config)
				if err != nil {
					return fmt.Errorf("re-run %s%+.2f: %w", dim, delta, err)
				}
				successRates[di][ki] = run.Summary.MeanSuccess
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		BaselineRunID:       baseline.ID,
		BaselineSuccessRate: baseline.Summary.MeanSuccess,
	}
	for di, dim := range dims {
		ds := DimensionSensitivity{Dimension: dim, Name: dim.String()}
		for ki, delta := range deltas {
			change := successRates[di][ki] - baseline.Summary.MeanSuccess
			ds.Deltas = append(ds.Deltas, DeltaOutcome{
				Delta:       delta,
				SuccessRate: successRates[di][ki],
				Change:      change,
			})
			ds.Index += math.Abs(change) / math.Abs(delta)
		}
		ds.Index /= float64(len(deltas))
		result.Dimensions = append(result.Dimensions, ds)
	}

	// Rank by index descending; SliceStable keeps declaration order on ties.
	sort.SliceStable(result.Dimensions, func(i, j int) bool {
		return result.Dimensions[i].Index > result.Dimensions[j].Index
	})
	for i := range result.Dimensions {
		result.Dimensions[i].Rank = i + 1
	}

	a.log.Info("sensitivity analysis completed",
		"baseline_run", baseline.ID,
		"top_dimension", result.Dimensions[0].Name,
		"top_index", result.Dimensions[0].Index)
	return result, nil
}
