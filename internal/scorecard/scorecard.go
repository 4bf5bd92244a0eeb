// Package scorecard defines the four-dimension feature scorecard consumed by
// the simulation engine. A scorecard is immutable for the duration of a run;
// sensitivity analysis works on perturbed copies, never in place.
package scorecard

import (
	"fmt"
	"math"
)

// Dimension identifies one of the four scorecard dimensions.
type Dimension int

const (
	Complexity Dimension = iota
	InitialEffort
	PerceivedRisk
	TimeToValue
)

// Dimensions returns all dimensions in declaration order. The order is part
// of the contract: sensitivity ranking breaks ties by it.
func Dimensions() []Dimension {
	return []Dimension{Complexity, InitialEffort, PerceivedRisk, TimeToValue}
}

func (d Dimension) String() string {
	switch d {
	case Complexity:
		return "complexity"
	case InitialEffort:
		return "initial_effort"
	case PerceivedRisk:
		return "perceived_risk"
	case TimeToValue:
		return "time_to_value"
	default:
		return "unknown"
	}
}

// Score is a point estimate with an uncertainty interval, all in [0,1].
type Score struct {
	Value float64 `json:"value" yaml:"value"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
}

// Scorecard describes a feature along exactly four dimensions.
type Scorecard struct {
	Complexity    Score `json:"complexity" yaml:"complexity"`
	InitialEffort Score `json:"initial_effort" yaml:"initial_effort"`
	PerceivedRisk Score `json:"perceived_risk" yaml:"perceived_risk"`
	TimeToValue   Score `json:"time_to_value" yaml:"time_to_value"`
}

// Get returns the score for the given dimension.
func (s Scorecard) Get(d Dimension) Score {
	switch d {
	case Complexity:
		return s.Complexity
	case InitialEffort:
		return s.InitialEffort
	case PerceivedRisk:
		return s.PerceivedRisk
	default:
		return s.TimeToValue
	}
}

// WithScore returns a copy with dimension d's point value replaced by value,
// clipped to [0,1]. The uncertainty interval is widened just enough to keep
// min <= value <= max, so the copy is always valid if the original was.
func (s Scorecard) WithScore(d Dimension, value float64) Scorecard {
	v := clip01(value)
	set := func(sc Score) Score {
		sc.Value = v
		if v < sc.Min {
			sc.Min = v
		}
		if v > sc.Max {
			sc.Max = v
		}
		return sc
	}
	switch d {
	case Complexity:
		s.Complexity = set(s.Complexity)
	case InitialEffort:
		s.InitialEffort = set(s.InitialEffort)
	case PerceivedRisk:
		s.PerceivedRisk = set(s.PerceivedRisk)
	default:
		s.TimeToValue = set(s.TimeToValue)
	}
	return s
}

// Validate checks every dimension: value and bounds in [0,1], min <= max, and
// value inside its own interval. An invalid scorecard must be rejected before
// any sampling happens.
func (s Scorecard) Validate() error {
	for _, d := range Dimensions() {
		sc := s.Get(d)
		for name, v := range map[string]float64{"value": sc.Value, "min": sc.Min, "max": sc.Max} {
			if math.IsNaN(v) || v < 0 || v > 1 {
				return fmt.Errorf("scorecard %s: %s = %v, want [0,1]", d, name, v)
			}
		}
		if sc.Min > sc.Max {
			return fmt.Errorf("scorecard %s: uncertainty interval [%v, %v] has min > max", d, sc.Min, sc.Max)
		}
		if sc.Value < sc.Min || sc.Value > sc.Max {
			return fmt.Errorf("scorecard %s: value %v outside uncertainty interval [%v, %v]", d, sc.Value, sc.Min, sc.Max)
		}
	}
	return nil
}

// New builds a scorecard from four point values with degenerate uncertainty
// intervals (min = max = value). Mostly a convenience for tests and the CLI.
func New(complexity, initialEffort, perceivedRisk, timeToValue float64) Scorecard {
	point := func(v float64) Score { return Score{Value: v, Min: v, Max: v} }
	return Scorecard{
		Complexity:    point(complexity),
		InitialEffort: point(initialEffort),
		PerceivedRisk: point(perceivedRisk),
		TimeToValue:   point(timeToValue),
	}
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
