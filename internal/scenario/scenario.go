// Package scenario defines named usage contexts that shape how personas
// respond during a simulation. A scenario carries per-trait modifiers and a
// default noise scale; it is loaded from an external catalog and never
// persisted by the engine.
package scenario

import (
	"fmt"
	"math"
)

// Modifier shifts one sampled trait: the value is first scaled by Mul, then
// shifted by Add. The zero Modifier is not neutral (Mul 0 zeroes the trait);
// use Neutral() or rely on Scenario.normalized.
type Modifier struct {
	Add float64 `yaml:"add"`
	Mul float64 `yaml:"mul"`
}

// Neutral returns the identity modifier.
func Neutral() Modifier {
	return Modifier{Add: 0, Mul: 1}
}

// Apply transforms v by the modifier. The caller is responsible for clipping
// the result back into [0,1].
func (m Modifier) Apply(v float64) float64 {
	return v*m.Mul + m.Add
}

// Scenario is a named set of trait modifiers plus a default noise scale.
//
// Trust and FrictionTolerance act on the matching latent traits. Motivation
// acts on the exploration-propensity trait: a motivated persona explores,
// an unmotivated one does not.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	Trust             Modifier `yaml:"trust"`
	FrictionTolerance Modifier `yaml:"friction_tolerance"`
	Motivation        Modifier `yaml:"motivation"`

	// Sigma is the default standard deviation for trait noise. The run
	// config may override it.
	Sigma float64 `yaml:"sigma"`
}

// Validate checks the scenario is usable: a name, a non-negative finite
// sigma, and finite modifiers.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario has empty name")
	}
	if math.IsNaN(s.Sigma) || math.IsInf(s.Sigma, 0) || s.Sigma < 0 {
		return fmt.Errorf("scenario %s: sigma = %v, want finite >= 0", s.Name, s.Sigma)
	}
	for name, m := range map[string]Modifier{
		"trust":              s.Trust,
		"friction_tolerance": s.FrictionTolerance,
		"motivation":         s.Motivation,
	} {
		for field, v := range map[string]float64{"add": m.Add, "mul": m.Mul} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("scenario %s: %s.%s = %v, want finite", s.Name, name, field, v)
			}
		}
	}
	return nil
}

// normalized returns a copy with zero-valued Mul fields treated as identity.
// This lets YAML authors write only the fields they care about.
func (s Scenario) normalized() Scenario {
	fix := func(m Modifier) Modifier {
		if m.Mul == 0 {
			m.Mul = 1
		}
		return m
	}
	s.Trust = fix(s.Trust)
	s.FrictionTolerance = fix(s.FrictionTolerance)
	s.Motivation = fix(s.Motivation)
	return s
}

// Baseline returns the neutral scenario: identity modifiers, sigma 0.05.
func Baseline() Scenario {
	return Scenario{
		Name:              "baseline",
		Description:       "Neutral context with mild trait noise",
		Trust:             Neutral(),
		FrictionTolerance: Neutral(),
		Motivation:        Neutral(),
		Sigma:             0.05,
	}
}
