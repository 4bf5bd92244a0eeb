// Package persona defines synthetic individual profiles ("synths") and their
// latent behavioral traits. Personas are immutable inputs to the simulation
// engine: observables describe what an external process measured about an
// individual, latent traits are derived from those observables once, at
// creation time, and never change afterwards.
package persona

import (
	"fmt"
	"math"
)

// Observables are the measured attributes of a persona, each in [0,1].
type Observables struct {
	DigitalLiteracy  float64 `json:"digital_literacy" yaml:"digital_literacy"`
	ToolExperience   float64 `json:"tool_experience" yaml:"tool_experience"`
	MotorAbility     float64 `json:"motor_ability" yaml:"motor_ability"`
	TimeAvailability float64 `json:"time_availability" yaml:"time_availability"`
	DomainExpertise  float64 `json:"domain_expertise" yaml:"domain_expertise"`
}

// Traits are the latent behavioral traits derived from observables, each in [0,1].
// They stay constant for the lifetime of a persona; only the state sampler
// perturbs them, and only on per-execution copies.
type Traits struct {
	Capability        float64 `json:"capability" yaml:"capability"`
	Trust             float64 `json:"trust" yaml:"trust"`
	FrictionTolerance float64 `json:"friction_tolerance" yaml:"friction_tolerance"`
	Exploration       float64 `json:"exploration" yaml:"exploration"`
}

// Persona is a single synthetic individual. Read-only to the engine.
type Persona struct {
	ID          string      `json:"id" yaml:"id"`
	Archetype   string      `json:"archetype,omitempty" yaml:"archetype,omitempty"`
	Observables Observables `json:"observables" yaml:"observables"`
	Traits      Traits      `json:"traits" yaml:"traits"`
}

// DeriveTraits maps observables to latent traits.
//
// The mapping is a fixed weighted blend, chosen so that each trait draws on
// the observables that plausibly produce it:
//
//	capability         = 0.45*digital_literacy + 0.35*tool_experience + 0.20*motor_ability
//	trust              = 0.50*tool_experience + 0.30*digital_literacy + 0.20*domain_expertise
//	friction_tolerance = 0.40*time_availability + 0.35*motor_ability + 0.25*tool_experience
//	exploration        = 0.40*digital_literacy + 0.35*time_availability + 0.25*domain_expertise
//
// Each weight row sums to 1.0, so observables in [0,1] always yield traits in [0,1].
func DeriveTraits(o Observables) Traits {
	return Traits{
		Capability:        0.45*o.DigitalLiteracy + 0.35*o.ToolExperience + 0.20*o.MotorAbility,
		Trust:             0.50*o.ToolExperience + 0.30*o.DigitalLiteracy + 0.20*o.DomainExpertise,
		FrictionTolerance: 0.40*o.TimeAvailability + 0.35*o.MotorAbility + 0.25*o.ToolExperience,
		Exploration:       0.40*o.DigitalLiteracy + 0.35*o.TimeAvailability + 0.25*o.DomainExpertise,
	}
}

// Validate reports whether the persona is usable by the engine: a non-empty
// ID and every observable and trait inside [0,1]. The engine skips personas
// that fail validation rather than aborting the whole run.
func (p Persona) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("persona has empty id")
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"digital_literacy", p.Observables.DigitalLiteracy},
		{"tool_experience", p.Observables.ToolExperience},
		{"motor_ability", p.Observables.MotorAbility},
		{"time_availability", p.Observables.TimeAvailability},
		{"domain_expertise", p.Observables.DomainExpertise},
		{"capability", p.Traits.Capability},
		{"trust", p.Traits.Trust},
		{"friction_tolerance", p.Traits.FrictionTolerance},
		{"exploration", p.Traits.Exploration},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || f.value < 0 || f.value > 1 {
			return fmt.Errorf("persona %s: %s = %v, want [0,1]", p.ID, f.name, f.value)
		}
	}
	return nil
}
