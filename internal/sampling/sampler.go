package sampling

import (
	"math/rand"

	"synthsim/internal/persona"
	"synthsim/internal/scenario"
)

// State is one stochastic realization of a persona's traits for a single
// execution. Values are always in [0,1].
type State struct {
	Capability        float64
	Trust             float64
	FrictionTolerance float64
	Exploration       float64
}

// SampleState perturbs the persona's latent traits with Gaussian noise
// (mean 0, standard deviation sigma), applies the scenario's modifiers, and
// clips every value back into [0,1]. The stored traits are never mutated;
// the result is a fresh state.
//
// Noise draws happen in a fixed trait order (capability, trust, friction
// tolerance, exploration) so a given rng state always produces the same
// state.
func SampleState(traits persona.Traits, scn scenario.Scenario, sigma float64, rng *rand.Rand) State {
	capability := traits.Capability + rng.NormFloat64()*sigma
	trust := traits.Trust + rng.NormFloat64()*sigma
	friction := traits.FrictionTolerance + rng.NormFloat64()*sigma
	exploration := traits.Exploration + rng.NormFloat64()*sigma

	// Scenario modifiers; motivation acts on exploration propensity.
	trust = scn.Trust.Apply(trust)
	friction = scn.FrictionTolerance.Apply(friction)
	exploration = scn.Motivation.Apply(exploration)

	return State{
		Capability:        clip01(capability),
		Trust:             clip01(trust),
		FrictionTolerance: clip01(friction),
		Exploration:       clip01(exploration),
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
