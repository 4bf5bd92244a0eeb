package persona

import (
	"fmt"
	"math/rand"
)

// Archetype is a named template for generating observables. Means describe the
// center of each observable; Spread is the half-width of the uniform band the
// generator samples around them.
type Archetype struct {
	Name   string
	Means  Observables
	Spread float64
}

// Archetypes returns the built-in population templates, in a fixed order so
// generation is deterministic for a given seed.
func Archetypes() []Archetype {
	return []Archetype{
		{
			Name:   "power-user",
			Means:  Observables{DigitalLiteracy: 0.85, ToolExperience: 0.80, MotorAbility: 0.85, TimeAvailability: 0.55, DomainExpertise: 0.75},
			Spread: 0.12,
		},
		{
			Name:   "mainstream",
			Means:  Observables{DigitalLiteracy: 0.55, ToolExperience: 0.50, MotorAbility: 0.80, TimeAvailability: 0.50, DomainExpertise: 0.45},
			Spread: 0.18,
		},
		{
			Name:   "cautious-novice",
			Means:  Observables{DigitalLiteracy: 0.30, ToolExperience: 0.20, MotorAbility: 0.75, TimeAvailability: 0.45, DomainExpertise: 0.30},
			Spread: 0.15,
		},
		{
			Name:   "time-poor-expert",
			Means:  Observables{DigitalLiteracy: 0.75, ToolExperience: 0.70, MotorAbility: 0.80, TimeAvailability: 0.15, DomainExpertise: 0.85},
			Spread: 0.10,
		},
		{
			Name:   "accessibility-constrained",
			Means:  Observables{DigitalLiteracy: 0.50, ToolExperience: 0.40, MotorAbility: 0.30, TimeAvailability: 0.60, DomainExpertise: 0.40},
			Spread: 0.15,
		},
	}
}

// Generate produces n personas by cycling through the built-in archetypes.
// Observables are drawn uniformly inside each archetype's band and clipped to
// [0,1]; traits are derived with DeriveTraits. The same seed always yields
// the same population.
func Generate(n int, seed int64) []Persona {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	archetypes := Archetypes()
	personas := make([]Persona, 0, n)
	for i := 0; i < n; i++ {
		a := archetypes[i%len(archetypes)]
		obs := Observables{
			DigitalLiteracy:  jitter(rng, a.Means.DigitalLiteracy, a.Spread),
			ToolExperience:   jitter(rng, a.Means.ToolExperience, a.Spread),
			MotorAbility:     jitter(rng, a.Means.MotorAbility, a.Spread),
			TimeAvailability: jitter(rng, a.Means.TimeAvailability, a.Spread),
			DomainExpertise:  jitter(rng, a.Means.DomainExpertise, a.Spread),
		}
		personas = append(personas, Persona{
			ID:          fmt.Sprintf("synth-%04d", i),
			Archetype:   a.Name,
			Observables: obs,
			Traits:      DeriveTraits(obs),
		})
	}
	return personas
}

// jitter samples uniformly in [mean-spread, mean+spread], clipped to [0,1].
func jitter(rng *rand.Rand, mean, spread float64) float64 {
	v := mean + (rng.Float64()*2-1)*spread
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
