package persona

import (
	"math"
	"testing"
)

func TestDeriveTraits_Bounds(t *testing.T) {
	cases := []struct {
		name string
		obs  Observables
	}{
		{"all-zero", Observables{}},
		{"all-one", Observables{1, 1, 1, 1, 1}},
		{"mixed", Observables{DigitalLiteracy: 0.9, ToolExperience: 0.1, MotorAbility: 0.5, TimeAvailability: 0.3, DomainExpertise: 0.7}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			traits := DeriveTraits(tc.obs)
			for name, v := range map[string]float64{
				"capability":         traits.Capability,
				"trust":              traits.Trust,
				"friction_tolerance": traits.FrictionTolerance,
				"exploration":        traits.Exploration,
			} {
				if v < 0 || v > 1 {
					t.Errorf("%s = %v, want [0,1]", name, v)
				}
			}
		})
	}
}

func TestDeriveTraits_Extremes(t *testing.T) {
	zero := DeriveTraits(Observables{})
	if zero.Capability != 0 || zero.Trust != 0 || zero.FrictionTolerance != 0 || zero.Exploration != 0 {
		t.Errorf("zero observables should derive zero traits, got %+v", zero)
	}
	one := DeriveTraits(Observables{1, 1, 1, 1, 1})
	const eps = 1e-9
	for name, v := range map[string]float64{
		"capability":         one.Capability,
		"trust":              one.Trust,
		"friction_tolerance": one.FrictionTolerance,
		"exploration":        one.Exploration,
	} {
		if math.Abs(v-1.0) > eps {
			t.Errorf("%s = %v, want 1.0 (weight rows must sum to 1)", name, v)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := Persona{
		ID:          "synth-0001",
		Observables: Observables{0.5, 0.5, 0.5, 0.5, 0.5},
		Traits:      DeriveTraits(Observables{0.5, 0.5, 0.5, 0.5, 0.5}),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	empty := valid
	empty.ID = ""
	if err := empty.Validate(); err == nil {
		t.Error("Validate() accepted empty ID")
	}

	outOfRange := valid
	outOfRange.Traits.Trust = 1.5
	if err := outOfRange.Validate(); err == nil {
		t.Error("Validate() accepted trust > 1")
	}

	nan := valid
	nan.Observables.MotorAbility = math.NaN()
	if err := nan.Validate(); err == nil {
		t.Error("Validate() accepted NaN observable")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(50, 7)
	b := Generate(50, 7)
	if len(a) != 50 || len(b) != 50 {
		t.Fatalf("Generate returned %d and %d personas, want 50", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("persona %d differs across identically-seeded generations:\n%+v\n%+v", i, a[i], b[i])
		}
	}
}

func TestGenerate_AllValid(t *testing.T) {
	for _, p := range Generate(200, 42) {
		if err := p.Validate(); err != nil {
			t.Errorf("generated persona invalid: %v", err)
		}
	}
}

func TestGenerate_Empty(t *testing.T) {
	if got := Generate(0, 1); got != nil {
		t.Errorf("Generate(0) = %v, want nil", got)
	}
}
