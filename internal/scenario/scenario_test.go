package scenario

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestModifierApply(t *testing.T) {
	m := Modifier{Add: 0.1, Mul: 0.5}
	if got := m.Apply(0.8); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Apply(0.8) = %v, want 0.5", got)
	}
	if got := Neutral().Apply(0.37); got != 0.37 {
		t.Errorf("Neutral().Apply(0.37) = %v, want 0.37", got)
	}
}

func TestBuiltinCatalog(t *testing.T) {
	c := Builtin()
	for _, name := range []string{"baseline", "onboarding-rush", "crisis", "low-stakes-sandbox"} {
		s, err := c.Get(name)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", name, err)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("builtin scenario %s invalid: %v", name, err)
		}
	}
	if _, err := c.Get("no-such-scenario"); err == nil {
		t.Error("Get(no-such-scenario) = nil error, want error")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenarios.yaml")
	content := `scenarios:
  - name: field-trial
    description: Supervised field deployment
    trust:
      add: 0.05
    friction_tolerance:
      add: -0.05
      mul: 0.9
    sigma: 0.07
  - name: baseline
    sigma: 0.02
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	trial, err := c.Get("field-trial")
	if err != nil {
		t.Fatalf("Get(field-trial) error = %v", err)
	}
	// Omitted mul defaults to identity.
	if trial.Trust.Mul != 1 {
		t.Errorf("trust.mul = %v, want 1 (identity default)", trial.Trust.Mul)
	}
	if trial.FrictionTolerance.Mul != 0.9 {
		t.Errorf("friction_tolerance.mul = %v, want 0.9", trial.FrictionTolerance.Mul)
	}
	// Motivation was omitted entirely: must be neutral.
	if got := trial.Motivation.Apply(0.6); got != 0.6 {
		t.Errorf("omitted motivation modifier changed value: %v", got)
	}

	// Loaded scenario overrides the builtin of the same name.
	base, err := c.Get("baseline")
	if err != nil {
		t.Fatalf("Get(baseline) error = %v", err)
	}
	if base.Sigma != 0.02 {
		t.Errorf("baseline sigma = %v, want file override 0.02", base.Sigma)
	}
}

func TestLoadFile_InvalidScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenarios.yaml")
	content := "scenarios:\n  - name: broken\n    sigma: -1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() accepted negative sigma")
	}
}

func TestValidate(t *testing.T) {
	s := Baseline()
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	s.Sigma = math.NaN()
	if err := s.Validate(); err == nil {
		t.Error("Validate() accepted NaN sigma")
	}
	s = Baseline()
	s.Trust.Add = math.Inf(1)
	if err := s.Validate(); err == nil {
		t.Error("Validate() accepted infinite modifier")
	}
}
