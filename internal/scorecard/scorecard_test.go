package scorecard

import "testing"

func TestValidate_OK(t *testing.T) {
	s := Scorecard{
		Complexity:    Score{Value: 0.4, Min: 0.3, Max: 0.5},
		InitialEffort: Score{Value: 0.3, Min: 0.3, Max: 0.3},
		PerceivedRisk: Score{Value: 0.2, Min: 0.1, Max: 0.4},
		TimeToValue:   Score{Value: 0.5, Min: 0.2, Max: 0.8},
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Scorecard)
	}{
		{"min greater than max", func(s *Scorecard) { s.Complexity = Score{Value: 0.4, Min: 0.6, Max: 0.2} }},
		{"value above one", func(s *Scorecard) { s.PerceivedRisk = Score{Value: 1.2, Min: 0, Max: 1} }},
		{"negative bound", func(s *Scorecard) { s.TimeToValue = Score{Value: 0.5, Min: -0.1, Max: 0.9} }},
		{"value outside interval", func(s *Scorecard) { s.InitialEffort = Score{Value: 0.9, Min: 0.1, Max: 0.5} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New(0.4, 0.3, 0.2, 0.5)
			tc.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestWithScore(t *testing.T) {
	base := New(0.4, 0.3, 0.2, 0.5)

	up := base.WithScore(Complexity, 0.9)
	if up.Complexity.Value != 0.9 {
		t.Errorf("complexity = %v, want 0.9", up.Complexity.Value)
	}
	if base.Complexity.Value != 0.4 {
		t.Error("WithScore mutated the original scorecard")
	}
	if err := up.Validate(); err != nil {
		t.Errorf("perturbed scorecard invalid: %v", err)
	}

	// Values outside [0,1] are clipped, not rejected.
	clipped := base.WithScore(PerceivedRisk, 1.4)
	if clipped.PerceivedRisk.Value != 1.0 {
		t.Errorf("perceived_risk = %v, want clipped to 1.0", clipped.PerceivedRisk.Value)
	}
	low := base.WithScore(TimeToValue, -0.2)
	if low.TimeToValue.Value != 0 {
		t.Errorf("time_to_value = %v, want clipped to 0", low.TimeToValue.Value)
	}
	if err := low.Validate(); err != nil {
		t.Errorf("clipped scorecard invalid: %v", err)
	}
}

func TestDimensionOrder(t *testing.T) {
	want := []string{"complexity", "initial_effort", "perceived_risk", "time_to_value"}
	dims := Dimensions()
	if len(dims) != len(want) {
		t.Fatalf("Dimensions() returned %d entries, want %d", len(dims), len(want))
	}
	for i, d := range dims {
		if d.String() != want[i] {
			t.Errorf("dimension %d = %q, want %q", i, d, want[i])
		}
	}
}
