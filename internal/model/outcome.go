package model

import "math/rand"

// Outcome is the result of a single persona/execution trial.
type Outcome int

const (
	OutcomeDidNotTry Outcome = iota
	OutcomeFailed
	OutcomeSucceeded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDidNotTry:
		return "did_not_try"
	case OutcomeFailed:
		return "failed"
	case OutcomeSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// SampleOutcome draws an outcome as a two-stage Bernoulli process: first
// whether the persona attempts at all, then whether the attempt succeeds.
// Both draws come from the same per-execution stream, in that order.
func SampleOutcome(pAttempt, pSuccess float64, rng *rand.Rand) Outcome {
	if rng.Float64() >= pAttempt {
		return OutcomeDidNotTry
	}
	if rng.Float64() < pSuccess {
		return OutcomeSucceeded
	}
	return OutcomeFailed
}
