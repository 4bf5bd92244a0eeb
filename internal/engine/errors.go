package engine

import "fmt"

// ConfigurationError reports an invalid scorecard, scenario, or simulation
// config. It is raised before any sampling happens; a run that trips it
// never leaves the pending state.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// NumericalError reports a probability computation that produced NaN/Inf
// despite clamping. It is fatal: the run transitions to failed and the bad
// value is never silently replaced.
type NumericalError struct {
	PersonaID string
	Execution int
	Detail    string
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("numerical error: persona %s execution %d: %s", e.PersonaID, e.Execution, e.Detail)
}
