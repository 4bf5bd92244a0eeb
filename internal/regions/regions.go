// Package regions identifies failure-prone regions of the persona feature
// space. It fits a shallow, interpretable decision tree over per-persona
// outcome data and renders high-failure leaves as conjunctive boolean rules.
//
// Region rules are derived artifacts: they are recomputed per analysis call
// and nothing here is cached across calls.
package regions

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"synthsim/internal/engine"
)

// Feature names, in the fixed order the tree indexes them.
const numFeatures = 4

var featureNames = [numFeatures]string{
	"capability_mean",
	"trust_mean",
	"friction_tolerance_mean",
	"exploration_mean",
}

// Options controls region extraction.
type Options struct {
	// MinFailureRate drops leaves whose observed failure rate is below it.
	MinFailureRate float64

	// LabelThreshold is the failed_rate at or above which a persona is
	// labeled "failed" for tree fitting.
	LabelThreshold float64

	// MaxDepth bounds tree depth; rules never have more predicates than this.
	MaxDepth int

	// MinLeafSize is the minimum persona population of a leaf.
	MinLeafSize int

	// MinSplitSize is the minimum population a node needs to be split.
	MinSplitSize int
}

// DefaultOptions returns the standard analysis parameters.
func DefaultOptions() Options {
	return Options{
		MinFailureRate: 0.5,
		LabelThreshold: 0.5,
		MaxDepth:       4,
		MinLeafSize:    20,
		MinSplitSize:   40,
	}
}

// Predicate is one feature-threshold comparison.
type Predicate struct {
	Feature   string  `json:"feature"`
	Op        string  `json:"op"` // "<=" or ">"
	Threshold float64 `json:"threshold"`
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s %s %.2f", p.Feature, p.Op, p.Threshold)
}

// Rule is a conjunction of predicates describing one failure-prone region,
// with the count and observed failure rate of the personas matching it.
type Rule struct {
	Predicates  []Predicate `json:"predicates"`
	SynthCount  int         `json:"synth_count"`
	FailureRate float64     `json:"failure_rate"`
}

// String renders the rule as readable text, predicates joined with "AND".
func (r Rule) String() string {
	parts := make([]string, len(r.Predicates))
	for i, p := range r.Predicates {
		parts[i] = p.String()
	}
	return strings.Join(parts, " AND ")
}

// Analyzer extracts region rules from run outcomes. It holds no state across
// calls; every Analyze fits a fresh tree.
type Analyzer struct {
	opts Options
	log  *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil logger discards log output.
func NewAnalyzer(opts Options, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{opts: opts, log: logger}
}

// Analyze fits the tree and returns surviving leaf rules sorted by failure
// rate descending.
//
// Two degenerate conditions yield an empty result rather than an error: a
// population smaller than 2×MinLeafSize (too few synths to say anything),
// and an unexpected fitting fault (explanation failure must never block the
// outcomes themselves; the reason is logged).
func (a *Analyzer) Analyze(outcomes []engine.Outcome) (rules []Rule) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("region analysis failed, returning no regions", "reason", r)
			rules = nil
		}
	}()

	if len(outcomes) < 2*a.opts.MinLeafSize {
		a.log.Info("population too small for region analysis",
			"personas", len(outcomes), "required", 2*a.opts.MinLeafSize)
		return nil
	}

	samples := make([]sample, len(outcomes))
	for i, o := range outcomes {
		samples[i] = sample{
			features: [numFeatures]float64{
				o.MeanState.Capability,
				o.MeanState.Trust,
				o.MeanState.FrictionTolerance,
				o.MeanState.Exploration,
			},
			failed:     o.FailedRate >= a.opts.LabelThreshold,
			failedRate: o.FailedRate,
		}
	}

	fitter := newTreeFitter(samples, a.opts)
	root := fitter.fit()

	rules = a.collect(root, samples, nil)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].FailureRate > rules[j].FailureRate
	})
	a.log.Info("region analysis completed", "personas", len(outcomes), "regions", len(rules))
	return rules
}

// collect walks the tree, accumulating path predicates, and emits qualifying
// leaves. A leaf qualifies when it has at least one predicate (an unsplit
// root describes no region), MinLeafSize members, and an observed failure
// rate of at least MinFailureRate.
func (a *Analyzer) collect(n *node, samples []sample, path []Predicate) []Rule {
	if n == nil {
		return nil
	}
	if n.isLeaf() {
		if len(path) == 0 || len(n.members) < a.opts.MinLeafSize {
			return nil
		}
		var sum float64
		for _, i := range n.members {
			sum += samples[i].failedRate
		}
		rate := sum / float64(len(n.members))
		if rate < a.opts.MinFailureRate {
			return nil
		}
		return []Rule{{
			Predicates:  tighten(path),
			SynthCount:  len(n.members),
			FailureRate: rate,
		}}
	}

	name := featureNames[n.split.feature]
	left := append(append([]Predicate(nil), path...), Predicate{Feature: name, Op: "<=", Threshold: n.split.threshold})
	right := append(append([]Predicate(nil), path...), Predicate{Feature: name, Op: ">", Threshold: n.split.threshold})
	return append(a.collect(n.left, samples, left), a.collect(n.right, samples, right)...)
}

// tighten merges repeated predicates on the same feature: the binding "<="
// is the smallest threshold, the binding ">" the largest. Predicates keep
// first-appearance order.
func tighten(path []Predicate) []Predicate {
	out := make([]Predicate, 0, len(path))
	index := make(map[string]int)
	for _, p := range path {
		key := p.Feature + p.Op
		if i, ok := index[key]; ok {
			if (p.Op == "<=" && p.Threshold < out[i].Threshold) ||
				(p.Op == ">" && p.Threshold > out[i].Threshold) {
				out[i].Threshold = p.Threshold
			}
			continue
		}
		index[key] = len(out)
		out = append(out, p)
	}
	return out
}
