package scenario

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Catalog holds named scenarios. It is read-only after construction.
type Catalog struct {
	scenarios map[string]Scenario
}

// Builtin returns the catalog of built-in scenarios.
func Builtin() *Catalog {
	c := &Catalog{scenarios: make(map[string]Scenario)}
	for _, s := range []Scenario{
		Baseline(),
		{
			Name:              "onboarding-rush",
			Description:       "First-run pressure: low patience, heightened motivation",
			Trust:             Modifier{Add: -0.05, Mul: 1},
			FrictionTolerance: Modifier{Add: -0.15, Mul: 1},
			Motivation:        Modifier{Add: 0.10, Mul: 1},
			Sigma:             0.08,
		},
		{
			Name:              "crisis",
			Description:       "High stakes, low trust, volatile behavior",
			Trust:             Modifier{Add: -0.20, Mul: 0.9},
			FrictionTolerance: Modifier{Add: -0.10, Mul: 0.8},
			Motivation:        Modifier{Add: 0.15, Mul: 1},
			Sigma:             0.12,
		},
		{
			Name:              "low-stakes-sandbox",
			Description:       "Nothing to lose: trusting, tolerant, exploratory",
			Trust:             Modifier{Add: 0.10, Mul: 1},
			FrictionTolerance: Modifier{Add: 0.10, Mul: 1},
			Motivation:        Modifier{Add: 0.05, Mul: 1.1},
			Sigma:             0.05,
		},
	} {
		c.scenarios[s.Name] = s
	}
	return c
}

// catalogFile is the YAML shape of an external scenario catalog.
type catalogFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadFile reads a scenario catalog from a YAML file. Loaded scenarios are
// merged over the built-ins; a loaded scenario with a built-in's name
// replaces it. Modifiers omitted in YAML default to identity.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse scenario catalog %s: %w", path, err)
	}

	c := Builtin()
	for _, s := range file.Scenarios {
		s = s.normalized()
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("scenario catalog %s: %w", path, err)
		}
		c.scenarios[s.Name] = s
	}
	return c, nil
}

// Get returns the named scenario.
func (c *Catalog) Get(name string) (Scenario, error) {
	s, ok := c.scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("unknown scenario %q (have: %v)", name, c.Names())
	}
	return s, nil
}

// Names returns all scenario names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.scenarios))
	for name := range c.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
