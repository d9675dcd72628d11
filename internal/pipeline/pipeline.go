package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Step declares one stage of a pipeline. Steps chain linearly: each step
// names the title of the step before it, and the first step names none.
type Step struct {
	Title    string `yaml:"title" json:"title"`
	Plugin   string `yaml:"plugin" json:"plugin"`
	Previous string `yaml:"previous" json:"previous"`
}

// Definition is an ordered, linear chain of declared processing steps.
// It is loaded once at startup and shared read-only by every job.
type Definition struct {
	Name  string `yaml:"name" json:"name"`
	Steps []Step `yaml:"plugin_tree" json:"plugin_tree"`
}

// Validate checks that the declared steps form a single linear chain:
// the first step has no predecessor, every later step's predecessor is
// the step declared immediately before it, and titles are unique.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("pipeline has no name")
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("pipeline %q has no steps", d.Name)
	}

	seen := make(map[string]bool, len(d.Steps))
	for i, step := range d.Steps {
		if step.Title == "" {
			return fmt.Errorf("pipeline %q: step %d has no title", d.Name, i)
		}
		if seen[step.Title] {
			return fmt.Errorf("pipeline %q: duplicate step title %q", d.Name, step.Title)
		}
		seen[step.Title] = true

		if i == 0 {
			if step.Previous != "" {
				return fmt.Errorf("pipeline %q: first step %q declares previous %q", d.Name, step.Title, step.Previous)
			}
			continue
		}
		if prev := d.Steps[i-1].Title; step.Previous != prev {
			return fmt.Errorf("pipeline %q: step %q declares previous %q, want %q", d.Name, step.Title, step.Previous, prev)
		}
	}
	return nil
}

// Parse decodes a YAML pipeline definition and validates it.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse pipeline: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Load reads a pipeline definition from a YAML file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load pipeline: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in leg length discrepancy workflow.
func Default() *Definition {
	return &Definition{
		Name: "Leg Length Discrepancy Full Workflow v20240705",
		Steps: []Step{
			{Title: "root-0", Plugin: "pl-simpledsapp v2.1.0"},
			{Title: "dcm-to-mha-1", Plugin: "pl-dcm2mha_cnvtr v1.2.24", Previous: "root-0"},
			{Title: "joiner-2", Plugin: "pl-tsjoiner v1.1.3", Previous: "dcm-to-mha-1"},
			{Title: "segmentor-3", Plugin: "pl-legseg v2.3.9", Previous: "joiner-2"},
			{Title: "analyzer-4", Plugin: "pl-legmeasure v3.1.7", Previous: "segmentor-3"},
		},
	}
}
