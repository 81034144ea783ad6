// Package model reads a fuzzy model description from YAML and builds a
// runtime.System from it.
package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"rgehrsitz/fuzzy/internal/fuzzy"
	"rgehrsitz/fuzzy/internal/runtime"
)

// Model is the YAML form of a fuzzy system.
//
//	name: fan
//	variables:
//	  - name: temp
//	    role: IN
//	    range: [0, 40]
//	    sets:
//	      - {name: cold, shape: TRI, params: [0, 0, 20]}
//	rules:
//	  - temp cold => fan slow
type Model struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Variables   []Variable `yaml:"variables"`
	Rules       []string   `yaml:"rules"`
}

type Variable struct {
	Name  string    `yaml:"name"`
	Role  string    `yaml:"role"`
	Range []float64 `yaml:"range"`
	Sets  []Set     `yaml:"sets"`
}

type Set struct {
	Name   string    `yaml:"name"`
	Shape  string    `yaml:"shape"`
	Params []float64 `yaml:"params"`
}

// Load reads a model file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a model document. Unknown keys are rejected.
func Parse(data []byte) (*Model, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Model
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("model document is empty")
		}
		return nil, fmt.Errorf("failed to parse model YAML: %w", err)
	}
	return &m, nil
}

// Build creates the system through the same add operations an interactive
// caller uses, so every validation applies. Errors name the offending entry.
func (m *Model) Build(opts ...runtime.Option) (*runtime.System, error) {
	sys := runtime.New(m.Name, m.Description, opts...)

	for i, v := range m.Variables {
		role, err := fuzzy.ParseRole(v.Role)
		if err != nil {
			return nil, fmt.Errorf("variables[%d]: %w", i, err)
		}
		if len(v.Range) != 2 {
			return nil, fmt.Errorf("variables[%d]: %w: range must be [lower, upper], got %v",
				i, fuzzy.ErrInvalidVariable, v.Range)
		}
		if err := sys.AddVariable(v.Name, role, fuzzy.Domain{Lower: v.Range[0], Upper: v.Range[1]}); err != nil {
			return nil, fmt.Errorf("variables[%d]: %w", i, err)
		}

		for j, s := range v.Sets {
			shape, err := fuzzy.ParseShape(s.Shape)
			if err != nil {
				return nil, fmt.Errorf("variables[%d].sets[%d]: %w", i, j, err)
			}
			if err := sys.AddSet(v.Name, s.Name, shape, s.Params...); err != nil {
				return nil, fmt.Errorf("variables[%d].sets[%d]: %w", i, j, err)
			}
		}
	}

	for i, text := range m.Rules {
		if _, err := sys.AddRule(text); err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
	}

	return sys, nil
}
