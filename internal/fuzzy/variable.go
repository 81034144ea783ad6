// internal/fuzzy/variable.go

package fuzzy

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidVariable = errors.New("invalid variable")
	ErrDuplicateSet    = errors.New("duplicate fuzzy set")
)

// Role tells whether a variable is measured (IN) or computed (OUT).
type Role string

const (
	RoleInput  Role = "IN"
	RoleOutput Role = "OUT"
)

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleInput, RoleOutput:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unsupported role %q, expected IN or OUT", ErrInvalidVariable, s)
	}
}

// Domain is the closed range [Lower, Upper] a variable is defined on.
type Domain struct {
	Lower float64
	Upper float64
}

func (d Domain) Contains(v float64) bool {
	return d.Lower <= v && v <= d.Upper
}

func (d Domain) String() string {
	return fmt.Sprintf("[%g, %g]", d.Lower, d.Upper)
}

// Variable is a linguistic variable: a named collection of fuzzy sets that
// share a domain. Sets keep their registration order.
type Variable struct {
	name   string
	role   Role
	domain Domain
	sets   map[string]Set
	order  []string
}

func NewVariable(name string, role Role, domain Domain) (*Variable, error) {
	name = CanonicalName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidVariable)
	}
	if role != RoleInput && role != RoleOutput {
		return nil, fmt.Errorf("%w: variable %q has unsupported role %q", ErrInvalidVariable, name, role)
	}
	if math.IsNaN(domain.Lower) || math.IsNaN(domain.Upper) || domain.Lower > domain.Upper {
		return nil, fmt.Errorf("%w: variable %q has invalid range %s", ErrInvalidVariable, name, domain)
	}
	return &Variable{
		name:   name,
		role:   role,
		domain: domain,
		sets:   make(map[string]Set),
	}, nil
}

func (v *Variable) Name() string   { return v.name }
func (v *Variable) Role() Role     { return v.role }
func (v *Variable) Domain() Domain { return v.domain }

// AddSet registers a fuzzy set. Set names are unique within a variable.
func (v *Variable) AddSet(s Set) error {
	if s.name == "" {
		return fmt.Errorf("%w: set on variable %q has no name", ErrInvalidSet, v.name)
	}
	if _, exists := v.sets[s.name]; exists {
		return fmt.Errorf("%w: %q already defined on variable %q", ErrDuplicateSet, s.name, v.name)
	}
	v.sets[s.name] = s
	v.order = append(v.order, s.name)
	return nil
}

// Set looks up a fuzzy set by name.
func (v *Variable) Set(name string) (Set, bool) {
	s, ok := v.sets[CanonicalName(name)]
	return s, ok
}

// Sets returns the fuzzy sets in registration order.
func (v *Variable) Sets() []Set {
	sets := make([]Set, 0, len(v.order))
	for _, name := range v.order {
		sets = append(sets, v.sets[name])
	}
	return sets
}

// Fuzzify evaluates every registered set at value.
func (v *Variable) Fuzzify(value float64) (map[string]float64, error) {
	degrees := make(map[string]float64, len(v.order))
	for _, name := range v.order {
		degree, err := v.sets[name].Membership(value)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.name, err)
		}
		degrees[name] = degree
	}
	return degrees, nil
}
