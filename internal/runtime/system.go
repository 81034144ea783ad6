// runtime/system.go

package runtime

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"rgehrsitz/fuzzy/internal/fuzzy"
	"rgehrsitz/fuzzy/internal/preprocessor"
	"rgehrsitz/fuzzy/internal/rules"
)

// System owns the linguistic variables and rules of one fuzzy model and runs
// the inference pipeline over them.
//
// A System is not safe for concurrent mutation. Once fully built it may be
// shared by concurrent Run calls as long as no Add* method is called.
type System struct {
	name        string
	description string
	variables   map[string]*fuzzy.Variable
	order       []string
	rules       []*rules.Rule

	logger   zerolog.Logger
	observer Observer
}

type Option func(*System)

// WithLogger sets the logger used for lifecycle events. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(s *System) {
		s.logger = logger
	}
}

// WithObserver installs an observer for per-condition and per-rule trace events.
func WithObserver(o Observer) Option {
	return func(s *System) {
		if o != nil {
			s.observer = o
		}
	}
}

// New creates an empty system.
func New(name, description string, opts ...Option) *System {
	s := &System{
		name:        name,
		description: description,
		variables:   make(map[string]*fuzzy.Variable),
		logger:      zerolog.Nop(),
		observer:    NopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *System) Name() string        { return s.name }
func (s *System) Description() string { return s.description }

// AddVariable registers a linguistic variable with no fuzzy sets.
func (s *System) AddVariable(name string, role fuzzy.Role, domain fuzzy.Domain) error {
	v, err := fuzzy.NewVariable(name, role, domain)
	if err != nil {
		return err
	}
	if _, exists := s.variables[v.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateVariable, v.Name())
	}
	s.variables[v.Name()] = v
	s.order = append(s.order, v.Name())

	s.logger.Debug().
		Str("variable", v.Name()).
		Str("role", string(role)).
		Stringer("range", domain).
		Msg("Variable added")
	return nil
}

// AddSet registers a fuzzy set on an existing variable.
func (s *System) AddSet(variable, name string, shape fuzzy.Shape, params ...float64) error {
	v, ok := s.Variable(variable)
	if !ok {
		return unknownVariable(-1, fuzzy.CanonicalName(variable))
	}
	set, err := fuzzy.NewSet(name, shape, params...)
	if err != nil {
		return err
	}
	if err := v.AddSet(set); err != nil {
		return err
	}

	s.logger.Debug().
		Str("variable", v.Name()).
		Stringer("set", set).
		Msg("Fuzzy set added")
	return nil
}

// AddRule parses rule text and appends the rule. A malformed rule is not
// stored and earlier rules are untouched. References are checked when the
// rule is evaluated, so rules may be added before their variables.
func (s *System) AddRule(text string) (*rules.Rule, error) {
	rule, err := preprocessor.ParseRule(text)
	if err != nil {
		return nil, err
	}
	s.rules = append(s.rules, rule)

	s.logger.Debug().
		Int("rule", len(s.rules)-1).
		Str("text", rule.String()).
		Msg("Rule added")
	return rule, nil
}

// Variable looks up a variable by name.
func (s *System) Variable(name string) (*fuzzy.Variable, bool) {
	v, ok := s.variables[fuzzy.CanonicalName(name)]
	return v, ok
}

// Variables returns all variables in registration order.
func (s *System) Variables() []*fuzzy.Variable {
	vars := make([]*fuzzy.Variable, 0, len(s.order))
	for _, name := range s.order {
		vars = append(vars, s.variables[name])
	}
	return vars
}

// VariablesWithRole returns the variables of one role in registration order.
func (s *System) VariablesWithRole(role fuzzy.Role) []*fuzzy.Variable {
	var vars []*fuzzy.Variable
	for _, v := range s.Variables() {
		if v.Role() == role {
			vars = append(vars, v)
		}
	}
	return vars
}

// Rules returns the rules in declaration order.
func (s *System) Rules() []*rules.Rule {
	out := make([]*rules.Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Validate checks that every variable and fuzzy set named by a rule is
// registered. All problems are reported together.
func (s *System) Validate() error {
	var errs []error
	for i, rule := range s.rules {
		for _, c := range rule.Conditions.Conditions() {
			if err := s.checkReference(i, c.Variable, c.Set); err != nil {
				errs = append(errs, err)
			}
		}
		if err := s.checkReference(i, rule.Consequent.Variable, rule.Consequent.Set); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *System) checkReference(rule int, variable, set string) error {
	v, ok := s.variables[variable]
	if !ok {
		return unknownVariable(rule, variable)
	}
	if _, ok := v.Set(set); !ok {
		return unknownSet(rule, variable, set)
	}
	return nil
}
