// pkg/fuzzy/fuzzy.go

// Package fuzzy is the public entry point to the Mamdani inference engine.
// Build a model with CreateSystem, AddVariable, AddFuzzySet and AddRule, then
// evaluate crisp inputs with Run.
package fuzzy

import (
	"rgehrsitz/fuzzy/internal/fuzzy"
	"rgehrsitz/fuzzy/internal/preprocessor"
	"rgehrsitz/fuzzy/internal/runtime"
)

type (
	System    = runtime.System
	Option    = runtime.Option
	Observer  = runtime.Observer
	Role      = fuzzy.Role
	Shape     = fuzzy.Shape
	Domain    = fuzzy.Domain
	Fuzzified = runtime.Fuzzified
	Inferred  = runtime.Inferred
)

const (
	IN   = fuzzy.RoleInput
	OUT  = fuzzy.RoleOutput
	TRI  = fuzzy.ShapeTriangle
	TRAP = fuzzy.ShapeTrapezoid
)

// Error kinds callers can match with errors.Is.
var (
	ErrParse           = preprocessor.ErrParse
	ErrUnknownVariable = runtime.ErrUnknownVariable
	ErrUnknownSet      = runtime.ErrUnknownSet
	ErrMissingInput    = runtime.ErrMissingInput
	ErrDegenerateShape = fuzzy.ErrDegenerateShape
	ErrInvalidSet      = fuzzy.ErrInvalidSet
	ErrInvalidVariable = fuzzy.ErrInvalidVariable
)

var (
	WithLogger   = runtime.WithLogger
	WithObserver = runtime.WithObserver
)

func CreateSystem(name, description string, opts ...Option) *System {
	return runtime.New(name, description, opts...)
}

func AddVariable(system *System, name string, role Role, lower, upper float64) error {
	return system.AddVariable(name, role, Domain{Lower: lower, Upper: upper})
}

func AddFuzzySet(system *System, variable, set string, shape Shape, params ...float64) error {
	return system.AddSet(variable, set, shape, params...)
}

// AddRule parses text such as "temp hot and_not humidity low => fan fast" and
// stores the rule.
func AddRule(system *System, text string) error {
	_, err := system.AddRule(text)
	return err
}

// Run evaluates crisp values for every IN variable. classes maps each output
// variable to its dominant set, or "" when nothing fired.
func Run(system *System, inputs map[string]float64) (fuzzified Fuzzified, inferred Inferred, crisp map[string]float64, classes map[string]string, err error) {
	res, err := system.Run(inputs)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return res.Fuzzified, res.Inferred, res.Outputs, res.Classes, nil
}
