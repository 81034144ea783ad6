// runtime/pipeline.go

package runtime

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"rgehrsitz/fuzzy/internal/fuzzy"
	"rgehrsitz/fuzzy/internal/rules"
)

// Fuzzified maps variable -> fuzzy set -> membership degree.
type Fuzzified map[string]map[string]float64

// Inferred maps output variable -> output set -> aggregated rule activation.
// Sets no rule concludes are absent.
type Inferred map[string]map[string]float64

// Result is the outcome of one Run. A class of "" means no output set was
// activated above zero.
type Result struct {
	RunID     uuid.UUID
	Fuzzified Fuzzified
	Inferred  Inferred
	Outputs   map[string]float64
	Classes   map[string]string
}

// Run fuzzifies the inputs, evaluates every rule, defuzzifies the outputs and
// picks the equivalent class of each output variable. Every IN variable must
// have a value.
func (s *System) Run(inputs map[string]float64) (*Result, error) {
	runID := uuid.New()
	logger := s.logger.With().Str("run_id", runID.String()).Logger()

	if err := s.checkInputs(inputs); err != nil {
		return nil, err
	}

	fuzzified, err := s.Fuzzify(inputs)
	if err != nil {
		return nil, fmt.Errorf("fuzzification failed: %w", err)
	}
	logger.Debug().Int("variables", len(fuzzified)).Msg("Fuzzification done")

	inferred, err := s.Infer(fuzzified)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	logger.Debug().Int("rules", len(s.rules)).Msg("Inference done")

	outputs, err := s.Defuzzify(inferred)
	if err != nil {
		return nil, fmt.Errorf("defuzzification failed: %w", err)
	}

	classes, err := s.EquivalentClasses(inferred)
	if err != nil {
		return nil, fmt.Errorf("equivalent class selection failed: %w", err)
	}

	logger.Info().Int("outputs", len(outputs)).Msg("Run completed")

	return &Result{
		RunID:     runID,
		Fuzzified: fuzzified,
		Inferred:  inferred,
		Outputs:   outputs,
		Classes:   classes,
	}, nil
}

func (s *System) checkInputs(inputs map[string]float64) error {
	var missing []string
	for _, v := range s.VariablesWithRole(fuzzy.RoleInput) {
		if _, ok := inputs[v.Name()]; !ok {
			missing = append(missing, v.Name())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: no value for %s", ErrMissingInput, strings.Join(missing, ", "))
	}
	return nil
}

// Fuzzify evaluates every fuzzy set of every supplied variable.
func (s *System) Fuzzify(inputs map[string]float64) (Fuzzified, error) {
	fuzzified := make(Fuzzified, len(inputs))
	for _, name := range sortedKeys(inputs) {
		value := inputs[name]
		v, ok := s.Variable(name)
		if !ok {
			return nil, unknownVariable(-1, name)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("%w: value of %q is not finite", ErrInvalidInput, v.Name())
		}
		if !v.Domain().Contains(value) {
			s.logger.Warn().
				Str("variable", v.Name()).
				Float64("value", value).
				Stringer("range", v.Domain()).
				Msg("Input outside variable range")
		}

		degrees, err := v.Fuzzify(value)
		if err != nil {
			return nil, err
		}
		fuzzified[v.Name()] = degrees
	}
	return fuzzified, nil
}

// Infer computes each rule's activation (min within a group, max across
// groups) and aggregates rules sharing a consequent by maximum.
func (s *System) Infer(fuzzified Fuzzified) (Inferred, error) {
	inferred := make(Inferred)
	for i, rule := range s.rules {
		if err := s.checkReference(i, rule.Consequent.Variable, rule.Consequent.Set); err != nil {
			return nil, err
		}

		activation, err := s.activate(i, rule, fuzzified)
		if err != nil {
			return nil, err
		}
		s.observer.RuleActivated(i, rule, activation)

		out := rule.Consequent
		sets, ok := inferred[out.Variable]
		if !ok {
			sets = make(map[string]float64)
			inferred[out.Variable] = sets
		}
		if prev, seen := sets[out.Set]; !seen || activation > prev {
			sets[out.Set] = activation
		}
	}
	return inferred, nil
}

func (s *System) activate(index int, rule *rules.Rule, fuzzified Fuzzified) (float64, error) {
	activation := 0.0
	for _, group := range rule.Conditions {
		if len(group) == 0 {
			return 0, fmt.Errorf("rule %d: %w", index, ErrEmptyGroup)
		}
		groupActivation := math.Inf(1)
		for _, c := range group {
			degrees, ok := fuzzified[c.Variable]
			if !ok {
				return 0, unknownVariable(index, c.Variable)
			}
			membership, ok := degrees[c.Set]
			if !ok {
				return 0, unknownSet(index, c.Variable, c.Set)
			}
			degree := c.Degree(membership)
			s.observer.ConditionEvaluated(index, c, degree)
			groupActivation = math.Min(groupActivation, degree)
		}
		activation = math.Max(activation, groupActivation)
	}
	return activation, nil
}

// Defuzzify turns each output variable's activations into a crisp value: the
// activation-weighted mean of the activated sets' centroids. An output whose
// activations sum to zero yields 0.
func (s *System) Defuzzify(inferred Inferred) (map[string]float64, error) {
	outputs := make(map[string]float64, len(inferred))
	for _, name := range sortedKeys(inferred) {
		entries, err := s.outputEntries(name, inferred[name])
		if err != nil {
			return nil, err
		}

		var numerator, denominator float64
		for _, e := range entries {
			centroid := e.set.Centroid()
			s.observer.SetDefuzzified(name, e.set.Name(), e.activation, centroid)
			numerator += e.activation * centroid
			denominator += e.activation
		}

		if denominator != 0 {
			outputs[name] = numerator / denominator
		} else {
			outputs[name] = 0
		}
	}
	return outputs, nil
}

// EquivalentClasses picks, per output variable, the set with the strictly
// greatest activation. Ties go to the set registered first. A variable with no
// activation above zero maps to "".
func (s *System) EquivalentClasses(inferred Inferred) (map[string]string, error) {
	classes := make(map[string]string, len(inferred))
	for _, name := range sortedKeys(inferred) {
		entries, err := s.outputEntries(name, inferred[name])
		if err != nil {
			return nil, err
		}

		best, class := 0.0, ""
		for _, e := range entries {
			if e.activation > best {
				best, class = e.activation, e.set.Name()
			}
		}
		classes[name] = class
	}
	return classes, nil
}

type outputEntry struct {
	set        fuzzy.Set
	activation float64
}

// outputEntries resolves one variable's activations against the registry,
// ordered by set registration.
func (s *System) outputEntries(variable string, activations map[string]float64) ([]outputEntry, error) {
	v, ok := s.variables[variable]
	if !ok {
		return nil, unknownVariable(-1, variable)
	}
	for _, set := range sortedKeys(activations) {
		if _, ok := v.Set(set); !ok {
			return nil, unknownSet(-1, variable, set)
		}
	}

	entries := make([]outputEntry, 0, len(activations))
	for _, set := range v.Sets() {
		if a, ok := activations[set.Name()]; ok {
			entries = append(entries, outputEntry{set: set, activation: a})
		}
	}
	return entries, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
