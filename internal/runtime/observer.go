package runtime

import (
	"github.com/rs/zerolog"

	"rgehrsitz/fuzzy/internal/rules"
)

// Observer receives evaluation events while the pipeline runs. Callbacks are
// invoked synchronously and must not mutate the system.
type Observer interface {
	ConditionEvaluated(rule int, c rules.Condition, degree float64)
	RuleActivated(rule int, r *rules.Rule, activation float64)
	SetDefuzzified(variable, set string, activation, centroid float64)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) ConditionEvaluated(int, rules.Condition, float64) {}
func (NopObserver) RuleActivated(int, *rules.Rule, float64)          {}
func (NopObserver) SetDefuzzified(string, string, float64, float64)  {}

// LogObserver writes every event as a zerolog debug entry.
type LogObserver struct {
	Logger zerolog.Logger
}

func (o LogObserver) ConditionEvaluated(rule int, c rules.Condition, degree float64) {
	o.Logger.Debug().
		Int("rule", rule).
		Str("condition", c.String()).
		Float64("degree", degree).
		Msg("Condition evaluated")
}

func (o LogObserver) RuleActivated(rule int, r *rules.Rule, activation float64) {
	o.Logger.Debug().
		Int("rule", rule).
		Str("consequent", r.Consequent.String()).
		Float64("activation", activation).
		Msg("Rule activated")
}

func (o LogObserver) SetDefuzzified(variable, set string, activation, centroid float64) {
	o.Logger.Debug().
		Str("variable", variable).
		Str("set", set).
		Float64("activation", activation).
		Float64("centroid", centroid).
		Msg("Set defuzzified")
}

// EventKind tags a recorded trace event.
type EventKind string

const (
	EventCondition EventKind = "condition"
	EventRule      EventKind = "rule"
	EventDefuzzify EventKind = "defuzzify"
)

// Event is one recorded evaluation step.
type Event struct {
	Kind     EventKind `json:"kind"`
	Rule     int       `json:"rule,omitempty"`
	Subject  string    `json:"subject"`
	Value    float64   `json:"value"`
	Centroid float64   `json:"centroid,omitempty"`
}

// Recorder keeps events in the order they happened.
type Recorder struct {
	Events []Event
}

func (r *Recorder) ConditionEvaluated(rule int, c rules.Condition, degree float64) {
	r.Events = append(r.Events, Event{Kind: EventCondition, Rule: rule, Subject: c.String(), Value: degree})
}

func (r *Recorder) RuleActivated(rule int, ru *rules.Rule, activation float64) {
	r.Events = append(r.Events, Event{Kind: EventRule, Rule: rule, Subject: ru.Consequent.String(), Value: activation})
}

func (r *Recorder) SetDefuzzified(variable, set string, activation, centroid float64) {
	r.Events = append(r.Events, Event{Kind: EventDefuzzify, Subject: variable + " " + set, Value: activation, Centroid: centroid})
}

// Observers fans events out to several observers in order.
type Observers []Observer

func (obs Observers) ConditionEvaluated(rule int, c rules.Condition, degree float64) {
	for _, o := range obs {
		o.ConditionEvaluated(rule, c, degree)
	}
}

func (obs Observers) RuleActivated(rule int, r *rules.Rule, activation float64) {
	for _, o := range obs {
		o.RuleActivated(rule, r, activation)
	}
}

func (obs Observers) SetDefuzzified(variable, set string, activation, centroid float64) {
	for _, o := range obs {
		o.SetDefuzzified(variable, set, activation, centroid)
	}
}
