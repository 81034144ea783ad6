package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRule_String(t *testing.T) {
	rule := &Rule{
		Conditions: Tree{
			{{Variable: "temp", Set: "cold"}, {Variable: "humidity", Set: "high", Negated: true}},
			{{Variable: "temp", Set: "hot"}},
		},
		Consequent: Consequent{Variable: "fan", Set: "fast"},
	}

	assert.Equal(t, "temp cold and humidity not high or temp hot => fan fast", rule.String())
	assert.Equal(t, []string{"temp", "humidity"}, rule.Inputs())
}

func TestCondition_Degree(t *testing.T) {
	assert.Equal(t, 0.4, Condition{Variable: "v", Set: "s"}.Degree(0.4))
	assert.InDelta(t, 0.6, Condition{Variable: "v", Set: "s", Negated: true}.Degree(0.4), 1e-12)
}

func TestIsKeyword(t *testing.T) {
	for _, k := range []string{"and", "or", "not", "and_not", "=>"} {
		assert.True(t, IsKeyword(k), k)
	}
	assert.False(t, IsKeyword("temp"))
	assert.False(t, IsKeyword("AND"), "keywords are case sensitive")
}
