package preprocessor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rgehrsitz/fuzzy/internal/rules"
)

func TestParseRule_SingleGroup(t *testing.T) {
	rule, err := ParseRule("temp cold and humidity high => fan fast")
	require.NoError(t, err, "Unexpected error")

	assert.Equal(t, rules.Tree{
		{{Variable: "temp", Set: "cold"}, {Variable: "humidity", Set: "high"}},
	}, rule.Conditions)
	assert.Equal(t, rules.Consequent{Variable: "fan", Set: "fast"}, rule.Consequent)
	assert.Equal(t, "temp cold and humidity high => fan fast", rule.Text)
}

func TestParseRule_TwoGroups(t *testing.T) {
	rule, err := ParseRule("temp cold or temp hot => fan fast")
	require.NoError(t, err)

	assert.Equal(t, rules.Tree{
		{{Variable: "temp", Set: "cold"}},
		{{Variable: "temp", Set: "hot"}},
	}, rule.Conditions)
}

func TestParseRule_Negation(t *testing.T) {
	rule, err := ParseRule("temp not cold and_not humidity high or light dim => fan slow")
	require.NoError(t, err)

	assert.Equal(t, rules.Tree{
		{
			{Variable: "temp", Set: "cold", Negated: true},
			{Variable: "humidity", Set: "high", Negated: true},
		},
		{{Variable: "light", Set: "dim"}},
	}, rule.Conditions)
}

// The implication operator does not need surrounding whitespace.
func TestParseRule_TightImplication(t *testing.T) {
	rule, err := ParseRule("  temp hot=>fan fast ")
	require.NoError(t, err)
	assert.Equal(t, rules.Consequent{Variable: "fan", Set: "fast"}, rule.Consequent)
	assert.Equal(t, rules.Tree{{{Variable: "temp", Set: "hot"}}}, rule.Conditions)
}

// "and" is a no-op and juxtaposed conditions stay in the same group.
func TestParseConditions_AndIsOptional(t *testing.T) {
	withAnd, err := ParseConditions("temp cold and and humidity high")
	require.NoError(t, err)
	without, err := ParseConditions("temp cold humidity high")
	require.NoError(t, err)

	assert.Equal(t, withAnd, without)
	assert.Len(t, withAnd, 1)
}

func TestParseRule_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"missing implication", "temp cold fan fast"},
		{"double implication", "temp cold => fan fast => fan slow"},
		{"empty antecedent", " => fan fast"},
		{"and_not without set", "temp cold and_not humidity => fan fast"},
		{"and_not at end", "temp cold and_not => fan fast"},
		{"variable without set", "temp cold and humidity => fan fast"},
		{"not without set", "temp not => fan fast"},
		{"leading or", "or temp cold => fan fast"},
		{"double or", "temp cold or or temp hot => fan fast"},
		{"dangling or", "temp cold or => fan fast"},
		{"stray not", "not temp cold => fan fast"},
		{"keyword as set", "temp and humidity high => fan fast"},
		{"consequent too short", "temp cold => fan"},
		{"consequent too long", "temp cold => fan fast now"},
		{"keyword in consequent", "temp cold => fan or"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := ParseRule(tt.text)
			require.Error(t, err)
			assert.Nil(t, rule)
			assert.True(t, errors.Is(err, ErrParse), "expected ErrParse, got %v", err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.NotEmpty(t, perr.Message)
		})
	}
}

func TestParseError_ReportsTokenPosition(t *testing.T) {
	_, err := ParseRule("temp cold and_not humidity => fan fast")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Token)
	assert.Equal(t, "temp cold and_not humidity => fan fast", perr.Input)
	assert.Contains(t, perr.Error(), "at token 2")
}

func TestParseRule_RoundTrip(t *testing.T) {
	for _, text := range []string{
		"temp cold and humidity high => fan fast",
		"temp cold or temp hot => fan fast",
		"temp not cold and humidity high or light dim => fan slow",
	} {
		rule, err := ParseRule(text)
		require.NoError(t, err)
		assert.Equal(t, text, rule.String())

		again, err := ParseRule(rule.String())
		require.NoError(t, err)
		assert.Equal(t, rule.Conditions, again.Conditions)
	}
}
