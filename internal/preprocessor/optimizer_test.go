package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rgehrsitz/fuzzy/internal/rules"
)

func mustParse(t *testing.T, text string) *rules.Rule {
	t.Helper()
	rule, err := ParseRule(text)
	require.NoError(t, err)
	return rule
}

// TestSimplify checks that repeated conditions and groups are dropped and
// that first-seen order survives.
func TestSimplify(t *testing.T) {
	rule := mustParse(t, "temp hot and temp hot and light dim or light dim and temp hot or temp cold => fan fast")

	simplified := Simplify(rule.Conditions)

	assert.Equal(t, rules.Tree{
		{{Variable: "temp", Set: "hot"}, {Variable: "light", Set: "dim"}},
		{{Variable: "temp", Set: "cold"}},
	}, simplified)

	// The input tree is left alone.
	assert.Len(t, rule.Conditions[0], 3)
}

func TestSimplify_KeepsNegationDistinct(t *testing.T) {
	rule := mustParse(t, "temp hot and temp not hot => fan fast")
	assert.Len(t, Simplify(rule.Conditions)[0], 2)
}

// TestConditionsKey ensures logically identical rules share a key.
func TestConditionsKey(t *testing.T) {
	key1, err := conditionsKey(mustParse(t, "temp hot and light dim or temp cold => fan fast"))
	assert.NoError(t, err, "conditionsKey should not produce an error")
	key2, err := conditionsKey(mustParse(t, "temp cold or light dim and temp hot and temp hot => fan fast"))
	assert.NoError(t, err)
	key3, err := conditionsKey(mustParse(t, "temp hot and light dim or temp cold => fan slow"))
	assert.NoError(t, err)

	assert.Equal(t, key1, key2, "Identical conditions should produce the same key")
	assert.NotEqual(t, key1, key3, "Different consequents should produce different keys")
}

func TestDuplicateRules(t *testing.T) {
	ruleSet := []*rules.Rule{
		mustParse(t, "temp hot => fan fast"),
		mustParse(t, "temp cold => fan slow"),
		mustParse(t, "temp hot and temp hot => fan fast"),
		mustParse(t, "temp cold => fan slow"),
	}

	dups, err := DuplicateRules(ruleSet)
	require.NoError(t, err)
	assert.Equal(t, []Duplicate{{Index: 2, Original: 0}, {Index: 3, Original: 1}}, dups)
}

func TestSortByConsequent(t *testing.T) {
	ruleSet := []*rules.Rule{
		mustParse(t, "temp hot => fan fast"),
		mustParse(t, "temp cold => fan slow"),
		mustParse(t, "temp cold => alarm on"),
		mustParse(t, "light dim => fan fast"),
	}

	sorted := SortByConsequent(ruleSet)

	var texts []string
	for _, r := range sorted {
		texts = append(texts, r.Text)
	}
	assert.Equal(t, []string{
		"temp cold => alarm on",
		"temp hot => fan fast",
		"light dim => fan fast",
		"temp cold => fan slow",
	}, texts)
	assert.Equal(t, "temp hot => fan fast", ruleSet[0].Text, "input order is preserved")
}
