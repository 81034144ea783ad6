// internal/rules/condition.go

package rules

import "strings"

// Grammar keywords of the condition language.
const (
	KeywordAnd    = "and"
	KeywordOr     = "or"
	KeywordNot    = "not"
	KeywordAndNot = "and_not"
	Implication   = "=>"
)

var Keywords = []string{
	KeywordAnd,
	KeywordOr,
	KeywordNot,
	KeywordAndNot,
	Implication,
}

// IsKeyword reports whether token is reserved by the condition language.
func IsKeyword(token string) bool {
	for _, k := range Keywords {
		if token == k {
			return true
		}
	}
	return false
}

// Condition tests one fuzzy set of one variable. A negated condition
// contributes the complement of the membership degree.
type Condition struct {
	Variable string
	Set      string
	Negated  bool
}

// Degree applies the condition's negation to a membership degree.
func (c Condition) Degree(membership float64) float64 {
	if c.Negated {
		return 1 - membership
	}
	return membership
}

func (c Condition) String() string {
	if c.Negated {
		return c.Variable + " " + KeywordNot + " " + c.Set
	}
	return c.Variable + " " + c.Set
}

// Group is a conjunction: its conditions are combined by fuzzy AND (minimum).
type Group []Condition

func (g Group) String() string {
	parts := make([]string, len(g))
	for i, c := range g {
		parts[i] = c.String()
	}
	return strings.Join(parts, " "+KeywordAnd+" ")
}

// Tree is a disjunction of groups combined by fuzzy OR (maximum).
type Tree []Group

func (t Tree) String() string {
	parts := make([]string, len(t))
	for i, g := range t {
		parts[i] = g.String()
	}
	return strings.Join(parts, " "+KeywordOr+" ")
}

// Conditions returns every condition of the tree in declaration order.
func (t Tree) Conditions() []Condition {
	var all []Condition
	for _, g := range t {
		all = append(all, g...)
	}
	return all
}
