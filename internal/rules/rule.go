// internal/rules/rule.go

package rules

// Consequent names the output term a rule asserts.
type Consequent struct {
	Variable string
	Set      string
}

func (c Consequent) String() string {
	return c.Variable + " " + c.Set
}

// Rule is a parsed fuzzy rule: IF Conditions THEN Consequent.
type Rule struct {
	Text       string // Source text as entered
	Conditions Tree
	Consequent Consequent
}

func (r *Rule) String() string {
	return r.Conditions.String() + " " + Implication + " " + r.Consequent.String()
}

// Inputs lists the distinct variables the rule's conditions read, in first-use order.
func (r *Rule) Inputs() []string {
	seen := make(map[string]bool)
	var inputs []string
	for _, c := range r.Conditions.Conditions() {
		if !seen[c.Variable] {
			seen[c.Variable] = true
			inputs = append(inputs, c.Variable)
		}
	}
	return inputs
}
