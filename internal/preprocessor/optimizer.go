package preprocessor

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"

	"rgehrsitz/fuzzy/internal/rules"
)

// Simplify returns an equivalent tree with repeated conditions removed from
// each group and repeated groups removed from the tree. min and max are
// idempotent, so activation is unchanged. Declaration order is kept.
func Simplify(tree rules.Tree) rules.Tree {
	simplified := make(rules.Tree, 0, len(tree))
	seenGroups := make(map[string]bool)
	for _, group := range tree {
		g := dedupConditions(group)
		key := groupKey(g)
		if seenGroups[key] {
			continue
		}
		seenGroups[key] = true
		simplified = append(simplified, g)
	}
	return simplified
}

func dedupConditions(group rules.Group) rules.Group {
	deduped := make(rules.Group, 0, len(group))
	seen := make(map[rules.Condition]bool)
	for _, c := range group {
		if !seen[c] {
			seen[c] = true
			deduped = append(deduped, c)
		}
	}
	return deduped
}

// groupKey identifies a group independent of condition order.
func groupKey(group rules.Group) string {
	sorted := sortConditions(group)
	b, _ := json.Marshal(sorted)
	return string(b)
}

// sortConditions returns a copy ordered by variable, set, then negation.
func sortConditions(group rules.Group) rules.Group {
	sorted := append(rules.Group(nil), group...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Variable != sorted[j].Variable {
			return sorted[i].Variable < sorted[j].Variable
		}
		if sorted[i].Set != sorted[j].Set {
			return sorted[i].Set < sorted[j].Set
		}
		return !sorted[i].Negated && sorted[j].Negated
	})
	return sorted
}

// normalizeTree puts a simplified tree into a canonical order so that
// logically identical rules serialize identically.
func normalizeTree(tree rules.Tree) rules.Tree {
	normalized := make(rules.Tree, 0, len(tree))
	for _, g := range Simplify(tree) {
		normalized = append(normalized, sortConditions(g))
	}
	sort.SliceStable(normalized, func(i, j int) bool {
		return groupKey(normalized[i]) < groupKey(normalized[j])
	})
	return normalized
}

// conditionsKey hashes the canonical form of a rule's antecedent and consequent.
func conditionsKey(rule *rules.Rule) (string, error) {
	serialized, err := json.Marshal(struct {
		Conditions rules.Tree
		Consequent rules.Consequent
	}{normalizeTree(rule.Conditions), rule.Consequent})
	if err != nil {
		return "", fmt.Errorf("error marshaling conditions: %v", err)
	}

	hash := sha256.Sum256(serialized)
	return fmt.Sprintf("%x", hash), nil
}

// Duplicate pairs a rule with an earlier rule that asserts the same
// consequent under a logically identical antecedent. Indices are positions
// in the slice passed to DuplicateRules.
type Duplicate struct {
	Index    int
	Original int
}

// DuplicateRules finds rules that repeat an earlier rule. Max aggregation makes
// such rules redundant, though they do no harm.
func DuplicateRules(ruleSet []*rules.Rule) ([]Duplicate, error) {
	firstSeen := make(map[string]int)
	var dups []Duplicate
	for i, rule := range ruleSet {
		key, err := conditionsKey(rule)
		if err != nil {
			return nil, err
		}
		if original, found := firstSeen[key]; found {
			dups = append(dups, Duplicate{Index: i, Original: original})
			continue
		}
		firstSeen[key] = i
	}
	return dups, nil
}

// SortByConsequent returns a copy of the rules grouped by output variable and
// set, keeping declaration order within each group.
func SortByConsequent(ruleSet []*rules.Rule) []*rules.Rule {
	sorted := make([]*rules.Rule, len(ruleSet))
	copy(sorted, ruleSet)

	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := sorted[i].Consequent, sorted[j].Consequent
		if ci.Variable != cj.Variable {
			return ci.Variable < cj.Variable
		}
		return ci.Set < cj.Set
	})

	return sorted
}
