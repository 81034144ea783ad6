package preprocessor

import (
	"errors"
	"fmt"
	"strings"

	"rgehrsitz/fuzzy/internal/fuzzy"
	"rgehrsitz/fuzzy/internal/rules"
)

var ErrParse = errors.New("rule parse error")

// ParseError describes malformed rule text. Token is the zero-based index of
// the offending token within the condition part, or -1 when the error is not
// tied to a single token.
type ParseError struct {
	Input   string
	Token   int
	Message string
}

func (e *ParseError) Error() string {
	if e.Token >= 0 {
		return fmt.Sprintf("invalid rule %q at token %d: %s", e.Input, e.Token, e.Message)
	}
	return fmt.Sprintf("invalid rule %q: %s", e.Input, e.Message)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// ParseRule parses "CONDITIONS => VARIABLE SET".
func ParseRule(text string) (*rules.Rule, error) {
	text = strings.TrimSpace(text)

	switch n := strings.Count(text, rules.Implication); {
	case n == 0:
		return nil, &ParseError{Input: text, Token: -1, Message: "missing '=>' operator"}
	case n > 1:
		return nil, &ParseError{Input: text, Token: -1, Message: "more than one '=>' operator"}
	}

	lhs, rhs, _ := strings.Cut(text, rules.Implication)

	tree, err := ParseConditions(lhs)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Input = text
		}
		return nil, err
	}

	result := strings.Fields(rhs)
	if len(result) != 2 {
		return nil, &ParseError{Input: text, Token: -1,
			Message: fmt.Sprintf("consequent must be 'VARIABLE SET', got %d tokens", len(result))}
	}
	for _, tok := range result {
		if rules.IsKeyword(tok) {
			return nil, &ParseError{Input: text, Token: -1,
				Message: fmt.Sprintf("keyword %q cannot name a variable or set", tok)}
		}
	}

	return &rules.Rule{
		Text:       text,
		Conditions: tree,
		Consequent: rules.Consequent{
			Variable: fuzzy.CanonicalName(result[0]),
			Set:      fuzzy.CanonicalName(result[1]),
		},
	}, nil
}

// ParseConditions scans whitespace-separated tokens left to right:
//
//	cond := VAR SET | VAR "not" SET
//	term := cond | "and_not" VAR SET
//
// "and" continues the current group and "or" closes it and opens a new one.
// Every group must hold at least one condition.
func ParseConditions(text string) (rules.Tree, error) {
	p := &conditionParser{input: strings.TrimSpace(text), tokens: strings.Fields(text)}
	return p.parse()
}

type conditionParser struct {
	input  string
	tokens []string
	tree   rules.Tree
	group  rules.Group
}

func (p *conditionParser) parse() (rules.Tree, error) {
	for i := 0; i < len(p.tokens); {
		switch tok := p.tokens[i]; tok {
		case rules.KeywordAnd:
			i++

		case rules.KeywordOr:
			if len(p.group) == 0 {
				return nil, p.errorf(i, "'or' without a preceding condition")
			}
			p.tree = append(p.tree, p.group)
			p.group = nil
			i++

		case rules.KeywordAndNot:
			if i+2 >= len(p.tokens) {
				return nil, p.errorf(i, "'and_not' must be followed by a variable and a set")
			}
			if err := p.add(i+1, i+2, true); err != nil {
				return nil, err
			}
			i += 3

		case rules.KeywordNot, rules.Implication:
			return nil, p.errorf(i, "unexpected %q", tok)

		default:
			if i+1 >= len(p.tokens) {
				return nil, p.errorf(i, "variable %q has no fuzzy set", tok)
			}
			if p.tokens[i+1] == rules.KeywordNot {
				if i+2 >= len(p.tokens) {
					return nil, p.errorf(i+1, "'not' must be followed by a set")
				}
				if err := p.add(i, i+2, true); err != nil {
					return nil, err
				}
				i += 3
				continue
			}
			if err := p.add(i, i+1, false); err != nil {
				return nil, err
			}
			i += 2
		}
	}

	if len(p.group) > 0 {
		p.tree = append(p.tree, p.group)
	} else if len(p.tree) > 0 {
		return nil, p.errorf(len(p.tokens)-1, "dangling 'or'")
	}
	if len(p.tree) == 0 {
		return nil, &ParseError{Input: p.input, Token: -1, Message: "rule has no conditions"}
	}
	return p.tree, nil
}

func (p *conditionParser) add(varIdx, setIdx int, negated bool) error {
	for _, idx := range []int{varIdx, setIdx} {
		if rules.IsKeyword(p.tokens[idx]) {
			return p.errorf(idx, "keyword %q cannot name a variable or set", p.tokens[idx])
		}
	}
	p.group = append(p.group, rules.Condition{
		Variable: fuzzy.CanonicalName(p.tokens[varIdx]),
		Set:      fuzzy.CanonicalName(p.tokens[setIdx]),
		Negated:  negated,
	})
	return nil
}

func (p *conditionParser) errorf(token int, format string, args ...any) error {
	return &ParseError{Input: p.input, Token: token, Message: fmt.Sprintf(format, args...)}
}
