// runtime/errors.go

package runtime

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownVariable   = errors.New("unknown variable")
	ErrUnknownSet        = errors.New("unknown fuzzy set")
	ErrDuplicateVariable = errors.New("duplicate variable")
	ErrMissingInput      = errors.New("missing input")
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyGroup        = errors.New("empty condition group")
)

// ReferenceError reports a variable or fuzzy set name that is not registered
// on the system. Rule is the index of the rule holding the reference, or -1.
type ReferenceError struct {
	Variable string
	Set      string
	Rule     int
	Err      error
}

func (e *ReferenceError) Error() string {
	var what string
	if e.Set != "" {
		what = fmt.Sprintf("%v %q on variable %q", e.Err, e.Set, e.Variable)
	} else {
		what = fmt.Sprintf("%v %q", e.Err, e.Variable)
	}
	if e.Rule >= 0 {
		return fmt.Sprintf("rule %d: %s", e.Rule, what)
	}
	return what
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}

func unknownVariable(rule int, variable string) error {
	return &ReferenceError{Variable: variable, Rule: rule, Err: ErrUnknownVariable}
}

func unknownSet(rule int, variable, set string) error {
	return &ReferenceError{Variable: variable, Set: set, Rule: rule, Err: ErrUnknownSet}
}
