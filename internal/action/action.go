// Package action defines the Action sum type that occupies each cell of a
// ParsingTable's ACTION table: Shift, Reduce, Accept, or Error.
package action

import (
	"fmt"

	"github.com/admitcalc/exprlang/internal/grammar"
)

// Kind discriminates which variant an Action holds.
type Kind int

const (
	Shift Kind = iota
	Reduce
	Accept
	Error
)

// Action is the sum type `Shift(stateId) | Reduce(production) | Accept |
// Error(code, message)` of spec.md §3.
type Action struct {
	Kind Kind

	// State is the target state id; valid when Kind == Shift.
	State int

	// Production is the rule to reduce by; valid when Kind == Reduce.
	Production grammar.Production

	// ErrorCode/ErrorMessage describe an unresolvable conflict; valid when
	// Kind == Error.
	ErrorCode    string
	ErrorMessage string
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("shift %d", a.State)
	case Reduce:
		return fmt.Sprintf("reduce %s", a.Production.String())
	case Accept:
		return "accept"
	case Error:
		return fmt.Sprintf("error[%s]: %s", a.ErrorCode, a.ErrorMessage)
	default:
		return "action<?>"
	}
}

// Equal compares two actions for the table-equivalence property tests
// ("building twice yields equivalent tables").
func (a Action) Equal(o Action) bool {
	if a.Kind != o.Kind {
		return false
	}
	switch a.Kind {
	case Shift:
		return a.State == o.State
	case Reduce:
		return a.Production.Equal(o.Production)
	case Accept:
		return true
	case Error:
		return a.ErrorCode == o.ErrorCode
	}
	return false
}
