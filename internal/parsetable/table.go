// Package parsetable defines ParsingState and ParsingTable (spec.md §3) and
// the Compile entry point that builds a table from a Grammar (spec.md
// §4.4), wiring together internal/automaton's state construction and
// internal/conflict's resolution policy. Grounded in the teacher's
// lalr1Table (internal/ictiobus/parse/lalr.go), generalized from a
// multi-grammar generic parser table to this package's single fixed
// grammar.
package parsetable

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/google/uuid"

	"github.com/admitcalc/exprlang/internal/action"
	"github.com/admitcalc/exprlang/internal/grammar"
	"github.com/admitcalc/exprlang/internal/token"
)

// ParsingState is one state of the compiled table: its id, the (merged)
// item set it corresponds to, its ACTION row, its GOTO row, and whether it
// accepts.
type ParsingState struct {
	ID          int
	Items       *grammar.ItemSet
	Actions     map[token.Symbol]action.Action
	Gotos       map[token.Symbol]int
	IsAccepting bool
}

// ParsingTable is the immutable, built LALR(1) table: spec.md §3's sum of
// states, action/goto maps, start state, and accept-state set. It is safe
// for concurrent read-only use by any number of parser drivers once
// Compile has returned it.
type ParsingTable struct {
	CompileID    uuid.UUID
	Grammar      *grammar.Grammar
	States       map[int]*ParsingState
	StartState   int
	AcceptStates map[int]bool
	Terminals    map[token.Symbol]bool
	NonTerminals map[token.Symbol]bool

	// Decisions records every conflict resolution made during
	// construction, for diagnostics (internal/conflict.Decision).
	Decisions []ConflictDecision
}

// ConflictDecision is a construction-time record of one resolved conflict.
type ConflictDecision struct {
	State   int
	Symbol  token.Symbol
	Kept    action.Action
	Dropped action.Action
	Reason  string
}

// Action returns the ACTION-table entry for (state, terminal), and whether
// one exists.
func (t *ParsingTable) Action(state int, term token.Symbol) (action.Action, bool) {
	s, ok := t.States[state]
	if !ok {
		return action.Action{}, false
	}
	a, ok := s.Actions[term]
	return a, ok
}

// Goto returns the GOTO-table entry for (state, non-terminal), and whether
// one exists.
func (t *ParsingTable) Goto(state int, nt token.Symbol) (int, bool) {
	s, ok := t.States[state]
	if !ok {
		return 0, false
	}
	id, ok := s.Gotos[nt]
	return id, ok
}

// Initial returns the start state id.
func (t *ParsingTable) Initial() int { return t.StartState }

// ExpectedTerminals returns the terminals for which state has a defined
// ACTION, for SyntaxError's expected-set (spec.md §7).
func (t *ParsingTable) ExpectedTerminals(state int) []token.Symbol {
	s, ok := t.States[state]
	if !ok {
		return nil
	}
	out := make([]token.Symbol, 0, len(s.Actions))
	for sym, a := range s.Actions {
		if a.Kind != action.Error {
			out = append(out, sym)
		}
	}
	return out
}

// String renders the table as a human-readable ASCII grid, in the
// teacher's lalr1Table.String() style: grounded in
// internal/ictiobus/parse/lalr.go's rosed.Edit("").InsertTableOpts(...)
// usage.
func (t *ParsingTable) String() string {
	header := []string{"state", "actions", "gotos", "accept"}
	data := [][]string{header}
	for id := 0; id < len(t.States); id++ {
		s := t.States[id]
		var actParts []string
		for sym, a := range s.Actions {
			actParts = append(actParts, fmt.Sprintf("%s:%s", sym, a))
		}
		var goParts []string
		for sym, target := range s.Gotos {
			goParts = append(goParts, fmt.Sprintf("%s:%d", sym, target))
		}
		data = append(data, []string{
			fmt.Sprintf("%d", id),
			strings.Join(actParts, ", "),
			strings.Join(goParts, ", "),
			fmt.Sprintf("%v", s.IsAccepting),
		})
	}
	return rosed.
		Edit("").
		InsertTableOpts(0, data, 20, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
