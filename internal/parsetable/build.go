package parsetable

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/admitcalc/exprlang/internal/action"
	"github.com/admitcalc/exprlang/internal/automaton"
	"github.com/admitcalc/exprlang/internal/conflict"
	"github.com/admitcalc/exprlang/internal/exprerr"
	"github.com/admitcalc/exprlang/internal/grammar"
	"github.com/admitcalc/exprlang/internal/limits"
	"github.com/admitcalc/exprlang/internal/token"
)

// Compile builds the LALR(1) ParsingTable for g, per spec.md §4.4 steps
// 1-6: it first builds the canonical, kernel-merged automaton
// (internal/automaton), then for every state derives its ACTION row
// (shift on every symbol-labeled outgoing transition on a terminal, reduce
// on every complete item's lookahead, accept on DOLLAR in the state holding
// [START -> EXPR . DOLLAR, DOLLAR]), its GOTO row (every outgoing transition
// on a non-terminal), resolving every collision via resolver
// (internal/conflict). See Cache.Compile (whose receiver may be nil) for a
// cached entry point keyed by grammar structural hash.
func Compile(g *grammar.Grammar, resolver *conflict.Resolver, lim limits.Limits) (*ParsingTable, error) {
	if err := g.IsValid(); err != nil {
		return nil, err
	}

	ff := grammar.Compute(g)
	a, err := automaton.Build(g, ff, lim)
	if err != nil {
		return nil, err
	}

	table := &ParsingTable{
		CompileID:    uuid.New(),
		Grammar:      g,
		States:       map[int]*ParsingState{},
		StartState:   a.Start,
		AcceptStates: map[int]bool{},
		Terminals:    g.Terminals(),
		NonTerminals: g.NonTerminals(),
	}

	for _, s := range a.States {
		ps := &ParsingState{
			ID:      s.ID,
			Items:   s.Items,
			Actions: map[token.Symbol]action.Action{},
			Gotos:   map[token.Symbol]int{},
		}
		table.States[s.ID] = ps
	}

	// Step 4: record shift/goto transitions.
	for sID, trans := range a.Transitions {
		ps := table.States[sID]
		for sym, targetID := range trans {
			if sym.IsTerminal() {
				if err := setAction(table, resolver, sID, sym, action.Action{Kind: action.Shift, State: targetID}); err != nil {
					return nil, err
				}
			} else {
				ps.Gotos[sym] = targetID
			}
		}
	}

	// Step 5-6: reduce/accept actions from complete items.
	for _, s := range a.States {
		for _, it := range s.Items.Items() {
			if it.Production.ID == grammar.AugmentedID {
				// [START -> EXPR . DOLLAR, DOLLAR]: accept on DOLLAR here, in
				// place of the shift on DOLLAR recorded in step 4, so the
				// symbol stack's top is still the EXPR node at accept time.
				if next, ok := it.NextSymbol(); ok && next == token.DOLLAR && it.Lookahead == token.DOLLAR {
					table.States[s.ID].Actions[token.DOLLAR] = action.Action{Kind: action.Accept}
					table.States[s.ID].IsAccepting = true
					table.AcceptStates[s.ID] = true
				}
				continue
			}
			if !it.IsComplete() {
				continue
			}
			if err := setAction(table, resolver, s.ID, it.Lookahead, action.Action{Kind: action.Reduce, Production: it.Production}); err != nil {
				return nil, err
			}
		}
	}

	if len(table.AcceptStates) == 0 {
		return nil, exprerr.NewTableBuildError("no accepting state: augmented item [START -> EXPR . DOLLAR, DOLLAR] never reached")
	}

	if err := table.verifyNoUnresolvedConflicts(); err != nil {
		return nil, err
	}
	return table, nil
}

// setAction installs act into table.States[sID].Actions[sym], invoking
// resolver when an entry is already present (spec.md §4.6).
func setAction(table *ParsingTable, resolver *conflict.Resolver, sID int, sym token.Symbol, act action.Action) error {
	ps := table.States[sID]
	existing, ok := ps.Actions[sym]
	if !ok {
		ps.Actions[sym] = act
		return nil
	}
	if existing.Equal(act) {
		return nil
	}

	winner, decision := resolveConflict(resolver, sID, sym, existing, act)
	ps.Actions[sym] = winner
	table.Decisions = append(table.Decisions, ConflictDecision{
		State: decision.State, Symbol: decision.Symbol, Kept: decision.Kept,
		Dropped: decision.Dropped, Reason: decision.Reason,
	})
	if winner.Kind == action.Error {
		return exprerr.NewTableBuildError(fmt.Sprintf("unresolvable conflict in state %d on %s: %s", sID, sym, winner.ErrorMessage))
	}
	return nil
}

func resolveConflict(resolver *conflict.Resolver, state int, sym token.Symbol, existing, incoming action.Action) (action.Action, conflict.Decision) {
	switch {
	case existing.Kind == action.Shift && incoming.Kind == action.Reduce:
		return resolver.ResolveShiftReduce(state, sym, existing, incoming.Production)
	case existing.Kind == action.Reduce && incoming.Kind == action.Shift:
		return resolver.ResolveShiftReduce(state, sym, incoming, existing.Production)
	case existing.Kind == action.Reduce && incoming.Kind == action.Reduce:
		return resolver.ResolveReduceReduce(state, sym, existing.Production, incoming.Production)
	default:
		// Accept/shift, accept/reduce, shift/shift: never arises for this
		// grammar (DOLLAR only ever carries Accept from the augmented
		// item, and Goto's determinism rules out two distinct shift
		// targets for one terminal from one state), but report it rather
		// than silently keep the first-seen action if it ever does.
		return action.Action{Kind: action.Error, ErrorCode: "UNEXPECTED_CONFLICT", ErrorMessage: fmt.Sprintf("%s vs %s", existing, incoming)},
			conflict.Decision{State: state, Symbol: sym, Kept: existing, Dropped: incoming, Reason: "unexpected conflict kind"}
	}
}

func (t *ParsingTable) verifyNoUnresolvedConflicts() error {
	for id, s := range t.States {
		for sym, a := range s.Actions {
			if a.Kind == action.Error {
				return exprerr.NewTableBuildError(fmt.Sprintf("unresolved conflict remains in state %d on %s: %s", id, sym, a.ErrorMessage))
			}
		}
	}
	return nil
}
