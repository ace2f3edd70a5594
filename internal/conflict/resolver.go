// Package conflict implements the precedence/associativity policy that
// resolves shift/reduce and reduce/reduce conflicts during LALR(1) table
// construction, per spec.md §4.6. It is grounded in the teacher's
// parse.makeLRConflictError/isShiftReduceConlict conflict-classification
// helpers, generalized from "report a conflict" to "resolve a conflict and
// report the resolution for diagnostics."
package conflict

import (
	"fmt"

	"github.com/admitcalc/exprlang/internal/action"
	"github.com/admitcalc/exprlang/internal/grammar"
	"github.com/admitcalc/exprlang/internal/token"
)

// Assoc is an operator's associativity.
type Assoc int

const (
	LEFT Assoc = iota
	RIGHT
	NONE
)

// Rule is one entry of the associativity/precedence table of spec.md §3.
type Rule struct {
	Operator   token.Symbol
	Type       Assoc
	Precedence int
}

// DefaultRules is the default associativity table, lowest to highest
// precedence, per spec.md §3. Unary `+` (production 22) shares unary `-`'s
// entry (see DESIGN.md, Open Question 1): both are `PRIMARY -> op PRIMARY`
// productions and there is no basis in the grammar for treating them
// differently.
var DefaultRules = []Rule{
	{token.OR, LEFT, 1},
	{token.AND, LEFT, 2},
	{token.EQUAL, LEFT, 3},
	{token.NOT_EQUAL, LEFT, 3},
	{token.LESS, LEFT, 4},
	{token.LESS_EQUAL, LEFT, 4},
	{token.GREATER, LEFT, 4},
	{token.GREATER_EQUAL, LEFT, 4},
	{token.PLUS, LEFT, 5},
	{token.MINUS, LEFT, 5},
	{token.MULTIPLY, LEFT, 6},
	{token.DIVIDE, LEFT, 6},
	{token.MODULO, LEFT, 6},
	{token.POWER, RIGHT, 7},
	{token.NOT, RIGHT, 8},
}

// unaryPrecedence is the precedence/associativity assigned to a production
// whose builder is a unary operator (productions 21, 22, 23): 8/RIGHT,
// matching NOT's entry, per spec.md §3's "NOT and unary MINUS(8,R)" and
// Open Question 1's resolution for unary PLUS.
const unaryPrecedence = 8

var unaryAssoc = RIGHT

// Resolver applies DefaultRules (or a caller-supplied table) to decide
// shift/reduce and reduce/reduce conflicts, recording every decision it
// makes for diagnostics.
type Resolver struct {
	byOperator map[token.Symbol]Rule
	Decisions  []Decision
}

// Decision records one conflict resolution for diagnostics.
type Decision struct {
	State   int
	Symbol  token.Symbol
	Kept    action.Action
	Dropped action.Action
	Reason  string
}

// New builds a Resolver from a precedence/associativity table.
func New(rules []Rule) *Resolver {
	r := &Resolver{byOperator: map[token.Symbol]Rule{}}
	for _, rule := range rules {
		r.byOperator[rule.Operator] = rule
	}
	return r
}

// precedenceOf returns the precedence of a production: the precedence of
// the rightmost terminal on its right-hand side that has a defined
// precedence, or 0 if none does. A unary-operator production (its builder
// being BuildUnaryOp with a single production symbol followed by a
// non-terminal, e.g. `PRIMARY -> MINUS PRIMARY`) is given unaryPrecedence
// instead, since its rightmost terminal IS the operator and binary/unary
// roles of the same terminal must not share one table entry.
func (r *Resolver) precedenceOf(p grammar.Production) (int, Assoc, bool) {
	if p.Builder == grammar.BuildUnaryOp {
		return unaryPrecedence, unaryAssoc, true
	}
	for i := len(p.Right) - 1; i >= 0; i-- {
		if rule, ok := r.byOperator[p.Right[i]]; ok {
			return rule.Precedence, rule.Type, true
		}
	}
	return 0, LEFT, false
}

// ResolveShiftReduce decides between shifting on terminal t and reducing by
// production p, per spec.md §4.6. It returns the winning action and a
// Decision recording the reasoning.
func (r *Resolver) ResolveShiftReduce(state int, t token.Symbol, shift action.Action, reduceProd grammar.Production) (action.Action, Decision) {
	reduceAct := action.Action{Kind: action.Reduce, Production: reduceProd}

	shiftPrec := 0
	if rule, ok := r.byOperator[t]; ok {
		shiftPrec = rule.Precedence
	}
	reducePrec, _, _ := r.precedenceOf(reduceProd)

	switch {
	case shiftPrec > reducePrec:
		d := Decision{State: state, Symbol: t, Kept: shift, Dropped: reduceAct, Reason: fmt.Sprintf("shift precedence %d > reduce precedence %d", shiftPrec, reducePrec)}
		r.Decisions = append(r.Decisions, d)
		return shift, d
	case shiftPrec < reducePrec:
		d := Decision{State: state, Symbol: t, Kept: reduceAct, Dropped: shift, Reason: fmt.Sprintf("reduce precedence %d > shift precedence %d", reducePrec, shiftPrec)}
		r.Decisions = append(r.Decisions, d)
		return reduceAct, d
	default:
		rule, ok := r.byOperator[t]
		assoc := LEFT
		if ok {
			assoc = rule.Type
		}
		switch assoc {
		case LEFT:
			d := Decision{State: state, Symbol: t, Kept: reduceAct, Dropped: shift, Reason: "equal precedence, left-associative: reduce"}
			r.Decisions = append(r.Decisions, d)
			return reduceAct, d
		case RIGHT:
			d := Decision{State: state, Symbol: t, Kept: shift, Dropped: reduceAct, Reason: "equal precedence, right-associative: shift"}
			r.Decisions = append(r.Decisions, d)
			return shift, d
		default: // NONE
			errAct := action.Action{Kind: action.Error, ErrorCode: "AMBIGUOUS_OPERATOR", ErrorMessage: fmt.Sprintf("operator %s is non-associative; %s is ambiguous here", t, t)}
			d := Decision{State: state, Symbol: t, Kept: errAct, Dropped: shift, Reason: "equal precedence, non-associative: unresolvable"}
			r.Decisions = append(r.Decisions, d)
			return errAct, d
		}
	}
}

// ResolveReduceReduce decides between reducing by p1 and reducing by p2 at
// the same (state, terminal) cell, per spec.md §4.6: the production with
// higher precedence wins; on a tie, the lower (earlier-defined) id wins.
func (r *Resolver) ResolveReduceReduce(state int, t token.Symbol, p1, p2 grammar.Production) (action.Action, Decision) {
	prec1, _, _ := r.precedenceOf(p1)
	prec2, _, _ := r.precedenceOf(p2)

	act1 := action.Action{Kind: action.Reduce, Production: p1}
	act2 := action.Action{Kind: action.Reduce, Production: p2}

	if prec1 != prec2 {
		if prec1 > prec2 {
			d := Decision{State: state, Symbol: t, Kept: act1, Dropped: act2, Reason: fmt.Sprintf("production %d precedence %d > production %d precedence %d", p1.ID, prec1, p2.ID, prec2)}
			r.Decisions = append(r.Decisions, d)
			return act1, d
		}
		d := Decision{State: state, Symbol: t, Kept: act2, Dropped: act1, Reason: fmt.Sprintf("production %d precedence %d > production %d precedence %d", p2.ID, prec2, p1.ID, prec1)}
		r.Decisions = append(r.Decisions, d)
		return act2, d
	}

	if p1.ID < p2.ID {
		d := Decision{State: state, Symbol: t, Kept: act1, Dropped: act2, Reason: fmt.Sprintf("equal precedence, lower id wins: %d < %d", p1.ID, p2.ID)}
		r.Decisions = append(r.Decisions, d)
		return act1, d
	}
	d := Decision{State: state, Symbol: t, Kept: act2, Dropped: act1, Reason: fmt.Sprintf("equal precedence, lower id wins: %d < %d", p2.ID, p1.ID)}
	r.Decisions = append(r.Decisions, d)
	return act2, d
}
