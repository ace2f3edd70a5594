// Package grammar holds the immutable description of the calculator
// expression grammar: productions, symbols, and the fixed BNF of spec §6,
// wired up once at package init the way the teacher's predecessor grammar
// wires up its fixed CFG via repeated AddRule/AddTerm calls followed by a
// Validate pass.
package grammar

import (
	"fmt"

	"github.com/admitcalc/exprlang/internal/exprerr"
	"github.com/admitcalc/exprlang/internal/token"
)

// BuilderKind tags which AST-construction rule a production's reduction
// invokes. It is a closed enum, not a heap-allocated closure or an
// interface value, per the "Object-identity builders" design note: builders
// are represented as a tag plus dispatch, not as objects attached by
// reference.
type BuilderKind int

const (
	BuildIdentity BuilderKind = iota
	BuildStart
	BuildParenthesized
	BuildNumber
	BuildVariable
	BuildBooleanTrue
	BuildBooleanFalse
	BuildBinaryOp
	BuildUnaryOp
	BuildFunctionCall
	BuildFunctionCallEmpty
	BuildIf
	BuildArgsSingle
	BuildArgsMultiple
)

// AugmentedID is the stable id of the augmented start production
// START → EXPR DOLLAR, per spec.md §3 invariant 4 ("-1 for augmented").
const AugmentedID = -1

// Production is a single grammar rewrite rule A → X1...Xn, with a stable,
// dense id (≥0 for user productions, -1 for the augmented production) and a
// builder handle naming which AST-construction rule its reduction invokes.
// The right side is nil/empty only for an epsilon production; this grammar
// has none, but the type does not forbid it.
type Production struct {
	ID      int
	Left    token.Symbol
	Right   []token.Symbol
	Builder BuilderKind
	// Op is the operator lexeme a BuildBinaryOp/BuildUnaryOp production
	// attaches to its result node (e.g. "+", "=="); empty for every other
	// builder kind.
	Op string
}

// Equal compares productions by id, per spec.md §3 ("Equality by id").
func (p Production) Equal(o Production) bool { return p.ID == o.ID }

func (p Production) String() string {
	s := fmt.Sprintf("%s ->", p.Left)
	if len(p.Right) == 0 {
		return s + " " + token.EPSILON.String()
	}
	for _, sym := range p.Right {
		s += " " + sym.String()
	}
	return s
}

// Grammar is the immutable, fully-validated description of the expression
// language: its productions, its terminal/non-terminal sets, its start
// symbol, and the augmented start production.
type Grammar struct {
	productions []Production
	augmented   Production
	start       token.Symbol
	terminals   map[token.Symbol]bool
	nonTerms    map[token.Symbol]bool
	byLeft      map[token.Symbol][]Production
}

// Productions returns every user production (excludes the augmented one),
// in ascending id order.
func (g *Grammar) Productions() []Production { return g.productions }

// GetProduction looks a production up by id; AugmentedID returns the
// augmented start production.
func (g *Grammar) GetProduction(id int) (Production, bool) {
	if id == AugmentedID {
		return g.augmented, true
	}
	if id < 0 || id >= len(g.productions) {
		return Production{}, false
	}
	return g.productions[id], true
}

// ProductionsFor returns every production whose left side is nt, in id
// order.
func (g *Grammar) ProductionsFor(nt token.Symbol) []Production {
	return g.byLeft[nt]
}

// StartSymbol returns the grammar's (non-augmented) start symbol.
func (g *Grammar) StartSymbol() token.Symbol { return g.start }

// AugmentedProduction returns the synthetic START → EXPR DOLLAR production.
func (g *Grammar) AugmentedProduction() Production { return g.augmented }

// Terminals returns the set of terminals this grammar references (DOLLAR
// and EPSILON included), as a membership map.
func (g *Grammar) Terminals() map[token.Symbol]bool { return g.terminals }

// NonTerminals returns the set of non-terminals this grammar defines, as a
// membership map.
func (g *Grammar) NonTerminals() map[token.Symbol]bool { return g.nonTerms }

// IsValid re-checks every structural invariant spec.md §3 demands of a
// Grammar: disjoint terminal/non-terminal sets, well-formed productions,
// dense unique ids, and an augmented production of the required shape.
func (g *Grammar) IsValid() error {
	return validate(g.productions, g.augmented, g.start, g.terminals, g.nonTerms)
}

func validate(prods []Production, aug Production, start token.Symbol, terms, nts map[token.Symbol]bool) error {
	for t := range terms {
		if nts[t] {
			return exprerr.NewGrammarError(fmt.Sprintf("symbol %s is both a terminal and a non-terminal", t))
		}
	}
	if !nts[start] {
		return exprerr.NewGrammarError(fmt.Sprintf("start symbol %s is not a non-terminal", start))
	}
	seen := map[int]bool{}
	for i, p := range prods {
		if p.ID != i {
			return exprerr.NewGrammarError(fmt.Sprintf("production id %d is not dense (expected %d)", p.ID, i))
		}
		if seen[p.ID] {
			return exprerr.NewGrammarError(fmt.Sprintf("duplicate production id %d", p.ID))
		}
		seen[p.ID] = true
		if !nts[p.Left] {
			return exprerr.NewGrammarError(fmt.Sprintf("production %d's left symbol %s is not a non-terminal", p.ID, p.Left))
		}
		for _, sym := range p.Right {
			if !terms[sym] && !nts[sym] {
				return exprerr.NewGrammarError(fmt.Sprintf("production %d references unknown symbol %s", p.ID, sym))
			}
		}
	}
	if aug.ID != AugmentedID {
		return exprerr.NewGrammarError("augmented production must have id -1")
	}
	if len(aug.Right) != 2 || aug.Right[1] != token.DOLLAR {
		return exprerr.NewGrammarError("augmented production must have form START -> EXPR DOLLAR")
	}
	return nil
}

// builder assembles a Grammar from productions plus the augmented
// production, deriving the terminal/non-terminal sets and the by-left
// index, and validating the result. It mirrors the teacher's
// AddRule/AddTerm-then-Validate pattern collapsed into one constructor
// since this grammar is fixed rather than authored incrementally.
func build(start token.Symbol, prods []Production) (*Grammar, error) {
	terms := map[token.Symbol]bool{}
	nts := map[token.Symbol]bool{}
	byLeft := map[token.Symbol][]Production{}

	nts[start] = true
	for _, p := range prods {
		nts[p.Left] = true
		byLeft[p.Left] = append(byLeft[p.Left], p)
	}
	for _, p := range prods {
		for _, sym := range p.Right {
			if !nts[sym] {
				terms[sym] = true
			}
		}
	}
	terms[token.DOLLAR] = true
	terms[token.EPSILON] = true

	aug := Production{ID: AugmentedID, Left: start, Right: []token.Symbol{token.EXPR, token.DOLLAR}, Builder: BuildStart}

	g := &Grammar{
		productions: prods,
		augmented:   aug,
		start:       start,
		terminals:   terms,
		nonTerms:    nts,
		byLeft:      byLeft,
	}
	if err := g.IsValid(); err != nil {
		return nil, err
	}
	return g, nil
}

// Calculator is the fixed LALR(1)-admissible grammar of spec.md §6, wired up
// once at init and exposed read-only thereafter.
var Calculator *Grammar

func init() {
	g, err := build(token.START, calculatorProductions())
	if err != nil {
		// A malformed fixed grammar is a programming error in this package,
		// not a runtime condition any caller can recover from.
		panic(err)
	}
	Calculator = g
}

func calculatorProductions() []Production {
	mk := func(left token.Symbol, right []token.Symbol, kind BuilderKind, op string) Production {
		return Production{Left: left, Right: right, Builder: kind, Op: op}
	}

	prods := []Production{
		mk(token.EXPR, []token.Symbol{token.EXPR, token.OR, token.AND_EXPR}, BuildBinaryOp, "||"),         // 0
		mk(token.EXPR, []token.Symbol{token.AND_EXPR}, BuildIdentity, ""),                                 // 1
		mk(token.AND_EXPR, []token.Symbol{token.AND_EXPR, token.AND, token.COMP_EXPR}, BuildBinaryOp, "&&"),// 2
		mk(token.AND_EXPR, []token.Symbol{token.COMP_EXPR}, BuildIdentity, ""),                             // 3
		mk(token.COMP_EXPR, []token.Symbol{token.COMP_EXPR, token.EQUAL, token.ARITH_EXPR}, BuildBinaryOp, "=="),         // 4
		mk(token.COMP_EXPR, []token.Symbol{token.COMP_EXPR, token.NOT_EQUAL, token.ARITH_EXPR}, BuildBinaryOp, "!="),    // 5
		mk(token.COMP_EXPR, []token.Symbol{token.COMP_EXPR, token.LESS, token.ARITH_EXPR}, BuildBinaryOp, "<"),          // 6
		mk(token.COMP_EXPR, []token.Symbol{token.COMP_EXPR, token.LESS_EQUAL, token.ARITH_EXPR}, BuildBinaryOp, "<="),   // 7
		mk(token.COMP_EXPR, []token.Symbol{token.COMP_EXPR, token.GREATER, token.ARITH_EXPR}, BuildBinaryOp, ">"),       // 8
		mk(token.COMP_EXPR, []token.Symbol{token.COMP_EXPR, token.GREATER_EQUAL, token.ARITH_EXPR}, BuildBinaryOp, ">="),// 9
		mk(token.COMP_EXPR, []token.Symbol{token.ARITH_EXPR}, BuildIdentity, ""),                                       // 10
		mk(token.ARITH_EXPR, []token.Symbol{token.ARITH_EXPR, token.PLUS, token.TERM}, BuildBinaryOp, "+"),             // 11
		mk(token.ARITH_EXPR, []token.Symbol{token.ARITH_EXPR, token.MINUS, token.TERM}, BuildBinaryOp, "-"),            // 12
		mk(token.ARITH_EXPR, []token.Symbol{token.TERM}, BuildIdentity, ""),                                            // 13
		mk(token.TERM, []token.Symbol{token.TERM, token.MULTIPLY, token.FACTOR}, BuildBinaryOp, "*"),                   // 14
		mk(token.TERM, []token.Symbol{token.TERM, token.DIVIDE, token.FACTOR}, BuildBinaryOp, "/"),                     // 15
		mk(token.TERM, []token.Symbol{token.TERM, token.MODULO, token.FACTOR}, BuildBinaryOp, "%"),                     // 16
		mk(token.TERM, []token.Symbol{token.FACTOR}, BuildIdentity, ""),                                                // 17
		mk(token.FACTOR, []token.Symbol{token.PRIMARY, token.POWER, token.FACTOR}, BuildBinaryOp, "^"),                 // 18
		mk(token.FACTOR, []token.Symbol{token.PRIMARY}, BuildIdentity, ""),                                             // 19
		mk(token.PRIMARY, []token.Symbol{token.LEFT_PAREN, token.EXPR, token.RIGHT_PAREN}, BuildParenthesized, ""),     // 20
		mk(token.PRIMARY, []token.Symbol{token.MINUS, token.PRIMARY}, BuildUnaryOp, "-"),                               // 21
		mk(token.PRIMARY, []token.Symbol{token.PLUS, token.PRIMARY}, BuildUnaryOp, "+"),                                // 22
		mk(token.PRIMARY, []token.Symbol{token.NOT, token.PRIMARY}, BuildUnaryOp, "!"),                                 // 23
		mk(token.PRIMARY, []token.Symbol{token.NUMBER}, BuildNumber, ""),                                               // 24
		mk(token.PRIMARY, []token.Symbol{token.VARIABLE}, BuildVariable, ""),                                           // 25
		mk(token.PRIMARY, []token.Symbol{token.IDENTIFIER}, BuildVariable, ""),                                         // 26
		mk(token.PRIMARY, []token.Symbol{token.TRUE}, BuildBooleanTrue, ""),                                            // 27
		mk(token.PRIMARY, []token.Symbol{token.FALSE}, BuildBooleanFalse, ""),                                          // 28
		mk(token.PRIMARY, []token.Symbol{token.IDENTIFIER, token.LEFT_PAREN, token.ARGS, token.RIGHT_PAREN}, BuildFunctionCall, ""),      // 29
		mk(token.PRIMARY, []token.Symbol{token.IDENTIFIER, token.LEFT_PAREN, token.RIGHT_PAREN}, BuildFunctionCallEmpty, ""),              // 30
		mk(token.PRIMARY, []token.Symbol{token.IF, token.LEFT_PAREN, token.EXPR, token.COMMA, token.EXPR, token.COMMA, token.EXPR, token.RIGHT_PAREN}, BuildIf, ""), // 31
		mk(token.ARGS, []token.Symbol{token.EXPR}, BuildArgsSingle, ""),                                                // 32
		mk(token.ARGS, []token.Symbol{token.ARGS, token.COMMA, token.EXPR}, BuildArgsMultiple, ""),                     // 33
	}
	for i := range prods {
		prods[i].ID = i
	}
	return prods
}
