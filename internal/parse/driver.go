// Package parse implements the shift/reduce parser driver of spec.md §4.5:
// a state stack and a parallel symbol stack over a token stream, driven by
// a compiled ParsingTable, invoking internal/builder at every reduction.
// Grounded in the teacher's lrParser.Parse (internal/ictiobus/parse/lr.go),
// generalized from a generic-grammar driver with a separate parse-tree
// output to this pipeline's single fixed grammar with AST construction
// wired directly into reductions.
package parse

import (
	"log"

	"github.com/admitcalc/exprlang/internal/action"
	"github.com/admitcalc/exprlang/internal/ast"
	"github.com/admitcalc/exprlang/internal/builder"
	"github.com/admitcalc/exprlang/internal/exprerr"
	"github.com/admitcalc/exprlang/internal/limits"
	"github.com/admitcalc/exprlang/internal/parsetable"
	"github.com/admitcalc/exprlang/internal/token"
)

// syncSet is the panic-mode recovery's synchronizing terminal set, resolved
// in DESIGN.md (Open Question 3): the three terminals that close a
// syntactic construct in this grammar (parenthesized group, argument list,
// input) and so can never themselves appear mid-expression.
var syncSet = map[token.Symbol]bool{
	token.RIGHT_PAREN: true,
	token.COMMA:       true,
	token.DOLLAR:      true,
}

// Options configures one Parse/ParseStreaming call.
type Options struct {
	// ErrorRecovery enables panic-mode recovery (spec.md §4.5's optional
	// mode); default (false) is strict: the first Error action ends
	// parsing.
	ErrorRecovery bool

	// Debug, when true, routes the driver's trace hook to the standard
	// log package, mirroring the teacher's lrParser.trace /
	// notifyTrace* family.
	Debug bool

	// ProgressBatchSize is how many tokens ParseStreaming consumes between
	// onProgress callbacks; 0 means a default of 100.
	ProgressBatchSize int
}

// Progress is the argument passed to a streaming onProgress callback.
type Progress struct {
	TokensConsumed int
	StepCount      int
}

// Result is a successful parse's AST plus any diagnostics accumulated
// under error-recovery mode.
type Result struct {
	AST         ast.Node
	Diagnostics []*exprerr.SyntaxError
}

// TokenStream is the streaming API's token iterator; Next returns
// (token, true) while more tokens remain, (zero, false) once exhausted.
type TokenStream interface {
	Next() (token.Token, bool)
}

type sliceStream struct {
	toks []token.Token
	i    int
}

func (s *sliceStream) Next() (token.Token, bool) {
	if s.i >= len(s.toks) {
		return token.Token{}, false
	}
	t := s.toks[s.i]
	s.i++
	return t, true
}

// Parse runs the batch API: tokens must already include a trailing DOLLAR
// (as internal/lex.Tokenize guarantees).
func Parse(table *parsetable.ParsingTable, tokens []token.Token, lim limits.Limits, opts Options) (*Result, error) {
	if len(tokens) > lim.MaxTokenCount {
		return nil, exprerr.NewResourceLimitError("maxTokenCount", "input exceeds configured maxTokenCount")
	}
	d := newDriver(table, &sliceStream{toks: tokens}, lim, opts, nil)
	return d.run()
}

// ParseStreaming runs the streaming API: semantics are identical to Parse,
// except onProgress is invoked synchronously at ProgressBatchSize-token
// boundaries (spec.md §4.5, §5's suspension-point rule: callbacks must not
// mutate driver state, and this driver never gives them the chance to).
func ParseStreaming(table *parsetable.ParsingTable, stream TokenStream, lim limits.Limits, opts Options, onProgress func(Progress)) (*Result, error) {
	d := newDriver(table, stream, lim, opts, onProgress)
	return d.run()
}

// Reparse is the "incremental reparse" placeholder contract of spec.md
// §4.5: regardless of prev or changeStartIndex, it re-parses tokens fully.
// Documented here rather than silently inlined so a future incremental
// implementation has one obvious call site to improve.
func Reparse(table *parsetable.ParsingTable, prev *Result, changeStartIndex int, tokens []token.Token, lim limits.Limits, opts Options) (*Result, error) {
	_ = prev
	_ = changeStartIndex
	return Parse(table, tokens, lim, opts)
}

type driver struct {
	table      *parsetable.ParsingTable
	stream     TokenStream
	lim        limits.Limits
	opts       Options
	onProgress func(Progress)

	stateStack []int
	symStack   []builder.StackEntry

	cur         token.Token
	curOK       bool
	steps       int
	consumed    int
	diagnostics []*exprerr.SyntaxError
}

func newDriver(table *parsetable.ParsingTable, stream TokenStream, lim limits.Limits, opts Options, onProgress func(Progress)) *driver {
	d := &driver{
		table:      table,
		stream:     stream,
		lim:        lim,
		opts:       opts,
		onProgress: onProgress,
		stateStack: []int{table.Initial()},
	}
	d.advance()
	return d
}

func (d *driver) trace(msg string) {
	if d.opts.Debug {
		log.Printf("parse: %s", msg)
	}
}

func (d *driver) advance() {
	d.cur, d.curOK = d.stream.Next()
	if d.curOK {
		d.consumed++
	}
	if d.onProgress != nil {
		batch := d.opts.ProgressBatchSize
		if batch <= 0 {
			batch = 100
		}
		if d.consumed%batch == 0 {
			d.onProgress(Progress{TokensConsumed: d.consumed, StepCount: d.steps})
		}
	}
}

func (d *driver) topState() int { return d.stateStack[len(d.stateStack)-1] }

func (d *driver) curKind() token.Symbol {
	if !d.curOK {
		return token.DOLLAR
	}
	return d.cur.Kind
}

// run drives the shift/reduce loop (spec.md §4.5): Shift pushes token and
// target state; Reduce pops |right| entries from both stacks, invokes the
// production's builder, pushes the result, and follows GOTO; Accept
// returns the symbol stack's top as the AST root; Error invokes recovery
// or fails.
func (d *driver) run() (*Result, error) {
	for {
		d.steps++
		if d.steps > d.lim.MaxParsingSteps {
			return nil, exprerr.NewResourceLimitError("maxParsingSteps", "parser exceeded configured maxParsingSteps")
		}
		if len(d.stateStack) > d.lim.MaxStackDepth {
			return nil, exprerr.NewResourceLimitError("maxStackDepth", "parser exceeded configured maxStackDepth")
		}
		if d.consumed > d.lim.MaxTokenCount {
			return nil, exprerr.NewResourceLimitError("maxTokenCount", "input exceeds configured maxTokenCount")
		}

		s := d.topState()
		t := d.curKind()
		act, ok := d.table.Action(s, t)
		if !ok {
			synErr := exprerr.NewSyntaxError(d.currentToken(), s, d.table.ExpectedTerminals(s))
			if !d.opts.ErrorRecovery {
				return nil, synErr
			}
			if !d.recover(synErr) {
				return &Result{Diagnostics: d.diagnostics}, synErr
			}
			continue
		}

		switch act.Kind {
		case action.Shift:
			d.trace("shift to state " + itoa(act.State))
			d.symStack = append(d.symStack, builder.FromToken(d.currentToken()))
			d.stateStack = append(d.stateStack, act.State)
			d.advance()

		case action.Reduce:
			d.trace("reduce by " + act.Production.String())
			k := len(act.Production.Right)
			children := append([]builder.StackEntry{}, d.symStack[len(d.symStack)-k:]...)
			d.symStack = d.symStack[:len(d.symStack)-k]
			d.stateStack = d.stateStack[:len(d.stateStack)-k]

			// Only ARGS -> ARGS COMMA EXPR has an Args node as its first child.
			if k > 0 && children[0].IsNode && children[0].Node.Type() == ast.Args &&
				len(children[0].Node.AsArgsNode().List) >= ast.MaxFunctionArgs {
				return nil, exprerr.NewResourceLimitError("maxFunctionArgs", "function call exceeds the maximum number of arguments")
			}

			result := builder.Build(act.Production, children)
			d.symStack = append(d.symStack, builder.FromNode(result))

			gotoState, ok := d.table.Goto(d.topState(), act.Production.Left)
			if !ok {
				exprerr.Raise(act.Production.ID, "no GOTO entry for reduced non-terminal in current state")
			}
			d.stateStack = append(d.stateStack, gotoState)

		case action.Accept:
			d.trace("accept")
			top := d.symStack[len(d.symStack)-1]
			return &Result{AST: top.Node, Diagnostics: d.diagnostics}, nil

		case action.Error:
			return nil, exprerr.NewSyntaxError(d.currentToken(), s, nil)
		}
	}
}

func (d *driver) currentToken() token.Token {
	if d.curOK {
		return d.cur
	}
	return token.Token{Kind: token.DOLLAR}
}

// recover implements panic-mode recovery to syncSet, per DESIGN.md's
// resolution of Open Question 3. It returns false if recovery could not
// resynchronize before input was exhausted.
func (d *driver) recover(first *exprerr.SyntaxError) bool {
	d.diagnostics = append(d.diagnostics, first)

	for {
		for !syncSet[d.curKind()] {
			if !d.curOK {
				break
			}
			d.advance()
		}

		if d.curKind() == token.DOLLAR {
			return false
		}

		for len(d.stateStack) > 1 {
			if _, ok := d.table.Action(d.topState(), d.curKind()); ok {
				return true
			}
			d.stateStack = d.stateStack[:len(d.stateStack)-1]
			if len(d.symStack) > 0 {
				d.symStack = d.symStack[:len(d.symStack)-1]
			}
		}

		// Exhausted the stack without finding a usable state; discard this
		// sync token too and keep scanning for the next one.
		d.advance()
		if !d.curOK {
			return false
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
