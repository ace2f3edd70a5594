// Package builder implements the AST-builder protocol of spec.md §4.7: one
// builder per production, invoked by the parser driver with the popped
// stack entries, returning an AST node or passing one through. Builders are
// represented as the grammar package's BuilderKind tag plus the dispatch
// function below (DESIGN NOTES "Object-identity builders"), collapsing the
// teacher's per-production hook functions (tunascript/syntax/hooks.go,
// ast_tmpl.go) into one enum-dispatched function — no reflection, no
// heap-allocated closure per production.
package builder

import (
	"strconv"

	"github.com/admitcalc/exprlang/internal/ast"
	"github.com/admitcalc/exprlang/internal/exprerr"
	"github.com/admitcalc/exprlang/internal/grammar"
	"github.com/admitcalc/exprlang/internal/token"
)

// StackEntry is the tagged-union replacement for the dynamically-typed
// symbol stack (DESIGN NOTES "Dynamic-typed symbol stack"): every entry on
// the parser driver's symbol stack is either a Token (pushed by a shift) or
// a Node (pushed by a reduction).
type StackEntry struct {
	Tok    token.Token
	Node   ast.Node
	IsNode bool
}

// FromToken wraps a shifted token as a stack entry.
func FromToken(t token.Token) StackEntry { return StackEntry{Tok: t} }

// FromNode wraps a reduced AST node as a stack entry.
func FromNode(n ast.Node) StackEntry { return StackEntry{Node: n, IsNode: true} }

// Build invokes the builder p.Builder names with the popped children
// (length always len(p.Right), in left-to-right order), per spec.md §4.7.
// Every path validates child arity and type; a mismatch calls
// exprerr.Raise, which panics with InternalInvariantError, since it can
// only mean the table and grammar have gone out of sync with each other.
func Build(p grammar.Production, children []StackEntry) ast.Node {
	if len(children) != len(p.Right) {
		exprerr.Raise(p.ID, "child count does not match production right-hand side length")
	}

	switch p.Builder {
	case grammar.BuildIdentity:
		return asNode(p, children, 0)

	case grammar.BuildStart:
		// [node] or [node, DOLLAR]
		return asNode(p, children, 0)

	case grammar.BuildParenthesized:
		// [ '(', node, ')' ]
		requireLen(p, children, 3)
		return asNode(p, children, 1)

	case grammar.BuildNumber:
		// [ NUMBER token ]
		requireLen(p, children, 1)
		tok := asToken(p, children, 0)
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			exprerr.Raise(p.ID, "NUMBER token lexeme is not a valid float64: "+tok.Lexeme)
		}
		return ast.NewNumber(v)

	case grammar.BuildVariable:
		// [ IDENTIFIER or VARIABLE token ]
		requireLen(p, children, 1)
		tok := asToken(p, children, 0)
		return ast.NewVariable(tok.Lexeme)

	case grammar.BuildBooleanTrue:
		requireLen(p, children, 1)
		return ast.NewBoolean(true)

	case grammar.BuildBooleanFalse:
		requireLen(p, children, 1)
		return ast.NewBoolean(false)

	case grammar.BuildBinaryOp:
		// [left, op-token, right]
		requireLen(p, children, 3)
		left := asNode(p, children, 0)
		right := asNode(p, children, 2)
		return ast.NewBinaryOp(p.Op, left, right)

	case grammar.BuildUnaryOp:
		// [op-token, operand]
		requireLen(p, children, 2)
		operand := asNode(p, children, 1)
		return ast.NewUnaryOp(p.Op, operand)

	case grammar.BuildFunctionCall:
		// [ IDENT, '(', Args, ')' ]
		requireLen(p, children, 4)
		name := asToken(p, children, 0)
		argsNode := asNode(p, children, 2)
		if argsNode.Type() != ast.Args {
			exprerr.Raise(p.ID, "third child of FunctionCall production is not an Args node")
		}
		return ast.NewFunctionCall(name.Lexeme, argsNode.AsArgsNode().List)

	case grammar.BuildFunctionCallEmpty:
		// [ IDENT, '(', ')' ]
		requireLen(p, children, 3)
		name := asToken(p, children, 0)
		return ast.NewFunctionCall(name.Lexeme, nil)

	case grammar.BuildIf:
		// [ IF, '(', cond, ',', then, ',', else, ')' ]
		requireLen(p, children, 8)
		cond := asNode(p, children, 2)
		then := asNode(p, children, 4)
		els := asNode(p, children, 6)
		return ast.NewIf(cond, then, els)

	case grammar.BuildArgsSingle:
		// [node]
		requireLen(p, children, 1)
		return ast.NewArgs([]ast.Node{asNode(p, children, 0)})

	case grammar.BuildArgsMultiple:
		// [Args, ',', node]
		requireLen(p, children, 3)
		prior := asNode(p, children, 0)
		if prior.Type() != ast.Args {
			exprerr.Raise(p.ID, "first child of ArgsMultiple production is not an Args node")
		}
		list := append(append([]ast.Node{}, prior.AsArgsNode().List...), asNode(p, children, 2))
		if len(list) > ast.MaxFunctionArgs {
			exprerr.Raise(p.ID, "argument list exceeds maximum arity")
		}
		return ast.NewArgs(list)

	default:
		exprerr.Raise(p.ID, "unknown builder kind")
		return nil
	}
}

func requireLen(p grammar.Production, children []StackEntry, n int) {
	if len(children) != n {
		exprerr.Raise(p.ID, "builder expected arity "+strconv.Itoa(n))
	}
}

func asNode(p grammar.Production, children []StackEntry, i int) ast.Node {
	e := children[i]
	if !e.IsNode {
		exprerr.Raise(p.ID, "expected an AST node at child position "+strconv.Itoa(i)+", found a token")
	}
	return e.Node
}

func asToken(p grammar.Production, children []StackEntry, i int) token.Token {
	e := children[i]
	if e.IsNode {
		exprerr.Raise(p.ID, "expected a token at child position "+strconv.Itoa(i)+", found an AST node")
	}
	return e.Tok
}
