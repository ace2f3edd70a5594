package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/admitcalc/exprlang/internal/ast"
	"github.com/admitcalc/exprlang/internal/grammar"
	"github.com/admitcalc/exprlang/internal/token"
)

func tok(kind token.Symbol, lexeme string) StackEntry {
	return FromToken(token.Token{Kind: kind, Lexeme: lexeme})
}

func node(n ast.Node) StackEntry { return FromNode(n) }

func TestBuild_Number(t *testing.T) {
	p := grammar.Production{ID: 24, Builder: grammar.BuildNumber, Right: []token.Symbol{token.NUMBER}}
	got := Build(p, []StackEntry{tok(token.NUMBER, "3.5")})
	assert.True(t, got.Equal(ast.NewNumber(3.5)))
}

func TestBuild_Variable(t *testing.T) {
	p := grammar.Production{ID: 26, Builder: grammar.BuildVariable, Right: []token.Symbol{token.IDENTIFIER}}
	got := Build(p, []StackEntry{tok(token.IDENTIFIER, "a")})
	assert.Equal(t, "a", got.AsVariableNode().Name)
}

func TestBuild_BinaryOp(t *testing.T) {
	p := grammar.Production{ID: 11, Builder: grammar.BuildBinaryOp, Op: "+", Right: []token.Symbol{token.ARITH_EXPR, token.PLUS, token.TERM}}
	got := Build(p, []StackEntry{
		node(ast.NewNumber(1)),
		tok(token.PLUS, "+"),
		node(ast.NewNumber(2)),
	})
	assert.True(t, got.Equal(ast.NewBinaryOp("+", ast.NewNumber(1), ast.NewNumber(2))))
}

func TestBuild_UnaryOp(t *testing.T) {
	p := grammar.Production{ID: 21, Builder: grammar.BuildUnaryOp, Op: "-", Right: []token.Symbol{token.MINUS, token.PRIMARY}}
	got := Build(p, []StackEntry{tok(token.MINUS, "-"), node(ast.NewVariable("a"))})
	assert.True(t, got.Equal(ast.NewUnaryOp("-", ast.NewVariable("a"))))
}

func TestBuild_FunctionCallEmpty(t *testing.T) {
	p := grammar.Production{ID: 30, Builder: grammar.BuildFunctionCallEmpty, Right: []token.Symbol{token.IDENTIFIER, token.LEFT_PAREN, token.RIGHT_PAREN}}
	got := Build(p, []StackEntry{
		tok(token.IDENTIFIER, "rand"),
		tok(token.LEFT_PAREN, "("),
		tok(token.RIGHT_PAREN, ")"),
	})
	assert.True(t, got.Equal(ast.NewFunctionCall("rand", nil)))
}

func TestBuild_FunctionCallWithArgs(t *testing.T) {
	args := grammar.Production{ID: 32, Builder: grammar.BuildArgsSingle, Right: []token.Symbol{token.EXPR}}
	argsNode := Build(args, []StackEntry{node(ast.NewNumber(1))})

	multi := grammar.Production{ID: 33, Builder: grammar.BuildArgsMultiple, Right: []token.Symbol{token.ARGS, token.COMMA, token.EXPR}}
	argsNode = Build(multi, []StackEntry{node(argsNode), tok(token.COMMA, ","), node(ast.NewNumber(2))})

	call := grammar.Production{ID: 29, Builder: grammar.BuildFunctionCall, Right: []token.Symbol{token.IDENTIFIER, token.LEFT_PAREN, token.ARGS, token.RIGHT_PAREN}}
	got := Build(call, []StackEntry{
		tok(token.IDENTIFIER, "max"),
		tok(token.LEFT_PAREN, "("),
		node(argsNode),
		tok(token.RIGHT_PAREN, ")"),
	})
	assert.True(t, got.Equal(ast.NewFunctionCall("max", []ast.Node{ast.NewNumber(1), ast.NewNumber(2)})))
}

func TestBuild_If(t *testing.T) {
	p := grammar.Production{ID: 31, Builder: grammar.BuildIf, Right: []token.Symbol{
		token.IF, token.LEFT_PAREN, token.EXPR, token.COMMA, token.EXPR, token.COMMA, token.EXPR, token.RIGHT_PAREN,
	}}
	cond := ast.NewBinaryOp(">", ast.NewVariable("a"), ast.NewNumber(0))
	got := Build(p, []StackEntry{
		tok(token.IF, "if"), tok(token.LEFT_PAREN, "("),
		node(cond), tok(token.COMMA, ","),
		node(ast.NewVariable("a")), tok(token.COMMA, ","),
		node(ast.NewUnaryOp("-", ast.NewVariable("a"))), tok(token.RIGHT_PAREN, ")"),
	})
	assert.True(t, got.Equal(ast.NewIf(cond, ast.NewVariable("a"), ast.NewUnaryOp("-", ast.NewVariable("a")))))
}

func TestBuild_WrongArityPanics(t *testing.T) {
	p := grammar.Production{ID: 24, Builder: grammar.BuildNumber, Right: []token.Symbol{token.NUMBER}}
	assert.Panics(t, func() { Build(p, []StackEntry{}) })
}

func TestBuild_TokenWhereNodeExpectedPanics(t *testing.T) {
	p := grammar.Production{ID: 11, Builder: grammar.BuildBinaryOp, Op: "+", Right: []token.Symbol{token.ARITH_EXPR, token.PLUS, token.TERM}}
	assert.Panics(t, func() {
		Build(p, []StackEntry{tok(token.NUMBER, "1"), tok(token.PLUS, "+"), tok(token.NUMBER, "2")})
	})
}
