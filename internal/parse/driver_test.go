package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitcalc/exprlang/internal/ast"
	"github.com/admitcalc/exprlang/internal/conflict"
	"github.com/admitcalc/exprlang/internal/exprerr"
	"github.com/admitcalc/exprlang/internal/grammar"
	"github.com/admitcalc/exprlang/internal/lex"
	"github.com/admitcalc/exprlang/internal/limits"
	"github.com/admitcalc/exprlang/internal/parsetable"
)

func compileCalculator(t *testing.T) *parsetable.ParsingTable {
	t.Helper()
	table, err := parsetable.Compile(grammar.Calculator, conflict.New(conflict.DefaultRules), limits.Default())
	require.NoError(t, err)
	return table
}

func parseSource(t *testing.T, table *parsetable.ParsingTable, src string) (ast.Node, error) {
	t.Helper()
	toks, lexErrs := lex.Tokenize(src)
	require.Empty(t, lexErrs)
	res, err := Parse(table, toks, limits.Default(), Options{})
	if err != nil {
		return nil, err
	}
	return res.AST, nil
}

func TestParse_PrecedenceMultiplyBeforePlus(t *testing.T) {
	table := compileCalculator(t)
	got, err := parseSource(t, table, "1 + 2 * 3")
	require.NoError(t, err)
	want := ast.NewBinaryOp("+", ast.NewNumber(1), ast.NewBinaryOp("*", ast.NewNumber(2), ast.NewNumber(3)))
	assert.True(t, want.Equal(got))
}

func TestParse_ParenthesesOverridePrecedence(t *testing.T) {
	table := compileCalculator(t)
	got, err := parseSource(t, table, "(1 + 2) * 3")
	require.NoError(t, err)
	want := ast.NewBinaryOp("*", ast.NewBinaryOp("+", ast.NewNumber(1), ast.NewNumber(2)), ast.NewNumber(3))
	assert.True(t, want.Equal(got))
}

func TestParse_PowerIsRightAssociative(t *testing.T) {
	table := compileCalculator(t)
	got, err := parseSource(t, table, "2 ^ 3 ^ 2")
	require.NoError(t, err)
	want := ast.NewBinaryOp("^", ast.NewNumber(2), ast.NewBinaryOp("^", ast.NewNumber(3), ast.NewNumber(2)))
	assert.True(t, want.Equal(got))
}

// -2^2 parses as (-2)^2, not -(2^2): production 21 (PRIMARY -> MINUS
// PRIMARY) reduces unconditionally before POWER is ever shifted, since
// closure over "MINUS . PRIMARY" never reaches FACTOR -> PRIMARY POWER
// FACTOR. See DESIGN.md Open Question 4.
func TestParse_UnaryMinusBindsTighterThanPower(t *testing.T) {
	table := compileCalculator(t)
	got, err := parseSource(t, table, "-2 ^ 2")
	require.NoError(t, err)
	want := ast.NewBinaryOp("^", ast.NewUnaryOp("-", ast.NewNumber(2)), ast.NewNumber(2))
	assert.True(t, want.Equal(got))
}

func TestParse_IfWithComparisonAndUnaryMinus(t *testing.T) {
	table := compileCalculator(t)
	got, err := parseSource(t, table, "if(a > 0, a, -a)")
	require.NoError(t, err)
	want := ast.NewIf(
		ast.NewBinaryOp(">", ast.NewVariable("a"), ast.NewNumber(0)),
		ast.NewVariable("a"),
		ast.NewUnaryOp("-", ast.NewVariable("a")),
	)
	assert.True(t, want.Equal(got))
}

func TestParse_FunctionCallWithMultipleArgs(t *testing.T) {
	table := compileCalculator(t)
	got, err := parseSource(t, table, "max(1, 2, 3)")
	require.NoError(t, err)
	want := ast.NewFunctionCall("max", []ast.Node{ast.NewNumber(1), ast.NewNumber(2), ast.NewNumber(3)})
	assert.True(t, want.Equal(got))
}

func TestParse_FunctionCallWithNoArgs(t *testing.T) {
	table := compileCalculator(t)
	got, err := parseSource(t, table, "rand()")
	require.NoError(t, err)
	want := ast.NewFunctionCall("rand", nil)
	assert.True(t, want.Equal(got))
}

func TestParse_TrailingOperatorIsSyntaxError(t *testing.T) {
	table := compileCalculator(t)
	_, err := parseSource(t, table, "1 +")
	require.Error(t, err)
	var synErr *exprerr.SyntaxError
	require.ErrorAs(t, err, &synErr)
}

func TestParse_BinaryMinusVsUnaryMinusDisambiguated(t *testing.T) {
	table := compileCalculator(t)
	got, err := parseSource(t, table, "a - -b")
	require.NoError(t, err)
	want := ast.NewBinaryOp("-", ast.NewVariable("a"), ast.NewUnaryOp("-", ast.NewVariable("b")))
	assert.True(t, want.Equal(got))
}

func TestParse_MaxStackDepthExceeded(t *testing.T) {
	table := compileCalculator(t)
	toks, lexErrs := lex.Tokenize("((((((1))))))")
	require.Empty(t, lexErrs)
	lim := limits.Default()
	lim.MaxStackDepth = 2
	_, err := Parse(table, toks, lim, Options{})
	require.Error(t, err)
	var limErr *exprerr.ResourceLimitError
	require.ErrorAs(t, err, &limErr)
}

func TestParse_ErrorRecoverySkipsToNextSyncTokenInArgList(t *testing.T) {
	table := compileCalculator(t)
	toks, lexErrs := lex.Tokenize("max(1, , 3)")
	require.Empty(t, lexErrs)
	res, err := Parse(table, toks, limits.Default(), Options{ErrorRecovery: true})
	require.NotNil(t, res)
	if err != nil {
		assert.NotEmpty(t, res.Diagnostics)
	}
}

func TestParseStreaming_ReportsProgress(t *testing.T) {
	table := compileCalculator(t)
	toks, lexErrs := lex.Tokenize("1 + 2 + 3 + 4 + 5")
	require.Empty(t, lexErrs)

	var calls int
	res, err := ParseStreaming(table, &sliceStream{toks: toks}, limits.Default(), Options{ProgressBatchSize: 2}, func(p Progress) {
		calls++
	})
	require.NoError(t, err)
	assert.NotNil(t, res.AST)
	assert.Greater(t, calls, 0)
}
