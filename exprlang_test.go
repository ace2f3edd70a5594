package exprlang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitcalc/exprlang/internal/ast"
	"github.com/admitcalc/exprlang/internal/parse"
)

func TestParse_ArithmeticPrecedence(t *testing.T) {
	got, err := Parse("1 + 2 * 3", DefaultLimits(), nil, Options{})
	require.NoError(t, err)
	want := ast.NewBinaryOp("+", ast.NewNumber(1), ast.NewBinaryOp("*", ast.NewNumber(2), ast.NewNumber(3)))
	assert.True(t, want.Equal(got))
}

func TestParse_IfAndFunctionCalls(t *testing.T) {
	got, err := Parse("if(max(1, 2) > 1, true, false)", DefaultLimits(), nil, Options{})
	require.NoError(t, err)
	want := ast.NewIf(
		ast.NewBinaryOp(">", ast.NewFunctionCall("max", []ast.Node{ast.NewNumber(1), ast.NewNumber(2)}), ast.NewNumber(1)),
		ast.NewBoolean(true),
		ast.NewBoolean(false),
	)
	assert.True(t, want.Equal(got))
}

func TestParse_TrailingOperatorFails(t *testing.T) {
	_, err := Parse("1 +", DefaultLimits(), nil, Options{})
	assert.Error(t, err)
}

func TestCompile_CacheHitsOnRepeatedCompile(t *testing.T) {
	cache := NewCache()
	_, err := Compile(DefaultLimits(), cache)
	require.NoError(t, err)
	_, err = Compile(DefaultLimits(), cache)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Stats.Hits)
	assert.Equal(t, 1, cache.Stats.Misses)
}

func TestParseMany_PreservesInputOrderRegardlessOfCompletionOrder(t *testing.T) {
	table, err := Compile(DefaultLimits(), nil)
	require.NoError(t, err)

	sources := []string{"1 + 1", "2 * 2", "1 +", "max(1, 2)", "rand()"}
	lim := DefaultLimits()
	lim.MaxConcurrentParses = 3

	results := ParseMany(table, sources, lim, Options{})
	require.Len(t, results, len(sources))
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, sources[i], r.Source)
	}
	assert.NoError(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Error(t, results[2].Err)
	assert.NoError(t, results[3].Err)
	assert.NoError(t, results[4].Err)
}

func TestParseStreaming_EndToEnd(t *testing.T) {
	table, err := Compile(DefaultLimits(), nil)
	require.NoError(t, err)

	var progressCalls int
	res, err := ParseStreaming(table, "1 + 2 + 3 + 4 + 5 + 6", DefaultLimits(), Options{ProgressBatchSize: 2}, func(p parse.Progress) {
		progressCalls++
	})
	require.NoError(t, err)
	assert.NotNil(t, res.AST)
	assert.Greater(t, progressCalls, 0)
}
