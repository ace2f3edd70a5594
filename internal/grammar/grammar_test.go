package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/admitcalc/exprlang/internal/token"
)

func TestCalculatorGrammar_IsValid(t *testing.T) {
	assert.NoError(t, Calculator.IsValid())
}

func TestCalculatorGrammar_ProductionIDsAreDenseAndOrdered(t *testing.T) {
	for i, p := range Calculator.Productions() {
		assert.Equal(t, i, p.ID)
	}
}

func TestCalculatorGrammar_AugmentedProductionShape(t *testing.T) {
	aug := Calculator.AugmentedProduction()
	assert.Equal(t, AugmentedID, aug.ID)
	assert.Equal(t, []token.Symbol{token.EXPR, token.DOLLAR}, aug.Right)
}

func TestCalculatorGrammar_TerminalsAndNonTerminalsDisjoint(t *testing.T) {
	for sym := range Calculator.Terminals() {
		assert.False(t, Calculator.NonTerminals()[sym], "symbol %s in both sets", sym)
	}
}

func TestCalculatorGrammar_ProductionsFor(t *testing.T) {
	primaries := Calculator.ProductionsFor(token.PRIMARY)
	assert.NotEmpty(t, primaries)
	for _, p := range primaries {
		assert.Equal(t, token.PRIMARY, p.Left)
	}
}

func TestFirstFollow_FixedPointIsIdempotent(t *testing.T) {
	ff1 := compute(Calculator)
	ff2 := compute(Calculator)
	for sym := range Calculator.NonTerminals() {
		assert.ElementsMatch(t, ff1.First(sym).Sorted(), ff2.First(sym).Sorted(), "FIRST(%s)", sym)
		assert.ElementsMatch(t, ff1.Follow(sym).Sorted(), ff2.Follow(sym).Sorted(), "FOLLOW(%s)", sym)
	}
}

func TestFirstFollow_StartFollowsContainDollar(t *testing.T) {
	ff := compute(Calculator)
	assert.True(t, ff.Follow(Calculator.StartSymbol()).has(token.DOLLAR))
}

func TestFirstFollow_PrimaryFirstContainsLeadingTokens(t *testing.T) {
	ff := compute(Calculator)
	first := ff.First(token.PRIMARY)
	for _, sym := range []token.Symbol{
		token.NUMBER, token.IDENTIFIER, token.LEFT_PAREN, token.MINUS,
		token.PLUS, token.NOT, token.TRUE, token.FALSE, token.IF,
	} {
		assert.True(t, first.has(sym), "FIRST(PRIMARY) should contain %s", sym)
	}
}

func TestItemSet_KernelIdentityIgnoresNonKernelItems(t *testing.T) {
	p0 := Calculator.Productions()[0]
	p1 := Calculator.Productions()[1]
	kernelItem := Item{Production: p0, Dot: 1, Lookahead: token.DOLLAR}
	nonKernelItem := Item{Production: p1, Dot: 0, Lookahead: token.DOLLAR}

	s1 := NewItemSet(kernelItem, nonKernelItem)
	s2 := NewItemSet(kernelItem)
	assert.Equal(t, s1.CoreKernel(), s2.CoreKernel())
}

func TestItemSet_MergeGrowsLookaheads(t *testing.T) {
	p0 := Calculator.Productions()[0]
	s := NewItemSet(Item{Production: p0, Dot: 0, Lookahead: token.DOLLAR})
	other := NewItemSet(Item{Production: p0, Dot: 0, Lookahead: token.RIGHT_PAREN})
	changed := s.Merge(other)
	assert.True(t, changed)
	assert.Equal(t, 2, s.Len())
}
