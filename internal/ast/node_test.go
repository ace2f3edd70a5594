package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberNode_Equality(t *testing.T) {
	assert.True(t, NewNumber(1.0).Equal(NewNumber(1.0)))
	assert.False(t, NewNumber(1.0).Equal(NewNumber(2.0)))
}

func TestBinaryOpNode_DepthAndNodeCount(t *testing.T) {
	n := NewBinaryOp("+", NewNumber(1), NewBinaryOp("*", NewNumber(2), NewNumber(3)))
	assert.Equal(t, 3, n.Depth())
	assert.Equal(t, 5, n.NodeCount())
}

func TestBinaryOpNode_StructuralEquality(t *testing.T) {
	a := NewBinaryOp("+", NewNumber(1), NewNumber(2))
	b := NewBinaryOp("+", NewNumber(1), NewNumber(2))
	c := NewBinaryOp("-", NewNumber(1), NewNumber(2))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestVariableNode_VariablesReturnsFreeVariables(t *testing.T) {
	n := NewBinaryOp(">", NewVariable("a"), NewNumber(0))
	vars := n.Variables()
	assert.Equal(t, []string{"a"}, SortedVariables(vars))
}

func TestIfNode_CollectsVariablesFromAllThreeBranches(t *testing.T) {
	n := NewIf(
		NewBinaryOp(">", NewVariable("a"), NewNumber(0)),
		NewVariable("a"),
		NewUnaryOp("-", NewVariable("a")),
	)
	assert.Equal(t, []string{"a"}, SortedVariables(n.Variables()))
}

func TestFunctionCallNode_ArgsDoNotLeakIntoFreeVariablesAsFunctionName(t *testing.T) {
	n := NewFunctionCall("max", []Node{NewVariable("x"), NewNumber(2)})
	assert.Equal(t, []string{"x"}, SortedVariables(n.Variables()))
}

func TestFunctionCallNode_PanicsOverMaxArity(t *testing.T) {
	args := make([]Node, MaxFunctionArgs+1)
	for i := range args {
		args[i] = NewNumber(float64(i))
	}
	assert.Panics(t, func() { NewFunctionCall("f", args) })
}

func TestNode_CopyProducesStructurallyEqualButIndependentTree(t *testing.T) {
	orig := NewBinaryOp("+", NewVariable("a"), NewNumber(1))
	cp := orig.Copy()
	assert.True(t, orig.Equal(cp))

	cp.AsBinaryOpNode().Left = NewVariable("b")
	assert.False(t, orig.Equal(cp))
}

func TestNode_AsWrongTypePanics(t *testing.T) {
	var n Node = NewNumber(1)
	assert.Panics(t, func() { n.AsBooleanNode() })
}

func TestArgsNode_StringJoinsWithComma(t *testing.T) {
	n := NewArgs([]Node{NewNumber(1), NewNumber(2), NewNumber(3)})
	assert.Equal(t, "1, 2, 3", n.String())
}
