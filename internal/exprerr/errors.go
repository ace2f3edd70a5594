// Package exprerr implements the error taxonomy of the expression pipeline:
// typed, wrapped, introspectable errors rather than the exceptions-as-
// control-flow style of the source this pipeline was modeled on. Every kind
// except InternalInvariantError is an ordinary returned error value; that one
// remains an unconditional panic, since it signals the table and grammar
// have gone out of sync with each other, a programmer error rather than a
// bad-input error.
package exprerr

import (
	"fmt"

	"github.com/admitcalc/exprlang/internal/token"
)

// Code is a stable, machine-checkable error identifier.
type Code string

const (
	CodeLex           Code = "LEX_ERROR"
	CodeGrammar       Code = "GRAMMAR_ERROR"
	CodeTableBuild    Code = "TABLE_BUILD_ERROR"
	CodeSyntax        Code = "SYNTAX_ERROR"
	CodeResourceLimit Code = "RESOURCE_LIMIT_ERROR"
)

// baseError is the shared shape behind every typed error in this package:
// a stable code, a human message, an optional source position, and an
// optional wrapped cause.
type baseError struct {
	code    Code
	msg     string
	pos     *token.Position
	wrapped error
}

func (e *baseError) Error() string {
	if e.pos != nil {
		return fmt.Sprintf("%s: %s (at %s)", e.code, e.msg, e.pos)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

func (e *baseError) Unwrap() error { return e.wrapped }

func (e *baseError) Code() string { return string(e.code) }

// LexError reports one lexical problem: an invalid character, a malformed
// number literal, or an overlong identifier.
type LexError struct {
	*baseError
}

// NewLexError builds a LexError with a source position.
func NewLexError(msg string, pos token.Position) *LexError {
	return &LexError{&baseError{code: CodeLex, msg: msg, pos: &pos}}
}

// GrammarError reports that a declared Grammar is malformed: non-unique
// production ids, a right-hand-side symbol that is neither a known terminal
// nor a known non-terminal, or a start symbol that is not a non-terminal.
type GrammarError struct {
	*baseError
}

// NewGrammarError builds a GrammarError.
func NewGrammarError(msg string) *GrammarError {
	return &GrammarError{&baseError{code: CodeGrammar, msg: msg}}
}

// TableBuildError reports that LALR(1) state construction failed: it did
// not terminate within the configured limits, or a conflict survived
// resolution.
type TableBuildError struct {
	*baseError
}

// NewTableBuildError builds a TableBuildError.
func NewTableBuildError(msg string) *TableBuildError {
	return &TableBuildError{&baseError{code: CodeTableBuild, msg: msg}}
}

// WrapTableBuildError wraps an existing error (e.g. a GrammarError found
// mid-build) as a TableBuildError, preserving it for errors.As/errors.Is.
func WrapTableBuildError(msg string, cause error) *TableBuildError {
	return &TableBuildError{&baseError{code: CodeTableBuild, msg: msg, wrapped: cause}}
}

// SyntaxError reports that the parser encountered a token with no matching
// ACTION-table entry.
type SyntaxError struct {
	*baseError
	StateID  int
	Offender token.Token
	Expected []token.Symbol
}

// NewSyntaxError builds a SyntaxError carrying the offending token, the
// driver's state at the time, and the set of terminals that would have
// been accepted instead.
func NewSyntaxError(offender token.Token, stateID int, expected []token.Symbol) *SyntaxError {
	msg := fmt.Sprintf("unexpected %s", offender.Kind)
	pos := offender.Position
	return &SyntaxError{
		baseError: &baseError{code: CodeSyntax, msg: msg, pos: &pos},
		StateID:   stateID,
		Offender:  offender,
		Expected:  expected,
	}
}

// ExpectedSymbols returns the terminals that would have been accepted in
// place of the offending token.
func (e *SyntaxError) ExpectedSymbols() []token.Symbol { return e.Expected }

// ResourceLimitError reports that a parse exceeded maxTokenCount,
// maxStackDepth, maxParsingSteps, or the function-call argument bound.
// Table-construction limits are reported as TableBuildError instead.
type ResourceLimitError struct {
	*baseError
	Limit string
}

// NewResourceLimitError builds a ResourceLimitError naming which limit was
// exceeded.
func NewResourceLimitError(limit, msg string) *ResourceLimitError {
	return &ResourceLimitError{baseError: &baseError{code: CodeResourceLimit, msg: msg}, Limit: limit}
}

// InternalInvariantError indicates an AST builder received children of a
// shape its production cannot produce — table/grammar desync. It is never
// returned; Raise always panics, matching spec.md's directive that this
// kind is unconditionally fatal.
type InternalInvariantError struct {
	Production int
	Detail     string
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated in production %d: %s", e.Production, e.Detail)
}

// Raise panics with an InternalInvariantError. Builders call this instead of
// returning an error because a shape mismatch here can only mean the table
// and grammar have gone out of sync with each other.
func Raise(production int, detail string) {
	panic(&InternalInvariantError{Production: production, Detail: detail})
}
