// Package exprlang is the public entry point of the calculator expression
// compiler front-end: lexing, LALR(1) table construction, and parsing to an
// AST, wired together the way the teacher's ictiobus.Frontend[E] wires
// lexer/parser/SDD into one Analyze call — generalized here from a
// generic multi-grammar front-end down to this one fixed grammar, and from
// a parse-tree-plus-SDD-evaluation pipeline to a parser that builds the AST
// directly during reduction (internal/builder).
package exprlang

import (
	"github.com/gammazero/workerpool"

	"github.com/admitcalc/exprlang/internal/ast"
	"github.com/admitcalc/exprlang/internal/conflict"
	"github.com/admitcalc/exprlang/internal/exprerr"
	"github.com/admitcalc/exprlang/internal/grammar"
	"github.com/admitcalc/exprlang/internal/lex"
	"github.com/admitcalc/exprlang/internal/limits"
	"github.com/admitcalc/exprlang/internal/parse"
	"github.com/admitcalc/exprlang/internal/parsetable"
	"github.com/admitcalc/exprlang/internal/token"
)

// Re-exported names so callers need only import this one package for the
// common path; advanced use (custom grammars, direct table inspection,
// streaming) still reaches into the internal packages.
type (
	Node     = ast.Node
	Token    = token.Token
	Limits   = limits.Limits
	Table    = parsetable.ParsingTable
	Cache    = parsetable.Cache
	Options  = parse.Options
	Result   = parse.Result
	LexError = exprerr.LexError
)

// DefaultLimits returns the hardcoded resource bounds used when a caller
// has no config file to load (see internal/config for TOML-backed
// limits).
func DefaultLimits() Limits { return limits.Default() }

// NewCache returns an empty parse-table cache keyed by grammar structural
// hash, for callers that compile the same grammar repeatedly (e.g. one
// cache shared across many requests with different Limits).
func NewCache() *Cache { return parsetable.NewCache() }

// Compile builds the LALR(1) parsing table for the calculator grammar,
// using the default operator-precedence/associativity rules
// (internal/conflict.DefaultRules). cache may be nil for an uncached,
// one-shot compile.
func Compile(lim Limits, cache *Cache) (*Table, error) {
	resolver := conflict.New(conflict.DefaultRules)
	if cache != nil {
		return cache.Compile(grammar.Calculator, resolver, lim)
	}
	return parsetable.Compile(grammar.Calculator, resolver, lim)
}

// Lex tokenizes source, returning every token (always DOLLAR-terminated)
// along with any lexical errors encountered; lexing never stops early on
// error, matching internal/lex.Tokenize's best-effort contract.
func Lex(source string) ([]Token, []*LexError) {
	return lex.Tokenize(source)
}

// Parse compiles (or reuses, via cache) a table, lexes source, and parses
// it to a single AST root. It is the one-call path for a caller that
// doesn't need to reuse a table across many inputs; ParseMany is the
// better fit for that.
func Parse(source string, lim Limits, cache *Cache, opts Options) (Node, error) {
	table, err := Compile(lim, cache)
	if err != nil {
		return nil, err
	}
	toks, lexErrs := Lex(source)
	if len(lexErrs) > 0 {
		return nil, lexErrs[0]
	}
	res, err := parse.Parse(table, toks, lim, opts)
	if err != nil {
		return nil, err
	}
	return res.AST, nil
}

// ParseWithTable parses source against an already-compiled table, skipping
// the compile step entirely; this is the hot path for a server handling
// many requests against one fixed grammar and one Limits configuration.
func ParseWithTable(table *Table, source string, lim Limits, opts Options) (*Result, error) {
	toks, lexErrs := Lex(source)
	if len(lexErrs) > 0 {
		return nil, lexErrs[0]
	}
	return parse.Parse(table, toks, lim, opts)
}

// ParseStreaming is ParseWithTable's streaming-API counterpart: onProgress
// is invoked at token-batch boundaries as spec'd by internal/parse.
func ParseStreaming(table *Table, source string, lim Limits, opts Options, onProgress func(parse.Progress)) (*Result, error) {
	toks, lexErrs := Lex(source)
	if len(lexErrs) > 0 {
		return nil, lexErrs[0]
	}
	stream := &tokenSlice{toks: toks}
	return parse.ParseStreaming(table, stream, lim, opts, onProgress)
}

type tokenSlice struct {
	toks []Token
	i    int
}

func (s *tokenSlice) Next() (Token, bool) {
	if s.i >= len(s.toks) {
		return Token{}, false
	}
	t := s.toks[s.i]
	s.i++
	return t, true
}

// ParseResult is one input's outcome from ParseMany.
type ParseResult struct {
	Index  int
	Source string
	AST    Node
	Err    error
}

// ParseMany parses every source against the same compiled table
// concurrently, bounded by lim.MaxConcurrentParses, using
// gammazero/workerpool (grounded in the teacher pack's
// pkg/sync.PoolOfWorkerpool adapter). Results are returned in the same
// order as sources regardless of completion order, so this call's output
// is deterministic even though its execution is not.
func ParseMany(table *Table, sources []string, lim Limits, opts Options) []ParseResult {
	results := make([]ParseResult, len(sources))

	maxWorkers := lim.MaxConcurrentParses
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	wp := workerpool.New(maxWorkers)

	for i, src := range sources {
		i, src := i, src
		wp.Submit(func() {
			res, err := ParseWithTable(table, src, lim, opts)
			r := ParseResult{Index: i, Source: src}
			if err != nil {
				r.Err = err
			} else {
				r.AST = res.AST
			}
			results[i] = r
		})
	}
	wp.StopWait()

	return results
}

// String renders a compiled Table as a human-readable ASCII grid
// (internal/parsetable.ParsingTable.String).
func String(table *Table) string { return table.String() }
