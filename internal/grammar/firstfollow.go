package grammar

import (
	"sort"
	"strings"
	"sync"

	"github.com/admitcalc/exprlang/internal/token"
	"github.com/admitcalc/exprlang/internal/util"
)

// SymbolSet is a set of symbols (terminals and/or EPSILON), built on the
// teacher's generic KeySet[E] (internal/util) rather than a hand-rolled
// map[token.Symbol]bool.
type SymbolSet struct {
	util.KeySet[token.Symbol]
}

func newSymbolSet(syms ...token.Symbol) SymbolSet {
	s := SymbolSet{KeySet: util.NewKeySet[token.Symbol]()}
	for _, sym := range syms {
		s.Add(sym)
	}
	return s
}

// addAllExceptEpsilon copies every member of other into s except EPSILON,
// reporting whether s changed.
func (s SymbolSet) addAllExceptEpsilon(other SymbolSet) bool {
	changed := false
	for sym := range other.KeySet {
		if sym == token.EPSILON {
			continue
		}
		if !s.Has(sym) {
			s.Add(sym)
			changed = true
		}
	}
	return changed
}

func (s SymbolSet) add(sym token.Symbol) bool {
	if s.Has(sym) {
		return false
	}
	s.Add(sym)
	return true
}

func (s SymbolSet) has(sym token.Symbol) bool { return s.Has(sym) }

// Sorted returns the set's members in a stable order, for deterministic
// iteration and display.
func (s SymbolSet) Sorted() []token.Symbol {
	out := s.Elements()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s SymbolSet) String() string {
	parts := make([]string, 0, s.Len())
	for _, sym := range s.Sorted() {
		parts = append(parts, sym.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FirstFollow holds the fixed-point FIRST and FOLLOW sets for a Grammar.
type FirstFollow struct {
	first  map[token.Symbol]SymbolSet
	follow map[token.Symbol]SymbolSet
}

// First returns FIRST(sym).
func (ff *FirstFollow) First(sym token.Symbol) SymbolSet { return ff.first[sym] }

// Follow returns FOLLOW(nt).
func (ff *FirstFollow) Follow(nt token.Symbol) SymbolSet { return ff.follow[nt] }

// FirstOfSequence computes FIRST of a symbol sequence: the union of
// FIRST(Xi) minus EPSILON for each Xi while EPSILON is in FIRST(Xi);
// EPSILON is included in the result only if it is in FIRST(Xi) for every i.
func (ff *FirstFollow) FirstOfSequence(seq []token.Symbol) SymbolSet {
	return firstOfSequenceWith(ff.first, seq)
}

var (
	ffCacheMu sync.Mutex
	ffCache   = map[*Grammar]*FirstFollow{}
)

// Compute returns the FIRST/FOLLOW sets for g, a pure function of its
// productions, terminals, non-terminals, and start symbol. Results are
// cached per *Grammar value (a grammar is built once and never mutated, so
// caching by pointer identity is safe). This package-level memoization is
// the only FIRST/FOLLOW cache; internal/parsetable's Cache holds compiled
// tables only.
func Compute(g *Grammar) *FirstFollow {
	ffCacheMu.Lock()
	if cached, ok := ffCache[g]; ok {
		ffCacheMu.Unlock()
		return cached
	}
	ffCacheMu.Unlock()

	ff := compute(g)

	ffCacheMu.Lock()
	ffCache[g] = ff
	ffCacheMu.Unlock()
	return ff
}

func compute(g *Grammar) *FirstFollow {
	first := map[token.Symbol]SymbolSet{}
	for t := range g.Terminals() {
		first[t] = newSymbolSet(t)
	}
	first[token.EPSILON] = newSymbolSet(token.EPSILON)
	for nt := range g.NonTerminals() {
		if _, ok := first[nt]; !ok {
			first[nt] = newSymbolSet()
		}
	}

	allProds := append([]Production{g.AugmentedProduction()}, g.Productions()...)

	for {
		changed := false
		for _, p := range allProds {
			seqFirst := firstOfSequenceWith(first, p.Right)
			if first[p.Left].addAllExceptEpsilon(seqFirst) {
				changed = true
			}
			if len(p.Right) == 0 && first[p.Left].add(token.EPSILON) {
				changed = true
			}
			if len(p.Right) > 0 && seqFirst.has(token.EPSILON) && first[p.Left].add(token.EPSILON) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	ff := &FirstFollow{first: first}

	follow := map[token.Symbol]SymbolSet{}
	for nt := range g.NonTerminals() {
		follow[nt] = newSymbolSet()
	}
	follow[g.StartSymbol()].add(token.DOLLAR)

	for {
		changed := false
		for _, p := range allProds {
			for i, sym := range p.Right {
				if !sym.IsNonTerminal() {
					continue
				}
				beta := p.Right[i+1:]
				betaFirst := firstOfSequenceWith(first, beta)
				if follow[sym].addAllExceptEpsilon(betaFirst) {
					changed = true
				}
				if len(beta) == 0 || betaFirst.has(token.EPSILON) {
					if follow[sym].addAllExceptEpsilon(follow[p.Left]) {
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}
	ff.follow = follow
	return ff
}

func firstOfSequenceWith(first map[token.Symbol]SymbolSet, seq []token.Symbol) SymbolSet {
	result := newSymbolSet()
	allDeriveEpsilon := true
	for _, sym := range seq {
		f := first[sym]
		result.addAllExceptEpsilon(f)
		if !f.has(token.EPSILON) {
			allDeriveEpsilon = false
			break
		}
	}
	if allDeriveEpsilon {
		result.add(token.EPSILON)
	}
	return result
}
