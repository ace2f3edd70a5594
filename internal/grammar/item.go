package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/admitcalc/exprlang/internal/token"
)

// Item is an LR(1) item: a production, a dot position 0..len(right), and a
// lookahead terminal.
type Item struct {
	Production Production
	Dot        int
	Lookahead  token.Symbol
}

// IsKernel reports whether the item is a kernel item: dot beyond position 0,
// or the initial item of the augmented production.
func (it Item) IsKernel() bool {
	return it.Dot > 0 || it.Production.ID == AugmentedID
}

// IsComplete reports whether the dot has reached the end of the production.
func (it Item) IsComplete() bool {
	return it.Dot == len(it.Production.Right)
}

// NextSymbol returns the symbol immediately after the dot, and whether one
// exists (false when the item is complete).
func (it Item) NextSymbol() (token.Symbol, bool) {
	if it.IsComplete() {
		return 0, false
	}
	return it.Production.Right[it.Dot], true
}

// Advance returns the item with its dot moved one position to the right.
// Callers must only call this when NextSymbol reports a symbol.
func (it Item) Advance() Item {
	return Item{Production: it.Production, Dot: it.Dot + 1, Lookahead: it.Lookahead}
}

// core is the (production id, dot) pair that identifies an item's kernel
// role independent of lookahead; two items with the same core differ only
// in lookahead and are mergeable.
type core struct {
	prodID int
	dot    int
}

func (it Item) core() core { return core{prodID: it.Production.ID, dot: it.Dot} }

// Key is a comparable representation of the item suitable for set
// membership, including lookahead.
type Key struct {
	ProdID    int
	Dot       int
	Lookahead token.Symbol
}

func (it Item) Key() Key {
	return Key{ProdID: it.Production.ID, Dot: it.Dot, Lookahead: it.Lookahead}
}

func (it Item) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s ->", it.Production.Left)
	for i, sym := range it.Production.Right {
		if i == it.Dot {
			b.WriteString(" .")
		}
		fmt.Fprintf(&b, " %s", sym)
	}
	if it.Dot == len(it.Production.Right) {
		b.WriteString(" .")
	}
	fmt.Fprintf(&b, ", %s]", it.Lookahead)
	return b.String()
}

// ItemSet is a set of LR(1) items, as found in one automaton state.
type ItemSet struct {
	items map[Key]Item
}

// NewItemSet builds an ItemSet from the given items, de-duplicating by Key.
func NewItemSet(items ...Item) *ItemSet {
	s := &ItemSet{items: map[Key]Item{}}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts it if not already present; reports whether the set changed.
func (s *ItemSet) Add(it Item) bool {
	k := it.Key()
	if _, ok := s.items[k]; ok {
		return false
	}
	s.items[k] = it
	return true
}

// Has reports whether it (including lookahead) is present.
func (s *ItemSet) Has(it Item) bool {
	_, ok := s.items[it.Key()]
	return ok
}

// Items returns every item in the set, in a stable (sorted) order.
func (s *ItemSet) Items() []Item {
	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Production.ID != b.Production.ID {
			return a.Production.ID < b.Production.ID
		}
		if a.Dot != b.Dot {
			return a.Dot < b.Dot
		}
		return a.Lookahead < b.Lookahead
	})
	return out
}

// Len reports the number of distinct (item, lookahead) pairs in the set.
func (s *ItemSet) Len() int { return len(s.items) }

// CoreKernel returns the set of (production id, dot) pairs among this set's
// kernel items — the identity spec.md §3 assigns to a ParsingState
// ("State identity is the set of kernel items").
func (s *ItemSet) CoreKernel() string {
	var cores []core
	seen := map[core]bool{}
	for _, it := range s.Items() {
		if it.IsKernel() && !seen[it.core()] {
			seen[it.core()] = true
			cores = append(cores, it.core())
		}
	}
	sort.Slice(cores, func(i, j int) bool {
		if cores[i].prodID != cores[j].prodID {
			return cores[i].prodID < cores[j].prodID
		}
		return cores[i].dot < cores[j].dot
	})
	var b strings.Builder
	for _, c := range cores {
		fmt.Fprintf(&b, "%d.%d|", c.prodID, c.dot)
	}
	return b.String()
}

// Merge adds every item of other into s, reporting whether any new item was
// added (used by the table builder to detect lookahead growth during LALR
// kernel merging).
func (s *ItemSet) Merge(other *ItemSet) bool {
	changed := false
	for _, it := range other.Items() {
		if s.Add(it) {
			changed = true
		}
	}
	return changed
}

func (s *ItemSet) String() string {
	var b strings.Builder
	for _, it := range s.Items() {
		b.WriteString(it.String())
		b.WriteByte('\n')
	}
	return b.String()
}
