// Package util holds small generic collection helpers shared across the
// grammar/automaton packages, adapted from the teacher's
// internal/util.KeySet[E] (a map[E]bool with set methods attached) down to
// the operations this pipeline's single fixed grammar actually needs:
// Add/Has/AddAll/Union/Copy/Elements. The teacher's ISet[E]/Container[E]
// interface indirection and its Intersection/Difference/DisjointWith/Any
// methods have no caller here and were dropped rather than carried over
// unused.
package util

// KeySet is a set of comparable elements backed by a map, the way the
// teacher's KeySet[E] is.
type KeySet[E comparable] map[E]bool

// NewKeySet returns an empty KeySet, optionally seeded from existing
// map[E]bool values.
func NewKeySet[E comparable](of ...map[E]bool) KeySet[E] {
	s := KeySet[E]{}
	for _, m := range of {
		for k := range m {
			s.Add(k)
		}
	}
	return s
}

// KeySetOf builds a KeySet from a slice.
func KeySetOf[E comparable](sl []E) KeySet[E] {
	s := NewKeySet[E]()
	for _, e := range sl {
		s.Add(e)
	}
	return s
}

// Add inserts value into s. s must be non-nil (use NewKeySet, not the nil
// zero value of a declared-but-unset KeySet).
func (s KeySet[E]) Add(value E) { s[value] = true }

// Has reports whether value is a member of s.
func (s KeySet[E]) Has(value E) bool { return s[value] }

// Remove deletes value from s, if present.
func (s KeySet[E]) Remove(value E) { delete(s, value) }

// Len reports the number of members of s.
func (s KeySet[E]) Len() int { return len(s) }

// AddAll adds every member of o to s, reporting whether s changed.
func (s KeySet[E]) AddAll(o KeySet[E]) bool {
	changed := false
	for k := range o {
		if !s[k] {
			s[k] = true
			changed = true
		}
	}
	return changed
}

// Copy returns a new KeySet with the same members as s.
func (s KeySet[E]) Copy() KeySet[E] {
	newS := NewKeySet[E]()
	for k := range s {
		newS[k] = true
	}
	return newS
}

// Union returns a new KeySet containing every member of s and o.
func (s KeySet[E]) Union(o KeySet[E]) KeySet[E] {
	newS := s.Copy()
	newS.AddAll(o)
	return newS
}

// Elements returns the set's members; order is not guaranteed.
func (s KeySet[E]) Elements() []E {
	out := make([]E, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}
