package parsetable

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/admitcalc/exprlang/internal/conflict"
	"github.com/admitcalc/exprlang/internal/grammar"
	"github.com/admitcalc/exprlang/internal/limits"
)

// Cache is an explicitly-owned, non-global store of compiled ParsingTables
// keyed by a structural hash of the grammar that produced them, per
// DESIGN NOTES "Shared mutable caches": never implicit global state, safe
// for concurrent use because entries are published only after Compile
// returns successfully.
type Cache struct {
	mu     sync.RWMutex
	tables map[string]*ParsingTable
	Stats  CacheStats
}

// CacheStats are diagnostic counters; they are not part of parsing
// semantics.
type CacheStats struct {
	Hits      int
	Misses    int
	Evictions int
}

// NewCache builds an empty Cache.
func NewCache() *Cache {
	return &Cache{tables: map[string]*ParsingTable{}}
}

// Compile returns a cached ParsingTable for g if one exists, building and
// caching a new one otherwise. Passing a nil Cache disables caching and is
// equivalent to calling Compile directly.
func (c *Cache) Compile(g *grammar.Grammar, resolver *conflict.Resolver, lim limits.Limits) (*ParsingTable, error) {
	if c == nil {
		return Compile(g, resolver, lim)
	}

	key := structuralHash(g)

	c.mu.RLock()
	if t, ok := c.tables[key]; ok {
		c.mu.RUnlock()
		c.mu.Lock()
		c.Stats.Hits++
		c.mu.Unlock()
		return t, nil
	}
	c.mu.RUnlock()

	t, err := Compile(g, resolver, lim)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.tables[key] = t
	c.Stats.Misses++
	c.mu.Unlock()
	return t, nil
}

// Evict removes the cached table for g, if any.
func (c *Cache) Evict(g *grammar.Grammar) {
	key := structuralHash(g)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tables[key]; ok {
		delete(c.tables, key)
		c.Stats.Evictions++
	}
}

// structuralHash is a stable hash of a grammar's productions, used as the
// cache key (spec.md §4.3's "Caching keyed by a structural hash of
// productions" generalized to the whole grammar).
func structuralHash(g *grammar.Grammar) string {
	h := sha256.New()
	for _, p := range g.Productions() {
		h.Write([]byte(p.String()))
		h.Write([]byte{0})
	}
	h.Write([]byte(g.AugmentedProduction().String()))
	return hex.EncodeToString(h.Sum(nil))
}
