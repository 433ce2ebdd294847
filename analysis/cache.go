package analysis

import "github.com/gogpu/spirvunroll/ir"

// Kind identifies one cached analysis, for use as a bitmask with
// Cache.InvalidateExcept — the concrete form of the specification's
// invalidate_analyses_except(mask).
type Kind uint8

const (
	KindCFG Kind = 1 << iota
	KindDefUse
	KindDominators
)

// Cache lazily builds and memoizes CFGIndex, DefUse and DomTree for a
// function, and can be invalidated after a structural edit. The loop
// descriptor is deliberately not modeled here: per the specification,
// the pass mutates it explicitly and it is the one analysis exempt from
// blanket invalidation.
type Cache struct {
	fn  *ir.Function
	cfg *CFGIndex
	du  *DefUse
	dom *DomTree
}

// NewCache creates an analysis cache over fn. Nothing is computed until
// first use.
func NewCache(fn *ir.Function) *Cache { return &Cache{fn: fn} }

// CFG returns the function's CFG index, building it if necessary.
func (c *Cache) CFG() *CFGIndex {
	if c.cfg == nil {
		c.cfg = NewCFGIndex(c.fn)
	}
	return c.cfg
}

// DefUse returns the function's def-use manager, building it if
// necessary.
func (c *Cache) DefUse() *DefUse {
	if c.du == nil {
		c.du = NewDefUse(c.fn)
	}
	return c.du
}

// Dominators returns the function's dominator tree, building it (and its
// CFG index dependency) if necessary.
func (c *Cache) Dominators() *DomTree {
	if c.dom == nil {
		c.dom = NewDomTree(c.fn, c.CFG())
	}
	return c.dom
}

// InvalidateExcept drops every cached analysis not named in keep, forcing
// it to be rebuilt lazily on next access. Called after every structural
// edit to the function (§4.E).
func (c *Cache) InvalidateExcept(keep Kind) {
	if keep&KindCFG == 0 {
		c.cfg = nil
	}
	if keep&KindDefUse == 0 {
		c.du = nil
	}
	if keep&KindDominators == 0 {
		c.dom = nil
	}
}
