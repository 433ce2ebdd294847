package analysis

import "github.com/gogpu/spirvunroll/ir"

// DomTree is a function's dominator tree: for every reachable block other
// than the entry, its immediate dominator, plus a pre-order traversal and
// a dominates(a, b) predicate.
//
// Built with the classic iterative fixpoint algorithm (Cooper, Harvey &
// Kennedy, "A Simple, Fast Dominance Algorithm"), walking the CFG in
// reverse-postorder until the idom assignment stops changing — the same
// shape used by golang.org/x/tools/go/ssa's dominator computation.
type DomTree struct {
	entry    uint32
	idom     map[uint32]uint32
	children map[uint32][]uint32
	rpo      []uint32
	rpoIndex map[uint32]int
}

// NewDomTree computes the dominator tree of fn's entry block over cfg.
func NewDomTree(fn *ir.Function, cfg *CFGIndex) *DomTree {
	entry := fn.Entry().ID()
	rpo := reversePostorder(entry, cfg)
	rpoIndex := make(map[uint32]int, len(rpo))
	for i, id := range rpo {
		rpoIndex[id] = i
	}

	idom := map[uint32]uint32{entry: entry}
	changed := true
	for changed {
		changed = false
		for _, id := range rpo {
			if id == entry {
				continue
			}
			var newIdom uint32
			found := false
			for _, p := range cfg.Preds(id) {
				if _, ok := idom[p]; !ok {
					continue // predecessor not yet processed this round
				}
				if !found {
					newIdom = p
					found = true
					continue
				}
				newIdom = intersect(newIdom, p, idom, rpoIndex)
			}
			if !found {
				continue // unreachable predecessor set so far; next round
			}
			if cur, ok := idom[id]; !ok || cur != newIdom {
				idom[id] = newIdom
				changed = true
			}
		}
	}

	children := make(map[uint32][]uint32, len(idom))
	for _, id := range rpo {
		d, ok := idom[id]
		if !ok || id == entry {
			continue
		}
		children[d] = append(children[d], id)
	}

	return &DomTree{entry: entry, idom: idom, children: children, rpo: rpo, rpoIndex: rpoIndex}
}

func intersect(a, b uint32, idom map[uint32]uint32, rpoIndex map[uint32]int) uint32 {
	for a != b {
		for rpoIndex[a] > rpoIndex[b] {
			a = idom[a]
		}
		for rpoIndex[b] > rpoIndex[a] {
			b = idom[b]
		}
	}
	return a
}

func reversePostorder(entry uint32, cfg *CFGIndex) []uint32 {
	var postorder []uint32
	visited := map[uint32]bool{}
	var visit func(uint32)
	visit = func(id uint32) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, s := range cfg.Succs(id) {
			visit(s)
		}
		postorder = append(postorder, id)
	}
	visit(entry)

	rpo := make([]uint32, len(postorder))
	for i, id := range postorder {
		rpo[len(postorder)-1-i] = id
	}
	return rpo
}

// Dominates reports whether a dominates b (every path from the entry to b
// passes through a). A block always dominates itself.
func (d *DomTree) Dominates(a, b uint32) bool {
	for {
		if a == b {
			return true
		}
		if b == d.entry {
			return false
		}
		parent, ok := d.idom[b]
		if !ok || parent == b {
			return false
		}
		b = parent
	}
}

// Children returns id's immediate children in the dominator tree.
func (d *DomTree) Children(id uint32) []uint32 { return d.children[id] }

// PreOrder returns every reachable block id in dominator-tree pre-order,
// starting at the function entry.
func (d *DomTree) PreOrder() []uint32 {
	return d.preOrderFrom(d.entry, 0, false)
}

// LoopOrder returns the blocks dominator-tree-reachable from start (the
// loop header), in pre-order, stopping the traversal at — and excluding —
// stop (the loop merge block) and anything only reachable through it.
// This is the "ordered_blocks" construction from the Loop Analyzer (§4.B):
// it preserves the relative position of header, latch and condition
// block so that cloning yields a deterministic output id stream.
func (d *DomTree) LoopOrder(start, stop uint32) []uint32 {
	return d.preOrderFrom(start, stop, true)
}

func (d *DomTree) preOrderFrom(start, stop uint32, hasStop bool) []uint32 {
	var order []uint32
	var visit func(uint32)
	visit = func(id uint32) {
		if hasStop && id == stop {
			return
		}
		order = append(order, id)
		for _, c := range d.children[id] {
			visit(c)
		}
	}
	visit(start)
	return order
}
