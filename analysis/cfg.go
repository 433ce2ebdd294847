package analysis

import (
	"github.com/gogpu/spirvunroll/ir"
	"github.com/gogpu/spirvunroll/spirv"
)

// CFGIndex answers "what block has this id" and "who branches into this
// block" in O(1) after an O(blocks) build pass.
type CFGIndex struct {
	blocks map[uint32]*ir.BasicBlock
	order  []uint32 // block ids in function order, for deterministic iteration
	preds  map[uint32][]uint32
}

// NewCFGIndex builds a CFG index for fn.
func NewCFGIndex(fn *ir.Function) *CFGIndex {
	idx := &CFGIndex{
		blocks: make(map[uint32]*ir.BasicBlock, len(fn.Blocks)),
		order:  make([]uint32, 0, len(fn.Blocks)),
		preds:  make(map[uint32][]uint32, len(fn.Blocks)),
	}
	for _, blk := range fn.Blocks {
		idx.blocks[blk.ID()] = blk
		idx.order = append(idx.order, blk.ID())
	}
	for _, blk := range fn.Blocks {
		for _, succ := range successors(blk) {
			idx.preds[succ] = append(idx.preds[succ], blk.ID())
		}
	}
	return idx
}

// Block returns the basic block with the given id.
func (c *CFGIndex) Block(id uint32) (*ir.BasicBlock, bool) {
	blk, ok := c.blocks[id]
	return blk, ok
}

// Preds returns the ids of blocks whose terminator targets id, in the
// order they were discovered while walking the function.
func (c *CFGIndex) Preds(id uint32) []uint32 { return c.preds[id] }

// Order returns all block ids in function (layout) order.
func (c *CFGIndex) Order() []uint32 { return c.order }

// Succs returns the ids a block's terminator can transfer control to.
func (c *CFGIndex) Succs(id uint32) []uint32 {
	blk, ok := c.blocks[id]
	if !ok {
		return nil
	}
	return successors(blk)
}

// successors returns the ids a block's terminator can transfer control
// to. OpReturn/OpReturnValue/OpKill/OpUnreachable have none;
// OpBranchConditional's first id operand is its condition value, not a
// target, so it is excluded.
func successors(blk *ir.BasicBlock) []uint32 {
	term := blk.Terminator()
	switch term.Opcode {
	case spirv.OpBranch:
		return []uint32{term.InOperand(0).Word}
	case spirv.OpBranchConditional:
		return []uint32{term.InOperand(1).Word, term.InOperand(2).Word}
	case spirv.OpSwitch:
		var out []uint32
		term.ForEachInID(func(id *uint32) { out = append(out, *id) })
		return out[1:] // operand 0 is the selector value
	default:
		return nil
	}
}
