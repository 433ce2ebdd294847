package unroll

import (
	"github.com/gogpu/spirvunroll/ir"
	"github.com/gogpu/spirvunroll/loopdesc"
)

// cloner implements the Block Cloner (§4.C): deep-copy a block, assign
// fresh result ids, and record the old-id to new-id mapping for the
// operand remap pass that follows once a whole iteration's worth of
// blocks has been cloned.
type cloner struct {
	ids *ir.IDAllocator
}

func newCloner(ids *ir.IDAllocator) *cloner { return &cloner{ids: ids} }

// cloneBlock deep-copies src, assigns it and every instruction it defines
// a fresh id, and records old->new mappings in state. loop identifies the
// header/latch by id so the clone can be tagged as the iteration's new
// header or new latch; conditionBlockID and inductionResultID identify the
// condition block and the induction phi the same way.
//
// preserveHeaderMerge keeps the header clone's loop-merge instruction
// intact, for DuplicateLoop's verbatim-copy semantics; ordinary per-
// iteration copies delete it, since only the original header keeps that
// marker.
func (c *cloner) cloneBlock(src *ir.BasicBlock, loop *loopdesc.Loop, conditionBlockID, inductionResultID uint32, state *iterationState, preserveHeaderMerge bool) *ir.BasicBlock {
	oldLabel := src.ID()
	clone := src.Clone()

	newLabel := c.ids.TakeNextID()
	clone.Instructions[0].ResultID = newLabel
	state.newInst[oldLabel] = newLabel

	for _, inst := range clone.Instructions[1:] {
		if !inst.HasResult() {
			continue
		}
		oldID := inst.ResultID
		if oldID == inductionResultID {
			state.newPhi = inst
		}
		newID := c.ids.TakeNextID()
		inst.ResultID = newID
		state.newInst[oldID] = newID
	}

	switch oldLabel {
	case loop.Header:
		state.newHeader = clone
		if !preserveHeaderMerge {
			clone.RemoveMerge()
		}
	case loop.Latch:
		state.newLatch = clone
	}
	if oldLabel == conditionBlockID {
		state.newCondition = clone
	}

	state.newBlocks[oldLabel] = clone
	return clone
}

// remapOperands rewrites every in-operand of every instruction in blocks
// that names an id present in newInst. newInst is expected to already
// carry the deliberate phi-rebinding seed (the induction phi's old result
// id mapped to the previous iteration's stepped value) before this runs.
// Operands naming ids outside newInst — module-scope types and constants,
// or an intentionally preserved back-edge to the original header — are
// left untouched.
func remapOperands(blocks []*ir.BasicBlock, newInst map[uint32]uint32) {
	for _, blk := range blocks {
		for _, inst := range blk.Instructions {
			inst.ForEachInID(func(id *uint32) {
				if newID, ok := newInst[*id]; ok {
					*id = newID
				}
			})
		}
	}
}
