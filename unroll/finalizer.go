package unroll

import (
	"github.com/gogpu/spirvunroll/ir"
	"github.com/gogpu/spirvunroll/loopdesc"
)

// AddBlocksToFunction is the CFG Finalizer's primary operation (§4.E): it
// deletes every instruction recorded as dead during the transform, then
// splices pendingBlocks into fn immediately before the block named by
// insertPoint. It is a precondition that insertPoint names a block in fn;
// violating it is a fatal bug, not a user error, so ir.Function.InsertBefore
// panics rather than returning an error.
func AddBlocksToFunction(fn *ir.Function, insertPoint uint32, pendingBlocks []*ir.BasicBlock, deadInsts []*ir.Instruction) {
	sweepDead(fn, pendingBlocks, deadInsts)
	fn.InsertBefore(insertPoint, pendingBlocks)
}

// AddBlocksToFunctionAfter is AddBlocksToFunction's counterpart for the
// residual strategy, which splices its staged blocks immediately after an
// anchor block (the original loop's merge) instead of before one.
func AddBlocksToFunctionAfter(fn *ir.Function, anchor uint32, pendingBlocks []*ir.BasicBlock, deadInsts []*ir.Instruction) {
	sweepDead(fn, pendingBlocks, deadInsts)
	idx, ok := fn.IndexOf(anchor)
	if !ok {
		panic("unroll: insertion anchor not found in function")
	}
	if idx+1 >= len(fn.Blocks) {
		fn.Append(pendingBlocks...)
		return
	}
	fn.InsertBefore(fn.Blocks[idx+1].ID(), pendingBlocks)
}

func sweepDead(fn *ir.Function, pendingBlocks []*ir.BasicBlock, deadInsts []*ir.Instruction) {
	for _, dead := range deadInsts {
		for _, blk := range fn.Blocks {
			blk.RemoveInstruction(func(inst *ir.Instruction) bool { return inst == dead })
		}
		for _, blk := range pendingBlocks {
			blk.RemoveInstruction(func(inst *ir.Instruction) bool { return inst == dead })
		}
	}
}

// AddBlocksToLoop attaches every block in blocks to loop's body, then
// recursively to loop.Parent up to the function root.
func AddBlocksToLoop(loop *loopdesc.Loop, blocks []*ir.BasicBlock) {
	ids := make([]uint32, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID()
	}
	for l := loop; l != nil; l = l.Parent {
		l.Body = append(l.Body, ids...)
	}
}
