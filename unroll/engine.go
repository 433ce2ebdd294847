package unroll

import (
	"github.com/gogpu/spirvunroll/analysis"
	"github.com/gogpu/spirvunroll/ir"
	"github.com/gogpu/spirvunroll/loopdesc"
	"github.com/gogpu/spirvunroll/spirv"
)

// Engine is the Unroll Engine (§4.D): it owns the cross-iteration state,
// the staging list of cloned blocks awaiting a home in the function, and
// the instructions marked dead along the way. One Engine handles exactly
// one loop's transform from start to finish.
type Engine struct {
	fn         *ir.Function
	ids        *ir.IDAllocator
	cache      *analysis.Cache
	descriptor *loopdesc.Descriptor

	loop     *loopdesc.Loop
	analysis *Analysis

	cloner *cloner
	state  *iterationState

	pendingBlocks      []*ir.BasicBlock
	deadInsts          []*ir.Instruction
	lastFinishedBlocks []*ir.BasicBlock
}

// NewEngine constructs an engine for loop, whose Analyze output is info.
func NewEngine(fn *ir.Function, cache *analysis.Cache, descriptor *loopdesc.Descriptor, ids *ir.IDAllocator, loop *loopdesc.Loop, info *Analysis) *Engine {
	latchBlock, _ := fn.Block(loop.Latch)
	conditionBlock, _ := fn.Block(info.ConditionBlock)
	return &Engine{
		fn:         fn,
		ids:        ids,
		cache:      cache,
		descriptor: descriptor,
		loop:       loop,
		analysis:   info,
		cloner:     newCloner(ids),
		state:      newIterationState(info.Induction.Phi, latchBlock, conditionBlock),
	}
}

// CopyBody clones one fresh copy of the loop's body and appends it to the
// chain started by the previous copy (or, for the first copy, by the
// original loop). If eliminateConditions is set, the new copy's condition
// block branch is folded into an unconditional branch into the body,
// since every copy but the last is statically known to continue.
func (e *Engine) CopyBody(eliminateConditions bool) {
	e.state.beginCopy()

	prevStepped, ok := e.state.prevPhi.IncomingForParent(e.state.prevLatch.ID())
	if !ok {
		panic("unroll: previous iteration's phi has no latch-side incoming value")
	}

	cloned := make([]*ir.BasicBlock, 0, len(e.analysis.OrderedBlocks))
	for _, id := range e.analysis.OrderedBlocks {
		src, ok := e.fn.Block(id)
		if !ok {
			panic("unroll: ordered block not found in function")
		}
		clone := e.cloner.cloneBlock(src, e.loop, e.analysis.ConditionBlock, e.analysis.Induction.Phi.ResultID, e.state, false)
		cloned = append(cloned, clone)
		e.pendingBlocks = append(e.pendingBlocks, clone)
	}

	// Deliberate exception (§4.C): rebind every reference to the original
	// induction phi's result id to the previous iteration's stepped value,
	// overriding whatever the header clone's own (now-dead) phi happened
	// to claim that id maps to. This must run after the ordinary clone
	// bookkeeping above, which would otherwise win the map entry.
	e.state.newInst[e.analysis.Induction.Phi.ResultID] = prevStepped

	remapOperands(cloned, e.state.newInst)

	if e.state.newHeader == nil || e.state.newLatch == nil {
		panic("unroll: clone did not produce a new header or new latch")
	}

	e.state.prevLatch.SetTerminator(ir.NewBranch(e.state.newHeader.ID()))
	e.state.newLatch.SetTerminator(ir.NewBranch(e.loop.Header))

	if eliminateConditions {
		if e.state.newCondition == nil {
			panic("unroll: clone did not produce a new condition block")
		}
		foldToContinue(e.state.newCondition, e.loop.Merge)
	}

	if e.state.newPhi != nil {
		e.deadInsts = append(e.deadInsts, e.state.newPhi)
	}

	e.state.advance()
}

// Unroll invokes CopyBody factor-1 times (the original body counts as the
// first copy) and then closes the induction variable's feedback edge
// around the whole chain by rewriting the original phi's latch-side
// incoming pair to the final copy's stepped value and latch.
func (e *Engine) Unroll(factor int64) {
	for i := int64(0); i < factor-1; i++ {
		e.CopyBody(true)
	}

	finalStepped, ok := e.state.prevPhi.IncomingForParent(e.state.prevLatch.ID())
	if !ok {
		panic("unroll: could not find final iteration's stepped value")
	}
	setLatchIncoming(e.analysis.Induction.Phi, e.loop.Latch, finalStepped, e.state.prevLatch.ID())
}

// FullyUnroll eliminates the loop entirely: it unrolls by the exact
// iteration count, folds the original condition block's branch (since the
// first copy is also statically known to continue), and closes the loop.
func (e *Engine) FullyUnroll() {
	e.Unroll(e.analysis.Iterations)

	conditionBlock, ok := e.fn.Block(e.analysis.ConditionBlock)
	if !ok {
		panic("unroll: condition block not found in function")
	}
	foldToContinue(conditionBlock, e.loop.Merge)

	e.closeUnrolledLoop()
	e.finish()
}

// closeUnrolledLoop deletes the header's loop-merge instruction, retargets
// the final latch's back-edge to the loop's merge block, replaces every
// remaining use of the induction phi with its initial value, and deletes
// the phi. All remaining uses are necessarily in the first copy's body,
// where the phi's value was always the initial one.
func (e *Engine) closeUnrolledLoop() {
	headerBlock, ok := e.fn.Block(e.loop.Header)
	if !ok {
		panic("unroll: header block not found in function")
	}
	headerBlock.RemoveMerge()

	e.state.prevLatch.SetTerminator(ir.NewBranch(e.loop.Merge))

	e.cache.DefUse().ReplaceAllUsesWith(e.analysis.Induction.Phi.ResultID, e.analysis.Induction.InitValueID)
	e.deadInsts = append(e.deadInsts, e.analysis.Induction.Phi)

	e.descriptor.MarkForRemoval(e.loop)
}

// PartiallyUnroll performs a clean partial unroll: iterations must be
// evenly divisible by factor. The loop survives with factor times the
// body per iteration and iterations/factor total iterations.
func (e *Engine) PartiallyUnroll(factor int64) {
	e.Unroll(factor)
	e.finish()
	AddBlocksToLoop(e.loop, e.pendingBlocksSnapshot())
}

// pendingBlocksSnapshot exists only so AddBlocksToLoop can be handed the
// blocks that were just spliced, after finish() has cleared the engine's
// own staging list.
func (e *Engine) pendingBlocksSnapshot() []*ir.BasicBlock { return e.lastFinishedBlocks }

// finish runs the CFG Finalizer's AddBlocksToFunction step, sweeping dead
// instructions and splicing every staged block into the function
// immediately before the original merge block, then invalidates every
// cached analysis. The loop descriptor is not touched here; callers that
// need PostModificationCleanup call it explicitly once the whole pass has
// finished one function.
func (e *Engine) finish() {
	AddBlocksToFunction(e.fn, e.loop.Merge, e.pendingBlocks, e.deadInsts)
	e.lastFinishedBlocks = e.pendingBlocks
	e.pendingBlocks = nil
	e.deadInsts = nil
	e.cache.InvalidateExcept(0)
}

// DuplicateLoop clones the entire loop — body, merge block, and every
// instruction including the loop-merge and the original phis — verbatim
// except for fresh ids, and returns the duplicate's loop descriptor entry
// together with an Analysis for it. That Analysis is not recomputed by
// Analyze: its blocks, condition block and phi are the duplicate's, while
// the iteration count, bound and step/init constants are copied from the
// original loop's Analysis.
func (e *Engine) DuplicateLoop() (*loopdesc.Loop, *Analysis) {
	dupState := &iterationState{newBlocks: make(map[uint32]*ir.BasicBlock), newInst: make(map[uint32]uint32)}

	blocksToClone := make([]uint32, 0, len(e.analysis.OrderedBlocks)+1)
	blocksToClone = append(blocksToClone, e.analysis.OrderedBlocks...)
	blocksToClone = append(blocksToClone, e.loop.Merge)

	cloned := make([]*ir.BasicBlock, 0, len(blocksToClone))
	for _, id := range blocksToClone {
		src, ok := e.fn.Block(id)
		if !ok {
			panic("unroll: block not found while duplicating loop")
		}
		clone := e.cloner.cloneBlock(src, e.loop, e.analysis.ConditionBlock, e.analysis.Induction.Phi.ResultID, dupState, true)
		cloned = append(cloned, clone)
		e.pendingBlocks = append(e.pendingBlocks, clone)
	}

	remapOperands(cloned, dupState.newInst)

	dupLoop := &loopdesc.Loop{
		Header:    dupState.newHeader.ID(),
		Latch:     dupState.newLatch.ID(),
		Merge:     dupState.newBlocks[e.loop.Merge].ID(),
		Condition: dupState.newCondition.ID(),
		Control:   e.loop.Control,
	}
	for _, id := range e.analysis.OrderedBlocks {
		dupLoop.Body = append(dupLoop.Body, dupState.newBlocks[id].ID())
	}

	dupInduction := &loopdesc.Induction{
		Phi:         dupState.newPhi,
		InitValueID: e.analysis.Induction.InitValueID,
		Init:        e.analysis.Induction.Init,
		StepValueID: e.analysis.Induction.StepValueID,
		Step:        e.analysis.Induction.Step,
		Stepped:     dupState.newLatch.Instructions[findSteppedIndex(dupState.newLatch)],
	}

	dupAnalysis := &Analysis{
		ConditionBlock: dupLoop.Condition,
		Induction:      dupInduction,
		Iterations:     e.analysis.Iterations,
		Bound:          e.analysis.Bound,
		BoundID:        e.analysis.BoundID,
		OrderedBlocks:  dupLoop.Body,
	}

	return dupLoop, dupAnalysis
}

func findSteppedIndex(latch *ir.BasicBlock) int {
	for i, inst := range latch.Instructions {
		if inst.Opcode == spirv.OpIAdd || inst.Opcode == spirv.OpISub {
			return i
		}
	}
	panic("unroll: duplicated latch has no step instruction")
}

// PartiallyUnrollResidualFactor performs a residual partial unroll: when
// iterations isn't evenly divisible by factor, it produces two sequential
// loops — a residual loop covering iterations%factor iterations at the
// original loop's site, followed by a duplicate loop unrolled by factor
// covering the rest.
func (e *Engine) PartiallyUnrollResidualFactor(factor int64) *loopdesc.Loop {
	rID := e.ids.TakeNextID()
	r := ir.NewBasicBlock(rID)

	dupLoop, dupAnalysis := e.DuplicateLoop()
	r.SetTerminator(ir.NewBranch(dupLoop.Header))

	// Splice R and the duplicate's skeleton into the function now, before
	// unrolling the duplicate any further, so the duplicate engine's own
	// block lookups by id succeed.
	skeleton := append([]*ir.BasicBlock{r}, e.pendingBlocks...)
	e.pendingBlocks = nil
	AddBlocksToFunctionAfter(e.fn, e.loop.Merge, skeleton, nil)

	// Set the duplicate's parent before unrolling it further, so
	// AddBlocksToLoop's walk up to the function root already has
	// somewhere to attach the duplicate's own unrolled copies.
	dupLoop.Parent = e.loop.Parent

	dupEngine := NewEngine(e.fn, e.cache, e.descriptor, e.ids, dupLoop, dupAnalysis)
	dupEngine.PartiallyUnroll(factor)

	residual := e.analysis.Iterations % factor
	remainderValue := e.analysis.Induction.Init + residual*e.analysis.Induction.Step
	remainderID := e.ids.TakeNextID()
	remainderConst := ir.NewConstant(e.analysis.Induction.Phi.TypeID, remainderID, uint32(int32(remainderValue)))
	preHeaderBlock, ok := e.fn.Block(e.loop.PreHeader)
	if !ok {
		panic("unroll: pre-header block not found in function")
	}
	appendBeforeTerminator(preHeaderBlock, remainderConst)

	conditionBlock, ok := e.fn.Block(e.analysis.ConditionBlock)
	if !ok {
		panic("unroll: condition block not found in function")
	}
	rewriteComparisonBound(conditionBlock, remainderID)

	// The duplicate's phi still carries its pre-header incoming pair under
	// the original loop's pre-header id (pre-header blocks are outside
	// ordered_blocks, so cloning left that operand untouched). Rebind it
	// onto R with the remainder value.
	setLatchIncoming(dupAnalysis.Induction.Phi, e.loop.PreHeader, remainderID, rID)
	dupLoop.PreHeader = rID

	e.cache.DefUse().ReplaceAllUsesWith(e.loop.Merge, rID)

	e.descriptor.AddLoop(dupLoop, e.loop.Parent)

	e.cache.InvalidateExcept(0)

	return dupLoop
}

// foldToContinue folds a block's trailing conditional branch into an
// unconditional branch toward whichever target is not mergeID — the
// in-loop "continue" side.
func foldToContinue(blk *ir.BasicBlock, mergeID uint32) {
	term := blk.Terminator()
	if term.Opcode != spirv.OpBranchConditional {
		return
	}
	trueTarget := term.InOperand(1).Word
	falseTarget := term.InOperand(2).Word
	var continueTarget uint32
	if falseTarget == mergeID {
		continueTarget = trueTarget
	} else {
		continueTarget = falseTarget
	}
	blk.SetTerminator(ir.NewBranch(continueTarget))
}

// setLatchIncoming rewrites phi's incoming pair whose parent is oldParent
// to (newValue, newParent). Used to close the induction variable's
// feedback edge after a chain of copies, and to rebind a duplicate loop's
// pre-header incoming pair onto its new pre-header block.
func setLatchIncoming(phi *ir.Instruction, oldParent, newValue, newParent uint32) {
	for i, pair := range phi.Incoming() {
		if pair.Parent == oldParent {
			phi.SetIncoming(i, newValue, newParent)
			return
		}
	}
	panic("unroll: phi has no incoming pair for expected parent")
}

// rewriteComparisonBound rewrites the condition block's signed-less-than
// comparison to compare against newBoundID instead of whatever constant
// it previously named.
func rewriteComparisonBound(conditionBlock *ir.BasicBlock, newBoundID uint32) {
	term := conditionBlock.Terminator()
	condID := term.InOperand(0).Word
	for _, inst := range conditionBlock.Instructions {
		if inst.ResultID == condID && inst.Opcode == spirv.OpSLessThan {
			inst.SetInOperand(1, ir.IDOperand(newBoundID))
			return
		}
	}
	panic("unroll: condition block comparison not found")
}

// appendBeforeTerminator inserts inst immediately before blk's terminator.
func appendBeforeTerminator(blk *ir.BasicBlock, inst *ir.Instruction) {
	idx := len(blk.Instructions) - 1
	widened := make([]*ir.Instruction, 0, len(blk.Instructions)+1)
	widened = append(widened, blk.Instructions[:idx]...)
	widened = append(widened, inst)
	widened = append(widened, blk.Instructions[idx:]...)
	blk.Instructions = widened
}
