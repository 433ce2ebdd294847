package unroll

import "github.com/gogpu/spirvunroll/ir"

// iterationState tracks the engine's cross-iteration bookkeeping (§4.D):
// the previous iteration's phi, latch and condition block, the new copy
// currently being built, and the old-id to new-id maps for that copy.
// prev* seeds from the original loop on construction; new* is cleared
// after every advance.
type iterationState struct {
	prevPhi       *ir.Instruction
	prevLatch     *ir.BasicBlock
	prevCondition *ir.BasicBlock

	newPhi       *ir.Instruction
	newLatch     *ir.BasicBlock
	newCondition *ir.BasicBlock
	newHeader    *ir.BasicBlock

	newBlocks map[uint32]*ir.BasicBlock
	newInst   map[uint32]uint32
}

func newIterationState(phi *ir.Instruction, latch, condition *ir.BasicBlock) *iterationState {
	return &iterationState{prevPhi: phi, prevLatch: latch, prevCondition: condition}
}

func (s *iterationState) beginCopy() {
	s.newBlocks = make(map[uint32]*ir.BasicBlock)
	s.newInst = make(map[uint32]uint32)
}

func (s *iterationState) advance() {
	s.prevPhi = s.newPhi
	s.prevLatch = s.newLatch
	s.prevCondition = s.newCondition
	s.newPhi = nil
	s.newLatch = nil
	s.newCondition = nil
	s.newHeader = nil
	s.newBlocks = nil
	s.newInst = nil
}
