package ir

import "fmt"

// BasicBlock is an ordered, non-empty list of instructions beginning with
// an OpLabel and ending with exactly one terminator. It may carry at most
// one structured-control instruction (OpLoopMerge or OpSelectionMerge)
// immediately before that terminator.
type BasicBlock struct {
	Instructions []*Instruction
}

// NewBasicBlock creates a block whose sole instruction so far is its
// label.
func NewBasicBlock(id uint32) *BasicBlock {
	return &BasicBlock{Instructions: []*Instruction{NewLabel(id)}}
}

// ID returns the block's id, i.e. its label instruction's result id.
func (b *BasicBlock) ID() uint32 { return b.Instructions[0].ResultID }

// Label returns the block's leading OpLabel instruction.
func (b *BasicBlock) Label() *Instruction { return b.Instructions[0] }

// Terminator returns the block's last instruction. Panics if the block
// has no instructions past its label — malformed input, not a legality
// question this package adjudicates.
func (b *BasicBlock) Terminator() *Instruction {
	if len(b.Instructions) < 2 {
		panic(fmt.Sprintf("ir: block %d has no terminator", b.ID()))
	}
	return b.Instructions[len(b.Instructions)-1]
}

// Merge returns the block's structured-control instruction (the loop- or
// selection-merge immediately before the terminator), if any.
func (b *BasicBlock) Merge() (*Instruction, bool) {
	if len(b.Instructions) < 2 {
		return nil, false
	}
	candidate := b.Instructions[len(b.Instructions)-2]
	if candidate.IsStructuredControl() {
		return candidate, true
	}
	return nil, false
}

// Phis returns the block's leading OpPhi instructions (SPIR-V requires
// phis to appear first in a block, right after the label).
func (b *BasicBlock) Phis() []*Instruction {
	var phis []*Instruction
	for _, inst := range b.Instructions[1:] {
		if !inst.IsPhi() {
			break
		}
		phis = append(phis, inst)
	}
	return phis
}

// Append adds an instruction to the end of the block.
func (b *BasicBlock) Append(inst *Instruction) {
	b.Instructions = append(b.Instructions, inst)
}

// RemoveMerge deletes the block's structured-control instruction, if
// present. Used when a header's loop-merge is no longer meaningful (a
// cloned, non-canonical header, or a fully-unrolled loop's original
// header).
func (b *BasicBlock) RemoveMerge() {
	idx := len(b.Instructions) - 2
	if idx < 0 || !b.Instructions[idx].IsStructuredControl() {
		return
	}
	b.Instructions = append(b.Instructions[:idx], b.Instructions[idx+1:]...)
}

// RemoveInstruction deletes the first instruction satisfying pred, if
// any.
func (b *BasicBlock) RemoveInstruction(pred func(*Instruction) bool) {
	for i, inst := range b.Instructions {
		if pred(inst) {
			b.Instructions = append(b.Instructions[:i], b.Instructions[i+1:]...)
			return
		}
	}
}

// SetTerminator overwrites the block's terminator instruction in place,
// preserving everything before it, or appends inst when the block does not
// end in a terminator yet. Used to fold a conditional branch into an
// unconditional one, to retarget a branch's destination, or to close a
// block under construction.
func (b *BasicBlock) SetTerminator(inst *Instruction) {
	last := len(b.Instructions) - 1
	if last > 0 && b.Instructions[last].IsTerminator() {
		b.Instructions[last] = inst
		return
	}
	b.Instructions = append(b.Instructions, inst)
}

// Clone returns a structural deep copy of the block: same instructions,
// same ids. The caller (package unroll's block cloner) is responsible for
// reassigning ids in a later, disciplined pass.
func (b *BasicBlock) Clone() *BasicBlock {
	insts := make([]*Instruction, len(b.Instructions))
	for i, inst := range b.Instructions {
		insts[i] = inst.Clone()
	}
	return &BasicBlock{Instructions: insts}
}
