package ir

import "github.com/gogpu/spirvunroll/spirv"

// OperandKind distinguishes an operand that names another instruction's
// result id (and must be rewritten when that id changes) from one that is
// a plain literal word.
type OperandKind uint8

const (
	// Literal is a compile-time word: an immediate integer, a bitmask, or
	// similar. The rewriter never touches it.
	Literal OperandKind = iota
	// ID names another instruction's result id, or a block label.
	ID
)

// Operand is one in-operand of an Instruction.
type Operand struct {
	Kind OperandKind
	Word uint32
}

// LiteralOperand builds a literal in-operand.
func LiteralOperand(word uint32) Operand { return Operand{Kind: Literal, Word: word} }

// IDOperand builds an id-referencing in-operand.
func IDOperand(id uint32) Operand { return Operand{Kind: ID, Word: id} }

// Instruction is a single SPIR-V instruction: an opcode, an optional
// result id (0 when absent), an optional type id (0 when absent), and an
// ordered list of in-operands.
type Instruction struct {
	Opcode   spirv.OpCode
	TypeID   uint32
	ResultID uint32
	Operands []Operand
}

// HasResult reports whether this instruction defines a value.
func (i *Instruction) HasResult() bool { return i.ResultID != 0 }

// InOperandCount returns the number of in-operands.
func (i *Instruction) InOperandCount() int { return len(i.Operands) }

// InOperand returns the n'th in-operand.
func (i *Instruction) InOperand(n int) Operand { return i.Operands[n] }

// SetInOperand overwrites the n'th in-operand.
func (i *Instruction) SetInOperand(n int, op Operand) { i.Operands[n] = op }

// ForEachInID calls f with the address of every in-operand word that is an
// id, in order. f may mutate the word through the pointer to rewrite the
// reference in place; this is how the block cloner remaps operands after
// staging a clone (see package unroll).
func (i *Instruction) ForEachInID(f func(id *uint32)) {
	for idx := range i.Operands {
		if i.Operands[idx].Kind == ID {
			f(&i.Operands[idx].Word)
		}
	}
}

// IsTerminator reports whether this instruction ends a basic block.
func (i *Instruction) IsTerminator() bool {
	switch i.Opcode {
	case spirv.OpBranch, spirv.OpBranchConditional, spirv.OpSwitch,
		spirv.OpReturn, spirv.OpReturnValue, spirv.OpKill, spirv.OpUnreachable:
		return true
	default:
		return false
	}
}

// IsStructuredControl reports whether this instruction is a loop-merge or
// selection-merge marker — the one kind of instruction SPIR-V allows
// immediately before a block's terminator besides the terminator itself.
func (i *Instruction) IsStructuredControl() bool {
	return i.Opcode == spirv.OpLoopMerge || i.Opcode == spirv.OpSelectionMerge
}

// IsPhi reports whether this is an OpPhi instruction.
func (i *Instruction) IsPhi() bool { return i.Opcode == spirv.OpPhi }

// PhiIncoming is one (value, predecessor-block) pair of an OpPhi.
type PhiIncoming struct {
	Value  uint32
	Parent uint32
}

// Incoming returns the phi's incoming (value, parent-block) pairs. Panics
// if called on a non-phi instruction — a caller-side bug, not a legality
// question.
func (i *Instruction) Incoming() []PhiIncoming {
	if !i.IsPhi() {
		panic("ir: Incoming called on non-phi instruction")
	}
	pairs := make([]PhiIncoming, 0, len(i.Operands)/2)
	for idx := 0; idx+1 < len(i.Operands); idx += 2 {
		pairs = append(pairs, PhiIncoming{Value: i.Operands[idx].Word, Parent: i.Operands[idx+1].Word})
	}
	return pairs
}

// SetIncoming overwrites the n'th (value, parent) pair of an OpPhi.
func (i *Instruction) SetIncoming(n int, value, parent uint32) {
	if !i.IsPhi() {
		panic("ir: SetIncoming called on non-phi instruction")
	}
	i.Operands[n*2] = IDOperand(value)
	i.Operands[n*2+1] = IDOperand(parent)
}

// IncomingForParent returns the value paired with the given predecessor
// block id, and whether that predecessor is among the phi's operands.
func (i *Instruction) IncomingForParent(parent uint32) (uint32, bool) {
	for _, pair := range i.Incoming() {
		if pair.Parent == parent {
			return pair.Value, true
		}
	}
	return 0, false
}

// Clone returns a deep copy of the instruction with identical ids; the
// caller is responsible for reassigning result/operand ids afterward (see
// package unroll's block cloner, which does this in two disciplined
// phases rather than mutating ids during the copy).
func (i *Instruction) Clone() *Instruction {
	ops := make([]Operand, len(i.Operands))
	copy(ops, i.Operands)
	return &Instruction{
		Opcode:   i.Opcode,
		TypeID:   i.TypeID,
		ResultID: i.ResultID,
		Operands: ops,
	}
}

// NewLabel builds an OpLabel instruction, whose result id is the owning
// block's id.
func NewLabel(id uint32) *Instruction {
	return &Instruction{Opcode: spirv.OpLabel, ResultID: id}
}

// NewBranch builds an unconditional branch to target.
func NewBranch(target uint32) *Instruction {
	return &Instruction{Opcode: spirv.OpBranch, Operands: []Operand{IDOperand(target)}}
}

// NewBranchConditional builds a conditional branch.
func NewBranchConditional(cond, trueLabel, falseLabel uint32) *Instruction {
	return &Instruction{
		Opcode:   spirv.OpBranchConditional,
		Operands: []Operand{IDOperand(cond), IDOperand(trueLabel), IDOperand(falseLabel)},
	}
}

// NewLoopMerge builds a loop-merge structured-control marker.
func NewLoopMerge(mergeBlock, continueBlock uint32, control spirv.LoopControl) *Instruction {
	return &Instruction{
		Opcode: spirv.OpLoopMerge,
		Operands: []Operand{
			IDOperand(mergeBlock),
			IDOperand(continueBlock),
			LiteralOperand(uint32(control)),
		},
	}
}

// MergeBlockID returns the merge-block operand of an OpLoopMerge or
// OpSelectionMerge instruction.
func (i *Instruction) MergeBlockID() uint32 { return i.Operands[0].Word }

// ContinueBlockID returns the continue-block operand of an OpLoopMerge
// instruction.
func (i *Instruction) ContinueBlockID() uint32 { return i.Operands[1].Word }

// LoopControlMask returns the loop-control bitmask of an OpLoopMerge
// instruction.
func (i *Instruction) LoopControlMask() spirv.LoopControl {
	return spirv.LoopControl(i.Operands[2].Word)
}

// NewPhi builds an OpPhi instruction with the given incoming pairs.
func NewPhi(typeID, resultID uint32, incoming []PhiIncoming) *Instruction {
	ops := make([]Operand, 0, len(incoming)*2)
	for _, pair := range incoming {
		ops = append(ops, IDOperand(pair.Value), IDOperand(pair.Parent))
	}
	return &Instruction{Opcode: spirv.OpPhi, TypeID: typeID, ResultID: resultID, Operands: ops}
}

// NewBinary builds a two-operand arithmetic or comparison instruction
// (OpIAdd, OpISub, OpSLessThan, ...).
func NewBinary(op spirv.OpCode, typeID, resultID, lhs, rhs uint32) *Instruction {
	return &Instruction{
		Opcode:   op,
		TypeID:   typeID,
		ResultID: resultID,
		Operands: []Operand{IDOperand(lhs), IDOperand(rhs)},
	}
}

// NewConstant builds an OpConstant with a single literal word.
func NewConstant(typeID, resultID uint32, value uint32) *Instruction {
	return &Instruction{
		Opcode:   spirv.OpConstant,
		TypeID:   typeID,
		ResultID: resultID,
		Operands: []Operand{LiteralOperand(value)},
	}
}

// NewReturn builds an OpReturn instruction.
func NewReturn() *Instruction { return &Instruction{Opcode: spirv.OpReturn} }
