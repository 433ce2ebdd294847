package loopdesc

import (
	"github.com/gogpu/spirvunroll/ir"
	"github.com/gogpu/spirvunroll/spirv"
)

// Induction describes an analyzed induction variable: the header phi, its
// compile-time-constant initial value and step, and the instruction that
// computes the next iteration's value from the phi.
type Induction struct {
	Phi *ir.Instruction

	InitValueID uint32
	Init        int64

	StepValueID uint32
	Step        int64

	// Stepped is the add/sub instruction that computes the phi's
	// latch-side incoming value from the phi itself and Step.
	Stepped *ir.Instruction
}

// ConstantValue returns the literal integer value of an OpConstant
// instruction with the given result id, scanning fn's blocks for it.
// Constants are module-scope per spec §3; this implementation keeps them
// alongside ordinary instructions in the function's entry block for
// simplicity, since the parser/module-builder layer that would normally
// separate them is out of scope (§1).
func ConstantValue(fn *ir.Function, id uint32) (int64, bool) {
	for _, blk := range fn.Blocks {
		for _, inst := range blk.Instructions {
			if inst.ResultID == id && inst.Opcode == spirv.OpConstant {
				return int64(int32(inst.Operands[0].Word)), true
			}
		}
	}
	return 0, false
}

// defOf finds the instruction defining id anywhere in fn.
func defOf(fn *ir.Function, id uint32) (*ir.Instruction, bool) {
	for _, blk := range fn.Blocks {
		for _, inst := range blk.Instructions {
			if inst.ResultID == id {
				return inst, true
			}
		}
	}
	return nil, false
}

// FindInductionVariable looks for a phi in the header block whose two
// incoming pairs are (initial, preHeader) and (stepped, latch), where
// the stepped value is an integer add or subtract of the phi itself and
// a compile-time-constant step. It returns the first header phi matching
// this shape; it does not itself enforce that the phi is the *only* live
// phi in the header — that is the Legality Checker's job (§4.A).
func FindInductionVariable(fn *ir.Function, header, preHeader, latch uint32) (*Induction, bool) {
	headerBlock, ok := fn.Block(header)
	if !ok {
		return nil, false
	}
	for _, phi := range headerBlock.Phis() {
		initVal, ok := phi.IncomingForParent(preHeader)
		if !ok {
			continue
		}
		steppedVal, ok := phi.IncomingForParent(latch)
		if !ok {
			continue
		}
		stepInst, ok := defOf(fn, steppedVal)
		if !ok {
			continue
		}
		induction, ok := analyzeStep(fn, phi, stepInst, initVal, steppedVal)
		if !ok {
			continue
		}
		return induction, true
	}
	return nil, false
}

func analyzeStep(fn *ir.Function, phi, stepInst *ir.Instruction, initVal, steppedVal uint32) (*Induction, bool) {
	var sign int64 = 1
	switch stepInst.Opcode {
	case spirv.OpIAdd:
		sign = 1
	case spirv.OpISub:
		sign = -1
	default:
		return nil, false
	}
	lhs, rhs := stepInst.InOperand(0).Word, stepInst.InOperand(1).Word
	var stepID uint32
	switch phi.ResultID {
	case lhs:
		stepID = rhs
	case rhs:
		if sign == -1 {
			// "phi - x" only makes sense with phi as lhs; x - phi is not
			// a step of the induction variable.
			return nil, false
		}
		stepID = lhs
	default:
		return nil, false
	}
	stepConst, ok := ConstantValue(fn, stepID)
	if !ok {
		return nil, false
	}
	initConst, ok := ConstantValue(fn, initVal)
	if !ok {
		return nil, false
	}
	return &Induction{
		Phi:         phi,
		InitValueID: initVal,
		Init:        initConst,
		StepValueID: stepID,
		Step:        sign * stepConst,
		Stepped:     stepInst,
	}, true
}

// NumberOfIterations computes the exact number of times a loop's body
// executes, from the condition block's signed-less-than comparison of
// the induction variable against a compile-time-constant bound. Returns
// false if the condition block's terminator is not a conditional branch
// comparing the induction phi with OpSLessThan against an integer
// constant bound.
func NumberOfIterations(fn *ir.Function, induction *Induction, conditionBlock uint32) (iterations int64, bound int64, boundID uint32, ok bool) {
	blk, ok := fn.Block(conditionBlock)
	if !ok {
		return 0, 0, 0, false
	}
	term := blk.Terminator()
	if term.Opcode != spirv.OpBranchConditional {
		return 0, 0, 0, false
	}
	condID := term.InOperand(0).Word
	cmp, ok := defOf(fn, condID)
	if !ok || cmp.Opcode != spirv.OpSLessThan {
		return 0, 0, 0, false
	}
	lhs, rhs := cmp.InOperand(0).Word, cmp.InOperand(1).Word
	if lhs != induction.Phi.ResultID {
		return 0, 0, 0, false
	}
	boundVal, ok := ConstantValue(fn, rhs)
	if !ok {
		return 0, 0, 0, false
	}
	if induction.Step == 0 {
		return 0, 0, 0, false
	}
	if induction.Step > 0 {
		if boundVal <= induction.Init {
			return 0, boundVal, rhs, true
		}
		iterations = (boundVal - induction.Init + induction.Step - 1) / induction.Step
		return iterations, boundVal, rhs, true
	}
	// Decreasing induction with a less-than exit test only terminates if
	// paired with a different comparison in well-formed input; reject
	// rather than guess.
	return 0, 0, 0, false
}
