package unroll

import (
	"github.com/gogpu/spirvunroll/analysis"
	"github.com/gogpu/spirvunroll/ir"
	"github.com/gogpu/spirvunroll/loopdesc"
	"github.com/gogpu/spirvunroll/spirv"
)

// CheckResult is the Legality Checker's verdict (§4.A): a boolean
// accept/reject plus, on rejection, a human-readable reason for the
// internal log. It never mutates the function.
type CheckResult struct {
	OK     bool
	Reason string
}

func reject(reason string) CheckResult { return CheckResult{OK: false, Reason: reason} }

// Check decides whether loop matches the canonical shape the unroll
// transform requires. A false result means the pass should skip this
// loop and move on; it is never a bug for Check to reject a loop.
func Check(fn *ir.Function, cache *analysis.Cache, descriptor *loopdesc.Descriptor, loop *loopdesc.Loop) CheckResult {
	cfg := cache.CFG()
	du := cache.DefUse()

	headerBlock, ok := fn.Block(loop.Header)
	if !ok {
		return reject("header block not found")
	}
	if _, ok := headerBlock.Merge(); !ok {
		return reject("header has no loop-merge instruction")
	}

	phis := headerBlock.Phis()
	if len(phis) == 0 {
		return reject("header has no phi instruction")
	}

	induction, ok := loopdesc.FindInductionVariable(fn, loop.Header, loop.PreHeader, loop.Latch)
	if !ok {
		return reject("no valid induction variable")
	}
	if du.NumUsers(induction.Phi.ResultID) == 0 {
		return reject("induction phi is unused")
	}
	for _, phi := range phis {
		if phi == induction.Phi {
			continue
		}
		if du.NumUsers(phi.ResultID) > 0 {
			return reject("header has a second live phi")
		}
	}

	conditionBlock := loop.Condition
	if conditionBlock == 0 {
		cb, ok := findConditionBlock(cache, loop)
		if !ok {
			return reject("no condition block found")
		}
		conditionBlock = cb
	}
	_, _, boundID, ok := loopdesc.NumberOfIterations(fn, induction, conditionBlock)
	if !ok {
		return reject("could not compute iteration count")
	}
	for _, id := range []uint32{induction.InitValueID, induction.StepValueID, boundID} {
		def, ok := du.Def(id)
		if !ok || def.TypeID != induction.Phi.TypeID {
			return reject("induction constants do not share the phi's type")
		}
	}

	latchBlock, ok := fn.Block(loop.Latch)
	if !ok {
		return reject("latch block not found")
	}
	latchTerm := latchBlock.Terminator()
	if latchTerm.Opcode != spirv.OpBranch || latchTerm.InOperand(0).Word != loop.Header {
		return reject("latch is not an unconditional branch to header")
	}

	insideMergePreds := 0
	for _, p := range cfg.Preds(loop.Merge) {
		if loop.InBody(p) {
			insideMergePreds++
		}
	}
	if insideMergePreds != 1 {
		return reject("loop has an early exit")
	}
	if len(cfg.Preds(loop.Latch)) != 1 {
		return reject("loop has an early continue")
	}

	for _, id := range loop.Body {
		blk, ok := fn.Block(id)
		if !ok {
			return reject("body block not found")
		}
		switch blk.Terminator().Opcode {
		case spirv.OpReturn, spirv.OpReturnValue, spirv.OpKill:
			return reject("loop body terminates in return or kill")
		}
	}

	owners := blockOwners(fn)
	for _, id := range loop.Body {
		blk, _ := fn.Block(id)
		for _, inst := range blk.Instructions {
			if !inst.HasResult() || inst.Opcode == spirv.OpLabel {
				continue
			}
			if inst == induction.Phi {
				continue
			}
			for _, user := range du.Users(inst.ResultID) {
				if !loop.InBody(owners[user]) {
					return reject("loop defines a value used outside the loop")
				}
			}
		}
	}

	for _, child := range loop.Children {
		if !descriptor.IsMarkedForRemoval(child) {
			return reject("inner loop has not been unrolled yet")
		}
	}

	return CheckResult{OK: true}
}

// findConditionBlock scans the merge block's predecessors for the one
// inside the loop ending in a conditional branch.
func findConditionBlock(cache *analysis.Cache, loop *loopdesc.Loop) (uint32, bool) {
	cfg := cache.CFG()
	for _, pred := range cfg.Preds(loop.Merge) {
		if !loop.InBody(pred) {
			continue
		}
		blk, ok := cfg.Block(pred)
		if !ok {
			continue
		}
		if blk.Terminator().Opcode == spirv.OpBranchConditional {
			return pred, true
		}
	}
	return 0, false
}

// blockOwners maps each instruction to the id of the block that contains
// it, for the Legality Checker's "used only inside the loop" scan.
func blockOwners(fn *ir.Function) map[*ir.Instruction]uint32 {
	owners := make(map[*ir.Instruction]uint32)
	for _, blk := range fn.Blocks {
		id := blk.ID()
		for _, inst := range blk.Instructions {
			owners[inst] = id
		}
	}
	return owners
}
