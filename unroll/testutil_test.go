package unroll_test

import (
	"github.com/gogpu/spirvunroll/ir"
	"github.com/gogpu/spirvunroll/loopdesc"
	"github.com/gogpu/spirvunroll/spirv"
)

// buildLoop constructs a minimal canonical structured loop:
//
//	entry(1, also pre-header) -> header(2) -> body(5) -> latch(6) -> header(2)
//	header also branches to merge(8) on exit
//
// for (i = init; i < bound; i += step) { use(i) /* side-effect-free */ }
//
// The condition block coincides with the header, matching the simplest
// (and most common) canonical shape. Block/value ids follow the same
// scheme used by package loopdesc's own fixtures.
func buildLoop(init, step, bound int32) (*ir.Function, *loopdesc.Loop, *loopdesc.Descriptor, *ir.IDAllocator) {
	fn := ir.NewFunction("main")

	entry := ir.NewBasicBlock(1)
	entry.Append(ir.NewConstant(201, 100, uint32(init)))
	entry.Append(ir.NewConstant(201, 101, uint32(step)))
	entry.Append(ir.NewConstant(201, 102, uint32(bound)))
	entry.SetTerminator(ir.NewBranch(2))

	header := ir.NewBasicBlock(2)
	header.Append(ir.NewPhi(201, 3, []ir.PhiIncoming{{Value: 100, Parent: 1}, {Value: 7, Parent: 6}}))
	header.Append(ir.NewBinary(spirv.OpSLessThan, 200, 4, 3, 102))
	header.Append(ir.NewLoopMerge(8, 6, spirv.LoopControlUnroll))
	header.SetTerminator(ir.NewBranchConditional(4, 5, 8))

	body := ir.NewBasicBlock(5)
	// A use of the induction variable itself (id 3), so a clone's operand
	// remap has something to rebind: without this, every cloned body is
	// structurally identical and the §4.C phi-rebinding exception is never
	// exercised. The result (id 20) is otherwise unused, matching "the
	// body's single side-effect-free store" from spec.md's own S1.
	body.Append(ir.NewBinary(spirv.OpIAdd, 201, 20, 3, 100))
	body.SetTerminator(ir.NewBranch(6))

	latch := ir.NewBasicBlock(6)
	latch.Append(ir.NewBinary(spirv.OpIAdd, 201, 7, 3, 101))
	latch.SetTerminator(ir.NewBranch(2))

	merge := ir.NewBasicBlock(8)
	merge.SetTerminator(ir.NewReturn())

	fn.Append(entry, header, body, latch, merge)

	loop := &loopdesc.Loop{
		Header:    2,
		PreHeader: 1,
		Latch:     6,
		Merge:     8,
		Condition: 2,
		Body:      []uint32{2, 5, 6},
		Control:   spirv.LoopControlUnroll,
	}

	descriptor := loopdesc.NewDescriptor()
	descriptor.AddLoop(loop, nil)

	module := &ir.Module{Functions: []*ir.Function{fn}}
	ids := ir.NewIDAllocator(ir.ComputeBound(module))

	return fn, loop, descriptor, ids
}
