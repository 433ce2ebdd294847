package analysis_test

import (
	"github.com/gogpu/spirvunroll/ir"
	"github.com/gogpu/spirvunroll/spirv"
)

// buildLoopFunction constructs:
//
//	entry -> header
//	header: phi(init/entry, stepped/latch); loop-merge(merge, latch); branch cond
//	cond (== header here): branchcond -> body, merge
//	body: branch -> latch
//	latch: stepped = phi + step; branch -> header   (back-edge)
//	merge: return
//
// ids: entry=1 header=2 phi=3 cmp=4 body=5 latch=6 stepped=7 merge=8
// init const=100 step const=101 bound const=102 boolType=200 intType=201
func buildLoopFunction() *ir.Function {
	fn := ir.NewFunction("main")

	entry := ir.NewBasicBlock(1)
	entry.Append(ir.NewBranch(2))
	fn.Append(entry)

	header := ir.NewBasicBlock(2)
	phi := ir.NewPhi(201, 3, []ir.PhiIncoming{{Value: 100, Parent: 1}, {Value: 7, Parent: 6}})
	header.Append(phi)
	header.Append(ir.NewBinary(spirv.OpSLessThan, 200, 4, 3, 102))
	header.Append(ir.NewLoopMerge(8, 6, spirv.LoopControlUnroll))
	header.Append(ir.NewBranchConditional(4, 5, 8))
	fn.Append(header)

	body := ir.NewBasicBlock(5)
	body.Append(ir.NewBranch(6))
	fn.Append(body)

	latch := ir.NewBasicBlock(6)
	latch.Append(ir.NewBinary(spirv.OpIAdd, 201, 7, 3, 101))
	latch.Append(ir.NewBranch(2))
	fn.Append(latch)

	merge := ir.NewBasicBlock(8)
	merge.Append(ir.NewReturn())
	fn.Append(merge)

	return fn
}
