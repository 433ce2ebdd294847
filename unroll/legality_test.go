package unroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spirvunroll/analysis"
	"github.com/gogpu/spirvunroll/ir"
	"github.com/gogpu/spirvunroll/loopdesc"
	"github.com/gogpu/spirvunroll/spirv"
	"github.com/gogpu/spirvunroll/unroll"
)

func TestCheckAcceptsCanonicalLoop(t *testing.T) {
	fn, loop, descriptor, _ := buildLoop(0, 1, 4)
	cache := analysis.NewCache(fn)

	result := unroll.Check(fn, cache, descriptor, loop)
	assert.True(t, result.OK, "reason: %s", result.Reason)
}

// TestCheckRejectsEarlyExit builds S4: a loop whose body branches
// conditionally to the merge block, in addition to the canonical exit.
func TestCheckRejectsEarlyExit(t *testing.T) {
	fn := ir.NewFunction("main")

	entry := ir.NewBasicBlock(1)
	entry.Append(ir.NewConstant(201, 100, 0))
	entry.Append(ir.NewConstant(201, 101, 1))
	entry.Append(ir.NewConstant(201, 102, 4))
	entry.SetTerminator(ir.NewBranch(2))

	header := ir.NewBasicBlock(2)
	header.Append(ir.NewPhi(201, 3, []ir.PhiIncoming{{Value: 100, Parent: 1}, {Value: 7, Parent: 6}}))
	header.Append(ir.NewBinary(spirv.OpSLessThan, 200, 4, 3, 102))
	header.Append(ir.NewLoopMerge(8, 6, spirv.LoopControlUnroll))
	header.SetTerminator(ir.NewBranchConditional(4, 5, 8))

	// Body has an early exit straight to merge: a second predecessor of
	// the merge block from inside the loop.
	body := ir.NewBasicBlock(5)
	body.Append(ir.NewBinary(spirv.OpSLessThan, 200, 9, 3, 100))
	body.SetTerminator(ir.NewBranchConditional(9, 6, 8))

	latch := ir.NewBasicBlock(6)
	latch.Append(ir.NewBinary(spirv.OpIAdd, 201, 7, 3, 101))
	latch.SetTerminator(ir.NewBranch(2))

	merge := ir.NewBasicBlock(8)
	merge.SetTerminator(ir.NewReturn())

	fn.Append(entry, header, body, latch, merge)

	loop := &loopdesc.Loop{
		Header: 2, PreHeader: 1, Latch: 6, Merge: 8, Condition: 2,
		Body: []uint32{2, 5, 6}, Control: spirv.LoopControlUnroll,
	}
	descriptor := loopdesc.NewDescriptor()
	descriptor.AddLoop(loop, nil)

	cache := analysis.NewCache(fn)
	result := unroll.Check(fn, cache, descriptor, loop)
	require.False(t, result.OK)
	assert.Contains(t, result.Reason, "early exit")
}

// TestCheckRejectsSecondLivePhi builds S5: the header contains a second
// phi instruction that has a user, alongside the induction phi.
func TestCheckRejectsSecondLivePhi(t *testing.T) {
	fn, loop, descriptor, _ := buildLoop(0, 1, 4)

	header, ok := fn.Block(2)
	require.True(t, ok)

	extraPhi := ir.NewPhi(201, 50, []ir.PhiIncoming{{Value: 100, Parent: 1}, {Value: 50, Parent: 6}})
	withExtraPhi := make([]*ir.Instruction, 0, len(header.Instructions)+1)
	withExtraPhi = append(withExtraPhi, header.Instructions[0], extraPhi)
	withExtraPhi = append(withExtraPhi, header.Instructions[1:]...)
	header.Instructions = withExtraPhi

	body, ok := fn.Block(5)
	require.True(t, ok)
	user := ir.NewBinary(spirv.OpIAdd, 201, 51, 50, 50)
	withUser := make([]*ir.Instruction, 0, len(body.Instructions)+1)
	withUser = append(withUser, body.Instructions[:len(body.Instructions)-1]...)
	withUser = append(withUser, user, body.Instructions[len(body.Instructions)-1])
	body.Instructions = withUser

	cache := analysis.NewCache(fn)
	result := unroll.Check(fn, cache, descriptor, loop)
	require.False(t, result.OK)
	assert.Contains(t, result.Reason, "second live phi")
}

// TestCheckRejectsEscapingDef builds a loop body that defines a value a
// block outside loop.Body goes on to use, mirroring the teacher's
// SSA-closure requirement that every definition inside the loop is used
// only inside the loop (except possibly the induction phi).
func TestCheckRejectsEscapingDef(t *testing.T) {
	fn, loop, descriptor, _ := buildLoop(0, 1, 4)

	body, ok := fn.Block(5)
	require.True(t, ok)
	escaping := ir.NewBinary(spirv.OpIAdd, 201, 60, 3, 100)
	withEscaping := make([]*ir.Instruction, 0, len(body.Instructions)+1)
	withEscaping = append(withEscaping, body.Instructions[:len(body.Instructions)-1]...)
	withEscaping = append(withEscaping, escaping, body.Instructions[len(body.Instructions)-1])
	body.Instructions = withEscaping

	merge, ok := fn.Block(8)
	require.True(t, ok)
	user := ir.NewBinary(spirv.OpIAdd, 201, 61, 60, 60)
	withUser := make([]*ir.Instruction, 0, len(merge.Instructions)+1)
	withUser = append(withUser, merge.Instructions[:len(merge.Instructions)-1]...)
	withUser = append(withUser, user, merge.Instructions[len(merge.Instructions)-1])
	merge.Instructions = withUser

	cache := analysis.NewCache(fn)
	result := unroll.Check(fn, cache, descriptor, loop)
	require.False(t, result.OK)
	assert.Contains(t, result.Reason, "used outside the loop")
}

func TestCheckRejectsUnmarkedInnerLoop(t *testing.T) {
	fn, loop, descriptor, _ := buildLoop(0, 1, 4)

	inner := &loopdesc.Loop{Header: 5, PreHeader: 2, Latch: 5, Merge: 6}
	descriptor.AddLoop(inner, loop)

	cache := analysis.NewCache(fn)
	result := unroll.Check(fn, cache, descriptor, loop)
	require.False(t, result.OK)
	assert.Contains(t, result.Reason, "inner loop")
}
