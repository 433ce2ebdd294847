package loopdesc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spirvunroll/ir"
	"github.com/gogpu/spirvunroll/loopdesc"
	"github.com/gogpu/spirvunroll/spirv"
)

// buildCountingLoop constructs: entry -> header -> {body -> latch -> header, merge}
// for( i = init; i < bound; i += step ) body
// Block/id scheme matches analysis.buildLoopFunction's convention so the
// two packages' fixtures read the same way.
func buildCountingLoop(init, step, bound int32) *ir.Function {
	fn := ir.NewFunction("main")

	entry := ir.NewBasicBlock(1)
	entry.Append(ir.NewConstant(201, 100, uint32(int32(init))))
	entry.Append(ir.NewConstant(201, 101, uint32(int32(step))))
	entry.Append(ir.NewConstant(201, 102, uint32(int32(bound))))
	entry.SetTerminator(ir.NewBranch(2))

	header := ir.NewBasicBlock(2)
	header.Append(ir.NewPhi(201, 3, []ir.PhiIncoming{{Value: 100, Parent: 1}, {Value: 7, Parent: 6}}))
	header.Append(ir.NewBinary(spirv.OpSLessThan, 200, 4, 3, 102))
	header.Append(ir.NewLoopMerge(8, 6, spirv.LoopControlUnroll))
	header.SetTerminator(ir.NewBranchConditional(4, 5, 8))

	body := ir.NewBasicBlock(5)
	body.SetTerminator(ir.NewBranch(6))

	latch := ir.NewBasicBlock(6)
	latch.Append(ir.NewBinary(spirv.OpIAdd, 201, 7, 3, 101))
	latch.SetTerminator(ir.NewBranch(2))

	merge := ir.NewBasicBlock(8)
	merge.SetTerminator(ir.NewReturn())

	fn.Append(entry, header, body, latch, merge)
	return fn
}

func TestFindInductionVariable(t *testing.T) {
	fn := buildCountingLoop(0, 1, 10)

	induction, ok := loopdesc.FindInductionVariable(fn, 2, 1, 6)
	require.True(t, ok)
	assert.Equal(t, uint32(3), induction.Phi.ResultID)
	assert.Equal(t, int64(0), induction.Init)
	assert.Equal(t, int64(1), induction.Step)
	assert.Equal(t, uint32(101), induction.StepValueID)
}

func TestFindInductionVariableRejectsNonPhiHeader(t *testing.T) {
	fn := buildCountingLoop(0, 1, 10)
	// header block has no phi at all once we point at the wrong block.
	_, ok := loopdesc.FindInductionVariable(fn, 5, 1, 6)
	assert.False(t, ok)
}

func TestFindInductionVariableHandlesSubtractStep(t *testing.T) {
	fn := ir.NewFunction("main")

	entry := ir.NewBasicBlock(1)
	entry.Append(ir.NewConstant(201, 100, uint32(10)))
	entry.Append(ir.NewConstant(201, 101, uint32(1)))
	entry.SetTerminator(ir.NewBranch(2))

	header := ir.NewBasicBlock(2)
	header.Append(ir.NewPhi(201, 3, []ir.PhiIncoming{{Value: 100, Parent: 1}, {Value: 7, Parent: 6}}))
	header.SetTerminator(ir.NewBranchConditional(4, 5, 8))

	latch := ir.NewBasicBlock(6)
	latch.Append(ir.NewBinary(spirv.OpISub, 201, 7, 3, 101))
	latch.SetTerminator(ir.NewBranch(2))

	fn.Append(entry, header, latch)

	induction, ok := loopdesc.FindInductionVariable(fn, 2, 1, 6)
	require.True(t, ok)
	assert.Equal(t, int64(-1), induction.Step)
	assert.Equal(t, int64(10), induction.Init)
}

func TestNumberOfIterationsExactMultiple(t *testing.T) {
	fn := buildCountingLoop(0, 1, 10)
	induction, ok := loopdesc.FindInductionVariable(fn, 2, 1, 6)
	require.True(t, ok)

	iterations, bound, boundID, ok := loopdesc.NumberOfIterations(fn, induction, 2)
	require.True(t, ok)
	assert.Equal(t, int64(10), iterations)
	assert.Equal(t, int64(10), bound)
	assert.Equal(t, uint32(102), boundID)
}

func TestNumberOfIterationsCeilingDivision(t *testing.T) {
	fn := buildCountingLoop(0, 4, 10)
	induction, ok := loopdesc.FindInductionVariable(fn, 2, 1, 6)
	require.True(t, ok)

	iterations, _, _, ok := loopdesc.NumberOfIterations(fn, induction, 2)
	require.True(t, ok)
	assert.Equal(t, int64(3), iterations)
}

func TestNumberOfIterationsAlreadyFalse(t *testing.T) {
	fn := buildCountingLoop(10, 1, 10)
	induction, ok := loopdesc.FindInductionVariable(fn, 2, 1, 6)
	require.True(t, ok)

	iterations, _, _, ok := loopdesc.NumberOfIterations(fn, induction, 2)
	require.True(t, ok)
	assert.Equal(t, int64(0), iterations)
}

func TestNumberOfIterationsRejectsWrongComparison(t *testing.T) {
	fn := buildCountingLoop(0, 1, 10)
	induction, ok := loopdesc.FindInductionVariable(fn, 2, 1, 6)
	require.True(t, ok)

	_, _, _, ok = loopdesc.NumberOfIterations(fn, induction, 5)
	assert.False(t, ok)
}

func TestConstantValue(t *testing.T) {
	fn := buildCountingLoop(3, 1, 10)
	v, ok := loopdesc.ConstantValue(fn, 100)
	require.True(t, ok)
	assert.Equal(t, int64(3), v)

	_, ok = loopdesc.ConstantValue(fn, 9999)
	assert.False(t, ok)
}
