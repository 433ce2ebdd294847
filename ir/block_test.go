package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spirvunroll/ir"
	"github.com/gogpu/spirvunroll/spirv"
)

func buildSimpleLoopBlock(t *testing.T, id, mergeID, continueID uint32) *ir.BasicBlock {
	t.Helper()
	blk := ir.NewBasicBlock(id)
	blk.Append(ir.NewLoopMerge(mergeID, continueID, spirv.LoopControlUnroll))
	blk.Append(ir.NewBranch(continueID))
	return blk
}

func TestBasicBlockMergeAndTerminator(t *testing.T) {
	blk := buildSimpleLoopBlock(t, 1, 2, 3)

	require.Equal(t, uint32(1), blk.ID())
	merge, ok := blk.Merge()
	require.True(t, ok)
	assert.Equal(t, spirv.OpLoopMerge, merge.Opcode)
	assert.Equal(t, spirv.OpBranch, blk.Terminator().Opcode)
}

func TestBasicBlockNoMergeWhenAbsent(t *testing.T) {
	blk := ir.NewBasicBlock(1)
	blk.Append(ir.NewBranch(2))

	_, ok := blk.Merge()
	assert.False(t, ok)
}

func TestBasicBlockRemoveMerge(t *testing.T) {
	blk := buildSimpleLoopBlock(t, 1, 2, 3)
	blk.RemoveMerge()

	_, ok := blk.Merge()
	assert.False(t, ok)
	assert.Equal(t, spirv.OpBranch, blk.Terminator().Opcode, "terminator survives merge removal")
}

func TestBasicBlockPhis(t *testing.T) {
	blk := ir.NewBasicBlock(1)
	phi := ir.NewPhi(10, 11, []ir.PhiIncoming{{Value: 1, Parent: 2}})
	blk.Append(phi)
	blk.Append(ir.NewBranch(5))

	phis := blk.Phis()
	require.Len(t, phis, 1)
	assert.Same(t, phi, phis[0])
}

func TestBasicBlockClone(t *testing.T) {
	blk := buildSimpleLoopBlock(t, 1, 2, 3)
	clone := blk.Clone()

	clone.Instructions[0].ResultID = 42
	assert.Equal(t, uint32(1), blk.ID(), "cloning must not alias instructions")
	assert.Equal(t, uint32(42), clone.ID())
}

func TestBasicBlockTerminatorPanicsWhenMissing(t *testing.T) {
	blk := &ir.BasicBlock{Instructions: []*ir.Instruction{ir.NewLabel(1)}}
	assert.Panics(t, func() { blk.Terminator() })
}
