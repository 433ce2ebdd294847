package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spirvunroll/ir"
	"github.com/gogpu/spirvunroll/spirv"
)

func TestInstructionForEachInID(t *testing.T) {
	inst := ir.NewBranchConditional(10, 20, 30)

	var seen []uint32
	inst.ForEachInID(func(id *uint32) { seen = append(seen, *id) })
	assert.Equal(t, []uint32{10, 20, 30}, seen)
}

func TestInstructionForEachInIDRewrites(t *testing.T) {
	inst := ir.NewBranch(5)

	inst.ForEachInID(func(id *uint32) { *id = 99 })
	assert.Equal(t, uint32(99), inst.InOperand(0).Word)
}

func TestInstructionLiteralsAreNotWalked(t *testing.T) {
	inst := ir.NewLoopMerge(100, 200, spirv.LoopControlUnroll)

	var seen []uint32
	inst.ForEachInID(func(id *uint32) { seen = append(seen, *id) })
	// Only the two block ids are walked; the control-mask literal is not.
	assert.Equal(t, []uint32{100, 200}, seen)
	assert.Equal(t, uint32(100), inst.MergeBlockID())
	assert.Equal(t, uint32(200), inst.ContinueBlockID())
	assert.Equal(t, spirv.LoopControlUnroll, inst.LoopControlMask())
}

func TestPhiIncomingRoundTrip(t *testing.T) {
	phi := ir.NewPhi(1 /*typeID*/, 2 /*resultID*/, []ir.PhiIncoming{
		{Value: 10, Parent: 11},
		{Value: 20, Parent: 21},
	})

	require.True(t, phi.IsPhi())
	pairs := phi.Incoming()
	require.Len(t, pairs, 2)
	assert.Equal(t, ir.PhiIncoming{Value: 10, Parent: 11}, pairs[0])

	v, ok := phi.IncomingForParent(21)
	require.True(t, ok)
	assert.Equal(t, uint32(20), v)

	phi.SetIncoming(1, 99, 21)
	v, ok = phi.IncomingForParent(21)
	require.True(t, ok)
	assert.Equal(t, uint32(99), v)
}

func TestIncomingPanicsOnNonPhi(t *testing.T) {
	inst := ir.NewBranch(1)
	assert.Panics(t, func() { inst.Incoming() })
}

func TestInstructionCloneIsDeep(t *testing.T) {
	original := ir.NewBranchConditional(1, 2, 3)
	clone := original.Clone()

	clone.SetInOperand(0, ir.IDOperand(99))
	assert.Equal(t, uint32(1), original.InOperand(0).Word, "mutating clone must not affect original")
	assert.Equal(t, uint32(99), clone.InOperand(0).Word)
}

func TestIsTerminator(t *testing.T) {
	tests := []struct {
		name string
		inst *ir.Instruction
		want bool
	}{
		{"branch", ir.NewBranch(1), true},
		{"branch conditional", ir.NewBranchConditional(1, 2, 3), true},
		{"return", ir.NewReturn(), true},
		{"label", ir.NewLabel(1), false},
		{"loop merge", ir.NewLoopMerge(1, 2, spirv.LoopControlNone), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.inst.IsTerminator())
		})
	}
}
