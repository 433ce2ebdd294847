package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogpu/spirvunroll/analysis"
)

func TestCFGIndexPredsAndSuccs(t *testing.T) {
	fn := buildLoopFunction()
	cfg := analysis.NewCFGIndex(fn)

	assert.ElementsMatch(t, []uint32{1, 6}, cfg.Preds(2), "header's preds are pre-header and latch")
	assert.ElementsMatch(t, []uint32{5, 8}, cfg.Succs(2), "header branches to body or merge")
	assert.Equal(t, []uint32{2}, cfg.Succs(6), "latch always branches back to header")
	assert.Empty(t, cfg.Succs(8), "merge returns")
}

func TestCFGIndexBlock(t *testing.T) {
	fn := buildLoopFunction()
	cfg := analysis.NewCFGIndex(fn)

	blk, ok := cfg.Block(5)
	assert.True(t, ok)
	assert.Equal(t, uint32(5), blk.ID())

	_, ok = cfg.Block(999)
	assert.False(t, ok)
}
