package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogpu/spirvunroll/analysis"
)

func TestDomTreeDominates(t *testing.T) {
	fn := buildLoopFunction()
	cfg := analysis.NewCFGIndex(fn)
	dom := analysis.NewDomTree(fn, cfg)

	assert.True(t, dom.Dominates(2, 5), "header dominates body")
	assert.True(t, dom.Dominates(2, 6), "header dominates latch")
	assert.True(t, dom.Dominates(2, 8), "header dominates merge")
	assert.True(t, dom.Dominates(1, 2), "entry dominates header")
	assert.False(t, dom.Dominates(5, 2), "body does not dominate header (loop)")
	assert.True(t, dom.Dominates(2, 2), "a block dominates itself")
}

func TestDomTreeLoopOrderStartsAtHeaderStopsAtMerge(t *testing.T) {
	fn := buildLoopFunction()
	cfg := analysis.NewCFGIndex(fn)
	dom := analysis.NewDomTree(fn, cfg)

	order := dom.LoopOrder(2, 8)

	assert.Contains(t, order, uint32(2))
	assert.Contains(t, order, uint32(5))
	assert.Contains(t, order, uint32(6))
	assert.NotContains(t, order, uint32(8), "merge is excluded from loop order")
	assert.Equal(t, uint32(2), order[0], "header is always first")
}

func TestDomTreePreOrderFromEntry(t *testing.T) {
	fn := buildLoopFunction()
	cfg := analysis.NewCFGIndex(fn)
	dom := analysis.NewDomTree(fn, cfg)

	order := dom.PreOrder()
	assert.Equal(t, uint32(1), order[0])
	assert.Len(t, order, 5)
}
