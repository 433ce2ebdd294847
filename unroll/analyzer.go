package unroll

import (
	"github.com/gogpu/spirvunroll/analysis"
	"github.com/gogpu/spirvunroll/ir"
	"github.com/gogpu/spirvunroll/loopdesc"
)

// Analysis is the Loop Analyzer's cached output (§4.B, `Init`): the
// condition block, the induction variable, its constants, and the loop's
// body blocks in dominator pre-order.
type Analysis struct {
	ConditionBlock uint32
	Induction      *loopdesc.Induction
	Iterations     int64
	Bound          int64
	BoundID        uint32

	// OrderedBlocks is the loop's body in a dominator-tree pre-order
	// traversal starting at the header and stopping at the merge. Cloning
	// walks this list in order so the relative position of header, latch
	// and condition block survives into the unrolled output.
	OrderedBlocks []uint32
}

// Analyze runs the Loop Analyzer on an already-accepted loop. It must
// only be called after Check has returned OK: true.
func Analyze(fn *ir.Function, cache *analysis.Cache, loop *loopdesc.Loop) (*Analysis, bool) {
	conditionBlock := loop.Condition
	if conditionBlock == 0 {
		cb, ok := findConditionBlock(cache, loop)
		if !ok {
			return nil, false
		}
		conditionBlock = cb
		loop.Condition = cb
	}

	induction, ok := loopdesc.FindInductionVariable(fn, loop.Header, loop.PreHeader, loop.Latch)
	if !ok {
		return nil, false
	}

	iterations, bound, boundID, ok := loopdesc.NumberOfIterations(fn, induction, conditionBlock)
	if !ok {
		return nil, false
	}

	dom := cache.Dominators()
	ordered := dom.LoopOrder(loop.Header, loop.Merge)

	return &Analysis{
		ConditionBlock: conditionBlock,
		Induction:      induction,
		Iterations:     iterations,
		Bound:          bound,
		BoundID:        boundID,
		OrderedBlocks:  ordered,
	}, true
}
