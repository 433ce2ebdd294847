package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogpu/spirvunroll/analysis"
)

func TestCacheLazilyBuildsAndMemoizes(t *testing.T) {
	fn := buildLoopFunction()
	cache := analysis.NewCache(fn)

	cfg1 := cache.CFG()
	cfg2 := cache.CFG()
	assert.Same(t, cfg1, cfg2, "repeated CFG() calls reuse the cached instance")
}

func TestCacheInvalidateExceptRebuildsDropped(t *testing.T) {
	fn := buildLoopFunction()
	cache := analysis.NewCache(fn)

	cfg1 := cache.CFG()
	dom1 := cache.Dominators()

	cache.InvalidateExcept(analysis.KindDominators)

	cfg2 := cache.CFG()
	dom2 := cache.Dominators()

	assert.NotSame(t, cfg1, cfg2, "CFG index was invalidated and rebuilt")
	assert.Same(t, dom1, dom2, "dominators were kept")
}
