package unroll

import (
	"github.com/gogpu/spirvunroll/analysis"
	"github.com/gogpu/spirvunroll/ir"
	"github.com/gogpu/spirvunroll/loopdesc"
)

// Context bundles the collaborators the transform needs for one
// function: its analysis cache, its loop descriptor, and the id
// allocator it draws fresh ids from. The id allocator and def-use
// manager are module-wide per the specification's design notes; Context
// is the object that carries them by reference instead of exposing them
// as package-level globals.
type Context struct {
	Func       *ir.Function
	Cache      *analysis.Cache
	Descriptor *loopdesc.Descriptor
	IDs        *ir.IDAllocator
}

// NewContext builds a Context for fn, sharing descriptor and ids with
// the rest of the pass over the enclosing module.
func NewContext(fn *ir.Function, descriptor *loopdesc.Descriptor, ids *ir.IDAllocator) *Context {
	return &Context{Func: fn, Cache: analysis.NewCache(fn), Descriptor: descriptor, IDs: ids}
}

// CanPerformUnroll reports whether loop is a legal unroll candidate
// (§4.A), without mutating anything.
func CanPerformUnroll(ctx *Context, loop *loopdesc.Loop) bool {
	return Check(ctx.Func, ctx.Cache, ctx.Descriptor, loop).OK
}

// FullyUnrollLoop eliminates loop's back-edge entirely. Returns false
// (no mutation) if the loop is not a legal candidate.
func FullyUnrollLoop(ctx *Context, loop *loopdesc.Loop) bool {
	if !CanPerformUnroll(ctx, loop) {
		return false
	}
	info, ok := Analyze(ctx.Func, ctx.Cache, loop)
	if !ok {
		return false
	}
	engine := NewEngine(ctx.Func, ctx.Cache, ctx.Descriptor, ctx.IDs, loop, info)
	engine.FullyUnroll()
	loop.Unrolled = true
	return true
}

// PartiallyUnrollLoop unrolls loop by factor. factor == 1 is a no-op and
// returns false; factor >= the loop's iteration count is promoted to a
// full unroll; otherwise it dispatches to the clean or residual strategy
// based on divisibility.
func PartiallyUnrollLoop(ctx *Context, loop *loopdesc.Loop, factor int64) bool {
	if factor == 1 {
		return false
	}
	if !CanPerformUnroll(ctx, loop) {
		return false
	}
	info, ok := Analyze(ctx.Func, ctx.Cache, loop)
	if !ok {
		return false
	}

	if factor >= info.Iterations {
		engine := NewEngine(ctx.Func, ctx.Cache, ctx.Descriptor, ctx.IDs, loop, info)
		engine.FullyUnroll()
		loop.Unrolled = true
		return true
	}

	engine := NewEngine(ctx.Func, ctx.Cache, ctx.Descriptor, ctx.IDs, loop, info)
	if info.Iterations%factor == 0 {
		engine.PartiallyUnroll(factor)
	} else {
		engine.PartiallyUnrollResidualFactor(factor)
	}
	loop.Unrolled = true
	return true
}

// Finalize triggers the loop descriptor's post-modification cleanup,
// sweeping every loop marked for removal during the transform.
func Finalize(descriptor *loopdesc.Descriptor) {
	descriptor.PostModificationCleanup()
}

// RunPass implements the pass entry point (§6): for every loop in ctx's
// descriptor whose loop-control carries the "Unroll" hint, not already
// processed, invoke full unroll. Reports whether any loop was
// transformed. There are no CLI flags, no files, no environment
// variables to configure this — the pass is a library call.
func RunPass(ctx *Context) bool {
	changed := false
	for _, loop := range ctx.Descriptor.Loops() {
		if loop.Unrolled || ctx.Descriptor.IsMarkedForRemoval(loop) {
			continue
		}
		if !loop.HasUnrollHint() {
			continue
		}
		if FullyUnrollLoop(ctx, loop) {
			changed = true
		}
	}
	Finalize(ctx.Descriptor)
	return changed
}
