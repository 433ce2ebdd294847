package loopdesc

import "github.com/gogpu/spirvunroll/spirv"

// Loop describes one structured loop, as produced by the (external, out
// of scope) loop descriptor builder that walks a function's dominator
// tree looking for back-edges. See spec §3 for the definition of each
// field.
type Loop struct {
	Header    uint32
	PreHeader uint32
	Latch     uint32
	Merge     uint32
	// Condition is the block ending in the conditional branch that
	// chooses between staying in the loop and branching to Merge. May
	// equal Header.
	Condition uint32
	// Body is the set of blocks dominated by Header and not dominated by
	// Merge, including Header and Latch.
	Body []uint32

	Parent   *Loop
	Children []*Loop

	// Control is the loop-merge instruction's immutable hint bitmask.
	Control spirv.LoopControl

	// Unrolled marks a loop the pass has already transformed, so a later
	// call over the same descriptor does not revisit it. This is not in
	// spec.md directly; it supplements the idempotency guard the original
	// implementation gets from removing the "Unroll" hint and (for
	// partial unrolls) never re-queuing the loop for another pass run.
	Unrolled bool
}

// HasUnrollHint reports whether the loop's control mask requests
// unrolling.
func (l *Loop) HasUnrollHint() bool {
	return l.Control&spirv.LoopControlUnroll != 0
}

// InBody reports whether id is one of the loop's body blocks.
func (l *Loop) InBody(id uint32) bool {
	for _, b := range l.Body {
		if b == id {
			return true
		}
	}
	return false
}
