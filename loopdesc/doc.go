// Package loopdesc implements the "Loop Descriptor" and "Loop Utilities"
// external collaborators from the specification (§6): a Loop value
// describing one structured loop's header/latch/merge/pre-header/parent
// relationship, a Descriptor that enumerates loops and supports
// mark-for-removal plus post-modification cleanup, and induction-variable
// / iteration-count analysis over package ir's instructions.
//
// Grounded in the loop-detection shape of y1yang0/falcon's
// src/compile/ssa/loop.go and the induction-variable bookkeeping of
// momchil-velikov/go's cmd/compile/internal/ssa/licm.go and
// malphas-lang/malphas-lang's internal/mir/optimize/licm.go, all from the
// retrieval pack — each walks a dominator-tree-confirmed loop header to
// find a single phi fed by a constant pre-header value and a
// compile-time-constant step.
package loopdesc
