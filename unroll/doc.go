// Package unroll implements the structured-loop unroll transform: the
// legality checker, loop analyzer, block cloner, unroll engine and CFG
// finalizer that together turn a structured SPIR-V loop into straight-line
// code (full unroll) or a loop with a larger, flattened body (partial
// unroll, clean or residual).
//
// The package treats the id allocator, def-use manager, CFG index,
// dominator tree and loop descriptor as collaborators passed in by the
// caller (packages ir, analysis and loopdesc) rather than owning them,
// mirroring the specification's external-interfaces split. It never reads
// or writes a file, spawns a goroutine, or retries a failed operation: a
// structural invariant violation panics, since the module is considered
// poisoned from that point and there is no way to resume the transform
// partway through.
//
// Grounded in the engine/legality-check split of rAzoR8/SPIRV-Tools'
// source/opt/loop_unroller.cc (see original_source/ in the retrieval
// pack) and the pass-over-a-function shape of the other optimizer-style
// repos in the pack (rewritten here as idiomatic Go, not translated).
package unroll
