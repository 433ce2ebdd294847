// Package analysis implements the def-use manager, CFG index and
// dominator analysis that the specification treats as external
// collaborators (§6): concrete, minimal, in-memory implementations over
// package ir's data model, plus an invalidation cache so package unroll
// can drop stale analyses after a structural edit without recomputing
// anything it hasn't asked for yet.
//
// Grounded in the dominator/CFG style of golang.org/x/tools/go/ssa
// (lift.go) and uber-go/nilaway's preprocess/cfg.go from the retrieval
// pack: an iterative dataflow fixpoint for dominators, a simple
// id -> *ir.BasicBlock / id -> preds map for the CFG index, and a
// def/users map keyed by result id for the def-use manager.
package analysis
