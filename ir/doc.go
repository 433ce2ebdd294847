// Package ir defines the structured SPIR-V intermediate representation
// that the unroll pass operates on: instructions, basic blocks, functions
// and modules, already parsed — parsing and binary encoding are treated
// as external concerns (see cmd/spvdis for a minimal text disassembler
// used only for demonstration).
//
// # Structure
//
// A Module holds Functions; a Function is an ordered list of BasicBlocks;
// a BasicBlock is a non-empty ordered list of Instructions beginning with
// an OpLabel. Every id (block label or instruction result) is a plain
// uint32, matching SPIR-V's own numbering.
//
// # References
//
// This IR's shape is grounded in the teacher package's own SPIR-V opcode
// tables (package spirv) and, for the instruction/operand model, in
// rAzoR8/SPIRV-Tools' source/opt IR (Instruction::result_id,
// Instruction::ForEachInId) as described by the specification this
// package implements.
package ir
