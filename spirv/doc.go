// Package spirv declares the SPIR-V opcode numbers, control-flow bit
// flags, decorations and extended-instruction constants used elsewhere in
// this module.
//
// # Scope
//
// This package is pure vocabulary: OpCode values, LoopControl and
// SelectionControl bitmasks, decorations, storage classes and the
// GLSL.std.450 extended instruction set. It intentionally does not define
// an instruction, basic block or module representation — that is the job
// of package ir, which imports these constants. Parsing SPIR-V binary or
// disassembling it back to text is likewise out of scope for this
// package. Nothing in this module parses SPIR-V binary; cmd/spvdis prints
// an in-memory ir function as text for demonstration purposes.
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
