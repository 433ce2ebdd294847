// spvdis prints an in-memory SPIR-V function as .spvasm-like text, before
// and after running the structured-loop unroller on it.
//
// It does not read a .spv binary file: the unroller operates on an
// already-parsed ir.Module, so this tool builds one itself (a small
// counting loop) rather than decoding bytes off disk.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gogpu/spirvunroll/analysis"
	"github.com/gogpu/spirvunroll/ir"
	"github.com/gogpu/spirvunroll/loopdesc"
	"github.com/gogpu/spirvunroll/spirv"
	"github.com/gogpu/spirvunroll/unroll"
)

var opcodeNames = map[uint16]string{
	1:   "OpUndef",
	43:  "OpConstant",
	54:  "OpFunction",
	56:  "OpFunctionEnd",
	128: "OpIAdd",
	130: "OpISub",
	177: "OpSLessThan",
	245: "OpPhi",
	246: "OpLoopMerge",
	248: "OpLabel",
	249: "OpBranch",
	250: "OpBranchConditional",
	253: "OpReturn",
	254: "OpReturnValue",
}

func id(n uint32) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("%%_%d", n)
}

func opName(op spirv.OpCode) string {
	if name, ok := opcodeNames[uint16(op)]; ok {
		return name
	}
	return fmt.Sprintf("Op%d", op)
}

// printInstruction writes one instruction in .spvasm-like form. Unlike
// the teacher's raw-binary printer, there is no word-count or string
// literal to decode here: every operand is already typed as ir.Operand.
func printInstruction(inst *ir.Instruction) {
	name := opName(inst.Opcode)

	if inst.IsPhi() {
		fmt.Printf("         %s = %s %s", id(inst.ResultID), name, id(inst.TypeID))
		for _, pair := range inst.Incoming() {
			fmt.Printf(" %s %s", id(pair.Value), id(pair.Parent))
		}
		fmt.Println()
		return
	}

	switch inst.Opcode {
	case spirv.OpLabel:
		fmt.Printf("         %s = %s\n", id(inst.ResultID), name)

	case spirv.OpLoopMerge:
		fmt.Printf("               %s %s %s %d\n", name,
			id(inst.MergeBlockID()), id(inst.ContinueBlockID()), inst.LoopControlMask())

	case spirv.OpBranch:
		fmt.Printf("               %s %s\n", name, id(inst.InOperand(0).Word))

	case spirv.OpBranchConditional:
		fmt.Printf("               %s %s %s %s\n", name,
			id(inst.InOperand(0).Word), id(inst.InOperand(1).Word), id(inst.InOperand(2).Word))

	case spirv.OpReturn:
		fmt.Printf("               %s\n", name)

	case spirv.OpReturnValue:
		fmt.Printf("               %s %s\n", name, id(inst.InOperand(0).Word))

	case spirv.OpConstant:
		fmt.Printf("         %s = %s %s %d\n", id(inst.ResultID), name, id(inst.TypeID), inst.InOperand(0).Word)

	default:
		if inst.HasResult() {
			fmt.Printf("         %s = %s %s", id(inst.ResultID), name, id(inst.TypeID))
		} else {
			fmt.Printf("               %s", name)
		}
		for i := 0; i < inst.InOperandCount(); i++ {
			op := inst.InOperand(i)
			if op.Kind == ir.ID {
				fmt.Printf(" %s", id(op.Word))
			} else {
				fmt.Printf(" %d", op.Word)
			}
		}
		fmt.Println()
	}
}

func printFunction(fn *ir.Function) {
	fmt.Printf("; Function %s\n", fn.Name)
	for _, blk := range fn.Blocks {
		for _, inst := range blk.Instructions {
			printInstruction(inst)
		}
	}
}

// buildCountingLoop constructs `for (i = init; i < bound; i += step) {}`
// as a five-block function: entry/pre-header, header (condition and
// induction phi coincide here, the common case), body, latch, merge.
func buildCountingLoop(init, step, bound int32) *ir.Function {
	fn := ir.NewFunction("main")

	entry := ir.NewBasicBlock(1)
	entry.Append(ir.NewConstant(201, 100, uint32(init)))
	entry.Append(ir.NewConstant(201, 101, uint32(step)))
	entry.Append(ir.NewConstant(201, 102, uint32(bound)))
	entry.SetTerminator(ir.NewBranch(2))

	header := ir.NewBasicBlock(2)
	header.Append(ir.NewPhi(201, 3, []ir.PhiIncoming{{Value: 100, Parent: 1}, {Value: 7, Parent: 6}}))
	header.Append(ir.NewBinary(spirv.OpSLessThan, 200, 4, 3, 102))
	header.Append(ir.NewLoopMerge(8, 6, spirv.LoopControlUnroll))
	header.SetTerminator(ir.NewBranchConditional(4, 5, 8))

	body := ir.NewBasicBlock(5)
	body.SetTerminator(ir.NewBranch(6))

	latch := ir.NewBasicBlock(6)
	latch.Append(ir.NewBinary(spirv.OpIAdd, 201, 7, 3, 101))
	latch.SetTerminator(ir.NewBranch(2))

	merge := ir.NewBasicBlock(8)
	merge.SetTerminator(ir.NewReturn())

	fn.Append(entry, header, body, latch, merge)
	return fn
}

func main() {
	factor := flag.Int64("factor", 0, "partial unroll factor; 0 (default) means fully unroll")
	init := flag.Int64("init", 0, "induction variable initial value")
	step := flag.Int64("step", 1, "induction variable step")
	bound := flag.Int64("bound", 4, "loop bound (exclusive)")
	flag.Parse()

	fn := buildCountingLoop(int32(*init), int32(*step), int32(*bound))

	loop := &loopdesc.Loop{
		Header: 2, PreHeader: 1, Latch: 6, Merge: 8, Condition: 2,
		Body: []uint32{2, 5, 6}, Control: spirv.LoopControlUnroll,
	}
	descriptor := loopdesc.NewDescriptor()
	descriptor.AddLoop(loop, nil)

	module := &ir.Module{Functions: []*ir.Function{fn}}
	ids := ir.NewIDAllocator(ir.ComputeBound(module))
	ctx := &unroll.Context{Func: fn, Cache: analysis.NewCache(fn), Descriptor: descriptor, IDs: ids}

	fmt.Println("; before")
	printFunction(fn)

	var ok bool
	if *factor <= 0 {
		ok = unroll.FullyUnrollLoop(ctx, loop)
	} else {
		ok = unroll.PartiallyUnrollLoop(ctx, loop, *factor)
	}
	unroll.Finalize(descriptor)

	if !ok {
		fmt.Fprintln(os.Stderr, "; loop was not a legal unroll candidate")
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("; after")
	printFunction(fn)
}
