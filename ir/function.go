package ir

// Function is an ordered list of basic blocks; the first block is the
// entry block.
type Function struct {
	Name   string
	Blocks []*BasicBlock
}

// NewFunction creates an empty function.
func NewFunction(name string) *Function {
	return &Function{Name: name}
}

// Entry returns the function's entry block.
func (f *Function) Entry() *BasicBlock { return f.Blocks[0] }

// IndexOf returns the index of the block with the given id.
func (f *Function) IndexOf(id uint32) (int, bool) {
	for i, b := range f.Blocks {
		if b.ID() == id {
			return i, true
		}
	}
	return 0, false
}

// Block returns the block with the given id.
func (f *Function) Block(id uint32) (*BasicBlock, bool) {
	idx, ok := f.IndexOf(id)
	if !ok {
		return nil, false
	}
	return f.Blocks[idx], true
}

// InsertBefore splices newBlocks into the function's block list
// immediately before the block named by insertPoint. It is a precondition
// that insertPoint names a block in this function; violating it is a
// fatal bug (see package unroll's CFG Finalizer), not something this
// method recovers from.
func (f *Function) InsertBefore(insertPoint uint32, newBlocks []*BasicBlock) {
	idx, ok := f.IndexOf(insertPoint)
	if !ok {
		panic("ir: insertion point not found in function")
	}
	tail := make([]*BasicBlock, len(f.Blocks)-idx)
	copy(tail, f.Blocks[idx:])
	f.Blocks = append(f.Blocks[:idx], append(newBlocks, tail...)...)
}

// Append adds blocks to the end of the function's block list.
func (f *Function) Append(blocks ...*BasicBlock) {
	f.Blocks = append(f.Blocks, blocks...)
}

// Module is the top-level container: an ordered list of functions.
type Module struct {
	Functions []*Function
}
