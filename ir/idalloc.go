package ir

// IDAllocator hands out fresh, module-unique ids. It is the concrete
// implementation of the "ID Allocator" external collaborator described
// in the specification (take_next_id() -> id): ids it allocates are
// strictly greater than any id already present in the module it was
// seeded from, and allocation is monotonically increasing and
// deterministic — the same sequence of calls on an equivalent module
// always produces the same ids.
type IDAllocator struct {
	next uint32
}

// NewIDAllocator creates an allocator that will hand out ids starting
// strictly after bound (the highest id already used in the module).
func NewIDAllocator(bound uint32) *IDAllocator {
	return &IDAllocator{next: bound + 1}
}

// TakeNextID returns a fresh id and advances the allocator.
func (a *IDAllocator) TakeNextID() uint32 {
	id := a.next
	a.next++
	return id
}

// Bound reports one past the highest id the allocator has handed out (or
// one past its seed bound, if it has not allocated anything yet) — the value a
// module's SPIR-V header "bound" field must carry after a transform.
func (a *IDAllocator) Bound() uint32 { return a.next }

// ComputeBound scans a module and returns its highest result or type id,
// for seeding a fresh IDAllocator (which starts one past it).
func ComputeBound(module *Module) uint32 {
	var max uint32
	for _, fn := range module.Functions {
		for _, blk := range fn.Blocks {
			for _, inst := range blk.Instructions {
				if inst.ResultID > max {
					max = inst.ResultID
				}
				if inst.TypeID > max {
					max = inst.TypeID
				}
			}
		}
	}
	return max
}
