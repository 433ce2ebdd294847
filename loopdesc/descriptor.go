package loopdesc

// Descriptor enumerates a function's loops and supports the two-phase
// delete the specification calls for in its Ownership design note:
// MarkForRemoval flags a loop, and PostModificationCleanup later sweeps
// every flagged loop out of the tree, preserving iterator validity for
// anyone still walking Descriptor.Loops mid-pass.
type Descriptor struct {
	loops   []*Loop
	removed map[*Loop]bool
}

// NewDescriptor creates an empty loop descriptor.
func NewDescriptor() *Descriptor {
	return &Descriptor{removed: make(map[*Loop]bool)}
}

// AddLoop registers a new loop as a child of parent (nil for a top-level
// loop). Used both for loops discovered up front and for the duplicate
// loop produced by a residual partial unroll (§4.D), registered as a
// sibling under the same parent as the loop it was split from.
func (d *Descriptor) AddLoop(loop *Loop, parent *Loop) {
	loop.Parent = parent
	if parent != nil {
		parent.Children = append(parent.Children, loop)
	}
	d.loops = append(d.loops, loop)
}

// MarkForRemoval flags loop for deletion on the next
// PostModificationCleanup, without mutating the tree yet.
func (d *Descriptor) MarkForRemoval(loop *Loop) {
	d.removed[loop] = true
}

// PostModificationCleanup removes every loop flagged by MarkForRemoval
// from both the descriptor's flat list and its parent's child list.
func (d *Descriptor) PostModificationCleanup() {
	if len(d.removed) == 0 {
		return
	}
	kept := d.loops[:0]
	for _, loop := range d.loops {
		if d.removed[loop] {
			continue
		}
		kept = append(kept, loop)
	}
	d.loops = kept

	for _, loop := range d.loops {
		if len(loop.Children) == 0 {
			continue
		}
		keptChildren := loop.Children[:0]
		for _, c := range loop.Children {
			if !d.removed[c] {
				keptChildren = append(keptChildren, c)
			}
		}
		loop.Children = keptChildren
	}

	d.removed = make(map[*Loop]bool)
}

// Loops returns every loop currently registered, top-level and nested
// alike, in registration order.
func (d *Descriptor) Loops() []*Loop {
	out := make([]*Loop, len(d.loops))
	copy(out, d.loops)
	return out
}

// IsMarkedForRemoval reports whether loop has been flagged but not yet
// swept.
func (d *Descriptor) IsMarkedForRemoval(loop *Loop) bool { return d.removed[loop] }
