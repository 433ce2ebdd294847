package analysis

import "github.com/gogpu/spirvunroll/ir"

// DefUse tracks, for every id defined in a function, the instruction that
// defines it and the set of instructions that use it — the concrete
// implementation of the "Def-Use Manager" external collaborator (§6):
// get_def(id), users(instruction), replace_all_uses_with(old, new).
type DefUse struct {
	defs  map[uint32]*ir.Instruction
	users map[uint32][]*ir.Instruction
}

// NewDefUse builds a def-use manager for fn by scanning every
// instruction once.
func NewDefUse(fn *ir.Function) *DefUse {
	du := &DefUse{
		defs:  make(map[uint32]*ir.Instruction),
		users: make(map[uint32][]*ir.Instruction),
	}
	for _, blk := range fn.Blocks {
		for _, inst := range blk.Instructions {
			if inst.HasResult() {
				du.defs[inst.ResultID] = inst
			}
			inst.ForEachInID(func(id *uint32) {
				du.users[*id] = append(du.users[*id], inst)
			})
		}
	}
	return du
}

// Def returns the instruction that defines id.
func (du *DefUse) Def(id uint32) (*ir.Instruction, bool) {
	inst, ok := du.defs[id]
	return inst, ok
}

// Users returns every instruction that names id in one of its
// in-operands.
func (du *DefUse) Users(id uint32) []*ir.Instruction { return du.users[id] }

// NumUsers reports how many instructions use id — used by the Legality
// Checker to tolerate a dead header phi (zero users) while rejecting a
// live one.
func (du *DefUse) NumUsers(id uint32) int { return len(du.users[id]) }

// ReplaceAllUsesWith rewrites every in-operand naming oldID to name
// newID instead, and updates the users index accordingly.
func (du *DefUse) ReplaceAllUsesWith(oldID, newID uint32) {
	users := du.users[oldID]
	delete(du.users, oldID)
	for _, inst := range users {
		inst.ForEachInID(func(id *uint32) {
			if *id == oldID {
				*id = newID
			}
		})
		du.users[newID] = append(du.users[newID], inst)
	}
}
