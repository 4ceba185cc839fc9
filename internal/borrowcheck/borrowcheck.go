// Package borrowcheck implements ZULON's Tree Borrows-style aliasing
// check over MIR (spec §4.2/§4.3's borrow rules, made concrete at the
// MIR level since that is where Borrow/Move/Drop instructions exist).
// Check walks each function's blocks, tracking which root place each
// active borrow is rooted at, and reports a conflict the moment two
// borrows of the same root would violate read/write exclusivity, a
// place is read or copied after it was moved, or a place is moved while
// still borrowed.
package borrowcheck

import (
	"fmt"

	"github.com/RunningShrimp/zulon-language-sub001/internal/diagnostic"
	"github.com/RunningShrimp/zulon-language-sub001/internal/mir"
	"github.com/RunningShrimp/zulon-language-sub001/internal/position"
)

// Permission mirrors the original Tree Borrows model's three-state
// permission lattice: a place starts ReadWrite, a shared borrow
// downgrades its root to Read, and a unique borrow downgrades it to
// Disable until the borrow ends.
type Permission int

const (
	PermReadWrite Permission = iota
	PermRead
	PermDisable
)

// BorrowNode is one live borrow, rooted at a place identity (see
// rootOf) rather than a full Place value, since aliasing is a property
// of the underlying storage a place projects into, not of the
// projection path used to reach it.
type BorrowNode struct {
	ID    int
	Kind  mir.BorrowKind
	Root  string
	Block mir.NodeID
}

// Checker accumulates borrow state across one function's blocks.
type Checker struct {
	bag *diagnostic.Bag

	borrows []BorrowNode
	nextID  int

	// active holds, per root place, the IDs of borrows still live in
	// the block currently being checked. Borrows do not survive a block
	// boundary in this model (CheckFunction resets active per block):
	// MIR carries no explicit "end of borrow" instruction or lexical
	// scope marker, so a block is taken as a borrow's maximal lifetime
	// (see DESIGN.md). A conflict between a borrow and a use in a later
	// block is therefore not reported.
	active map[string][]int

	// moved records root places a Move instruction has already consumed
	// (spec §4.2 "using a moved-from place is an error").
	moved map[string]bool
}

// New creates a Checker reporting into bag.
func New(bag *diagnostic.Bag) *Checker {
	return &Checker{bag: bag, active: map[string][]int{}, moved: map[string]bool{}}
}

// Check borrow-checks every function in mod, reporting diagnostics into
// bag. It never returns an error: every finding is a diagnostic, not a
// Go error (spec §5/§7).
func Check(mod *mir.Module, bag *diagnostic.Bag) {
	for _, fn := range mod.Functions {
		c := New(bag)
		c.CheckFunction(fn)
	}
}

// CheckFunction walks fn's blocks in allocation order (a stand-in for a
// real reverse-postorder CFG walk — block IDs are allocated in control
// order by internal/mir's lowering pass, so this is already a correct
// topological approximation for the straight-line and structured
// control flow HirToMir produces).
func (c *Checker) CheckFunction(fn *mir.Function) {
	for _, id := range sortedBlockIDs(fn) {
		b := fn.Blocks[id]

		c.active = map[string][]int{}

		for _, instr := range b.Instructions {
			c.CheckInstruction(id, instr)
		}

		c.CheckTerminator(id, b.Terminator)
	}
}

func sortedBlockIDs(fn *mir.Function) []mir.NodeID {
	ids := make([]mir.NodeID, 0, len(fn.Blocks))
	for id := range fn.Blocks {
		ids = append(ids, id)
	}

	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}

	return ids
}

// CollectBorrows returns every borrow this Checker has recorded so far,
// in the order they were added.
func (c *Checker) CollectBorrows() []BorrowNode { return c.borrows }

// CanRead reports whether root may currently be read: blocked only by
// an active unique (exclusive) borrow of the same root.
func (c *Checker) CanRead(root string) bool {
	for _, id := range c.active[root] {
		if c.borrows[id].Kind == mir.BorrowUnique {
			return false
		}
	}

	return true
}

// CanWrite reports whether root may currently be written: blocked by
// any active borrow of the same root, shared or unique.
func (c *Checker) CanWrite(root string) bool {
	return len(c.active[root]) == 0
}

// AddBorrow records a new borrow of root, returning its ID.
func (c *Checker) AddBorrow(root string, kind mir.BorrowKind, block mir.NodeID) int {
	id := c.nextID
	c.nextID++

	c.borrows = append(c.borrows, BorrowNode{ID: id, Kind: kind, Root: root, Block: block})
	c.active[root] = append(c.active[root], id)

	return id
}

// CheckInstruction applies one MIR instruction's effect on borrow and
// move state, reporting any conflict it finds.
func (c *Checker) CheckInstruction(block mir.NodeID, instr mir.Instruction) {
	switch x := instr.(type) {
	case *mir.BorrowInstr:
		root := rootOf(x.Src)

		ok := true
		if x.Kind == mir.BorrowUnique {
			ok = c.CanWrite(root)
		} else {
			ok = c.CanRead(root)
		}

		if !ok {
			c.reportConflict(root)
		}

		c.AddBorrow(root, x.Kind, block)
	case *mir.StoreInstr:
		root := rootOf(x.Dest)
		if !c.CanWrite(root) {
			c.reportConflict(root)
		}
	case *mir.LoadInstr:
		c.checkRead(rootOf(x.Src))
	case *mir.CopyInstr:
		c.checkRead(rootOf(x.Src))
	case *mir.MoveInstr:
		root := rootOf(x.Src)

		if len(c.active[root]) > 0 {
			c.reportMoveWhileBorrowed(root)
		}

		c.moved[root] = true
	case *mir.DropInstr:
		delete(c.active, rootOf(x.Place))
	}
}

func (c *Checker) checkRead(root string) {
	if c.moved[root] {
		c.reportUseAfterMove(root)
		return
	}

	if !c.CanRead(root) {
		c.reportConflict(root)
	}
}

// CheckTerminator applies the same read-after-move check to whichever
// place a terminator reads to make its control-flow decision.
func (c *Checker) CheckTerminator(_ mir.NodeID, term mir.Terminator) {
	switch x := term.(type) {
	case *mir.ReturnTerm:
		if x.Value != nil {
			c.checkRead(rootOf(x.Value))
		}
	case *mir.IfTerm:
		c.checkRead(rootOf(x.Cond))
	case *mir.SwitchTerm:
		c.checkRead(rootOf(x.Scrutinee))
	}
}

// rootOf resolves a place to the identity of its underlying storage,
// following field/index/deref/ref projections back to the local,
// temporary, or parameter they are ultimately rooted in. Two places
// that project from the same root can alias; two places with different
// roots never do (a coarser approximation than real Tree Borrows'
// per-field tree, adequate for this core since MIR has no separate
// per-field liveness table to refine it against).
func rootOf(p mir.Place) string {
	switch x := p.(type) {
	case mir.LocalPlace:
		return "local:" + x.Name
	case mir.TempPlace:
		return fmt.Sprintf("temp:%d", x.ID)
	case mir.ParamPlace:
		return fmt.Sprintf("param:%d", x.Index)
	case mir.FieldPlace:
		return rootOf(x.Base)
	case mir.IndexPlace:
		return rootOf(x.Base)
	case mir.DerefPlace:
		return rootOf(x.Base)
	case mir.RefPlace:
		return rootOf(x.Base)
	default:
		return "?"
	}
}

// MIR carries no source span (internal/mir's grounding notes this), so
// these diagnostics anchor to the zero Span; a future pass could carry
// spans through HirToMir's lowering if precise locations become
// necessary.
var noSpan = position.Span{}

func (c *Checker) reportConflict(root string) {
	c.bag.Add(diagnostic.New(diagnostic.Error, fmt.Sprintf("conflicting borrows of %s", root), noSpan).
		WithCode(diagnostic.BorrowConflict.StableCode()).
		WithNote("a mutable borrow must be exclusive of every other borrow of the same place").
		Build())
}

func (c *Checker) reportUseAfterMove(root string) {
	c.bag.Add(diagnostic.New(diagnostic.Error, fmt.Sprintf("use of moved value %s", root), noSpan).
		WithCode(diagnostic.UseAfterMove.StableCode()).
		Build())
}

func (c *Checker) reportMoveWhileBorrowed(root string) {
	c.bag.Add(diagnostic.New(diagnostic.Error, fmt.Sprintf("cannot move %s while it is borrowed", root), noSpan).
		WithCode(diagnostic.MoveWhileBorrowed.StableCode()).
		Build())
}
