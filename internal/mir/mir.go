// Package mir defines ZULON's mid-level intermediate representation
// (spec §3.2): a three-address, place-based form lowered from HIR by
// HirToMir (lower.go). MIR is the level borrow checking (internal/
// borrowcheck) and async-transform (internal/asynctransform) both
// operate over, and the level MirToLir (internal/lir) consumes.
package mir

import "github.com/RunningShrimp/zulon-language-sub001/internal/types"

// NodeID identifies a basic block within one function, unique only
// within that function.
type NodeID int

// Module is a whole lowered compilation unit.
type Module struct {
	Functions []*Function
}

// Param is a function parameter, already typed as a MirTy.
type Param struct {
	Name string
	Type types.MirTy
}

// Function is one lowered function body: a control-flow graph of basic
// blocks keyed by NodeID, plus the async-transform fields carried
// directly on the function the way the original does (spec
// §4.6/original `async_transform_test.rs`: `is_async` and
// `state_machine` live on the MIR function itself, not on a side table).
type Function struct {
	Name       string
	Params     []Param
	ReturnType types.MirTy
	ErrorType  types.MirTy // nil if none declared
	Blocks     map[NodeID]*BasicBlock
	EntryBlock NodeID
	IsAsync    bool
	StateMachine *StateMachine

	nextBlock NodeID
	nextTemp  int
}

// NewFunction constructs an empty function with a fresh entry block.
func NewFunction(name string, params []Param, ret types.MirTy) *Function {
	f := &Function{
		Name:       name,
		Params:     params,
		ReturnType: ret,
		Blocks:     make(map[NodeID]*BasicBlock),
	}

	f.EntryBlock = f.AllocBlock()

	return f
}

// AllocBlock reserves and inserts a fresh empty basic block.
func (f *Function) AllocBlock() NodeID {
	id := f.nextBlock
	f.nextBlock++
	f.Blocks[id] = &BasicBlock{ID: id}

	return id
}

// AllocTemp reserves a fresh SSA-like temporary place.
func (f *Function) AllocTemp() TempPlace {
	id := f.nextTemp
	f.nextTemp++

	return TempPlace{ID: id}
}

// BasicBlock is a straight-line instruction sequence ending in exactly
// one terminator (spec §3.2).
type BasicBlock struct {
	ID           NodeID
	Instructions []Instruction
	Terminator   Terminator
}

// Push appends an instruction to the block.
func (b *BasicBlock) Push(instr Instruction) { b.Instructions = append(b.Instructions, instr) }

// StateMachine is the synthesized suspend/resume automaton for an async
// function (spec §4.6), grounded on the original's `StateMachine{
// states, output_type}`.
type StateMachine struct {
	States     []State
	OutputType types.MirTy
}

// State is one suspend point of an async function's state machine: the
// block it resumes into, and the set of locals still live across the
// await that produced it (grounded on the original's `State{id,
// block_id, captured}`).
type State struct {
	ID       int
	BlockID  NodeID
	Captured []string
}

// Place is the sum type of MIR lvalues/rvalue-locations (spec §3.2): a
// location instructions read from or write to.
type Place interface{ placeNode() }

// LocalPlace names a surface-level local binding (a parameter or a
// `let`-bound name).
type LocalPlace struct{ Name string }

func (LocalPlace) placeNode() {}

// TempPlace is a compiler-introduced SSA-like temporary.
type TempPlace struct{ ID int }

func (TempPlace) placeNode() {}

// ParamPlace refers to the Nth function parameter directly (used where a
// parameter is read before ever being copied into a LocalPlace).
type ParamPlace struct{ Index int }

func (ParamPlace) placeNode() {}

// FieldPlace projects a struct field out of a base place.
type FieldPlace struct {
	Base  Place
	Field string
}

func (FieldPlace) placeNode() {}

// IndexPlace projects an array/slice element out of a base place.
type IndexPlace struct {
	Base  Place
	Index Place
}

func (IndexPlace) placeNode() {}

// DerefPlace follows a reference/pointer place to its pointee.
type DerefPlace struct{ Base Place }

func (DerefPlace) placeNode() {}

// RefPlace takes a reference to a place (the destination of a Borrow
// instruction).
type RefPlace struct {
	Base    Place
	Mutable bool
}

func (RefPlace) placeNode() {}

// ConstValue is the sum of constant payloads a Const instruction may
// produce.
type ConstValue interface{ constNode() }

type ConstInt int64
type ConstFloat float64
type ConstBool bool
type ConstString string
type ConstUnit struct{}

func (ConstInt) constNode()    {}
func (ConstFloat) constNode()  {}
func (ConstBool) constNode()   {}
func (ConstString) constNode() {}
func (ConstUnit) constNode()   {}

// BinOp enumerates MIR binary operators — kept as its own vocabulary
// distinct from hir.BinOp (spec §3.1's "distinct, statically-separate
// vocabularies" principle, applied consistently at every IR boundary).
type BinOp int

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinBitAnd
	BinBitOr
	BinBitXor
	BinShl
	BinShr
	BinAnd
	BinOr
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
)

// UnOp enumerates MIR unary operators.
type UnOp int

const (
	UnNeg UnOp = iota
	UnNot
)

// Instruction is the sum type of MIR instructions (spec §3.2), grounded
// on the original's closed instruction set: Const, Copy, Move, BinaryOp,
// UnaryOp, Call, Load, Store, Borrow, Drop — nothing else. Aggregate
// construction (struct/array/tuple literals) and `.await` therefore
// lower to Call instructions against synthetic runtime entry points
// rather than growing the instruction set, matching the grounded
// sentinel-call design for awaits (SPEC_FULL.md SUPPLEMENTED FEATURES).
type Instruction interface{ instrNode() }

// ConstInstr materializes a literal into Dest.
type ConstInstr struct {
	Dest  Place
	Value ConstValue
}

func (*ConstInstr) instrNode() {}

// CopyInstr duplicates a Copy-typed place's value into Dest.
type CopyInstr struct {
	Dest Place
	Src  Place
}

func (*CopyInstr) instrNode() {}

// MoveInstr relocates a non-Copy place's value into Dest, leaving Src
// logically uninitialized (checked by internal/borrowcheck as a
// use-after-move hazard if Src is read again).
type MoveInstr struct {
	Dest Place
	Src  Place
}

func (*MoveInstr) instrNode() {}

// BinaryOpInstr computes Left `Op` Right into Dest.
type BinaryOpInstr struct {
	Dest  Place
	Op    BinOp
	Left  Place
	Right Place
}

func (*BinaryOpInstr) instrNode() {}

// UnaryOpInstr computes `Op` Operand into Dest.
type UnaryOpInstr struct {
	Dest    Place
	Op      UnOp
	Operand Place
}

func (*UnaryOpInstr) instrNode() {}

// CallInstr invokes a named function (direct calls only — MIR has
// already resolved method dispatch in HIR, per §4.4), binding the result
// to Dest.
type CallInstr struct {
	Dest Place
	Func string
	Args []Place
}

func (*CallInstr) instrNode() {}

// LoadInstr reads through a pointer/reference place into Dest.
type LoadInstr struct {
	Dest Place
	Src  Place
}

func (*LoadInstr) instrNode() {}

// StoreInstr writes Src's value through a pointer/reference place.
type StoreInstr struct {
	Dest Place
	Src  Place
}

func (*StoreInstr) instrNode() {}

// BorrowKind classifies a borrow as shared (read-only, many allowed) or
// unique (read-write, exclusive) — grounded directly on the original
// Tree Borrows model (`crates/zulon-mir/src/borrow.rs`'s `BorrowKind`).
type BorrowKind int

const (
	BorrowShared BorrowKind = iota
	BorrowUnique
)

// BorrowInstr takes a reference to Src, recorded by internal/borrowcheck
// as a new BorrowNode rooted at Src.
type BorrowInstr struct {
	Dest Place
	Src  Place
	Kind BorrowKind
}

func (*BorrowInstr) instrNode() {}

// DropInstr runs a place's drop glue at end of scope (needed only for
// MirTy.NeedsDropTy() places). HirToMir does not emit it.
type DropInstr struct{ Place Place }

func (*DropInstr) instrNode() {}

// Terminator is the sum type of basic-block terminators (spec §3.2).
type Terminator interface{ termNode() }

// ReturnTerm exits the function, optionally carrying a value.
type ReturnTerm struct{ Value Place } // nil Value means unit return

func (*ReturnTerm) termNode() {}

// GotoTerm unconditionally transfers control to Target.
type GotoTerm struct{ Target NodeID }

func (*GotoTerm) termNode() {}

// IfTerm transfers control to Then or Else based on Cond.
type IfTerm struct {
	Cond Place
	Then NodeID
	Else NodeID
}

func (*IfTerm) termNode() {}

// SwitchCase is one `value => target` arm of a Switch terminator.
type SwitchCase struct {
	Value  ConstValue
	Target NodeID
}

// SwitchTerm dispatches on Scrutinee's value, falling back to Default
// when no case matches (built by asynctransform's resume dispatcher;
// HirToMir lowers match expressions to IfTerm chains instead).
type SwitchTerm struct {
	Scrutinee Place
	Cases     []SwitchCase
	Default   NodeID
}

func (*SwitchTerm) termNode() {}

// UnreachableTerm marks a block the lowering has proven is never
// entered (e.g. the tail of a `Never`-typed expression).
type UnreachableTerm struct{}

func (*UnreachableTerm) termNode() {}
