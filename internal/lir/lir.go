// Package lir defines ZULON's low-level intermediate representation
// (spec §3.2/§4.8): a register-and-memory form close enough to a target
// ISA that internal/layout's struct/enum/ABI decisions are already
// baked into every type it carries. MirToLir (lower.go) is the only
// producer; nothing downstream of this core consumes LIR (spec §1
// excludes codegen), so LIR's job ends at "a checkable, inspectable
// structure", matching the original crate's own lir.rs scope.
package lir

import (
	"fmt"

	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

// NodeID identifies a basic block within one function.
type NodeID int

// VReg identifies a virtual register: either an SSA value (the result
// of an instruction) or, for this core's lowering, a pointer to a
// stack slot (see lower.go's Open Question on SSA/phi construction).
type VReg int

// Module is a whole lowered compilation unit.
type Module struct {
	Functions []*Function
	Externals []External
}

// External declares a foreign function signature a Call may target
// without this core ever seeing its body (spec §4.7's FFI surface).
type External struct {
	Name   string
	Params []types.LirTy
	Return types.LirTy
}

// Function is one lowered function body: a control-flow graph of basic
// blocks, each holding phi nodes (unused by this core's memory-based
// lowering, but part of the entity set so a later mem2reg pass has
// somewhere to put them), straight-line instructions, and exactly one
// terminator.
type Function struct {
	Name       string
	Params     []VReg
	ParamTypes []types.LirTy
	ReturnType types.LirTy
	Blocks     map[NodeID]*Block
	EntryBlock NodeID

	nextBlock NodeID
	nextVReg  int
}

// NewFunction constructs an empty function with a fresh entry block.
func NewFunction(name string, paramTypes []types.LirTy, ret types.LirTy) *Function {
	f := &Function{
		Name:       name,
		ParamTypes: paramTypes,
		ReturnType: ret,
		Blocks:     make(map[NodeID]*Block),
	}

	f.EntryBlock = f.AllocBlock()

	params := make([]VReg, len(paramTypes))
	for i := range params {
		params[i] = f.AllocVReg()
	}

	f.Params = params

	return f
}

// AllocBlock reserves and inserts a fresh empty basic block.
func (f *Function) AllocBlock() NodeID {
	id := f.nextBlock
	f.nextBlock++
	f.Blocks[id] = &Block{ID: id}

	return id
}

// AllocVReg reserves a fresh virtual register.
func (f *Function) AllocVReg() VReg {
	id := f.nextVReg
	f.nextVReg++

	return VReg(id)
}

// Block is a straight-line instruction sequence, preceded by any phi
// nodes live at its head, ending in exactly one terminator.
type Block struct {
	ID           NodeID
	Phis         []Phi
	Instructions []Instruction
	Terminator   Terminator
}

// Push appends an instruction to the block.
func (b *Block) Push(instr Instruction) { b.Instructions = append(b.Instructions, instr) }

// Phi selects Def's value from whichever predecessor block control
// arrived from. MirToLir never constructs one (see lower.go): every MIR
// place lowers to a stack slot read and written via Load/Store, so no
// join point ever needs a register-level merge. Phi exists so a future
// mem2reg-style promotion pass, given a liveness/dominance analysis this
// core does not build, has a real node to emit into.
type Phi struct {
	Def     VReg
	Sources map[NodeID]Operand
	Type    types.LirTy
}

// Operand is an instruction argument: a register or an immediate.
type Operand interface{ operandNode() }

type RegOperand struct{ Reg VReg }
type ImmOperand struct{ Value int64 }
type ImmFloatOperand struct{ Value float64 }

func (RegOperand) operandNode()      {}
func (ImmOperand) operandNode()      {}
func (ImmFloatOperand) operandNode() {}

// BinOp enumerates LIR's arithmetic/bitwise/logical operators. Ordering
// comparisons are not here — those go through CmpInstr, which is where
// the original's codegen-facing instruction set keeps them, since a
// comparison produces a boolean result from two operands of the same
// type while an arithmetic op stays within that type.
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
)

// UnOp enumerates LIR's unary operators.
type UnOp int

const (
	UnNeg UnOp = iota
	UnNot
)

// CmpOp enumerates LIR's ordering/equality comparisons.
type CmpOp int

const (
	CmpEq CmpOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// Instruction is the sum type of LIR instructions, grounded on the
// original's codegen-facing set: Alloca, Const, Copy, BinaryOp, UnaryOp,
// Load, Store, Gep, Call, CallExternal, Cmp, Cast, RefInc, RefDec.
type Instruction interface{ instrNode() }

// AllocaInstr reserves a stack slot of Type, binding its address to
// Dest.
type AllocaInstr struct {
	Dest VReg
	Type types.LirTy
}

func (*AllocaInstr) instrNode() {}

// ConstInstr materializes an immediate into Dest.
type ConstInstr struct {
	Dest  VReg
	Type  types.LirTy
	Value Operand
}

func (*ConstInstr) instrNode() {}

// CopyInstr duplicates one register's value into another.
type CopyInstr struct {
	Dest VReg
	Src  VReg
}

func (*CopyInstr) instrNode() {}

// BinaryOpInstr computes Left `Op` Right into Dest.
type BinaryOpInstr struct {
	Dest  VReg
	Op    BinOp
	Left  Operand
	Right Operand
}

func (*BinaryOpInstr) instrNode() {}

// UnaryOpInstr computes `Op` Operand into Dest.
type UnaryOpInstr struct {
	Dest    VReg
	Op      UnOp
	Operand Operand
}

func (*UnaryOpInstr) instrNode() {}

// LoadInstr reads Type-typed data through the pointer in Addr into Dest.
type LoadInstr struct {
	Dest VReg
	Addr VReg
	Type types.LirTy
}

func (*LoadInstr) instrNode() {}

// StoreInstr writes Value through the pointer in Addr.
type StoreInstr struct {
	Addr  VReg
	Value Operand
}

func (*StoreInstr) instrNode() {}

// GepInstr ("get element pointer") computes an address into Dest from
// Base plus a constant byte Offset (struct field projection, offsets
// supplied by internal/layout) and, when HasIndex is set, a further
// Index scaled by ElemSize (array/slice element projection).
type GepInstr struct {
	Dest     VReg
	Base     VReg
	Offset   int64
	HasIndex bool
	Index    Operand
	ElemSize int64
}

func (*GepInstr) instrNode() {}

// CallInstr invokes a function defined in this module.
type CallInstr struct {
	Dest VReg
	Func string
	Args []Operand
}

func (*CallInstr) instrNode() {}

// CallExternalInstr invokes a function declared as an External.
type CallExternalInstr struct {
	Dest VReg
	Func string
	Args []Operand
}

func (*CallExternalInstr) instrNode() {}

// CmpInstr computes a boolean comparison into Dest.
type CmpInstr struct {
	Dest  VReg
	Op    CmpOp
	Left  Operand
	Right Operand
}

func (*CmpInstr) instrNode() {}

// CastInstr reinterprets or converts Src from From to To, binding the
// result to Dest (e.g. int-width truncation/extension, int-to-float).
type CastInstr struct {
	Dest VReg
	Src  Operand
	From types.LirTy
	To   types.LirTy
}

func (*CastInstr) instrNode() {}

// RefIncInstr bumps a reference-counted value's count (spec §4.9's
// reference-counting non-atomic model).
type RefIncInstr struct{ Reg VReg }

func (*RefIncInstr) instrNode() {}

// RefDecInstr drops a reference-counted value's count, freeing it at
// zero.
type RefDecInstr struct{ Reg VReg }

func (*RefDecInstr) instrNode() {}

// Terminator is the sum type of LIR block terminators.
type Terminator interface{ termNode() }

// ReturnTerm exits the function, optionally carrying a value.
type ReturnTerm struct{ Value Operand } // nil Value means unit return

func (*ReturnTerm) termNode() {}

// ThrowTerm exits the function via its error channel (spec §4.3's typed
// error propagation, made explicit at the LIR level since MIR's `?`
// lowering already resolved which branch is the error one).
type ThrowTerm struct{ Value Operand }

func (*ThrowTerm) termNode() {}

// JumpTerm unconditionally transfers control to Target.
type JumpTerm struct{ Target NodeID }

func (*JumpTerm) termNode() {}

// BranchTerm transfers control to True or False based on Cond.
type BranchTerm struct {
	Cond  Operand
	True  NodeID
	False NodeID
}

func (*BranchTerm) termNode() {}

// SwitchCase is one `value => target` arm of a Switch terminator.
type SwitchCase struct {
	Value  int64
	Target NodeID
}

// SwitchTerm dispatches on Scrutinee's value, falling back to Default
// when no case matches.
type SwitchTerm struct {
	Scrutinee Operand
	Cases     []SwitchCase
	Default   NodeID
}

func (*SwitchTerm) termNode() {}

// UnreachableTerm marks a block proven never to be entered.
type UnreachableTerm struct{}

func (*UnreachableTerm) termNode() {}

// String renders a function signature for debugging/snapshot tests.
func (f *Function) String() string {
	return fmt.Sprintf("fn %s(%d params) -> %s", f.Name, len(f.Params), f.ReturnType)
}
