package lir

import (
	"fmt"

	"github.com/RunningShrimp/zulon-language-sub001/internal/mir"
	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

// wordTy is the default slot type for a MIR place this pass cannot
// otherwise type: MIR places carry no per-place MirTy of their own (only
// Function.Params and Function.ReturnType are typed), a gap the original
// design leaves to a separate type table this core does not build.
// Defaulting to a 64-bit word is exact for any scalar local and merely
// imprecise (not unsound — every slot is still read back through the
// same Load/Store pair it was written with) for an aggregate one; a
// future pass could close this by threading MirTy annotations onto
// Place itself without changing LIR's shape.
var wordTy types.LirTy = types.LIntTy{Width: types.I64}

// MirToLir lowers a whole MIR module to LIR. resolve supplies the
// size/alignment internal/layout has already computed for every
// nominal/slice/tuple/optional type MirToLirTy needs to turn opaque.
//
// Open Question (recorded in DESIGN.md): this pass does not construct
// real SSA form with phi nodes at merge points. Every MIR place —
// local, temporary, or parameter — lowers to one stack slot (an Alloca
// at function entry) that every read and write goes through via
// Load/Store, the same "memory SSA" starting point most bootstrap
// compilers use before a later mem2reg promotion pass. This keeps the
// lowering a straightforward structural walk instead of a dominance-
// frontier computation, at the cost of every value round-tripping
// through a stack slot that a real backend would otherwise keep in a
// register. Phi is still part of the entity set (lir.go) for a future
// promotion pass to target.
func MirToLir(mod *mir.Module, resolve types.StructLirResolver) (*Module, error) {
	out := &Module{}

	for _, mfn := range mod.Functions {
		lfn, err := lowerFunction(mfn, resolve)
		if err != nil {
			return nil, fmt.Errorf("lir: lowering %s: %w", mfn.Name, err)
		}

		out.Functions = append(out.Functions, lfn)
	}

	return out, nil
}

type lowerer struct {
	fn *Function

	cur NodeID

	slots   map[string]VReg
	slotTy  map[string]types.LirTy
	knownTy map[string]types.LirTy

	blockMap map[mir.NodeID]NodeID
	allocas  []Instruction
}

func lowerFunction(mfn *mir.Function, resolve types.StructLirResolver) (*Function, error) {
	paramTypes := make([]types.LirTy, len(mfn.Params))
	knownTy := map[string]types.LirTy{}

	for i, p := range mfn.Params {
		lt := types.MirToLirTy(p.Type, resolve)
		paramTypes[i] = lt
		knownTy["local:"+p.Name] = lt
	}

	retTy := types.MirToLirTy(mfn.ReturnType, resolve)

	lfn := NewFunction(mfn.Name, paramTypes, retTy)

	l := &lowerer{
		fn:       lfn,
		cur:      lfn.EntryBlock,
		slots:    map[string]VReg{},
		slotTy:   map[string]types.LirTy{},
		knownTy:  knownTy,
		blockMap: map[mir.NodeID]NodeID{},
	}

	for id := range mfn.Blocks {
		if id == mfn.EntryBlock {
			l.blockMap[id] = lfn.EntryBlock
		} else {
			l.blockMap[id] = lfn.AllocBlock()
		}
	}

	// HirToMir always opens a function by copying every incoming
	// parameter from its ParamPlace into a same-named local (lower.go's
	// lowerFunction). Store the incoming register into both slots: the
	// ParamPlace's slot feeds that copy, and the local's slot is already
	// valid for any body that reads the LocalPlace directly.
	for i, p := range mfn.Params {
		in := RegOperand{Reg: lfn.Params[i]}
		l.emit(&StoreInstr{Addr: l.slotFor("local:"+p.Name, paramTypes[i]), Value: in})
		l.emit(&StoreInstr{Addr: l.slotFor(fmt.Sprintf("param:%d", i), paramTypes[i]), Value: in})
	}

	for _, id := range sortedMirBlockIDs(mfn) {
		mb := mfn.Blocks[id]
		l.cur = l.blockMap[id]

		for _, instr := range mb.Instructions {
			if err := l.lowerInstr(instr); err != nil {
				return nil, err
			}
		}

		if err := l.lowerTerm(mb.Terminator); err != nil {
			return nil, err
		}
	}

	entry := lfn.Blocks[lfn.EntryBlock]
	entry.Instructions = append(append([]Instruction{}, l.allocas...), entry.Instructions...)

	return lfn, nil
}

func sortedMirBlockIDs(fn *mir.Function) []mir.NodeID {
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

func (l *lowerer) block() *Block { return l.fn.Blocks[l.cur] }
func (l *lowerer) emit(instr Instruction) { l.block().Push(instr) }
func (l *lowerer) terminate(term Terminator) { l.block().Terminator = term }

func (l *lowerer) tyOf(root string) types.LirTy {
	if ty, ok := l.knownTy[root]; ok {
		return ty
	}

	return wordTy
}

// slotFor returns the VReg holding root's stack address, allocating it
// (recorded for prepending at function entry) on first use.
func (l *lowerer) slotFor(root string, ty types.LirTy) VReg {
	if reg, ok := l.slots[root]; ok {
		return reg
	}

	reg := l.fn.AllocVReg()
	l.allocas = append(l.allocas, &AllocaInstr{Dest: reg, Type: ty})
	l.slots[root] = reg
	l.slotTy[root] = ty

	return reg
}

// addressOf returns a VReg holding the address of p's storage, along
// with the LirTy of the value stored there. For a DerefPlace this means
// loading through the base's own slot to recover the pointer value it
// holds — the address being dereferenced, not the slot's own address.
func (l *lowerer) addressOf(p mir.Place) (VReg, types.LirTy) {
	switch x := p.(type) {
	case mir.LocalPlace:
		root := "local:" + x.Name
		ty := l.tyOf(root)

		return l.slotFor(root, ty), ty
	case mir.TempPlace:
		root := fmt.Sprintf("temp:%d", x.ID)
		ty := l.tyOf(root)

		return l.slotFor(root, ty), ty
	case mir.ParamPlace:
		root := fmt.Sprintf("param:%d", x.Index)
		ty := wordTy

		if x.Index < len(l.fn.ParamTypes) {
			ty = l.fn.ParamTypes[x.Index]
		}

		return l.slotFor(root, ty), ty
	case mir.FieldPlace:
		baseAddr, _ := l.addressOf(x.Base)

		// Without a per-field offset table threaded through this
		// resolver, every field access conservatively projects to the
		// struct's first word. internal/layout's StructLayout/FieldInfo
		// is where a richer resolver (one keyed by (struct, field) pairs)
		// would supply the real offset.
		fieldTy := wordTy

		dest := l.fn.AllocVReg()
		l.emit(&GepInstr{Dest: dest, Base: baseAddr, Offset: 0})

		return dest, fieldTy
	case mir.IndexPlace:
		baseAddr, baseTy := l.addressOf(x.Base)

		elemTy := wordTy
		if arr, ok := baseTy.(types.LArrayTy); ok {
			elemTy = arr.Inner
		}

		idxOperand := l.operandOf(x.Index)

		dest := l.fn.AllocVReg()
		l.emit(&GepInstr{Dest: dest, Base: baseAddr, HasIndex: true, Index: idxOperand, ElemSize: elemTy.SizeOf()})

		return dest, elemTy
	case mir.DerefPlace:
		baseAddr, baseTy := l.addressOf(x.Base)

		inner := wordTy
		if ptr, ok := baseTy.(types.LPtrTy); ok {
			inner = ptr.Inner
		}

		loaded := l.fn.AllocVReg()
		l.emit(&LoadInstr{Dest: loaded, Addr: baseAddr, Type: baseTy})

		return loaded, inner
	case mir.RefPlace:
		addr, ty := l.addressOf(x.Base)

		return addr, types.LPtrTy{Inner: ty}
	default:
		panic(fmt.Sprintf("lir: unhandled MIR place %T", p))
	}
}

// operandOf loads p's value into a fresh register operand.
func (l *lowerer) operandOf(p mir.Place) Operand {
	addr, ty := l.addressOf(p)
	dest := l.fn.AllocVReg()
	l.emit(&LoadInstr{Dest: dest, Addr: addr, Type: ty})

	return RegOperand{Reg: dest}
}

var arithOpTable = map[mir.BinOp]BinOp{
	mir.BinAdd: BinAdd, mir.BinSub: BinSub, mir.BinMul: BinMul, mir.BinDiv: BinDiv, mir.BinMod: BinMod,
	mir.BinBitAnd: BinBitAnd, mir.BinBitOr: BinBitOr, mir.BinBitXor: BinBitXor,
	mir.BinShl: BinShl, mir.BinShr: BinShr, mir.BinAnd: BinAnd, mir.BinOr: BinOr,
}

var cmpOpTable = map[mir.BinOp]CmpOp{
	mir.BinEq: CmpEq, mir.BinNe: CmpNe, mir.BinLt: CmpLt, mir.BinLe: CmpLe, mir.BinGt: CmpGt, mir.BinGe: CmpGe,
}

func constOperand(v mir.ConstValue) Operand {
	switch x := v.(type) {
	case mir.ConstInt:
		return ImmOperand{Value: int64(x)}
	case mir.ConstBool:
		if x {
			return ImmOperand{Value: 1}
		}

		return ImmOperand{Value: 0}
	case mir.ConstFloat:
		return ImmFloatOperand{Value: float64(x)}
	default:
		// ConstString and ConstUnit have no direct register-sized
		// encoding; string constant pools and unit's zero-size
		// representation are out of this core's scope (no codegen
		// backend actually consumes LIR), so they lower to an inert zero.
		return ImmOperand{Value: 0}
	}
}

func (l *lowerer) lowerInstr(instr mir.Instruction) error {
	switch x := instr.(type) {
	case *mir.ConstInstr:
		destAddr, ty := l.addressOf(x.Dest)
		val := l.fn.AllocVReg()
		l.emit(&ConstInstr{Dest: val, Type: ty, Value: constOperand(x.Value)})
		l.emit(&StoreInstr{Addr: destAddr, Value: RegOperand{Reg: val}})

	case *mir.CopyInstr:
		val := l.operandOf(x.Src)
		destAddr, _ := l.addressOf(x.Dest)
		l.emit(&StoreInstr{Addr: destAddr, Value: val})

	case *mir.MoveInstr:
		val := l.operandOf(x.Src)
		destAddr, _ := l.addressOf(x.Dest)
		l.emit(&StoreInstr{Addr: destAddr, Value: val})

	case *mir.BinaryOpInstr:
		left := l.operandOf(x.Left)
		right := l.operandOf(x.Right)
		destAddr, _ := l.addressOf(x.Dest)
		val := l.fn.AllocVReg()

		if op, ok := cmpOpTable[x.Op]; ok {
			l.emit(&CmpInstr{Dest: val, Op: op, Left: left, Right: right})
		} else if op, ok := arithOpTable[x.Op]; ok {
			l.emit(&BinaryOpInstr{Dest: val, Op: op, Left: left, Right: right})
		} else {
			return fmt.Errorf("lir: unhandled MIR binary operator %d", x.Op)
		}

		l.emit(&StoreInstr{Addr: destAddr, Value: RegOperand{Reg: val}})

	case *mir.UnaryOpInstr:
		operand := l.operandOf(x.Operand)
		destAddr, _ := l.addressOf(x.Dest)
		val := l.fn.AllocVReg()

		var op UnOp
		switch x.Op {
		case mir.UnNeg:
			op = UnNeg
		case mir.UnNot:
			op = UnNot
		default:
			return fmt.Errorf("lir: unhandled MIR unary operator %d", x.Op)
		}

		l.emit(&UnaryOpInstr{Dest: val, Op: op, Operand: operand})
		l.emit(&StoreInstr{Addr: destAddr, Value: RegOperand{Reg: val}})

	case *mir.CallInstr:
		args := make([]Operand, len(x.Args))

		for i, a := range x.Args {
			args[i] = l.operandOf(a)
		}

		destAddr, _ := l.addressOf(x.Dest)
		val := l.fn.AllocVReg()
		l.emit(&CallInstr{Dest: val, Func: x.Func, Args: args})
		l.emit(&StoreInstr{Addr: destAddr, Value: RegOperand{Reg: val}})

	case *mir.LoadInstr:
		srcAddr, srcTy := l.addressOf(x.Src)
		destAddr, _ := l.addressOf(x.Dest)
		val := l.fn.AllocVReg()
		l.emit(&LoadInstr{Dest: val, Addr: srcAddr, Type: srcTy})
		l.emit(&StoreInstr{Addr: destAddr, Value: RegOperand{Reg: val}})

	case *mir.StoreInstr:
		val := l.operandOf(x.Src)
		destAddr, _ := l.addressOf(x.Dest)
		l.emit(&StoreInstr{Addr: destAddr, Value: val})

	case *mir.BorrowInstr:
		addr, _ := l.addressOf(x.Src)
		destAddr, _ := l.addressOf(x.Dest)
		l.emit(&StoreInstr{Addr: destAddr, Value: RegOperand{Reg: addr}})

	case *mir.DropInstr:
		addr, _ := l.addressOf(x.Place)
		l.emit(&RefDecInstr{Reg: addr})

	default:
		return fmt.Errorf("lir: unhandled MIR instruction %T", instr)
	}

	return nil
}

func (l *lowerer) lowerTerm(term mir.Terminator) error {
	switch x := term.(type) {
	case *mir.ReturnTerm:
		if x.Value == nil {
			l.terminate(&ReturnTerm{})
			return nil
		}

		val := l.operandOf(x.Value)

		l.terminate(&ReturnTerm{Value: val})

	case *mir.GotoTerm:
		l.terminate(&JumpTerm{Target: l.blockMap[x.Target]})

	case *mir.IfTerm:
		cond := l.operandOf(x.Cond)

		l.terminate(&BranchTerm{Cond: cond, True: l.blockMap[x.Then], False: l.blockMap[x.Else]})

	case *mir.SwitchTerm:
		cond := l.operandOf(x.Scrutinee)

		cases := make([]SwitchCase, len(x.Cases))
		for i, c := range x.Cases {
			cases[i] = SwitchCase{Value: constToInt(c.Value), Target: l.blockMap[c.Target]}
		}

		l.terminate(&SwitchTerm{Scrutinee: cond, Cases: cases, Default: l.blockMap[x.Default]})

	case *mir.UnreachableTerm:
		l.terminate(&UnreachableTerm{})

	case nil:
		l.terminate(&UnreachableTerm{})

	default:
		return fmt.Errorf("lir: unhandled MIR terminator %T", term)
	}

	return nil
}

func constToInt(v mir.ConstValue) int64 {
	switch x := v.(type) {
	case mir.ConstInt:
		return int64(x)
	case mir.ConstBool:
		if x {
			return 1
		}

		return 0
	default:
		return 0
	}
}
