package mir

import (
	"fmt"

	"github.com/RunningShrimp/zulon-language-sub001/internal/hir"
	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

// HirToMir lowers a whole HIR module to MIR (spec §4.5). Struct and enum
// declarations are consumed only to build the field-order and
// nominal-resolver context lowering needs; MIR itself carries no
// declaration items, only functions (spec §3.2).
func HirToMir(mod *hir.Module) (*Module, error) {
	resolve := BuildNominalResolver(mod)
	structFields := StructFieldOrder(mod)
	enumFields := EnumVariantFieldOrder(mod)

	out := &Module{}

	for _, it := range mod.Items {
		fn, ok := it.(*hir.Function)
		if !ok {
			continue
		}

		l := &lowerer{
			resolve:      resolve,
			structFields: structFields,
			enumFields:   enumFields,
		}

		mfn, err := l.lowerFunction(fn)
		if err != nil {
			return nil, err
		}

		out.Functions = append(out.Functions, mfn)
	}

	return out, nil
}

// lowerer holds the per-function state HirToMir threads through
// recursive lowering: the function under construction, the block
// currently being appended to, and the loop/break context stacks.
type lowerer struct {
	fn  *Function
	cur NodeID

	resolve      types.NominalResolver
	structFields map[string][]string
	enumFields   map[string][]string

	// loopExit/loopResult let Break/Continue jump to and fill in the
	// right block/place for their nearest enclosing loop (spec §4.3's
	// "a loop's type is the unified type of its break expressions").
	loopExit   []NodeID
	loopCont   []NodeID
	loopResult []Place
}

func (l *lowerer) block() *BasicBlock { return l.fn.Blocks[l.cur] }

func (l *lowerer) emit(instr Instruction) { l.block().Push(instr) }

func (l *lowerer) terminate(term Terminator) { l.block().Terminator = term }

// freshAfterDivergence opens a new block after a terminator that ends
// control flow early (Return/Break/Continue/Throw) so lowering can keep
// emitting instructions for the (unreachable) remainder of the
// expression without a nil current block.
func (l *lowerer) freshAfterDivergence() {
	l.cur = l.fn.AllocBlock()
}

func (l *lowerer) lowerFunction(fn *hir.Function) (*Function, error) {
	params := make([]Param, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = Param{Name: p.Name, Type: types.HirToMirTy(p.Type, l.resolveOrRoot)}
	}

	ret := types.HirToMirTy(fn.ReturnType, l.resolveOrRoot)

	mfn := NewFunction(fn.Name, params, ret)
	mfn.IsAsync = fn.IsAsync

	if fn.ErrorType != nil {
		mfn.ErrorType = types.HirToMirTy(fn.ErrorType, l.resolveOrRoot)
	}

	l.fn = mfn
	l.cur = mfn.EntryBlock

	// Parameters start life as locals bound from ParamPlace so the rest
	// of the body can refer to them uniformly by name.
	for i, p := range fn.Params {
		l.emit(&CopyInstr{Dest: LocalPlace{Name: p.Name}, Src: ParamPlace{Index: i}})
	}

	if fn.Body == nil {
		l.terminate(&UnreachableTerm{})
		return mfn, nil
	}

	result, err := l.lowerBlock(fn.Body)
	if err != nil {
		return nil, err
	}

	if l.block().Terminator == nil {
		l.terminate(&ReturnTerm{Value: result})
	}

	return mfn, nil
}

func (l *lowerer) resolveOrRoot(name string) types.NominalSizeInfo { return l.resolve(name) }

func (l *lowerer) lowerBlock(b *hir.Block) (Place, error) {
	for _, s := range b.Stmts {
		if err := l.lowerStmt(s); err != nil {
			return nil, err
		}

		if l.block().Terminator != nil {
			// Divergent statement (return/break/continue/throw already
			// closed this block); later statements are unreachable.
			return l.constUnit(), nil
		}
	}

	if b.Trailing == nil {
		return l.constUnit(), nil
	}

	return l.lowerExpr(b.Trailing)
}

func (l *lowerer) lowerStmt(s hir.Stmt) error {
	switch x := s.(type) {
	case *hir.Local:
		if x.Init == nil {
			return nil
		}

		val, err := l.lowerExpr(x.Init)
		if err != nil {
			return err
		}

		l.emit(&CopyInstr{Dest: LocalPlace{Name: x.Name}, Src: val})

		return nil
	case *hir.ExprStmt:
		_, err := l.lowerExpr(x.Value)
		return err
	default:
		return fmt.Errorf("internal: unhandled MIR statement %T", s)
	}
}

func (l *lowerer) constUnit() Place {
	t := l.fn.AllocTemp()
	l.emit(&ConstInstr{Dest: t, Value: ConstUnit{}})

	return t
}

func (l *lowerer) lowerExpr(e hir.Expr) (Place, error) {
	switch x := e.(type) {
	case *hir.Literal:
		return l.lowerLiteral(x)
	case *hir.Variable:
		return LocalPlace{Name: x.Name}, nil
	case *hir.BinaryOp:
		return l.lowerBinaryOp(x)
	case *hir.UnaryOp:
		return l.lowerUnaryOp(x)
	case *hir.Assign:
		return l.lowerAssign(x)
	case *hir.Call:
		return l.lowerCall(x)
	case *hir.If:
		return l.lowerIf(x)
	case *hir.Loop:
		return l.lowerLoop(x)
	case *hir.While:
		return l.lowerWhile(x)
	case *hir.BlockExpr:
		return l.lowerBlock(x.Block)
	case *hir.Match:
		return l.lowerMatch(x)
	case *hir.Tuple:
		return l.lowerAggregate("__zulon_make_tuple", x.Elements)
	case *hir.Array:
		return l.lowerAggregate("__zulon_make_array", x.Elements)
	case *hir.Index:
		base, err := l.lowerExpr(x.Base)
		if err != nil {
			return nil, err
		}

		idx, err := l.lowerExpr(x.Index)
		if err != nil {
			return nil, err
		}

		return IndexPlace{Base: base, Index: idx}, nil
	case *hir.FieldAccess:
		base, err := l.lowerExpr(x.Base)
		if err != nil {
			return nil, err
		}

		return FieldPlace{Base: base, Field: x.Field}, nil
	case *hir.Return:
		return l.lowerReturn(x)
	case *hir.Break:
		return l.lowerBreak(x)
	case *hir.Continue:
		if len(l.loopCont) == 0 {
			return nil, fmt.Errorf("internal: continue outside any loop reached MIR lowering")
		}

		l.terminate(&GotoTerm{Target: l.loopCont[len(l.loopCont)-1]})
		l.freshAfterDivergence()

		return l.constUnit(), nil
	case *hir.Closure:
		return l.lowerClosure(x)
	case *hir.StructLiteral:
		return l.lowerStructLiteral(x)
	case *hir.Throw:
		return l.lowerThrow(x)
	case *hir.QuestionMark:
		return l.lowerQuestionMark(x)
	case *hir.Await:
		return l.lowerAwait(x)
	default:
		return nil, fmt.Errorf("internal: unhandled HIR expression %T in HirToMir", e)
	}
}

func (l *lowerer) lowerLiteral(lit *hir.Literal) (Place, error) {
	t := l.fn.AllocTemp()

	var v ConstValue
	switch x := lit.Value.(type) {
	case hir.LitInt:
		v = ConstInt(x)
	case hir.LitFloat:
		v = ConstFloat(x)
	case hir.LitBool:
		v = ConstBool(x)
	case hir.LitChar:
		v = ConstInt(x)
	case hir.LitString:
		v = ConstString(x)
	default:
		v = ConstUnit{}
	}

	l.emit(&ConstInstr{Dest: t, Value: v})

	return t, nil
}

var binOpTable = map[hir.BinOp]BinOp{
	hir.BinAdd: BinAdd, hir.BinSub: BinSub, hir.BinMul: BinMul, hir.BinDiv: BinDiv, hir.BinMod: BinMod,
	hir.BinBitAnd: BinBitAnd, hir.BinBitOr: BinBitOr, hir.BinBitXor: BinBitXor,
	hir.BinShl: BinShl, hir.BinShr: BinShr,
	hir.BinAnd: BinAnd, hir.BinOr: BinOr,
	hir.BinEq: BinEq, hir.BinNe: BinNe, hir.BinLt: BinLt, hir.BinLe: BinLe, hir.BinGt: BinGt, hir.BinGe: BinGe,
}

func (l *lowerer) lowerBinaryOp(b *hir.BinaryOp) (Place, error) {
	left, err := l.lowerExpr(b.Left)
	if err != nil {
		return nil, err
	}

	right, err := l.lowerExpr(b.Right)
	if err != nil {
		return nil, err
	}

	op, ok := binOpTable[b.Op]
	if !ok {
		return nil, fmt.Errorf("internal: unhandled HIR binary operator %d", b.Op)
	}

	dest := l.fn.AllocTemp()
	l.emit(&BinaryOpInstr{Dest: dest, Op: op, Left: left, Right: right})

	return dest, nil
}

func (l *lowerer) lowerUnaryOp(u *hir.UnaryOp) (Place, error) {
	operand, err := l.lowerExpr(u.Operand)
	if err != nil {
		return nil, err
	}

	switch u.Op {
	case hir.UnRef:
		dest := l.fn.AllocTemp()
		l.emit(&BorrowInstr{Dest: dest, Src: operand, Kind: BorrowShared})

		return dest, nil
	case hir.UnRefMut:
		dest := l.fn.AllocTemp()
		l.emit(&BorrowInstr{Dest: dest, Src: operand, Kind: BorrowUnique})

		return dest, nil
	case hir.UnDeref:
		return DerefPlace{Base: operand}, nil
	case hir.UnNeg:
		dest := l.fn.AllocTemp()
		l.emit(&UnaryOpInstr{Dest: dest, Op: UnNeg, Operand: operand})

		return dest, nil
	case hir.UnNot:
		dest := l.fn.AllocTemp()
		l.emit(&UnaryOpInstr{Dest: dest, Op: UnNot, Operand: operand})

		return dest, nil
	default:
		return nil, fmt.Errorf("internal: unhandled HIR unary operator %d", u.Op)
	}
}

// lowerAssign lowers `target = value`. A Deref target writes through a
// pointer (Store); anything else is a direct place-to-place copy.
func (l *lowerer) lowerAssign(a *hir.Assign) (Place, error) {
	value, err := l.lowerExpr(a.Value)
	if err != nil {
		return nil, err
	}

	target, err := l.lowerExpr(a.Target)
	if err != nil {
		return nil, err
	}

	if _, ok := target.(DerefPlace); ok {
		l.emit(&StoreInstr{Dest: target, Src: value})
	} else {
		l.emit(&CopyInstr{Dest: target, Src: value})
	}

	return l.constUnit(), nil
}

func (l *lowerer) lowerCall(c *hir.Call) (Place, error) {
	name, ok := c.Func.(*hir.Variable)
	if !ok {
		return nil, fmt.Errorf("internal: indirect calls are not supported by this lowering pass")
	}

	args := make([]Place, len(c.Args))
	for i, a := range c.Args {
		p, err := l.lowerExpr(a)
		if err != nil {
			return nil, err
		}

		args[i] = p
	}

	dest := l.fn.AllocTemp()
	l.emit(&CallInstr{Dest: dest, Func: name.Name, Args: args})

	return dest, nil
}

func (l *lowerer) lowerIf(i *hir.If) (Place, error) {
	cond, err := l.lowerExpr(i.Cond)
	if err != nil {
		return nil, err
	}

	thenBlock := l.fn.AllocBlock()
	elseBlock := l.fn.AllocBlock()
	joinBlock := l.fn.AllocBlock()

	l.terminate(&IfTerm{Cond: cond, Then: thenBlock, Else: elseBlock})

	result := l.fn.AllocTemp()

	l.cur = thenBlock
	thenVal, err := l.lowerBlock(i.Then)
	if err != nil {
		return nil, err
	}

	if l.block().Terminator == nil {
		l.emit(&CopyInstr{Dest: result, Src: thenVal})
		l.terminate(&GotoTerm{Target: joinBlock})
	}

	l.cur = elseBlock

	var elseVal Place = l.constUnit()

	if i.Else != nil {
		v, err := l.lowerBlock(i.Else)
		if err != nil {
			return nil, err
		}

		elseVal = v
	}

	if l.block().Terminator == nil {
		l.emit(&CopyInstr{Dest: result, Src: elseVal})
		l.terminate(&GotoTerm{Target: joinBlock})
	}

	l.cur = joinBlock

	return result, nil
}

func (l *lowerer) lowerLoop(loop *hir.Loop) (Place, error) {
	bodyBlock := l.fn.AllocBlock()
	exitBlock := l.fn.AllocBlock()

	l.terminate(&GotoTerm{Target: bodyBlock})

	result := l.fn.AllocTemp()

	l.loopExit = append(l.loopExit, exitBlock)
	l.loopCont = append(l.loopCont, bodyBlock)
	l.loopResult = append(l.loopResult, result)

	l.cur = bodyBlock

	_, err := l.lowerBlock(loop.Body)
	if err != nil {
		return nil, err
	}

	if l.block().Terminator == nil {
		l.terminate(&GotoTerm{Target: bodyBlock})
	}

	l.loopExit = l.loopExit[:len(l.loopExit)-1]
	l.loopCont = l.loopCont[:len(l.loopCont)-1]
	l.loopResult = l.loopResult[:len(l.loopResult)-1]

	l.cur = exitBlock

	return result, nil
}

func (l *lowerer) lowerWhile(w *hir.While) (Place, error) {
	condBlock := l.fn.AllocBlock()
	bodyBlock := l.fn.AllocBlock()
	exitBlock := l.fn.AllocBlock()

	l.terminate(&GotoTerm{Target: condBlock})

	l.cur = condBlock

	cond, err := l.lowerExpr(w.Cond)
	if err != nil {
		return nil, err
	}

	l.terminate(&IfTerm{Cond: cond, Then: bodyBlock, Else: exitBlock})

	l.loopExit = append(l.loopExit, exitBlock)
	l.loopCont = append(l.loopCont, condBlock)
	l.loopResult = append(l.loopResult, l.constUnitPlaceholder())

	l.cur = bodyBlock

	_, err = l.lowerBlock(w.Body)
	if err != nil {
		return nil, err
	}

	if l.block().Terminator == nil {
		l.terminate(&GotoTerm{Target: condBlock})
	}

	l.loopExit = l.loopExit[:len(l.loopExit)-1]
	l.loopCont = l.loopCont[:len(l.loopCont)-1]
	l.loopResult = l.loopResult[:len(l.loopResult)-1]

	l.cur = exitBlock

	return l.constUnit(), nil
}

// constUnitPlaceholder reserves a temp without emitting an instruction
// for it — used as a while-loop's nominal "break result" place, which
// is never actually read since a while-loop's break never carries a
// value (spec §4.3 distinguishes `loop` as the only breakable-with-value
// construct).
func (l *lowerer) constUnitPlaceholder() Place { return l.fn.AllocTemp() }

func (l *lowerer) lowerReturn(r *hir.Return) (Place, error) {
	var val Place

	if r.Value != nil {
		v, err := l.lowerExpr(r.Value)
		if err != nil {
			return nil, err
		}

		val = v
	}

	l.terminate(&ReturnTerm{Value: val})
	l.freshAfterDivergence()

	return l.constUnit(), nil
}

func (l *lowerer) lowerBreak(b *hir.Break) (Place, error) {
	if len(l.loopExit) == 0 {
		return nil, fmt.Errorf("internal: break outside any loop reached MIR lowering")
	}

	if b.Value != nil {
		v, err := l.lowerExpr(b.Value)
		if err != nil {
			return nil, err
		}

		l.emit(&CopyInstr{Dest: l.loopResult[len(l.loopResult)-1], Src: v})
	}

	l.terminate(&GotoTerm{Target: l.loopExit[len(l.loopExit)-1]})
	l.freshAfterDivergence()

	return l.constUnit(), nil
}

// lowerAggregate lowers tuple/array/struct construction to a call
// against a synthetic runtime constructor, since MIR's instruction set
// has no dedicated aggregate-literal opcode (spec §4.5/SPEC_FULL.md
// SUPPLEMENTED FEATURES).
func (l *lowerer) lowerAggregate(ctor string, elems []hir.Expr) (Place, error) {
	args := make([]Place, len(elems))
	for i, e := range elems {
		p, err := l.lowerExpr(e)
		if err != nil {
			return nil, err
		}

		args[i] = p
	}

	dest := l.fn.AllocTemp()
	l.emit(&CallInstr{Dest: dest, Func: ctor, Args: args})

	return dest, nil
}

func (l *lowerer) lowerStructLiteral(s *hir.StructLiteral) (Place, error) {
	order := l.structFields[s.Name]

	byName := make(map[string]hir.Expr, len(s.Fields))
	for _, f := range s.Fields {
		byName[f.Name] = f.Value
	}

	fieldExprs := make([]hir.Expr, 0, len(s.Fields))

	if len(order) > 0 {
		for _, name := range order {
			if v, ok := byName[name]; ok {
				fieldExprs = append(fieldExprs, v)
			}
		}
	} else {
		for _, f := range s.Fields {
			fieldExprs = append(fieldExprs, f.Value)
		}
	}

	return l.lowerAggregate("__zulon_new_"+s.Name, fieldExprs)
}

func (l *lowerer) lowerThrow(t *hir.Throw) (Place, error) {
	val, err := l.lowerExpr(t.Value)
	if err != nil {
		return nil, err
	}

	wrapped := l.fn.AllocTemp()
	l.emit(&CallInstr{Dest: wrapped, Func: "__zulon_wrap_err", Args: []Place{val}})
	l.terminate(&ReturnTerm{Value: wrapped})
	l.freshAfterDivergence()

	return l.constUnit(), nil
}

// lowerQuestionMark lowers `expr?` to a two-way branch on whether the
// evaluated result carries an error, propagating it via an early return
// on the error path (spec §4.3 error propagation).
func (l *lowerer) lowerQuestionMark(q *hir.QuestionMark) (Place, error) {
	val, err := l.lowerExpr(q.Value)
	if err != nil {
		return nil, err
	}

	isErr := l.fn.AllocTemp()
	l.emit(&CallInstr{Dest: isErr, Func: "__zulon_is_err", Args: []Place{val}})

	errBlock := l.fn.AllocBlock()
	okBlock := l.fn.AllocBlock()
	l.terminate(&IfTerm{Cond: isErr, Then: errBlock, Else: okBlock})

	l.cur = errBlock
	errVal := l.fn.AllocTemp()
	l.emit(&CallInstr{Dest: errVal, Func: "__zulon_unwrap_err", Args: []Place{val}})
	l.terminate(&ReturnTerm{Value: errVal})

	l.cur = okBlock
	okVal := l.fn.AllocTemp()
	l.emit(&CallInstr{Dest: okVal, Func: "__zulon_unwrap_ok", Args: []Place{val}})

	return okVal, nil
}

// lowerAwait lowers `expr.await` to a call against a sentinel-named
// runtime poll function. internal/asynctransform discovers suspension
// points by scanning for Call instructions whose Func name contains
// "poll" (SPEC_FULL.md SUPPLEMENTED FEATURES, grounded on
// `async_transform_test.rs`'s documented "awaits are identified by
// 'await' or 'poll' in function names" simplification) — this is the
// producing end of that contract.
func (l *lowerer) lowerAwait(a *hir.Await) (Place, error) {
	val, err := l.lowerExpr(a.Value)
	if err != nil {
		return nil, err
	}

	dest := l.fn.AllocTemp()
	l.emit(&CallInstr{Dest: dest, Func: "__zulon_await_poll", Args: []Place{val}})

	return dest, nil
}

// lowerClosure lowers a closure literal to a call constructing a closure
// value out of its captured places, deferring the synthesis of a real
// separate function-plus-environment to a future pass (§9 open
// question, recorded in DESIGN.md): MIR here only needs a typed value
// to flow through the rest of the body, not a callable entity of its
// own, since no call site in this compilation unit can reach a closure
// except through a direct HIR Call on a named function (§4.4 method
// desugaring resolves all direct dispatch already).
func (l *lowerer) lowerClosure(c *hir.Closure) (Place, error) {
	args := make([]Place, 0, len(c.Captures))
	for _, capInfo := range c.Captures {
		args = append(args, LocalPlace{Name: capInfo.Name})
	}

	dest := l.fn.AllocTemp()
	l.emit(&CallInstr{Dest: dest, Func: "__zulon_make_closure", Args: args})

	return dest, nil
}

// lowerMatch lowers a match expression to a linear chain of pattern
// tests: each arm either falls through to the next arm's test block or
// branches into its own body block, which copies its value into a
// shared result temp and jumps to the join block. A trailing
// UnreachableTerm closes the chain for the (by the checker's own
// exhaustiveness warning, spec §9a, only advisory) case that no arm
// matches at runtime.
func (l *lowerer) lowerMatch(m *hir.Match) (Place, error) {
	scrutinee, err := l.lowerExpr(m.Scrutinee)
	if err != nil {
		return nil, err
	}

	result := l.fn.AllocTemp()
	endBlock := l.fn.AllocBlock()

	for _, arm := range m.Arms {
		testPlace, refutable, err := l.lowerPatternTest(arm.Pattern, scrutinee)
		if err != nil {
			return nil, err
		}

		nextTestBlock := l.fn.AllocBlock()

		bodyBlock := l.cur

		if refutable {
			bodyBlock = l.fn.AllocBlock()
			l.terminate(&IfTerm{Cond: testPlace, Then: bodyBlock, Else: nextTestBlock})
		}

		l.cur = bodyBlock

		if err := l.bindPatternCaptures(arm.Pattern, scrutinee); err != nil {
			return nil, err
		}

		if arm.Guard != nil {
			guardVal, err := l.lowerExpr(arm.Guard)
			if err != nil {
				return nil, err
			}

			guardBodyBlock := l.fn.AllocBlock()
			l.terminate(&IfTerm{Cond: guardVal, Then: guardBodyBlock, Else: nextTestBlock})
			l.cur = guardBodyBlock
		}

		bodyVal, err := l.lowerExpr(arm.Body)
		if err != nil {
			return nil, err
		}

		if l.block().Terminator == nil {
			l.emit(&CopyInstr{Dest: result, Src: bodyVal})
			l.terminate(&GotoTerm{Target: endBlock})
		}

		l.cur = nextTestBlock
	}

	// l.cur is the final "no arm matched" block.
	l.terminate(&UnreachableTerm{})

	l.cur = endBlock

	return result, nil
}

// lowerPatternTest returns a boolean Place testing whether scrutinee
// matches pat, and whether the pattern is refutable at all (wildcard
// and binding patterns always match, so need no test).
func (l *lowerer) lowerPatternTest(pat hir.Pattern, scrutinee Place) (Place, bool, error) {
	switch x := pat.(type) {
	case *hir.WildcardPattern, *hir.BindingPattern:
		return nil, false, nil
	case *hir.LiteralPattern:
		litTemp := l.fn.AllocTemp()
		l.emit(&ConstInstr{Dest: litTemp, Value: toConstValue(x.Value)})

		cmp := l.fn.AllocTemp()
		l.emit(&BinaryOpInstr{Dest: cmp, Op: BinEq, Left: scrutinee, Right: litTemp})

		return cmp, true, nil
	case *hir.VariantPattern:
		tag := l.fn.AllocTemp()
		l.emit(&CallInstr{Dest: tag, Func: "__zulon_variant_tag", Args: []Place{scrutinee}})

		name := l.fn.AllocTemp()
		l.emit(&ConstInstr{Dest: name, Value: ConstString(x.VariantName)})

		cmp := l.fn.AllocTemp()
		l.emit(&BinaryOpInstr{Dest: cmp, Op: BinEq, Left: tag, Right: name})

		return cmp, true, nil
	default:
		return nil, false, fmt.Errorf("internal: unhandled HIR pattern %T in MIR lowering", pat)
	}
}

func (l *lowerer) bindPatternCaptures(pat hir.Pattern, scrutinee Place) error {
	switch x := pat.(type) {
	case *hir.BindingPattern:
		l.emit(&CopyInstr{Dest: LocalPlace{Name: x.Name}, Src: scrutinee})
		return nil
	case *hir.VariantPattern:
		order := l.enumFields[x.VariantName]
		for i, bindName := range x.Binds {
			fieldName := bindName
			if i < len(order) {
				fieldName = order[i]
			}

			l.emit(&CopyInstr{Dest: LocalPlace{Name: bindName}, Src: FieldPlace{Base: scrutinee, Field: fieldName}})
		}

		return nil
	default:
		return nil
	}
}

func toConstValue(v hir.LiteralValue) ConstValue {
	switch x := v.(type) {
	case hir.LitInt:
		return ConstInt(x)
	case hir.LitFloat:
		return ConstFloat(x)
	case hir.LitBool:
		return ConstBool(x)
	case hir.LitChar:
		return ConstInt(x)
	case hir.LitString:
		return ConstString(x)
	default:
		return ConstUnit{}
	}
}
