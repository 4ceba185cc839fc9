package hir

import (
	"fmt"

	"github.com/RunningShrimp/zulon-language-sub001/internal/ast"
	"github.com/RunningShrimp/zulon-language-sub001/internal/typecheck"
	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

// Desugarer runs the AstToHir pass (spec §4.4): it consumes the checked
// AST plus the typecheck.Info annotation map and produces a fully typed
// HIR tree. Method calls resolve to free calls via info.MethodTarget,
// for-loops lower to while-loops over an index, and closures carry their
// already-computed capture sets forward onto the HIR node.
type Desugarer struct {
	info *typecheck.Info
	// forCounter disambiguates synthetic index-variable names across
	// nested for-loops within one function.
	forCounter int
}

// NewDesugarer constructs a Desugarer bound to one checker Info.
func NewDesugarer(info *typecheck.Info) *Desugarer {
	return &Desugarer{info: info}
}

// AstToHir lowers a whole checked compilation unit to a HIR Module.
func AstToHir(prog *ast.Program, info *typecheck.Info) (*Module, error) {
	d := NewDesugarer(info)

	items := make([]Item, 0, len(prog.Items))
	for _, it := range prog.Items {
		lowered, err := d.lowerItem(it)
		if err != nil {
			return nil, err
		}

		if lowered != nil {
			items = append(items, lowered...)
		}
	}

	return &Module{Items: items, Span: prog.Span}, nil
}

func (d *Desugarer) hirTy(t types.InferredTy) (types.HirTy, error) {
	if t == nil {
		return types.HUnitTy{}, nil
	}

	return types.InferredToHir(t)
}

func (d *Desugarer) lowerItem(it ast.Item) ([]Item, error) {
	switch x := it.(type) {
	case *ast.FunctionItem:
		fn, err := d.lowerFunction(x.Name, x)
		if err != nil {
			return nil, err
		}

		return []Item{fn}, nil
	case *ast.ExternFunctionItem:
		// Extern declarations carry no body to desugar; they are only
		// referenced from Call sites, never emitted as HIR items of
		// their own (spec §6.1: external collaborators are name-only).
		return nil, nil
	case *ast.StructItem:
		return []Item{d.lowerStruct(x)}, nil
	case *ast.EnumItem:
		return []Item{d.lowerEnum(x)}, nil
	case *ast.ImplItem:
		items := make([]Item, 0, len(x.Methods))
		for _, m := range x.Methods {
			fn, err := d.lowerFunction(x.TypeName+"."+m.Name, m)
			if err != nil {
				return nil, err
			}

			items = append(items, fn)
		}

		return items, nil
	case *ast.ModuleItem:
		var items []Item
		for _, sub := range x.Items {
			lowered, err := d.lowerItem(sub)
			if err != nil {
				return nil, err
			}

			items = append(items, lowered...)
		}

		return items, nil
	case *ast.TraitItem, *ast.EffectDeclItem, *ast.TypeAliasItem:
		// Traits, effect declarations, and type aliases are fully
		// consumed by the checker (env.Env's type/effect tables); HIR
		// has no node for them since nothing downstream resolves by
		// trait membership at this stage (§4.4).
		return nil, nil
	default:
		return nil, fmt.Errorf("internal: unhandled item %T in AstToHir", it)
	}
}

func (d *Desugarer) lowerFunction(qualifiedName string, fn *ast.FunctionItem) (*Function, error) {
	fi, ok := d.info.Functions[qualifiedName]
	if !ok {
		return nil, fmt.Errorf("internal: no checker info for function %q", qualifiedName)
	}

	params := make([]Param, len(fn.Params))
	for i, p := range fn.Params {
		pty, err := d.hirTy(fi.ParamTypes[i])
		if err != nil {
			return nil, err
		}

		params[i] = Param{Name: p.Name, Type: pty, Span: p.Span}
	}

	retTy, err := d.hirTy(fi.ReturnType)
	if err != nil {
		return nil, err
	}

	var errTy types.HirTy
	if fi.ErrorType != nil {
		errTy, err = d.hirTy(fi.ErrorType)
		if err != nil {
			return nil, err
		}
	}

	var body *Block
	if fn.Body != nil {
		body, err = d.lowerBlock(fn.Body)
		if err != nil {
			return nil, err
		}
	}

	return &Function{
		Name:       qualifiedName,
		Generics:   fn.Generics,
		Params:     params,
		ReturnType: retTy,
		ErrorType:  errTy,
		Effects:    fi.Effects.Sorted(),
		IsAsync:    fn.IsAsync,
		Body:       body,
		Span:       fn.Span,
	}, nil
}

func (d *Desugarer) lowerStruct(s *ast.StructItem) *Struct {
	fields := make([]Field, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = Field{Name: f.Name, Type: d.fieldTy(f.Type), Span: f.Span}
	}

	return &Struct{Name: s.Name, Generics: s.Generics, Fields: fields, Span: s.Span}
}

func (d *Desugarer) lowerEnum(e *ast.EnumItem) *Enum {
	variants := make([]Variant, len(e.Variants))
	for i, v := range e.Variants {
		fields := make([]Field, len(v.Fields))
		for j, f := range v.Fields {
			fields[j] = Field{Name: f.Name, Type: d.fieldTy(f.Type), Span: f.Span}
		}

		variants[i] = Variant{Name: v.Name, Fields: fields}
	}

	return &Enum{Name: e.Name, Generics: e.Generics, Variants: variants, Span: e.Span}
}

// fieldTy resolves a struct/enum field's surface TypeExpr using the same
// nominal-name-passthrough the checker uses for declarations — field
// declarations are not separately recorded in Info.Types (only
// expressions are), so an unresolved generic parameter name is kept
// opaque as a struct reference; monomorphization is out of scope (spec
// §1, "no cross-file generics instantiation").
func (d *Desugarer) fieldTy(t ast.TypeExpr) types.HirTy {
	switch x := t.(type) {
	case *ast.NamedType:
		switch x.Name {
		case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64":
			return types.HIntTy{Width: intWidthOf(x.Name)}
		case "f32":
			return types.HFloatTy{Bits: 32}
		case "f64":
			return types.HFloatTy{Bits: 64}
		case "bool":
			return types.HBoolTy{}
		case "char":
			return types.HCharTy{}
		case "str":
			return types.HStrTy{}
		case "unit":
			return types.HUnitTy{}
		default:
			return types.HStructTy{Name: x.Name}
		}
	case *ast.RefType:
		return types.HRefTy{Inner: d.fieldTy(x.Inner), Mutable: x.Mutable}
	case *ast.PtrType:
		return types.HPtrTy{Inner: d.fieldTy(x.Inner), Mutable: x.Mutable}
	case *ast.ArrayType:
		return types.HArrayTy{Inner: d.fieldTy(x.Elem), Length: x.Length}
	case *ast.SliceType:
		return types.HSliceTy{Inner: d.fieldTy(x.Elem)}
	case *ast.OptionalType:
		return types.HOptionalTy{Inner: d.fieldTy(x.Inner)}
	case *ast.TupleType:
		elems := make([]types.HirTy, len(x.Elements))
		for i, e := range x.Elements {
			elems[i] = d.fieldTy(e)
		}

		return types.HTupleTy{Elements: elems}
	default:
		return types.HUnitTy{}
	}
}

func intWidthOf(name string) types.IntWidth {
	switch name {
	case "i8":
		return types.I8
	case "i16":
		return types.I16
	case "i32":
		return types.I32
	case "i64":
		return types.I64
	case "u8":
		return types.U8
	case "u16":
		return types.U16
	case "u32":
		return types.U32
	case "u64":
		return types.U64
	default:
		return types.I32
	}
}

func (d *Desugarer) lowerBlock(b *ast.BlockExpr) (*Block, error) {
	stmts := make([]Stmt, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		lowered, err := d.lowerStmt(s)
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, lowered...)
	}

	var trailing Expr
	var blockTy types.HirTy = types.HUnitTy{}

	if b.Trailing != nil {
		e, err := d.lowerExpr(b.Trailing)
		if err != nil {
			return nil, err
		}

		trailing = e
		blockTy = e.Type()
	}

	return &Block{Stmts: stmts, Trailing: trailing, Ty: blockTy, Span: b.Span}, nil
}

func (d *Desugarer) lowerStmt(s ast.Stmt) ([]Stmt, error) {
	switch x := s.(type) {
	case *ast.LetStmt:
		var init Expr
		if x.Value != nil {
			e, err := d.lowerExpr(x.Value)
			if err != nil {
				return nil, err
			}

			init = e
		}

		var ty types.HirTy = types.HUnitTy{}
		if init != nil {
			ty = init.Type()
		}

		return []Stmt{&Local{Name: x.Name, Type: ty, Init: init, Span: x.Span}}, nil
	case *ast.ExprStmt:
		e, err := d.lowerExpr(x.Value)
		if err != nil {
			return nil, err
		}

		return []Stmt{&ExprStmt{Value: e}}, nil
	case *ast.AssignStmt:
		target, err := d.lowerExpr(x.Target)
		if err != nil {
			return nil, err
		}

		value, err := d.lowerExpr(x.Value)
		if err != nil {
			return nil, err
		}

		assign := &Assign{
			exprBase: exprBase{Ty: types.HUnitTy{}, Span: x.Span},
			Target:   target,
			Value:    value,
		}

		return []Stmt{&ExprStmt{Value: assign}}, nil
	default:
		return nil, fmt.Errorf("internal: unhandled statement %T in AstToHir", s)
	}
}

func (d *Desugarer) exprTy(e ast.Expr) (types.HirTy, error) {
	return d.hirTy(d.info.TypeOf(e))
}

func (d *Desugarer) lowerExpr(e ast.Expr) (Expr, error) {
	switch x := e.(type) {
	case *ast.Literal:
		return d.lowerLiteral(x)
	case *ast.NameExpr:
		ty, err := d.exprTy(e)
		if err != nil {
			return nil, err
		}

		return &Variable{exprBase: exprBase{Ty: ty, Span: x.Span}, Name: x.Name}, nil
	case *ast.BinaryExpr:
		return d.lowerBinary(x)
	case *ast.UnaryExpr:
		return d.lowerUnary(x)
	case *ast.CallExpr:
		ty, err := d.exprTy(e)
		if err != nil {
			return nil, err
		}

		fn, err := d.lowerExpr(x.Callee)
		if err != nil {
			return nil, err
		}

		args, err := d.lowerExprs(x.Args)
		if err != nil {
			return nil, err
		}

		return &Call{exprBase: exprBase{Ty: ty, Span: x.Span}, Func: fn, Args: args}, nil
	case *ast.MethodCallExpr:
		return d.lowerMethodCall(x)
	case *ast.FieldExpr:
		ty, err := d.exprTy(e)
		if err != nil {
			return nil, err
		}

		base, err := d.lowerExpr(x.Base)
		if err != nil {
			return nil, err
		}

		return &FieldAccess{exprBase: exprBase{Ty: ty, Span: x.Span}, Base: base, Field: x.Field}, nil
	case *ast.IndexExpr:
		ty, err := d.exprTy(e)
		if err != nil {
			return nil, err
		}

		base, err := d.lowerExpr(x.Base)
		if err != nil {
			return nil, err
		}

		idx, err := d.lowerExpr(x.Index)
		if err != nil {
			return nil, err
		}

		return &Index{exprBase: exprBase{Ty: ty, Span: x.Span}, Base: base, Index: idx}, nil
	case *ast.TupleExpr:
		ty, err := d.exprTy(e)
		if err != nil {
			return nil, err
		}

		elems, err := d.lowerExprs(x.Elements)
		if err != nil {
			return nil, err
		}

		return &Tuple{exprBase: exprBase{Ty: ty, Span: x.Span}, Elements: elems}, nil
	case *ast.ArrayExpr:
		ty, err := d.exprTy(e)
		if err != nil {
			return nil, err
		}

		elems, err := d.lowerExprs(x.Elements)
		if err != nil {
			return nil, err
		}

		return &Array{exprBase: exprBase{Ty: ty, Span: x.Span}, Elements: elems}, nil
	case *ast.StructLiteralExpr:
		return d.lowerStructLiteral(x)
	case *ast.IfExpr:
		return d.lowerIf(x)
	case *ast.MatchExpr:
		return d.lowerMatch(x)
	case *ast.LoopExpr:
		ty, err := d.exprTy(e)
		if err != nil {
			return nil, err
		}

		body, err := d.lowerBlock(x.Body)
		if err != nil {
			return nil, err
		}

		return &Loop{exprBase: exprBase{Ty: ty, Span: x.Span}, Body: body}, nil
	case *ast.WhileExpr:
		cond, err := d.lowerExpr(x.Cond)
		if err != nil {
			return nil, err
		}

		body, err := d.lowerBlock(x.Body)
		if err != nil {
			return nil, err
		}

		return &While{exprBase: exprBase{Ty: types.HUnitTy{}, Span: x.Span}, Cond: cond, Body: body}, nil
	case *ast.ForExpr:
		return d.lowerFor(x)
	case *ast.BlockExpr:
		blk, err := d.lowerBlock(x)
		if err != nil {
			return nil, err
		}

		return &BlockExpr{exprBase: exprBase{Ty: blk.Ty, Span: x.Span}, Block: blk}, nil
	case *ast.ReturnExpr:
		var val Expr
		if x.Value != nil {
			v, err := d.lowerExpr(x.Value)
			if err != nil {
				return nil, err
			}

			val = v
		}

		return &Return{exprBase: exprBase{Ty: types.HNeverTy{}, Span: x.Span}, Value: val}, nil
	case *ast.BreakExpr:
		var val Expr
		if x.Value != nil {
			v, err := d.lowerExpr(x.Value)
			if err != nil {
				return nil, err
			}

			val = v
		}

		return &Break{exprBase: exprBase{Ty: types.HNeverTy{}, Span: x.Span}, Value: val}, nil
	case *ast.ContinueExpr:
		return &Continue{exprBase: exprBase{Ty: types.HNeverTy{}, Span: x.Span}}, nil
	case *ast.ThrowExpr:
		val, err := d.lowerExpr(x.Value)
		if err != nil {
			return nil, err
		}

		return &Throw{exprBase: exprBase{Ty: types.HNeverTy{}, Span: x.Span}, Value: val}, nil
	case *ast.ClosureExpr:
		return d.lowerClosure(x)
	case *ast.QuestionMarkExpr:
		ty, err := d.exprTy(e)
		if err != nil {
			return nil, err
		}

		val, err := d.lowerExpr(x.Value)
		if err != nil {
			return nil, err
		}

		return &QuestionMark{exprBase: exprBase{Ty: ty, Span: x.Span}, Value: val}, nil
	case *ast.AwaitExpr:
		ty, err := d.exprTy(e)
		if err != nil {
			return nil, err
		}

		val, err := d.lowerExpr(x.Value)
		if err != nil {
			return nil, err
		}

		return &Await{exprBase: exprBase{Ty: ty, Span: x.Span}, Value: val}, nil
	default:
		return nil, fmt.Errorf("internal: unhandled expression %T in AstToHir", e)
	}
}

func (d *Desugarer) lowerExprs(in []ast.Expr) ([]Expr, error) {
	out := make([]Expr, len(in))
	for i, e := range in {
		lowered, err := d.lowerExpr(e)
		if err != nil {
			return nil, err
		}

		out[i] = lowered
	}

	return out, nil
}

func (d *Desugarer) lowerLiteral(l *ast.Literal) (Expr, error) {
	ty, err := d.exprTy(l)
	if err != nil {
		return nil, err
	}

	var val LiteralValue
	switch l.Kind {
	case ast.LitInt:
		val = LitInt(l.IntVal)
	case ast.LitFloat:
		val = LitFloat(l.FloatVal)
	case ast.LitBool:
		val = LitBool(l.BoolVal)
	case ast.LitChar:
		r := rune(0)
		for _, c := range l.StrVal {
			r = c
			break
		}

		val = LitChar(r)
	case ast.LitStr:
		val = LitString(l.StrVal)
	default:
		val = LitUnit{}
	}

	return &Literal{exprBase: exprBase{Ty: ty, Span: l.Span}, Value: val}, nil
}

var binOpTable = map[ast.BinaryOp]BinOp{
	ast.OpAdd: BinAdd, ast.OpSub: BinSub, ast.OpMul: BinMul, ast.OpDiv: BinDiv, ast.OpMod: BinMod,
	ast.OpEq: BinEq, ast.OpNe: BinNe, ast.OpLt: BinLt, ast.OpLe: BinLe, ast.OpGt: BinGt, ast.OpGe: BinGe,
	ast.OpAnd: BinAnd, ast.OpOr: BinOr,
	ast.OpBitAnd: BinBitAnd, ast.OpBitOr: BinBitOr, ast.OpBitXor: BinBitXor,
	ast.OpShl: BinShl, ast.OpShr: BinShr,
}

func (d *Desugarer) lowerBinary(b *ast.BinaryExpr) (Expr, error) {
	ty, err := d.exprTy(b)
	if err != nil {
		return nil, err
	}

	lhs, err := d.lowerExpr(b.LHS)
	if err != nil {
		return nil, err
	}

	rhs, err := d.lowerExpr(b.RHS)
	if err != nil {
		return nil, err
	}

	op, ok := binOpTable[b.Op]
	if !ok {
		return nil, fmt.Errorf("internal: unhandled binary operator %d in AstToHir", b.Op)
	}

	return &BinaryOp{exprBase: exprBase{Ty: ty, Span: b.Span}, Op: op, Left: lhs, Right: rhs}, nil
}

var unOpTable = map[ast.UnaryOp]UnOp{
	ast.OpNeg: UnNeg, ast.OpNot: UnNot, ast.OpDeref: UnDeref, ast.OpRef: UnRef, ast.OpRefMut: UnRefMut,
}

func (d *Desugarer) lowerUnary(u *ast.UnaryExpr) (Expr, error) {
	ty, err := d.exprTy(u)
	if err != nil {
		return nil, err
	}

	operand, err := d.lowerExpr(u.Expr)
	if err != nil {
		return nil, err
	}

	op, ok := unOpTable[u.Op]
	if !ok {
		return nil, fmt.Errorf("internal: unhandled unary operator %d in AstToHir", u.Op)
	}

	return &UnaryOp{exprBase: exprBase{Ty: ty, Span: u.Span}, Op: op, Operand: operand}, nil
}

// lowerMethodCall desugars `recv.method(args)` into a free call over the
// qualified target info.MethodTarget resolved during checking, with the
// receiver prepended as the first argument (spec §4.4).
func (d *Desugarer) lowerMethodCall(m *ast.MethodCallExpr) (Expr, error) {
	ty, err := d.exprTy(m)
	if err != nil {
		return nil, err
	}

	target, ok := d.info.MethodTarget[m]
	if !ok {
		return nil, fmt.Errorf("internal: no resolved method target for call to %q", m.Method)
	}

	recv, err := d.lowerExpr(m.Receiver)
	if err != nil {
		return nil, err
	}

	args, err := d.lowerExprs(m.Args)
	if err != nil {
		return nil, err
	}

	fullArgs := append([]Expr{recv}, args...)

	callee := &Variable{exprBase: exprBase{Ty: types.HUnitTy{}, Span: m.Span}, Name: target}

	return &Call{exprBase: exprBase{Ty: ty, Span: m.Span}, Func: callee, Args: fullArgs}, nil
}

func (d *Desugarer) lowerStructLiteral(s *ast.StructLiteralExpr) (Expr, error) {
	ty, err := d.exprTy(s)
	if err != nil {
		return nil, err
	}

	fields := make([]FieldInit, len(s.Fields))
	for i, f := range s.Fields {
		v, err := d.lowerExpr(f.Value)
		if err != nil {
			return nil, err
		}

		fields[i] = FieldInit{Name: f.Name, Value: v}
	}

	return &StructLiteral{exprBase: exprBase{Ty: ty, Span: s.Span}, Name: s.Name, Fields: fields}, nil
}

func (d *Desugarer) lowerIf(i *ast.IfExpr) (Expr, error) {
	ty, err := d.exprTy(i)
	if err != nil {
		return nil, err
	}

	cond, err := d.lowerExpr(i.Cond)
	if err != nil {
		return nil, err
	}

	then, err := d.lowerBlock(i.Then)
	if err != nil {
		return nil, err
	}

	var elseBlk *Block
	switch e := i.Else.(type) {
	case nil:
		elseBlk = nil
	case *ast.BlockExpr:
		elseBlk, err = d.lowerBlock(e)
		if err != nil {
			return nil, err
		}
	case *ast.IfExpr:
		// `else if` chains: wrap the nested IfExpr as the trailing
		// expression of a synthetic block so HIR's If.Else is always a
		// Block (spec §4.4).
		nested, err := d.lowerIf(e)
		if err != nil {
			return nil, err
		}

		elseBlk = &Block{Trailing: nested, Ty: nested.Type(), Span: e.Span}
	default:
		return nil, fmt.Errorf("internal: unhandled if-else arm %T in AstToHir", i.Else)
	}

	return &If{exprBase: exprBase{Ty: ty, Span: i.Span}, Cond: cond, Then: then, Else: elseBlk}, nil
}

func (d *Desugarer) lowerMatch(m *ast.MatchExpr) (Expr, error) {
	ty, err := d.exprTy(m)
	if err != nil {
		return nil, err
	}

	scrutinee, err := d.lowerExpr(m.Scrutinee)
	if err != nil {
		return nil, err
	}

	arms := make([]MatchArm, len(m.Arms))
	for i, a := range m.Arms {
		pat, err := d.lowerPattern(a.Pattern)
		if err != nil {
			return nil, err
		}

		var guard Expr
		if a.Guard != nil {
			guard, err = d.lowerExpr(a.Guard)
			if err != nil {
				return nil, err
			}
		}

		body, err := d.lowerExpr(a.Body)
		if err != nil {
			return nil, err
		}

		arms[i] = MatchArm{Pattern: pat, Guard: guard, Body: body, Span: a.Span}
	}

	return &Match{exprBase: exprBase{Ty: ty, Span: m.Span}, Scrutinee: scrutinee, Arms: arms}, nil
}

func (d *Desugarer) lowerPattern(p ast.Pattern) (Pattern, error) {
	switch x := p.(type) {
	case *ast.WildcardPattern:
		return &WildcardPattern{patternBase: patternBase{Span: x.Span}}, nil
	case *ast.BindingPattern:
		return &BindingPattern{patternBase: patternBase{Span: x.Span}, Name: x.Name, Type: types.HUnitTy{}}, nil
	case *ast.VariantPattern:
		return &VariantPattern{patternBase: patternBase{Span: x.Span}, VariantName: x.Variant, Binds: x.Binds, Type: types.HUnitTy{}}, nil
	case *ast.LiteralPattern:
		lit, err := d.lowerLiteral(x.Value)
		if err != nil {
			return nil, err
		}

		return &LiteralPattern{patternBase: patternBase{Span: x.Span}, Value: lit.(*Literal).Value}, nil
	default:
		return nil, fmt.Errorf("internal: unhandled pattern %T in AstToHir", p)
	}
}

// lowerFor desugars `for x in iter { body }` into a While loop driving an
// index over the iterable (spec §4.4/DESIGN.md: the checker resolves
// iteration as direct array/slice indexing, not a trait-method protocol,
// so the desugaring mirrors that: `let __for_idx_0 = 0; while __for_idx_0 <
// len(iter) { let x = iter[__for_idx_0]; body; __for_idx_0 = __for_idx_0 + 1; }`).
func (d *Desugarer) lowerFor(f *ast.ForExpr) (Expr, error) {
	iter, err := d.lowerExpr(f.Iter)
	if err != nil {
		return nil, err
	}

	body, err := d.lowerBlock(f.Body)
	if err != nil {
		return nil, err
	}

	idxName := fmt.Sprintf("__for_idx_%d", d.forCounter)
	d.forCounter++

	idxTy := types.HIntTy{Width: types.I64}
	idxVar := &Variable{exprBase: exprBase{Ty: idxTy, Span: f.Span}, Name: idxName}

	// The element type is whatever info.Types recorded for the original
	// binding's uses; absent per-binding type storage pre-desugar, fall
	// back to the iterable's element type when statically known.
	var bindTy types.HirTy = types.HUnitTy{}
	switch it := iter.Type().(type) {
	case types.HArrayTy:
		bindTy = it.Inner
	case types.HSliceTy:
		bindTy = it.Inner
	}

	lenCall := &Call{
		exprBase: exprBase{Ty: idxTy, Span: f.Span},
		Func:     &Variable{exprBase: exprBase{Ty: types.HUnitTy{}, Span: f.Span}, Name: "len"},
		Args:     []Expr{iter},
	}

	cond := &BinaryOp{
		exprBase: exprBase{Ty: types.HBoolTy{}, Span: f.Span},
		Op:       BinLt,
		Left:     idxVar,
		Right:    lenCall,
	}

	indexElem := &Index{exprBase: exprBase{Ty: bindTy, Span: f.Span}, Base: iter, Index: idxVar}

	bodyStmts := make([]Stmt, 0, len(body.Stmts)+2)
	bodyStmts = append(bodyStmts, &Local{Name: f.Binding, Type: bindTy, Init: indexElem, Span: f.Span})
	bodyStmts = append(bodyStmts, body.Stmts...)

	if body.Trailing != nil {
		bodyStmts = append(bodyStmts, &ExprStmt{Value: body.Trailing})
	}

	incr := &Assign{
		exprBase: exprBase{Ty: types.HUnitTy{}, Span: f.Span},
		Target:   idxVar,
		Value: &BinaryOp{
			exprBase: exprBase{Ty: idxTy, Span: f.Span},
			Op:       BinAdd,
			Left:     idxVar,
			Right:    &Literal{exprBase: exprBase{Ty: idxTy, Span: f.Span}, Value: LitInt(1)},
		},
	}

	bodyStmts = append(bodyStmts, &ExprStmt{Value: incr})

	whileLoop := &While{
		exprBase: exprBase{Ty: types.HUnitTy{}, Span: f.Span},
		Cond:     cond,
		Body:     &Block{Stmts: bodyStmts, Ty: types.HUnitTy{}, Span: f.Body.Span},
	}

	initIdx := &Local{
		Name: idxName,
		Type: idxTy,
		Init: &Literal{exprBase: exprBase{Ty: idxTy, Span: f.Span}, Value: LitInt(0)},
		Span: f.Span,
	}

	return &BlockExpr{
		exprBase: exprBase{Ty: types.HUnitTy{}, Span: f.Span},
		Block: &Block{
			Stmts: []Stmt{initIdx, &ExprStmt{Value: whileLoop}},
			Ty:    types.HUnitTy{},
				Span:  f.Span,
		},
	}, nil
}

func (d *Desugarer) lowerClosure(c *ast.ClosureExpr) (Expr, error) {
	ty, err := d.exprTy(c)
	if err != nil {
		return nil, err
	}

	ci, ok := d.info.Closures[c]
	if !ok {
		return nil, fmt.Errorf("internal: no checker capture info for closure at %v", c.Span)
	}

	params := make([]Param, len(c.Params))
	for i, p := range c.Params {
		var pty types.HirTy = types.HUnitTy{}
		if i < len(ci.ParamTypes) {
			pty, err = d.hirTy(ci.ParamTypes[i])
			if err != nil {
				return nil, err
			}
		}

		params[i] = Param{Name: p.Name, Type: pty, Span: p.Span}
	}

	captures := make([]Capture, len(ci.Captures))
	for i, capInfo := range ci.Captures {
		capTy, err := d.hirTy(capInfo.Type)
		if err != nil {
			return nil, err
		}

		captures[i] = Capture{Name: capInfo.Name, Mode: capInfo.Mode, Type: capTy, Span: c.Span}
	}

	body, err := d.lowerExpr(c.Body)
	if err != nil {
		return nil, err
	}

	return &Closure{exprBase: exprBase{Ty: ty, Span: c.Span}, Params: params, Captures: captures, Body: body}, nil
}
