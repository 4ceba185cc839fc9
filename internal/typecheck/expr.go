package typecheck

import (
	"fmt"

	"github.com/RunningShrimp/zulon-language-sub001/internal/ast"
	"github.com/RunningShrimp/zulon-language-sub001/internal/diagnostic"
	"github.com/RunningShrimp/zulon-language-sub001/internal/env"
	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

// checkBlockExpr checks a block in its own child scope; expected, if
// non-nil, constrains the block's trailing expression (or forces unit
// if there is none, §4.3 "a block with no trailing expression is
// unit-typed").
func (c *Checker) checkBlockExpr(e *env.Env, block *ast.BlockExpr, expected types.InferredTy) types.InferredTy {
	child := e.EnterScope()

	for _, s := range block.Stmts {
		c.checkStmt(child, s)
	}

	if block.Trailing != nil {
		return c.checkExpr(child, block.Trailing, expected)
	}

	if expected != nil {
		c.unify(types.TyUnit{}, expected, block.Span)
	}

	return types.TyUnit{}
}

func (c *Checker) checkStmt(e *env.Env, s ast.Stmt) {
	switch n := s.(type) {
	case *ast.LetStmt:
		var expected types.InferredTy
		if n.Type != nil {
			expected = c.resolveType(e, n.Type, c.currentGenerics)
		}

		vt := c.checkExpr(e, n.Value, expected)
		if expected != nil {
			vt = expected
		}

		e.InsertBinding(n.Name, env.Binding{Type: vt, Mutable: n.Mutable})
	case *ast.ExprStmt:
		c.checkExpr(e, n.Value, nil)
	case *ast.AssignStmt:
		targetTy := c.checkExpr(e, n.Target, nil)

		if name, ok := n.Target.(*ast.NameExpr); ok {
			if b, found := e.LookupBinding(name.Name); found && !b.Mutable {
				c.bag.Add(diagnostic.New(diagnostic.Error,
					fmt.Sprintf("cannot assign to immutable binding `%s`", name.Name), n.Span).
					WithCode(diagnostic.CannotAssignImmutable.StableCode()).Build())
			}
		}

		c.checkExpr(e, n.Value, targetTy)
	}
}

// checkExpr is the bidirectional entry point: it synthesizes expr's
// type, and if expected is non-nil, unifies the synthesized type against
// it before recording and returning the result (§4.3).
func (c *Checker) checkExpr(e *env.Env, expr ast.Expr, expected types.InferredTy) types.InferredTy {
	synth := c.synth(e, expr, expected)

	if expected != nil {
		synth = c.unify(synth, expected, expr.GetSpan())
	}

	return c.record(expr, synth)
}

func (c *Checker) synth(e *env.Env, expr ast.Expr, expected types.InferredTy) types.InferredTy {
	switch n := expr.(type) {
	case *ast.Literal:
		return c.synthLiteral(n, expected)
	case *ast.NameExpr:
		if b, ok := e.LookupBinding(n.Name); ok {
			return b.Type
		}

		c.bag.Add(diagnostic.New(diagnostic.Error, "undefined variable `"+n.Name+"`", n.Span).
			WithCode(diagnostic.UndefinedVariable.StableCode()).Build())

		return e.FreshTyVar()
	case *ast.BinaryExpr:
		return c.synthBinary(e, n)
	case *ast.UnaryExpr:
		return c.synthUnary(e, n)
	case *ast.CallExpr:
		return c.synthCall(e, n)
	case *ast.MethodCallExpr:
		return c.synthMethodCall(e, n)
	case *ast.FieldExpr:
		return c.synthField(e, n)
	case *ast.IndexExpr:
		return c.synthIndex(e, n)
	case *ast.TupleExpr:
		return c.synthTuple(e, n, expected)
	case *ast.ArrayExpr:
		return c.synthArray(e, n, expected)
	case *ast.StructLiteralExpr:
		return c.synthStructLiteral(e, n)
	case *ast.BlockExpr:
		return c.checkBlockExpr(e, n, expected)
	case *ast.IfExpr:
		return c.synthIf(e, n, expected)
	case *ast.MatchExpr:
		return c.synthMatch(e, n, expected)
	case *ast.LoopExpr:
		return c.synthLoop(e, n)
	case *ast.WhileExpr:
		c.checkExpr(e, n.Cond, types.TyBool{})
		c.checkBlockExpr(e, n.Body, nil)

		return types.TyUnit{}
	case *ast.ForExpr:
		return c.synthFor(e, n)
	case *ast.ReturnExpr:
		if n.Value != nil {
			c.checkExpr(e, n.Value, c.currentReturnTy)
		} else {
			c.unify(types.TyUnit{}, c.currentReturnTy, n.Span)
		}

		return types.TyNever{}
	case *ast.BreakExpr:
		return c.synthBreak(e, n)
	case *ast.ContinueExpr:
		return types.TyNever{}
	case *ast.ThrowExpr:
		return c.synthThrow(e, n)
	case *ast.ClosureExpr:
		return c.synthClosure(e, n)
	case *ast.QuestionMarkExpr:
		return c.synthQuestionMark(e, n)
	case *ast.AwaitExpr:
		return c.synthAwait(e, n)
	default:
		c.bag.Add(diagnostic.New(diagnostic.Error, fmt.Sprintf("internal: unhandled expression form %T", expr), expr.GetSpan()).Build())

		return types.TyUnit{}
	}
}

func (c *Checker) synthLiteral(l *ast.Literal, expected types.InferredTy) types.InferredTy {
	switch l.Kind {
	case ast.LitInt:
		if _, ok := expected.(types.TyInt); ok {
			return expected
		}

		return types.DefaultIntTy
	case ast.LitFloat:
		if _, ok := expected.(types.TyFloat); ok {
			return expected
		}

		return types.DefaultFloatTy
	case ast.LitBool:
		return types.TyBool{}
	case ast.LitChar:
		return types.TyChar{}
	case ast.LitStr:
		return types.TyStr{}
	default:
		return types.TyUnit{}
	}
}

func (c *Checker) synthBinary(e *env.Env, n *ast.BinaryExpr) types.InferredTy {
	switch n.Op {
	case ast.OpAnd, ast.OpOr:
		c.checkExpr(e, n.LHS, types.TyBool{})
		c.checkExpr(e, n.RHS, types.TyBool{})

		return types.TyBool{}
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		lt := c.checkExpr(e, n.LHS, nil)
		c.checkExpr(e, n.RHS, lt)

		return types.TyBool{}
	default: // arithmetic and bitwise
		lt := c.checkExpr(e, n.LHS, nil)
		rt := c.checkExpr(e, n.RHS, lt)

		return rt
	}
}

func (c *Checker) synthUnary(e *env.Env, n *ast.UnaryExpr) types.InferredTy {
	switch n.Op {
	case ast.OpNeg:
		return c.checkExpr(e, n.Expr, nil)
	case ast.OpNot:
		return c.checkExpr(e, n.Expr, types.TyBool{})
	case ast.OpRef:
		inner := c.checkExpr(e, n.Expr, nil)
		return types.TyRef{Inner: inner, Mutable: false}
	case ast.OpRefMut:
		if name, ok := n.Expr.(*ast.NameExpr); ok {
			if b, found := e.LookupBinding(name.Name); found && !b.Mutable {
				c.bag.Add(diagnostic.New(diagnostic.Error,
					fmt.Sprintf("cannot borrow `%s` as mutable: it is not declared `mut`", name.Name), n.Span).
					WithCode(diagnostic.CannotBorrowMutable.StableCode()).Build())
			}
		}

		inner := c.checkExpr(e, n.Expr, nil)
		return types.TyRef{Inner: inner, Mutable: true}
	case ast.OpDeref:
		inner := c.checkExpr(e, n.Expr, nil)

		switch t := inner.(type) {
		case types.TyRef:
			return t.Inner
		case types.TyPtr:
			return t.Inner
		default:
			c.bag.Add(diagnostic.New(diagnostic.Error,
				fmt.Sprintf("cannot dereference non-pointer type `%s`", inner), n.Span).
				WithCode(diagnostic.TypeMismatch.StableCode()).Build())

			return e.FreshTyVar()
		}
	default:
		return e.FreshTyVar()
	}
}

func (c *Checker) synthTuple(e *env.Env, n *ast.TupleExpr, expected types.InferredTy) types.InferredTy {
	expectedTup, _ := expected.(types.TyTuple)

	elems := make([]types.InferredTy, len(n.Elements))
	for i, el := range n.Elements {
		var want types.InferredTy
		if expectedTup.Elements != nil && i < len(expectedTup.Elements) {
			want = expectedTup.Elements[i]
		}

		elems[i] = c.checkExpr(e, el, want)
	}

	return types.TyTuple{Elements: elems}
}

func (c *Checker) synthArray(e *env.Env, n *ast.ArrayExpr, expected types.InferredTy) types.InferredTy {
	var elemExpected types.InferredTy
	if arr, ok := expected.(types.TyArray); ok {
		elemExpected = arr.Inner
	} else if sl, ok := expected.(types.TySlice); ok {
		elemExpected = sl.Inner
	}

	var elemTy types.InferredTy
	for _, el := range n.Elements {
		t := c.checkExpr(e, el, elemExpected)
		if elemExpected == nil {
			elemExpected = t
		}

		elemTy = t
	}

	if elemTy == nil {
		if elemExpected != nil {
			elemTy = elemExpected
		} else {
			elemTy = e.FreshTyVar()
		}
	}

	return types.TyArray{Inner: elemTy, Length: int64(len(n.Elements))}
}

func (c *Checker) synthStructLiteral(e *env.Env, n *ast.StructLiteralExpr) types.InferredTy {
	decl, ok := c.info.Structs[n.Name]
	if !ok {
		c.bag.Add(diagnostic.New(diagnostic.Error, "undefined type `"+n.Name+"`", n.Span).
			WithCode(diagnostic.UndefinedType.StableCode()).Build())

		for _, f := range n.Fields {
			c.checkExpr(e, f.Value, nil)
		}

		return types.TyStruct{Name: n.Name}
	}

	generics := genericSet(decl.Generics)

	for _, f := range n.Fields {
		ft, found := c.fieldType(n.Name, f.Name, generics)
		if !found {
			c.bag.Add(diagnostic.New(diagnostic.Error,
				fmt.Sprintf("struct `%s` has no field `%s`", n.Name, f.Name), n.Span).
				WithCode(diagnostic.UnknownField.StableCode()).Build())

			c.checkExpr(e, f.Value, nil)

			continue
		}

		c.checkExpr(e, f.Value, ft)
	}

	return types.TyStruct{Name: n.Name}
}

func (c *Checker) synthField(e *env.Env, n *ast.FieldExpr) types.InferredTy {
	base := c.checkExpr(e, n.Base, nil)

	for {
		if r, ok := base.(types.TyRef); ok {
			base = r.Inner
			continue
		}

		break
	}

	structName := ""
	switch t := base.(type) {
	case types.TyStruct:
		structName = t.Name
	case types.TyTuple:
		// no named fields on tuples in this surface; fall through to error
	}

	if structName != "" {
		if ft, ok := c.fieldType(structName, n.Field, c.currentGenerics); ok {
			return ft
		}
	}

	c.bag.Add(diagnostic.New(diagnostic.Error,
		fmt.Sprintf("no field `%s` on type `%s`", n.Field, base), n.Span).
		WithCode(diagnostic.UnknownField.StableCode()).Build())

	return e.FreshTyVar()
}

func (c *Checker) synthIndex(e *env.Env, n *ast.IndexExpr) types.InferredTy {
	base := c.checkExpr(e, n.Base, nil)
	c.checkExpr(e, n.Index, types.TyInt{Width: types.USize})

	switch t := base.(type) {
	case types.TySlice:
		return t.Inner
	case types.TyArray:
		return t.Inner
	default:
		c.bag.Add(diagnostic.New(diagnostic.Error,
			fmt.Sprintf("type `%s` cannot be indexed", base), n.Span).
			WithCode(diagnostic.NotIndexable.StableCode()).Build())

		return e.FreshTyVar()
	}
}

func (c *Checker) synthIf(e *env.Env, n *ast.IfExpr, expected types.InferredTy) types.InferredTy {
	c.checkExpr(e, n.Cond, types.TyBool{})

	thenTy := c.checkBlockExpr(e, n.Then, expected)

	if n.Else == nil {
		c.unify(types.TyUnit{}, thenTy, n.Span)
		return types.TyUnit{}
	}

	var elseTy types.InferredTy
	switch els := n.Else.(type) {
	case *ast.BlockExpr:
		elseTy = c.checkBlockExpr(e, els, thenTy)
	default:
		elseTy = c.checkExpr(e, els, thenTy)
	}

	return c.unify(thenTy, elseTy, n.Span)
}

func (c *Checker) synthMatch(e *env.Env, n *ast.MatchExpr, expected types.InferredTy) types.InferredTy {
	scrutTy := c.checkExpr(e, n.Scrutinee, nil)

	var resultTy types.InferredTy = expected

	for _, arm := range n.Arms {
		child := e.EnterScope()
		c.bindPatternTypes(child, arm.Pattern, scrutTy)

		if arm.Guard != nil {
			c.checkExpr(child, arm.Guard, types.TyBool{})
		}

		bodyTy := c.checkExpr(child, arm.Body, resultTy)
		if resultTy == nil {
			resultTy = bodyTy
		}
	}

	if resultTy == nil {
		resultTy = types.TyUnit{}
	}

	c.checkMatchExhaustive(scrutTy, n)

	return resultTy
}

// bindPatternTypes introduces the bindings a pattern brings into scope,
// given the scrutinee's type.
func (c *Checker) bindPatternTypes(e *env.Env, p ast.Pattern, scrutTy types.InferredTy) {
	switch n := p.(type) {
	case *ast.BindingPattern:
		e.InsertBinding(n.Name, env.Binding{Type: scrutTy})
	case *ast.VariantPattern:
		enumName := ""
		if en, ok := scrutTy.(types.TyEnum); ok {
			enumName = en.Name
		}

		decl, ok := c.info.Enums[enumName]
		if !ok {
			for _, b := range n.Binds {
				e.InsertBinding(b, env.Binding{Type: e.FreshTyVar()})
			}

			return
		}

		for _, v := range decl.Variants {
			if v.Name != n.Variant {
				continue
			}

			generics := genericSet(decl.Generics)
			for i, b := range n.Binds {
				if i < len(v.Fields) {
					e.InsertBinding(b, env.Binding{Type: c.resolveType(c.rootEnv, v.Fields[i].Type, generics)})
				}
			}
		}
	case *ast.WildcardPattern, *ast.LiteralPattern:
		// no bindings introduced
	}
}

func (c *Checker) synthLoop(e *env.Env, n *ast.LoopExpr) types.InferredTy {
	ctx := &loopCtx{}
	c.loopStack = append(c.loopStack, ctx)

	c.checkBlockExpr(e, n.Body, nil)

	c.loopStack = c.loopStack[:len(c.loopStack)-1]

	if ctx.hasBreak {
		return ctx.breakTy
	}

	return types.TyNever{}
}

func (c *Checker) synthFor(e *env.Env, n *ast.ForExpr) types.InferredTy {
	iterTy := c.checkExpr(e, n.Iter, nil)

	var elemTy types.InferredTy
	switch t := iterTy.(type) {
	case types.TySlice:
		elemTy = t.Inner
	case types.TyArray:
		elemTy = t.Inner
	default:
		elemTy = e.FreshTyVar()
	}

	child := e.EnterScope()
	child.InsertBinding(n.Binding, env.Binding{Type: elemTy})
	c.checkBlockExpr(child, n.Body, nil)

	return types.TyUnit{}
}

func (c *Checker) synthBreak(e *env.Env, n *ast.BreakExpr) types.InferredTy {
	if len(c.loopStack) == 0 {
		if n.Value != nil {
			c.checkExpr(e, n.Value, nil)
		}

		return types.TyNever{}
	}

	ctx := c.loopStack[len(c.loopStack)-1]

	if n.Value != nil {
		vt := c.checkExpr(e, n.Value, nil)
		if ctx.hasBreak {
			ctx.breakTy = c.unify(ctx.breakTy, vt, n.Span)
		} else {
			ctx.breakTy = vt
			ctx.hasBreak = true
		}
	}

	return types.TyNever{}
}

func (c *Checker) synthThrow(e *env.Env, n *ast.ThrowExpr) types.InferredTy {
	if c.currentErrorType == nil {
		c.bag.Add(diagnostic.New(diagnostic.Error,
			"`throw` used in a function with no declared error type", n.Span).
			WithCode(diagnostic.CannotConvert.StableCode()).Build())

		c.checkExpr(e, n.Value, nil)

		return types.TyNever{}
	}

	c.checkExpr(e, n.Value, c.currentErrorType)

	return types.TyNever{}
}

func (c *Checker) synthClosure(e *env.Env, n *ast.ClosureExpr) types.InferredTy {
	child := e.EnterScope()

	paramTypes := make([]types.InferredTy, len(n.Params))
	for i, p := range n.Params {
		if p.Type != nil {
			paramTypes[i] = c.resolveType(e, p.Type, c.currentGenerics)
		} else {
			paramTypes[i] = e.FreshTyVar()
		}

		child.InsertBinding(p.Name, env.Binding{Type: paramTypes[i], Mutable: p.Mutable})
	}

	var expectedRet types.InferredTy
	if n.ReturnType != nil {
		expectedRet = c.resolveType(e, n.ReturnType, c.currentGenerics)
	}

	retTy := c.checkExpr(child, n.Body, expectedRet)

	bound := map[string]bool{}
	for _, p := range n.Params {
		bound[p.Name] = true
	}

	free := map[string]bool{}
	freeNames(n.Body, bound, free)

	mutated := map[string]bool{}
	mutatedNames(n.Body, mutated)

	var captures []CaptureInfo

	for name := range free {
		b, ok := e.LookupBinding(name)
		if !ok {
			continue
		}

		mode := ast.CaptureImmutableRef
		switch {
		case mutated[name]:
			mode = ast.CaptureMutableRef
		case types.IsCopy(b.Type):
			mode = ast.CaptureByValue
		}

		captures = append(captures, CaptureInfo{Name: name, Type: b.Type, Mode: mode})
	}

	c.info.Closures[n] = ClosureInfo{ParamTypes: paramTypes, ReturnType: retTy, Captures: captures}

	return types.TyFunc{Params: paramTypes, Return: retTy}
}

func (c *Checker) synthQuestionMark(e *env.Env, n *ast.QuestionMarkExpr) types.InferredTy {
	innerTy := c.checkExpr(e, n.Value, nil)

	var calleeErr types.InferredTy

	if call, ok := n.Value.(*ast.CallExpr); ok {
		if name, ok := call.Callee.(*ast.NameExpr); ok {
			if sig, found := c.rootEnv.LookupFunctionSignature(name.Name); found {
				calleeErr = sig.ErrorType
			}
		}
	}

	if c.currentErrorType == nil {
		c.bag.Add(diagnostic.New(diagnostic.Error,
			"`?` used in a function with no declared error type", n.Span).
			WithCode(diagnostic.CannotConvert.StableCode()).Build())

		return innerTy
	}

	if calleeErr != nil && !types.Equal(calleeErr, c.currentErrorType) {
		c.bag.Add(diagnostic.New(diagnostic.Error,
			fmt.Sprintf("cannot convert error type `%s` into `%s`", calleeErr, c.currentErrorType), n.Span).
			WithCode(diagnostic.CannotConvert.StableCode()).Build())
	}

	return innerTy
}

func (c *Checker) synthAwait(e *env.Env, n *ast.AwaitExpr) types.InferredTy {
	if !c.currentIsAsync {
		c.bag.Add(diagnostic.New(diagnostic.Error, "`.await` used outside an async function", n.Span).
			WithCode(diagnostic.TypeMismatch.StableCode()).Build())
	}

	e.AddEffect(types.EffectAsync)

	return c.checkExpr(e, n.Value, nil)
}
