package typecheck

import (
	"fmt"

	"github.com/RunningShrimp/zulon-language-sub001/internal/ast"
	"github.com/RunningShrimp/zulon-language-sub001/internal/diagnostic"
	"github.com/RunningShrimp/zulon-language-sub001/internal/env"
	"github.com/RunningShrimp/zulon-language-sub001/internal/position"
	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

// loopCtx tracks the break-value type accumulated for one enclosing
// `loop` expression (§4.3: "a loop's type is the unified type of its
// break expressions, or Never if it never breaks with a value").
type loopCtx struct {
	breakTy  types.InferredTy
	hasBreak bool
}

// Checker implements the bidirectional type-and-effect checker of §4.3.
// One Checker checks exactly one compilation unit; construct a fresh one
// per call to CheckProgram.
type Checker struct {
	unifier *types.Unifier
	sub     types.Substitution
	bag     *diagnostic.Bag
	info    *Info
	rootEnv *env.Env

	currentReturnTy   types.InferredTy
	currentErrorType  types.InferredTy
	currentIsAsync    bool
	currentGenerics   map[string]bool
	loopStack         []*loopCtx
}

// NewChecker constructs a Checker ready to check one compilation unit.
func NewChecker() *Checker {
	return &Checker{unifier: types.NewUnifier(), sub: types.Substitution{}}
}

// CheckProgram type-checks an entire compilation unit (§4.3). It never
// returns a hard error for user-level problems — those are reported as
// diagnostics in the returned bag, per §7's "user errors are algebraic,
// not exceptional". A non-nil error return is reserved for invariant
// violations the checker itself cannot recover from.
func (c *Checker) CheckProgram(prog *ast.Program) (*Info, *diagnostic.Bag, error) {
	c.bag = diagnostic.NewBag()
	c.info = newInfo()
	c.rootEnv = env.NewRoot()

	c.registerItems(c.rootEnv, prog.Items)
	c.checkItems(c.rootEnv, prog.Items)

	return c.info, c.bag, nil
}

// registerItems is the checker's first pass (SPEC_FULL.md "two-pass
// effect computation"): every type, function, and effect declaration in
// the unit is registered before any function body is checked, so mutual
// and forward references resolve.
func (c *Checker) registerItems(e *env.Env, items []ast.Item) {
	// Struct/enum shapes first: field types may reference other nominal
	// types declared later in the same unit.
	for _, it := range items {
		switch x := it.(type) {
		case *ast.StructItem:
			c.info.Structs[x.Name] = x
			e.InsertTypeDef(x.Name, types.TyStruct{Name: x.Name})
		case *ast.EnumItem:
			c.info.Enums[x.Name] = x
			e.InsertTypeDef(x.Name, types.TyEnum{Name: x.Name})
		case *ast.EffectDeclItem:
			e.InsertEffectDeclaration(x.Name)
		case *ast.TypeAliasItem:
			generics := genericSet(x.Generics)
			e.InsertTypeDef(x.Name, c.resolveType(e, x.Target, generics))
		case *ast.ModuleItem:
			c.registerItems(e, x.Items)
		}
	}

	for _, it := range items {
		switch x := it.(type) {
		case *ast.FunctionItem:
			c.registerFunction(e, x.Name, x)
		case *ast.ExternFunctionItem:
			generics := map[string]bool{}
			params := make([]types.InferredTy, len(x.Params))
			for i, p := range x.Params {
				params[i] = c.resolveType(e, p.Type, generics)
			}

			e.InsertFunctionSignature(x.Name, env.FuncSig{
				Params: params,
				Return: c.resolveType(e, x.ReturnType, generics),
			})
			c.info.Order = append(c.info.Order, x.Name)
		case *ast.ImplItem:
			for _, m := range x.Methods {
				qualified := x.TypeName + "." + m.Name
				c.registerFunction(e, qualified, m)
			}
		}
	}
}

func (c *Checker) registerFunction(e *env.Env, name string, fn *ast.FunctionItem) {
	generics := genericSet(fn.Generics)

	params := make([]types.InferredTy, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = c.resolveType(e, p.Type, generics)
	}

	ret := c.resolveType(e, fn.ReturnType, generics)

	var errTy types.InferredTy
	if fn.ErrorType != nil {
		errTy = c.resolveType(e, fn.ErrorType, generics)
	}

	declaredFx := types.NewEffectSet()
	if fn.Effects != nil {
		for _, n := range fn.Effects.Names {
			if kind, ok := resolveEffectName(n); ok {
				declaredFx = declaredFx.Add(kind)
			} else if e.LookupEffectDeclaration(n) {
				declaredFx = declaredFx.Add(types.CustomEffect(n))
			} else {
				c.bag.Add(diagnostic.New(diagnostic.Error, "undefined effect `"+n+"`", fn.Span).
					WithCode(diagnostic.UndefinedEffect.StableCode()).Build())
			}
		}
	}

	if fn.IsAsync {
		declaredFx = declaredFx.Add(types.EffectAsync)
	}

	e.InsertFunctionSignature(name, env.FuncSig{
		Params:     params,
		Return:     ret,
		ErrorType:  errTy,
		Generics:   fn.Generics,
		DeclaredFx: declaredFx,
	})

	c.info.Functions[name] = &FunctionInfo{
		Decl:       fn,
		ParamTypes: params,
		ReturnType: ret,
		ErrorType:  errTy,
		Effects:    declaredFx,
		IsAsync:    fn.IsAsync,
	}
	c.info.Order = append(c.info.Order, name)
}

// checkItems is the checker's second pass: every function body is
// checked against the signatures registered in pass one.
func (c *Checker) checkItems(e *env.Env, items []ast.Item) {
	for _, it := range items {
		switch x := it.(type) {
		case *ast.FunctionItem:
			c.checkFunction(e, x.Name, x)
		case *ast.ImplItem:
			for _, m := range x.Methods {
				c.checkFunction(e, x.TypeName+"."+m.Name, m)
			}
		case *ast.ModuleItem:
			c.checkItems(e, x.Items)
		}
	}
}

func (c *Checker) checkFunction(e *env.Env, name string, fn *ast.FunctionItem) {
	if fn.Body == nil {
		return
	}

	fi := c.info.Functions[name]
	sig, _ := e.LookupFunctionSignature(name)

	fnEnv := e.EnterFunction()
	for i, p := range fn.Params {
		fnEnv.InsertBinding(p.Name, env.Binding{Type: fi.ParamTypes[i], Mutable: p.Mutable})
	}

	prevReturn, prevErr, prevAsync, prevGen := c.currentReturnTy, c.currentErrorType, c.currentIsAsync, c.currentGenerics
	c.currentReturnTy = fi.ReturnType
	c.currentErrorType = fi.ErrorType
	c.currentIsAsync = fn.IsAsync
	c.currentGenerics = genericSet(fn.Generics)

	c.checkBlockExpr(fnEnv, fn.Body, fi.ReturnType)

	accumulated := fnEnv.CurrentEffects()
	if !accumulated.IsSubsetOf(sig.DeclaredFx) {
		for _, k := range accumulated.Sorted() {
			if !sig.DeclaredFx.Contains(k) {
				c.bag.Add(diagnostic.New(diagnostic.Error,
					fmt.Sprintf("function `%s` performs effect `%s` not listed in its declared effects", name, k),
					fn.Span).WithCode(diagnostic.UndefinedEffect.StableCode()).Build())
			}
		}
	}

	fi.Effects = accumulated
	e.InsertFunctionEffects(name, accumulated)

	c.currentReturnTy, c.currentErrorType, c.currentIsAsync, c.currentGenerics = prevReturn, prevErr, prevAsync, prevGen
}

// unify wraps the Unifier, extending the checker's running substitution
// and emitting a diagnostic instead of returning an error (§7).
func (c *Checker) unify(t1, t2 types.InferredTy, span position.Span) types.InferredTy {
	next, err := c.unifier.Unify(c.sub, t1, t2, span)
	if err != nil {
		if ue, ok := err.(*types.UnifyError); ok {
			c.bag.Add(diagnostic.New(diagnostic.Error, ue.Error(), span).
				WithCode(ue.Kind.StableCode()).Build())
		} else {
			c.bag.Add(diagnostic.New(diagnostic.Error, err.Error(), span).Build())
		}

		return c.sub.Apply(t2)
	}

	c.sub = next

	return c.sub.Apply(t2)
}

// record stores the final, substituted type for expr and returns it.
func (c *Checker) record(expr ast.Expr, t types.InferredTy) types.InferredTy {
	resolved := c.sub.Apply(t)
	c.info.Types[expr] = resolved

	return resolved
}
