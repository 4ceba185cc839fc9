package typecheck

import (
	"fmt"

	"github.com/RunningShrimp/zulon-language-sub001/internal/ast"
	"github.com/RunningShrimp/zulon-language-sub001/internal/diagnostic"
	"github.com/RunningShrimp/zulon-language-sub001/internal/env"
	"github.com/RunningShrimp/zulon-language-sub001/internal/position"
	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

func (c *Checker) synthCall(e *env.Env, n *ast.CallExpr) types.InferredTy {
	if name, ok := n.Callee.(*ast.NameExpr); ok {
		if sig, found := e.LookupFunctionSignature(name.Name); found {
			return c.checkCallAgainst(e, sig, n.Args, n.Span)
		}

		if b, found := e.LookupBinding(name.Name); found {
			if fn, ok := b.Type.(types.TyFunc); ok {
				return c.checkCallAgainst(e, env.FuncSig{Params: fn.Params, Return: fn.Return}, n.Args, n.Span)
			}
		}

		if fx, ok := builtinEffects[name.Name]; ok {
			for _, a := range n.Args {
				c.checkExpr(e, a, nil)
			}

			e.UnionEffects(fx)

			return types.TyUnit{}
		}

		c.bag.Add(diagnostic.New(diagnostic.Error, "undefined function `"+name.Name+"`", n.Span).
			WithCode(diagnostic.UndefinedFunction.StableCode()).Build())

		for _, a := range n.Args {
			c.checkExpr(e, a, nil)
		}

		return e.FreshTyVar()
	}

	calleeTy := c.checkExpr(e, n.Callee, nil)

	fn, ok := calleeTy.(types.TyFunc)
	if !ok {
		c.bag.Add(diagnostic.New(diagnostic.Error,
			fmt.Sprintf("type `%s` is not callable", calleeTy), n.Span).
			WithCode(diagnostic.NotCallable.StableCode()).Build())

		for _, a := range n.Args {
			c.checkExpr(e, a, nil)
		}

		return e.FreshTyVar()
	}

	return c.checkCallAgainst(e, env.FuncSig{Params: fn.Params, Return: fn.Return}, n.Args, n.Span)
}

// checkCallAgainst type-checks a call's arguments against a (possibly
// generic) signature, instantiating fresh type variables for each of the
// signature's generic parameters first (§4.3: "each call instantiates
// its own fresh variables").
func (c *Checker) checkCallAgainst(e *env.Env, sig env.FuncSig, args []ast.Expr, span position.Span) types.InferredTy {
	params, ret := sig.Params, sig.Return

	if len(sig.Generics) > 0 {
		subst := make(map[string]types.InferredTy, len(sig.Generics))
		for _, g := range sig.Generics {
			subst[g] = e.FreshTyVar()
		}

		instParams := make([]types.InferredTy, len(params))
		for i, p := range params {
			instParams[i] = substGenerics(p, subst)
		}

		params = instParams
		ret = substGenerics(ret, subst)
	}

	if len(args) != len(params) {
		c.bag.Add(diagnostic.New(diagnostic.Error,
			fmt.Sprintf("expected %d argument(s), found %d", len(params), len(args)), span).
			WithCode(diagnostic.ArityMismatch.StableCode()).Build())

		for _, a := range args {
			c.checkExpr(e, a, nil)
		}

		return ret
	}

	for i, a := range args {
		c.checkExpr(e, a, params[i])
	}

	if sig.DeclaredFx != nil {
		e.UnionEffects(sig.DeclaredFx)
	}

	return ret
}

// synthMethodCall resolves a method call by the receiver's nominal type
// name, then checks it exactly like a free call whose first argument is
// the receiver (§4.3; the free-function desugaring itself happens in
// AstToHir, §4.4 — here we only resolve and type-check).
func (c *Checker) synthMethodCall(e *env.Env, n *ast.MethodCallExpr) types.InferredTy {
	recvTy := c.checkExpr(e, n.Receiver, nil)

	named := recvTy
	for {
		if r, ok := named.(types.TyRef); ok {
			named = r.Inner
			continue
		}

		break
	}

	typeName := ""
	switch t := named.(type) {
	case types.TyStruct:
		typeName = t.Name
	case types.TyEnum:
		typeName = t.Name
	}

	if typeName == "" {
		c.bag.Add(diagnostic.New(diagnostic.Error,
			fmt.Sprintf("type `%s` has no method `%s`", recvTy, n.Method), n.Span).
			WithCode(diagnostic.NotCallable.StableCode()).Build())

		for _, a := range n.Args {
			c.checkExpr(e, a, nil)
		}

		return e.FreshTyVar()
	}

	qualified := typeName + "." + n.Method

	sig, found := e.LookupFunctionSignature(qualified)
	if !found {
		c.bag.Add(diagnostic.New(diagnostic.Error,
			fmt.Sprintf("no method `%s` found on type `%s`", n.Method, typeName), n.Span).
			WithCode(diagnostic.NotCallable.StableCode()).Build())

		for _, a := range n.Args {
			c.checkExpr(e, a, nil)
		}

		return e.FreshTyVar()
	}

	c.info.MethodTarget[n] = qualified

	// The receiver fills the method's first parameter; the explicit
	// arguments are checked against the remaining ones.
	if len(sig.Params) > 0 {
		sig.Params = sig.Params[1:]
	}

	return c.checkCallAgainst(e, sig, n.Args, n.Span)
}
