// Package typecheck implements ZULON's bidirectional type checker
// (spec §4.3): it infers the type of each AST expression, unifying
// against a contextual expected type where the surrounding construct
// demands one, and computes each function's effect set alongside.
//
// Its output is the AST plus a total type assignment — the "typed AST"
// of spec §2 — rather than a second parallel tree. This mirrors the
// go/types convention of an Info map over the existing syntax tree,
// which is the idiomatic Go shape for this exact problem and lets
// AstToHir consume the original AST nodes directly instead of walking a
// second, structurally-identical copy.
package typecheck

import (
	"github.com/RunningShrimp/zulon-language-sub001/internal/ast"
	"github.com/RunningShrimp/zulon-language-sub001/internal/env"
	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

// CaptureInfo describes one free variable captured by a closure (§3.2,
// §4.3).
type CaptureInfo struct {
	Name string
	Type types.InferredTy
	Mode ast.CaptureMode
}

// ClosureInfo is everything AstToHir needs to rewrite a ClosureExpr into
// HIR's closure-with-captures form (§4.4).
type ClosureInfo struct {
	ParamTypes []types.InferredTy
	ReturnType types.InferredTy
	Captures   []CaptureInfo
}

// FunctionInfo is the fully-checked shape of one top-level function,
// including its computed effect set (§4.3).
type FunctionInfo struct {
	Decl       *ast.FunctionItem
	ParamTypes []types.InferredTy
	ReturnType types.InferredTy
	ErrorType  types.InferredTy // nil if none declared
	Effects    types.EffectSet
	IsAsync    bool
}

// Info is the complete output of checking one compilation unit: a total
// type assignment over the AST plus per-function metadata. Every AST
// expression node reachable from a checked function has an entry in
// Types (§3.3: "every HIR expression has a resolved type" — Info.Types
// is where that becomes true one stage earlier, for the AST).
type Info struct {
	Types      map[ast.Expr]types.InferredTy
	Closures   map[*ast.ClosureExpr]ClosureInfo
	// MethodTarget names the free function a method call resolves to
	// (§4.3 "Method calls are resolved by receiver type... then
	// desugared into calls with the receiver as first argument").
	MethodTarget map[*ast.MethodCallExpr]string
	Functions    map[string]*FunctionInfo
	Structs      map[string]*ast.StructItem
	Enums        map[string]*ast.EnumItem
	Order        []string // function names in declaration order, for stable lowering
}

func newInfo() *Info {
	return &Info{
		Types:        make(map[ast.Expr]types.InferredTy),
		Closures:     make(map[*ast.ClosureExpr]ClosureInfo),
		MethodTarget: make(map[*ast.MethodCallExpr]string),
		Functions:    make(map[string]*FunctionInfo),
		Structs:      make(map[string]*ast.StructItem),
		Enums:        make(map[string]*ast.EnumItem),
	}
}

// TypeOf returns the resolved type previously recorded for e, or nil if
// e was never checked (an invariant violation for anything reachable
// from a successfully-checked function).
func (i *Info) TypeOf(e ast.Expr) types.InferredTy { return i.Types[e] }

// scope is unexported; env.Env itself has no exported "current
// function name" field, so the checker tracks it alongside the Env it
// threads through recursion.
type scope struct {
	env  *env.Env
	name string // enclosing function's name, for effect storage
}
