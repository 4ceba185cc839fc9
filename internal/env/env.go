// Package env implements the lexically scoped symbol table the type
// checker threads through a compilation unit (spec §4.1). Environments
// nest via parent pointers that form a tree; a child scope is exited
// explicitly and dropped, never mutated back into its parent (§3.4).
package env

import (
	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

// Binding is a value binding: a let-bound local, a function parameter,
// or a closure capture.
type Binding struct {
	Type    types.InferredTy
	Mutable bool
}

// FuncSig is a function's declared signature, looked up by callers to
// type-check call expressions (§4.3).
type FuncSig struct {
	Params      []types.InferredTy
	Return      types.InferredTy
	ErrorType   types.InferredTy // nil if the function declares none
	Generics    []string
	DeclaredFx  types.EffectSet
}

// effectCell is shared by every scope of one function so nested blocks
// accumulate into the same set (§4.1: "nested scopes inside one
// function share that set by construction").
type effectCell struct{ set types.EffectSet }

// Env is one scope in the nesting tree. The root env owns the
// fresh-type-variable counter; every other field is local to a node.
type Env struct {
	parent    *Env
	bindings  map[string]Binding
	typeDefs  map[string]types.InferredTy
	funcSigs  map[string]FuncSig
	funcFx    map[string]types.EffectSet // accumulated effects, keyed by function name
	effects   map[string]struct{}        // declared effect names in scope

	// currentFx accumulates the effects of the function currently being
	// checked. Shared by pointer across EnterScope within one function,
	// replaced with a fresh cell by EnterFunction.
	currentFx *effectCell

	// root-only state
	isRoot  bool
	tyVarID *int
}

// NewRoot creates a fresh root environment with its own type-variable
// counter.
func NewRoot() *Env {
	counter := 0

	return &Env{
		bindings: make(map[string]Binding),
		typeDefs: make(map[string]types.InferredTy),
		funcSigs: make(map[string]FuncSig),
		funcFx:   make(map[string]types.EffectSet),
		effects:  make(map[string]struct{}),
		isRoot:   true,
		tyVarID:  &counter,
	}
}

// EnterScope returns a fresh child env; the parent is unaffected.
func (e *Env) EnterScope() *Env {
	return &Env{
		parent:    e,
		bindings:  make(map[string]Binding),
		typeDefs:  make(map[string]types.InferredTy),
		funcSigs:  make(map[string]FuncSig),
		funcFx:    make(map[string]types.EffectSet),
		effects:   make(map[string]struct{}),
		currentFx: e.currentFx,
	}
}

// ExitScope returns the parent environment. The child is simply
// discarded — there is no mutation back into the parent (§3.4).
func (e *Env) ExitScope() *Env {
	if e.parent == nil {
		return e
	}

	return e.parent
}

// EnterFunction returns a child scope with a fresh, empty accumulated
// effect set (§4.3: "every function starts checking with an empty
// accumulated effect set").
func (e *Env) EnterFunction() *Env {
	child := e.EnterScope()
	child.currentFx = &effectCell{set: types.NewEffectSet()}

	return child
}

// AddEffect unions kind into the current function's accumulated set
// (called when checking a call expression or a built-in with known
// effects, §4.3).
func (e *Env) AddEffect(kind types.EffectKind) {
	if e.currentFx == nil {
		return
	}

	e.currentFx.set = e.currentFx.set.Add(kind)
}

// UnionEffects unions an entire set into the current function's
// accumulated set (used when a call's callee effect set is looked up).
func (e *Env) UnionEffects(fx types.EffectSet) {
	if e.currentFx == nil {
		return
	}

	e.currentFx.set = e.currentFx.set.Union(fx)
}

// CurrentEffects returns the function-in-progress's accumulated set.
func (e *Env) CurrentEffects() types.EffectSet {
	if e.currentFx == nil {
		return types.NewEffectSet()
	}

	return e.currentFx.set
}

// InsertBinding adds a value binding to the current scope.
func (e *Env) InsertBinding(name string, b Binding) { e.bindings[name] = b }

// LookupBinding walks the parent chain for a value binding.
func (e *Env) LookupBinding(name string) (Binding, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			return b, true
		}
	}

	return Binding{}, false
}

// InsertTypeDef registers a nominal type's definition (its InferredTy
// shape, used to validate field access and pattern exhaustiveness).
func (e *Env) InsertTypeDef(name string, t types.InferredTy) { e.typeDefs[name] = t }

// LookupTypeDef walks the parent chain for a registered type definition.
func (e *Env) LookupTypeDef(name string) (types.InferredTy, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if t, ok := cur.typeDefs[name]; ok {
			return t, true
		}
	}

	return nil, false
}

// InsertFunctionSignature registers a function's declared signature.
func (e *Env) InsertFunctionSignature(name string, sig FuncSig) { e.funcSigs[name] = sig }

// LookupFunctionSignature walks the parent chain for a function's
// declared signature.
func (e *Env) LookupFunctionSignature(name string) (FuncSig, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if sig, ok := cur.funcSigs[name]; ok {
			return sig, true
		}
	}

	return FuncSig{}, false
}

// InsertFunctionEffects stores a function's accumulated effect set once
// checking completes, keyed by name, so later callers see it (§4.3).
func (e *Env) InsertFunctionEffects(name string, fx types.EffectSet) { e.funcFx[name] = fx }

// LookupFunctionEffects walks the parent chain for a previously stored
// accumulated effect set.
func (e *Env) LookupFunctionEffects(name string) (types.EffectSet, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if fx, ok := cur.funcFx[name]; ok {
			return fx, true
		}
	}

	return nil, false
}

// InsertEffectDeclaration registers a user-declared effect name as valid.
func (e *Env) InsertEffectDeclaration(name string) { e.effects[name] = struct{}{} }

// LookupEffectDeclaration walks the parent chain for a declared effect.
func (e *Env) LookupEffectDeclaration(name string) bool {
	for cur := e; cur != nil; cur = cur.parent {
		if _, ok := cur.effects[name]; ok {
			return true
		}
	}

	return false
}

// FreshTyVar allocates a new, globally unique TyVar from the root's
// counter.
func (e *Env) FreshTyVar() types.TyVar {
	root := e

	for root.parent != nil {
		root = root.parent
	}

	*root.tyVarID++

	return types.TyVar{ID: *root.tyVarID}
}
