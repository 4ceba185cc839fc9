// Package types implements the five progressively lower type
// vocabularies of the ZULON compiler core (spec §3.1) — SurfaceTy,
// InferredTy, HirTy, MirTy, LirTy — as separate sum types with total
// conversion functions between adjacent levels, plus the Unifier (§4.2)
// and the effect system (§4.3, §9) that rides alongside it.
//
// Each level is kept as its own Go interface rather than collapsed into
// one "universal" type tree: the conversion functions between levels are
// the documentation of what each pass retires (spec §9).
package types

import "fmt"

// SurfaceTy is the parser's textual, unresolved type vocabulary (§3.1).
// It is never unified directly — the type checker resolves it into an
// InferredTy before anything else happens to it.
type SurfaceTy interface {
	surfaceTyNode()
	String() string
}

// SurfaceNamed is a named type reference with optional generic args and
// a textual lifetime (unresolved until the checker runs).
type SurfaceNamed struct {
	Name     string
	Args     []SurfaceTy
	Lifetime string
}

func (SurfaceNamed) surfaceTyNode() {}
func (t SurfaceNamed) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}

	return fmt.Sprintf("%s<%d args>", t.Name, len(t.Args))
}

// SurfaceRef is `&T` / `&mut T` before resolution.
type SurfaceRef struct {
	Inner   SurfaceTy
	Mutable bool
}

func (SurfaceRef) surfaceTyNode() {}
func (t SurfaceRef) String() string {
	if t.Mutable {
		return "&mut " + t.Inner.String()
	}

	return "&" + t.Inner.String()
}

// SurfacePtr is `*T` / `*mut T` before resolution.
type SurfacePtr struct {
	Inner   SurfaceTy
	Mutable bool
}

func (SurfacePtr) surfaceTyNode() {}
func (t SurfacePtr) String() string {
	if t.Mutable {
		return "*mut " + t.Inner.String()
	}

	return "*" + t.Inner.String()
}

// SurfaceArray is `[T; N]`.
type SurfaceArray struct {
	Inner  SurfaceTy
	Length int64
}

func (SurfaceArray) surfaceTyNode()  {}
func (t SurfaceArray) String() string { return fmt.Sprintf("[%s; %d]", t.Inner, t.Length) }

// SurfaceSlice is `[T]`.
type SurfaceSlice struct{ Inner SurfaceTy }

func (SurfaceSlice) surfaceTyNode()  {}
func (t SurfaceSlice) String() string { return "[" + t.Inner.String() + "]" }

// SurfaceTuple is `(T1, T2, ...)`.
type SurfaceTuple struct{ Elements []SurfaceTy }

func (SurfaceTuple) surfaceTyNode()  {}
func (t SurfaceTuple) String() string { return fmt.Sprintf("(%d-tuple)", len(t.Elements)) }

// SurfaceFunc is `fn(T1, T2) -> R`.
type SurfaceFunc struct {
	Params []SurfaceTy
	Return SurfaceTy
}

func (SurfaceFunc) surfaceTyNode()  {}
func (t SurfaceFunc) String() string { return "fn(...)" }

// SurfaceOptional is `T?`.
type SurfaceOptional struct{ Inner SurfaceTy }

func (SurfaceOptional) surfaceTyNode()  {}
func (t SurfaceOptional) String() string { return t.Inner.String() + "?" }

// SurfaceTraitObject is `dyn Trait` / `impl Trait` before resolution.
type SurfaceTraitObject struct {
	TraitName string
	Bounds    []string
}

func (SurfaceTraitObject) surfaceTyNode()  {}
func (t SurfaceTraitObject) String() string { return "dyn " + t.TraitName }
