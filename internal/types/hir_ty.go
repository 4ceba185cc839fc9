package types

import (
	"fmt"
	"strings"
)

// HirTy is identical to InferredTy minus TyVar and TyEffectMarker — it
// is proof that inference has completed (§3.1). AstToHir and everything
// downstream only ever sees HirTy, never InferredTy.
type HirTy interface {
	hirTyNode()
	String() string
}

type HIntTy struct{ Width IntWidth }

func (HIntTy) hirTyNode()  {}
func (t HIntTy) String() string { return t.Width.String() }

type HFloatTy struct{ Bits int }

func (HFloatTy) hirTyNode() {}
func (t HFloatTy) String() string {
	if t.Bits == 32 {
		return "f32"
	}

	return "f64"
}

type HBoolTy struct{}

func (HBoolTy) hirTyNode()  {}
func (HBoolTy) String() string { return "bool" }

type HCharTy struct{}

func (HCharTy) hirTyNode()  {}
func (HCharTy) String() string { return "char" }

type HStrTy struct{}

func (HStrTy) hirTyNode()  {}
func (HStrTy) String() string { return "str" }

type HUnitTy struct{}

func (HUnitTy) hirTyNode()  {}
func (HUnitTy) String() string { return "()" }

type HNeverTy struct{}

func (HNeverTy) hirTyNode()  {}
func (HNeverTy) String() string { return "!" }

type HRefTy struct {
	Inner   HirTy
	Mutable bool
}

func (HRefTy) hirTyNode() {}
func (t HRefTy) String() string {
	if t.Mutable {
		return "&mut " + t.Inner.String()
	}

	return "&" + t.Inner.String()
}

type HPtrTy struct {
	Inner   HirTy
	Mutable bool
}

func (HPtrTy) hirTyNode() {}
func (t HPtrTy) String() string {
	if t.Mutable {
		return "*mut " + t.Inner.String()
	}

	return "*" + t.Inner.String()
}

type HArrayTy struct {
	Inner  HirTy
	Length int64
}

func (HArrayTy) hirTyNode()  {}
func (t HArrayTy) String() string { return fmt.Sprintf("[%s; %d]", t.Inner, t.Length) }

type HSliceTy struct{ Inner HirTy }

func (HSliceTy) hirTyNode()  {}
func (t HSliceTy) String() string { return "[" + t.Inner.String() + "]" }

type HTupleTy struct{ Elements []HirTy }

func (HTupleTy) hirTyNode() {}
func (t HTupleTy) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

type HFuncTy struct {
	Params []HirTy
	Return HirTy
}

func (HFuncTy) hirTyNode() {}
func (t HFuncTy) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}

	return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), t.Return)
}

type HStructTy struct {
	Name string
	Args []HirTy
}

func (HStructTy) hirTyNode()  {}
func (t HStructTy) String() string { return t.Name }

type HEnumTy struct {
	Name string
	Args []HirTy
}

func (HEnumTy) hirTyNode()  {}
func (t HEnumTy) String() string { return t.Name }

type HOptionalTy struct{ Inner HirTy }

func (HOptionalTy) hirTyNode()  {}
func (t HOptionalTy) String() string { return t.Inner.String() + "?" }

// HTraitObjectTy is `dyn Trait` / `impl Trait`; the distinction still
// exists at HIR and only collapses when lowering to MirTy (§3.1).
type HTraitObjectTy struct {
	TraitName string
	IsImpl    bool
}

func (HTraitObjectTy) hirTyNode()  {}
func (t HTraitObjectTy) String() string {
	if t.IsImpl {
		return "impl " + t.TraitName
	}

	return "dyn " + t.TraitName
}
