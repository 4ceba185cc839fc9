package types

import (
	"fmt"
	"strings"
)

// MirTy is identical to HirTy minus the ImplTrait/TraitObject
// distinction — both collapse to an opaque nominal type (§3.1). It
// additionally carries IsCopy/NeedsDrop predicates that HirToMir
// computes once so later passes (the borrow checker, MirToLir) never
// have to re-derive them from structure.
type MirTy interface {
	mirTyNode()
	String() string
	// IsCopyTy reports whether values of this type are implicitly
	// duplicated on use rather than moved.
	IsCopyTy() bool
	// NeedsDropTy reports whether values of this type require a drop
	// glue call when they go out of scope.
	NeedsDropTy() bool
}

type MIntTy struct{ Width IntWidth }

func (MIntTy) mirTyNode()      {}
func (t MIntTy) String() string { return t.Width.String() }
func (MIntTy) IsCopyTy() bool   { return true }
func (MIntTy) NeedsDropTy() bool { return false }

type MFloatTy struct{ Bits int }

func (MFloatTy) mirTyNode() {}
func (t MFloatTy) String() string {
	if t.Bits == 32 {
		return "f32"
	}

	return "f64"
}
func (MFloatTy) IsCopyTy() bool   { return true }
func (MFloatTy) NeedsDropTy() bool { return false }

type MBoolTy struct{}

func (MBoolTy) mirTyNode()       {}
func (MBoolTy) String() string   { return "bool" }
func (MBoolTy) IsCopyTy() bool   { return true }
func (MBoolTy) NeedsDropTy() bool { return false }

type MCharTy struct{}

func (MCharTy) mirTyNode()       {}
func (MCharTy) String() string   { return "char" }
func (MCharTy) IsCopyTy() bool   { return true }
func (MCharTy) NeedsDropTy() bool { return false }

type MStrTy struct{}

func (MStrTy) mirTyNode()       {}
func (MStrTy) String() string   { return "str" }
func (MStrTy) IsCopyTy() bool   { return false }
func (MStrTy) NeedsDropTy() bool { return true }

type MUnitTy struct{}

func (MUnitTy) mirTyNode()       {}
func (MUnitTy) String() string   { return "()" }
func (MUnitTy) IsCopyTy() bool   { return true }
func (MUnitTy) NeedsDropTy() bool { return false }

type MNeverTy struct{}

func (MNeverTy) mirTyNode()       {}
func (MNeverTy) String() string   { return "!" }
func (MNeverTy) IsCopyTy() bool   { return true }
func (MNeverTy) NeedsDropTy() bool { return false }

type MRefTy struct {
	Inner   MirTy
	Mutable bool
}

func (MRefTy) mirTyNode() {}
func (t MRefTy) String() string {
	if t.Mutable {
		return "&mut " + t.Inner.String()
	}

	return "&" + t.Inner.String()
}
func (MRefTy) IsCopyTy() bool   { return true }
func (MRefTy) NeedsDropTy() bool { return false }

type MPtrTy struct {
	Inner   MirTy
	Mutable bool
}

func (MPtrTy) mirTyNode() {}
func (t MPtrTy) String() string {
	if t.Mutable {
		return "*mut " + t.Inner.String()
	}

	return "*" + t.Inner.String()
}
func (MPtrTy) IsCopyTy() bool   { return true }
func (MPtrTy) NeedsDropTy() bool { return false }

type MArrayTy struct {
	Inner  MirTy
	Length int64
}

func (MArrayTy) mirTyNode()       {}
func (t MArrayTy) String() string { return fmt.Sprintf("[%s; %d]", t.Inner, t.Length) }
func (t MArrayTy) IsCopyTy() bool { return t.Inner.IsCopyTy() }
func (t MArrayTy) NeedsDropTy() bool { return t.Inner.NeedsDropTy() }

type MSliceTy struct{ Inner MirTy }

func (MSliceTy) mirTyNode()       {}
func (t MSliceTy) String() string { return "[" + t.Inner.String() + "]" }
func (MSliceTy) IsCopyTy() bool   { return false }
func (MSliceTy) NeedsDropTy() bool { return false }

type MTupleTy struct{ Elements []MirTy }

func (MTupleTy) mirTyNode() {}
func (t MTupleTy) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}

	return "(" + strings.Join(parts, ", ") + ")"
}
func (t MTupleTy) IsCopyTy() bool {
	for _, e := range t.Elements {
		if !e.IsCopyTy() {
			return false
		}
	}

	return true
}
func (t MTupleTy) NeedsDropTy() bool {
	for _, e := range t.Elements {
		if e.NeedsDropTy() {
			return true
		}
	}

	return false
}

type MFuncTy struct {
	Params []MirTy
	Return MirTy
}

func (MFuncTy) mirTyNode() {}
func (t MFuncTy) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}

	return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), t.Return)
}
func (MFuncTy) IsCopyTy() bool   { return true } // function pointers are Copy
func (MFuncTy) NeedsDropTy() bool { return false }

// MNominalTy is a struct, enum, or former trait-object/impl-trait value,
// collapsed to an opaque nominal type per §3.1. IsCopy/NeedsDrop are
// computed by HirToMir from the declaration (no #[derive] system here:
// a struct is Copy iff every field is Copy; it needs drop iff it is not
// Copy).
type MNominalTy struct {
	Name       string
	Args       []MirTy
	Copy       bool
	NeedsDrop_ bool
}

func (MNominalTy) mirTyNode()        {}
func (t MNominalTy) String() string  { return t.Name }
func (t MNominalTy) IsCopyTy() bool   { return t.Copy }
func (t MNominalTy) NeedsDropTy() bool { return t.NeedsDrop_ }

type MOptionalTy struct{ Inner MirTy }

func (MOptionalTy) mirTyNode()       {}
func (t MOptionalTy) String() string { return t.Inner.String() + "?" }
func (t MOptionalTy) IsCopyTy() bool { return t.Inner.IsCopyTy() }
func (t MOptionalTy) NeedsDropTy() bool { return t.Inner.NeedsDropTy() }
