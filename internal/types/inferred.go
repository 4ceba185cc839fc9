package types

import (
	"fmt"
	"strings"
)

// InferredTy is the type checker's vocabulary (§3.1): fully resolved
// types plus TyVar inference holes.
type InferredTy interface {
	inferredTyNode()
	String() string
}

// IntWidth enumerates the integer widths named in §3.1.
type IntWidth int

const (
	I8 IntWidth = iota
	I16
	I32
	I64
	I128
	ISize
	U8
	U16
	U32
	U64
	U128
	USize
)

func (w IntWidth) String() string {
	names := map[IntWidth]string{
		I8: "i8", I16: "i16", I32: "i32", I64: "i64", I128: "i128", ISize: "isize",
		U8: "u8", U16: "u16", U32: "u32", U64: "u64", U128: "u128", USize: "usize",
	}

	return names[w]
}

// IsSigned reports whether the width is a signed integer type.
func (w IntWidth) IsSigned() bool { return w <= ISize }

// BitSize returns the width's size in bits, or -1 for usize/isize
// (pointer-sized, resolved by Layout at the MIR/LIR boundary).
func (w IntWidth) BitSize() int {
	switch w {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32:
		return 32
	case I64, U64:
		return 64
	case I128, U128:
		return 128
	default:
		return -1
	}
}

// TyVar is an unresolved inference hole, identified by a counter from
// Env's fresh-type-variable source (§4.1).
type TyVar struct{ ID int }

func (TyVar) inferredTyNode() {}
func (t TyVar) String() string { return fmt.Sprintf("?%d", t.ID) }

// TyInt is a fixed-width integer type.
type TyInt struct{ Width IntWidth }

func (TyInt) inferredTyNode()  {}
func (t TyInt) String() string { return t.Width.String() }

// TyFloat is f32 or f64.
type TyFloat struct{ Bits int } // 32 or 64

func (TyFloat) inferredTyNode() {}
func (t TyFloat) String() string {
	if t.Bits == 32 {
		return "f32"
	}

	return "f64"
}

// TyBool, TyChar, TyStr, TyUnit, TyNever are the remaining primitives.
type TyBool struct{}

func (TyBool) inferredTyNode()  {}
func (TyBool) String() string   { return "bool" }

type TyChar struct{}

func (TyChar) inferredTyNode() {}
func (TyChar) String() string  { return "char" }

type TyStr struct{}

func (TyStr) inferredTyNode() {}
func (TyStr) String() string  { return "str" }

type TyUnit struct{}

func (TyUnit) inferredTyNode() {}
func (TyUnit) String() string  { return "()" }

// TyNever is the bottom type: it unifies with anything (§4.2).
type TyNever struct{}

func (TyNever) inferredTyNode() {}
func (TyNever) String() string  { return "!" }

// TyRef is `&T` / `&mut T`.
type TyRef struct {
	Inner   InferredTy
	Mutable bool
}

func (TyRef) inferredTyNode() {}
func (t TyRef) String() string {
	if t.Mutable {
		return "&mut " + t.Inner.String()
	}

	return "&" + t.Inner.String()
}

// TyPtr is `*T` / `*mut T` (raw pointer).
type TyPtr struct {
	Inner   InferredTy
	Mutable bool
}

func (TyPtr) inferredTyNode() {}
func (t TyPtr) String() string {
	if t.Mutable {
		return "*mut " + t.Inner.String()
	}

	return "*" + t.Inner.String()
}

// TyArray is a fixed-length array `[T; N]`.
type TyArray struct {
	Inner  InferredTy
	Length int64
}

func (TyArray) inferredTyNode()  {}
func (t TyArray) String() string { return fmt.Sprintf("[%s; %d]", t.Inner, t.Length) }

// TySlice is a dynamically-sized view `[T]`.
type TySlice struct{ Inner InferredTy }

func (TySlice) inferredTyNode()  {}
func (t TySlice) String() string { return "[" + t.Inner.String() + "]" }

// TyTuple is `(T1, T2, ...)`.
type TyTuple struct{ Elements []InferredTy }

func (TyTuple) inferredTyNode() {}
func (t TyTuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

// TyFunc is `fn(T1, T2) -> R`.
type TyFunc struct {
	Params []InferredTy
	Return InferredTy
}

func (TyFunc) inferredTyNode() {}
func (t TyFunc) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}

	ret := "()"
	if t.Return != nil {
		ret = t.Return.String()
	}

	return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), ret)
}

// TyStruct names a nominal struct with resolved generic arguments.
type TyStruct struct {
	Name string
	Args []InferredTy
}

func (TyStruct) inferredTyNode() {}
func (t TyStruct) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}

	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}

	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
}

// TyEnum names a nominal enum with resolved generic arguments.
type TyEnum struct {
	Name string
	Args []InferredTy
}

func (TyEnum) inferredTyNode() {}
func (t TyEnum) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}

	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}

	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
}

// TyOptional is `T?`.
type TyOptional struct{ Inner InferredTy }

func (TyOptional) inferredTyNode()  {}
func (t TyOptional) String() string { return t.Inner.String() + "?" }

// TyTraitObject is a dynamically-dispatched `dyn Trait` value. It is
// fully resolved to a nominal type by LIR (§9); the distinction from
// impl-trait collapses at MIR (§3.1).
type TyTraitObject struct {
	TraitName string
	IsImpl    bool // true for `impl Trait`, false for `dyn Trait`
}

func (TyTraitObject) inferredTyNode() {}
func (t TyTraitObject) String() string {
	if t.IsImpl {
		return "impl " + t.TraitName
	}

	return "dyn " + t.TraitName
}

// TyEffectMarker is the pseudo-type used by earlier `Ty::Effect`
// experiments. The effect system has since moved out to a parallel
// EffectSet owned by Env (§9); this marker is kept only so HirTy's
// "InferredTy minus TyVar/Effect" definition has something concrete to
// subtract (§3.1).
type TyEffectMarker struct{ Name string }

func (TyEffectMarker) inferredTyNode() {}
func (t TyEffectMarker) String() string { return "effect<" + t.Name + ">" }

// DefaultIntTy and DefaultFloatTy are the contextless defaults the
// checker falls back to for numeric literals (§4.3).
var (
	DefaultIntTy   InferredTy = TyInt{Width: I32}
	DefaultFloatTy InferredTy = TyFloat{Bits: 64}
)

// IsCopy reports whether values of t are implicitly copied rather than
// moved. Used by the closure capture-mode rule (§4.3) and carried
// forward as MirTy.IsCopyTy (§3.1).
func IsCopy(t InferredTy) bool {
	switch v := t.(type) {
	case TyInt, TyFloat, TyBool, TyChar, TyUnit, TyNever, TyPtr:
		return true
	case TyRef:
		return true // references are Copy regardless of mutability in ZULON
	case TyArray:
		return IsCopy(v.Inner)
	case TyTuple:
		for _, e := range v.Elements {
			if !IsCopy(e) {
				return false
			}
		}

		return true
	default:
		return false
	}
}
