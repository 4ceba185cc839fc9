package types

import "fmt"

// InferredToHir is the total conversion from InferredTy to HirTy
// (§3.1/§9): it is a proof that inference has completed. It fails only
// if a TyVar or TyEffectMarker survived — an invariant violation, since
// the type checker must have resolved every variable before producing
// typed AST (§3.3 "every HIR expression has a resolved type").
func InferredToHir(t InferredTy) (HirTy, error) {
	switch x := t.(type) {
	case TyVar:
		return nil, fmt.Errorf("internal: unresolved type variable %s reached AstToHir", x)
	case TyEffectMarker:
		return nil, fmt.Errorf("internal: effect marker %s reached AstToHir; effects are tracked by EffectSet", x)
	case TyInt:
		return HIntTy{Width: x.Width}, nil
	case TyFloat:
		return HFloatTy{Bits: x.Bits}, nil
	case TyBool:
		return HBoolTy{}, nil
	case TyChar:
		return HCharTy{}, nil
	case TyStr:
		return HStrTy{}, nil
	case TyUnit:
		return HUnitTy{}, nil
	case TyNever:
		return HNeverTy{}, nil
	case TyRef:
		inner, err := InferredToHir(x.Inner)
		if err != nil {
			return nil, err
		}

		return HRefTy{Inner: inner, Mutable: x.Mutable}, nil
	case TyPtr:
		inner, err := InferredToHir(x.Inner)
		if err != nil {
			return nil, err
		}

		return HPtrTy{Inner: inner, Mutable: x.Mutable}, nil
	case TyArray:
		inner, err := InferredToHir(x.Inner)
		if err != nil {
			return nil, err
		}

		return HArrayTy{Inner: inner, Length: x.Length}, nil
	case TySlice:
		inner, err := InferredToHir(x.Inner)
		if err != nil {
			return nil, err
		}

		return HSliceTy{Inner: inner}, nil
	case TyOptional:
		inner, err := InferredToHir(x.Inner)
		if err != nil {
			return nil, err
		}

		return HOptionalTy{Inner: inner}, nil
	case TyTuple:
		elems := make([]HirTy, len(x.Elements))
		for i, e := range x.Elements {
			h, err := InferredToHir(e)
			if err != nil {
				return nil, err
			}

			elems[i] = h
		}

		return HTupleTy{Elements: elems}, nil
	case TyFunc:
		params := make([]HirTy, len(x.Params))
		for i, p := range x.Params {
			h, err := InferredToHir(p)
			if err != nil {
				return nil, err
			}

			params[i] = h
		}

		ret, err := InferredToHir(x.Return)
		if err != nil {
			return nil, err
		}

		return HFuncTy{Params: params, Return: ret}, nil
	case TyStruct:
		args := make([]HirTy, len(x.Args))
		for i, a := range x.Args {
			h, err := InferredToHir(a)
			if err != nil {
				return nil, err
			}

			args[i] = h
		}

		return HStructTy{Name: x.Name, Args: args}, nil
	case TyEnum:
		args := make([]HirTy, len(x.Args))
		for i, a := range x.Args {
			h, err := InferredToHir(a)
			if err != nil {
				return nil, err
			}

			args[i] = h
		}

		return HEnumTy{Name: x.Name, Args: args}, nil
	case TyTraitObject:
		return HTraitObjectTy{TraitName: x.TraitName, IsImpl: x.IsImp()}, nil
	default:
		return nil, fmt.Errorf("internal: unhandled InferredTy %T", t)
	}
}

// IsImp reports whether the trait object came from `impl Trait` syntax.
// Defined as a method to keep the TyTraitObject field name (IsImpl)
// unambiguous at call sites that also touch HTraitObjectTy.IsImpl.
func (t TyTraitObject) IsImp() bool { return t.IsImpl }

// NominalSizeInfo reports whether a nominal (struct/enum) type is Copy
// and/or needs drop glue, as computed by HirToMir from its declaration.
type NominalSizeInfo struct {
	Copy       bool
	NeedsDrop  bool
}

// NominalResolver looks up predicates for a nominal type by name, used
// by HirToMirTy to fill in MNominalTy.Copy/NeedsDrop.
type NominalResolver func(name string) NominalSizeInfo

// HirToMirTy is the total conversion from HirTy to MirTy (§3.1): the
// ImplTrait/TraitObject distinction collapses to an opaque nominal type.
func HirToMirTy(t HirTy, resolve NominalResolver) MirTy {
	switch x := t.(type) {
	case HIntTy:
		return MIntTy{Width: x.Width}
	case HFloatTy:
		return MFloatTy{Bits: x.Bits}
	case HBoolTy:
		return MBoolTy{}
	case HCharTy:
		return MCharTy{}
	case HStrTy:
		return MStrTy{}
	case HUnitTy:
		return MUnitTy{}
	case HNeverTy:
		return MNeverTy{}
	case HRefTy:
		return MRefTy{Inner: HirToMirTy(x.Inner, resolve), Mutable: x.Mutable}
	case HPtrTy:
		return MPtrTy{Inner: HirToMirTy(x.Inner, resolve), Mutable: x.Mutable}
	case HArrayTy:
		return MArrayTy{Inner: HirToMirTy(x.Inner, resolve), Length: x.Length}
	case HSliceTy:
		return MSliceTy{Inner: HirToMirTy(x.Inner, resolve)}
	case HOptionalTy:
		return MOptionalTy{Inner: HirToMirTy(x.Inner, resolve)}
	case HTupleTy:
		elems := make([]MirTy, len(x.Elements))
		for i, e := range x.Elements {
			elems[i] = HirToMirTy(e, resolve)
		}

		return MTupleTy{Elements: elems}
	case HFuncTy:
		params := make([]MirTy, len(x.Params))
		for i, p := range x.Params {
			params[i] = HirToMirTy(p, resolve)
		}

		return MFuncTy{Params: params, Return: HirToMirTy(x.Return, resolve)}
	case HStructTy:
		args := make([]MirTy, len(x.Args))
		for i, a := range x.Args {
			args[i] = HirToMirTy(a, resolve)
		}

		info := resolve(x.Name)

		return MNominalTy{Name: x.Name, Args: args, Copy: info.Copy, NeedsDrop_: info.NeedsDrop}
	case HEnumTy:
		args := make([]MirTy, len(x.Args))
		for i, a := range x.Args {
			args[i] = HirToMirTy(a, resolve)
		}

		info := resolve(x.Name)

		return MNominalTy{Name: x.Name, Args: args, Copy: info.Copy, NeedsDrop_: info.NeedsDrop}
	case HTraitObjectTy:
		// Dynamic dispatch via trait objects is fully resolved to nominal
		// types by LIR (§9 design notes); at MIR it is already just an
		// opaque nominal carrying a vtable pointer.
		info := resolve(x.TraitName)

		return MNominalTy{Name: "dyn " + x.TraitName, Copy: info.Copy, NeedsDrop_: info.NeedsDrop}
	default:
		panic(fmt.Sprintf("internal: unhandled HirTy %T", t))
	}
}

// StructLirInfo reports the precomputed size/alignment of a MIR nominal
// type, as produced by internal/layout.
type StructLirInfo struct {
	Size  int64
	Align int64
}

// StructLirResolver looks up layout info for a nominal type by name.
type StructLirResolver func(name string) StructLirInfo

// MirToLirTy is the total conversion from MirTy to LirTy (§3.1/§4.8):
// strings, slices, tuples, optionals and nominal types all become
// opaque structs-by-name-and-size; everything else maps structurally.
func MirToLirTy(t MirTy, resolve StructLirResolver) LirTy {
	switch x := t.(type) {
	case MIntTy:
		return LIntTy{Width: x.Width}
	case MFloatTy:
		return LFloatTy{Bits: x.Bits}
	case MBoolTy:
		return LBoolTy{}
	case MCharTy:
		return LIntTy{Width: U32} // chars are 4-byte Unicode scalar values at machine level
	case MStrTy:
		info := resolve("str")
		return LStructTy{Name: "str", Size: info.Size, Align: info.Align}
	case MUnitTy:
		return LUnitTy{}
	case MNeverTy:
		return LNeverTy{}
	case MRefTy:
		return LPtrTy{Inner: MirToLirTy(x.Inner, resolve)}
	case MPtrTy:
		return LPtrTy{Inner: MirToLirTy(x.Inner, resolve)}
	case MArrayTy:
		return LArrayTy{Inner: MirToLirTy(x.Inner, resolve), Length: x.Length}
	case MSliceTy:
		info := resolve("slice")
		return LStructTy{Name: fmt.Sprintf("slice<%s>", x.Inner), Size: info.Size, Align: info.Align}
	case MTupleTy:
		info := resolve(x.String())
		return LStructTy{Name: x.String(), Size: info.Size, Align: info.Align}
	case MOptionalTy:
		info := resolve(x.String())
		return LStructTy{Name: x.String(), Size: info.Size, Align: info.Align}
	case MFuncTy:
		return LPtrTy{Inner: LUnitTy{}} // function pointer: opaque code address
	case MNominalTy:
		info := resolve(x.Name)
		return LStructTy{Name: x.Name, Size: info.Size, Align: info.Align}
	default:
		panic(fmt.Sprintf("internal: unhandled MirTy %T", t))
	}
}
