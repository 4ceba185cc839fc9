package mir

import "github.com/RunningShrimp/zulon-language-sub001/internal/hir"
import "github.com/RunningShrimp/zulon-language-sub001/internal/types"

// BuildNominalResolver computes a types.NominalResolver over every
// struct/enum declared in mod, answering whether each nominal type is
// Copy and/or needs drop glue — the predicates types.HirToMirTy needs to
// fill in MNominalTy (spec §3.1). A type is Copy only if every field it
// owns is itself Copy, recursively; anything not provably Copy is
// conservatively treated as needing drop glue, since proving the
// negative (a type owns no resource needing cleanup) is not this pass's
// job — internal/layout's later size/alignment pass is free to prove a
// tighter answer, but correctness only requires this resolver to never
// under-report NeedsDrop.
func BuildNominalResolver(mod *hir.Module) types.NominalResolver {
	structs := map[string]*hir.Struct{}
	enums := map[string]*hir.Enum{}

	for _, it := range mod.Items {
		switch x := it.(type) {
		case *hir.Struct:
			structs[x.Name] = x
		case *hir.Enum:
			enums[x.Name] = x
		}
	}

	cache := map[string]types.NominalSizeInfo{}
	visiting := map[string]bool{}

	var isCopy func(t types.HirTy) bool
	var infoOf func(name string) types.NominalSizeInfo

	isCopy = func(t types.HirTy) bool {
		switch x := t.(type) {
		case types.HIntTy, types.HFloatTy, types.HBoolTy, types.HCharTy, types.HUnitTy:
			return true
		case types.HRefTy:
			return true // references themselves are Copy; their referent is not moved
		case types.HArrayTy:
			return isCopy(x.Inner)
		case types.HStructTy:
			return infoOf(x.Name).Copy
		case types.HEnumTy:
			return infoOf(x.Name).Copy
		default:
			return false
		}
	}

	infoOf = func(name string) types.NominalSizeInfo {
		if info, ok := cache[name]; ok {
			return info
		}

		if visiting[name] {
			// Recursive nominal types (e.g. via a Box-like indirection the
			// surface language would require for a literal cycle) are
			// treated as non-Copy, needing-drop: safe and conservative.
			return types.NominalSizeInfo{Copy: false, NeedsDrop: true}
		}

		visiting[name] = true
		defer delete(visiting, name)

		allCopy := true

		if s, ok := structs[name]; ok {
			for _, f := range s.Fields {
				if !isCopy(f.Type) {
					allCopy = false
					break
				}
			}
		} else if e, ok := enums[name]; ok {
			for _, v := range e.Variants {
				for _, f := range v.Fields {
					if !isCopy(f.Type) {
						allCopy = false
						break
					}
				}

				if !allCopy {
					break
				}
			}
		} else {
			// Unknown nominal name (declared outside this compilation unit,
			// spec §1 "no module loading across files"): assume the
			// conservative non-Copy, needs-drop answer.
			allCopy = false
		}

		info := types.NominalSizeInfo{Copy: allCopy, NeedsDrop: !allCopy}
		cache[name] = info

		return info
	}

	return func(name string) types.NominalSizeInfo { return infoOf(name) }
}

// StructFieldOrder returns every struct's declared field names in order,
// used by HirToMir to lower struct literals into ordered constructor
// call arguments (spec §4.5: MIR's closed instruction set has no
// dedicated aggregate-literal opcode, so construction lowers to a Call
// against a synthetic per-type constructor).
func StructFieldOrder(mod *hir.Module) map[string][]string {
	out := map[string][]string{}

	for _, it := range mod.Items {
		if s, ok := it.(*hir.Struct); ok {
			names := make([]string, len(s.Fields))
			for i, f := range s.Fields {
				names[i] = f.Name
			}

			out[s.Name] = names
		}
	}

	return out
}

// EnumVariantFieldOrder returns each enum variant's declared field names
// in order, keyed by variant name (variant names are assumed unique
// across the compilation unit, matching how VariantPattern resolves
// them without an enum-name qualifier — spec §6.1's pattern grammar has
// no `Enum::Variant` qualified form).
func EnumVariantFieldOrder(mod *hir.Module) map[string][]string {
	out := map[string][]string{}

	for _, it := range mod.Items {
		if e, ok := it.(*hir.Enum); ok {
			for _, v := range e.Variants {
				names := make([]string, len(v.Fields))
				for i, f := range v.Fields {
					names[i] = f.Name
				}

				out[v.Name] = names
			}
		}
	}

	return out
}
