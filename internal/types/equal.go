package types

// Equal reports structural equality between two InferredTy values. Two
// TyVars are equal only if they name the same id — unify resolves
// variables via the substitution before comparing, never here.
func Equal(a, b InferredTy) bool {
	switch x := a.(type) {
	case TyVar:
		y, ok := b.(TyVar)
		return ok && x.ID == y.ID
	case TyInt:
		y, ok := b.(TyInt)
		return ok && x.Width == y.Width
	case TyFloat:
		y, ok := b.(TyFloat)
		return ok && x.Bits == y.Bits
	case TyBool:
		_, ok := b.(TyBool)
		return ok
	case TyChar:
		_, ok := b.(TyChar)
		return ok
	case TyStr:
		_, ok := b.(TyStr)
		return ok
	case TyUnit:
		_, ok := b.(TyUnit)
		return ok
	case TyNever:
		_, ok := b.(TyNever)
		return ok
	case TyRef:
		y, ok := b.(TyRef)
		return ok && x.Mutable == y.Mutable && Equal(x.Inner, y.Inner)
	case TyPtr:
		y, ok := b.(TyPtr)
		return ok && x.Mutable == y.Mutable && Equal(x.Inner, y.Inner)
	case TyArray:
		y, ok := b.(TyArray)
		return ok && x.Length == y.Length && Equal(x.Inner, y.Inner)
	case TySlice:
		y, ok := b.(TySlice)
		return ok && Equal(x.Inner, y.Inner)
	case TyTuple:
		y, ok := b.(TyTuple)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}

		for i := range x.Elements {
			if !Equal(x.Elements[i], y.Elements[i]) {
				return false
			}
		}

		return true
	case TyFunc:
		y, ok := b.(TyFunc)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}

		for i := range x.Params {
			if !Equal(x.Params[i], y.Params[i]) {
				return false
			}
		}

		return Equal(x.Return, y.Return)
	case TyStruct:
		y, ok := b.(TyStruct)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}

		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}

		return true
	case TyEnum:
		y, ok := b.(TyEnum)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}

		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}

		return true
	case TyOptional:
		y, ok := b.(TyOptional)
		return ok && Equal(x.Inner, y.Inner)
	case TyTraitObject:
		y, ok := b.(TyTraitObject)
		return ok && x.TraitName == y.TraitName && x.IsImpl == y.IsImpl
	case TyEffectMarker:
		y, ok := b.(TyEffectMarker)
		return ok && x.Name == y.Name
	default:
		return false
	}
}

// Occurs reports whether the type variable id appears anywhere inside t
// (the unifier's occurs check, §4.2).
func Occurs(id int, t InferredTy) bool {
	switch x := t.(type) {
	case TyVar:
		return x.ID == id
	case TyRef:
		return Occurs(id, x.Inner)
	case TyPtr:
		return Occurs(id, x.Inner)
	case TyArray:
		return Occurs(id, x.Inner)
	case TySlice:
		return Occurs(id, x.Inner)
	case TyOptional:
		return Occurs(id, x.Inner)
	case TyTuple:
		for _, e := range x.Elements {
			if Occurs(id, e) {
				return true
			}
		}

		return false
	case TyFunc:
		for _, p := range x.Params {
			if Occurs(id, p) {
				return true
			}
		}

		return Occurs(id, x.Return)
	case TyStruct:
		for _, a := range x.Args {
			if Occurs(id, a) {
				return true
			}
		}

		return false
	case TyEnum:
		for _, a := range x.Args {
			if Occurs(id, a) {
				return true
			}
		}

		return false
	default:
		return false
	}
}
