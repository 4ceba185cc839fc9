package typecheck

import (
	"github.com/RunningShrimp/zulon-language-sub001/internal/ast"
	"github.com/RunningShrimp/zulon-language-sub001/internal/diagnostic"
	"github.com/RunningShrimp/zulon-language-sub001/internal/env"
	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

// primitiveNames maps surface primitive type names to their InferredTy.
// Generic parameter names and nominal struct/enum names are resolved
// separately, against the current scope (§4.3).
var primitiveNames = map[string]types.InferredTy{
	"i8": types.TyInt{Width: types.I8}, "i16": types.TyInt{Width: types.I16},
	"i32": types.TyInt{Width: types.I32}, "i64": types.TyInt{Width: types.I64},
	"i128": types.TyInt{Width: types.I128}, "isize": types.TyInt{Width: types.ISize},
	"u8": types.TyInt{Width: types.U8}, "u16": types.TyInt{Width: types.U16},
	"u32": types.TyInt{Width: types.U32}, "u64": types.TyInt{Width: types.U64},
	"u128": types.TyInt{Width: types.U128}, "usize": types.TyInt{Width: types.USize},
	"f32": types.TyFloat{Bits: 32}, "f64": types.TyFloat{Bits: 64},
	"bool": types.TyBool{}, "char": types.TyChar{}, "str": types.TyStr{},
	"unit": types.TyUnit{},
}

// resolveType converts a surface TypeExpr into an InferredTy (§4.3's
// "surface annotations are resolved against the current scope before
// entering unification"). generics names a generic parameter in scope as
// an abstract per-declaration placeholder (TyStruct with no args),
// instantiated fresh at each call site by substGenerics.
func (c *Checker) resolveType(e *env.Env, t ast.TypeExpr, generics map[string]bool) types.InferredTy {
	if t == nil {
		return types.TyUnit{}
	}

	switch x := t.(type) {
	case *ast.NamedType:
		if generics[x.Name] {
			return types.TyStruct{Name: x.Name}
		}

		if prim, ok := primitiveNames[x.Name]; ok {
			return prim
		}

		args := make([]types.InferredTy, len(x.Args))
		for i, a := range x.Args {
			args[i] = c.resolveType(e, a, generics)
		}

		if def, ok := e.LookupTypeDef(x.Name); ok {
			switch def.(type) {
			case types.TyEnum:
				return types.TyEnum{Name: x.Name, Args: args}
			default:
				return types.TyStruct{Name: x.Name, Args: args}
			}
		}

		c.bag.Add(diagnostic.New(diagnostic.Error, "undefined type `"+x.Name+"`", x.Span).
			WithCode(diagnostic.UndefinedType.StableCode()).Build())

		return types.TyStruct{Name: x.Name, Args: args}
	case *ast.RefType:
		return types.TyRef{Inner: c.resolveType(e, x.Inner, generics), Mutable: x.Mutable}
	case *ast.PtrType:
		return types.TyPtr{Inner: c.resolveType(e, x.Inner, generics), Mutable: x.Mutable}
	case *ast.ArrayType:
		return types.TyArray{Inner: c.resolveType(e, x.Elem, generics), Length: x.Length}
	case *ast.SliceType:
		return types.TySlice{Inner: c.resolveType(e, x.Elem, generics)}
	case *ast.TupleType:
		elems := make([]types.InferredTy, len(x.Elements))
		for i, el := range x.Elements {
			elems[i] = c.resolveType(e, el, generics)
		}

		return types.TyTuple{Elements: elems}
	case *ast.FuncType:
		params := make([]types.InferredTy, len(x.Params))
		for i, p := range x.Params {
			params[i] = c.resolveType(e, p, generics)
		}

		return types.TyFunc{Params: params, Return: c.resolveType(e, x.Return, generics)}
	case *ast.OptionalType:
		return types.TyOptional{Inner: c.resolveType(e, x.Inner, generics)}
	default:
		return types.TyUnit{}
	}
}

func genericSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}

	return m
}

// substGenerics instantiates a function's abstract generic placeholders
// (TyStruct with a name present in subst) with the fresh type variables
// chosen for one call site (§4.3 "each call instantiates its own fresh
// variables").
func substGenerics(t types.InferredTy, subst map[string]types.InferredTy) types.InferredTy {
	switch x := t.(type) {
	case types.TyStruct:
		if len(x.Args) == 0 {
			if repl, ok := subst[x.Name]; ok {
				return repl
			}
		}

		args := make([]types.InferredTy, len(x.Args))
		for i, a := range x.Args {
			args[i] = substGenerics(a, subst)
		}

		return types.TyStruct{Name: x.Name, Args: args}
	case types.TyEnum:
		args := make([]types.InferredTy, len(x.Args))
		for i, a := range x.Args {
			args[i] = substGenerics(a, subst)
		}

		return types.TyEnum{Name: x.Name, Args: args}
	case types.TyRef:
		return types.TyRef{Inner: substGenerics(x.Inner, subst), Mutable: x.Mutable}
	case types.TyPtr:
		return types.TyPtr{Inner: substGenerics(x.Inner, subst), Mutable: x.Mutable}
	case types.TyArray:
		return types.TyArray{Inner: substGenerics(x.Inner, subst), Length: x.Length}
	case types.TySlice:
		return types.TySlice{Inner: substGenerics(x.Inner, subst)}
	case types.TyOptional:
		return types.TyOptional{Inner: substGenerics(x.Inner, subst)}
	case types.TyTuple:
		elems := make([]types.InferredTy, len(x.Elements))
		for i, e := range x.Elements {
			elems[i] = substGenerics(e, subst)
		}

		return types.TyTuple{Elements: elems}
	case types.TyFunc:
		params := make([]types.InferredTy, len(x.Params))
		for i, p := range x.Params {
			params[i] = substGenerics(p, subst)
		}

		return types.TyFunc{Params: params, Return: substGenerics(x.Return, subst)}
	default:
		return t
	}
}

// fieldType looks up the declared type of a struct field by name, nil if
// the struct or field is unknown.
func (c *Checker) fieldType(structName, field string, generics map[string]bool) (types.InferredTy, bool) {
	decl, ok := c.info.Structs[structName]
	if !ok {
		return nil, false
	}

	for _, f := range decl.Fields {
		if f.Name == field {
			return c.resolveType(c.rootEnv, f.Type, generics), true
		}
	}

	return nil, false
}
