package types

import (
	"fmt"

	"github.com/RunningShrimp/zulon-language-sub001/internal/diagnostic"
	"github.com/RunningShrimp/zulon-language-sub001/internal/position"
)

// Substitution is a finite map from type-variable id to InferredTy
// (§4.2/GLOSSARY). It lives only inside the inference pass and is
// discarded once every TyVar has been resolved or the pass has failed
// (§3.4).
type Substitution map[int]InferredTy

// Apply performs the structural recursion substituting every TyVar in t
// according to sub. Unmapped variables are left as-is.
func (sub Substitution) Apply(t InferredTy) InferredTy {
	switch x := t.(type) {
	case TyVar:
		if repl, ok := sub[x.ID]; ok {
			// The substitution may itself contain variables bound later;
			// resolve transitively.
			return sub.Apply(repl)
		}

		return x
	case TyRef:
		return TyRef{Inner: sub.Apply(x.Inner), Mutable: x.Mutable}
	case TyPtr:
		return TyPtr{Inner: sub.Apply(x.Inner), Mutable: x.Mutable}
	case TyArray:
		return TyArray{Inner: sub.Apply(x.Inner), Length: x.Length}
	case TySlice:
		return TySlice{Inner: sub.Apply(x.Inner)}
	case TyOptional:
		return TyOptional{Inner: sub.Apply(x.Inner)}
	case TyTuple:
		elems := make([]InferredTy, len(x.Elements))
		for i, e := range x.Elements {
			elems[i] = sub.Apply(e)
		}

		return TyTuple{Elements: elems}
	case TyFunc:
		params := make([]InferredTy, len(x.Params))
		for i, p := range x.Params {
			params[i] = sub.Apply(p)
		}

		return TyFunc{Params: params, Return: sub.Apply(x.Return)}
	case TyStruct:
		args := make([]InferredTy, len(x.Args))
		for i, a := range x.Args {
			args[i] = sub.Apply(a)
		}

		return TyStruct{Name: x.Name, Args: args}
	case TyEnum:
		args := make([]InferredTy, len(x.Args))
		for i, a := range x.Args {
			args[i] = sub.Apply(a)
		}

		return TyEnum{Name: x.Name, Args: args}
	default:
		return t
	}
}

// Compose returns a substitution equivalent to applying inner then
// outer: (outer ∘ inner)(t) = outer(inner(t)) (§4.2).
func Compose(outer, inner Substitution) Substitution {
	result := make(Substitution, len(outer)+len(inner))

	for id, t := range inner {
		result[id] = outer.Apply(t)
	}

	for id, t := range outer {
		if _, exists := result[id]; !exists {
			result[id] = t
		}
	}

	return result
}

// UnifyError is returned by Unify when two types cannot be made equal.
type UnifyError struct {
	Kind diagnostic.ErrorKind
	T1   InferredTy
	T2   InferredTy
	Span position.Span
	Note string
}

func (e *UnifyError) Error() string {
	if e.Note != "" {
		return fmt.Sprintf("%s: cannot unify %s with %s: %s", e.Kind, e.T1, e.T2, e.Note)
	}

	return fmt.Sprintf("%s: cannot unify %s with %s", e.Kind, e.T1, e.T2)
}

// Unifier is stateless: it takes two types and a substitution already in
// effect, and returns a substitution extending it (or an error). The
// caller threads a growing substitution through multiple calls (§4.2).
type Unifier struct{}

// NewUnifier constructs a Unifier. It carries no state of its own.
func NewUnifier() *Unifier { return &Unifier{} }

// Unify attempts to make sub.Apply(t1) and sub.Apply(t2) structurally
// equal, returning an extended substitution.
func (u *Unifier) Unify(sub Substitution, t1, t2 InferredTy, span position.Span) (Substitution, error) {
	t1 = sub.Apply(t1)
	t2 = sub.Apply(t2)

	// Never unifies with anything: diverging expressions have bottom type.
	if _, ok := t1.(TyNever); ok {
		return sub, nil
	}

	if _, ok := t2.(TyNever); ok {
		return sub, nil
	}

	if v1, ok := t1.(TyVar); ok {
		return u.bindVar(sub, v1, t2, span)
	}

	if v2, ok := t2.(TyVar); ok {
		return u.bindVar(sub, v2, t1, span)
	}

	switch a := t1.(type) {
	case TyInt:
		if b, ok := t2.(TyInt); ok && a.Width == b.Width {
			return sub, nil
		}

		return sub, mismatch(t1, t2, span)
	case TyFloat:
		if b, ok := t2.(TyFloat); ok && a.Bits == b.Bits {
			return sub, nil
		}

		return sub, mismatch(t1, t2, span)
	case TyBool:
		if _, ok := t2.(TyBool); ok {
			return sub, nil
		}

		return sub, mismatch(t1, t2, span)
	case TyChar:
		if _, ok := t2.(TyChar); ok {
			return sub, nil
		}

		return sub, mismatch(t1, t2, span)
	case TyStr:
		if _, ok := t2.(TyStr); ok {
			return sub, nil
		}

		return sub, mismatch(t1, t2, span)
	case TyUnit:
		if _, ok := t2.(TyUnit); ok {
			return sub, nil
		}

		return sub, mismatch(t1, t2, span)
	case TyRef:
		b, ok := t2.(TyRef)
		if !ok || a.Mutable != b.Mutable {
			return sub, mismatch(t1, t2, span)
		}

		return u.Unify(sub, a.Inner, b.Inner, span)
	case TyPtr:
		b, ok := t2.(TyPtr)
		if !ok || a.Mutable != b.Mutable {
			return sub, mismatch(t1, t2, span)
		}

		return u.Unify(sub, a.Inner, b.Inner, span)
	case TyArray:
		b, ok := t2.(TyArray)
		if !ok || a.Length != b.Length {
			return sub, mismatch(t1, t2, span)
		}

		return u.Unify(sub, a.Inner, b.Inner, span)
	case TySlice:
		b, ok := t2.(TySlice)
		if !ok {
			return sub, mismatch(t1, t2, span)
		}

		return u.Unify(sub, a.Inner, b.Inner, span)
	case TyOptional:
		b, ok := t2.(TyOptional)
		if !ok {
			return sub, mismatch(t1, t2, span)
		}

		return u.Unify(sub, a.Inner, b.Inner, span)
	case TyTuple:
		b, ok := t2.(TyTuple)
		if !ok || len(a.Elements) != len(b.Elements) {
			return sub, &UnifyError{Kind: diagnostic.ArityMismatch, T1: t1, T2: t2, Span: span}
		}

		cur := sub
		for i := range a.Elements {
			var err error

			cur, err = u.Unify(cur, a.Elements[i], b.Elements[i], span)
			if err != nil {
				return sub, err
			}
		}

		return cur, nil
	case TyFunc:
		b, ok := t2.(TyFunc)
		if !ok || len(a.Params) != len(b.Params) {
			return sub, &UnifyError{Kind: diagnostic.ArityMismatch, T1: t1, T2: t2, Span: span}
		}

		cur := sub
		for i := range a.Params {
			var err error

			cur, err = u.Unify(cur, a.Params[i], b.Params[i], span)
			if err != nil {
				return sub, err
			}
		}

		return u.Unify(cur, a.Return, b.Return, span)
	case TyStruct:
		b, ok := t2.(TyStruct)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return sub, mismatch(t1, t2, span)
		}

		cur := sub
		for i := range a.Args {
			var err error

			cur, err = u.Unify(cur, a.Args[i], b.Args[i], span)
			if err != nil {
				return sub, err
			}
		}

		return cur, nil
	case TyEnum:
		b, ok := t2.(TyEnum)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return sub, mismatch(t1, t2, span)
		}

		cur := sub
		for i := range a.Args {
			var err error

			cur, err = u.Unify(cur, a.Args[i], b.Args[i], span)
			if err != nil {
				return sub, err
			}
		}

		return cur, nil
	case TyTraitObject:
		b, ok := t2.(TyTraitObject)
		if !ok || a.TraitName != b.TraitName {
			return sub, mismatch(t1, t2, span)
		}

		return sub, nil
	default:
		return sub, mismatch(t1, t2, span)
	}
}

func (u *Unifier) bindVar(sub Substitution, v TyVar, t InferredTy, span position.Span) (Substitution, error) {
	if other, ok := t.(TyVar); ok && other.ID == v.ID {
		return sub, nil
	}

	if Occurs(v.ID, t) {
		return sub, &UnifyError{
			Kind: diagnostic.InferenceError,
			T1:   v,
			T2:   t,
			Span: span,
			Note: "infinite type",
		}
	}

	next := make(Substitution, len(sub)+1)
	for k, val := range sub {
		next[k] = val
	}

	next[v.ID] = sub.Apply(t)

	return next, nil
}

func mismatch(t1, t2 InferredTy, span position.Span) error {
	return &UnifyError{Kind: diagnostic.TypeMismatch, T1: t1, T2: t2, Span: span}
}
