package types

import "sort"

// EffectKind is one side-effect category a function may cause (§9
// GLOSSARY). The effect system is intentionally not encoded as part of
// InferredTy — earlier `Ty::Effect` experiments (TyEffectMarker) are
// superseded by EffectSet, owned by Env (§9 design notes).
type EffectKind string

const (
	EffectIO     EffectKind = "IO"
	EffectAlloc  EffectKind = "Alloc"
	EffectAsync  EffectKind = "Async"
	EffectThrow  EffectKind = "Throw"
)

// CustomEffect builds the EffectKind for a user-declared effect name
// (§6.1 "effect declarations").
func CustomEffect(name string) EffectKind { return EffectKind("Custom:" + name) }

// EffectSet is the union of side-effect kinds a function may cause
// (GLOSSARY). It is a value type: Union returns a new set rather than
// mutating in place, matching Env's copy-on-write scope semantics (§3.4).
type EffectSet map[EffectKind]struct{}

// NewEffectSet builds a set from the given kinds.
func NewEffectSet(kinds ...EffectKind) EffectSet {
	s := make(EffectSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}

	return s
}

// Union returns a new set containing every effect from both s and other.
func (s EffectSet) Union(other EffectSet) EffectSet {
	result := make(EffectSet, len(s)+len(other))

	for k := range s {
		result[k] = struct{}{}
	}

	for k := range other {
		result[k] = struct{}{}
	}

	return result
}

// Add returns a new set with kind added.
func (s EffectSet) Add(kind EffectKind) EffectSet {
	return s.Union(NewEffectSet(kind))
}

// Contains reports whether kind is a member of s.
func (s EffectSet) Contains(kind EffectKind) bool {
	_, ok := s[kind]
	return ok
}

// IsSubsetOf reports whether every effect in s also appears in other —
// the check used by §4.3's "accumulated must be a subset" of the
// declared annotation.
func (s EffectSet) IsSubsetOf(other EffectSet) bool {
	for k := range s {
		if !other.Contains(k) {
			return false
		}
	}

	return true
}

// Sorted returns the set's members in a deterministic order, for
// diagnostics and tests.
func (s EffectSet) Sorted() []EffectKind {
	out := make([]EffectKind, 0, len(s))
	for k := range s {
		out = append(out, k)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Empty reports whether the set has no members. A function body with no
// calls and no declared effects has an empty inferred effect set (§8).
func (s EffectSet) Empty() bool { return len(s) == 0 }
