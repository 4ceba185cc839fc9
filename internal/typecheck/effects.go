package typecheck

import "github.com/RunningShrimp/zulon-language-sub001/internal/types"

// builtinEffects names the handful of extern/builtin functions the
// checker recognizes without a user-written effect annotation, so a
// program calling them still gets an accurate inferred effect set
// (§4.3, SPEC_FULL.md ambient stack). Anything not listed here is
// assumed pure unless its own declared/inferred effects say otherwise.
var builtinEffects = map[string]types.EffectSet{
	"print":      types.NewEffectSet(types.EffectIO),
	"println":    types.NewEffectSet(types.EffectIO),
	"read_line":  types.NewEffectSet(types.EffectIO),
	"alloc":      types.NewEffectSet(types.EffectAlloc),
	"dealloc":    types.NewEffectSet(types.EffectAlloc),
	"sleep":      types.NewEffectSet(types.EffectAsync),
	"spawn":      types.NewEffectSet(types.EffectAsync),
}

// resolveEffectName maps one name from an effect annotation to an
// EffectKind, reporting whether it is a recognized built-in kind (IO,
// Alloc, Async, Throw) as opposed to a user-declared custom effect.
func resolveEffectName(name string) (types.EffectKind, bool) {
	switch name {
	case "IO":
		return types.EffectIO, true
	case "Alloc":
		return types.EffectAlloc, true
	case "Async":
		return types.EffectAsync, true
	case "Throw":
		return types.EffectThrow, true
	default:
		return "", false
	}
}
