// Package compiler orchestrates ZULON's full compilation pipeline
// (spec §2's stage list): type checking, HIR desugaring, MIR lowering,
// borrow checking, the async state-machine transform, struct/enum/ABI
// layout, and finally LIR lowering. Compile is the single entry point a
// driver (spec §7's CLI, or a test) calls; every pass it wires together
// already exists as its own package and Compile adds no compilation
// logic of its own beyond sequencing and short-circuiting on error.
package compiler

import (
	"fmt"

	"github.com/RunningShrimp/zulon-language-sub001/internal/ast"
	"github.com/RunningShrimp/zulon-language-sub001/internal/asynctransform"
	"github.com/RunningShrimp/zulon-language-sub001/internal/borrowcheck"
	"github.com/RunningShrimp/zulon-language-sub001/internal/diagnostic"
	"github.com/RunningShrimp/zulon-language-sub001/internal/hir"
	"github.com/RunningShrimp/zulon-language-sub001/internal/layout"
	"github.com/RunningShrimp/zulon-language-sub001/internal/lir"
	"github.com/RunningShrimp/zulon-language-sub001/internal/mir"
	"github.com/RunningShrimp/zulon-language-sub001/internal/typecheck"
	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

// Options configures one Compile invocation.
type Options struct {
	// CallingConvention selects the ABI BuildCallInfo computes argument
	// placement against (spec §4.7's FFI surface). Zero value is
	// layout.SystemVAMD64.
	CallingConvention layout.CallingConvention

	// DiscriminantType is the integer type every enum's tag is stored
	// as. Nil defaults to a 32-bit int, matching the original crate's
	// own default discriminant width.
	DiscriminantType types.LirTy
}

func (o Options) discriminantType() types.LirTy {
	if o.DiscriminantType != nil {
		return o.DiscriminantType
	}

	return types.LIntTy{Width: types.I32}
}

// Compile runs prog through every stage of the pipeline and returns the
// resulting LIR module. Per spec §7 ("exits with a non-zero code iff
// any error-severity diagnostic was emitted"), Compile stops and
// returns a nil module as soon as a stage's diagnostics contain an
// error, without running any later stage — a borrow-check error, for
// instance, never reaches the async transform or layout. The error
// return is reserved for an internal-only failure (a pass returning an
// error this core has no diagnostic to express, such as an unhandled
// AST shape); a well-formed program that simply has bugs always comes
// back as diagnostics, not an error.
func Compile(prog *ast.Program, opts Options) (*lir.Module, *diagnostic.Bag, error) {
	bag := diagnostic.NewBag()

	checker := typecheck.NewChecker()

	info, checkBag, err := checker.CheckProgram(prog)
	bag.Extend(checkBag)

	if err != nil {
		return nil, bag, fmt.Errorf("compiler: type check: %w", err)
	}

	if bag.HasErrors() {
		return nil, bag, nil
	}

	hirMod, err := hir.AstToHir(prog, info)
	if err != nil {
		return nil, bag, fmt.Errorf("compiler: hir lowering: %w", err)
	}

	mirMod, err := mir.HirToMir(hirMod)
	if err != nil {
		return nil, bag, fmt.Errorf("compiler: mir lowering: %w", err)
	}

	borrowcheck.Check(mirMod, bag)
	if bag.HasErrors() {
		return nil, bag, nil
	}

	asynctransform.Transform(mirMod)

	resolve := buildLirResolver(hirMod, opts.discriminantType())

	lirMod, err := lir.MirToLir(mirMod, resolve)
	if err != nil {
		return nil, bag, fmt.Errorf("compiler: lir lowering: %w", err)
	}

	return lirMod, bag, nil
}

// buildLirResolver walks mod's struct and enum declarations into the
// layout.FieldSource/layout.EnumSource callbacks internal/layout needs,
// and returns the combined types.StructLirResolver the LIR lowering
// pass resolves every opaque nominal type through. A name is tried as
// an enum first, then falls through to the struct cache's own resolver
// (which already covers user structs, the runtime's builtin "str"/
// "slice" layouts, and an unresolvable-name fallback) — see
// internal/layout's DESIGN.md entry for why that fallback never panics.
func buildLirResolver(mod *hir.Module, discriminantTy types.LirTy) types.StructLirResolver {
	nominal := mir.BuildNominalResolver(mod)

	var resolve types.StructLirResolver

	structSource := func(name string) ([]layout.FieldSpec, bool) {
		for _, it := range mod.Items {
			s, ok := it.(*hir.Struct)
			if !ok || s.Name != name {
				continue
			}

			specs := make([]layout.FieldSpec, len(s.Fields))
			for i, f := range s.Fields {
				specs[i] = layout.FieldSpec{Name: f.Name, Type: lowerFieldType(f.Type, nominal, resolve)}
			}

			return specs, true
		}

		return nil, false
	}

	enumSource := func(name string) ([]layout.VariantSpec, bool) {
		for _, it := range mod.Items {
			e, ok := it.(*hir.Enum)
			if !ok || e.Name != name {
				continue
			}

			variants := make([]layout.VariantSpec, len(e.Variants))
			for i, v := range e.Variants {
				fields := make([]layout.FieldSpec, len(v.Fields))
				for j, f := range v.Fields {
					fields[j] = layout.FieldSpec{Name: f.Name, Type: lowerFieldType(f.Type, nominal, resolve)}
				}

				variants[i] = layout.VariantSpec{Name: v.Name, Fields: fields}
			}

			return variants, true
		}

		return nil, false
	}

	structCache := layout.NewLayoutCache(structSource)
	enumCache := layout.NewEnumLayoutCache(enumSource, discriminantTy)
	structResolve := structCache.Resolver()

	resolve = func(name string) types.StructLirInfo {
		if el, ok := enumCache.Layout(name); ok {
			return types.StructLirInfo{Size: el.Size, Align: el.Align}
		}

		return structResolve(name)
	}

	return resolve
}

// lowerFieldType carries one field's declared HirTy all the way down to
// a LirTy, reusing the already-complete HirToMirTy/MirToLirTy total
// conversions rather than re-deriving a HIR-to-LIR path of its own.
// resolve is a forward reference to buildLirResolver's own result — by
// the time a field's type actually gets walked (lazily, the first time
// something asks a LayoutCache for this struct or enum), resolve has
// already been assigned, so a field of a nominal type resolves through
// the same cache that is computing it.
func lowerFieldType(t types.HirTy, nominal types.NominalResolver, resolve types.StructLirResolver) types.LirTy {
	return types.MirToLirTy(types.HirToMirTy(t, nominal), resolve)
}

// BuildCallInfo computes fn's calling-convention argument and return
// placement under opts' chosen convention (spec §4.7). It is kept
// separate from Compile itself since a caller may only want this for a
// handful of extern-facing functions rather than every function in the
// module.
func BuildCallInfo(fn *lir.Function, opts Options) *layout.CallInfo {
	ci := layout.NewCallInfo(opts.CallingConvention)
	ci.AssignArgs(fn.ParamTypes, fn.ReturnType)

	return ci
}
