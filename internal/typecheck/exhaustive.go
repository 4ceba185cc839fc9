package typecheck

import (
	"fmt"

	"github.com/RunningShrimp/zulon-language-sub001/internal/ast"
	"github.com/RunningShrimp/zulon-language-sub001/internal/diagnostic"
	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

// checkMatchExhaustive warns, rather than errors, when a match over an
// enum scrutinee does not cover every variant and has no wildcard or
// catch-all binding arm (§9 open question: exhaustiveness is a warning,
// not a hard error, since the core has no way to prove a match dead
// without full control-flow analysis downstream).
func (c *Checker) checkMatchExhaustive(scrutTy types.InferredTy, n *ast.MatchExpr) {
	en, ok := scrutTy.(types.TyEnum)
	if !ok {
		return
	}

	decl, ok := c.info.Enums[en.Name]
	if !ok {
		return
	}

	covered := make(map[string]bool, len(decl.Variants))

	for _, arm := range n.Arms {
		switch p := arm.Pattern.(type) {
		case *ast.WildcardPattern:
			return // catch-all: trivially exhaustive
		case *ast.BindingPattern:
			return // a bare binding also catches everything
		case *ast.VariantPattern:
			covered[p.Variant] = true
		}
	}

	var missing []string
	for _, v := range decl.Variants {
		if !covered[v.Name] {
			missing = append(missing, v.Name)
		}
	}

	if len(missing) == 0 {
		return
	}

	msg := fmt.Sprintf("match over `%s` does not cover variant(s): %v", en.Name, missing)

	c.bag.Add(diagnostic.New(diagnostic.Warning, msg, n.Span).
		WithSuggestion("add a wildcard arm to handle the remaining variants", n.Span, "_ => {}").
		Build())
}
