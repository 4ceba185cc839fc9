package typecheck

import "github.com/RunningShrimp/zulon-language-sub001/internal/ast"

// freeNames collects every NameExpr reference inside e that is not bound
// by a let/param/pattern/closure-param introduced within e itself
// (§3.2: a closure's capture set). bound accumulates names introduced by
// enclosing binders as the walk descends; it is read-only to the caller.
func freeNames(e ast.Node, bound map[string]bool, out map[string]bool) {
	switch n := e.(type) {
	case *ast.NameExpr:
		if !bound[n.Name] {
			out[n.Name] = true
		}
	case *ast.BlockExpr:
		child := cloneBoundSet(bound)
		for _, s := range n.Stmts {
			freeNamesStmt(s, child, out)
		}

		if n.Trailing != nil {
			freeNames(n.Trailing, child, out)
		}
	case *ast.BinaryExpr:
		freeNames(n.LHS, bound, out)
		freeNames(n.RHS, bound, out)
	case *ast.UnaryExpr:
		freeNames(n.Expr, bound, out)
	case *ast.CallExpr:
		freeNames(n.Callee, bound, out)
		for _, a := range n.Args {
			freeNames(a, bound, out)
		}
	case *ast.MethodCallExpr:
		freeNames(n.Receiver, bound, out)
		for _, a := range n.Args {
			freeNames(a, bound, out)
		}
	case *ast.FieldExpr:
		freeNames(n.Base, bound, out)
	case *ast.IndexExpr:
		freeNames(n.Base, bound, out)
		freeNames(n.Index, bound, out)
	case *ast.TupleExpr:
		for _, el := range n.Elements {
			freeNames(el, bound, out)
		}
	case *ast.ArrayExpr:
		for _, el := range n.Elements {
			freeNames(el, bound, out)
		}
	case *ast.StructLiteralExpr:
		for _, f := range n.Fields {
			freeNames(f.Value, bound, out)
		}
	case *ast.IfExpr:
		freeNames(n.Cond, bound, out)
		freeNames(n.Then, bound, out)
		if n.Else != nil {
			freeNames(n.Else, bound, out)
		}
	case *ast.MatchExpr:
		freeNames(n.Scrutinee, bound, out)
		for _, arm := range n.Arms {
			child := cloneBoundSet(bound)
			bindPattern(arm.Pattern, child)
			if arm.Guard != nil {
				freeNames(arm.Guard, child, out)
			}
			freeNames(arm.Body, child, out)
		}
	case *ast.LoopExpr:
		freeNames(n.Body, bound, out)
	case *ast.WhileExpr:
		freeNames(n.Cond, bound, out)
		freeNames(n.Body, bound, out)
	case *ast.ForExpr:
		freeNames(n.Iter, bound, out)
		child := cloneBoundSet(bound)
		child[n.Binding] = true
		freeNames(n.Body, child, out)
	case *ast.ReturnExpr:
		if n.Value != nil {
			freeNames(n.Value, bound, out)
		}
	case *ast.BreakExpr:
		if n.Value != nil {
			freeNames(n.Value, bound, out)
		}
	case *ast.ThrowExpr:
		freeNames(n.Value, bound, out)
	case *ast.ClosureExpr:
		child := cloneBoundSet(bound)
		for _, p := range n.Params {
			child[p.Name] = true
		}
		freeNames(n.Body, child, out)
	case *ast.QuestionMarkExpr:
		freeNames(n.Value, bound, out)
	case *ast.AwaitExpr:
		freeNames(n.Value, bound, out)
	}
}

func freeNamesStmt(s ast.Stmt, bound map[string]bool, out map[string]bool) {
	switch n := s.(type) {
	case *ast.LetStmt:
		freeNames(n.Value, bound, out)
		bound[n.Name] = true
	case *ast.ExprStmt:
		freeNames(n.Value, bound, out)
	case *ast.AssignStmt:
		freeNames(n.Target, bound, out)
		freeNames(n.Value, bound, out)
	}
}

func bindPattern(p ast.Pattern, bound map[string]bool) {
	switch n := p.(type) {
	case *ast.BindingPattern:
		bound[n.Name] = true
	case *ast.VariantPattern:
		for _, b := range n.Binds {
			bound[b] = true
		}
	}
}

func cloneBoundSet(bound map[string]bool) map[string]bool {
	child := make(map[string]bool, len(bound))
	for k, v := range bound {
		child[k] = v
	}

	return child
}

// mutatedNames collects every name assigned to (directly, or through a
// `&mut name` / `name.field` path) anywhere inside e — used to decide
// whether a capture needs CaptureMutableRef (§4.3).
func mutatedNames(e ast.Node, out map[string]bool) {
	switch n := e.(type) {
	case *ast.BlockExpr:
		for _, s := range n.Stmts {
			mutatedNamesStmt(s, out)
		}
		if n.Trailing != nil {
			mutatedNames(n.Trailing, out)
		}
	case *ast.AssignStmt:
		markMutationRoot(n.Target, out)
		mutatedNames(n.Value, out)
	case *ast.UnaryExpr:
		if n.Op == ast.OpRefMut {
			markMutationRoot(n.Expr, out)
		}
		mutatedNames(n.Expr, out)
	case *ast.BinaryExpr:
		mutatedNames(n.LHS, out)
		mutatedNames(n.RHS, out)
	case *ast.CallExpr:
		mutatedNames(n.Callee, out)
		for _, a := range n.Args {
			mutatedNames(a, out)
		}
	case *ast.MethodCallExpr:
		mutatedNames(n.Receiver, out)
		for _, a := range n.Args {
			mutatedNames(a, out)
		}
	case *ast.IfExpr:
		mutatedNames(n.Cond, out)
		mutatedNames(n.Then, out)
		if n.Else != nil {
			mutatedNames(n.Else, out)
		}
	case *ast.MatchExpr:
		mutatedNames(n.Scrutinee, out)
		for _, arm := range n.Arms {
			mutatedNames(arm.Body, out)
		}
	case *ast.LoopExpr:
		mutatedNames(n.Body, out)
	case *ast.WhileExpr:
		mutatedNames(n.Cond, out)
		mutatedNames(n.Body, out)
	case *ast.ForExpr:
		mutatedNames(n.Body, out)
	case *ast.ClosureExpr:
		mutatedNames(n.Body, out)
	}
}

func mutatedNamesStmt(s ast.Stmt, out map[string]bool) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		mutatedNames(n.Value, out)
	case *ast.AssignStmt:
		markMutationRoot(n.Target, out)
		mutatedNames(n.Value, out)
	case *ast.LetStmt:
		mutatedNames(n.Value, out)
	}
}

func markMutationRoot(e ast.Expr, out map[string]bool) {
	switch n := e.(type) {
	case *ast.NameExpr:
		out[n.Name] = true
	case *ast.FieldExpr:
		markMutationRoot(n.Base, out)
	case *ast.IndexExpr:
		markMutationRoot(n.Base, out)
	case *ast.UnaryExpr:
		if n.Op == ast.OpDeref {
			markMutationRoot(n.Expr, out)
		}
	}
}
