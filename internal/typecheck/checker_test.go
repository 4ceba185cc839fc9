package typecheck

import (
	"testing"

	"github.com/RunningShrimp/zulon-language-sub001/internal/ast"
	"github.com/RunningShrimp/zulon-language-sub001/internal/position"
	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

func sp() position.Span {
	pos := position.Position{Filename: "t.zl", Line: 1, Column: 1, Offset: 0}
	return position.Span{Start: pos, End: pos}
}

func namedType(name string) *ast.NamedType { return &ast.NamedType{Span: sp(), Name: name} }

func TestCheckProgram_SimpleFunctionAddsTwoInts(t *testing.T) {
	fn := &ast.FunctionItem{
		Span: sp(),
		Name: "add",
		Params: []*ast.Param{
			{Span: sp(), Name: "a", Type: namedType("i32")},
			{Span: sp(), Name: "b", Type: namedType("i32")},
		},
		ReturnType: namedType("i32"),
		Body: &ast.BlockExpr{
			Span: sp(),
			Trailing: &ast.BinaryExpr{
				Span: sp(), Op: ast.OpAdd,
				LHS: &ast.NameExpr{Span: sp(), Name: "a"},
				RHS: &ast.NameExpr{Span: sp(), Name: "b"},
			},
		},
	}

	prog := &ast.Program{Span: sp(), Items: []ast.Item{fn}}

	info, bag, err := NewChecker().CheckProgram(prog)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	fi := info.Functions["add"]
	if fi == nil {
		t.Fatal("missing function info for add")
	}

	if _, ok := fi.ReturnType.(types.TyInt); !ok {
		t.Errorf("expected i32 return type, got %s", fi.ReturnType)
	}
}

func TestCheckProgram_UndefinedVariableReportsDiagnostic(t *testing.T) {
	fn := &ast.FunctionItem{
		Span:       sp(),
		Name:       "f",
		ReturnType: namedType("i32"),
		Body: &ast.BlockExpr{
			Span:     sp(),
			Trailing: &ast.NameExpr{Span: sp(), Name: "nowhere"},
		},
	}

	prog := &ast.Program{Span: sp(), Items: []ast.Item{fn}}

	_, bag, _ := NewChecker().CheckProgram(prog)

	if !bag.HasErrors() {
		t.Fatal("expected an undefined-variable diagnostic")
	}

	if bag.Items()[0].Code != "E0425" {
		t.Errorf("expected stable code E0425, got %q", bag.Items()[0].Code)
	}
}

func TestCheckProgram_ArityMismatchReportsDiagnostic(t *testing.T) {
	callee := &ast.FunctionItem{
		Span: sp(), Name: "two",
		Params: []*ast.Param{
			{Span: sp(), Name: "x", Type: namedType("i32")},
			{Span: sp(), Name: "y", Type: namedType("i32")},
		},
		ReturnType: namedType("i32"),
		Body:       &ast.BlockExpr{Span: sp(), Trailing: &ast.NameExpr{Span: sp(), Name: "x"}},
	}

	caller := &ast.FunctionItem{
		Span: sp(), Name: "caller",
		ReturnType: namedType("i32"),
		Body: &ast.BlockExpr{
			Span: sp(),
			Trailing: &ast.CallExpr{
				Span:   sp(),
				Callee: &ast.NameExpr{Span: sp(), Name: "two"},
				Args:   []ast.Expr{&ast.Literal{Span: sp(), Kind: ast.LitInt, IntVal: 1}},
			},
		},
	}

	prog := &ast.Program{Span: sp(), Items: []ast.Item{callee, caller}}

	_, bag, _ := NewChecker().CheckProgram(prog)

	if !bag.HasErrors() {
		t.Fatal("expected an arity-mismatch diagnostic")
	}
}

func TestCheckProgram_UndeclaredEffectReportsDiagnostic(t *testing.T) {
	fn := &ast.FunctionItem{
		Span: sp(), Name: "noisy",
		ReturnType: namedType("unit"),
		Body: &ast.BlockExpr{
			Span: sp(),
			Stmts: []ast.Stmt{
				&ast.ExprStmt{Span: sp(), Value: &ast.CallExpr{
					Span:   sp(),
					Callee: &ast.NameExpr{Span: sp(), Name: "print"},
					Args:   []ast.Expr{&ast.Literal{Span: sp(), Kind: ast.LitStr, StrVal: "hi"}},
				}},
			},
		},
	}

	prog := &ast.Program{Span: sp(), Items: []ast.Item{fn}}

	_, bag, _ := NewChecker().CheckProgram(prog)

	if !bag.HasErrors() {
		t.Fatal("expected an undeclared-effect diagnostic for calling print() with no declared IO effect")
	}
}

func TestCheckProgram_MatchNonExhaustiveIsWarningNotError(t *testing.T) {
	colorEnum := &ast.EnumItem{
		Span: sp(), Name: "Color",
		Variants: []*ast.VariantDecl{{Span: sp(), Name: "Red"}, {Span: sp(), Name: "Green"}, {Span: sp(), Name: "Blue"}},
	}

	fn := &ast.FunctionItem{
		Span: sp(), Name: "describe",
		Params:     []*ast.Param{{Span: sp(), Name: "c", Type: namedType("Color")}},
		ReturnType: namedType("unit"),
		Body: &ast.BlockExpr{
			Span: sp(),
			Trailing: &ast.MatchExpr{
				Span:      sp(),
				Scrutinee: &ast.NameExpr{Span: sp(), Name: "c"},
				Arms: []ast.MatchArm{
					{Span: sp(), Pattern: &ast.VariantPattern{Span: sp(), Variant: "Red"}, Body: &ast.Literal{Span: sp(), Kind: ast.LitUnit}},
				},
			},
		},
	}

	prog := &ast.Program{Span: sp(), Items: []ast.Item{colorEnum, fn}}

	_, bag, _ := NewChecker().CheckProgram(prog)

	if bag.HasErrors() {
		t.Fatalf("non-exhaustive match should warn, not error: %v", bag.Items())
	}

	found := false
	for _, d := range bag.Items() {
		if len(d.Suggestions) > 0 {
			found = true
		}
	}

	if !found {
		t.Error("expected a diagnostic carrying a wildcard-arm suggestion")
	}
}

func TestCheckProgram_ClosureCapturesOuterVariable(t *testing.T) {
	closure := &ast.ClosureExpr{
		Span: sp(),
		Body: &ast.BinaryExpr{
			Span: sp(), Op: ast.OpAdd,
			LHS: &ast.NameExpr{Span: sp(), Name: "total"},
			RHS: &ast.Literal{Span: sp(), Kind: ast.LitInt, IntVal: 1},
		},
	}

	fn := &ast.FunctionItem{
		Span: sp(), Name: "f",
		ReturnType: namedType("i32"),
		Body: &ast.BlockExpr{
			Span: sp(),
			Stmts: []ast.Stmt{
				&ast.LetStmt{Span: sp(), Name: "total", Type: namedType("i32"),
					Value: &ast.Literal{Span: sp(), Kind: ast.LitInt, IntVal: 0}},
				&ast.LetStmt{Span: sp(), Name: "adder", Value: closure},
			},
			Trailing: &ast.NameExpr{Span: sp(), Name: "total"},
		},
	}

	prog := &ast.Program{Span: sp(), Items: []ast.Item{fn}}

	info, bag, _ := NewChecker().CheckProgram(prog)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	ci, ok := info.Closures[closure]
	if !ok {
		t.Fatal("expected closure capture info to be recorded")
	}

	if len(ci.Captures) != 1 || ci.Captures[0].Name != "total" {
		t.Errorf("expected closure to capture `total`, got %+v", ci.Captures)
	}
}
