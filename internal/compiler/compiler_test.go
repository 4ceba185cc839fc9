package compiler

import (
	"testing"

	"github.com/RunningShrimp/zulon-language-sub001/internal/ast"
	"github.com/RunningShrimp/zulon-language-sub001/internal/position"
)

func sp() position.Span {
	pos := position.Position{Filename: "t.zl", Line: 1, Column: 1, Offset: 0}
	return position.Span{Start: pos, End: pos}
}

func namedType(name string) *ast.NamedType { return &ast.NamedType{Span: sp(), Name: name} }

func TestCompileSimpleFunctionProducesLirWithAllocatedSlots(t *testing.T) {
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

	mod, bag, err := Compile(prog, Options{})
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	if mod == nil {
		t.Fatal("expected a non-nil lir.Module")
	}

	if len(mod.Functions) != 1 {
		t.Fatalf("expected 1 lowered function, got %d", len(mod.Functions))
	}

	lfn := mod.Functions[0]
	if lfn.Name != "add" {
		t.Errorf("function name = %q, want add", lfn.Name)
	}

	ci := BuildCallInfo(lfn, Options{})
	if len(ci.ArgLocations) != 2 {
		t.Errorf("expected 2 assigned argument locations, got %d", len(ci.ArgLocations))
	}
}

func TestCompileStopsAfterTypeCheckErrorsWithoutPanicking(t *testing.T) {
	fn := &ast.FunctionItem{
		Span: sp(),
		Name: "broken",
		Body: &ast.BlockExpr{
			Span:     sp(),
			Trailing: &ast.NameExpr{Span: sp(), Name: "undefined_variable"},
		},
	}

	prog := &ast.Program{Span: sp(), Items: []ast.Item{fn}}

	mod, bag, err := Compile(prog, Options{})
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}

	if !bag.HasErrors() {
		t.Fatalf("expected a type-check diagnostic, got none")
	}

	if mod != nil {
		t.Errorf("expected a nil module once diagnostics contain an error, got %+v", mod)
	}
}

func TestCompileStructProducesResolvableNominalLayout(t *testing.T) {
	pointStruct := &ast.StructItem{
		Span: sp(),
		Name: "Point",
		Fields: []*ast.FieldDecl{
			{Span: sp(), Name: "x", Type: namedType("i64")},
			{Span: sp(), Name: "y", Type: namedType("i64")},
		},
	}

	makePoint := &ast.FunctionItem{
		Span:       sp(),
		Name:       "origin",
		ReturnType: namedType("Point"),
		Body: &ast.BlockExpr{
			Span: sp(),
			Trailing: &ast.StructLiteralExpr{
				Span: sp(),
				Name: "Point",
				Fields: []ast.FieldInit{
					{Name: "x", Value: &ast.Literal{Span: sp(), Kind: ast.LitInt, IntVal: 0}},
					{Name: "y", Value: &ast.Literal{Span: sp(), Kind: ast.LitInt, IntVal: 0}},
				},
			},
		},
	}

	prog := &ast.Program{Span: sp(), Items: []ast.Item{pointStruct, makePoint}}

	mod, bag, err := Compile(prog, Options{})
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	if mod == nil || len(mod.Functions) != 1 {
		t.Fatalf("expected 1 lowered function, got module %+v", mod)
	}
}
