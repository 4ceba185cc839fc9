package hir

import (
	"testing"

	"github.com/RunningShrimp/zulon-language-sub001/internal/ast"
	"github.com/RunningShrimp/zulon-language-sub001/internal/position"
	"github.com/RunningShrimp/zulon-language-sub001/internal/typecheck"
)

func sp() position.Span {
	pos := position.Position{Filename: "t.zl", Line: 1, Column: 1, Offset: 0}
	return position.Span{Start: pos, End: pos}
}

func namedType(name string) *ast.NamedType { return &ast.NamedType{Span: sp(), Name: name} }

func TestAstToHir_SimpleFunctionAddsTwoInts(t *testing.T) {
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

	info, bag, err := typecheck.NewChecker().CheckProgram(prog)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	mod, err := AstToHir(prog, info)
	if err != nil {
		t.Fatalf("AstToHir failed: %v", err)
	}

	if len(mod.Items) != 1 {
		t.Fatalf("expected 1 HIR item, got %d", len(mod.Items))
	}

	hfn, ok := mod.Items[0].(*Function)
	if !ok {
		t.Fatalf("expected *Function, got %T", mod.Items[0])
	}

	if hfn.Name != "add" {
		t.Errorf("expected name add, got %s", hfn.Name)
	}

	if hfn.Body == nil || hfn.Body.Trailing == nil {
		t.Fatal("expected a trailing expression in the lowered body")
	}

	bin, ok := hfn.Body.Trailing.(*BinaryOp)
	if !ok {
		t.Fatalf("expected *BinaryOp trailing expr, got %T", hfn.Body.Trailing)
	}

	if bin.Op != BinAdd {
		t.Errorf("expected BinAdd, got %v", bin.Op)
	}
}

func TestAstToHir_MethodCallDesugarsToFreeCallWithReceiverFirst(t *testing.T) {
	point := &ast.StructItem{
		Span: sp(), Name: "Point",
		Fields: []*ast.FieldDecl{
			{Span: sp(), Name: "x", Type: namedType("i32")},
		},
	}

	method := &ast.FunctionItem{
		Span: sp(), Name: "getX",
		Params:     []*ast.Param{{Span: sp(), Name: "self", Type: namedType("Point")}},
		ReturnType: namedType("i32"),
		Body: &ast.BlockExpr{
			Span:     sp(),
			Trailing: &ast.FieldExpr{Span: sp(), Base: &ast.NameExpr{Span: sp(), Name: "self"}, Field: "x"},
		},
	}

	impl := &ast.ImplItem{Span: sp(), TypeName: "Point", Methods: []*ast.FunctionItem{method}}

	caller := &ast.FunctionItem{
		Span: sp(), Name: "caller",
		Params:     []*ast.Param{{Span: sp(), Name: "p", Type: namedType("Point")}},
		ReturnType: namedType("i32"),
		Body: &ast.BlockExpr{
			Span: sp(),
			Trailing: &ast.MethodCallExpr{
				Span:     sp(),
				Receiver: &ast.NameExpr{Span: sp(), Name: "p"},
				Method:   "getX",
			},
		},
	}

	prog := &ast.Program{Span: sp(), Items: []ast.Item{point, impl, caller}}

	info, bag, err := typecheck.NewChecker().CheckProgram(prog)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	mod, err := AstToHir(prog, info)
	if err != nil {
		t.Fatalf("AstToHir failed: %v", err)
	}

	var callerFn *Function
	for _, it := range mod.Items {
		if fn, ok := it.(*Function); ok && fn.Name == "caller" {
			callerFn = fn
		}
	}

	if callerFn == nil {
		t.Fatal("missing lowered caller function")
	}

	call, ok := callerFn.Body.Trailing.(*Call)
	if !ok {
		t.Fatalf("expected method call to desugar to *Call, got %T", callerFn.Body.Trailing)
	}

	callee, ok := call.Func.(*Variable)
	if !ok || callee.Name != "Point.getX" {
		t.Errorf("expected call target Point.getX, got %+v", call.Func)
	}

	if len(call.Args) != 1 {
		t.Fatalf("expected receiver prepended as sole argument, got %d args", len(call.Args))
	}

	recv, ok := call.Args[0].(*Variable)
	if !ok || recv.Name != "p" {
		t.Errorf("expected receiver `p` as first argument, got %+v", call.Args[0])
	}
}

func TestAstToHir_ForLoopDesugarsToIndexedWhile(t *testing.T) {
	fn := &ast.FunctionItem{
		Span: sp(), Name: "sumArr",
		Params: []*ast.Param{
			{Span: sp(), Name: "xs", Type: &ast.ArrayType{Span: sp(), Elem: namedType("i32"), Length: 3}},
		},
		ReturnType: namedType("unit"),
		Body: &ast.BlockExpr{
			Span: sp(),
			Stmts: []ast.Stmt{
				&ast.ExprStmt{Span: sp(), Value: &ast.ForExpr{
					Span:    sp(),
					Binding: "v",
					Iter:    &ast.NameExpr{Span: sp(), Name: "xs"},
					Body:    &ast.BlockExpr{Span: sp()},
				}},
			},
		},
	}

	prog := &ast.Program{Span: sp(), Items: []ast.Item{fn}}

	info, bag, err := typecheck.NewChecker().CheckProgram(prog)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	mod, err := AstToHir(prog, info)
	if err != nil {
		t.Fatalf("AstToHir failed: %v", err)
	}

	hfn := mod.Items[0].(*Function)
	if len(hfn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 lowered statement, got %d", len(hfn.Body.Stmts))
	}

	exprStmt, ok := hfn.Body.Stmts[0].(*ExprStmt)
	if !ok {
		t.Fatalf("expected *ExprStmt, got %T", hfn.Body.Stmts[0])
	}

	if _, ok := exprStmt.Value.(*BlockExpr); !ok {
		t.Fatalf("expected for-loop to desugar into a wrapping block, got %T", exprStmt.Value)
	}
}
