package mir

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/RunningShrimp/zulon-language-sub001/internal/ast"
	"github.com/RunningShrimp/zulon-language-sub001/internal/hir"
	"github.com/RunningShrimp/zulon-language-sub001/internal/position"
	"github.com/RunningShrimp/zulon-language-sub001/internal/typecheck"
)

func sp() position.Span {
	pos := position.Position{Filename: "t.zl", Line: 1, Column: 1, Offset: 0}
	return position.Span{Start: pos, End: pos}
}

func namedType(name string) *ast.NamedType { return &ast.NamedType{Span: sp(), Name: name} }

func lowerProgram(t *testing.T, prog *ast.Program) *Module {
	t.Helper()

	info, bag, err := typecheck.NewChecker().CheckProgram(prog)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	hmod, err := hir.AstToHir(prog, info)
	if err != nil {
		t.Fatalf("AstToHir failed: %v", err)
	}

	mmod, err := HirToMir(hmod)
	if err != nil {
		t.Fatalf("HirToMir failed: %v", err)
	}

	return mmod
}

func findFunc(mod *Module, name string) *Function {
	for _, f := range mod.Functions {
		if f.Name == name {
			return f
		}
	}

	return nil
}

func TestHirToMir_SimpleFunctionAddsTwoInts(t *testing.T) {
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
	mmod := lowerProgram(t, prog)

	mfn := findFunc(mmod, "add")
	if mfn == nil {
		t.Fatal("missing lowered add function")
	}

	entry := mfn.Blocks[mfn.EntryBlock]

	var addInstr *BinaryOpInstr

	for _, instr := range entry.Instructions {
		if b, ok := instr.(*BinaryOpInstr); ok {
			addInstr = b
		}
	}

	if addInstr == nil {
		t.Fatalf("expected a BinaryOpInstr in entry block, got %+v", entry.Instructions)
	}

	if addInstr.Op != BinAdd {
		t.Errorf("expected BinAdd, got %v", addInstr.Op)
	}

	wantLeft := LocalPlace{Name: "a"}
	if diff := cmp.Diff(wantLeft, addInstr.Left); diff != "" {
		t.Errorf("unexpected left operand (-want +got):\n%s", diff)
	}

	wantRight := LocalPlace{Name: "b"}
	if diff := cmp.Diff(wantRight, addInstr.Right); diff != "" {
		t.Errorf("unexpected right operand (-want +got):\n%s", diff)
	}

	ret, ok := entry.Terminator.(*ReturnTerm)
	if !ok {
		t.Fatalf("expected *ReturnTerm, got %T", entry.Terminator)
	}

	if diff := cmp.Diff(Place(addInstr.Dest), ret.Value); diff != "" {
		t.Errorf("expected the return to carry the sum's own place (-want +got):\n%s", diff)
	}
}

func TestHirToMir_IfExpressionProducesJoiningBlocks(t *testing.T) {
	fn := &ast.FunctionItem{
		Span: sp(),
		Name: "choose",
		Params: []*ast.Param{
			{Span: sp(), Name: "cond", Type: namedType("bool")},
		},
		ReturnType: namedType("i32"),
		Body: &ast.BlockExpr{
			Span: sp(),
			Trailing: &ast.IfExpr{
				Span: sp(),
				Cond: &ast.NameExpr{Span: sp(), Name: "cond"},
				Then: &ast.BlockExpr{Span: sp(), Trailing: &ast.Literal{Span: sp(), Kind: ast.LitInt, IntVal: 1}},
				Else: &ast.BlockExpr{Span: sp(), Trailing: &ast.Literal{Span: sp(), Kind: ast.LitInt, IntVal: 2}},
			},
		},
	}

	prog := &ast.Program{Span: sp(), Items: []ast.Item{fn}}
	mmod := lowerProgram(t, prog)

	mfn := findFunc(mmod, "choose")
	if mfn == nil {
		t.Fatal("missing lowered choose function")
	}

	if len(mfn.Blocks) < 4 {
		t.Fatalf("expected at least 4 blocks (entry, then, else, join), got %d", len(mfn.Blocks))
	}

	entry := mfn.Blocks[mfn.EntryBlock]

	ifTerm, ok := entry.Terminator.(*IfTerm)
	if !ok {
		t.Fatalf("expected *IfTerm, got %T", entry.Terminator)
	}

	thenBlock, ok := mfn.Blocks[ifTerm.Then]
	if !ok {
		t.Fatal("missing then block")
	}

	elseBlock, ok := mfn.Blocks[ifTerm.Else]
	if !ok {
		t.Fatal("missing else block")
	}

	assertHasConst := func(t *testing.T, b *BasicBlock, want ConstValue) {
		t.Helper()

		for _, instr := range b.Instructions {
			if c, ok := instr.(*ConstInstr); ok {
				if diff := cmp.Diff(want, c.Value); diff == "" {
					return
				}
			}
		}

		t.Errorf("block %d missing expected const %#v", b.ID, want)
	}

	assertHasConst(t, thenBlock, ConstInt(1))
	assertHasConst(t, elseBlock, ConstInt(2))

	thenGoto, ok := thenBlock.Terminator.(*GotoTerm)
	if !ok {
		t.Fatalf("expected then block to end in *GotoTerm, got %T", thenBlock.Terminator)
	}

	elseGoto, ok := elseBlock.Terminator.(*GotoTerm)
	if !ok {
		t.Fatalf("expected else block to end in *GotoTerm, got %T", elseBlock.Terminator)
	}

	if thenGoto.Target != elseGoto.Target {
		t.Errorf("expected then/else to join at the same block, got %d and %d", thenGoto.Target, elseGoto.Target)
	}
}

func TestHirToMir_StructLiteralLowersToOrderedConstructorCall(t *testing.T) {
	point := &ast.StructItem{
		Span: sp(), Name: "Point",
		Fields: []*ast.FieldDecl{
			{Span: sp(), Name: "x", Type: namedType("i32")},
			{Span: sp(), Name: "y", Type: namedType("i32")},
		},
	}

	fn := &ast.FunctionItem{
		Span:       sp(),
		Name:       "origin",
		ReturnType: namedType("Point"),
		Body: &ast.BlockExpr{
			Span: sp(),
			Trailing: &ast.StructLiteralExpr{
				Span: sp(),
				Name: "Point",
				Fields: []ast.FieldInit{
					{Name: "y", Value: &ast.Literal{Span: sp(), Kind: ast.LitInt, IntVal: 2}},
					{Name: "x", Value: &ast.Literal{Span: sp(), Kind: ast.LitInt, IntVal: 1}},
				},
			},
		},
	}

	prog := &ast.Program{Span: sp(), Items: []ast.Item{point, fn}}
	mmod := lowerProgram(t, prog)

	mfn := findFunc(mmod, "origin")
	if mfn == nil {
		t.Fatal("missing lowered origin function")
	}

	entry := mfn.Blocks[mfn.EntryBlock]

	var ctorCall *CallInstr

	for _, instr := range entry.Instructions {
		if c, ok := instr.(*CallInstr); ok && c.Func == "__zulon_new_Point" {
			ctorCall = c
		}
	}

	if ctorCall == nil {
		t.Fatalf("expected a __zulon_new_Point call, got %+v", entry.Instructions)
	}

	if len(ctorCall.Args) != 2 {
		t.Fatalf("expected 2 constructor args, got %d", len(ctorCall.Args))
	}

	// Field order follows the struct declaration (x, y), not literal
	// source order (y, x).
	firstConst := constOf(t, entry, ctorCall.Args[0])
	secondConst := constOf(t, entry, ctorCall.Args[1])

	if diff := cmp.Diff(ConstValue(ConstInt(1)), firstConst); diff != "" {
		t.Errorf("unexpected first field value (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(ConstValue(ConstInt(2)), secondConst); diff != "" {
		t.Errorf("unexpected second field value (-want +got):\n%s", diff)
	}
}

func constOf(t *testing.T, b *BasicBlock, p Place) ConstValue {
	t.Helper()

	temp, ok := p.(TempPlace)
	if !ok {
		t.Fatalf("expected a TempPlace, got %#v", p)
	}

	for _, instr := range b.Instructions {
		if c, ok := instr.(*ConstInstr); ok {
			if dest, ok := c.Dest.(TempPlace); ok && dest == temp {
				return c.Value
			}
		}
	}

	t.Fatalf("no const instruction defines temp %#v", temp)

	return nil
}
