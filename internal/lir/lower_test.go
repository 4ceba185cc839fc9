package lir

import (
	"testing"

	"github.com/RunningShrimp/zulon-language-sub001/internal/ast"
	"github.com/RunningShrimp/zulon-language-sub001/internal/hir"
	"github.com/RunningShrimp/zulon-language-sub001/internal/mir"
	"github.com/RunningShrimp/zulon-language-sub001/internal/position"
	"github.com/RunningShrimp/zulon-language-sub001/internal/typecheck"
	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

func sp() position.Span {
	pos := position.Position{Filename: "t.zl", Line: 1, Column: 1, Offset: 0}
	return position.Span{Start: pos, End: pos}
}

func namedType(name string) *ast.NamedType { return &ast.NamedType{Span: sp(), Name: name} }

// trivialResolver stands in for internal/layout's real StructLirResolver:
// every nominal/slice/tuple/optional type gets the same placeholder
// size/alignment, since these tests only exercise MirToLir's control
// flow and instruction shapes, not real field offsets.
func trivialResolver(string) types.StructLirInfo {
	return types.StructLirInfo{Size: 16, Align: 8}
}

func lowerProgramToLir(t *testing.T, prog *ast.Program) *Module {
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

	mmod, err := mir.HirToMir(hmod)
	if err != nil {
		t.Fatalf("HirToMir failed: %v", err)
	}

	lmod, err := MirToLir(mmod, trivialResolver)
	if err != nil {
		t.Fatalf("MirToLir failed: %v", err)
	}

	return lmod
}

func findLirFunc(mod *Module, name string) *Function {
	for _, f := range mod.Functions {
		if f.Name == name {
			return f
		}
	}

	return nil
}

func TestMirToLir_SimpleFunctionAllocatesSlotsForEveryParam(t *testing.T) {
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
	lmod := lowerProgramToLir(t, prog)

	lfn := findLirFunc(lmod, "add")
	if lfn == nil {
		t.Fatal("missing lowered add function")
	}

	if len(lfn.Params) != 2 {
		t.Fatalf("expected 2 param registers, got %d", len(lfn.Params))
	}

	entry := lfn.Blocks[lfn.EntryBlock]

	allocaCount := 0
	addCount := 0

	for _, instr := range entry.Instructions {
		switch instr.(type) {
		case *AllocaInstr:
			allocaCount++
		case *BinaryOpInstr:
			addCount++
		}
	}

	if allocaCount < 2 {
		t.Errorf("expected at least 2 Alloca instructions (a, b), got %d", allocaCount)
	}

	if addCount != 1 {
		t.Fatalf("expected exactly 1 BinaryOpInstr, got %d", addCount)
	}

	if _, ok := entry.Terminator.(*ReturnTerm); !ok {
		t.Fatalf("expected *ReturnTerm, got %T", entry.Terminator)
	}
}

func TestMirToLir_ComparisonLowersToCmpInstrNotBinaryOp(t *testing.T) {
	fn := &ast.FunctionItem{
		Span: sp(),
		Name: "eq",
		Params: []*ast.Param{
			{Span: sp(), Name: "a", Type: namedType("i32")},
			{Span: sp(), Name: "b", Type: namedType("i32")},
		},
		ReturnType: namedType("bool"),
		Body: &ast.BlockExpr{
			Span: sp(),
			Trailing: &ast.BinaryExpr{
				Span: sp(), Op: ast.OpEq,
				LHS: &ast.NameExpr{Span: sp(), Name: "a"},
				RHS: &ast.NameExpr{Span: sp(), Name: "b"},
			},
		},
	}

	prog := &ast.Program{Span: sp(), Items: []ast.Item{fn}}
	lmod := lowerProgramToLir(t, prog)

	lfn := findLirFunc(lmod, "eq")
	if lfn == nil {
		t.Fatal("missing lowered eq function")
	}

	entry := lfn.Blocks[lfn.EntryBlock]

	var cmpInstr *CmpInstr

	for _, instr := range entry.Instructions {
		if c, ok := instr.(*CmpInstr); ok {
			cmpInstr = c
		}

		if _, ok := instr.(*BinaryOpInstr); ok {
			t.Errorf("expected == to avoid BinaryOpInstr entirely, got one in %+v", entry.Instructions)
		}
	}

	if cmpInstr == nil {
		t.Fatal("expected a CmpInstr for ==")
	}

	if cmpInstr.Op != CmpEq {
		t.Errorf("expected CmpEq, got %v", cmpInstr.Op)
	}
}

func TestMirToLir_DropLowersToRefDec(t *testing.T) {
	mfn := mir.NewFunction("f", []mir.Param{{Name: "x", Type: types.MIntTy{Width: types.I32}}}, types.MUnitTy{})
	entry := mfn.Blocks[mfn.EntryBlock]
	entry.Push(&mir.DropInstr{Place: mir.LocalPlace{Name: "x"}})
	entry.Terminator = &mir.ReturnTerm{}

	mmod := &mir.Module{Functions: []*mir.Function{mfn}}

	lmod, err := MirToLir(mmod, trivialResolver)
	if err != nil {
		t.Fatalf("MirToLir failed: %v", err)
	}

	lfn := findLirFunc(lmod, "f")
	if lfn == nil {
		t.Fatal("missing lowered f function")
	}

	entryL := lfn.Blocks[lfn.EntryBlock]

	found := false

	for _, instr := range entryL.Instructions {
		if _, ok := instr.(*RefDecInstr); ok {
			found = true
		}
	}

	if !found {
		t.Errorf("expected a RefDecInstr for the Drop, got %+v", entryL.Instructions)
	}
}

func TestMirToLir_FieldPlaceEmitsGep(t *testing.T) {
	mfn := mir.NewFunction("f", nil, types.MIntTy{Width: types.I32})
	entry := mfn.Blocks[mfn.EntryBlock]
	entry.Push(&mir.ConstInstr{Dest: mir.LocalPlace{Name: "p"}, Value: mir.ConstInt(0)})
	entry.Push(&mir.CopyInstr{
		Dest: mir.TempPlace{ID: 0},
		Src:  mir.FieldPlace{Base: mir.LocalPlace{Name: "p"}, Field: "x"},
	})
	entry.Terminator = &mir.ReturnTerm{Value: mir.TempPlace{ID: 0}}

	mmod := &mir.Module{Functions: []*mir.Function{mfn}}

	lmod, err := MirToLir(mmod, trivialResolver)
	if err != nil {
		t.Fatalf("MirToLir failed: %v", err)
	}

	lfn := findLirFunc(lmod, "f")
	entryL := lfn.Blocks[lfn.EntryBlock]

	found := false

	for _, instr := range entryL.Instructions {
		if _, ok := instr.(*GepInstr); ok {
			found = true
		}
	}

	if !found {
		t.Errorf("expected a GepInstr for the field projection, got %+v", entryL.Instructions)
	}

	ret, ok := entryL.Terminator.(*ReturnTerm)
	if !ok {
		t.Fatalf("expected *ReturnTerm, got %T", entryL.Terminator)
	}

	if _, ok := ret.Value.(RegOperand); !ok {
		t.Errorf("expected the return value to be a register operand, got %#v", ret.Value)
	}
}
