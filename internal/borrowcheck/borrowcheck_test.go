package borrowcheck

import (
	"testing"

	"github.com/RunningShrimp/zulon-language-sub001/internal/diagnostic"
	"github.com/RunningShrimp/zulon-language-sub001/internal/mir"
)

func hasCode(items []diagnostic.Diagnostic, code string) bool {
	for _, d := range items {
		if d.Code == code {
			return true
		}
	}

	return false
}

func TestCheckFunction_TwoUniqueBorrowsOfSamePlaceConflict(t *testing.T) {
	fn := mir.NewFunction("f", nil, nil)
	entry := fn.Blocks[fn.EntryBlock]

	entry.Push(&mir.BorrowInstr{Dest: mir.TempPlace{ID: 0}, Src: mir.LocalPlace{Name: "x"}, Kind: mir.BorrowUnique})
	entry.Push(&mir.BorrowInstr{Dest: mir.TempPlace{ID: 1}, Src: mir.LocalPlace{Name: "x"}, Kind: mir.BorrowUnique})
	entry.Terminator = &mir.ReturnTerm{Value: mir.TempPlace{ID: 0}}

	bag := diagnostic.NewBag()
	Check(&mir.Module{Functions: []*mir.Function{fn}}, bag)

	if !hasCode(bag.Items(), diagnostic.BorrowConflict.StableCode()) {
		t.Errorf("expected a borrow-conflict diagnostic, got %v", bag.Items())
	}
}

func TestCheckFunction_SharedBorrowsDoNotConflict(t *testing.T) {
	fn := mir.NewFunction("f", nil, nil)
	entry := fn.Blocks[fn.EntryBlock]

	entry.Push(&mir.BorrowInstr{Dest: mir.TempPlace{ID: 0}, Src: mir.LocalPlace{Name: "x"}, Kind: mir.BorrowShared})
	entry.Push(&mir.BorrowInstr{Dest: mir.TempPlace{ID: 1}, Src: mir.LocalPlace{Name: "x"}, Kind: mir.BorrowShared})
	entry.Terminator = &mir.ReturnTerm{Value: mir.TempPlace{ID: 0}}

	bag := diagnostic.NewBag()
	Check(&mir.Module{Functions: []*mir.Function{fn}}, bag)

	if bag.HasErrors() {
		t.Errorf("expected no conflict between two shared borrows, got %v", bag.Items())
	}
}

func TestCheckFunction_ReadAfterMoveReportsUseAfterMove(t *testing.T) {
	fn := mir.NewFunction("f", nil, nil)
	entry := fn.Blocks[fn.EntryBlock]

	entry.Push(&mir.MoveInstr{Dest: mir.TempPlace{ID: 0}, Src: mir.LocalPlace{Name: "x"}})
	entry.Push(&mir.CopyInstr{Dest: mir.TempPlace{ID: 1}, Src: mir.LocalPlace{Name: "x"}})
	entry.Terminator = &mir.ReturnTerm{Value: mir.TempPlace{ID: 1}}

	bag := diagnostic.NewBag()
	Check(&mir.Module{Functions: []*mir.Function{fn}}, bag)

	if !hasCode(bag.Items(), diagnostic.UseAfterMove.StableCode()) {
		t.Errorf("expected a use-after-move diagnostic, got %v", bag.Items())
	}
}

func TestCheckFunction_MoveWhileBorrowedIsRejected(t *testing.T) {
	fn := mir.NewFunction("f", nil, nil)
	entry := fn.Blocks[fn.EntryBlock]

	entry.Push(&mir.BorrowInstr{Dest: mir.TempPlace{ID: 0}, Src: mir.LocalPlace{Name: "x"}, Kind: mir.BorrowShared})
	entry.Push(&mir.MoveInstr{Dest: mir.TempPlace{ID: 1}, Src: mir.LocalPlace{Name: "x"}})
	entry.Terminator = &mir.ReturnTerm{Value: mir.TempPlace{ID: 1}}

	bag := diagnostic.NewBag()
	Check(&mir.Module{Functions: []*mir.Function{fn}}, bag)

	if !hasCode(bag.Items(), diagnostic.MoveWhileBorrowed.StableCode()) {
		t.Errorf("expected a move-while-borrowed diagnostic, got %v", bag.Items())
	}
}

func TestCheckFunction_DropEndsABorrowsLifetime(t *testing.T) {
	fn := mir.NewFunction("f", nil, nil)
	entry := fn.Blocks[fn.EntryBlock]

	entry.Push(&mir.BorrowInstr{Dest: mir.TempPlace{ID: 0}, Src: mir.LocalPlace{Name: "x"}, Kind: mir.BorrowUnique})
	entry.Push(&mir.DropInstr{Place: mir.LocalPlace{Name: "x"}})
	entry.Push(&mir.BorrowInstr{Dest: mir.TempPlace{ID: 1}, Src: mir.LocalPlace{Name: "x"}, Kind: mir.BorrowUnique})
	entry.Terminator = &mir.ReturnTerm{Value: mir.TempPlace{ID: 1}}

	bag := diagnostic.NewBag()
	Check(&mir.Module{Functions: []*mir.Function{fn}}, bag)

	if bag.HasErrors() {
		t.Errorf("expected the drop to end the first borrow's lifetime, got %v", bag.Items())
	}
}
