package asynctransform

import (
	"testing"

	"github.com/RunningShrimp/zulon-language-sub001/internal/mir"
)

func TestTransform_SplitsBlockAtAwaitAndWiresDispatcher(t *testing.T) {
	fn := mir.NewFunction("fetch", nil, nil)
	fn.IsAsync = true

	entry := fn.Blocks[fn.EntryBlock]
	originalEntryID := fn.EntryBlock

	entry.Push(&mir.ConstInstr{Dest: mir.LocalPlace{Name: "x"}, Value: mir.ConstInt(1)})
	entry.Push(&mir.CallInstr{
		Dest: mir.TempPlace{ID: 0},
		Func: "__zulon_await_poll",
		Args: []mir.Place{mir.LocalPlace{Name: "x"}},
	})
	entry.Push(&mir.CopyInstr{Dest: mir.LocalPlace{Name: "y"}, Src: mir.LocalPlace{Name: "x"}})
	entry.Terminator = &mir.ReturnTerm{Value: mir.LocalPlace{Name: "y"}}

	mod := &mir.Module{Functions: []*mir.Function{fn}}
	Transform(mod)

	if fn.StateMachine == nil {
		t.Fatal("expected a populated state machine")
	}

	if len(fn.StateMachine.States) != 1 {
		t.Fatalf("expected 1 state, got %d", len(fn.StateMachine.States))
	}

	state := fn.StateMachine.States[0]

	resumeBlock, ok := fn.Blocks[state.BlockID]
	if !ok {
		t.Fatal("missing resume block")
	}

	if len(resumeBlock.Instructions) != 1 {
		t.Fatalf("expected 1 instruction carried into the resume block, got %d", len(resumeBlock.Instructions))
	}

	found := false

	for _, name := range state.Captured {
		if name == "x" {
			found = true
		}
	}

	if !found {
		t.Errorf("expected x to be captured across the await, got %v", state.Captured)
	}

	if fn.EntryBlock == originalEntryID {
		t.Error("expected the entry block to be rewired to a new dispatcher")
	}

	dispatch := fn.Blocks[fn.EntryBlock]

	sw, ok := dispatch.Terminator.(*mir.SwitchTerm)
	if !ok {
		t.Fatalf("expected the new entry to end in *mir.SwitchTerm, got %T", dispatch.Terminator)
	}

	if sw.Default != originalEntryID {
		t.Errorf("expected state-0 default to be the original entry, got %d", sw.Default)
	}

	if len(sw.Cases) != 1 || sw.Cases[0].Target != state.BlockID {
		t.Errorf("expected one dispatch case targeting the resume block, got %+v", sw.Cases)
	}
}

func TestTransform_SyncFunctionsAreUntouched(t *testing.T) {
	fn := mir.NewFunction("add", nil, nil)

	entry := fn.Blocks[fn.EntryBlock]
	entry.Terminator = &mir.ReturnTerm{}

	mod := &mir.Module{Functions: []*mir.Function{fn}}
	Transform(mod)

	if fn.StateMachine != nil {
		t.Errorf("expected a non-async function to be left untouched, got %+v", fn.StateMachine)
	}
}

func TestTransform_SequentialAwaitsProduceOneStateEach(t *testing.T) {
	fn := mir.NewFunction("chain", nil, nil)
	fn.IsAsync = true

	entry := fn.Blocks[fn.EntryBlock]
	entry.Push(&mir.CallInstr{Dest: mir.TempPlace{ID: 0}, Func: "__zulon_await_poll", Args: nil})
	entry.Push(&mir.CallInstr{Dest: mir.TempPlace{ID: 1}, Func: "__zulon_await_poll", Args: nil})
	entry.Terminator = &mir.ReturnTerm{}

	mod := &mir.Module{Functions: []*mir.Function{fn}}
	Transform(mod)

	if len(fn.StateMachine.States) != 2 {
		t.Fatalf("expected 2 states for 2 sequential awaits, got %d", len(fn.StateMachine.States))
	}
}
