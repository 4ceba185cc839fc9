// Package asynctransform rewrites an async MIR function's control-flow
// graph into a resumable state machine (spec §4.6). An await point is
// recognized, per internal/mir's HirToMir lowering, as a CallInstr
// whose Func name contains "poll" or "await" — the sentinel-call
// contract documented in SPEC_FULL.md's async supplement, grounded on
// the original crate's own "awaits are identified by name" test
// simplification. Transform splits every block at its await call into a
// suspend point and a resume block, records each resume block's
// persistent set (every named local the resume block reads or writes),
// and rewires the function's entry to dispatch on a
// resume-state local via a Switch terminator.
package asynctransform

import (
	"strings"

	"github.com/RunningShrimp/zulon-language-sub001/internal/mir"
)

// resumeStateLocal is the synthetic local a resumed call is expected to
// have already populated with the state ID to resume into (0 meaning
// "run from the start"). No call-site protocol in this core actually
// writes to it yet; it exists so the dispatch Switch this pass builds
// has something concrete to scrutinize.
const resumeStateLocal = "__zulon_resume_state"

// Transform populates the StateMachine of every async function in mod
// and rewires its entry block into a resume dispatcher.
func Transform(mod *mir.Module) {
	for _, fn := range mod.Functions {
		if fn.IsAsync {
			transformFunction(fn)
		}
	}
}

func transformFunction(fn *mir.Function) {
	sm := &mir.StateMachine{OutputType: fn.ReturnType}

	// Snapshot the block set up front: splitting allocates new blocks
	// mid-loop, and splitAtAwait itself recurses into every resume block
	// it creates, so those blocks need no entry in this list.
	ids := make([]mir.NodeID, 0, len(fn.Blocks))
	for id := range fn.Blocks {
		ids = append(ids, id)
	}

	for _, id := range ids {
		splitAtAwait(fn, id, sm)
	}

	if len(sm.States) == 0 {
		fn.StateMachine = sm
		return
	}

	wireDispatcher(fn, sm)
	fn.StateMachine = sm
}

func splitAtAwait(fn *mir.Function, id mir.NodeID, sm *mir.StateMachine) {
	block := fn.Blocks[id]

	idx := -1

	for i, instr := range block.Instructions {
		if isAwaitCall(instr) {
			idx = i
			break
		}
	}

	if idx == -1 {
		return
	}

	resumeID := fn.AllocBlock()
	resume := fn.Blocks[resumeID]
	resume.Instructions = append(resume.Instructions, block.Instructions[idx+1:]...)
	resume.Terminator = block.Terminator

	block.Instructions = block.Instructions[:idx+1]
	block.Terminator = &mir.GotoTerm{Target: resumeID}

	sm.States = append(sm.States, mir.State{
		ID:       len(sm.States),
		BlockID:  resumeID,
		Captured: capturedLocals(resume),
	})

	// The resume block may itself contain a further await; recurse so a
	// function with several sequential awaits in one straight-line block
	// gets one state per await rather than just the first.
	splitAtAwait(fn, resumeID, sm)
}

func isAwaitCall(instr mir.Instruction) bool {
	call, ok := instr.(*mir.CallInstr)
	if !ok {
		return false
	}

	name := strings.ToLower(call.Func)

	return strings.Contains(name, "poll") || strings.Contains(name, "await")
}

// wireDispatcher rewires fn's entry so resuming a suspended call lands
// in the right state's block: a new entry block Switches on the
// resume-state local, falling back to the function's original entry
// for state 0 (a fresh, never-suspended call).
func wireDispatcher(fn *mir.Function, sm *mir.StateMachine) {
	originalEntry := fn.EntryBlock

	dispatchID := fn.AllocBlock()
	dispatch := fn.Blocks[dispatchID]

	cases := make([]mir.SwitchCase, len(sm.States))
	for i, st := range sm.States {
		cases[i] = mir.SwitchCase{Value: mir.ConstInt(st.ID + 1), Target: st.BlockID}
	}

	dispatch.Terminator = &mir.SwitchTerm{
		Scrutinee: mir.LocalPlace{Name: resumeStateLocal},
		Cases:     cases,
		Default:   originalEntry,
	}

	fn.EntryBlock = dispatchID
}

// capturedLocals returns, in first-seen order, every named local a
// resume block reads or writes — the persistent set the original
// design computes via a dedicated liveness dataflow pass. This pass
// approximates that with a single syntactic scan of the resume block
// alone (spec §9 open question, recorded in DESIGN.md): precise
// liveness would also need to know which of these locals were actually
// live at the suspend point rather than freshly reassigned in the
// resume block itself, which requires the cross-block dataflow fixpoint
// this core does not build. The result can over-capture (a local the
// resume block only writes is still included) and can also miss a local:
// one that is live across the await but used only in blocks reached
// from the resume block, not in the resume block itself, is not
// captured.
func capturedLocals(b *mir.BasicBlock) []string {
	seen := map[string]bool{}

	var names []string

	add := func(p mir.Place) {
		lp, ok := p.(mir.LocalPlace)
		if !ok || seen[lp.Name] {
			return
		}

		seen[lp.Name] = true
		names = append(names, lp.Name)
	}

	for _, instr := range b.Instructions {
		collectInstrPlaces(instr, add)
	}

	collectTermPlaces(b.Terminator, add)

	return names
}

func collectInstrPlaces(instr mir.Instruction, add func(mir.Place)) {
	switch x := instr.(type) {
	case *mir.ConstInstr:
		add(x.Dest)
	case *mir.CopyInstr:
		add(x.Dest)
		add(x.Src)
	case *mir.MoveInstr:
		add(x.Dest)
		add(x.Src)
	case *mir.BinaryOpInstr:
		add(x.Dest)
		add(x.Left)
		add(x.Right)
	case *mir.UnaryOpInstr:
		add(x.Dest)
		add(x.Operand)
	case *mir.CallInstr:
		add(x.Dest)

		for _, a := range x.Args {
			add(a)
		}
	case *mir.LoadInstr:
		add(x.Dest)
		add(x.Src)
	case *mir.StoreInstr:
		add(x.Dest)
		add(x.Src)
	case *mir.BorrowInstr:
		add(x.Dest)
		add(x.Src)
	case *mir.DropInstr:
		add(x.Place)
	}
}

func collectTermPlaces(term mir.Terminator, add func(mir.Place)) {
	switch x := term.(type) {
	case *mir.ReturnTerm:
		if x.Value != nil {
			add(x.Value)
		}
	case *mir.IfTerm:
		add(x.Cond)
	case *mir.SwitchTerm:
		add(x.Scrutinee)
	}
}
