package layout

import "github.com/RunningShrimp/zulon-language-sub001/internal/types"

// CallingConvention selects which target's argument-passing rules
// AssignArgs follows (spec §4.7's FFI surface names these three; this
// core never emits code for any of them, only computes where an
// argument would live).
type CallingConvention int

const (
	SystemVAMD64 CallingConvention = iota
	MicrosoftX64
	AArch64
)

// ArgLocationKind distinguishes a register-resident argument from one
// spilled to the stack.
type ArgLocationKind int

const (
	LocRegister ArgLocationKind = iota
	LocStack
)

// ArgLocation is where one argument or a return value lives.
type ArgLocation struct {
	Kind        ArgLocationKind
	Register    string
	StackOffset int64
}

// CallInfo is one function signature's full calling-convention
// assignment: every parameter's location in order, the return value's
// location, and the stack space the spilled arguments need.
type CallInfo struct {
	CC             CallingConvention
	ArgLocations   []ArgLocation
	ReturnLocation ArgLocation
	StackArgSize   int64
}

// NewCallInfo starts a CallInfo for cc with a default integer-register
// return location; AssignArgs fills in the rest.
func NewCallInfo(cc CallingConvention) *CallInfo {
	ci := &CallInfo{CC: cc}

	if regs := intRegisters(cc); len(regs) > 0 {
		ci.ReturnLocation = ArgLocation{Kind: LocRegister, Register: regs[0]}
	}

	return ci
}

// intRegisters lists a convention's integer/pointer argument registers
// in passing order, grounded on the original's System V AMD64 (rdi,
// rsi, rdx, rcx, r8, r9), Microsoft x64 (rcx, rdx, r8, r9), and AArch64
// (x0-x7) register sets.
func intRegisters(cc CallingConvention) []string {
	switch cc {
	case SystemVAMD64:
		return []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}
	case MicrosoftX64:
		return []string{"rcx", "rdx", "r8", "r9"}
	case AArch64:
		return []string{"x0", "x1", "x2", "x3", "x4", "x5", "x6", "x7"}
	default:
		return nil
	}
}

// floatRegisters lists a convention's floating-point argument
// registers, same grounding as intRegisters.
func floatRegisters(cc CallingConvention) []string {
	switch cc {
	case SystemVAMD64:
		return []string{"xmm0", "xmm1", "xmm2", "xmm3", "xmm4", "xmm5", "xmm6", "xmm7"}
	case MicrosoftX64:
		return []string{"xmm0", "xmm1", "xmm2", "xmm3"}
	case AArch64:
		return []string{"v0", "v1", "v2", "v3", "v4", "v5", "v6", "v7"}
	default:
		return nil
	}
}

// AssignArgs computes every parameter's ArgLocation, consuming the
// matching register class (integer or float) in order before spilling
// the rest to the stack at their own aligned offset, then assigns the
// return value's location the same way.
func (ci *CallInfo) AssignArgs(paramTypes []types.LirTy, ret types.LirTy) {
	intRegs := intRegisters(ci.CC)
	floatRegs := floatRegisters(ci.CC)

	nextInt, nextFloat := 0, 0
	offset := int64(0)

	for _, ty := range paramTypes {
		if _, isFloat := ty.(types.LFloatTy); isFloat {
			if nextFloat < len(floatRegs) {
				ci.ArgLocations = append(ci.ArgLocations, ArgLocation{Kind: LocRegister, Register: floatRegs[nextFloat]})
				nextFloat++

				continue
			}
		} else if nextInt < len(intRegs) {
			ci.ArgLocations = append(ci.ArgLocations, ArgLocation{Kind: LocRegister, Register: intRegs[nextInt]})
			nextInt++

			continue
		}

		align := ty.AlignOf()
		if align < 1 {
			align = 1
		}

		offset = alignUp(offset, align)
		ci.ArgLocations = append(ci.ArgLocations, ArgLocation{Kind: LocStack, StackOffset: offset})
		offset += ty.SizeOf()
	}

	ci.StackArgSize = offset

	if _, isFloat := ret.(types.LFloatTy); isFloat && len(floatRegs) > 0 {
		ci.ReturnLocation = ArgLocation{Kind: LocRegister, Register: floatRegs[0]}
	} else if len(intRegs) > 0 {
		ci.ReturnLocation = ArgLocation{Kind: LocRegister, Register: intRegs[0]}
	}
}
