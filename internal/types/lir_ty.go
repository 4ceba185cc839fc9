package types

import "fmt"

// LirTy is the machine-oriented vocabulary (§3.1): only fixed-width
// integers, floats, bool, unit, never, raw pointer-of-T, fixed arrays,
// and opaque structs-by-name-and-size. Every LirTy has an exact size and
// alignment, filled in by internal/layout.
type LirTy interface {
	lirTyNode()
	String() string
	SizeOf() int64
	AlignOf() int64
}

type LIntTy struct{ Width IntWidth }

func (LIntTy) lirTyNode()  {}
func (t LIntTy) String() string { return t.Width.String() }
func (t LIntTy) SizeOf() int64 {
	bits := t.Width.BitSize()
	if bits < 0 {
		return 8 // isize/usize: pointer-sized on every target this core emits for
	}

	return int64(bits / 8)
}
func (t LIntTy) AlignOf() int64 { return t.SizeOf() }

type LFloatTy struct{ Bits int }

func (LFloatTy) lirTyNode() {}
func (t LFloatTy) String() string {
	if t.Bits == 32 {
		return "f32"
	}

	return "f64"
}
func (t LFloatTy) SizeOf() int64  { return int64(t.Bits / 8) }
func (t LFloatTy) AlignOf() int64 { return t.SizeOf() }

type LBoolTy struct{}

func (LBoolTy) lirTyNode()    {}
func (LBoolTy) String() string { return "bool" }
func (LBoolTy) SizeOf() int64  { return 1 }
func (LBoolTy) AlignOf() int64 { return 1 }

type LUnitTy struct{}

func (LUnitTy) lirTyNode()    {}
func (LUnitTy) String() string { return "()" }
func (LUnitTy) SizeOf() int64  { return 0 }
func (LUnitTy) AlignOf() int64 { return 1 }

// LNeverTy has no runtime representation; functions returning it never
// return normally.
type LNeverTy struct{}

func (LNeverTy) lirTyNode()    {}
func (LNeverTy) String() string { return "!" }
func (LNeverTy) SizeOf() int64  { return 0 }
func (LNeverTy) AlignOf() int64 { return 1 }

// LPtrTy is a raw pointer-of-T (references and raw pointers both lower
// to this — the mutability/aliasing distinction is the borrow checker's
// job, not the machine type's, §4.8).
type LPtrTy struct{ Inner LirTy }

func (LPtrTy) lirTyNode()    {}
func (t LPtrTy) String() string { return "*" + t.Inner.String() }
func (LPtrTy) SizeOf() int64  { return 8 }
func (LPtrTy) AlignOf() int64 { return 8 }

// LArrayTy is a fixed-size array with a known element type and length.
type LArrayTy struct {
	Inner  LirTy
	Length int64
}

func (LArrayTy) lirTyNode()    {}
func (t LArrayTy) String() string { return fmt.Sprintf("[%s; %d]", t.Inner, t.Length) }
func (t LArrayTy) SizeOf() int64  { return t.Inner.SizeOf() * t.Length }
func (t LArrayTy) AlignOf() int64 { return t.Inner.AlignOf() }

// LStructTy is an opaque struct identified by name and a precomputed
// size/alignment (from internal/layout) — LIR never re-derives layout.
type LStructTy struct {
	Name  string
	Size  int64
	Align int64
}

func (LStructTy) lirTyNode()    {}
func (t LStructTy) String() string { return t.Name }
func (t LStructTy) SizeOf() int64  { return t.Size }
func (t LStructTy) AlignOf() int64 { return t.Align }
