package layout

import (
	"testing"

	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

var (
	i32 types.LirTy = types.LIntTy{Width: types.I32}
	i64 types.LirTy = types.LIntTy{Width: types.I64}
	f64 types.LirTy = types.LFloatTy{Bits: 64}
	b1  types.LirTy = types.LBoolTy{}
)

func TestStructLayoutAddsPaddingBetweenMisalignedFields(t *testing.T) {
	sl := NewStructLayout("Packet")
	sl.AddField("flag", b1)
	sl.AddField("id", i64)
	sl.Finalize()

	off, ok := sl.FieldOffset("id")
	if !ok {
		t.Fatalf("expected field id to exist")
	}
	if off != 8 {
		t.Errorf("id offset = %d, want 8 (padded past the 1-byte bool)", off)
	}

	if sl.Align != 8 {
		t.Errorf("Align = %d, want 8", sl.Align)
	}
	if sl.Size != 16 {
		t.Errorf("Size = %d, want 16 (padded to Align)", sl.Size)
	}
}

func TestStructLayoutFieldOrderAffectsOffsets(t *testing.T) {
	sl := NewStructLayout("Pair")
	sl.AddField("a", i32)
	sl.AddField("b", i32)
	sl.Finalize()

	offA, _ := sl.FieldOffset("a")
	offB, _ := sl.FieldOffset("b")

	if offA != 0 || offB != 4 {
		t.Errorf("offsets = (%d, %d), want (0, 4)", offA, offB)
	}
	if sl.Size != 8 {
		t.Errorf("Size = %d, want 8", sl.Size)
	}
}

func TestLayoutCacheMemoizesAndFallsBackForUnknownName(t *testing.T) {
	calls := 0
	source := func(name string) ([]FieldSpec, bool) {
		calls++
		if name == "Point" {
			return []FieldSpec{{Name: "x", Type: i64}, {Name: "y", Type: i64}}, true
		}
		return nil, false
	}

	cache := NewLayoutCache(source)

	resolver := cache.Resolver()

	first := resolver("Point")
	second := resolver("Point")
	if first != second {
		t.Errorf("expected memoized result to be identical, got %+v vs %+v", first, second)
	}
	if calls != 1 {
		t.Errorf("source called %d times, want 1 (memoized)", calls)
	}

	unknown := resolver("Mystery")
	if unknown.Size != 8 || unknown.Align != 8 {
		t.Errorf("unknown type fallback = %+v, want {8 8}", unknown)
	}

	str := resolver("str")
	if str.Size != 16 || str.Align != 8 {
		t.Errorf("builtin str layout = %+v, want {16 8}", str)
	}
}

func TestEnumLayoutSharesDataOffsetAcrossVariants(t *testing.T) {
	el := NewEnumLayout("Option", i32)
	el.AddVariant("None", 0, nil)
	el.AddVariant("Some", 1, []FieldSpec{{Name: "value", Type: i64}})
	el.Finalize()

	none, ok := el.VariantByName("None")
	if !ok || none.Layout != nil {
		t.Errorf("None variant should be unit-like, got %+v", none)
	}

	some, ok := el.VariantByName("Some")
	if !ok || some.Layout == nil {
		t.Fatalf("Some variant should carry a payload layout")
	}
	if some.Discriminant != 1 {
		t.Errorf("Some discriminant = %d, want 1", some.Discriminant)
	}

	if el.DataOffset != i32.SizeOf() {
		t.Errorf("DataOffset = %d, want %d", el.DataOffset, i32.SizeOf())
	}

	wantSize := el.DataOffset + some.Layout.Size
	if el.Size < wantSize {
		t.Errorf("Size = %d, too small to fit the Some payload (want >= %d)", el.Size, wantSize)
	}

	if el.IsCLike() {
		t.Errorf("IsCLike = true, want false (Some carries a payload)")
	}
}

func TestEnumLayoutIsCLikeWhenEveryVariantIsUnit(t *testing.T) {
	el := NewEnumLayout("Color", i32)
	el.AddVariant("Red", 0, nil)
	el.AddVariant("Green", 1, nil)
	el.AddVariant("Blue", 2, nil)
	el.Finalize()

	if !el.IsCLike() {
		t.Errorf("IsCLike = false, want true (all variants unit-like)")
	}
}

func TestEnumLayoutCacheAssignsDiscriminantsPositionally(t *testing.T) {
	source := func(name string) ([]VariantSpec, bool) {
		if name == "Direction" {
			return []VariantSpec{{Name: "Up"}, {Name: "Down"}, {Name: "Left"}, {Name: "Right"}}, true
		}
		return nil, false
	}

	cache := NewEnumLayoutCache(source, i32)

	el, ok := cache.Layout("Direction")
	if !ok {
		t.Fatalf("expected Direction to resolve")
	}

	down, _ := el.VariantByName("Down")
	if down.Discriminant != 1 {
		t.Errorf("Down discriminant = %d, want 1", down.Discriminant)
	}

	again, ok := cache.Layout("Direction")
	if !ok || again != el {
		t.Errorf("expected memoized *EnumLayout, got a different pointer")
	}

	if _, ok := cache.Layout("Nonexistent"); ok {
		t.Errorf("expected unknown enum name to fail")
	}
}

func TestCallInfoAssignsRegistersThenSpillsToStack(t *testing.T) {
	ci := NewCallInfo(SystemVAMD64)

	params := []types.LirTy{i64, i64, i64, i64, i64, i64, i64, f64}
	ci.AssignArgs(params, i64)

	for i := 0; i < 6; i++ {
		if ci.ArgLocations[i].Kind != LocRegister {
			t.Errorf("param %d should be in a register, got %+v", i, ci.ArgLocations[i])
		}
	}

	if ci.ArgLocations[6].Kind != LocStack {
		t.Errorf("7th integer param should spill to the stack, got %+v", ci.ArgLocations[6])
	}
	if ci.ArgLocations[6].StackOffset != 0 {
		t.Errorf("first stack arg offset = %d, want 0", ci.ArgLocations[6].StackOffset)
	}

	if ci.ArgLocations[7].Kind != LocRegister || ci.ArgLocations[7].Register != "xmm0" {
		t.Errorf("float param should take the first float register, got %+v", ci.ArgLocations[7])
	}

	if ci.ReturnLocation.Kind != LocRegister || ci.ReturnLocation.Register != "rdi" {
		t.Errorf("integer return should use rdi, got %+v", ci.ReturnLocation)
	}
}

func TestCallInfoFloatReturnUsesFloatRegister(t *testing.T) {
	ci := NewCallInfo(MicrosoftX64)
	ci.AssignArgs([]types.LirTy{i32}, f64)

	if ci.ReturnLocation.Register != "xmm0" {
		t.Errorf("float return register = %q, want xmm0", ci.ReturnLocation.Register)
	}
}
