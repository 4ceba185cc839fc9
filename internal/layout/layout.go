// Package layout computes the struct/enum/ABI decisions LIR's opaque
// LStructTy leaves to a resolver (spec §4.8): field offsets and padding,
// enum discriminant placement, and argument/return register assignment.
// internal/lir's MirToLir never re-derives any of this itself — every
// LStructTy it produces already carries the Size/Align this package
// computed.
package layout

import "github.com/RunningShrimp/zulon-language-sub001/internal/types"

// FieldInfo is one struct field's computed placement.
type FieldInfo struct {
	Name   string
	Type   types.LirTy
	Offset int64
}

// StructLayout is the memory layout of one struct or tuple: fields in
// declaration order, each at its aligned offset, plus the struct's own
// total size (padded up to its own alignment) and alignment (the
// widest of its fields').
type StructLayout struct {
	Name   string
	Fields []FieldInfo
	Size   int64
	Align  int64
}

// NewStructLayout starts an empty layout; AddField grows it field by
// field so a caller building from a variable-length declaration (a
// struct, a tuple, an enum variant's payload) can stream fields in
// without pre-counting them.
func NewStructLayout(name string) *StructLayout {
	return &StructLayout{Name: name, Align: 1}
}

// AddField appends a field, computing its aligned offset from the
// layout's current size and widening the layout's own alignment if
// this field demands more than any field seen so far.
func (sl *StructLayout) AddField(name string, ty types.LirTy) {
	align := ty.AlignOf()
	if align < 1 {
		align = 1
	}

	if align > sl.Align {
		sl.Align = align
	}

	offset := alignUp(sl.Size, align)
	sl.Fields = append(sl.Fields, FieldInfo{Name: name, Type: ty, Offset: offset})
	sl.Size = offset + ty.SizeOf()
}

// Finalize pads Size up to Align, matching every ABI's rule that an
// array of this struct must place each element on an aligned boundary.
func (sl *StructLayout) Finalize() {
	if sl.Align < 1 {
		sl.Align = 1
	}

	sl.Size = alignUp(sl.Size, sl.Align)
}

// FieldOffset looks up a field's byte offset by name.
func (sl *StructLayout) FieldOffset(name string) (int64, bool) {
	for _, f := range sl.Fields {
		if f.Name == name {
			return f.Offset, true
		}
	}

	return 0, false
}

func alignUp(value, alignment int64) int64 {
	if alignment <= 1 {
		return value
	}

	return (value + alignment - 1) &^ (alignment - 1)
}

// FieldSpec is one field of a struct or enum-variant payload, as the
// caller's declaration (typically walked straight off a *hir.Struct or
// *hir.Enum) supplies it — name plus its already-lowered LirTy.
type FieldSpec struct {
	Name string
	Type types.LirTy
}

// FieldSource looks up a nominal struct's field list by name, returning
// false for a name this package has no declaration for (a slice/str
// runtime type, or an unknown name).
type FieldSource func(name string) ([]FieldSpec, bool)

// builtinLayouts covers the runtime-supplied aggregate types MirToLirTy
// resolves by fixed name ("str", "slice") rather than a user
// declaration — grounded on the original's StringLayout (ptr+len, 16
// bytes) and SliceLayout (ptr+len+cap, 24 bytes).
var builtinLayouts = map[string]types.StructLirInfo{
	"str":   {Size: 16, Align: 8},
	"slice": {Size: 24, Align: 8},
}

// LayoutCache computes and memoizes a StructLayout per nominal type
// name, backed by a FieldSource for user-declared structs/tuples and
// builtinLayouts for the runtime's own aggregate types.
type LayoutCache struct {
	source FieldSource
	cache  map[string]*StructLayout
}

// NewLayoutCache creates a cache that asks source for a name's fields
// on first request and remembers the computed layout after that.
func NewLayoutCache(source FieldSource) *LayoutCache {
	return &LayoutCache{source: source, cache: map[string]*StructLayout{}}
}

// Layout returns name's computed StructLayout, computing and caching it
// on first request.
func (c *LayoutCache) Layout(name string) (*StructLayout, bool) {
	if sl, ok := c.cache[name]; ok {
		return sl, true
	}

	specs, ok := c.source(name)
	if !ok {
		return nil, false
	}

	sl := NewStructLayout(name)
	for _, f := range specs {
		sl.AddField(f.Name, f.Type)
	}

	sl.Finalize()
	c.cache[name] = sl

	return sl, true
}

// Resolver adapts this cache into the types.StructLirResolver
// internal/lir's MirToLirTy/MirToLir calls to turn an opaque nominal,
// slice, tuple, or optional MirTy into a sized LStructTy. A name this
// cache has no declaration for and that isn't one of the runtime's
// builtins falls back to a conservative one-word guess rather than
// panicking — MirToLir is expected to run even against a partial
// program a type-checking pass has already flagged errors in.
func (c *LayoutCache) Resolver() types.StructLirResolver {
	return func(name string) types.StructLirInfo {
		if sl, ok := c.Layout(name); ok {
			return types.StructLirInfo{Size: sl.Size, Align: sl.Align}
		}

		if info, ok := builtinLayouts[name]; ok {
			return info
		}

		return types.StructLirInfo{Size: 8, Align: 8}
	}
}
