package layout

import "github.com/RunningShrimp/zulon-language-sub001/internal/types"

// VariantInfo is one enum variant's placement: its discriminant value
// and, for a data variant, the StructLayout of its payload fields
// (nil for a unit-like variant with no fields).
type VariantInfo struct {
	Name         string
	Discriminant int64
	Layout       *StructLayout
}

// EnumLayout is the memory layout of a tagged union: a discriminant at
// offset 0, followed at DataOffset by whichever variant's payload is
// active — every variant's payload starts at the same offset and the
// enum's total size fits the widest one (spec §4.5's enum
// representation).
type EnumLayout struct {
	Name             string
	DiscriminantType types.LirTy
	Variants         []VariantInfo
	DataOffset       int64
	Size             int64
	Align            int64
}

// NewEnumLayout starts an enum layout with its discriminant already
// placed at offset 0.
func NewEnumLayout(name string, discriminantType types.LirTy) *EnumLayout {
	return &EnumLayout{
		Name:             name,
		DiscriminantType: discriminantType,
		DataOffset:       discriminantType.SizeOf(),
		Size:             discriminantType.SizeOf(),
		Align:            discriminantType.AlignOf(),
	}
}

// AddVariant lays out one variant's payload fields (if any) at
// DataOffset and widens the enum's own size/alignment to fit it.
func (el *EnumLayout) AddVariant(name string, discriminant int64, fields []FieldSpec) {
	var payload *StructLayout

	size, align := int64(0), int64(1)

	if len(fields) > 0 {
		payload = NewStructLayout(el.Name + "_" + name)
		for _, f := range fields {
			payload.AddField(f.Name, f.Type)
		}

		payload.Finalize()
		size, align = payload.Size, payload.Align
	}

	if align > el.Align {
		el.Align = align
	}

	if variantSize := el.DataOffset + size; variantSize > el.Size {
		el.Size = variantSize
	}

	el.Variants = append(el.Variants, VariantInfo{Name: name, Discriminant: discriminant, Layout: payload})
}

// Finalize pads Size up to Align, same as StructLayout.
func (el *EnumLayout) Finalize() {
	if el.Align < 1 {
		el.Align = 1
	}

	el.Size = alignUp(el.Size, el.Align)
}

// VariantByName looks up a variant's placement by name.
func (el *EnumLayout) VariantByName(name string) (VariantInfo, bool) {
	for _, v := range el.Variants {
		if v.Name == name {
			return v, true
		}
	}

	return VariantInfo{}, false
}

// IsCLike reports whether every variant is unit-like (no payload),
// letting a caller pick a bare-discriminant representation instead of a
// tagged union (spec §4.5's optimization for C-like enums).
func (el *EnumLayout) IsCLike() bool {
	for _, v := range el.Variants {
		if v.Layout != nil {
			return false
		}
	}

	return true
}

// VariantSpec is one enum variant's declaration, as walked off a
// *hir.Enum: its name and its payload fields in declared order.
type VariantSpec struct {
	Name   string
	Fields []FieldSpec
}

// EnumSource looks up an enum's variant declarations by name.
type EnumSource func(name string) ([]VariantSpec, bool)

// EnumLayoutCache computes and memoizes an EnumLayout per enum name,
// assigning each variant a discriminant equal to its declaration index
// (spec §4.5 leaves explicit discriminant values to a future surface;
// this core always assigns them positionally).
type EnumLayoutCache struct {
	source           EnumSource
	discriminantType types.LirTy
	cache            map[string]*EnumLayout
}

// NewEnumLayoutCache creates a cache that lays out an enum's variants
// against a shared discriminant type on first request.
func NewEnumLayoutCache(source EnumSource, discriminantType types.LirTy) *EnumLayoutCache {
	return &EnumLayoutCache{source: source, discriminantType: discriminantType, cache: map[string]*EnumLayout{}}
}

// Layout returns name's computed EnumLayout, computing and caching it
// on first request.
func (c *EnumLayoutCache) Layout(name string) (*EnumLayout, bool) {
	if el, ok := c.cache[name]; ok {
		return el, true
	}

	variants, ok := c.source(name)
	if !ok {
		return nil, false
	}

	el := NewEnumLayout(name, c.discriminantType)
	for i, v := range variants {
		el.AddVariant(v.Name, int64(i), v.Fields)
	}

	el.Finalize()
	c.cache[name] = el

	return el, true
}
