package wasmvec

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"
)

// Info is the canonical ABI size and alignment of a WIT type.
type Info struct {
	Size  uint32
	Align uint32
}

// Calculator computes canonical ABI element layouts. Results for type
// definitions are cached; a Calculator is not safe for concurrent use.
type Calculator struct {
	cache map[*wit.TypeDef]Info
}

func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[*wit.TypeDef]Info),
	}
}

func (c *Calculator) Calculate(t wit.Type) Info {
	switch typ := t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		return Info{Size: 1, Align: 1}
	case wit.U16, wit.S16:
		return Info{Size: 2, Align: 2}
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return Info{Size: 4, Align: 4}
	case wit.U64, wit.S64, wit.F64:
		return Info{Size: 8, Align: 8}
	case wit.String:
		return Info{Size: 8, Align: 4} // [ptr: u32, len: u32]
	case *wit.TypeDef:
		return c.calculateTypeDef(typ)
	default:
		return Info{Size: 0, Align: 1}
	}
}

func (c *Calculator) calculateTypeDef(t *wit.TypeDef) Info {
	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var info Info
	switch kind := t.Kind.(type) {
	case *wit.Record:
		types := make([]wit.Type, len(kind.Fields))
		for i, f := range kind.Fields {
			types[i] = f.Type
		}
		info = c.sequence(types)
	case *wit.Tuple:
		info = c.sequence(kind.Types)
	case *wit.Variant:
		payloads := make([]wit.Type, 0, len(kind.Cases))
		for _, cs := range kind.Cases {
			payloads = append(payloads, cs.Type)
		}
		info = c.tagged(len(kind.Cases), payloads)
	case *wit.Enum:
		size := discriminantSize(len(kind.Cases))
		info = Info{Size: size, Align: size}
	case *wit.Option:
		info = c.tagged(2, []wit.Type{kind.Type})
	case *wit.Result:
		info = c.tagged(2, []wit.Type{kind.OK, kind.Err})
	case *wit.Flags:
		info = flagsInfo(len(kind.Flags))
	case *wit.List:
		info = Info{Size: 8, Align: 4}
	case wit.Type:
		info = c.Calculate(kind)
	default:
		info = Info{Size: 0, Align: 1}
	}

	c.cache[t] = info
	return info
}

// sequence lays fields out in order, each at its own alignment.
func (c *Calculator) sequence(types []wit.Type) Info {
	if len(types) == 0 {
		return Info{Size: 0, Align: 1}
	}
	maxAlign := uint32(1)
	offset := uint32(0)
	for _, typ := range types {
		l := c.Calculate(typ)
		offset = alignTo(offset, l.Align)
		maxAlign = max(maxAlign, l.Align)
		offset += l.Size
	}
	return Info{Size: alignTo(offset, maxAlign), Align: maxAlign}
}

// tagged is a discriminant followed by the largest payload. Nil payloads
// are cases without one.
func (c *Calculator) tagged(cases int, payloads []wit.Type) Info {
	if cases == 0 {
		return Info{Size: 0, Align: 1}
	}
	disc := discriminantSize(cases)
	maxAlign := disc
	maxSize := uint32(0)
	for _, typ := range payloads {
		if typ == nil {
			continue
		}
		l := c.Calculate(typ)
		maxAlign = max(maxAlign, l.Align)
		maxSize = max(maxSize, l.Size)
	}
	payload := alignTo(disc, maxAlign)
	return Info{Size: alignTo(payload+maxSize, maxAlign), Align: maxAlign}
}

func flagsInfo(n int) Info {
	switch {
	case n == 0:
		return Info{Size: 0, Align: 1}
	case n <= 8:
		return Info{Size: 1, Align: 1}
	case n <= 16:
		return Info{Size: 2, Align: 2}
	default:
		// one u32 per 32 flags
		return Info{Size: uint32((n + 31) / 32 * 4), Align: 4}
	}
}

// discriminantSize is 1 byte for up to 256 cases, 2 for up to 65536, else 4.
func discriminantSize(cases int) uint32 {
	if cases <= 256 {
		return 1
	} else if cases <= 65536 {
		return 2
	}
	return 4
}

func alignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// holdsPointers reports whether a WIT type stores guest addresses or
// resource handles in its layout. Such values cannot be copied byte for byte.
func holdsPointers(t wit.Type) bool {
	switch typ := t.(type) {
	case wit.String:
		return true
	case *wit.TypeDef:
		switch kind := typ.Kind.(type) {
		case *wit.List, *wit.Own, *wit.Borrow:
			return true
		case *wit.Record:
			for _, f := range kind.Fields {
				if holdsPointers(f.Type) {
					return true
				}
			}
		case *wit.Tuple:
			for _, e := range kind.Types {
				if holdsPointers(e) {
					return true
				}
			}
		case *wit.Variant:
			for _, cs := range kind.Cases {
				if cs.Type != nil && holdsPointers(cs.Type) {
					return true
				}
			}
		case *wit.Option:
			return holdsPointers(kind.Type)
		case *wit.Result:
			return (kind.OK != nil && holdsPointers(kind.OK)) || (kind.Err != nil && holdsPointers(kind.Err))
		case wit.Type:
			return holdsPointers(kind)
		}
	}
	return false
}

// typeName names a WIT type for error messages.
func typeName(t wit.Type) string {
	switch typ := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if typ.Name != nil {
			return *typ.Name
		}
		return strings.ToLower(strings.TrimPrefix(fmt.Sprintf("%T", typ.Kind), "*wit."))
	default:
		return fmt.Sprintf("%T", t)
	}
}
