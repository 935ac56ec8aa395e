package alloc

import (
	"reflect"
	"sync"

	"github.com/wippyai/thinvec/internal/layout"
)

// MaxRawAlign is the largest block alignment for pointer-free elements.
const MaxRawAlign = 1 << 16

var pointerCache sync.Map // reflect.Type -> bool

// HasPointers reports whether values of t hold anything the collector traces.
func HasPointers(t reflect.Type) bool {
	if v, ok := pointerCache.Load(t); ok {
		return v.(bool)
	}
	has := hasPointers(t)
	pointerCache.Store(t, has)
	return has
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// MaxAlign returns the largest block alignment a block of elem can honor.
func MaxAlign(elem reflect.Type) uintptr {
	if HasPointers(elem) {
		return max(uintptr(elem.Align()), layout.HeaderAlign)
	}
	return MaxRawAlign
}
