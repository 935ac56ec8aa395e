package thinvec

import (
	"reflect"
	"sync"
	"unsafe"
)

// Dropper is implemented by element types that own resources. A Vec calls
// Drop exactly once on every element it destroys: truncated, cleared, freed,
// removed by a predicate, or left unconsumed in a closed iterator. Values a
// Vec hands back to the caller are the caller's to drop.
type Dropper interface {
	Drop()
}

// Cloner is implemented by element types that need more than a shallow copy
// when a Vec duplicates them (Clone, Resize, ExtendFromSlice, ...).
type Cloner[T any] interface {
	Clone() T
}

var dropperType = reflect.TypeFor[Dropper]()

type dropMode uint8

const (
	dropNone    dropMode = iota
	dropAddr             // *T implements Dropper
	dropPointer          // T is a pointer implementing Dropper; nil is skipped
	dropDynamic          // T is an interface; decided per value
)

type cloneMode uint8

const (
	cloneCopy    cloneMode = iota
	cloneAddr              // *T implements Cloner[T]
	clonePointer           // T is a pointer implementing Cloner[T]; nil is copied
	cloneDynamic           // T is an interface; decided per value
)

type traits struct {
	drop  dropMode
	clone cloneMode
}

var traitCache sync.Map // reflect.Type -> traits

func traitsOf[T any]() traits {
	t := reflect.TypeFor[T]()
	if v, ok := traitCache.Load(t); ok {
		return v.(traits)
	}

	var tr traits
	switch {
	case t.Kind() == reflect.Interface:
		tr.drop = dropDynamic
	case t.Kind() == reflect.Pointer && t.Implements(dropperType):
		tr.drop = dropPointer
	case reflect.PointerTo(t).Implements(dropperType):
		tr.drop = dropAddr
	}
	cloner := reflect.TypeFor[Cloner[T]]()
	switch {
	case t.Kind() == reflect.Interface:
		tr.clone = cloneDynamic
	case t.Kind() == reflect.Pointer && t.Implements(cloner):
		tr.clone = clonePointer
	case reflect.PointerTo(t).Implements(cloner):
		tr.clone = cloneAddr
	}

	traitCache.Store(t, tr)
	return tr
}

func needsDrop[T any]() bool {
	return traitsOf[T]().drop != dropNone
}

func dropOne[T any](p *T) {
	switch traitsOf[T]().drop {
	case dropAddr:
		any(p).(Dropper).Drop()
	case dropPointer:
		if *(*unsafe.Pointer)(unsafe.Pointer(p)) != nil {
			any(*p).(Dropper).Drop()
		}
	case dropDynamic:
		if d, ok := any(*p).(Dropper); ok {
			d.Drop()
		}
	}
}

// dropAll drops every element of s. When a Drop panics the rest are still
// dropped before the panic continues.
func dropAll[T any](s []T) {
	if len(s) == 0 || !needsDrop[T]() {
		return
	}
	i := 0
	defer func() {
		if i < len(s) {
			dropAll(s[i+1:])
		}
	}()
	for ; i < len(s); i++ {
		dropOne(&s[i])
	}
}

func cloneOf[T any](p *T) T {
	switch traitsOf[T]().clone {
	case cloneAddr:
		return any(p).(Cloner[T]).Clone()
	case clonePointer:
		if *(*unsafe.Pointer)(unsafe.Pointer(p)) != nil {
			return any(*p).(Cloner[T]).Clone()
		}
	case cloneDynamic:
		if c, ok := any(*p).(Cloner[T]); ok {
			return c.Clone()
		}
	}
	return *p
}
