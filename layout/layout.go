// SPDX-License-Identifier: GPL-2.0-or-later
// SPDX-FileCopyrightText: SUSE LLC

// Package layout describes how a Go type is laid out in memory, so that a
// backing array allocated for one element type can be reused for another.
package layout

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

const wordSize = unsafe.Sizeof(uintptr(0))

// Layout is the in-memory shape of a type: its size, its alignment, and which
// of its words the garbage collector treats as pointers.  Two types with equal
// layouts can occupy the same memory slot interchangeably.
type Layout struct {
	Size  uintptr
	Align uintptr
	// Bitmap of pointer words, one bit per word.
	pointers string
}

// HasPointers reports whether any word of the type holds a pointer.
func (l Layout) HasPointers() bool {
	for i := 0; i < len(l.pointers); i++ {
		if l.pointers[i] != 0 {
			return true
		}
	}
	return false
}

func (l Layout) String() string {
	return fmt.Sprintf("size=%d align=%d pointers=%x", l.Size, l.Align, l.pointers)
}

var cache sync.Map // reflect.Type -> Layout

// Of returns the layout of T.
func Of[T any]() Layout {
	return OfType(reflect.TypeFor[T]())
}

// OfType returns the layout of the given type.  The result is cached, so
// repeated queries for the same type do not walk it again.
func OfType(t reflect.Type) Layout {
	if l, ok := cache.Load(t); ok {
		return l.(Layout)
	}
	words := (t.Size() + wordSize - 1) / wordSize
	bits := make([]byte, (words+7)/8)
	mark(t, 0, bits)
	l, _ := cache.LoadOrStore(t, Layout{
		Size:     t.Size(),
		Align:    uintptr(t.Align()),
		pointers: string(bits),
	})
	return l.(Layout)
}

// Same reports whether a slot holding a T may hold a U instead.
func Same[T, U any]() bool {
	return Of[T]() == Of[U]()
}

func set(bits []byte, offset uintptr) {
	word := offset / wordSize
	bits[word/8] |= 1 << (word % 8)
}

func mark(t reflect.Type, offset uintptr, bits []byte) {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func,
		reflect.UnsafePointer, reflect.String, reflect.Slice:
		set(bits, offset)
	case reflect.Interface:
		set(bits, offset)
		set(bits, offset+wordSize)
	case reflect.Array:
		elem := t.Elem()
		if !OfType(elem).HasPointers() {
			return
		}
		for i := 0; i < t.Len(); i++ {
			mark(elem, offset+uintptr(i)*elem.Size(), bits)
		}
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			mark(field.Type, offset+field.Offset, bits)
		}
	}
}
