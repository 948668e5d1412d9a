// SPDX-License-Identifier: GPL-2.0-or-later
// SPDX-FileCopyrightText: SUSE LLC

package vec

import "unsafe"

// descriptor holds the raw parts of a slice that is being transformed.  It is
// taken once from the consumed slice; start, length and capacity never change
// afterwards.  The cursor is kept as a slot index rather than a pointer so it
// can sit at length without pointing past the backing array.
type descriptor[T any] struct {
	start    unsafe.Pointer
	cursor   int
	length   int
	capacity int
}

func newDescriptor[T any](s []T) descriptor[T] {
	return descriptor[T]{
		start:    unsafe.Pointer(unsafe.SliceData(s)),
		length:   len(s),
		capacity: cap(s),
	}
}

// slot returns the address of the element at the cursor.
func (d *descriptor[T]) slot() unsafe.Pointer {
	var zero T
	return unsafe.Add(d.start, uintptr(d.cursor)*unsafe.Sizeof(zero))
}

func (d *descriptor[T]) advance() {
	d.cursor++
}

// inputs returns the block viewed as the original element type.
func (d *descriptor[T]) inputs() []T {
	return unsafe.Slice((*T)(d.start), d.capacity)
}

// reinterpret returns the block as a []U of the given length, keeping the
// original capacity.  U must have the same layout as T.
func reinterpret[U, T any](d *descriptor[T], length int) []U {
	if d.start == nil {
		return nil
	}
	return unsafe.Slice((*U)(d.start), d.capacity)[:length]
}
