// SPDX-License-Identifier: GPL-2.0-or-later
// SPDX-FileCopyrightText: SUSE LLC

package vec

import (
	"log/slog"

	"github.com/mook-as/recycle/drop"
)

// cursor walks a buffer, replacing each T with the U it maps to.  Slots
// [0, written) hold U values; slots after the cursor hold untouched T values.
// While f runs, the slot at the cursor has been read out and holds neither.
type cursor[T, U any] struct {
	buf     descriptor[T]
	written int
}

func newCursor[T, U any](s []T) *cursor[T, U] {
	return &cursor[T, U]{buf: newDescriptor(s)}
}

// run maps every element in place.  If f returns an error or panics, the
// buffer is discarded before the error is returned or the panic continues.
func (c *cursor[T, U]) run(f func(T) (U, error)) ([]U, error) {
	completed := false
	defer func() {
		if !completed {
			c.discard()
		}
	}()

	for c.written < c.buf.length {
		slot := c.buf.slot()
		value, err := f(*(*T)(slot))
		if err != nil {
			return nil, err
		}
		*(*U)(slot) = value
		c.buf.advance()
		c.written++
	}

	completed = true
	return reinterpret[U](&c.buf, c.buf.length), nil
}

// discard destroys what is left of the buffer after an early exit.  The slot
// at index written was handed to f and is not destroyed here.
func (c *cursor[T, U]) discard() {
	slog.Debug("Discarding partially mapped buffer",
		"written", c.written, "length", c.buf.length, "capacity", c.buf.capacity)

	outputs := reinterpret[U](&c.buf, c.buf.length)
	defer func() {
		defer clear(outputs)
		drop.Slice(outputs[:c.written])
	}()
	drop.Slice(c.buf.inputs()[c.written+1 : c.buf.length])
}
