// SPDX-License-Identifier: GPL-2.0-or-later
// SPDX-FileCopyrightText: SUSE LLC

// Package drop destroys values that are being discarded.  Go has no
// destructors; values that own something which must be released exactly once
// (a file, a pooled buffer, a reference count) implement Dropper.
package drop

// Dropper is implemented by values that must be released when discarded.
type Dropper interface {
	Drop()
}

// Value destroys the value at p: it calls Drop on the value (or on p, for
// pointer receivers) if implemented, then zeroes it.
func Value[T any](p *T) {
	defer func() {
		var zero T
		*p = zero
	}()
	if d, ok := any(*p).(Dropper); ok {
		d.Drop()
	} else if d, ok := any(p).(Dropper); ok {
		d.Drop()
	}
}

// Slice destroys every element of s, in order.  If a Drop panics, the rest of
// the elements are still destroyed before the first panic is resumed.
func Slice[T any](s []T) {
	var (
		payload   any
		panicking bool
	)
	for i := range s {
		func() {
			defer func() {
				if r := recover(); r != nil && !panicking {
					payload, panicking = r, true
				}
			}()
			Value(&s[i])
		}()
	}
	if panicking {
		panic(payload)
	}
}
