// SPDX-License-Identifier: GPL-2.0-or-later
// SPDX-FileCopyrightText: SUSE LLC

// Package vec maps slices from one element type to another, reusing the
// backing array of the input when both element types have the same layout.
//
// Every function here consumes its input slice: once called, neither the
// slice nor any other slice sharing its backing array may be used again.
// When the backing array is reused it holds the new element type, and when
// it is not its elements are zeroed.
//
// Elements implementing drop.Dropper are destroyed exactly once when a
// transformation stops early, whether because the mapping function returned
// an error or panicked.  Values passed to the mapping function become its
// responsibility.
package vec

import (
	"github.com/mook-as/recycle/drop"
	"github.com/mook-as/recycle/layout"
)

// Reuses reports whether mapping a []T to a []U reuses the backing array.
func Reuses[T, U any]() bool {
	return layout.Same[T, U]()
}

// Map applies f to every element of s, in order, and returns the results.
func Map[S ~[]T, T, U any](s S, f func(T) U) []U {
	result, _ := TryMap(s, func(v T) (U, error) {
		return f(v), nil
	})
	return result
}

// TryMap applies f to every element of s, in order, and returns the results.
// It stops at the first error f returns and returns that error unchanged;
// all elements already produced and all elements not yet passed to f are
// destroyed before it returns.  A panic in f destroys the same elements and
// then continues.
func TryMap[S ~[]T, T, U any](s S, f func(T) (U, error)) ([]U, error) {
	if Reuses[T, U]() {
		return newCursor[T, U](s).run(f)
	}
	return collect[T, U](s, f)
}

// Recycle destroys every element of s and returns an empty []U.  If T and U
// have the same layout, the result keeps the backing array and capacity of s;
// otherwise it has no backing array at all.
func Recycle[U any, S ~[]T, T any](s S) []U {
	drop.Slice[T](s)
	return Map(s[:0], func(T) U {
		panic("vec: mapping function called on an empty slice")
	})
}

// collect maps s into a newly allocated slice.
func collect[T, U any](s []T, f func(T) (U, error)) ([]U, error) {
	results := make([]U, 0, len(s))
	completed := false
	consumed := 0
	defer func() {
		defer clear(s)
		if completed {
			return
		}
		defer drop.Slice(results)
		drop.Slice(s[consumed:])
	}()

	for i := range s {
		consumed = i + 1
		value, err := f(s[i])
		if err != nil {
			return nil, err
		}
		results = append(results, value)
	}

	completed = true
	return results, nil
}
