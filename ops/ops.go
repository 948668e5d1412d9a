// SPDX-License-Identifier: GPL-2.0-or-later
// SPDX-FileCopyrightText: SUSE LLC

// Package ops contains the named transformations vecmap can apply to a list of
// values.
package ops

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"unsafe"

	"github.com/mook-as/recycle/itertools"
	"github.com/mook-as/recycle/vec"
)

// Outcome describes the result of applying an operation.
type Outcome struct {
	Values   []string
	Length   int
	Capacity int
	// Whether the result occupies the backing array of the input.
	Reused bool
}

// Operation consumes the values and describes the result.
type Operation func(values []int32) (Outcome, error)

// OverflowError is returned when doubling a value does not fit in 32 bits.
type OverflowError struct {
	Value int32
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("doubling %d overflows", e.Value)
}

var registry = map[string]Operation{
	"double": func(values []int32) (Outcome, error) {
		return describe(values, vec.Map(values, func(v int32) int32 { return v * 2 }), formatInt[int32]), nil
	},
	"negate": func(values []int32) (Outcome, error) {
		return describe(values, vec.Map(values, func(v int32) int32 { return -v }), formatInt[int32]), nil
	},
	"float": func(values []int32) (Outcome, error) {
		return describe(values, vec.Map(values, func(v int32) float32 { return float32(v) }), formatFloat), nil
	},
	"widen": func(values []int32) (Outcome, error) {
		return describe(values, vec.Map(values, func(v int32) int64 { return int64(v) << 32 }), formatInt[int64]), nil
	},
	"checked-double": func(values []int32) (Outcome, error) {
		result, err := vec.TryMap(values, func(v int32) (int32, error) {
			if v > math.MaxInt32/2 || v < math.MinInt32/2 {
				return 0, &OverflowError{Value: v}
			}
			return v * 2, nil
		})
		if err != nil {
			return Outcome{}, err
		}
		return describe(values, result, formatInt[int32]), nil
	},
	"recycle": func(values []int32) (Outcome, error) {
		return describe(values, vec.Recycle[float32](values), formatFloat), nil
	},
}

// Names returns the names of all operations, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}

// Lookup returns the named operation.
func Lookup(name string) (Operation, error) {
	op, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown operation %q (expected one of %v)", name, Names())
	}
	return op, nil
}

// describe builds the outcome of transforming input into output.  Only the
// address of input is used; its contents belong to output now.
func describe[T, U any](input []T, output []U, format func(U) string) Outcome {
	return Outcome{
		Values:   itertools.Map(output, format),
		Length:   len(output),
		Capacity: cap(output),
		Reused: cap(output) > 0 &&
			unsafe.Pointer(unsafe.SliceData(input)) == unsafe.Pointer(unsafe.SliceData(output)),
	}
}

func formatInt[T int32 | int64](v T) string {
	return strconv.FormatInt(int64(v), 10)
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
