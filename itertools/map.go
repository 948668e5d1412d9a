// SPDX-License-Identifier: GPL-2.0-or-later
// SPDX-FileCopyrightText: SUSE LLC

// Package itertools has helpers for slices that are only read, never
// consumed.  See package vec for transformations that consume their input.
package itertools

// Map returns f applied to each element of x.  It returns nil if x is nil.
func Map[S ~[]E, E, R any](x S, f func(E) R) []R {
	if x == nil {
		return nil
	}
	results := make([]R, 0, len(x))
	for _, e := range x {
		results = append(results, f(e))
	}
	return results
}
