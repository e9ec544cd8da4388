package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/calloutgen/pkg/core/annotate"
)

// SortElements returns elems in numbering order without modifying the input.
//
// Elements are ordered top to bottom, and elements whose y lies within
// tolerance of a row's first element are numbered left to right within that
// row. Rows are assigned greedily in a single pass over the y-sorted input,
// measuring against the row anchor rather than pairwise, so the result is a
// total order that does not depend on how the input was arranged.
func SortElements(elems []annotate.Element, tolerance float64) []annotate.Element {
	sorted := slices.Clone(elems)
	slices.SortStableFunc(sorted, func(a, b annotate.Element) int {
		return cmp.Or(
			cmp.Compare(a.Bounds.Y, b.Bounds.Y),
			cmp.Compare(a.Bounds.X, b.Bounds.X),
		)
	})

	out := sorted[:0:0]
	for _, row := range bucketRows(sorted, tolerance) {
		slices.SortStableFunc(row, func(a, b annotate.Element) int {
			return cmp.Compare(a.Bounds.X, b.Bounds.X)
		})
		out = append(out, row...)
	}
	return out
}

// bucketRows splits y-sorted elements into rows. A row starts at its anchor
// and takes every following element less than tolerance below it.
func bucketRows(sorted []annotate.Element, tolerance float64) [][]annotate.Element {
	var rows [][]annotate.Element
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || sorted[i].Bounds.Y-sorted[start].Bounds.Y >= tolerance {
			rows = append(rows, sorted[start:i])
			start = i
		}
	}
	return rows
}
