package layout

import (
	"slices"
	"testing"

	"github.com/matzehuels/calloutgen/pkg/core/annotate"
	"github.com/matzehuels/calloutgen/pkg/core/geom"
)

func elem(id string, x, y float64) annotate.Element {
	return annotate.Element{
		Bounds:     geom.NewRect(x, y, 10, 10),
		Annotation: annotate.Annotation{Label: id},
		Source:     annotate.NodeRef{ID: id},
	}
}

func ids(elems []annotate.Element) []string {
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.Source.ID
	}
	return out
}

func TestSortElements(t *testing.T) {
	tests := []struct {
		name  string
		input []annotate.Element
		want  []string
	}{
		{
			name:  "same row ordered by x",
			input: []annotate.Element{elem("a", 80, 100), elem("b", 30, 120)},
			want:  []string{"b", "a"},
		},
		{
			name:  "separate rows ordered by y",
			input: []annotate.Element{elem("low", 0, 300), elem("high", 500, 10)},
			want:  []string{"high", "low"},
		},
		{
			name:  "difference equal to tolerance starts a new row",
			input: []annotate.Element{elem("a", 100, 0), elem("b", 0, 50)},
			want:  []string{"a", "b"},
		},
		{
			name: "grid",
			input: []annotate.Element{
				elem("r2c2", 200, 210), elem("r1c1", 10, 5), elem("r2c1", 20, 200),
				elem("r1c2", 150, 0), elem("r1c3", 300, 30),
			},
			want: []string{"r1c1", "r1c2", "r1c3", "r2c1", "r2c2"},
		},
		{
			name:  "empty",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(SortElements(tt.input, DefaultRowTolerance))
			if !slices.Equal(got, tt.want) {
				t.Errorf("SortElements() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortElementsDoesNotMutateInput(t *testing.T) {
	input := []annotate.Element{elem("a", 80, 100), elem("b", 30, 120)}
	_ = SortElements(input, DefaultRowTolerance)
	if got := ids(input); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("input reordered to %v", got)
	}
}

// A chain where a~b and b~c but not a~c must sort the same way no matter how
// the input is arranged.
func TestSortElementsTransitiveCluster(t *testing.T) {
	a, b, c := elem("a", 100, 0), elem("b", 50, 40), elem("c", 0, 80)
	want := []string{"b", "a", "c"}

	perms := [][]annotate.Element{
		{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
	}
	for _, p := range perms {
		if got := ids(SortElements(p, DefaultRowTolerance)); !slices.Equal(got, want) {
			t.Errorf("SortElements(%v) = %v, want %v", ids(p), got, want)
		}
	}
}

func TestSortElementsSamePosition(t *testing.T) {
	// Annotations on one node share bounds and keep their authored order.
	input := []annotate.Element{elem("first", 10, 10), elem("second", 10, 10)}
	if got := ids(SortElements(input, DefaultRowTolerance)); !slices.Equal(got, []string{"first", "second"}) {
		t.Errorf("SortElements() = %v", got)
	}
}
