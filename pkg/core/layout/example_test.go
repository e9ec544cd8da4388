package layout_test

import (
	"fmt"

	"github.com/matzehuels/calloutgen/pkg/core/annotate"
	"github.com/matzehuels/calloutgen/pkg/core/geom"
	"github.com/matzehuels/calloutgen/pkg/core/layout"
)

func ExampleConfig_LayoutFrame() {
	cfg := layout.DefaultConfig()
	frame := geom.NewRect(0, 0, 400, 300)
	elems := []annotate.Element{
		{Bounds: geom.NewRect(300, 100, 40, 20), Annotation: annotate.Annotation{Label: "Save"}},
		{Bounds: geom.NewRect(50, 50, 20, 20), Annotation: annotate.Annotation{Label: "Logo"}},
	}

	for _, it := range cfg.LayoutFrame(elems, frame) {
		if it.Kind == layout.KindCallout {
			fmt.Printf("#%d %s %s at (%g, %g)\n", it.Index, it.Element.Annotation.Content(), it.Side, it.Position.X, it.Position.Y)
		}
	}
	// Output:
	// #1 Logo left at (-154, 50)
	// #2 Save right at (424, 100)
}

func ExampleSortElements() {
	elems := []annotate.Element{
		{Bounds: geom.NewRect(80, 100, 10, 10), Source: annotate.NodeRef{ID: "a"}},
		{Bounds: geom.NewRect(30, 120, 10, 10), Source: annotate.NodeRef{ID: "b"}},
	}
	for i, e := range layout.SortElements(elems, layout.DefaultRowTolerance) {
		fmt.Println(i+1, e.Source.ID)
	}
	// Output:
	// 1 b
	// 2 a
}
