package layout

import (
	"github.com/matzehuels/calloutgen/pkg/core/annotate"
	"github.com/matzehuels/calloutgen/pkg/core/geom"
)

// Kind distinguishes the three items generated per annotation.
type Kind int

const (
	KindMarker Kind = iota
	KindCallout
	KindConnector
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindMarker:
		return "marker"
	case KindCallout:
		return "callout"
	case KindConnector:
		return "connector"
	default:
		return "unknown"
	}
}

// Item is one positioned element of a frame's callout layout.
//
// Markers carry their top-left Position and square Size. Callouts carry their
// top-left Position and Width; their height depends on the rendered text and
// is left to the drawing layer. Connectors carry Path.
type Item struct {
	Kind     Kind
	Index    int // 1-based number shared by the marker, callout and connector
	Side     Side
	Position geom.Point
	Width    float64
	Height   float64
	Path     Path
	Element  annotate.Element
}

// LayoutFrame numbers the frame's elements and lays out a marker, a callout
// and a connector for each, in that order. Numbering starts at 1 for every
// frame.
func (c Config) LayoutFrame(elems []annotate.Element, frame geom.Rect) []Item {
	sorted := SortElements(elems, c.RowTolerance)
	items := make([]Item, 0, 3*len(sorted))

	for i, e := range sorted {
		index := i + 1
		side := ChooseSide(e.Bounds, frame)
		marker := c.MarkerPosition(e.Bounds, side)
		callout := c.CalloutPosition(e.Bounds, frame, side)

		items = append(items,
			Item{
				Kind: KindMarker, Index: index, Side: side, Element: e,
				Position: marker, Width: c.MarkerSize, Height: c.MarkerSize,
			},
			Item{
				Kind: KindCallout, Index: index, Side: side, Element: e,
				Position: callout, Width: c.CalloutWidth,
			},
			Item{
				Kind: KindConnector, Index: index, Side: side, Element: e,
				Path: c.ConnectorPath(marker, callout, c.CalloutWidth, side),
			},
		)
	}
	return items
}
