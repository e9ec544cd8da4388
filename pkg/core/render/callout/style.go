package callout

import "github.com/matzehuels/calloutgen/pkg/scene"

// Style holds the colours and typography of generated callouts.
type Style struct {
	CalloutFill   scene.Color
	CalloutStroke scene.Color
	MarkerFill    scene.Color
	MarkerText    scene.Color
	HeaderText    scene.Color
	BodyText      scene.Color
	PropertyText  scene.Color
	Connector     scene.Color

	MarkerFontSize   float64
	HeaderFontSize   float64
	BodyFontSize     float64
	PropertyFontSize float64

	CornerRadius float64
	PaddingX     float64
	PaddingY     float64
	ItemSpacing  float64
	Dash         []float64
}

// DefaultStyle returns the warm annotation palette: gold-bordered cards, red
// markers and grey dashed connectors.
func DefaultStyle() Style {
	return Style{
		CalloutFill:   scene.Color{R: 1, G: 0.98, B: 0.94},
		CalloutStroke: scene.Color{R: 0.93, G: 0.79, B: 0.55},
		MarkerFill:    scene.Color{R: 0.91, G: 0.30, B: 0.24},
		MarkerText:    scene.Color{R: 1, G: 1, B: 1},
		HeaderText:    scene.Color{R: 0.47, G: 0.33, B: 0.15},
		BodyText:      scene.Color{R: 0.2, G: 0.2, B: 0.2},
		PropertyText:  scene.Color{R: 0.45, G: 0.45, B: 0.45},
		Connector:     scene.Color{R: 0.75, G: 0.75, B: 0.75},

		MarkerFontSize:   12,
		HeaderFontSize:   12,
		BodyFontSize:     11,
		PropertyFontSize: 10,

		CornerRadius: 6,
		PaddingX:     12,
		PaddingY:     10,
		ItemSpacing:  6,
		Dash:         []float64{4, 4},
	}
}
