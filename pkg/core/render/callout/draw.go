package callout

import (
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/calloutgen/pkg/core/geom"
	"github.com/matzehuels/calloutgen/pkg/core/layout"
	"github.com/matzehuels/calloutgen/pkg/fonts"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// FontFamily is recorded on every generated text node.
const FontFamily = fonts.FontFamily

// Measurer reports text metrics in points.
type Measurer interface {
	Width(text string, s fonts.Style, size float64) float64
	LineHeight(s fonts.Style, size float64) float64
}

// Drawer turns layout items into styled scene nodes.
type Drawer struct {
	Style Style
	Text  TextMode
	Fonts Measurer

	// Load prepares the fonts before any text is measured. It defaults to
	// fonts.Load.
	Load func(context.Context) error
}

// NewDrawer returns a drawer with the default style, raw text and the
// embedded font metrics.
func NewDrawer() *Drawer {
	return &Drawer{
		Style: DefaultStyle(),
		Text:  TextRaw,
		Fonts: fonts.NewMetrics(),
		Load:  fonts.Load,
	}
}

// LoadFonts blocks until the fonts used for measurement are ready.
func (d *Drawer) LoadFonts(ctx context.Context) error {
	if d.Load == nil {
		return fonts.Load(ctx)
	}
	return d.Load(ctx)
}

// Draw builds the node for one layout item.
func (d *Drawer) Draw(it layout.Item) *scene.Node {
	switch it.Kind {
	case layout.KindMarker:
		return d.Marker(it)
	case layout.KindCallout:
		return d.Callout(it)
	default:
		return d.Connector(it)
	}
}

// Marker draws the numbered circle badge.
func (d *Drawer) Marker(it layout.Item) *scene.Node {
	s := d.Style
	n := scene.NewNode(scene.TypeFrame, fmt.Sprintf("Marker %d", it.Index))
	n.SetBounds(geom.NewRect(it.Position.X, it.Position.Y, it.Width, it.Height))
	n.CornerRadius = it.Width / 2
	n.Fills = scene.Solid(s.MarkerFill)
	n.LayoutMode = "HORIZONTAL"

	label := d.text(fmt.Sprint(it.Index), fonts.Medium, s.MarkerFontSize, s.MarkerText)
	b := *label.AbsoluteBoundingBox
	label.SetBounds(geom.NewRect(
		it.Position.X+(it.Width-b.Width)/2,
		it.Position.Y+(it.Height-b.Height)/2,
		b.Width, b.Height,
	))
	n.AppendChild(label)
	return n
}

// Callout draws the card: a "#n" header, the wrapped annotation body and one
// line per pinned property below a separator. Children are stacked
// vertically and the card height follows from their measured heights.
func (d *Drawer) Callout(it layout.Item) *scene.Node {
	s := d.Style
	n := scene.NewNode(scene.TypeFrame, fmt.Sprintf("Callout %d", it.Index))
	n.CornerRadius = s.CornerRadius
	n.Fills = scene.Solid(s.CalloutFill)
	n.Strokes = scene.Solid(s.CalloutStroke)
	n.StrokeWeight = 1
	n.LayoutMode = "VERTICAL"
	n.Padding = &scene.Padding{Top: s.PaddingY, Right: s.PaddingX, Bottom: s.PaddingY, Left: s.PaddingX}
	n.ItemSpacing = s.ItemSpacing

	textWidth := max(it.Width-2*s.PaddingX, 1)
	children := []*scene.Node{d.text(fmt.Sprintf("#%d", it.Index), fonts.Medium, s.HeaderFontSize, s.HeaderText)}

	if content := d.Text.apply(it.Element.Annotation.Content()); content != "" {
		children = append(children, d.body(content, textWidth))
	}

	if props := it.Element.Annotation.Properties; len(props) > 0 {
		sep := scene.NewNode(scene.TypeFrame, "Separator")
		sep.Fills = scene.Solid(s.CalloutStroke)
		sep.SetBounds(geom.NewRect(0, 0, textWidth, 1))
		children = append(children, sep)
		for _, p := range props {
			children = append(children, d.text("• "+p.Type, fonts.Regular, s.PropertyFontSize, s.PropertyText))
		}
	}

	x := it.Position.X + s.PaddingX
	y := it.Position.Y + s.PaddingY
	for i, c := range children {
		if i > 0 {
			y += s.ItemSpacing
		}
		b := *c.AbsoluteBoundingBox
		c.SetBounds(geom.NewRect(x, y, b.Width, b.Height))
		y += b.Height
		n.AppendChild(c)
	}
	n.SetBounds(geom.NewRect(it.Position.X, it.Position.Y, it.Width, y+s.PaddingY-it.Position.Y))
	return n
}

// Connector draws the dashed bezier from marker to callout.
func (d *Drawer) Connector(it layout.Item) *scene.Node {
	s := d.Style
	n := scene.NewNode(scene.TypeVector, "Connector")
	n.VectorPaths = []scene.VectorPath{{WindingRule: "NONZERO", Data: it.Path.D()}}
	n.Strokes = scene.Solid(s.Connector)
	n.StrokeWeight = 1
	n.DashPattern = append([]float64(nil), s.Dash...)
	n.StrokeCap = "ROUND"
	n.SetBounds(pathBounds(it.Path))
	return n
}

func (d *Drawer) text(chars string, style fonts.Style, size float64, color scene.Color) *scene.Node {
	n := scene.NewNode(scene.TypeText, chars)
	n.Characters = chars
	n.FontSize = size
	n.FontName = &scene.FontName{Family: FontFamily, Style: style.String()}
	n.Fills = scene.Solid(color)
	n.SetBounds(geom.NewRect(0, 0, d.Fonts.Width(chars, style, size), d.Fonts.LineHeight(style, size)))
	return n
}

func (d *Drawer) body(content string, width float64) *scene.Node {
	s := d.Style
	measure := func(line string) float64 { return d.Fonts.Width(line, fonts.Regular, s.BodyFontSize) }
	lines := fonts.Wrap(content, width, measure)

	n := d.text(content, fonts.Regular, s.BodyFontSize, s.BodyText)
	n.Name = "Body"
	n.AutoResize = scene.AutoResizeHeight
	lh := d.Fonts.LineHeight(fonts.Regular, s.BodyFontSize)
	n.SetBounds(geom.NewRect(0, 0, width, lh*float64(len(lines))))
	return n
}

func pathBounds(p layout.Path) geom.Rect {
	pts := []geom.Point{p.Start, p.C1, p.C2, p.End}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range pts {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	return geom.NewRect(minX, minY, maxX-minX, maxY-minY)
}
