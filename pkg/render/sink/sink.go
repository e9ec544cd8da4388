package sink

import (
	"context"
	"strings"

	"github.com/matzehuels/calloutgen/pkg/core/geom"
	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/fonts"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// DefaultMargin is the blank space around the page content.
const DefaultMargin = 40

// Imported nodes carry no styling; they are drawn as outlines in these colours.
var (
	outlineColor = scene.Color{R: 0.8, G: 0.8, B: 0.82}
	importedText = scene.Color{R: 0.4, G: 0.4, B: 0.4}
	background   = scene.Color{R: 1, G: 1, B: 1}
)

// Options configures every sink.
type Options struct {
	Margin     float64
	Scale      float64
	EmbedFonts bool
	Metrics    *fonts.Metrics
}

// Option configures Options.
type Option func(*Options)

// WithMargin sets the blank space around the content.
func WithMargin(m float64) Option {
	return func(o *Options) { o.Margin = m }
}

// WithScale sets the pixel density of raster output.
func WithScale(s float64) Option {
	return func(o *Options) {
		if s > 0 {
			o.Scale = s
		}
	}
}

// WithEmbeddedFonts embeds the Go font faces in SVG output so it renders
// identically without the fonts installed.
func WithEmbeddedFonts() Option {
	return func(o *Options) { o.EmbedFonts = true }
}

// WithMetrics shares a font metrics cache between renders.
func WithMetrics(m *fonts.Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

func newOptions(opts []Option) Options {
	o := Options{Margin: DefaultMargin, Scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Metrics == nil {
		o.Metrics = fonts.NewMetrics()
	}
	return o
}

// Viewport returns the drawn area of the page: the union of all top-level
// bounds grown by margin.
func Viewport(p *scene.Page, margin float64) geom.Rect {
	b := p.Bounds()
	if b.IsEmpty() {
		b = geom.NewRect(0, 0, 1, 1)
	}
	return b.Expand(margin)
}

// Render draws page in format, one of svg, png or pdf.
func Render(ctx context.Context, page *scene.Page, format string, opts ...Option) ([]byte, error) {
	if err := errors.ValidateFormat(format); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch format {
	case "png":
		return RenderPNG(page, opts...)
	case "pdf":
		return RenderPDF(ctx, page, opts...)
	default:
		return RenderSVG(page, opts...), nil
	}
}

// painter is the drawing surface shared by the vector and raster sinks.
// Coordinates are absolute page coordinates.
type painter interface {
	begin(n *scene.Node)
	end()
	rect(r geom.Rect, radius float64, f fill)
	ellipse(r geom.Rect, f fill)
	path(data string, f fill)
	text(x, baseline float64, line string, t textStyle)
}

// fill is how a shape is painted. Nil colours are not painted.
type fill struct {
	fill   *scene.Color
	stroke *scene.Color
	weight float64
	dash   []float64
	round  bool
}

type textStyle struct {
	style fonts.Style
	size  float64
	color scene.Color
}

// paint walks the page in paint order: earlier siblings first, parents under
// their children.
func paint(p painter, page *scene.Page, m *fonts.Metrics) {
	for _, n := range page.Children {
		paintNode(p, n, m)
	}
}

func paintNode(p painter, n *scene.Node, m *fonts.Metrics) {
	b, ok := n.Bounds()
	if !ok || !b.IsFinite() {
		return
	}
	p.begin(n)
	defer p.end()

	f := fillOf(n)
	switch n.Type {
	case scene.TypeText:
		paintText(p, n, b, m)
	case scene.TypeEllipse:
		p.ellipse(b, f)
	case scene.TypeVector:
		for _, vp := range n.VectorPaths {
			p.path(vp.Data, f)
		}
		if len(n.VectorPaths) == 0 {
			p.rect(b, 0, f)
		}
	case scene.TypeGroup:
		// Groups only collect their children.
	default:
		p.rect(b, n.CornerRadius, f)
	}
	for _, c := range n.Children {
		paintNode(p, c, m)
	}
}

// fillOf maps node paints to a fill. Nodes without paints are drawn as thin
// outlines.
func fillOf(n *scene.Node) fill {
	if len(n.Fills) == 0 && len(n.Strokes) == 0 {
		if n.Type == scene.TypeText {
			return fill{}
		}
		c := outlineColor
		return fill{stroke: &c, weight: 1}
	}
	f := fill{weight: n.StrokeWeight, dash: n.DashPattern, round: n.StrokeCap == "ROUND"}
	if len(n.Fills) > 0 {
		c := n.Fills[0].Color
		f.fill = &c
	}
	if len(n.Strokes) > 0 {
		c := n.Strokes[0].Color
		f.stroke = &c
		if f.weight == 0 {
			f.weight = 1
		}
	}
	return f
}

func paintText(p painter, n *scene.Node, b geom.Rect, m *fonts.Metrics) {
	if n.Characters == "" {
		return
	}
	t := textStyle{size: n.FontSize, color: importedText}
	if t.size <= 0 {
		t.size = 12
	}
	if n.FontName != nil {
		t.style = fonts.ParseStyle(n.FontName.Style)
	}
	if len(n.Fills) > 0 {
		t.color = n.Fills[0].Color
	}
	lh := m.LineHeight(t.style, t.size)
	ascent := m.Ascent(t.style, t.size)
	lines := strings.Split(n.Characters, "\n")
	if n.AutoResize == scene.AutoResizeHeight {
		lines = m.Wrap(n.Characters, t.style, t.size, b.Width)
	}
	for i, line := range lines {
		p.text(b.X, b.Y+float64(i)*lh+ascent, line, t)
	}
}
