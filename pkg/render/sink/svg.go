package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/calloutgen/pkg/core/geom"
	"github.com/matzehuels/calloutgen/pkg/fonts"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// RenderSVG draws the page as an SVG document. Node IDs become element IDs.
func RenderSVG(page *scene.Page, opts ...Option) []byte {
	o := newOptions(opts)
	view := Viewport(page, o.Margin)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	w, h := px(view.Width), px(view.Height)
	canvas.Startview(w, h, px(view.X), px(view.Y), w, h)
	if page.Name != "" {
		canvas.Title(page.Name)
	}
	if o.EmbedFonts {
		canvas.Style("text/css", fontFaces())
	}
	canvas.Rect(px(view.X), px(view.Y), w, h, "fill:"+background.Hex())

	paint(&svgPainter{canvas: canvas}, page, o.Metrics)
	canvas.End()
	return buf.Bytes()
}

func fontFaces() string {
	var b strings.Builder
	for _, s := range []fonts.Style{fonts.Regular, fonts.Medium} {
		fmt.Fprintf(&b, "@font-face{font-family:'%s';font-weight:%d;src:url(data:font/ttf;base64,%s) format('truetype');}",
			fonts.FontFamily, s.Weight(), fonts.Base64(s))
	}
	return b.String()
}

type svgPainter struct {
	canvas *svg.SVG
}

func (p *svgPainter) begin(n *scene.Node) {
	p.canvas.Group(`id="`+html.EscapeString(n.ID)+`"`, `data-name="`+html.EscapeString(n.Name)+`"`)
}

func (p *svgPainter) end() { p.canvas.Gend() }

func (p *svgPainter) rect(r geom.Rect, radius float64, f fill) {
	if radius > 0 {
		rr := px(radius)
		p.canvas.Roundrect(px(r.X), px(r.Y), px(r.Width), px(r.Height), rr, rr, svgStyle(f))
		return
	}
	p.canvas.Rect(px(r.X), px(r.Y), px(r.Width), px(r.Height), svgStyle(f))
}

func (p *svgPainter) ellipse(r geom.Rect, f fill) {
	p.canvas.Ellipse(px(r.CenterX()), px(r.CenterY()), px(r.Width/2), px(r.Height/2), svgStyle(f))
}

func (p *svgPainter) path(data string, f fill) {
	p.canvas.Path(data, svgStyle(f))
}

func (p *svgPainter) text(x, baseline float64, line string, t textStyle) {
	style := fmt.Sprintf("font-family:%s;font-size:%gpx;font-weight:%d;fill:%s;white-space:pre",
		fonts.FallbackFontFamily, t.size, t.style.Weight(), t.color.Hex())
	p.canvas.Text(px(x), px(baseline), line, style)
}

// svgStyle renders a fill as an inline CSS declaration list.
func svgStyle(f fill) string {
	parts := []string{"fill:none", "stroke:none"}
	if f.fill != nil {
		parts[0] = "fill:" + f.fill.Hex()
	}
	if f.stroke != nil {
		parts[1] = "stroke:" + f.stroke.Hex()
		parts = append(parts, fmt.Sprintf("stroke-width:%g", f.weight))
		if len(f.dash) > 0 {
			dash := make([]string, len(f.dash))
			for i, d := range f.dash {
				dash[i] = fmt.Sprintf("%g", d)
			}
			parts = append(parts, "stroke-dasharray:"+strings.Join(dash, ","))
		}
		if f.round {
			parts = append(parts, "stroke-linecap:round")
		}
	}
	return strings.Join(parts, ";")
}

// px rounds to the integer grid the SVG writer works on.
func px(v float64) int {
	return int(math.Round(v))
}
