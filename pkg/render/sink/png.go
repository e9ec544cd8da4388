package sink

import (
	"bytes"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/matzehuels/calloutgen/pkg/core/geom"
	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/fonts"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// MaxPixels caps the raster size so a stray far-away node cannot exhaust
// memory.
const MaxPixels = 64 << 20

// RenderPNG rasterizes the page. Options.Scale sets pixels per point.
func RenderPNG(page *scene.Page, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	view := Viewport(page, o.Margin)

	w, h := int(view.Width*o.Scale+0.5), int(view.Height*o.Scale+0.5)
	if w <= 0 || h <= 0 || w*h > MaxPixels {
		return nil, errors.New(errors.ErrCodeRenderFailed, "page too large to rasterize: %dx%d px", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(rgb(background))
	dc.Clear()
	dc.Scale(o.Scale, o.Scale)
	dc.Translate(-view.X, -view.Y)

	p := &pngPainter{dc: dc, scale: o.Scale, faces: make(map[faceKey]font.Face)}
	paint(p, page, o.Metrics)
	if p.err != nil {
		return nil, p.err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

type faceKey struct {
	style fonts.Style
	size  float64
}

type pngPainter struct {
	dc    *gg.Context
	scale float64
	faces map[faceKey]font.Face
	err   error
}

func (p *pngPainter) begin(*scene.Node) { p.dc.Push() }
func (p *pngPainter) end()              { p.dc.Pop() }

func (p *pngPainter) rect(r geom.Rect, radius float64, f fill) {
	if radius > 0 {
		p.dc.DrawRoundedRectangle(r.X, r.Y, r.Width, r.Height, radius)
	} else {
		p.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	}
	p.apply(f)
}

func (p *pngPainter) ellipse(r geom.Rect, f fill) {
	p.dc.DrawEllipse(r.CenterX(), r.CenterY(), r.Width/2, r.Height/2)
	p.apply(f)
}

func (p *pngPainter) path(data string, f fill) {
	segs, err := parsePath(data)
	if err != nil {
		p.err = err
		return
	}
	p.dc.NewSubPath()
	for _, s := range segs {
		switch s.op {
		case 'M':
			p.dc.MoveTo(s.pts[0].X, s.pts[0].Y)
		case 'L':
			p.dc.LineTo(s.pts[0].X, s.pts[0].Y)
		case 'C':
			p.dc.CubicTo(s.pts[0].X, s.pts[0].Y, s.pts[1].X, s.pts[1].Y, s.pts[2].X, s.pts[2].Y)
		case 'Z':
			p.dc.ClosePath()
		}
	}
	p.apply(f)
}

func (p *pngPainter) text(x, baseline float64, line string, t textStyle) {
	face, err := p.face(t.style, t.size)
	if err != nil {
		p.err = err
		return
	}
	p.dc.SetFontFace(face)
	p.dc.SetColor(rgb(t.color))
	p.dc.DrawString(line, x, baseline)
}

// apply fills then strokes the current path.
func (p *pngPainter) apply(f fill) {
	if f.fill != nil {
		p.dc.SetColor(rgb(*f.fill))
		if f.stroke != nil {
			p.dc.FillPreserve()
		} else {
			p.dc.Fill()
		}
	}
	if f.stroke == nil {
		p.dc.ClearPath()
		return
	}
	p.dc.SetColor(rgb(*f.stroke))
	p.dc.SetLineWidth(f.weight)
	p.dc.SetDash(f.dash...)
	if f.round {
		p.dc.SetLineCapRound()
	} else {
		p.dc.SetLineCapButt()
	}
	p.dc.Stroke()
}

// face returns a truetype face sized for the device. Glyphs are not affected
// by the context transform, so the scale is folded into the point size.
func (p *pngPainter) face(s fonts.Style, size float64) (font.Face, error) {
	key := faceKey{s, size}
	if f, ok := p.faces[key]; ok {
		return f, nil
	}
	ttf, err := truetypeFont(s)
	if err != nil {
		return nil, err
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    size * p.scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	p.faces[key] = f
	return f, nil
}

var (
	ttfOnce  sync.Once
	ttfFonts [2]*truetype.Font
	ttfErr   error
)

func truetypeFont(s fonts.Style) (*truetype.Font, error) {
	ttfOnce.Do(func() {
		for i, st := range []fonts.Style{fonts.Regular, fonts.Medium} {
			f, err := truetype.Parse(fonts.TTF(st))
			if err != nil {
				ttfErr = errors.Wrap(errors.ErrCodeRenderFailed, err, "parse %s font", st)
				return
			}
			ttfFonts[i] = f
		}
	})
	if ttfErr != nil {
		return nil, ttfErr
	}
	if s == fonts.Medium {
		return ttfFonts[1], nil
	}
	return ttfFonts[0], nil
}

func rgb(c scene.Color) color.Color {
	r, g, b := c.RGBA()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}
