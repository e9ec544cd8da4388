// Package fonts provides the Go font family for measuring and embedding
// callout text.
//
// The TTF data ships with golang.org/x/image, so text metrics are identical
// on every machine and rendered SVGs can embed the exact faces used for
// layout.
package fonts

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Style is a face within the family.
type Style int

const (
	Regular Style = iota
	Medium
)

// String returns the style name used in FontName records.
func (s Style) String() string {
	if s == Medium {
		return "Medium"
	}
	return "Regular"
}

// Weight returns the CSS font-weight.
func (s Style) Weight() int {
	if s == Medium {
		return 500
	}
	return 400
}

// ParseStyle maps a style name back to a Style. Unknown names are Regular.
func ParseStyle(name string) Style {
	if name == "Medium" {
		return Medium
	}
	return Regular
}

// FontFamily is the CSS font-family name for embedded faces.
const FontFamily = "Go"

// FallbackFontFamily lists fonts to try when the embedded faces are absent.
const FallbackFontFamily = `'Go', 'Inter', 'Helvetica Neue', Arial, sans-serif`

// TTF returns the raw font data for s.
func TTF(s Style) []byte {
	if s == Medium {
		return gomedium.TTF
	}
	return goregular.TTF
}

// Cache for base64-encoded fonts (computed once on first access).
var (
	b64     [2]string
	b64Once [2]sync.Once
)

// Base64 returns the TTF data for s as a base64 string.
func Base64(s Style) string {
	i := styleIndex(s)
	b64Once[i].Do(func() {
		b64[i] = base64.StdEncoding.EncodeToString(TTF(s))
	})
	return b64[i]
}

var (
	parsed    [2]*opentype.Font
	parseOnce sync.Once
	parseErr  error
)

// Load parses the embedded faces. It is safe to call repeatedly; only the
// first call does any work.
func Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	parseOnce.Do(func() {
		for _, s := range []Style{Regular, Medium} {
			f, err := opentype.Parse(TTF(s))
			if err != nil {
				parseErr = fmt.Errorf("parse %s: %w", s, err)
				return
			}
			parsed[styleIndex(s)] = f
		}
	})
	return parseErr
}

// Metrics measures text with the embedded faces. Faces are created lazily per
// style and size. A Metrics is safe for concurrent use.
type Metrics struct {
	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	style Style
	size  float64
}

// NewMetrics returns an empty face cache.
func NewMetrics() *Metrics {
	return &Metrics{faces: make(map[faceKey]font.Face)}
}

// Width returns the advance width of text in points.
func (m *Metrics) Width(text string, s Style, size float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	face, err := m.face(s, size)
	if err != nil {
		return approxWidth(text, size)
	}
	return toFloat(font.MeasureString(face, text))
}

// LineHeight returns the recommended line height in points.
func (m *Metrics) LineHeight(s Style, size float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	face, err := m.face(s, size)
	if err != nil {
		return size * 1.2
	}
	return toFloat(face.Metrics().Height)
}

// Ascent returns the distance from the top of a line box to the baseline.
func (m *Metrics) Ascent(s Style, size float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	face, err := m.face(s, size)
	if err != nil {
		return size * 0.9
	}
	met := face.Metrics()
	// Centre the glyph box within the line height.
	return toFloat(met.Ascent) + toFloat(met.Height-met.Ascent-met.Descent)/2
}

func (m *Metrics) face(s Style, size float64) (font.Face, error) {
	key := faceKey{s, size}
	if f, ok := m.faces[key]; ok {
		return f, nil
	}
	if err := Load(context.Background()); err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(parsed[styleIndex(s)], &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	m.faces[key] = f
	return f, nil
}

func styleIndex(s Style) int {
	if s == Medium {
		return 1
	}
	return 0
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// approxWidth is used only if the faces cannot be parsed.
func approxWidth(text string, size float64) float64 {
	return float64(len([]rune(text))) * size * 0.55
}
