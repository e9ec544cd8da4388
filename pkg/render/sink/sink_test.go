package sink

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/calloutgen/pkg/core/annotate"
	"github.com/matzehuels/calloutgen/pkg/core/callouts"
	"github.com/matzehuels/calloutgen/pkg/core/geom"
	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/render"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// annotatedPage has one frame with a single annotated rectangle and its
// generated callout.
func annotatedPage(t *testing.T) *scene.Page {
	t.Helper()
	logo := &scene.Node{ID: "logo", Name: "Logo & mark", Type: scene.TypeRectangle,
		Annotations: []annotate.Annotation{{Label: "Logo"}}}
	logo.SetBounds(geom.NewRect(50, 50, 20, 20))
	frame := &scene.Node{ID: "frame", Name: "Home", Type: scene.TypeFrame}
	frame.SetBounds(geom.NewRect(0, 0, 400, 300))
	frame.AppendChild(logo)

	page := &scene.Page{Name: "Flows", Children: []*scene.Node{frame}}
	if _, err := callouts.New().Generate(context.Background(), page, page.Children); err != nil {
		t.Fatal(err)
	}
	return page
}

func TestViewport(t *testing.T) {
	page := annotatedPage(t)
	got := Viewport(page, 40)
	if got.X != -194 || got.Y != -40 || got.Right() != 440 {
		t.Errorf("Viewport() = %v", got)
	}
	if empty := Viewport(&scene.Page{}, 0); empty.IsEmpty() {
		t.Error("empty page has empty viewport")
	}
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(annotatedPage(t)))

	for _, want := range []string{
		`viewBox="-194 -40 634 `,
		`<title>Flows</title>`,
		`id="frame"`,
		`data-name="Logo &amp; mark"`,
		`>Logo</text>`,
		`>#1</text>`,
		`stroke-dasharray:4,4`,
		`stroke-linecap:round`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(out, "@font-face") {
		t.Error("fonts embedded without WithEmbeddedFonts")
	}
}

func TestRenderSVGEmbeddedFonts(t *testing.T) {
	out := string(RenderSVG(annotatedPage(t), WithEmbeddedFonts()))
	if strings.Count(out, "@font-face") != 2 {
		t.Error("expected two embedded faces")
	}
}

func TestRenderSVGWrapsFixedWidthText(t *testing.T) {
	render := func(mode scene.AutoResize) string {
		n := &scene.Node{ID: "note", Type: scene.TypeText, FontSize: 12, AutoResize: mode,
			Characters: "tap  here to confirm the payment before leaving"}
		n.SetBounds(geom.NewRect(0, 0, 80, 60))
		return string(RenderSVG(&scene.Page{Name: "P", Children: []*scene.Node{n}}))
	}

	wrapped, single := render(scene.AutoResizeHeight), render(scene.AutoResizeNone)
	if got := strings.Count(single, "</text>"); got != 1 {
		t.Errorf("unwrapped text drew %d lines, want 1", got)
	}
	if got := strings.Count(wrapped, "</text>"); got < 3 {
		t.Errorf("wrapped text drew %d lines, want at least 3", got)
	}
	if !strings.Contains(wrapped, ">tap  here") {
		t.Error("wrapped text lost its inner spacing")
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(annotatedPage(t), WithScale(2))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 634*2 {
		t.Errorf("width = %d, want %d", b.Dx(), 634*2)
	}

	// Inside the marker circle, left of its number.
	r, g, _, _ := img.At((42+194)*2, (50+40)*2).RGBA()
	if r>>8 < 200 || g>>8 > 100 {
		t.Errorf("marker pixel = (%d, %d), want red", r>>8, g>>8)
	}
	r, g, _, _ = img.At(1, 1).RGBA()
	if r>>8 != 255 || g>>8 != 255 {
		t.Errorf("background pixel = (%d, %d), want white", r>>8, g>>8)
	}
}

func TestRenderPNGTooLarge(t *testing.T) {
	n := &scene.Node{ID: "far", Type: scene.TypeFrame}
	n.SetBounds(geom.NewRect(0, 0, 1e6, 1e6))
	_, err := RenderPNG(&scene.Page{Children: []*scene.Node{n}})
	if !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Errorf("RenderPNG() error = %v", err)
	}
}

func TestRender(t *testing.T) {
	page := annotatedPage(t)
	ctx := context.Background()

	if _, err := Render(ctx, page, "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v", err)
	}
	svg, err := Render(ctx, page, "svg")
	if err != nil || !bytes.HasPrefix(bytes.TrimSpace(svg), []byte("<?xml")) {
		t.Errorf("Render(svg) = %.40q, %v", svg, err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := Render(cancelled, page, "png"); err == nil {
		t.Error("Render(cancelled) error = nil")
	}
}

func TestRenderPDF(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	data, err := RenderPDF(context.Background(), annotatedPage(t))
	if err != nil {
		t.Fatalf("RenderPDF() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output is not a PDF: %.10q", data)
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		name    string
		d       string
		want    []byte
		wantErr bool
	}{
		{"connector", "M 38 50 C 19.4 50 -5.4 66 -24 66", []byte{'M', 'C'}, false},
		{"implicit lineto", "M0,0 10,0 10,10 Z", []byte{'M', 'L', 'L', 'Z'}, false},
		{"relative", "m 0 0 l 1 1", nil, true},
		{"no command", "0 0", nil, true},
		{"truncated", "M 0 0 C 1 1 2 2", nil, true},
		{"bad number", "M x 0", nil, true},
		{"empty", "", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs, err := parsePath(tt.d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePath(%q) error = %v, wantErr %v", tt.d, err, tt.wantErr)
			}
			var ops []byte
			for _, s := range segs {
				ops = append(ops, s.op)
			}
			if diff := cmp.Diff(tt.want, ops); diff != "" {
				t.Errorf("ops mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
