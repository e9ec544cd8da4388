package callout

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/calloutgen/pkg/core/annotate"
	"github.com/matzehuels/calloutgen/pkg/core/geom"
	"github.com/matzehuels/calloutgen/pkg/core/layout"
	"github.com/matzehuels/calloutgen/pkg/fonts"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// monoMetrics gives every rune the same advance so layouts are easy to check.
type monoMetrics struct{}

func (monoMetrics) Width(text string, _ fonts.Style, _ float64) float64 {
	return 6 * float64(utf8.RuneCountInString(text))
}

func (monoMetrics) LineHeight(_ fonts.Style, _ float64) float64 { return 14 }

func testDrawer() *Drawer {
	d := NewDrawer()
	d.Fonts = monoMetrics{}
	return d
}

func calloutItem(a annotate.Annotation) layout.Item {
	return layout.Item{
		Kind:     layout.KindCallout,
		Index:    3,
		Position: geom.Point{X: -154, Y: 50},
		Width:    130,
		Element:  annotate.Element{Annotation: a},
	}
}

func childNames(n *scene.Node) []string {
	var out []string
	for _, c := range n.Children {
		out = append(out, c.Name)
	}
	return out
}

func TestCalloutStructure(t *testing.T) {
	d := testDrawer()
	n := d.Callout(calloutItem(annotate.Annotation{
		Label:      "Tap to pay",
		Properties: []annotate.Property{{Type: "fills"}, {Type: "width"}},
	}))

	if n.Name != "Callout 3" || n.Type != scene.TypeFrame {
		t.Errorf("callout = %s %s", n.Type, n.Name)
	}
	want := []string{"#3", "Body", "Separator", "• fills", "• width"}
	if diff := cmp.Diff(want, childNames(n)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}

	// 10 + 14 + 6 + 14 + 6 + 1 + 6 + 14 + 6 + 14 + 10
	if got := n.AbsoluteBoundingBox.Height; got != 101 {
		t.Errorf("height = %v, want 101", got)
	}
	if got := *n.AbsoluteBoundingBox; got.X != -154 || got.Y != 50 || got.Width != 130 {
		t.Errorf("bounds = %v", got)
	}

	body := n.Children[1]
	if body.AbsoluteBoundingBox.X != -142 || body.AbsoluteBoundingBox.Width != 106 {
		t.Errorf("body bounds = %v", body.AbsoluteBoundingBox)
	}
	if body.FontSize != 11 || body.FontName.Style != "Regular" {
		t.Errorf("body font = %v %v", body.FontSize, body.FontName)
	}
}

func TestCalloutHeaderOnly(t *testing.T) {
	n := testDrawer().Callout(calloutItem(annotate.Annotation{}))
	if diff := cmp.Diff([]string{"#3"}, childNames(n)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if got := n.AbsoluteBoundingBox.Height; got != 34 {
		t.Errorf("height = %v, want 34", got)
	}
}

func TestCalloutMarkdownPrecedence(t *testing.T) {
	a := annotate.Annotation{Label: "A", LabelMarkdown: "**B**"}

	raw := testDrawer().Callout(calloutItem(a))
	if got := raw.Children[1].Characters; got != "**B**" {
		t.Errorf("raw body = %q, want **B**", got)
	}

	d := testDrawer()
	d.Text = TextPlain
	plain := d.Callout(calloutItem(a))
	if got := plain.Children[1].Characters; got != "B" {
		t.Errorf("plain body = %q, want B", got)
	}
}

func TestCalloutBodyWraps(t *testing.T) {
	// 106pt at 6pt per rune fits 17 runes per line.
	const label = "the quick brown fox jumps over the lazy dog"
	body := testDrawer().Callout(calloutItem(annotate.Annotation{Label: label})).Children[1]
	if body.Characters != label {
		t.Errorf("body characters = %q, want %q", body.Characters, label)
	}
	if body.AutoResize != scene.AutoResizeHeight {
		t.Errorf("body resize = %q, want %q", body.AutoResize, scene.AutoResizeHeight)
	}
	// the quick brown / fox jumps over / the lazy dog
	if got, want := body.AbsoluteBoundingBox.Height, 14*3.0; got != want {
		t.Errorf("body height = %v, want %v", got, want)
	}
}

func TestCalloutBodyKeepsSpacing(t *testing.T) {
	tests := []struct {
		name string
		a    annotate.Annotation
		want string
	}{
		{"indented markdown", annotate.Annotation{Label: "x", LabelMarkdown: "Steps:\n  - tap  here"}, "Steps:\n  - tap  here"},
		{"double spaces", annotate.Annotation{Label: "tap  to   pay"}, "tap  to   pay"},
		{"blank lines", annotate.Annotation{Label: "one\n\n  two"}, "one\n\n  two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := testDrawer().Callout(calloutItem(tt.a)).Children[1]
			if body.Characters != tt.want {
				t.Errorf("body characters = %q, want %q", body.Characters, tt.want)
			}
		})
	}
}

func TestMarker(t *testing.T) {
	n := testDrawer().Marker(layout.Item{Kind: layout.KindMarker, Index: 12, Position: geom.Point{X: 38, Y: 38}, Width: 24, Height: 24})
	if n.Name != "Marker 12" || n.CornerRadius != 12 {
		t.Errorf("marker = %s radius %v", n.Name, n.CornerRadius)
	}
	if len(n.Children) != 1 {
		t.Fatalf("marker children = %d", len(n.Children))
	}
	label := n.Children[0]
	// "12" is 12pt wide, centred in 24.
	if want := geom.NewRect(44, 43, 12, 14); *label.AbsoluteBoundingBox != want {
		t.Errorf("label bounds = %v, want %v", label.AbsoluteBoundingBox, want)
	}
}

func TestConnector(t *testing.T) {
	cfg := layout.DefaultConfig()
	path := cfg.ConnectorPath(geom.Point{X: 38, Y: 38}, geom.Point{X: -154, Y: 50}, 130, layout.Left)
	n := testDrawer().Connector(layout.Item{Kind: layout.KindConnector, Index: 1, Path: path})

	if n.Type != scene.TypeVector || n.Name != "Connector" {
		t.Errorf("connector = %s %s", n.Type, n.Name)
	}
	if n.StrokeCap != "ROUND" || !cmp.Equal(n.DashPattern, []float64{4, 4}) {
		t.Errorf("stroke = %s %v", n.StrokeCap, n.DashPattern)
	}
	if n.VectorPaths[0].Data != path.D() {
		t.Errorf("path = %q", n.VectorPaths[0].Data)
	}
	if b := *n.AbsoluteBoundingBox; b.X != -24 || b.Right() != 38 {
		t.Errorf("bounds = %v", b)
	}
}

func TestDrawDispatch(t *testing.T) {
	d := testDrawer()
	for kind, want := range map[layout.Kind]scene.NodeType{
		layout.KindMarker:    scene.TypeFrame,
		layout.KindCallout:   scene.TypeFrame,
		layout.KindConnector: scene.TypeVector,
	} {
		if got := d.Draw(layout.Item{Kind: kind, Index: 1, Width: 24, Height: 24}).Type; got != want {
			t.Errorf("Draw(%v) type = %s, want %s", kind, got, want)
		}
	}
}

func TestLoadFonts(t *testing.T) {
	d := testDrawer()
	boom := errors.New("boom")
	d.Load = func(context.Context) error { return boom }
	if err := d.LoadFonts(context.Background()); !errors.Is(err, boom) {
		t.Errorf("LoadFonts() error = %v", err)
	}
}
