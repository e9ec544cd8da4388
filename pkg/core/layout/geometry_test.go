package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/calloutgen/pkg/core/geom"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func approxPoint(a, b geom.Point) bool { return approx(a.X, b.X) && approx(a.Y, b.Y) }

func TestChooseSide(t *testing.T) {
	frame := geom.NewRect(0, 0, 400, 300)

	tests := []struct {
		name    string
		element geom.Rect
		want    Side
	}{
		{"left half", geom.NewRect(50, 50, 20, 20), Left},
		{"right half", geom.NewRect(300, 50, 40, 20), Right},
		{"exact centre goes right", geom.NewRect(190, 0, 20, 10), Right},
		{"just left of centre", geom.NewRect(189.5, 0, 20, 10), Left},
		{"outside frame left", geom.NewRect(-100, 0, 10, 10), Left},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChooseSide(tt.element, frame); got != tt.want {
				t.Errorf("ChooseSide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChooseSideOffsetFrame(t *testing.T) {
	frame := geom.NewRect(1000, 0, 200, 100)
	if got := ChooseSide(geom.NewRect(1010, 10, 10, 10), frame); got != Left {
		t.Errorf("ChooseSide() = %v, want left", got)
	}
	if got := ChooseSide(geom.NewRect(50, 10, 10, 10), geom.NewRect(0, 0, 100, 100)); got != Right {
		t.Errorf("ChooseSide() = %v, want right", got)
	}
}

func TestGeometryExample(t *testing.T) {
	cfg := DefaultConfig()
	frame := geom.NewRect(0, 0, 400, 300)
	element := geom.NewRect(50, 50, 20, 20)

	side := ChooseSide(element, frame)
	if side != Left {
		t.Fatalf("side = %v, want left", side)
	}

	marker := cfg.MarkerPosition(element, side)
	if marker != (geom.Point{X: 38, Y: 38}) {
		t.Errorf("marker = %+v, want {38 38}", marker)
	}

	callout := cfg.CalloutPosition(element, frame, side)
	if callout != (geom.Point{X: -154, Y: 50}) {
		t.Errorf("callout = %+v, want {-154 50}", callout)
	}
}

func TestMarkerPositionRight(t *testing.T) {
	cfg := DefaultConfig()
	got := cfg.MarkerPosition(geom.NewRect(300, 100, 40, 20), Right)
	if got != (geom.Point{X: 328, Y: 88}) {
		t.Errorf("MarkerPosition() = %+v, want {328 88}", got)
	}
}

func TestCalloutPositionRight(t *testing.T) {
	cfg := DefaultConfig()
	got := cfg.CalloutPosition(geom.NewRect(300, 100, 40, 20), geom.NewRect(0, 0, 400, 300), Right)
	if got != (geom.Point{X: 424, Y: 100}) {
		t.Errorf("CalloutPosition() = %+v, want {424 100}", got)
	}
}

func TestConnectorPath(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name    string
		marker  geom.Point
		callout geom.Point
		side    Side
		want    Path
	}{
		{
			name:    "left",
			marker:  geom.Point{X: 38, Y: 38},
			callout: geom.Point{X: -154, Y: 50},
			side:    Left,
			want: Path{
				Start: geom.Point{X: 38, Y: 50},
				C1:    geom.Point{X: 38 - 18.6, Y: 50},
				C2:    geom.Point{X: -24 + 18.6, Y: 66},
				End:   geom.Point{X: -24, Y: 66},
			},
		},
		{
			name:    "right",
			marker:  geom.Point{X: 328, Y: 88},
			callout: geom.Point{X: 424, Y: 100},
			side:    Right,
			want: Path{
				Start: geom.Point{X: 352, Y: 100},
				C1:    geom.Point{X: 352 + 21.6, Y: 100},
				C2:    geom.Point{X: 424 - 21.6, Y: 116},
				End:   geom.Point{X: 424, Y: 116},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.ConnectorPath(tt.marker, tt.callout, cfg.CalloutWidth, tt.side)
			if !approxPoint(got.Start, tt.want.Start) || !approxPoint(got.C1, tt.want.C1) ||
				!approxPoint(got.C2, tt.want.C2) || !approxPoint(got.End, tt.want.End) {
				t.Errorf("ConnectorPath() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConnectorPathZeroSpan(t *testing.T) {
	cfg := DefaultConfig()
	marker := geom.Point{X: 100, Y: 0}
	// The callout's inner edge sits exactly at the marker's outer edge.
	callout := geom.Point{X: 100 + cfg.MarkerSize, Y: 200}

	got := cfg.ConnectorPath(marker, callout, cfg.CalloutWidth, Right)
	for _, p := range []geom.Point{got.Start, got.C1, got.C2, got.End} {
		if !p.IsFinite() {
			t.Fatalf("ConnectorPath() produced non-finite point %+v", p)
		}
	}
	if got.C1 != got.Start || got.C2 != got.End {
		t.Errorf("zero span should collapse control points, got %+v", got)
	}
}

func TestPathD(t *testing.T) {
	p := Path{
		Start: geom.Point{X: 38, Y: 50},
		C1:    geom.Point{X: 19.5, Y: 50},
		C2:    geom.Point{X: -5.5, Y: 66},
		End:   geom.Point{X: -24, Y: 66},
	}
	want := "M 38 50 C 19.5 50 -5.5 66 -24 66"
	if got := p.D(); got != want {
		t.Errorf("D() = %q, want %q", got, want)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero marker", func(c *Config) { c.MarkerSize = 0 }, true},
		{"negative width", func(c *Config) { c.CalloutWidth = -1 }, true},
		{"negative gap", func(c *Config) { c.Gap = -2 }, true},
		{"zero tolerance", func(c *Config) { c.RowTolerance = 0 }, false},
		{"ratio above one", func(c *Config) { c.ControlRatio = 1.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
