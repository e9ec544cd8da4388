package layout

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/calloutgen/pkg/core/geom"
)

// Side is the side of its frame a callout is placed on.
type Side int

const (
	Left Side = iota
	Right
)

// String returns "left" or "right".
func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// ChooseSide places the callout on the left when the element's centre lies
// strictly left of the frame's centre, and on the right otherwise.
func ChooseSide(element, frame geom.Rect) Side {
	if element.CenterX() < frame.CenterX() {
		return Left
	}
	return Right
}

// MarkerPosition returns the top-left corner of the marker square. The marker
// straddles the element's top corner on the chosen side.
func (c Config) MarkerPosition(bounds geom.Rect, side Side) geom.Point {
	half := c.MarkerSize / 2
	x := bounds.X - half
	if side == Right {
		x = bounds.X + bounds.Width - half
	}
	return geom.Point{X: x, Y: bounds.Y - half}
}

// CalloutPosition returns the top-left corner of the callout box. Callouts sit
// outside the frame and are vertically aligned with their target element.
func (c Config) CalloutPosition(target, frame geom.Rect, side Side) geom.Point {
	x := frame.X + frame.Width + c.Gap
	if side == Left {
		x = frame.X - c.CalloutWidth - c.Gap
	}
	return geom.Point{X: x, Y: target.Y}
}

// Path is a single cubic Bezier segment.
type Path struct {
	Start geom.Point `json:"start"`
	C1    geom.Point `json:"c1"`
	C2    geom.Point `json:"c2"`
	End   geom.Point `json:"end"`
}

// D renders the path as SVG path data.
func (p Path) D() string {
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, p.Start)
	b.WriteString(" C ")
	writePoint(&b, p.C1)
	b.WriteByte(' ')
	writePoint(&b, p.C2)
	b.WriteByte(' ')
	writePoint(&b, p.End)
	return b.String()
}

func writePoint(b *strings.Builder, p geom.Point) {
	b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
}

// ConnectorPath links the marker's outward edge midpoint to the callout's
// inward edge, ConnectorOffset below the callout's top. Control points are
// pushed horizontally by ControlRatio of the span, so a zero span collapses
// into a straight segment.
func (c Config) ConnectorPath(marker, callout geom.Point, calloutWidth float64, side Side) Path {
	start := geom.Point{X: marker.X, Y: marker.Y + c.MarkerSize/2}
	end := geom.Point{X: callout.X + calloutWidth, Y: callout.Y + c.ConnectorOffset}
	dir := -1.0
	if side == Right {
		start.X = marker.X + c.MarkerSize
		end.X = callout.X
		dir = 1
	}

	offset := math.Abs(end.X-start.X) * c.ControlRatio
	return Path{
		Start: start,
		C1:    geom.Point{X: start.X + dir*offset, Y: start.Y},
		C2:    geom.Point{X: end.X - dir*offset, Y: end.Y},
		End:   end,
	}
}
