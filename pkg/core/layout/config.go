package layout

import (
	"github.com/matzehuels/calloutgen/pkg/errors"
)

// Default layout constants, in document units.
const (
	DefaultMarkerSize      = 24.0
	DefaultCalloutWidth    = 130.0
	DefaultGap             = 24.0
	DefaultRowTolerance    = 50.0
	DefaultConnectorOffset = 16.0
	DefaultControlRatio    = 0.3
)

// Config holds the visual constants of the layout. The zero value is not
// usable; start from [DefaultConfig].
type Config struct {
	// MarkerSize is the diameter of the numbered marker.
	MarkerSize float64 `toml:"marker_size" json:"marker_size"`
	// CalloutWidth is the fixed width of every callout box.
	CalloutWidth float64 `toml:"callout_width" json:"callout_width"`
	// Gap is the distance between a frame edge and its callouts.
	Gap float64 `toml:"gap" json:"gap"`
	// RowTolerance is the vertical distance under which two annotations are
	// numbered as one row, left to right.
	RowTolerance float64 `toml:"row_tolerance" json:"row_tolerance"`
	// ConnectorOffset is where the connector meets the callout, measured
	// down from the callout's top edge.
	ConnectorOffset float64 `toml:"connector_offset" json:"connector_offset"`
	// ControlRatio scales the horizontal span into the Bezier control offset.
	ControlRatio float64 `toml:"control_ratio" json:"control_ratio"`
}

// DefaultConfig returns the standard layout constants.
func DefaultConfig() Config {
	return Config{
		MarkerSize:      DefaultMarkerSize,
		CalloutWidth:    DefaultCalloutWidth,
		Gap:             DefaultGap,
		RowTolerance:    DefaultRowTolerance,
		ConnectorOffset: DefaultConnectorOffset,
		ControlRatio:    DefaultControlRatio,
	}
}

// Validate rejects configurations that would produce degenerate geometry.
func (c Config) Validate() error {
	switch {
	case c.MarkerSize <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "marker_size must be positive, got %g", c.MarkerSize)
	case c.CalloutWidth <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "callout_width must be positive, got %g", c.CalloutWidth)
	case c.Gap < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "gap cannot be negative, got %g", c.Gap)
	case c.RowTolerance < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "row_tolerance cannot be negative, got %g", c.RowTolerance)
	case c.ConnectorOffset < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "connector_offset cannot be negative, got %g", c.ConnectorOffset)
	case c.ControlRatio < 0 || c.ControlRatio > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "control_ratio must be within [0, 1], got %g", c.ControlRatio)
	}
	return nil
}
