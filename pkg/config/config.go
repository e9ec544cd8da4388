// Package config loads calloutgen settings from a TOML file.
//
// A complete file looks like:
//
//	[layout]
//	marker_size = 24
//	callout_width = 130
//	gap = 24
//	row_tolerance = 50
//	connector_offset = 16
//	control_ratio = 0.3
//
//	[style]
//	callout_fill = "#fffaf0"
//	marker_fill = "#e84d3d"
//	body_font_size = 11
//
//	[render]
//	formats = ["svg"]
//	scale = 2
//	markdown = "plain"
//
// Every key is optional; missing keys keep their defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/calloutgen/pkg/core/layout"
	"github.com/matzehuels/calloutgen/pkg/core/render/callout"
	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// AppName names the per-user config and cache directories.
const AppName = "calloutgen"

// Config is the full settings file.
type Config struct {
	Layout layout.Config `toml:"layout"`
	Style  Style         `toml:"style"`
	Render Render        `toml:"render"`
}

// Style holds callout colours as hex strings plus typography.
type Style struct {
	CalloutFill   string `toml:"callout_fill"`
	CalloutStroke string `toml:"callout_stroke"`
	MarkerFill    string `toml:"marker_fill"`
	MarkerText    string `toml:"marker_text"`
	HeaderText    string `toml:"header_text"`
	BodyText      string `toml:"body_text"`
	PropertyText  string `toml:"property_text"`
	Connector     string `toml:"connector"`

	MarkerFontSize   float64   `toml:"marker_font_size"`
	HeaderFontSize   float64   `toml:"header_font_size"`
	BodyFontSize     float64   `toml:"body_font_size"`
	PropertyFontSize float64   `toml:"property_font_size"`
	CornerRadius     float64   `toml:"corner_radius"`
	PaddingX         float64   `toml:"padding_x"`
	PaddingY         float64   `toml:"padding_y"`
	ItemSpacing      float64   `toml:"item_spacing"`
	Dash             []float64 `toml:"dash"`
}

// Render holds output defaults.
type Render struct {
	Formats  []string `toml:"formats"`
	Scale    float64  `toml:"scale"`
	Markdown string   `toml:"markdown"`
}

// Default returns the built-in settings.
func Default() Config {
	s := callout.DefaultStyle()
	return Config{
		Layout: layout.DefaultConfig(),
		Style: Style{
			CalloutFill:      s.CalloutFill.Hex(),
			CalloutStroke:    s.CalloutStroke.Hex(),
			MarkerFill:       s.MarkerFill.Hex(),
			MarkerText:       s.MarkerText.Hex(),
			HeaderText:       s.HeaderText.Hex(),
			BodyText:         s.BodyText.Hex(),
			PropertyText:     s.PropertyText.Hex(),
			Connector:        s.Connector.Hex(),
			MarkerFontSize:   s.MarkerFontSize,
			HeaderFontSize:   s.HeaderFontSize,
			BodyFontSize:     s.BodyFontSize,
			PropertyFontSize: s.PropertyFontSize,
			CornerRadius:     s.CornerRadius,
			PaddingX:         s.PaddingX,
			PaddingY:         s.PaddingY,
			ItemSpacing:      s.ItemSpacing,
			Dash:             s.Dash,
		},
		Render: Render{
			Formats:  []string{"svg"},
			Scale:    2,
			Markdown: string(callout.TextRaw),
		},
	}
}

// DefaultPath returns the per-user config file location, honouring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, "config.toml"), nil
}

// Load reads the file at path over the defaults. A missing file is not an
// error when optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && optional {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if _, err := c.Style.Build(); err != nil {
		return err
	}
	if err := errors.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if c.Render.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.scale must be positive, got %g", c.Render.Scale)
	}
	switch callout.TextMode(c.Render.Markdown) {
	case callout.TextRaw, callout.TextPlain:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "render.markdown must be %q or %q, got %q",
			callout.TextRaw, callout.TextPlain, c.Render.Markdown)
	}
	return nil
}

// Build converts the style section into a drawing style.
func (s Style) Build() (callout.Style, error) {
	out := callout.Style{
		MarkerFontSize:   s.MarkerFontSize,
		HeaderFontSize:   s.HeaderFontSize,
		BodyFontSize:     s.BodyFontSize,
		PropertyFontSize: s.PropertyFontSize,
		CornerRadius:     s.CornerRadius,
		PaddingX:         s.PaddingX,
		PaddingY:         s.PaddingY,
		ItemSpacing:      s.ItemSpacing,
		Dash:             s.Dash,
	}
	colours := []struct {
		key string
		hex string
		dst *scene.Color
	}{
		{"callout_fill", s.CalloutFill, &out.CalloutFill},
		{"callout_stroke", s.CalloutStroke, &out.CalloutStroke},
		{"marker_fill", s.MarkerFill, &out.MarkerFill},
		{"marker_text", s.MarkerText, &out.MarkerText},
		{"header_text", s.HeaderText, &out.HeaderText},
		{"body_text", s.BodyText, &out.BodyText},
		{"property_text", s.PropertyText, &out.PropertyText},
		{"connector", s.Connector, &out.Connector},
	}
	for _, c := range colours {
		v, err := scene.ParseHex(c.hex)
		if err != nil {
			return out, errors.Wrap(errors.ErrCodeInvalidConfig, err, "style.%s", c.key)
		}
		*c.dst = v
	}

	for key, v := range map[string]float64{
		"marker_font_size":   s.MarkerFontSize,
		"header_font_size":   s.HeaderFontSize,
		"body_font_size":     s.BodyFontSize,
		"property_font_size": s.PropertyFontSize,
	} {
		if v <= 0 {
			return out, errors.New(errors.ErrCodeInvalidConfig, "style.%s must be positive, got %g", key, v)
		}
	}
	if s.CornerRadius < 0 || s.PaddingX < 0 || s.PaddingY < 0 || s.ItemSpacing < 0 {
		return out, errors.New(errors.ErrCodeInvalidConfig, "style spacing values cannot be negative")
	}
	return out, nil
}

// Drawer returns a callout drawer for these settings.
func (c Config) Drawer() (*callout.Drawer, error) {
	style, err := c.Style.Build()
	if err != nil {
		return nil, err
	}
	d := callout.NewDrawer()
	d.Style = style
	d.Text = callout.TextMode(c.Render.Markdown)
	return d, nil
}
