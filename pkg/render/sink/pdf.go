package sink

import (
	"context"

	"github.com/matzehuels/calloutgen/pkg/render"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// RenderPDF converts the SVG rendering to PDF with rsvg-convert. Fonts are
// always embedded so the converter does not substitute faces.
func RenderPDF(ctx context.Context, page *scene.Page, opts ...Option) ([]byte, error) {
	svg := RenderSVG(page, append(opts, WithEmbeddedFonts())...)
	return render.ToPDF(ctx, svg)
}
