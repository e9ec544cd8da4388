// Package sink renders a whole page to SVG, PNG or PDF.
//
// Nodes created by the callout generator carry their own fills, strokes and
// text, and are drawn faithfully. Imported design nodes usually only carry
// bounds and are drawn as light outlines, which is enough context to read
// where each callout points.
//
// # Formats
//
//   - [RenderSVG]: vector output, one <g> per node with the node ID as
//     element ID. [WithEmbeddedFonts] inlines the Go font faces.
//   - [RenderPNG]: in-process rasterization; [WithScale] sets pixels per
//     point.
//   - [RenderPDF]: SVG converted by rsvg-convert (needs librsvg).
//
// [Render] dispatches on a format name:
//
//	data, err := sink.Render(ctx, page, "png", sink.WithScale(2))
package sink
