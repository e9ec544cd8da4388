// Package render turns annotated pages into files people can share.
//
// # Overview
//
//   - [sink]: SVG, PNG and PDF output of a whole page, callouts included
//   - [nodelink]: a Graphviz diagram of a page's node tree, for inspecting
//     which nodes carry annotations
//
// # Format Conversion
//
// [ToPDF] converts any SVG to PDF using the external rsvg-convert tool (from
// librsvg). PNG output is rasterized in-process and needs no external tools.
//
//	svg := sink.RenderSVG(page)
//	pdf, err := render.ToPDF(ctx, svg)
package render
