// Package nodelink draws a page's node tree as a Graphviz diagram.
//
// The diagram answers "which nodes will get callouts": every node is a box
// labelled with its type and name, edges run from parent to child, and
// annotated nodes are highlighted with their annotation count.
//
// # Usage
//
//	dot := nodelink.ToDOT(page, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Pass the generated callout group's name in [Options].Hide to leave the
// generated nodes out of the picture.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF conversion requires librsvg (rsvg-convert).
package nodelink
